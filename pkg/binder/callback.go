package binder

import (
	"context"
	"fmt"
)

// Func is an invocable composer or creator. The binder forwards it to the
// registry untouched and never calls it.
type Func func(ctx context.Context, view string, data map[string]any) error

// Callback references a composer or creator. It holds either a symbolic
// handler name, which the binder qualifies with the current namespace, or a
// Func, which is passed through as is.
type Callback struct {
	name string
	fn   Func
}

// Handler references a composer or creator by name.
func Handler(name string) Callback {
	return Callback{name: name}
}

// Fn wraps an invocable callback.
func Fn(fn Func) Callback {
	return Callback{fn: fn}
}

// Handlers converts names into handler references, preserving order.
func Handlers(names ...string) []Callback {
	if len(names) == 0 {
		return nil
	}
	out := make([]Callback, len(names))
	for idx, name := range names {
		out[idx] = Handler(name)
	}
	return out
}

// Name returns the handler name. It is empty for function callbacks.
func (c Callback) Name() string {
	return c.name
}

// Func returns the wrapped function, or nil for handler references.
func (c Callback) Func() Func {
	return c.fn
}

// IsFunc reports whether the callback is invocable.
func (c Callback) IsFunc() bool {
	return c.fn != nil
}

// IsZero reports whether the callback carries neither a name nor a function.
func (c Callback) IsZero() bool {
	return c.fn == nil && c.name == ""
}

// Qualify prefixes a handler reference with namespace joined by sep. Function
// callbacks and empty namespaces leave the callback unchanged.
func (c Callback) Qualify(namespace, sep string) Callback {
	if c.IsFunc() || c.name == "" || namespace == "" {
		return c
	}
	return Callback{name: namespace + sep + c.name}
}

// String renders the handler name, or a placeholder for functions.
func (c Callback) String() string {
	if c.IsFunc() {
		return fmt.Sprintf("func(%p)", c.fn)
	}
	return c.name
}
