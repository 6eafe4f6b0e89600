package viewbind

import (
	"io/fs"

	"github.com/goliatone/go-viewbind/pkg/binder"
	"github.com/goliatone/go-viewbind/pkg/manifest"
	"github.com/goliatone/go-viewbind/pkg/provider"
	"github.com/goliatone/go-viewbind/pkg/registry"
)

// Binder aliases binder.Binder so callers can stay on the top-level package.
type Binder = binder.Binder

// Callback references a composer or creator, by name or as a function.
type Callback = binder.Callback

// Func is an invocable composer or creator.
type Func = binder.Func

// Registry is the collaborator that records bindings.
type Registry = binder.Registry

// Declaration is a named group of bindings run by a Provider.
type Declaration = provider.Declaration

// Handler references a composer or creator by name.
func Handler(name string) Callback {
	return binder.Handler(name)
}

// Fn wraps an invocable composer or creator.
func Fn(fn Func) Callback {
	return binder.Fn(fn)
}

// NewBinder exposes the binder constructor from the top-level module.
func NewBinder(reg Registry, options ...binder.Option) *Binder {
	return binder.New(reg, options...)
}

// NewRegistry returns the in-memory view registry.
func NewRegistry(options ...registry.Option) *registry.Registry {
	return registry.New(options...)
}

// NewProvider constructs a provider that boots declarations against reg.
func NewProvider(reg Registry, options ...provider.Option) *provider.Provider {
	return provider.New(reg, options...)
}

// LoadManifest reads binding files from fsys and returns them as provider
// declarations, ready for provider.WithDeclarations.
func LoadManifest(fsys fs.FS) ([]Declaration, error) {
	m, err := manifest.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return m.Declarations(), nil
}
