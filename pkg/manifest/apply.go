package manifest

import (
	"github.com/goliatone/go-viewbind/pkg/binder"
	"github.com/goliatone/go-viewbind/pkg/provider"
)

// Apply runs the binding's steps against b, starting from the binding's
// namespace and prefix.
func (bnd Binding) Apply(b *binder.Binder) error {
	b.SetNamespace(bnd.Namespace).SetPrefix(bnd.Prefix)

	for _, step := range bnd.Steps {
		if step.Namespace != nil {
			b.SetNamespace(*step.Namespace)
		}
		if step.Prefix != nil {
			b.SetPrefix(*step.Prefix)
		}
		for _, group := range step.Compose {
			b.Compose(group...)
		}
		for _, group := range step.Create {
			b.Create(group...)
		}
		if len(step.With) == 0 {
			continue
		}
		if err := b.WithHandlers(step.With...); err != nil {
			return err
		}
	}
	return nil
}

// Declaration adapts the binding for a provider.
func (bnd Binding) Declaration() provider.Declaration {
	return provider.Declaration{
		Name: bnd.Name,
		Bind: bnd.Apply,
	}
}

// Declarations returns one provider declaration per binding, in load order.
func (m *Manifest) Declarations() []provider.Declaration {
	if m == nil || len(m.Bindings) == 0 {
		return nil
	}
	out := make([]provider.Declaration, len(m.Bindings))
	for idx, binding := range m.Bindings {
		out[idx] = binding.Declaration()
	}
	return out
}

// Names returns binding names in load order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Bindings))
	for idx, binding := range m.Bindings {
		names[idx] = binding.Name
	}
	return names
}
