package binder

import (
	"errors"
)

const defaultSeparator = "."

// ErrNilRegistry is returned by With when the binder was built without a
// registry.
var ErrNilRegistry = errors.New("binder: registry is required")

// Registry records composer and creator callbacks against view names. Errors
// returned by an implementation reach the caller of With unchanged.
type Registry interface {
	RegisterComposer(views []string, callback Callback) error
	RegisterCreator(views []string, callback Callback) error
}

// State describes whether the binder holds views waiting for callbacks.
type State int

const (
	// StateIdle means no views are pending.
	StateIdle State = iota
	// StateAccumulating means at least one Compose or Create group is pending.
	StateAccumulating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	default:
		return "unknown"
	}
}

// Option configures a Binder at construction time.
type Option func(*config)

type config struct {
	namespaceSep string
	prefixSep    string
}

// WithNamespaceSeparator sets the string placed between the namespace and a
// handler name. Defaults to ".".
func WithNamespaceSeparator(sep string) Option {
	return func(cfg *config) {
		cfg.namespaceSep = sep
	}
}

// WithPrefixSeparator sets the string placed between the prefix and a view
// name. Defaults to ".".
func WithPrefixSeparator(sep string) Option {
	return func(cfg *config) {
		cfg.prefixSep = sep
	}
}

// settings survive With calls.
type settings struct {
	namespace string
	prefix    string
}

// batch is dropped by every With call.
type batch struct {
	compose [][]string
	create  [][]string
}

func (b batch) empty() bool {
	return len(b.compose) == 0 && len(b.create) == 0
}

// Binder queues view groups and binds them to callbacks on the registry.
type Binder struct {
	registry Registry
	cfg      config
	settings settings
	pending  batch
}

// New constructs a Binder that forwards registrations to registry.
func New(registry Registry, options ...Option) *Binder {
	cfg := config{
		namespaceSep: defaultSeparator,
		prefixSep:    defaultSeparator,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Binder{
		registry: registry,
		cfg:      cfg,
	}
}

// SetNamespace replaces the namespace applied to handler references. An empty
// namespace disables qualification.
func (b *Binder) SetNamespace(namespace string) *Binder {
	b.settings.namespace = namespace
	return b
}

// SetPrefix replaces the prefix applied to view names. An empty prefix
// disables prefixing.
func (b *Binder) SetPrefix(prefix string) *Binder {
	b.settings.prefix = prefix
	return b
}

// Namespace returns the current namespace.
func (b *Binder) Namespace() string {
	return b.settings.namespace
}

// Prefix returns the current prefix.
func (b *Binder) Prefix() string {
	return b.settings.prefix
}

// Compose queues views as one group to bind to composers on the next With.
func (b *Binder) Compose(views ...string) *Binder {
	b.pending.compose = append(b.pending.compose, b.applyPrefix(views))
	return b
}

// Create queues views as one group to bind to creators on the next With.
func (b *Binder) Create(views ...string) *Binder {
	b.pending.create = append(b.pending.create, b.applyPrefix(views))
	return b
}

// With binds every pending group to each callback, composer groups first,
// then creator groups. Handler references are qualified with the current
// namespace. The pending groups are cleared before With returns, also when
// the registry rejects a registration; registrations made before the failure
// are kept.
func (b *Binder) With(callbacks ...Callback) error {
	pending := b.pending
	b.pending = batch{}

	if pending.empty() {
		return nil
	}
	if b.registry == nil {
		return ErrNilRegistry
	}

	qualified := b.applyNamespace(callbacks)

	for _, views := range pending.compose {
		if err := fanOut(views, qualified, b.registry.RegisterComposer); err != nil {
			return err
		}
	}
	for _, views := range pending.create {
		if err := fanOut(views, qualified, b.registry.RegisterCreator); err != nil {
			return err
		}
	}
	return nil
}

// WithHandlers is shorthand for With(Handlers(names...)...).
func (b *Binder) WithHandlers(names ...string) error {
	return b.With(Handlers(names...)...)
}

// Reset drops pending groups without registering them. Namespace and prefix
// are kept.
func (b *Binder) Reset() *Binder {
	b.pending = batch{}
	return b
}

// State reports whether groups are waiting for a With call.
func (b *Binder) State() State {
	if b.pending.empty() {
		return StateIdle
	}
	return StateAccumulating
}

// Pending returns the number of queued composer and creator groups.
func (b *Binder) Pending() (compose, create int) {
	return len(b.pending.compose), len(b.pending.create)
}

func (b *Binder) applyPrefix(views []string) []string {
	out := make([]string, len(views))
	if b.settings.prefix == "" {
		copy(out, views)
		return out
	}
	for idx, view := range views {
		out[idx] = b.settings.prefix + b.cfg.prefixSep + view
	}
	return out
}

func (b *Binder) applyNamespace(callbacks []Callback) []Callback {
	out := make([]Callback, len(callbacks))
	for idx, callback := range callbacks {
		out[idx] = callback.Qualify(b.settings.namespace, b.cfg.namespaceSep)
	}
	return out
}

func fanOut(views []string, callbacks []Callback, register func([]string, Callback) error) error {
	if len(views) == 0 {
		return nil
	}
	for _, callback := range callbacks {
		group := make([]string, len(views))
		copy(group, views)
		if err := register(group, callback); err != nil {
			return err
		}
	}
	return nil
}
