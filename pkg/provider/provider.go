package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-viewbind/pkg/binder"
)

// Errors returned while declaring or booting.
var (
	ErrAlreadyBooted    = errors.New("provider: already booted")
	ErrEmptyName        = errors.New("provider: declaration name is required")
	ErrNilDeclaration   = errors.New("provider: declaration func is required")
	ErrDuplicateDeclare = errors.New("provider: duplicate declaration")
)

// BindFunc declares view bindings on a binder.
type BindFunc func(b *binder.Binder) error

// Declaration is a named group of view bindings run at boot.
type Declaration struct {
	Name string
	Bind BindFunc
}

// Option customises the provider configuration.
type Option func(*Provider)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithBinderOptions forwards options to the underlying binder.
func WithBinderOptions(options ...binder.Option) Option {
	return func(p *Provider) {
		p.binderOptions = append(p.binderOptions, options...)
	}
}

// WithDeclarations queues declarations at construction. Invalid entries are
// reported by Boot.
func WithDeclarations(declarations ...Declaration) Option {
	return func(p *Provider) {
		p.initial = append(p.initial, declarations...)
	}
}

// Provider owns a binder and runs binding declarations against it once, in
// the order they were declared. Every declaration starts with an empty
// namespace, an empty prefix and no pending views.
type Provider struct {
	mu            sync.Mutex
	binder        *binder.Binder
	binderOptions []binder.Option
	declarations  []Declaration
	names         map[string]struct{}
	initial       []Declaration
	initErr       error
	booted        bool
	logger        *slog.Logger
}

// New constructs a Provider bound to registry.
func New(registry binder.Registry, options ...Option) *Provider {
	p := &Provider{
		names:  make(map[string]struct{}),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.binder = binder.New(registry, p.binderOptions...)
	for _, decl := range p.initial {
		if err := p.add(decl); err != nil && p.initErr == nil {
			p.initErr = err
		}
	}
	p.initial = nil
	return p
}

// Declare adds a named declaration. Names must be unique.
func (p *Provider) Declare(name string, fn BindFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.add(Declaration{Name: name, Bind: fn})
}

func (p *Provider) add(decl Declaration) error {
	if p.booted {
		return ErrAlreadyBooted
	}
	name := strings.TrimSpace(decl.Name)
	if name == "" {
		return ErrEmptyName
	}
	if decl.Bind == nil {
		return fmt.Errorf("%w: %q", ErrNilDeclaration, name)
	}
	if _, exists := p.names[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDeclare, name)
	}
	p.names[name] = struct{}{}
	decl.Name = name
	p.declarations = append(p.declarations, decl)
	return nil
}

// Boot runs every declaration. It stops at the first failing declaration;
// registrations made before the failure stay in the registry.
func (p *Provider) Boot(ctx context.Context) error {
	p.mu.Lock()
	if p.booted {
		p.mu.Unlock()
		return ErrAlreadyBooted
	}
	if p.initErr != nil {
		p.mu.Unlock()
		return p.initErr
	}
	p.booted = true
	declarations := append([]Declaration(nil), p.declarations...)
	p.mu.Unlock()

	// Declarations run unlocked so they may call back into the provider.
	p.logger.Debug("booting view bindings", "declarations", len(declarations))
	for _, decl := range declarations {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("provider: boot interrupted before %q: %w", decl.Name, err)
		}
		if err := p.run(decl); err != nil {
			p.logger.Error("view binding declaration failed", "declaration", decl.Name, "error", err)
			return fmt.Errorf("provider: declaration %q: %w", decl.Name, err)
		}
	}
	p.logger.Info("view bindings booted", "declarations", len(declarations))
	return nil
}

func (p *Provider) run(decl Declaration) error {
	b := p.binder.SetNamespace("").SetPrefix("").Reset()

	if err := decl.Bind(b); err != nil {
		b.Reset()
		return err
	}
	if b.State() == binder.StateAccumulating {
		compose, create := b.Pending()
		p.logger.Warn("declaration left views without callbacks",
			"declaration", decl.Name,
			"compose_groups", compose,
			"create_groups", create)
		b.Reset()
	}
	p.logger.Debug("view binding declaration applied", "declaration", decl.Name)
	return nil
}

// Binder exposes the underlying binder for hosts that bind outside Boot.
func (p *Provider) Binder() *binder.Binder {
	return p.binder
}

// Declarations returns declaration names in run order.
func (p *Provider) Declarations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, len(p.declarations))
	for idx, decl := range p.declarations {
		names[idx] = decl.Name
	}
	return names
}

// Booted reports whether Boot has run.
func (p *Provider) Booted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.booted
}
