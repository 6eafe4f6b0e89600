package registry

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ygrebnov/errorc"

	"github.com/goliatone/go-viewbind/pkg/binder"
)

// Kind distinguishes composer registrations from creator registrations.
type Kind string

// Registration kinds.
const (
	KindComposer Kind = "composer"
	KindCreator  Kind = "creator"
)

// Registration is one recorded (views, callback) binding.
type Registration struct {
	ID       string
	Kind     Kind
	Views    []string
	Callback binder.Callback
}

// Option configures a Registry.
type Option func(*Registry)

// WithTemplates makes the registry reject concrete view names that have no
// template in fsys. A view "admin.users" maps to "admin/users"+ext. Wildcard
// patterns are not checked.
func WithTemplates(fsys fs.FS, ext string) Option {
	return func(r *Registry) {
		r.templates = fsys
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.templateExt = ext
	}
}

// WithMetrics registers registration counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.metricsReg = reg
	}
}

// WithIDGenerator overrides the registration ID source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithLogger sets the logger used for debug output on registration.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry records composer and creator callbacks by view name or pattern.
// It implements binder.Registry and is safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	registrations []Registration
	index         map[string]int

	templates   fs.FS
	templateExt string
	metricsReg  prometheus.Registerer
	metrics     *metrics
	newID       func() string
	logger      *slog.Logger
}

var _ binder.Registry = (*Registry)(nil)

// New creates an empty registry instance.
func New(options ...Option) *Registry {
	r := &Registry{
		index:  make(map[string]int),
		newID:  uuid.NewString,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.metricsReg != nil {
		r.metrics = newMetrics(r.metricsReg, r.logger)
	}
	return r
}

// RegisterComposer records callback as a composer for views.
func (r *Registry) RegisterComposer(views []string, callback binder.Callback) error {
	return r.register(KindComposer, views, callback)
}

// RegisterCreator records callback as a creator for views.
func (r *Registry) RegisterCreator(views []string, callback binder.Callback) error {
	return r.register(KindCreator, views, callback)
}

func (r *Registry) register(kind Kind, views []string, callback binder.Callback) error {
	if err := r.validate(kind, views, callback); err != nil {
		r.metrics.failed(kind)
		return err
	}

	entry := Registration{
		ID:       r.newID(),
		Kind:     kind,
		Views:    append([]string(nil), views...),
		Callback: callback,
	}

	r.mu.Lock()
	if _, exists := r.index[entry.ID]; exists {
		r.mu.Unlock()
		r.metrics.failed(kind)
		return errorc.With(ErrDuplicateID,
			errorc.String(ErrorFieldID, entry.ID),
			errorc.String(ErrorFieldKind, string(kind)),
		)
	}
	r.index[entry.ID] = len(r.registrations)
	r.registrations = append(r.registrations, entry)
	r.mu.Unlock()

	r.metrics.registered(kind)
	r.logger.Debug("view callback registered",
		"kind", kind,
		"views", entry.Views,
		"callback", callback.String(),
		"id", entry.ID)
	return nil
}

func (r *Registry) validate(kind Kind, views []string, callback binder.Callback) error {
	if len(views) == 0 {
		return errorc.With(ErrNoViews, errorc.String(ErrorFieldKind, string(kind)))
	}
	if callback.IsZero() {
		return errorc.With(ErrEmptyCallback, errorc.String(ErrorFieldKind, string(kind)))
	}
	for _, view := range views {
		if strings.TrimSpace(view) == "" {
			return errorc.With(ErrEmptyView,
				errorc.String(ErrorFieldKind, string(kind)),
				errorc.String(ErrorFieldCallback, callback.String()),
			)
		}
		if isPattern(view) {
			if !doublestar.ValidatePattern(toPath(view)) {
				return errorc.With(ErrInvalidPattern, errorc.String(ErrorFieldView, view))
			}
			continue
		}
		if err := r.checkTemplate(view); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) checkTemplate(view string) error {
	if r.templates == nil {
		return nil
	}
	name := toPath(view) + r.templateExt
	_, err := fs.Stat(r.templates, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return errorc.With(ErrTemplateNotFound,
			errorc.String(ErrorFieldView, view),
			errorc.String(ErrorFieldTemplate, name),
		)
	default:
		return errorc.With(ErrTemplateNotFound,
			errorc.String(ErrorFieldView, view),
			errorc.String(ErrorFieldTemplate, name),
			errorc.Error(ErrorFieldCause, err),
		)
	}
}

// Composers returns the composer callbacks bound to view, directly or through
// a pattern, in registration order.
func (r *Registry) Composers(view string) []binder.Callback {
	return r.lookup(KindComposer, view)
}

// Creators returns the creator callbacks bound to view, directly or through a
// pattern, in registration order.
func (r *Registry) Creators(view string) []binder.Callback {
	return r.lookup(KindCreator, view)
}

func (r *Registry) lookup(kind Kind, view string) []binder.Callback {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []binder.Callback
	for _, entry := range r.registrations {
		if entry.Kind != kind {
			continue
		}
		for _, candidate := range entry.Views {
			if Match(candidate, view) {
				out = append(out, entry.Callback)
				break
			}
		}
	}
	return out
}

// Get retrieves a registration by ID.
func (r *Registry) Get(id string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.index[id]
	if !ok {
		return Registration{}, false
	}
	return cloneRegistration(r.registrations[idx]), true
}

// Forget removes a registration by ID, reporting whether it existed.
func (r *Registry) Forget(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.index[id]
	if !ok {
		return false
	}
	r.registrations = append(r.registrations[:idx], r.registrations[idx+1:]...)
	delete(r.index, id)
	for pos := idx; pos < len(r.registrations); pos++ {
		r.index[r.registrations[pos].ID] = pos
	}
	return true
}

// List returns every registration in insertion order.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, len(r.registrations))
	for idx, entry := range r.registrations {
		out[idx] = cloneRegistration(entry)
	}
	return out
}

// Views returns a sorted list of distinct view names and patterns.
func (r *Registry) Views() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, entry := range r.registrations {
		for _, view := range entry.Views {
			seen[view] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether any callback of kind is bound to view.
func (r *Registry) Has(kind Kind, view string) bool {
	return len(r.lookup(kind, view)) > 0
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// Match reports whether a registered view name or pattern covers view. In
// patterns "*" matches one dotted segment and "**" any number of segments.
func Match(pattern, view string) bool {
	if !isPattern(pattern) {
		return pattern == view
	}
	ok, err := doublestar.Match(toPath(pattern), toPath(view))
	return err == nil && ok
}

func isPattern(view string) bool {
	return strings.ContainsAny(view, "*?[{")
}

func toPath(view string) string {
	return path.Clean(strings.ReplaceAll(view, ".", "/"))
}

func cloneRegistration(entry Registration) Registration {
	entry.Views = append([]string(nil), entry.Views...)
	return entry
}
