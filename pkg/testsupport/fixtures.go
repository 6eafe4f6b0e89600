package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewbind/pkg/binder"
)

// Call kinds recorded by Recorder.
const (
	KindComposer = "composer"
	KindCreator  = "creator"
)

// Call captures a single registry invocation in a form go-cmp can compare.
// Function callbacks are recorded with Func set and an empty Handler.
type Call struct {
	Kind    string
	Views   []string
	Handler string
	Func    bool
}

// Recorder is a binder.Registry that records every call. Failures can be
// injected per handler name to exercise error propagation.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	fail  map[string]error
	funcs []binder.Func
}

var _ binder.Registry = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[string]error)}
}

// FailOn makes every registration of handler return err.
func (r *Recorder) FailOn(handler string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[handler] = err
	return r
}

// RegisterComposer implements binder.Registry.
func (r *Recorder) RegisterComposer(views []string, callback binder.Callback) error {
	return r.record(KindComposer, views, callback)
}

// RegisterCreator implements binder.Registry.
func (r *Recorder) RegisterCreator(views []string, callback binder.Callback) error {
	return r.record(KindCreator, views, callback)
}

func (r *Recorder) record(kind string, views []string, callback binder.Callback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.fail[callback.Name()]; ok && !callback.IsFunc() {
		return err
	}
	r.calls = append(r.calls, Call{
		Kind:    kind,
		Views:   append([]string(nil), views...),
		Handler: callback.Name(),
		Func:    callback.IsFunc(),
	})
	if callback.IsFunc() {
		r.funcs = append(r.funcs, callback.Func())
	}
	return nil
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Funcs returns the function callbacks received, in invocation order.
func (r *Recorder) Funcs() []binder.Func {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]binder.Func(nil), r.funcs...)
}

// AssertCalls fails the test when the recorded calls differ from want.
func (r *Recorder) AssertCalls(t *testing.T, want []Call) {
	t.Helper()
	if diff := cmp.Diff(want, r.Calls()); diff != "" {
		t.Fatalf("registry calls mismatch (-want +got):\n%s", diff)
	}
}

// Composer builds an expected composer call for a handler name.
func Composer(handler string, views ...string) Call {
	return Call{Kind: KindComposer, Views: views, Handler: handler}
}

// Creator builds an expected creator call for a handler name.
func Creator(handler string, views ...string) Call {
	return Call{Kind: KindCreator, Views: views, Handler: handler}
}

// WriteFiles materialises files (relative path -> content) under a temp dir
// and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir fixture dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return dir
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
