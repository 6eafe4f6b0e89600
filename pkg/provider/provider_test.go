package provider_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewbind/pkg/binder"
	"github.com/goliatone/go-viewbind/pkg/provider"
	"github.com/goliatone/go-viewbind/pkg/testsupport"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestProvider_BootsDeclarationsInOrder(t *testing.T) {
	rec := testsupport.NewRecorder()
	p := provider.New(rec, provider.WithLogger(quietLogger()))

	mustDeclare(t, p, "stub", func(b *binder.Binder) error {
		return b.Compose("testview").WithHandlers("TestComposer")
	})
	mustDeclare(t, p, "admin", func(b *binder.Binder) error {
		return b.SetNamespace("Admin").SetPrefix("admin").Create("home").WithHandlers("HomeCreator")
	})

	if err := p.Boot(testsupport.Context()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer("TestComposer", "testview"),
		testsupport.Creator("Admin.HomeCreator", "admin.home"),
	})
	if diff := cmp.Diff([]string{"stub", "admin"}, p.Declarations()); diff != "" {
		t.Fatalf("declarations (-want +got):\n%s", diff)
	}
	if !p.Booted() {
		t.Fatalf("expected provider to report booted")
	}
}

func TestProvider_ResetsSettingsBetweenDeclarations(t *testing.T) {
	rec := testsupport.NewRecorder()
	p := provider.New(rec,
		provider.WithLogger(quietLogger()),
		provider.WithDeclarations(
			provider.Declaration{Name: "first", Bind: func(b *binder.Binder) error {
				return b.SetNamespace("ns").SetPrefix("pre").Compose("a").WithHandlers("A")
			}},
			provider.Declaration{Name: "second", Bind: func(b *binder.Binder) error {
				if b.Namespace() != "" || b.Prefix() != "" {
					t.Errorf("settings leaked: namespace=%q prefix=%q", b.Namespace(), b.Prefix())
				}
				return b.Compose("b").WithHandlers("B")
			}},
		),
	)

	if err := p.Boot(testsupport.Context()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer("ns.A", "pre.a"),
		testsupport.Composer("B", "b"),
	})
}

func TestProvider_DiscardsDanglingViews(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	rec := testsupport.NewRecorder()
	p := provider.New(rec, provider.WithLogger(logger))
	mustDeclare(t, p, "dangling", func(b *binder.Binder) error {
		b.Compose("orphan")
		return nil
	})
	mustDeclare(t, p, "next", func(b *binder.Binder) error {
		return b.Compose("kept").WithHandlers("K")
	})

	if err := p.Boot(testsupport.Context()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer("K", "kept"),
	})
	if !strings.Contains(logs.String(), "declaration=dangling") {
		t.Fatalf("expected warning for dangling declaration, got %q", logs.String())
	}
}

func TestProvider_DeclarationErrorStopsBoot(t *testing.T) {
	boom := errors.New("unknown view")
	rec := testsupport.NewRecorder().FailOn("Broken", boom)
	p := provider.New(rec, provider.WithLogger(quietLogger()))

	mustDeclare(t, p, "ok", func(b *binder.Binder) error {
		return b.Compose("a").WithHandlers("A")
	})
	mustDeclare(t, p, "bad", func(b *binder.Binder) error {
		return b.Compose("b").WithHandlers("Broken")
	})
	mustDeclare(t, p, "skipped", func(b *binder.Binder) error {
		return b.Compose("c").WithHandlers("C")
	})

	err := p.Boot(testsupport.Context())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped registry error, got %v", err)
	}
	if !strings.Contains(err.Error(), `declaration "bad"`) {
		t.Fatalf("expected declaration name in error, got %v", err)
	}

	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer("A", "a"),
	})
	if err := p.Boot(testsupport.Context()); !errors.Is(err, provider.ErrAlreadyBooted) {
		t.Fatalf("expected ErrAlreadyBooted on second boot, got %v", err)
	}
}

func TestProvider_DeclareValidation(t *testing.T) {
	p := provider.New(testsupport.NewRecorder(), provider.WithLogger(quietLogger()))
	noop := func(*binder.Binder) error { return nil }

	if err := p.Declare("  ", noop); !errors.Is(err, provider.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := p.Declare("nil", nil); !errors.Is(err, provider.ErrNilDeclaration) {
		t.Fatalf("expected ErrNilDeclaration, got %v", err)
	}
	mustDeclare(t, p, "views", noop)
	if err := p.Declare("views", noop); !errors.Is(err, provider.ErrDuplicateDeclare) {
		t.Fatalf("expected ErrDuplicateDeclare, got %v", err)
	}

	if err := p.Boot(testsupport.Context()); err != nil {
		t.Fatalf("boot: %v", err)
	}
	if err := p.Declare("late", noop); !errors.Is(err, provider.ErrAlreadyBooted) {
		t.Fatalf("expected ErrAlreadyBooted for late declaration, got %v", err)
	}
}

func TestProvider_DeclarationCallsBackIntoProvider(t *testing.T) {
	rec := testsupport.NewRecorder()
	p := provider.New(rec, provider.WithLogger(quietLogger()))

	var (
		lateErr error
		booted  bool
		names   []string
	)
	mustDeclare(t, p, "outer", func(b *binder.Binder) error {
		lateErr = p.Declare("late", func(*binder.Binder) error { return nil })
		booted = p.Booted()
		names = p.Declarations()
		return b.Compose("a").WithHandlers("A")
	})

	done := make(chan error, 1)
	go func() { done <- p.Boot(testsupport.Context()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("boot: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("boot did not return while a declaration used the provider")
	}

	if !errors.Is(lateErr, provider.ErrAlreadyBooted) {
		t.Fatalf("expected ErrAlreadyBooted for declaration added during boot, got %v", lateErr)
	}
	if !booted {
		t.Fatalf("expected provider to report booted during boot")
	}
	if diff := cmp.Diff([]string{"outer"}, names); diff != "" {
		t.Fatalf("declarations (-want +got):\n%s", diff)
	}
	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer("A", "a"),
	})
}

func TestProvider_InvalidInitialDeclaration(t *testing.T) {
	p := provider.New(testsupport.NewRecorder(),
		provider.WithLogger(quietLogger()),
		provider.WithDeclarations(provider.Declaration{Name: "broken"}),
	)
	if err := p.Boot(testsupport.Context()); !errors.Is(err, provider.ErrNilDeclaration) {
		t.Fatalf("expected ErrNilDeclaration from boot, got %v", err)
	}
}

func TestProvider_HonoursCancellation(t *testing.T) {
	rec := testsupport.NewRecorder()
	p := provider.New(rec, provider.WithLogger(quietLogger()))
	mustDeclare(t, p, "never", func(b *binder.Binder) error {
		return b.Compose("a").WithHandlers("A")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Boot(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	rec.AssertCalls(t, nil)
}

func TestProvider_BinderOptions(t *testing.T) {
	rec := testsupport.NewRecorder()
	p := provider.New(rec,
		provider.WithLogger(quietLogger()),
		provider.WithBinderOptions(binder.WithNamespaceSeparator(`\`)),
	)
	mustDeclare(t, p, "ns", func(b *binder.Binder) error {
		return b.SetNamespace("App").Compose("home").WithHandlers("Nav")
	})
	if err := p.Boot(testsupport.Context()); err != nil {
		t.Fatalf("boot: %v", err)
	}
	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer(`App\Nav`, "home"),
	})
	if p.Binder() == nil {
		t.Fatalf("expected binder to be exposed")
	}
}

func mustDeclare(t *testing.T, p *provider.Provider, name string, fn provider.BindFunc) {
	t.Helper()
	if err := p.Declare(name, fn); err != nil {
		t.Fatalf("declare %s: %v", name, err)
	}
}
