package manifest_test

import (
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-viewbind/pkg/manifest"
	"github.com/goliatone/go-viewbind/pkg/provider"
	"github.com/goliatone/go-viewbind/pkg/testsupport"
)

const yamlManifest = `
bindings:
  - name: admin
    namespace: App.Composers
    prefix: admin
    steps:
      - compose: [[dashboard], [users.index, users.show]]
        create: [[profile]]
        with: [StatsComposer, AuditComposer]
      - prefix: ""
        compose: [[layout]]
        with: [NavComposer]
`

const jsonManifest = `{
  "bindings": [
    {
      "name": "shop",
      "prefix": "shop",
      "steps": [
        {"compose": [["cart"]], "with": ["CartComposer"]}
      ]
    }
  ]
}`

const hclManifest = `
binding "mail" {
  namespace = "Mail"

  step {
    create = [["welcome", "reset"]]
    with   = ["BrandingCreator"]
  }

  step {
    namespace = ""
    compose   = [["digest"]]
    with      = ["DigestComposer"]
  }
}
`

func TestLoadFS_AllFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"bindings/admin.yaml": {Data: []byte(yamlManifest)},
		"bindings/mail.hcl":   {Data: []byte(hclManifest)},
		"bindings/shop.json":  {Data: []byte(jsonManifest)},
		"bindings/README.md":  {Data: []byte("ignored")},
	}

	m, err := manifest.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"admin", "mail", "shop"}, m.Names()); diff != "" {
		t.Fatalf("binding names (-want +got):\n%s", diff)
	}

	rec := testsupport.NewRecorder()
	p := provider.New(rec,
		provider.WithLogger(slog.New(slog.DiscardHandler)),
		provider.WithDeclarations(m.Declarations()...),
	)
	if err := p.Boot(testsupport.Context()); err != nil {
		t.Fatalf("boot: %v", err)
	}

	rec.AssertCalls(t, []testsupport.Call{
		testsupport.Composer("App.Composers.StatsComposer", "admin.dashboard"),
		testsupport.Composer("App.Composers.AuditComposer", "admin.dashboard"),
		testsupport.Composer("App.Composers.StatsComposer", "admin.users.index", "admin.users.show"),
		testsupport.Composer("App.Composers.AuditComposer", "admin.users.index", "admin.users.show"),
		testsupport.Creator("App.Composers.StatsComposer", "admin.profile"),
		testsupport.Creator("App.Composers.AuditComposer", "admin.profile"),
		testsupport.Composer("App.Composers.NavComposer", "layout"),
		testsupport.Creator("Mail.BrandingCreator", "welcome", "reset"),
		testsupport.Composer("DigestComposer", "digest"),
		testsupport.Composer("CartComposer", "shop.cart"),
	})
}

func TestParse_RecordsSource(t *testing.T) {
	bindings, err := manifest.Parse([]byte(jsonManifest), "conf/shop.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(bindings) != 1 || bindings[0].Source != "conf/shop.json" {
		t.Fatalf("unexpected bindings: %+v", bindings)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "empty file",
			files: fstest.MapFS{"a.yaml": {Data: []byte("  \n")}},
			want:  "is empty",
		},
		{
			name: "missing name",
			files: fstest.MapFS{"a.yaml": {Data: []byte(`
bindings:
  - steps:
      - compose: [[home]]
        with: [C]
`)}},
			want: "has no name",
		},
		{
			name: "views without handlers",
			files: fstest.MapFS{"a.yaml": {Data: []byte(`
bindings:
  - name: a
    steps:
      - compose: [[home]]
`)}},
			want: "views declared without handlers",
		},
		{
			name: "handlers without views",
			files: fstest.MapFS{"a.yaml": {Data: []byte(`
bindings:
  - name: a
    steps:
      - with: [C]
`)}},
			want: "handlers declared without views",
		},
		{
			name: "empty view",
			files: fstest.MapFS{"a.yaml": {Data: []byte(`
bindings:
  - name: a
    steps:
      - create: [[home, ""]]
        with: [C]
`)}},
			want: "create group 0 contains an empty view at index 1",
		},
		{
			name: "empty group",
			files: fstest.MapFS{"a.yaml": {Data: []byte(`
bindings:
  - name: a
    steps:
      - compose: [[]]
        with: [C]
`)}},
			want: "compose group 0 is empty",
		},
		{
			name: "duplicate across files",
			files: fstest.MapFS{
				"a.json": {Data: []byte(`{"bindings":[{"name":"dup","steps":[]}]}`)},
				"b.yaml": {Data: []byte("bindings:\n  - name: dup\n")},
			},
			want: `duplicate binding "dup"`,
		},
		{
			name:  "invalid hcl",
			files: fstest.MapFS{"a.hcl": {Data: []byte(`binding {`)}},
			want:  "manifest: parse a.hcl",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := manifest.LoadFS(tc.files)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	m, err := manifest.LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil fs: %v", err)
	}
	if len(m.Bindings) != 0 || m.Declarations() != nil {
		t.Fatalf("expected empty manifest, got %+v", m)
	}
}

func TestIsManifestFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true,
		"a.YML":  true,
		"a.json": true,
		"a.hcl":  true,
		"a.tpl":  false,
		"a":      false,
	} {
		if got := manifest.IsManifestFile(path); got != want {
			t.Fatalf("IsManifestFile(%q): want %v, got %v", path, want, got)
		}
	}
}
