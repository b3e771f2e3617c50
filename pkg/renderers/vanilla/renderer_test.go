package vanilla

import (
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/render"
	"github.com/goliatone/go-projection-editor/pkg/testsupport"
	"github.com/goliatone/go-projection-editor/pkg/validation"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

func renderEditor(t *testing.T, ed *editor.Editor, options render.RenderOptions, opts ...Option) string {
	t.Helper()

	renderer, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	form := testsupport.MustBuildForm(t, ed.Variant().Name)
	options.Snapshot = ed.Snapshot()

	out, err := renderer.Render(testsupport.Context(), form, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_SharedDefaults(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NameShared))
	html := renderEditor(t, ed, render.RenderOptions{BasePath: "/editor"})

	assertContains(t, html,
		`<form class="pe-control-form" method="post" action="/editor/presentation" data-autosubmit>`,
		`<option value="" selected>NONE</option>`,
		`<option value="INBOX">INBOX</option>`,
		`action="/editor/authorities"`,
		`<select id="pe-actions" name="value" class="pe-select" multiple>`,
		`action="/editor/flags/createExecutionLog"`,
		`Create execution log`,
		`action="/editor/handlers/add"`,
		`<input type="hidden" name="scope" value="shared">`,
		`<button type="submit">Add dynamic</button>`,
		`<h2>Result</h2>`,
		`data-copy-target="pe-result">Copy</button>`,
		`<label for="pe-import">Initial value</label>`,
		`<script src="/editor/assets/projection-editor.js" defer></script>`,
		`<legend>Dynamic #1</legend>`,
		`<button type="submit">Delete last dynamic</button>`,
		`.pe-editor {`,
	)
	assertNotContains(t, html, "Dynamic #2", `checked`)
}

func TestRenderer_HidesRemoveWithoutDynamics(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NameShared))
	if removed, err := ed.RemoveLastDynamic(); err != nil || !removed {
		t.Fatalf("remove last dynamic: removed=%v err=%v", removed, err)
	}
	html := renderEditor(t, ed, render.RenderOptions{})

	assertContains(t, html, `<button type="submit">Add dynamic</button>`)
	assertNotContains(t, html, "Delete last dynamic", "<legend>")
}

func TestRenderer_ResultShowsEscapedExport(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NameShared))
	if err := ed.SetPresentation("INBOX"); err != nil {
		t.Fatalf("set presentation: %v", err)
	}
	html := renderEditor(t, ed, render.RenderOptions{})

	assertContains(t, html,
		`<option value="INBOX" selected>INBOX</option>`,
		`&quot;presentation&quot;: &quot;INBOX&quot;`,
	)
}

func TestRenderer_DynamicsAndHandlers(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NamePerDynamic))
	if err := ed.AppendDynamic(); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ed.AppendDynamic(); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ed.SetDynamicField(1, variant.DynamicView, "orders <list>"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	if _, err := ed.AppendHandler(editor.DynamicScope(1), "onSubmit"); err != nil {
		t.Fatalf("append handler: %v", err)
	}

	html := renderEditor(t, ed, render.RenderOptions{})

	assertContains(t, html,
		`<legend>Dynamic #1</legend>`,
		`<legend>Dynamic #2</legend>`,
		`<form class="pe-control-form" method="post" action="/dynamics/1">`,
		`<input type="hidden" name="field" value="view">`,
		`id="pe-dynamics-1-view" name="value" class="pe-input" value="orders &lt;list&gt;"`,
		`<input type="hidden" name="scope" value="1">`,
		`<span>onSubmit</span>`,
		`<input type="hidden" name="index" value="0">`,
		`<button type="submit">Delete last dynamic</button>`,
	)
	assertNotContains(t, html, `action="/flags/`, `value="shared"`)
}

func TestRenderer_ImportFeedbackAndNotice(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NameShared))
	html := renderEditor(t, ed, render.RenderOptions{
		ImportFeedback: "unexpected end of JSON input",
		Notice:         "Import failed",
	})

	assertContains(t, html,
		`<textarea id="pe-import" name="text" rows="12">unexpected end of JSON input</textarea>`,
		`<p class="pe-notice" role="status">Import failed</p>`,
	)
}

func TestRenderer_Issues(t *testing.T) {
	v := testsupport.MustVariant(t, variant.NameShared)
	ed := editor.New(v)
	if err := ed.Import(`{"presentation":"ARCHIVED","authorities":[],"actions":[],"createExecutionLog":false,"dynamics":{"actionHandlers":[],"containers":[]},"extra":1}`); err != nil {
		t.Fatalf("import: %v", err)
	}
	result := validation.Validate(v, ed.Document())
	if result.Valid {
		t.Fatalf("expected issues for the imported document")
	}

	html := renderEditor(t, ed, render.RenderOptions{Issues: result.Issues})

	assertContains(t, html,
		`<option value="ARCHIVED" selected>ARCHIVED</option>`,
		`<ul class="pe-warnings" role="note">`,
	)
}

func TestRenderer_Theme(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NameShared))
	cfg := render.ThemeConfig(&theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"pe-accent": "#ff5500"},
			Assets: theme.Assets{
				Prefix: "/static/acme",
				Files:  map[string]string{ThemeStylesheetKey: "acme.css"},
			},
		},
	}, nil)

	html := renderEditor(t, ed, render.RenderOptions{Theme: cfg})

	assertContains(t, html,
		`data-theme="acme"`,
		`<style>:root { --pe-accent: #ff5500; }</style>`,
		`<link rel="stylesheet" href="/static/acme/acme.css">`,
	)
	assertNotContains(t, html, ".pe-editor {")
}

func TestRenderer_TemplateOverrides(t *testing.T) {
	overrides := fstest.MapFS{
		"templates/components/checkbox.tmpl": {Data: []byte(`<span class="custom-flag">{{ control.label }}={{ control.checked }}</span>`)},
	}
	ed := editor.New(testsupport.MustVariant(t, variant.NameShared))
	if err := ed.SetFlag("createExecutionLog", true); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	html := renderEditor(t, ed, render.RenderOptions{}, WithTemplatesFS(overrides))
	assertContains(t, html,
		`<span class="custom-flag">Create execution log=True</span>`,
		`<button type="submit">Add dynamic</button>`,
	)
}

func TestRenderer_VariantLinks(t *testing.T) {
	ed := editor.New(testsupport.MustVariant(t, variant.NamePerDynamic))
	html := renderEditor(t, ed, render.RenderOptions{
		BasePath: "/editor",
		Variants: []string{variant.NameShared, variant.NamePerDynamic},
	})

	assertContains(t, html,
		`<a href="/editor?variant=shared">shared</a>`,
		`<a href="/editor?variant=per-dynamic" aria-current="page">per-dynamic</a>`,
	)
}
