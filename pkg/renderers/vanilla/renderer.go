package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/render"
	rendertemplate "github.com/goliatone/go-projection-editor/pkg/render/template"
	"github.com/goliatone/go-projection-editor/pkg/render/template/gotemplate"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-projection-editor/pkg/widgets"
)

// ThemeStylesheetKey is the theme asset key of a stylesheet that replaces the
// bundled one.
const ThemeStylesheetKey = "vanilla.stylesheet"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	widgets          *widgets.Registry
}

// WithTemplatesFS supplies templates that take precedence over the embedded
// bundle. Missing files fall back to the bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads override templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the built-in component set.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithWidgetRegistry replaces the registry that assigns widgets to fields
// without an explicit one.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// Renderer produces a self-contained HTML page for the editor. Every control
// is a small form posting to the routes declared in routes.go, so the page
// works without JavaScript; the bundled script only auto-submits selects and
// wires the copy button.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	widgets    *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOptions := []gotemplate.Option{gotemplate.WithExtension(".tmpl")}
		if cfg.templateFS != nil {
			engineOptions = append(engineOptions, gotemplate.WithFS(cfg.templateFS))
		}
		engineOptions = append(engineOptions, gotemplate.WithFS(TemplatesFS()))

		engine, err := gotemplate.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	return &Renderer{
		templates:  renderer,
		components: cfg.components,
		widgets:    cfg.widgets,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render lays out every control of form with the values of the snapshot in
// options, followed by the result and the import box.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	if err := r.widgets.Decorate(&form); err != nil {
		return nil, fmt.Errorf("vanilla renderer: decorate widgets: %w", err)
	}

	issues := render.MapIssues(form, options.Issues)
	fields := newComponentRenderer(r.templates, r.components, options, issues)

	controls := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		markup, err := fields.render(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		controls = append(controls, markup)
	}

	stylesheets, scripts := fields.assets()
	assetBase := actionURL(options.BasePath, RouteAssets)
	scriptData := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		src := script.Src
		if !strings.HasPrefix(src, "/") && !strings.Contains(src, "://") {
			src = assetBase + "/" + src
		}
		scriptData = append(scriptData, map[string]any{"src": src, "defer": script.Defer})
	}

	title := form.Title
	if title == "" {
		title = form.Variant
	}

	data := map[string]any{
		"title":           title,
		"description":     form.Description,
		"variant":         form.Variant,
		"variants":        variantLinks(options.BasePath, form.Variant, options.Variants),
		"controls":        controls,
		"export":          options.Snapshot.Export,
		"import_feedback": options.ImportFeedback,
		"notice":          options.Notice,
		"form_issues":     issues.Form,
		"scripts":         scriptData,
		"actions": map[string]any{
			"import": actionURL(options.BasePath, RouteImport),
			"reset":  actionURL(options.BasePath, RouteReset),
			"export": actionURL(options.BasePath, RouteExport),
		},
	}

	if cfg := options.Theme; cfg != nil {
		data["theme"] = cfg.Theme
		data["css_vars"] = cssVars(cfg.CSSVars)
		if cfg.AssetURL != nil {
			if href := cfg.AssetURL(ThemeStylesheetKey); href != "" {
				stylesheets = append([]string{href}, stylesheets...)
			}
		}
	}
	data["stylesheets"] = stylesheets
	if len(stylesheets) == 0 {
		data["inline_css"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate("templates/editor.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func variantLinks(basePath, current string, names []string) []map[string]any {
	if len(names) < 2 {
		return nil
	}
	links := make([]map[string]any, 0, len(names))
	for _, name := range names {
		links = append(links, map[string]any{
			"href":   actionURL(basePath) + "?variant=" + url.QueryEscape(name),
			"label":  name,
			"active": name == current,
		})
	}
	return links
}

// cssVars serialises custom properties in key order.
func cssVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, key := range keys {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(vars[key])
		builder.WriteByte(';')
	}
	return builder.String()
}
