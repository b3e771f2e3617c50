package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/render"
	"github.com/goliatone/go-projection-editor/pkg/renderers/jsonview"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-projection-editor/pkg/validation"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithVariants resolves variant names from registry instead of the embedded
// definitions.
func WithVariants(registry *variant.Registry) Option {
	return func(o *Orchestrator) {
		o.variants = registry
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithRenderer registers an extra renderer, such as the interactive terminal
// renderer, next to the defaults.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		if renderer != nil {
			o.extra = append(o.extra, renderer)
		}
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithUIDecorators registers decorators that run against the generated form
// model before rendering.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithThemeSelector resolves a theme for every request. Requests pick the
// theme and variant through Request.Theme and Request.ThemeVariant.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks replaces the partials used when a theme does not define
// one. The vanilla component templates are the default.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// Orchestrator builds an editor for a variant, optionally seeded with a
// document, and renders it. Defaults are the embedded variants, the vanilla
// and JSON renderers and the built-in form builder.
type Orchestrator struct {
	variants        *variant.Registry
	builder         model.Builder
	registry        *render.Registry
	extra           []render.Renderer
	defaultRenderer string
	decorators      []model.Decorator
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one rendering.
type Request struct {
	// Variant names the schema variant. Empty selects the shared variant.
	Variant string

	// Document is JSON text imported before rendering. Empty renders the
	// variant defaults. A malformed document is reported through the import
	// feedback instead of failing the request.
	Document string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Theme and ThemeVariant are passed to the theme selector, when one is
	// configured.
	Theme        string
	ThemeVariant string

	// RenderOptions carries extra per-request data. Snapshot, ImportFeedback,
	// Issues and Theme are filled by the orchestrator.
	RenderOptions render.RenderOptions
}

// Generate runs the pipeline and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	ed, feedback, err := o.Editor(req.Variant, req.Document)
	if err != nil {
		return nil, err
	}

	form, err := o.builder.Build(ed.Variant())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if err := model.Apply(&form, o.decorators...); err != nil {
		return nil, fmt.Errorf("orchestrator: decorate form: %w", err)
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	options.Snapshot = ed.Snapshot()
	options.ImportFeedback = feedback
	options.Issues = validation.Validate(ed.Variant(), ed.Document()).Issues
	if options.Variants == nil {
		options.Variants = o.variants.List()
	}
	if options.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Editor resolves the variant and imports document into a fresh editor. The
// returned feedback is the decoder message when document is malformed, in
// which case the editor keeps the variant defaults.
func (o *Orchestrator) Editor(variantName, document string) (*editor.Editor, string, error) {
	if variantName == "" {
		variantName = variant.NameShared
	}
	v, err := o.variants.Get(variantName)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: %w", err)
	}
	ed := editor.New(v)
	if document == "" {
		return ed, "", nil
	}
	return ed, editor.Feedback(ed.Import(document)), nil
}

// Validate imports document into variantName and reports its schema issues.
// A malformed document is returned as an error.
func (o *Orchestrator) Validate(variantName, document string) (validation.Result, error) {
	if variantName == "" {
		variantName = variant.NameShared
	}
	v, err := o.variants.Get(variantName)
	if err != nil {
		return validation.Result{}, fmt.Errorf("orchestrator: %w", err)
	}
	ed := editor.New(v)
	if err := ed.Import(document); err != nil {
		return validation.Result{}, err
	}
	return validation.Validate(v, ed.Document()), nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	return o.registry.List()
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	renderer, err := o.registry.Resolve(name, o.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(req.Theme, req.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.ThemeConfig(selection, o.themeFallbacks), nil
}

func (o *Orchestrator) applyDefaults() {
	if o.variants == nil {
		o.variants = variant.Default()
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = components.DefaultPartials()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		page, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(page)
		o.registry.MustRegister(jsonview.New(jsonview.WithTrailingNewline()))
	}
	for _, renderer := range o.extra {
		if err := o.registry.Register(renderer); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: %w", err)
			return
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
