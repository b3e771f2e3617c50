package projectioneditor

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-projection-editor/pkg/orchestrator"
	"github.com/goliatone/go-projection-editor/pkg/render"
)

// RenderOptions describes per-request data renderers can use, such as a
// status notice or the variant switch links.
type RenderOptions = render.RenderOptions

// Request describes one rendering through the orchestrator.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the editor page for variantName with document
// imported. An empty document renders the variant defaults.
func GenerateHTML(ctx context.Context, variantName, document string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Variant:  variantName,
		Document: document,
		Renderer: "vanilla",
	})
}

// Export imports document into variantName and returns the editor result: the
// document indented with two spaces and keys sorted.
func Export(ctx context.Context, variantName, document string, options ...orchestrator.Option) (string, error) {
	gen := orchestrator.New(options...)
	out, err := gen.Generate(ctx, orchestrator.Request{
		Variant:  variantName,
		Document: document,
		Renderer: "json",
	})
	return string(out), err
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
