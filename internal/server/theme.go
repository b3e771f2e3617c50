package server

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-projection-editor/internal/config"
	"github.com/goliatone/go-projection-editor/pkg/render"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla/components"
)

const defaultThemeName = "projection-editor"

// ThemeFromConfig turns configured tokens into a page theme. It returns nil
// when neither a name nor tokens are set, which keeps the bundled look.
func ThemeFromConfig(cfg config.Theme) (*theme.RendererConfig, error) {
	if cfg.Name == "" && len(cfg.Tokens) == 0 {
		return nil, nil
	}
	name := cfg.Name
	if name == "" {
		name = defaultThemeName
	}

	manifest := &theme.Manifest{
		Name:   name,
		Tokens: cfg.Tokens,
	}
	selector := render.StaticSelector{Manifest: manifest, DefaultVariant: cfg.Variant}
	selection, err := selector.Select(name, cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("server: theme: %w", err)
	}
	return render.ThemeConfig(selection, components.DefaultPartials()), nil
}
