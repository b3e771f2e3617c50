package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig derives renderer configuration from a theme selection. Manifest
// templates, tokens and asset files are overlaid by the selected variant;
// fallbacks fill partials the theme does not define. Tokens become CSS custom
// properties ("brand" is exposed as "--brand").
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}

	prefix := ""
	files := make(map[string]string)
	if manifest := selection.Manifest; manifest != nil {
		if cfg.Theme == "" {
			cfg.Theme = manifest.Name
		}
		overlay(cfg.Partials, manifest.Templates)
		overlay(cfg.Tokens, manifest.Tokens)
		overlay(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			overlay(cfg.Partials, variant.Templates)
			overlay(cfg.Tokens, variant.Tokens)
			overlay(files, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

func overlay(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
}

// StaticSelector serves selections from a single manifest, which is how the
// editor is themed from configuration.
type StaticSelector struct {
	Manifest       *theme.Manifest
	DefaultVariant string
}

var _ theme.ThemeSelector = StaticSelector{}

// Select returns the manifest when name is empty or matches it. An unknown
// variant falls back to the default variant, then to the base manifest.
func (s StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.Manifest == nil {
		return nil, errors.New("render: theme manifest is not configured")
	}
	if name != "" && name != s.Manifest.Name {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant == "" {
		variant = s.DefaultVariant
	}
	if _, ok := s.Manifest.Variants[variant]; !ok {
		variant = s.DefaultVariant
	}
	return &theme.Selection{
		Theme:    s.Manifest.Name,
		Variant:  variant,
		Manifest: s.Manifest,
	}, nil
}
