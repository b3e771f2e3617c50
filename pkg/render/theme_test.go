package render

import (
	"testing"

	theme "github.com/goliatone/go-theme"
)

func testManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			"partials/select.tpl": "themes/acme/select.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"vanilla.stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"vanilla.stylesheet": "theme.dark.css",
					},
				},
			},
		},
	}
}

func TestThemeConfig_MergesVariant(t *testing.T) {
	selection, err := StaticSelector{Manifest: testManifest()}.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	cfg := ThemeConfig(selection, map[string]string{
		"partials/select.tpl": "partials/select.tpl",
		"partials/tags.tpl":   "partials/tags.tpl",
	})
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials["partials/select.tpl"] != "themes/acme/select.tpl" {
		t.Fatalf("manifest template should override fallback, got %q", cfg.Partials["partials/select.tpl"])
	}
	if cfg.Partials["partials/tags.tpl"] != "partials/tags.tpl" {
		t.Fatalf("fallback partial missing")
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("variant tokens not applied: %v / %v", cfg.Tokens, cfg.CSSVars)
	}
	if got := cfg.AssetURL("vanilla.stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestStaticSelector(t *testing.T) {
	selector := StaticSelector{Manifest: testManifest(), DefaultVariant: "dark"}

	selection, err := selector.Select("", "unknown")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Variant != "dark" {
		t.Fatalf("expected default variant, got %q", selection.Variant)
	}
	if _, err := selector.Select("other", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if _, err := (StaticSelector{}).Select("", ""); err == nil {
		t.Fatalf("expected error without manifest")
	}
	if ThemeConfig(nil, nil) != nil {
		t.Fatalf("expected nil config for nil selection")
	}
}
