package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/widgets"
)

const (
	templatePrefix = "templates/components/"

	// ScriptName is the shared runtime that auto-submits control forms and
	// wires the copy button.
	ScriptName = "projection-editor.js"
)

// PartialKeys maps widget names to the theme partial keys that can replace
// their templates.
var PartialKeys = map[string]string{
	widgets.WidgetSelect:      "forms.select",
	widgets.WidgetMultiSelect: "forms.multiselect",
	widgets.WidgetCheckbox:    "forms.checkbox",
	widgets.WidgetTags:        "forms.tags",
	widgets.WidgetText:        "forms.text",
	widgets.WidgetRepeater:    "forms.repeater",
}

// DefaultPartials returns the built-in template for every partial key, for
// use as theme fallbacks.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(PartialKeys))
	for widget, key := range PartialKeys {
		out[key] = templatePrefix + widget + ".tmpl"
	}
	return out
}

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()
	runtime := []Script{{Src: ScriptName, Defer: true}}

	for widget, key := range PartialKeys {
		registry.MustRegister(widget, Descriptor{
			Renderer: templateComponentRenderer(key, templatePrefix+widget+".tmpl"),
			Scripts:  runtime,
		})
	}
	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, control Control, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, map[string]any{
			"control": control,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
