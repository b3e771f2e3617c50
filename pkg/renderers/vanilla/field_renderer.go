package vanilla

import (
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/render"
	"github.com/goliatone/go-projection-editor/pkg/render/template"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-projection-editor/pkg/variant"
	"github.com/goliatone/go-projection-editor/pkg/widgets"
)

// componentRenderer turns form fields into control markup for one render pass.
type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
	snapshot  editor.Snapshot
	issues    render.IssueMapping
	basePath  string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, options render.RenderOptions, issues render.IssueMapping) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	var partials map[string]string
	if options.Theme != nil {
		partials = cloneStringMap(options.Theme.Partials)
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		snapshot:       options.Snapshot,
		issues:         issues,
		basePath:       options.BasePath,
		usedComponents: make(map[string]struct{}),
	}
}

// render emits the markup of a top-level field.
func (r *componentRenderer) render(field model.Field) (string, error) {
	control, err := r.topLevelControl(field)
	if err != nil {
		return "", err
	}
	return r.renderControl(field, control)
}

func (r *componentRenderer) renderControl(field model.Field, control components.Control) (string, error) {
	markup, err := r.registry.Render(control, components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
	})
	if err != nil {
		return "", fmt.Errorf("field %q: %w", control.Path, err)
	}
	r.usedComponents[control.Widget] = struct{}{}
	return buildFieldMarkup(field, control, markup), nil
}

func (r *componentRenderer) topLevelControl(field model.Field) (components.Control, error) {
	control := r.baseControl(field, field.Path)

	switch control.Widget {
	case widgets.WidgetSelect:
		control.Action = actionURL(r.basePath, field.Name)
		control.Value = r.snapshot.Scalars[field.Path]
		control.Options = selectOptions(field, control.Value)
	case widgets.WidgetMultiSelect:
		control.Action = actionURL(r.basePath, field.Name)
		control.Options = multiOptions(field, r.snapshot.Multi[field.Path])
	case widgets.WidgetCheckbox:
		control.Action = actionURL(r.basePath, RouteFlags, field.Name)
		control.Checked = r.snapshot.Flags[field.Path]
	case widgets.WidgetTags:
		control.Scope = ScopeShared
		control.Tags = tagsOf(r.snapshot.SharedHandlers)
		control.AddAction = actionURL(r.basePath, RouteHandlersAdd)
		control.RemoveAction = actionURL(r.basePath, RouteHandlersRemove)
	case widgets.WidgetRepeater:
		records, err := r.records(field)
		if err != nil {
			return components.Control{}, err
		}
		control.Records = records
		control.CanRemove = r.snapshot.CanRemoveDynamic
		control.AddAction = actionURL(r.basePath, RouteDynamicsAdd)
		control.RemoveAction = actionURL(r.basePath, RouteDynamicsRemoveLast)
	default:
		return components.Control{}, fmt.Errorf("field %q: widget %q cannot be used at the top level", field.Name, control.Widget)
	}
	return control, nil
}

// records renders every dynamic with its nested controls.
func (r *componentRenderer) records(field model.Field) ([]components.Record, error) {
	label := field.Metadata[model.MetaRepeaterLabel]
	if label == "" {
		label = field.Label
	}

	var nested []model.Field
	if field.Items != nil {
		nested = field.Items.Nested
	}

	records := make([]components.Record, 0, len(r.snapshot.Dynamics))
	for index, dynamic := range r.snapshot.Dynamics {
		record := components.Record{
			Index: strconv.Itoa(index),
			Title: fmt.Sprintf("%s #%d", label, index+1),
		}
		for _, child := range nested {
			control, err := r.nestedControl(field, child, index, dynamic)
			if err != nil {
				return nil, err
			}
			markup, err := r.renderControl(child, control)
			if err != nil {
				return nil, err
			}
			record.Controls = append(record.Controls, markup)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *componentRenderer) nestedControl(parent, child model.Field, index int, dynamic editor.Dynamic) (components.Control, error) {
	control := r.baseControl(child, indexedPath(parent.Path, index, child.Path))

	switch control.Widget {
	case widgets.WidgetText:
		control.Action = actionURL(r.basePath, RouteDynamics, strconv.Itoa(index))
		control.Field = child.Name
		control.Value = dynamicText(dynamic, child.Name)
	case widgets.WidgetTags:
		control.Scope = strconv.Itoa(index)
		control.Tags = tagsOf(dynamic.ActionHandlers)
		control.AddAction = actionURL(r.basePath, RouteHandlersAdd)
		control.RemoveAction = actionURL(r.basePath, RouteHandlersRemove)
	default:
		return components.Control{}, fmt.Errorf("field %q: widget %q cannot be nested", child.Name, control.Widget)
	}
	return control, nil
}

func (r *componentRenderer) baseControl(field model.Field, path string) components.Control {
	return components.Control{
		ID:          controlID(path),
		Name:        field.Name,
		Path:        path,
		Label:       field.Label,
		Description: field.Description,
		Widget:      field.Widget(),
		Placeholder: field.Placeholder,
		Warnings:    r.issues.For(path),
	}
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

// selectOptions lists the empty choice first. A current value outside the
// vocabulary (possible after an import) is kept as an extra selected option.
func selectOptions(field model.Field, current string) []components.Option {
	vocab := field.EnumStrings()
	options := make([]components.Option, 0, len(vocab)+2)
	options = append(options, components.Option{Value: "", Label: field.Placeholder, Selected: current == ""})
	for _, value := range vocab {
		options = append(options, components.Option{Value: value, Label: value, Selected: value == current})
	}
	if current != "" && !slices.Contains(vocab, current) {
		options = append(options, components.Option{Value: current, Label: current, Selected: true})
	}
	return options
}

func multiOptions(field model.Field, current []string) []components.Option {
	vocab := field.EnumStrings()
	options := make([]components.Option, 0, len(vocab))
	for _, value := range vocab {
		options = append(options, components.Option{Value: value, Label: value, Selected: slices.Contains(current, value)})
	}
	for _, value := range current {
		if value != "" && !slices.Contains(vocab, value) {
			options = append(options, components.Option{Value: value, Label: value, Selected: true})
		}
	}
	return options
}

func tagsOf(values []string) []components.Tag {
	tags := make([]components.Tag, 0, len(values))
	for index, value := range values {
		tags = append(tags, components.Tag{Index: strconv.Itoa(index), Text: value})
	}
	return tags
}

func dynamicText(dynamic editor.Dynamic, name string) string {
	switch name {
	case variant.DynamicName:
		return dynamic.Name
	case variant.DynamicView:
		return dynamic.View
	case variant.DynamicContainer:
		return dynamic.Container
	default:
		return ""
	}
}

func buildFieldMarkup(field model.Field, control components.Control, markup string) string {
	var builder strings.Builder
	builder.Grow(len(markup) + 256)

	builder.WriteString(`<div class="pe-field" data-component="`)
	builder.WriteString(html.EscapeString(control.Widget))
	builder.WriteString(`" data-path="`)
	builder.WriteString(html.EscapeString(control.Path))
	builder.WriteString("\">\n")

	if !componentHandlesChrome(control.Widget) && strings.TrimSpace(control.Label) != "" {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(control.ID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(control.Label))
		builder.WriteString("</label>\n")
	} else if control.Widget == widgets.WidgetRepeater && strings.TrimSpace(control.Label) != "" {
		builder.WriteString(`    <h2 class="pe-group-title">`)
		builder.WriteString(html.EscapeString(control.Label))
		builder.WriteString("</h2>\n")
	}

	for _, line := range strings.Split(markup, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" {
		builder.WriteString(`    <small class="pe-description">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</small>\n")
	}

	if len(control.Warnings) > 0 {
		builder.WriteString(`    <ul class="pe-warnings" role="note">`)
		for _, warning := range control.Warnings {
			builder.WriteString("<li>")
			builder.WriteString(html.EscapeString(warning))
			builder.WriteString("</li>")
		}
		builder.WriteString("</ul>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
