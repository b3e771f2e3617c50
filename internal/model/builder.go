package model

import (
	"fmt"

	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// Builder converts schema variants into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.EmptyOption != "" {
		opts.EmptyOption = options.EmptyOption
	}
	return &Builder{opts: opts}
}

// Build lays out the controls of v in display order: single choices,
// multi-selects, flags, the shared handler list when the variant has one, and
// the repeatable dynamics group last.
func (b *Builder) Build(v variant.Variant) (FormModel, error) {
	if err := v.Validate(); err != nil {
		return FormModel{}, fmt.Errorf("model: %w", err)
	}

	form := FormModel{
		Variant:     v.Name,
		Title:       v.Title,
		Description: v.Description,
		Metadata: map[string]string{
			"dynamicsPath": v.DynamicsPath,
			"handlers":     string(v.Placement),
		},
	}

	for _, name := range v.ScalarFields() {
		vocab, _ := v.Vocabulary(name)
		form.Fields = append(form.Fields, Field{
			Name:        name,
			Path:        name,
			Type:        FieldTypeString,
			Label:       b.opts.Labeler(name),
			Placeholder: b.opts.EmptyOption,
			Default:     "",
			Enum:        enumValues(vocab),
		})
	}

	for _, name := range v.MultiFields() {
		vocab, _ := v.Vocabulary(name)
		form.Fields = append(form.Fields, Field{
			Name:  name,
			Path:  name,
			Type:  FieldTypeArray,
			Label: b.opts.Labeler(name),
			Enum:  enumValues(vocab),
			Items: &Field{Type: FieldTypeString},
		})
	}

	for _, flag := range v.Flags {
		label := flag.Label
		if label == "" {
			label = b.opts.Labeler(flag.Name)
		}
		form.Fields = append(form.Fields, Field{
			Name:    flag.Name,
			Path:    flag.Name,
			Type:    FieldTypeBoolean,
			Label:   label,
			Default: flag.Default,
		})
	}

	if v.SharedHandlers() {
		field := b.handlersField(v.SharedHandlersPath, HandlersShared)
		form.Fields = append(form.Fields, field)
	}

	form.Fields = append(form.Fields, b.dynamicsField(v))
	return form, nil
}

func (b *Builder) handlersField(path, scope string) Field {
	return Field{
		Name:  variant.DynamicActionHandlers,
		Path:  path,
		Type:  FieldTypeArray,
		Label: b.opts.Labeler(variant.DynamicActionHandlers),
		Items: &Field{Type: FieldTypeString},
		Metadata: map[string]string{
			MetaHandlers: scope,
		},
	}
}

func (b *Builder) dynamicsField(v variant.Variant) Field {
	var nested []Field
	for _, name := range variant.DynamicTextFields() {
		nested = append(nested, Field{
			Name:    name,
			Path:    name,
			Type:    FieldTypeString,
			Label:   b.opts.Labeler(name),
			Default: "",
		})
	}
	if !v.SharedHandlers() {
		nested = append(nested, b.handlersField(variant.DynamicActionHandlers, HandlersDynamic))
	}

	return Field{
		Name:  variant.FieldDynamics,
		Path:  v.DynamicsPath,
		Type:  FieldTypeArray,
		Label: b.opts.Labeler(variant.FieldDynamics),
		Items: &Field{
			Type:   FieldTypeObject,
			Nested: nested,
		},
		Metadata: map[string]string{
			MetaRepeaterLabel: "Dynamic",
			MetaRemovable:     "last",
		},
	}
}

func enumValues(vocab []string) []any {
	out := make([]any, 0, len(vocab))
	for _, option := range vocab {
		out = append(out, option)
	}
	return out
}
