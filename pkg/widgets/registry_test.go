package widgets

import (
	"testing"

	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Type: model.FieldTypeBoolean,
		Metadata: map[string]string{
			"widget": "custom-toggle",
		},
	}

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{
			name:   "boolean flag",
			field:  model.Field{Type: model.FieldTypeBoolean},
			expect: WidgetCheckbox,
		},
		{
			name: "enum array",
			field: model.Field{
				Type:  model.FieldTypeArray,
				Enum:  []any{"ROLE_USER"},
				Items: &model.Field{Type: model.FieldTypeString},
			},
			expect: WidgetMultiSelect,
		},
		{
			name: "free string array",
			field: model.Field{
				Type:  model.FieldTypeArray,
				Items: &model.Field{Type: model.FieldTypeString},
			},
			expect: WidgetTags,
		},
		{
			name: "object array",
			field: model.Field{
				Type: model.FieldTypeArray,
				Items: &model.Field{
					Type:   model.FieldTypeObject,
					Nested: []model.Field{{Name: "name", Type: model.FieldTypeString}},
				},
			},
			expect: WidgetRepeater,
		},
		{
			name:   "enum string",
			field:  model.Field{Type: model.FieldTypeString, Enum: []any{"INBOX"}},
			expect: WidgetSelect,
		},
		{
			name:   "plain string",
			field:  model.Field{Type: model.FieldTypeString},
			expect: WidgetText,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(tc.field)
			if !ok {
				t.Fatalf("expected resolution for %s", tc.name)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("toggle", 999, func(field model.Field) bool {
		return field.Type == model.FieldTypeBoolean
	})

	got, ok := reg.Resolve(model.Field{Type: model.FieldTypeBoolean})
	if !ok || got != "toggle" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}
}

func TestDecorator_VariantForms(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{variant.NameShared, variant.NamePerDynamic} {
		form, err := model.Build(variant.Default().MustGet(name))
		if err != nil {
			t.Fatalf("%s: build: %v", name, err)
		}
		if err := reg.Decorate(&form); err != nil {
			t.Fatalf("%s: decorate: %v", name, err)
		}

		want := map[string]string{
			"presentation":   WidgetSelect,
			"organization":   WidgetSelect,
			"authorities":    WidgetMultiSelect,
			"actions":        WidgetMultiSelect,
			"dynamics":       WidgetRepeater,
			"actionHandlers": WidgetTags,
		}
		for _, field := range form.Fields {
			expect, ok := want[field.Name]
			if !ok {
				continue
			}
			if field.Widget() != expect {
				t.Fatalf("%s: field %q widget = %q, want %q", name, field.Name, field.Widget(), expect)
			}
		}

		dynamics, _ := form.Field("dynamics")
		for _, nested := range dynamics.Items.Nested {
			expect := WidgetText
			if nested.Name == variant.DynamicActionHandlers {
				expect = WidgetTags
			}
			if nested.Widget() != expect {
				t.Fatalf("%s: nested %q widget = %q, want %q", name, nested.Name, nested.Widget(), expect)
			}
		}
	}
}
