package widgets

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-projection-editor/pkg/model"
)

// Built-in widget names. Each has a vanilla component of the same name.
const (
	WidgetCheckbox    = "checkbox"
	WidgetSelect      = "select"
	WidgetMultiSelect = "multiselect"
	WidgetTags        = "tags"
	WidgetRepeater    = "repeater"
	WidgetText        = "text"
)

// Matcher reports whether a widget can edit field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
}

// Registry assigns a widget to every field of a form model. An explicit
// "widget" entry in Metadata or UIHints wins; otherwise the matcher with the
// highest priority that accepts the field decides, earlier registrations
// first on ties.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry with the built-in matchers: checkbox for
// flags, multiselect for enum lists, repeater for record lists, tags for
// free-text lists, select for enum strings and text for the rest.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher. Rules stay sorted by descending priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	name = strings.TrimSpace(name)
	if r == nil || matcher == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	at := sort.Search(len(r.rules), func(i int) bool {
		return r.rules[i].priority < priority
	})
	r.rules = slices.Insert(r.rules, at, rule{name: name, priority: priority, match: matcher})
}

// Resolve returns the widget for field.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := explicitWidget(field); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator. Resolved widgets are written to
// Metadata["widget"] and UIHints["widget"] of every field, nested ones
// included, without replacing values already set.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	form.Fields = slices.Clone(form.Fields)
	for i := range form.Fields {
		r.decorate(&form.Fields[i])
	}
	return nil
}

func (r *Registry) decorate(field *model.Field) {
	if widget, ok := r.Resolve(*field); ok {
		field.Metadata = withDefault(field.Metadata, "widget", widget)
		field.UIHints = withDefault(field.UIHints, "widget", widget)
	}
	if field.Items != nil {
		item := *field.Items
		r.decorate(&item)
		field.Items = &item
	}
	if len(field.Nested) > 0 {
		nested := slices.Clone(field.Nested)
		for i := range nested {
			r.decorate(&nested[i])
		}
		field.Nested = nested
	}
}

func withDefault(values map[string]string, key, value string) map[string]string {
	if values == nil {
		values = make(map[string]string)
	}
	if values[key] == "" {
		values[key] = value
	}
	return values
}

func explicitWidget(field model.Field) string {
	if widget := strings.TrimSpace(field.Metadata["widget"]); widget != "" {
		return widget
	}
	return strings.TrimSpace(field.UIHints["widget"])
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeBoolean
	})

	r.Register(WidgetMultiSelect, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeArray && len(field.Enum) > 0
	})

	r.Register(WidgetRepeater, 75, func(field model.Field) bool {
		if field.Type != model.FieldTypeArray || field.Items == nil {
			return false
		}
		return field.Items.Type == model.FieldTypeObject && len(field.Items.Nested) > 0
	})

	r.Register(WidgetTags, 70, func(field model.Field) bool {
		if field.Type != model.FieldTypeArray {
			return false
		}
		return field.Items == nil || field.Items.Type == model.FieldTypeString
	})

	r.Register(WidgetSelect, 60, func(field model.Field) bool {
		return field.Type == model.FieldTypeString && len(field.Enum) > 0
	})

	r.Register(WidgetText, 10, func(field model.Field) bool {
		return field.Type == model.FieldTypeString
	})
}
