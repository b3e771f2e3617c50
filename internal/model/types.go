package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Metadata keys set by the builder.
const (
	MetaHandlers      = "handlers"
	MetaRepeaterLabel = "repeaterLabel"
	MetaRemovable     = "removable"
)

// Handler scopes recorded under MetaHandlers.
const (
	HandlersShared  = "shared"
	HandlersDynamic = "dynamic"
)

// Field models one control of the editor. Path is the dotted document path the
// control reads and writes; nested fields of a repeatable group use paths
// relative to their record.
type Field struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// EnumStrings returns the enum values as strings.
func (f Field) EnumStrings() []string {
	out := make([]string, 0, len(f.Enum))
	for _, value := range f.Enum {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Widget returns the resolved widget name, if any.
func (f Field) Widget() string {
	if f.UIHints != nil && f.UIHints["widget"] != "" {
		return f.UIHints["widget"]
	}
	if f.Metadata != nil {
		return f.Metadata["widget"]
	}
	return ""
}

// FormModel is the top-level representation renderers consume. One FormModel
// describes every control of a variant; values come from the editor snapshot
// passed alongside it.
type FormModel struct {
	Variant     string            `json:"variant"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Field returns the top-level field with name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
