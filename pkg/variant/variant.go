package variant

import (
	"errors"
	"fmt"
	"strings"
)

// Field names shared by every projection variant.
const (
	FieldPresentation = "presentation"
	FieldOrganization = "organization"
	FieldAuthorities  = "authorities"
	FieldActions      = "actions"
	FieldDynamics     = "dynamics"
)

// Dynamic record keys.
const (
	DynamicName           = "name"
	DynamicView           = "view"
	DynamicContainer      = "container"
	DynamicActionHandlers = "actionHandlers"
)

// HandlerPlacement selects where action handler tags live in the document.
type HandlerPlacement string

const (
	// HandlersShared keeps one document-level tag list next to the dynamics.
	HandlersShared HandlerPlacement = "shared"
	// HandlersPerDynamic keeps a tag list on every dynamic record.
	HandlersPerDynamic HandlerPlacement = "per-dynamic"
)

// Flag declares a boolean document field.
type Flag struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Default bool   `json:"default,omitempty" yaml:"default,omitempty"`
}

// Variant describes one closed-vocabulary projection schema. Vocabularies are
// ordered; the order drives option rendering and multi-select ordering.
type Variant struct {
	Name               string           `json:"name"`
	Title              string           `json:"title,omitempty"`
	Description        string           `json:"description,omitempty"`
	Presentations      []string         `json:"presentations"`
	Organizations      []string         `json:"organizations"`
	Authorities        []string         `json:"authorities"`
	Actions            []string         `json:"actions"`
	Placement          HandlerPlacement `json:"handlers"`
	DynamicsPath       string           `json:"dynamicsPath"`
	SharedHandlersPath string           `json:"sharedHandlersPath,omitempty"`
	Flags              []Flag           `json:"flags,omitempty"`
	Source             string           `json:"-"`
}

// ScalarFields lists the single-choice enum fields.
func (v Variant) ScalarFields() []string {
	return []string{FieldPresentation, FieldOrganization}
}

// MultiFields lists the multi-select enum fields.
func (v Variant) MultiFields() []string {
	return []string{FieldAuthorities, FieldActions}
}

// DynamicTextFields lists the free-text keys of a dynamic record.
func DynamicTextFields() []string {
	return []string{DynamicName, DynamicView, DynamicContainer}
}

// Vocabulary returns the closed option set for an enum field.
func (v Variant) Vocabulary(field string) ([]string, bool) {
	switch field {
	case FieldPresentation:
		return v.Presentations, true
	case FieldOrganization:
		return v.Organizations, true
	case FieldAuthorities:
		return v.Authorities, true
	case FieldActions:
		return v.Actions, true
	default:
		return nil, false
	}
}

// IsScalar reports whether field is a single-choice enum.
func (v Variant) IsScalar(field string) bool {
	return field == FieldPresentation || field == FieldOrganization
}

// IsMulti reports whether field is a multi-select enum.
func (v Variant) IsMulti(field string) bool {
	return field == FieldAuthorities || field == FieldActions
}

// Contains reports whether option belongs to the vocabulary of field.
func (v Variant) Contains(field, option string) bool {
	vocab, ok := v.Vocabulary(field)
	if !ok {
		return false
	}
	for _, candidate := range vocab {
		if candidate == option {
			return true
		}
	}
	return false
}

// Flag looks up a declared boolean field.
func (v Variant) Flag(name string) (Flag, bool) {
	for _, flag := range v.Flags {
		if flag.Name == name {
			return flag, true
		}
	}
	return Flag{}, false
}

// SharedHandlers reports whether the variant keeps one document-level handler
// list.
func (v Variant) SharedHandlers() bool {
	return v.Placement == HandlersShared
}

// DefaultDynamic builds a fresh dynamic record.
func (v Variant) DefaultDynamic() map[string]any {
	record := map[string]any{
		DynamicName:      "",
		DynamicView:      "",
		DynamicContainer: "",
	}
	if v.Placement == HandlersPerDynamic {
		record[DynamicActionHandlers] = []any{}
	}
	return record
}

// Default builds the canonical starting document: empty scalars, empty
// multi-selects, declared flags at their defaults and one default dynamic.
func (v Variant) Default() map[string]any {
	doc := map[string]any{
		FieldPresentation: "",
		FieldOrganization: "",
		FieldAuthorities:  []any{},
		FieldActions:      []any{},
	}
	for _, flag := range v.Flags {
		doc[flag.Name] = flag.Default
	}
	setDefault(doc, v.DynamicsPath, []any{v.DefaultDynamic()})
	if v.Placement == HandlersShared {
		setDefault(doc, v.SharedHandlersPath, []any{})
	}
	return doc
}

func setDefault(doc map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	node := doc
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// Validate checks the definition is internally consistent.
func (v Variant) Validate() error {
	var errs []error
	if strings.TrimSpace(v.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	switch v.Placement {
	case HandlersShared:
		if strings.TrimSpace(v.SharedHandlersPath) == "" {
			errs = append(errs, errors.New("sharedHandlersPath is required for shared handlers"))
		}
	case HandlersPerDynamic:
		if v.SharedHandlersPath != "" {
			errs = append(errs, errors.New("sharedHandlersPath is not allowed for per-dynamic handlers"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown handlers placement %q", v.Placement))
	}
	if strings.TrimSpace(v.DynamicsPath) == "" {
		errs = append(errs, errors.New("dynamicsPath is required"))
	} else if !strings.HasPrefix(v.DynamicsPath, FieldDynamics) {
		errs = append(errs, fmt.Errorf("dynamicsPath %q must live under %q", v.DynamicsPath, FieldDynamics))
	}
	if v.SharedHandlersPath != "" && v.SharedHandlersPath == v.DynamicsPath {
		errs = append(errs, errors.New("sharedHandlersPath and dynamicsPath must differ"))
	}

	for _, field := range []string{FieldPresentation, FieldOrganization, FieldAuthorities, FieldActions} {
		vocab, _ := v.Vocabulary(field)
		if len(vocab) == 0 {
			errs = append(errs, fmt.Errorf("vocabulary %q is empty", field))
			continue
		}
		seen := make(map[string]struct{}, len(vocab))
		for _, option := range vocab {
			if strings.TrimSpace(option) == "" {
				errs = append(errs, fmt.Errorf("vocabulary %q contains an empty option", field))
				continue
			}
			if _, dup := seen[option]; dup {
				errs = append(errs, fmt.Errorf("vocabulary %q repeats option %q", field, option))
			}
			seen[option] = struct{}{}
		}
	}

	reserved := map[string]struct{}{
		FieldPresentation: {}, FieldOrganization: {}, FieldAuthorities: {},
		FieldActions: {}, FieldDynamics: {},
	}
	flagNames := make(map[string]struct{}, len(v.Flags))
	for _, flag := range v.Flags {
		name := strings.TrimSpace(flag.Name)
		if name == "" || strings.Contains(name, ".") {
			errs = append(errs, fmt.Errorf("flag name %q is invalid", flag.Name))
			continue
		}
		if _, clash := reserved[name]; clash {
			errs = append(errs, fmt.Errorf("flag %q shadows a projection field", name))
		}
		if _, dup := flagNames[name]; dup {
			errs = append(errs, fmt.Errorf("flag %q declared twice", name))
		}
		flagNames[name] = struct{}{}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("variant %q: %w", v.Name, errors.Join(errs...))
}
