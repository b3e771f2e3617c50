// Package validation reports how far a projection document strays from the
// shape of its variant. Results are advisory: editors accept any JSON import
// and surface the issues as warnings.
package validation

import (
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// Issue is one schema violation located by JSON pointer.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes for previews.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Validator checks documents against one variant.
type Validator struct {
	variant variant.Variant
	schema  *openapi3.Schema
}

// New builds a Validator for v.
func New(v variant.Variant) *Validator {
	return &Validator{variant: v, schema: Schema(v)}
}

// Validate checks doc with a one-off Validator.
func Validate(v variant.Variant, doc any) Result {
	return New(v).Validate(doc)
}

// Validate collects every issue in doc. doc holds decoded JSON values; numbers
// may be json.Number.
func (val *Validator) Validate(doc any) Result {
	err := val.schema.VisitJSON(doc, openapi3.MultiErrors())
	if err == nil {
		return Result{Valid: true}
	}

	var issues []Issue
	collect(err, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	return Result{Valid: false, Issues: dedupe(issues)}
}

func collect(err error, out *[]Issue) {
	switch typed := err.(type) {
	case openapi3.MultiError:
		for _, inner := range typed {
			collect(inner, out)
		}
		return
	case *openapi3.SchemaError:
		var multi openapi3.MultiError
		if typed.Origin != nil && errors.As(typed.Origin, &multi) {
			collect(multi, out)
			return
		}
		*out = append(*out, issueFromSchemaError(typed))
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		*out = append(*out, issueFromSchemaError(schemaErr))
		return
	}
	*out = append(*out, Issue{Message: strings.TrimSpace(err.Error())})
}

func issueFromSchemaError(err *openapi3.SchemaError) Issue {
	pointer := err.JSONPointer()
	message := strings.TrimSpace(err.Reason)
	if message == "" {
		message = "doesn't match schema " + err.SchemaField
	}
	issue := Issue{Message: message}
	if len(pointer) > 0 {
		issue.Path = "/" + strings.Join(escapePointer(pointer), "/")
		issue.Field = strings.Join(pointer, ".")
	}
	return issue
}

func escapePointer(segments []string) []string {
	out := make([]string, len(segments))
	for i, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		out[i] = strings.ReplaceAll(segment, "/", "~1")
	}
	return out
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[Issue]struct{}, len(issues))
	out := issues[:0]
	for _, issue := range issues {
		if _, ok := seen[issue]; ok {
			continue
		}
		seen[issue] = struct{}{}
		out = append(out, issue)
	}
	return out
}
