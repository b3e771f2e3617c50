package validation

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// Schema builds the OpenAPI schema a well-formed document of v satisfies.
// Unknown keys are allowed; every declared key is required.
func Schema(v variant.Variant) *openapi3.Schema {
	root := openapi3.NewObjectSchema()

	for _, field := range v.ScalarFields() {
		vocab, _ := v.Vocabulary(field)
		options := append([]any{""}, anyValues(vocab)...)
		setProperty(root, field, openapi3.NewStringSchema().WithEnum(options...))
	}
	for _, field := range v.MultiFields() {
		vocab, _ := v.Vocabulary(field)
		items := openapi3.NewStringSchema().WithEnum(anyValues(vocab)...)
		setProperty(root, field, openapi3.NewArraySchema().WithItems(items).WithUniqueItems(true))
	}
	for _, flag := range v.Flags {
		setProperty(root, flag.Name, openapi3.NewBoolSchema())
	}

	record := openapi3.NewObjectSchema()
	for _, field := range variant.DynamicTextFields() {
		setProperty(record, field, openapi3.NewStringSchema())
	}
	if v.SharedHandlers() {
		setProperty(root, v.SharedHandlersPath, tagList())
	} else {
		setProperty(record, variant.DynamicActionHandlers, tagList())
	}
	setProperty(root, v.DynamicsPath, openapi3.NewArraySchema().WithItems(record))

	return root
}

func tagList() *openapi3.Schema {
	return openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
}

// setProperty places schema at a dotted path, creating intermediate objects.
func setProperty(node *openapi3.Schema, path string, schema *openapi3.Schema) {
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		child := node.Properties[segment]
		if child == nil || child.Value == nil {
			next := openapi3.NewObjectSchema()
			node.WithProperty(segment, next)
			addRequired(node, segment)
			node = next
			continue
		}
		node = child.Value
	}
	last := segments[len(segments)-1]
	node.WithProperty(last, schema)
	addRequired(node, last)
}

func addRequired(node *openapi3.Schema, name string) {
	for _, existing := range node.Required {
		if existing == name {
			return
		}
	}
	node.Required = append(node.Required, name)
}

func anyValues(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}
