package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/validation"
)

// IssueMapping splits validation issues into messages attached to a control
// (keyed by the concrete document path of the control) and messages about
// the document as a whole.
type IssueMapping struct {
	Fields map[string][]string
	Form   []string
}

// For returns the messages attached to path.
func (m IssueMapping) For(path string) []string {
	if m.Fields == nil {
		return nil
	}
	return m.Fields[path]
}

// MapIssues attaches each issue to the deepest control whose path prefixes
// the issue location. Indices inside repeatable groups are kept, so an issue
// at "dynamics.0.view" lands on the view input of the first dynamic while one
// at "authorities.2" lands on the authorities control.
func MapIssues(form model.FormModel, issues []validation.Issue) IssueMapping {
	mapping := IssueMapping{Fields: make(map[string][]string)}
	if len(issues) == 0 {
		mapping.Fields = nil
		return mapping
	}

	patterns := make(map[string]struct{})
	collectPatterns(form.Fields, "", patterns)

	for _, issue := range issues {
		message := strings.TrimSpace(issue.Message)
		if message == "" {
			continue
		}
		target := matchControl(splitPath(issue.Field), patterns)
		if target == "" {
			mapping.Form = appendUnique(mapping.Form, message)
			continue
		}
		mapping.Fields[target] = appendUnique(mapping.Fields[target], message)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// collectPatterns records control paths with "*" standing for record indices.
func collectPatterns(fields []model.Field, prefix string, dest map[string]struct{}) {
	for _, field := range fields {
		path := joinPath(prefix, field.Path)
		if path == "" {
			continue
		}
		dest[path] = struct{}{}
		if field.Items != nil && len(field.Items.Nested) > 0 {
			collectPatterns(field.Items.Nested, joinPath(path, "*"), dest)
		}
	}
}

func matchControl(segments []string, patterns map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := segments[:end]
		if _, ok := patterns[strings.Join(wildcardIndices(candidate), ".")]; ok {
			return strings.Join(candidate, ".")
		}
	}
	return ""
}

func wildcardIndices(segments []string) []string {
	out := make([]string, len(segments))
	for i, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			out[i] = "*"
			continue
		}
		out[i] = segment
	}
	return out
}

func splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func appendUnique(list []string, message string) []string {
	for _, existing := range list {
		if existing == message {
			return list
		}
	}
	return append(list, message)
}
