package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-projection-editor/pkg/widgets"
)

// controlID derives a DOM id from a dotted document path.
func controlID(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), ".")
	if trimmed == "" {
		return ""
	}
	return "pe-" + strings.ReplaceAll(trimmed, ".", "-")
}

func indexedPath(parent string, index int, child string) string {
	return joinPath(joinPath(parent, strconv.Itoa(index)), child)
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

// componentHandlesChrome reports whether a component renders its own label.
func componentHandlesChrome(componentName string) bool {
	switch strings.TrimSpace(componentName) {
	case widgets.WidgetCheckbox, widgets.WidgetRepeater:
		return true
	default:
		return false
	}
}

func actionURL(base string, segments ...string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	var builder strings.Builder
	builder.WriteString(base)
	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(strings.Trim(segment, "/"))
	}
	if builder.Len() == 0 {
		return "/"
	}
	return builder.String()
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
