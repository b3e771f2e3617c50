package validation

import (
	"strings"
	"testing"

	"github.com/goliatone/go-projection-editor/pkg/document"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

func parse(t *testing.T, text string) any {
	t.Helper()
	doc, err := document.Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Root()
}

func hasIssue(issues []Issue, field, fragment string) bool {
	for _, issue := range issues {
		if issue.Field == field && strings.Contains(issue.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	for _, name := range []string{variant.NameShared, variant.NamePerDynamic} {
		v := variant.Default().MustGet(name)
		result := Validate(v, document.New(v.Default()).Root())
		if !result.Valid {
			t.Fatalf("%s: default document reported issues: %#v", name, result.Issues)
		}
	}
}

func TestValidate_ExampleImport(t *testing.T) {
	v := variant.Default().MustGet(variant.NamePerDynamic)
	doc := parse(t, `{"presentation":"INBOX","organization":"OPERATOR","authorities":["ROLE_USER"],"actions":["ACT_TAKE_NOTE"],"dynamics":[]}`)

	if result := Validate(v, doc); !result.Valid {
		t.Fatalf("expected example to be valid: %#v", result.Issues)
	}
}

func TestValidate_ReportsIssues(t *testing.T) {
	v := variant.Default().MustGet(variant.NameShared)
	doc := parse(t, `{
  "presentation": "NOPE",
  "organization": "",
  "authorities": ["ROLE_USER", 7],
  "actions": [],
  "createExecutionLog": "yes",
  "dynamics": {"actionHandlers": [], "containers": [{"name": "a", "view": "b"}]}
}`)

	result := New(v).Validate(doc)
	if result.Valid {
		t.Fatalf("expected issues")
	}
	checks := []struct {
		field    string
		fragment string
	}{
		{"presentation", "allowed values"},
		{"authorities.1", "allowed values"},
		{"createExecutionLog", "must be a boolean"},
		{"dynamics.containers.0.container", "is missing"},
	}
	for _, check := range checks {
		if !hasIssue(result.Issues, check.field, check.fragment) {
			t.Fatalf("missing issue %s/%q in %#v", check.field, check.fragment, result.Issues)
		}
	}
	for i := 1; i < len(result.Issues); i++ {
		if result.Issues[i-1].Path > result.Issues[i].Path {
			t.Fatalf("issues not sorted by path: %#v", result.Issues)
		}
	}
}

func TestValidate_NonObjectRoot(t *testing.T) {
	v := variant.Default().MustGet(variant.NamePerDynamic)
	result := Validate(v, parse(t, `[1,2]`))
	if result.Valid || len(result.Issues) == 0 {
		t.Fatalf("expected root issue, got %#v", result)
	}
	if !strings.Contains(result.Issues[0].Message, "object") {
		t.Fatalf("unexpected message %q", result.Issues[0].Message)
	}
}

func TestSchema_PlacesNestedPaths(t *testing.T) {
	schema := Schema(variant.Default().MustGet(variant.NameShared))
	dynamics := schema.Properties["dynamics"]
	if dynamics == nil || dynamics.Value == nil {
		t.Fatalf("expected dynamics object schema")
	}
	for _, key := range []string{"actionHandlers", "containers"} {
		if dynamics.Value.Properties[key] == nil {
			t.Fatalf("dynamics missing %q", key)
		}
	}
}
