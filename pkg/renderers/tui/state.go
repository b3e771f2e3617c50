package tui

import (
	"sort"

	"github.com/goliatone/go-projection-editor/pkg/validation"
)

// State tracks what a session shows besides the document: the import buffer
// and the advisory issues of the last check, keyed by dotted path.
type State struct {
	importText string
	issues     map[string][]string
}

// NewState seeds the state with an import buffer.
func NewState(importText string) *State {
	return &State{importText: importText}
}

// ImportText returns the current import buffer. It is empty after a
// successful import and holds the parser message after a failed one.
func (s *State) ImportText() string {
	if s == nil {
		return ""
	}
	return s.importText
}

// SetImportText replaces the import buffer.
func (s *State) SetImportText(text string) {
	if s != nil {
		s.importText = text
	}
}

// SetIssues replaces the issues with those of result.
func (s *State) SetIssues(issues []validation.Issue) {
	if s == nil {
		return
	}
	s.issues = make(map[string][]string, len(issues))
	for _, issue := range issues {
		s.issues[issue.Field] = append(s.issues[issue.Field], issue.Message)
	}
}

// IssuesFor returns the messages attached to a dotted path.
func (s *State) IssuesFor(path string) []string {
	if s == nil || len(s.issues) == 0 {
		return nil
	}
	return s.issues[path]
}

// IssueLines formats every issue as "path: message", sorted by path.
func (s *State) IssueLines() []string {
	if s == nil || len(s.issues) == 0 {
		return nil
	}
	paths := make([]string, 0, len(s.issues))
	for path := range s.issues {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var lines []string
	for _, path := range paths {
		label := path
		if label == "" {
			label = "(document)"
		}
		for _, message := range s.issues[path] {
			lines = append(lines, label+": "+message)
		}
	}
	return lines
}
