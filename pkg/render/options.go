package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-projection-editor/pkg/editor"
	"github.com/goliatone/go-projection-editor/pkg/validation"
)

// RenderOptions describe per-request data: the state every control reads and
// the feedback shown next to it.
type RenderOptions struct {
	// Snapshot is the editor state the controls display.
	Snapshot editor.Snapshot
	// ImportFeedback replaces the import textarea content. Empty after a
	// successful import; the parser message after a failed one.
	ImportFeedback string
	// Issues are advisory schema warnings for the current document.
	Issues []validation.Issue
	// Theme carries partial overrides, tokens and asset URLs.
	Theme *theme.RendererConfig
	// BasePath prefixes every form action and link (e.g. "/editor").
	BasePath string
	// Notice is a one-line status message, e.g. "Copied to clipboard".
	Notice string
	// Variants lists the variant names offered as switch links.
	Variants []string
}
