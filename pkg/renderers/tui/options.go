package tui

import (
	"io"

	"github.com/goliatone/go-projection-editor/pkg/clipboard"
	"github.com/goliatone/go-projection-editor/pkg/model"
)

// Theme captures optional formatting hints applied when printing messages.
// Colors are hex strings rendered through the terminal color profile.
type Theme struct {
	InfoPrefix    string
	WarningPrefix string
	ErrorPrefix   string
	WarningColor  string
	ErrorColor    string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	InfoPrefix:    "",
	WarningPrefix: "warning: ",
	ErrorPrefix:   "error: ",
	WarningColor:  "#d97706",
	ErrorColor:    "#dc2626",
}

type config struct {
	driver    PromptDriver
	out       io.Writer
	clipboard clipboard.Writer
	previewer Previewer
	builder   model.Builder
	theme     Theme
	pageSize  int
}

// Option configures sessions and the renderer.
type Option func(*config)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithOutput sets where the survey driver prints messages and where the
// clipboard sequence and preview mode are detected. Defaults to stdout.
func WithOutput(out io.Writer) Option {
	return func(cfg *config) {
		if out != nil {
			cfg.out = out
		}
	}
}

// WithClipboard overrides the clipboard the copy action writes to.
func WithClipboard(writer clipboard.Writer) Option {
	return func(cfg *config) {
		if writer != nil {
			cfg.clipboard = writer
		}
	}
}

// WithPreviewer overrides how the result is printed after each change.
func WithPreviewer(previewer Previewer) Option {
	return func(cfg *config) {
		if previewer != nil {
			cfg.previewer = previewer
		}
	}
}

// WithFormBuilder overrides the builder that lays out the menu.
func WithFormBuilder(builder model.Builder) Option {
	return func(cfg *config) {
		if builder != nil {
			cfg.builder = builder
		}
	}
}

// WithTheme applies message prefixes and colors.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// WithPageSize sets how many options select prompts show at once.
func WithPageSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.pageSize = size
		}
	}
}
