// Package clipboard writes exported documents to a clipboard. The terminal
// implementation emits OSC52 escape sequences, which most terminal emulators
// (and tmux/screen with passthrough) forward to the system clipboard, so it
// also works over SSH.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Writer places text on a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// ErrNoTerminal is returned when the OSC52 writer has no output.
var ErrNoTerminal = errors.New("clipboard: no terminal output")

// Option configures an OSC52 writer.
type Option func(*OSC52)

// WithPrimary targets the primary selection instead of the system clipboard.
func WithPrimary() Option {
	return func(o *OSC52) {
		o.primary = true
	}
}

// WithEnv overrides environment lookups used to detect tmux and screen.
func WithEnv(lookup func(string) string) Option {
	return func(o *OSC52) {
		if lookup != nil {
			o.getenv = lookup
		}
	}
}

// OSC52 writes clipboard escape sequences to a terminal.
type OSC52 struct {
	out     io.Writer
	primary bool
	getenv  func(string) string
}

// NewOSC52 builds a terminal clipboard writer. A nil out defaults to stderr so
// sequences do not mix with piped stdout.
func NewOSC52(out io.Writer, options ...Option) *OSC52 {
	if out == nil {
		out = os.Stderr
	}
	o := &OSC52{out: out, getenv: os.Getenv}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Write emits one OSC52 sequence carrying text.
func (o *OSC52) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o == nil || o.out == nil {
		return ErrNoTerminal
	}

	seq := osc52.New(text)
	if o.primary {
		seq = seq.Primary()
	}
	switch {
	case o.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(o.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(o.out); err != nil {
		return fmt.Errorf("clipboard: write sequence: %w", err)
	}
	return nil
}

// Memory records writes; used by tests and headless sessions.
type Memory struct {
	mu     sync.Mutex
	last   string
	writes int
}

// Write stores text as the clipboard content.
func (m *Memory) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = text
	m.writes++
	return nil
}

// Text returns the last written content.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Writes returns how many times Write succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
