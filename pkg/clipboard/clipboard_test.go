package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
)

func TestOSC52_WritesSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewOSC52(&buf, WithEnv(func(string) string { return "" }))

	if err := w.Write(context.Background(), `{"a":1}`); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]52;c;") {
		t.Fatalf("unexpected sequence prefix: %q", out)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"a":1}`))
	if !strings.Contains(out, encoded) {
		t.Fatalf("sequence does not carry payload %q: %q", encoded, out)
	}
}

func TestOSC52_TmuxPassthrough(t *testing.T) {
	var buf bytes.Buffer
	env := map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}
	w := NewOSC52(&buf, WithEnv(func(key string) string { return env[key] }))

	if err := w.Write(context.Background(), "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "\x1bPtmux;") {
		t.Fatalf("expected tmux passthrough, got %q", buf.String())
	}
}

func TestOSC52_CanceledContext(t *testing.T) {
	var buf bytes.Buffer
	w := NewOSC52(&buf)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Write(ctx, "x"); err == nil {
		t.Fatalf("expected context error")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}

func TestMemory(t *testing.T) {
	var m Memory
	_ = m.Write(context.Background(), "one")
	_ = m.Write(context.Background(), "two")
	if m.Text() != "two" || m.Writes() != 2 {
		t.Fatalf("unexpected memory state: %q/%d", m.Text(), m.Writes())
	}
}
