package vanilla

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla/components"
)

func TestAssetsFS_RuntimeScript(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), RuntimeScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	for _, want := range []string{"data-autosubmit", "navigator.clipboard", `document.execCommand("copy")`, "Copy failed"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected runtime script to reference %q", want)
		}
	}
	if RuntimeScriptName != components.ScriptName {
		t.Fatalf("component script %q does not match bundled asset %q", components.ScriptName, RuntimeScriptName)
	}
}

func TestDefaultStylesheet(t *testing.T) {
	if css := defaultStylesheet(); !strings.Contains(css, ".pe-editor") {
		t.Fatalf("expected bundled stylesheet, got %q", css)
	}
}
