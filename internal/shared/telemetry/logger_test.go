package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("workflow.transition", map[string]any{"workflow": "analyze", "to": "loading"})
	Error("upstream.failed", map[string]any{"error": errors.New("boom")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["msg"] != "workflow.transition" || first["level"] != "info" || first["workflow"] != "analyze" {
		t.Fatalf("unexpected entry: %v", first)
	}
	if _, ok := first["ts"]; !ok {
		t.Fatalf("missing ts: %v", first)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second["level"] != "error" || second["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", second)
	}
}
