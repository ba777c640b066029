package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": []string{"a"}}, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	if got != `{"data":["a"]}` {
		t.Fatalf("unexpected output: %s", got)
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"total": 3}, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"total\": 3\n") {
		t.Fatalf("expected indented output, got %q", buf.String())
	}
}
