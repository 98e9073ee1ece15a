package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.json")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, err = %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
	if err := SafeWriteFile(filepath.Join(dir, "missing", "x"), nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("json = %q", b)
	}
	if _, err := PrettyJSON(func() {}); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("out", "/data/week 1.json", "md"); got != filepath.Join("out", "week 1.md") {
		t.Fatalf("OutputPath = %q", got)
	}
}
