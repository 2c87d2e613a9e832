package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "nested", "panel.svg")
	if err := SafeWriteFile(p, []byte("<svg/>")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "<svg/>" {
		t.Fatalf("read back: %q, %v", b, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(p))
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestSafeWriteFileOverwrites(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.txt")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
}

func TestWriteJSONFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dashboard.json")
	if err := WriteJSONFile(p, map[string]int{"rows": 3}); err != nil {
		t.Fatalf("WriteJSONFile: %v", err)
	}
	b, _ := os.ReadFile(p)
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil || m["rows"] != 3 {
		t.Fatalf("decode: %v %v", m, err)
	}
	if b[len(b)-1] != '\n' {
		t.Fatalf("expected trailing newline")
	}
}

func TestPrettyJSONError(t *testing.T) {
	if _, err := PrettyJSON(make(chan int)); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
