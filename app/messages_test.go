package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeQueue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write queue: %v", err)
	}
	return path
}

func TestLoadMessages_BlankLineSeparated(t *testing.T) {
	path := writeQueue(t, "first\n\nsecond line one\nsecond line two\n\n\nthird\n")
	got, err := LoadMessages(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	want := []string{"first", "second line one\nsecond line two", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLoadMessages_CRLFNormalized(t *testing.T) {
	path := writeQueue(t, "a\r\nb\r\n\r\nc\r\n")
	got, err := LoadMessages(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 2 || got[0] != "a\nb" || got[1] != "c" {
		t.Fatalf("expected [a\\nb c], got %q", got)
	}
}

func TestLoadMessages_WhitespaceOnlyDropped(t *testing.T) {
	path := writeQueue(t, "   \n\n\t\n\nreal\n")
	got, err := LoadMessages(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != 1 || got[0] != "real" {
		t.Fatalf("expected [real], got %q", got)
	}
}

func TestLoadMessages_MissingFile(t *testing.T) {
	if _, err := LoadMessages(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
