package mounts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/projects")
	if err != nil {
		t.Fatalf("ExpandPath error: %v", err)
	}

	want := filepath.Join(home, "projects")
	if got != want {
		t.Errorf("ExpandPath(~/projects) = %q, want %q", got, want)
	}
}

func TestExpandPathEmpty(t *testing.T) {
	if _, err := ExpandPath(""); err == nil {
		t.Error("ExpandPath(\"\") should fail")
	}
}

func TestExpandPathRelative(t *testing.T) {
	got, err := ExpandPath("some/dir")
	if err != nil {
		t.Fatalf("ExpandPath error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ExpandPath(some/dir) = %q, want absolute path", got)
	}
	if !strings.HasSuffix(got, filepath.Join("some", "dir")) {
		t.Errorf("ExpandPath(some/dir) = %q, want suffix some/dir", got)
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !DirExists(dir) {
		t.Errorf("DirExists(%q) = false for existing dir", dir)
	}

	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if DirExists(file) {
		t.Error("DirExists on a file should be false")
	}
	if !FileExists(file) {
		t.Error("FileExists on a file should be true")
	}
}
