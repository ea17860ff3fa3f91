package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithEmptyPathDiscardsOutput(t *testing.T) {
	l := New("")
	l.Warn("should not panic", nil)
	l.Info("should not panic")
	l.Error("should not panic", nil)
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	l := New(path)
	l.Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected a non-empty log file after logging")
	}
}

func TestWithAttachesFieldWithoutPanicking(t *testing.T) {
	l := New("")
	scoped := l.With("source", "preview")
	scoped.Warn("boom", nil)
}

func TestNilLoggerMethodsAreNoOps(t *testing.T) {
	var l *Logger
	l.Warn("x", nil)
	l.Info("x")
	l.Error("x", nil)
	if l.With("k", "v") != Discard {
		t.Error("expected a nil logger's With to return Discard")
	}
}
