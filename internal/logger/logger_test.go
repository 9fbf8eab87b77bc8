package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesLogDirectory(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	dir := t.TempDir()

	if err := Init(Config{DataDir: dir}); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("expected global logger to be set")
	}
	if info, err := os.Stat(filepath.Join(dir, "logs")); err != nil || !info.IsDir() {
		t.Fatalf("expected logs directory, got info=%v err=%v", info, err)
	}

	Warn("rotating file check", "component", "test")
	if _, err := os.Stat(filepath.Join(dir, "logs", "taskquest.log")); err != nil {
		t.Fatalf("expected log file after write: %v", err)
	}
}

func TestGetFallsBackToDiscard(t *testing.T) {
	Logger = nil
	l := Get()
	if l == nil {
		t.Fatal("expected non-nil discard logger")
	}
	// must not panic without Init
	Debug("ignored")
	Error("ignored")
}
