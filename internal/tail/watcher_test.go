package tail

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcherBadPath(t *testing.T) {
	_, err := NewWatcher("/nonexistent/dir/build.log", 0, nil)
	if err == nil {
		t.Error("NewWatcher should fail for nonexistent directory")
	}
}

func TestWatcherDetectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.log")
	writeFile(t, path, "initial\n")

	w, err := NewWatcher(path, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// Give fsnotify time to start watching.
	time.Sleep(50 * time.Millisecond)

	appendFile(t, path, "more\n")

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for change signal")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.log")
	writeFile(t, path, "initial\n")

	w, err := NewWatcher(path, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	time.Sleep(50 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "other.log"), "noise\n")

	select {
	case <-w.Changes():
		t.Error("got a signal for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
