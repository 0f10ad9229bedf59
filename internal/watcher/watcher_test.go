package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	grammarPath := filepath.Join(dir, "foo.tmLanguage.json")
	err := os.WriteFile(grammarPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into a single notification.
	for i := 0; i < 10; i++ {
		err := os.WriteFile(grammarPath, []byte(fmt.Sprintf(`{"v":%d}`, i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	grammarPath := filepath.Join(dir, "foo.tmLanguage.json")
	otherPath := filepath.Join(dir, "notes.txt")
	err := os.WriteFile(grammarPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create grammar file")
	err = os.WriteFile(otherPath, []byte("initial"), 0644)
	require.NoError(t, err, "failed to create other file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(otherPath, []byte("other content"), 0644)
	require.NoError(t, err, "failed to write other file")

	select {
	case <-onChange:
		t.Fatal("should not notify for non-grammar files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification for unrelated file
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	grammarPath := filepath.Join(dir, "foo.tmLanguage.json")
	err := os.WriteFile(grammarPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_WatchesYAMLGrammars(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "foo.tmLanguage.json")
	yamlPath := filepath.Join(dir, "bar.tmLanguage.yaml")

	err := os.WriteFile(jsonPath, []byte("{}"), 0644)
	require.NoError(t, err, "failed to create json grammar file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(yamlPath, []byte("scopeName: test\n"), 0644)
	require.NoError(t, err, "failed to write yaml grammar file")

	select {
	case <-onChange:
		// Expected - yaml grammar writes should trigger notification
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for yaml grammar write")
	}
}

func TestDefaultConfig(t *testing.T) {
	dir := "/test/grammars"
	cfg := watcher.DefaultConfig(dir)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, 1*time.Second, cfg.DebounceDur)
}
