package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls until the counter reaches want or the deadline passes.
func waitFor(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("callback fired %d times, want at least %d", counter.Load(), want)
}

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "current.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var fired atomic.Int32
	w, err := New([]string{path}, func() { fired.Add(1) })
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"cells": []}`), 0o644))
	waitFor(t, &fired, 1)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "current.ipynb")
	other := filepath.Join(dir, "unrelated.txt")
	require.NoError(t, os.WriteFile(watched, []byte("{}"), 0o644))

	var fired atomic.Int32
	w, err := New([]string{watched}, func() { fired.Add(1) })
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(other, []byte("noise"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "current.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var fired atomic.Int32
	w, err := New([]string{path}, func() { fired.Add(1) })
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	// A burst of rapid writes should coalesce into one callback.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}
	waitFor(t, &fired, 1)
	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, fired.Load(), int32(2), "burst should not fan out to one callback per write")
}
