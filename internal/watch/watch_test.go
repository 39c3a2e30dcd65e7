package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	calls := make(chan string, 10)
	w, err := New(path, func(p string) { calls <- p }, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[]}`), 0644))
	}

	select {
	case got := <-calls:
		assert.Equal(t, w.Path(), got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-calls:
		t.Error("burst of writes reported more than once")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	calls := make(chan string, 10)
	w, err := New(path, func(p string) { calls <- p }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644))

	select {
	case <-calls:
		t.Error("sibling write reported")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	w, err := New(path, func(string) {})
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}
