package filters

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Set, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(s *Set) { got <- s })
	}()

	// Let the watcher register before the first write.
	time.Sleep(100 * time.Millisecond)
	doc := "name: engineering\nfilter:\n  department: engineering\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eng.yaml"), []byte(doc), 0o644))

	select {
	case set := <-got:
		require.Equal(t, 1, set.Len())
		_, ok := set.Get("engineering")
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing a filter file")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), func(*Set) {})
	assert.Error(t, err)
}
