package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPath(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got, ok := <-ch:
			require.True(t, ok, "watcher channel closed")
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestWatcherInitialScanEmitsExistingDocuments(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "order.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true}, nil)
	require.NoError(t, err)
	waitForPath(t, evCh, existing)
}

func TestWatcherEmitsNewDocuments(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}}, nil)
	require.NoError(t, err)

	dropped := filepath.Join(dir, "fax.txt")
	require.NoError(t, os.WriteFile(dropped, []byte("顧客: テスト商店"), 0o644))
	waitForPath(t, evCh, dropped)
}

func TestWatcherDebouncedBurst(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, Debounce: time.Microsecond}, nil)
	require.NoError(t, err)

	// A rapid burst keeps the debounce timer firing while events are still
	// streaming in; under -race this exercises the flush path against the
	// event loop.
	const n = 200
	want := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("order-%03d.txt", i))
		want[p] = struct{}{}
		require.NoError(t, os.WriteFile(p, []byte("注文"), 0o644))
	}

	deadline := time.After(5 * time.Second)
	for len(want) > 0 {
		select {
		case got, ok := <-evCh:
			require.True(t, ok, "watcher channel closed")
			delete(want, got)
		case <-deadline:
			t.Fatalf("timed out with %d paths unseen", len(want))
		}
	}
}

func TestWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
