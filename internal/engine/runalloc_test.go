package engine

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateRun_NamingAndUniqueness(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	run1, err := AllocateRun(dir, RegionAU, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05_run_001", run1.RunID)
	assert.Equal(t, filepath.Join(dir, "2026-03-05_run_001"), run1.RunPath)

	run2, err := AllocateRun(dir, RegionAU, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05_run_002", run2.RunID)
}

func TestAllocateRun_ConcurrentAllocationsAreUnique(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run, err := AllocateRun(dir, RegionAU, now)
			require.NoError(t, err)
			ids <- run.RunID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate run id allocated: %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
