package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxRunAllocationAttempts bounds C2's increment-and-retry loop so a
// persistently hostile filesystem (or a pathological number of same-day
// runs) fails fast with AllocationExhausted rather than spinning forever.
const maxRunAllocationAttempts = 1000

// AllocateRun creates a new, uniquely-named run directory under
// outputDir named "<today>_run_<NNN>", racing safely against concurrent
// allocators by relying on exclusive directory creation rather than a
// read-then-write existence check. now is injected so
// callers (and tests) control the date.
func AllocateRun(outputDir string, region Region, now time.Time) (*Run, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, NewError(KindTransient, fmt.Sprintf("create output directory %s", outputDir), err)
	}

	date := now.Format("2006-01-02")

	for n := 1; n <= maxRunAllocationAttempts; n++ {
		runID := fmt.Sprintf("%s_run_%03d", date, n)
		runPath := filepath.Join(outputDir, runID)

		err := os.Mkdir(runPath, 0o755)
		if err == nil {
			return &Run{RunID: runID, RunPath: runPath, CreatedAt: now, Region: region}, nil
		}
		if os.IsExist(err) {
			continue
		}
		return nil, NewError(KindTransient, fmt.Sprintf("create run directory %s", runPath), err)
	}

	return nil, NewError(KindAllocationExhausted, fmt.Sprintf("exhausted %d run-id attempts for %s", maxRunAllocationAttempts, date), nil)
}
