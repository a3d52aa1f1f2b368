package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// ChecklistStore resolves, loads, caches, and hot-replaces region-specific
// checklists. It owns the only process-wide mutable
// state in the engine: concurrent
// loads coalesce on a single read and replace is mutually exclusive with
// loads.
type ChecklistStore struct {
	mu           sync.RWMutex
	resolvedDir  string
	explicitFile string // set when configPath names a file rather than a directory
	cache        map[Region]*Checklist
	logger       loggerFunc
}

// loggerFunc is the minimal logging capability the store needs, kept as a
// function type so callers can pass internal/logging.Logger.Infof directly
// without this package importing internal/logging.
type loggerFunc func(format string, args ...interface{})

// NewChecklistStore resolves the checklist source using a four-step
// search: an explicit configPath naming a single checklist file, an
// explicit configPath naming a directory, then the conventional
// /app/checklists if it exists, then a path relative to the running
// executable.
func NewChecklistStore(configPath string, logger loggerFunc) (*ChecklistStore, error) {
	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			if logger != nil {
				logger("checklist store resolved explicit file: %s", configPath)
			}
			return &ChecklistStore{
				explicitFile: configPath,
				cache:        make(map[Region]*Checklist),
				logger:       logger,
			}, nil
		}
	}

	dir, err := resolveChecklistsDir(configPath)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger("checklist store resolved directory: %s", dir)
	}
	return &ChecklistStore{
		resolvedDir: dir,
		cache:       make(map[Region]*Checklist),
		logger:      logger,
	}, nil
}

func resolveChecklistsDir(configPath string) (string, error) {
	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			return configPath, nil
		}
	}

	const conventional = "/app/checklists"
	if info, err := os.Stat(conventional); err == nil && info.IsDir() {
		return conventional, nil
	}

	exePath, err := exec.LookPath(os.Args[0])
	if err != nil {
		exePath = os.Args[0]
	}
	exeDir := filepath.Dir(exePath)
	relative := filepath.Join(exeDir, "checklists")
	return relative, nil
}

func checklistFilename(region Region) string {
	return fmt.Sprintf("%s_checklist.json", strings.ToLower(string(region)))
}

// checklistPath returns the on-disk path for region, honoring an explicit
// single-file override over the resolved directory.
func (s *ChecklistStore) checklistPath(region Region) string {
	if s.explicitFile != "" {
		return s.explicitFile
	}
	return filepath.Join(s.resolvedDir, checklistFilename(region))
}

// Load returns the checklist for region, reading and caching it on first
// call; subsequent calls return the cached value without touching disk.
func (s *ChecklistStore) Load(region Region) (*Checklist, error) {
	s.mu.RLock()
	if c, ok := s.cache[region]; ok {
		s.mu.RUnlock()
		return c, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check after acquiring the write lock: a concurrent loader may
	// have already populated the cache while we were waiting.
	if c, ok := s.cache[region]; ok {
		return c, nil
	}

	path := s.checklistPath(region)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(KindInvalidInput, fmt.Sprintf("read checklist %s", path), err)
	}

	checklist, err := parseAndValidateChecklist(data, region)
	if err != nil {
		return nil, err
	}

	s.cache[region] = checklist
	return checklist, nil
}

// Replace validates newContent against the checklist schema, verifies its
// internal region matches, atomically rewrites the backing file, and
// evicts the cache entry so the next Load re-reads from disk.
func (s *ChecklistStore) Replace(region Region, newContent []byte) error {
	checklist, err := parseAndValidateChecklist(newContent, region)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.checklistPath(region)
	tmp := path + ".tmp"

	pretty, err := json.MarshalIndent(checklist, "", "  ")
	if err != nil {
		return NewError(KindInvalidInput, "marshal checklist for replace", err)
	}

	if err := os.WriteFile(tmp, pretty, 0o644); err != nil {
		return NewError(KindTransient, fmt.Sprintf("write temp checklist %s", tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return NewError(KindTransient, fmt.Sprintf("rename %s to %s", tmp, path), err)
	}

	delete(s.cache, region)
	return nil
}

// parseAndValidateChecklist parses data as a Checklist and validates its
// invariants: non-empty check IDs that are unique across the whole
// checklist (header and valuation together), and a region field matching
// the expected region.
func parseAndValidateChecklist(data []byte, expectedRegion Region) (*Checklist, error) {
	var checklist Checklist
	if err := json.Unmarshal(data, &checklist); err != nil {
		return nil, NewError(KindSchemaFault, "checklist is not valid JSON", err)
	}

	if checklist.Region != expectedRegion {
		return nil, NewError(KindSchemaFault, fmt.Sprintf("checklist region %q does not match expected %q", checklist.Region, expectedRegion), nil)
	}

	seen := make(map[string]bool)
	for _, group := range [][]Check{checklist.Categories.Header, checklist.Categories.Valuation} {
		for _, check := range group {
			if check.ID == "" {
				return nil, NewError(KindSchemaFault, "checklist contains a check with an empty id", nil)
			}
			if seen[check.ID] {
				return nil, NewError(KindSchemaFault, fmt.Sprintf("duplicate check id %q in checklist", check.ID), nil)
			}
			seen[check.ID] = true
		}
	}

	if checklist.NumericTolerancePct == 0 {
		checklist.NumericTolerancePct = 2.0
	}

	return &checklist, nil
}
