// Package janitor removes workspaces left behind by a process that died
// mid-conversion. Live requests clean up after themselves.
package janitor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"imgpdf/internal/convert"
	log "imgpdf/internal/infra/logging"
)

// Janitor sweeps stale workspace directories on a cron schedule.
type Janitor struct {
	baseDir string
	maxAge  time.Duration
	now     func() time.Time

	cron *cron.Cron
}

// New schedules sweeps of baseDir (the OS temp dir when empty) using a
// robfig/cron spec such as "@every 10m".
func New(baseDir string, maxAge time.Duration, schedule string) (*Janitor, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	j := &Janitor{baseDir: baseDir, maxAge: maxAge, now: time.Now, cron: cron.New()}
	if _, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.Sweep(); err != nil {
			log.Warn("Workspace sweep failed", "dir", j.baseDir, "error", err)
		}
	}); err != nil {
		return nil, err
	}
	return j, nil
}

// Start begins running scheduled sweeps in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	log.Info("Workspace janitor started", "dir", j.baseDir, "max_age", j.maxAge.String())
}

// Stop halts the schedule and waits for a running sweep until ctx is done.
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Sweep removes workspaces older than maxAge and returns how many it removed.
func (j *Janitor) Sweep() (int, error) {
	entries, err := os.ReadDir(j.baseDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), convert.WorkspacePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.baseDir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn("Remove stale workspace failed", "dir", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info("Stale workspaces removed", "count", removed)
	}
	return removed, nil
}
