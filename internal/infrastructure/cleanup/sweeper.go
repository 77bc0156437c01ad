// Package cleanup reclaims disk space from processed uploads and outputs.
package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweeper periodically deletes files in the working directory that outlived
// the retention window. Subdirectories are left alone.
type Sweeper struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	stop      chan struct{}
}

// NewSweeper configures a sweeper for one working directory.
func NewSweeper(dir string, retention, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		dir:       dir,
		retention: retention,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the sweep loop; it runs once immediately and then on every
// tick until the context ends or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.Sweep()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep goroutine.
func (s *Sweeper) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// Sweep removes expired files once and reports how many were deleted.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("sweep: read dir", "dir", s.dir, "error", err)
		return 0
	}

	cutoff := time.Now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("sweep: remove", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("swept expired files", "dir", s.dir, "removed", removed)
	}
	return removed
}
