package workspace

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when the reaper doesn't stop within timeout.
var ErrShutdownTimeout = errors.New("workspace reaper shutdown timed out")

// Reaper periodically sweeps the workspace root for leftover scratch
// directories: anything with our prefix older than maxAge. In normal
// operation workspaces are released inline; the reaper only covers process
// crashes and kills that skipped cleanup.
type Reaper struct {
	manager  *Manager
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ReaperConfig holds reaper configuration.
type ReaperConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// NewReaper creates a reaper for the manager's root.
func NewReaper(cfg ReaperConfig, manager *Manager, logger *slog.Logger) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Reaper{
		manager:  manager,
		interval: cfg.Interval,
		maxAge:   cfg.MaxAge,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the background sweep loop.
func (r *Reaper) Start() {
	r.logger.Info("starting workspace reaper",
		"root", r.manager.Root(),
		"interval", r.interval,
		"max_age", r.maxAge,
	)

	r.wg.Add(1)
	go r.loop()
}

// Stop gracefully stops the reaper.
func (r *Reaper) Stop(timeout time.Duration) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (r *Reaper) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep removes stale scratch directories. Errors are logged and swallowed;
// a failed sweep retries on the next tick.
func (r *Reaper) Sweep() {
	entries, err := os.ReadDir(r.manager.Root())
	if err != nil {
		r.logger.Warn("workspace sweep failed", "error", err)
		return
	}

	cutoff := time.Now().Add(-r.maxAge)
	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), dirPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		dir := filepath.Join(r.manager.Root(), entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("failed to remove stale workspace", "dir", dir, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		r.logger.Info("reaped stale workspaces", "count", removed)
	}
}
