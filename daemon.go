package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/cache"
	"github.com/patrik-fredon/waybar-resource-hub/collectors"
	"github.com/patrik-fredon/waybar-resource-hub/config"
	"github.com/patrik-fredon/waybar-resource-hub/diskid"
	"github.com/patrik-fredon/waybar-resource-hub/history"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// poller produces one snapshot per cycle. *collectors.Aggregator satisfies
// this; daemon tests inject fakes.
type poller interface {
	Poll(ctx context.Context) metrics.Snapshot
}

// daemon manages the background polling loop that runs one collection
// cycle per tick and persists the snapshot and history to the shared
// cache for one-shot readers.
type daemon struct {
	config  *config.Config
	logger  *slog.Logger
	store   *cache.Store
	poller  poller
	history *history.Store
	pidFile string

	now func() time.Time
}

// newDaemon creates a daemon with the real aggregator wired from the
// configuration. It initialises the cache store and the disk identity
// resolver.
func newDaemon(cfg *config.Config, logger *slog.Logger) (*daemon, error) {
	store, err := cache.NewStore(cfg.Daemon.CacheDir, logger)
	if err != nil {
		return nil, fmt.Errorf("daemon: create cache store: %w", err)
	}

	agg := collectors.New(collectors.Config{
		SampleWindow: cfg.CPUSampleWindow(),
		CycleTimeout: cfg.CycleTimeout(),
		Filesystems:  cfg.Collectors.Filesystems,
		Resolver:     newResolver(cfg, logger),
	}, logger)

	pidFile := filepath.Join(cfg.Daemon.CacheDir, "waybar-resource-hub.pid")

	return &daemon{
		config:  cfg,
		logger:  logger,
		store:   store,
		poller:  agg,
		history: history.NewStore(cfg.History.Capacity),
		pidFile: pidFile,
		now:     time.Now,
	}, nil
}

// newResolver builds the disk identity resolver, with the smartctl
// fallback attached when enabled.
func newResolver(cfg *config.Config, logger *slog.Logger) *diskid.Resolver {
	if cfg.Collectors.SmartFallback {
		return diskid.NewResolver(logger, diskid.WithFallback(diskid.NewSmartctlBackend()))
	}
	return diskid.NewResolver(logger)
}

// writePIDFile writes the current process PID to the PID file.
// The PID file path is {CacheDir}/waybar-resource-hub.pid.
func (d *daemon) writePIDFile() error {
	// Ensure the directory exists.
	dir := filepath.Dir(d.pidFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create PID file directory: %w", err)
	}
	pid := os.Getpid()
	data := []byte(strconv.Itoa(pid))
	if err := os.WriteFile(d.pidFile, data, 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	d.logger.Info("wrote PID file", "path", d.pidFile, "pid", pid)
	return nil
}

// removePIDFile removes the PID file on shutdown.
func (d *daemon) removePIDFile() {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		d.logger.Error("failed to remove PID file", "path", d.pidFile, "error", err)
		return
	}
	d.logger.Info("removed PID file", "path", d.pidFile)
}

// isRunning checks if another daemon instance is already running by reading
// the PID file and checking if the process exists. If the PID file contains
// a stale PID (process no longer exists), the file is cleaned up.
func (d *daemon) isRunning() (bool, int) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		// Corrupt PID file -- remove it.
		d.logger.Warn("corrupt PID file, removing", "path", d.pidFile, "content", string(data))
		os.Remove(d.pidFile)
		return false, 0
	}

	// Check if the process exists by sending signal 0.
	process, err := os.FindProcess(pid)
	if err != nil {
		// On Unix, FindProcess never returns an error, but handle it anyway.
		os.Remove(d.pidFile)
		return false, 0
	}

	err = process.Signal(syscall.Signal(0))
	if err != nil {
		// Process does not exist -- stale PID file.
		d.logger.Warn("stale PID file, removing", "path", d.pidFile, "pid", pid)
		os.Remove(d.pidFile)
		return false, 0
	}

	return true, pid
}

// run starts the daemon polling loop. It checks for an existing instance,
// writes a PID file, restores persisted history, runs an immediate
// collection cycle, then ticks at the configured poll interval until the
// context is cancelled.
func (d *daemon) run(ctx context.Context) error {
	// Check if another instance is running.
	if running, pid := d.isRunning(); running {
		return fmt.Errorf("daemon already running (PID %d)", pid)
	}

	// Write PID file.
	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	defer d.removePIDFile()

	// Carry series across restarts so the banner sparklines do not
	// start empty after every reboot.
	if saved, err := d.store.GetHistory(); err != nil {
		d.logger.Warn("could not restore history", "error", err)
	} else if saved != nil {
		d.history.Restore(saved)
		d.logger.Info("restored history from cache")
	}

	ticker := time.NewTicker(d.config.PollInterval())
	defer ticker.Stop()

	// Run immediately on start.
	d.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon shutting down gracefully")
			d.shutdown()
			return ctx.Err()
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

// shutdown performs cleanup on daemon exit, persisting final history and
// logging cache state.
func (d *daemon) shutdown() {
	if err := d.store.SetHistory(d.history.Export()); err != nil {
		d.logger.Error("final history write failed", "error", err)
	}
	for _, key := range d.store.Keys() {
		if age := d.store.Age(key); age > 0 {
			d.logger.Info("cache entry at shutdown", "key", key, "age", age.String())
		}
	}
}

// runOnce performs a single collection cycle and persists the result.
// A panicking backend is converted to a failed sentinel snapshot so one
// bad cycle never takes down the loop.
func (d *daemon) runOnce(ctx context.Context) {
	start := d.now()
	d.logger.Debug("starting collection cycle")

	snap := d.safePoll(ctx)

	if !snap.Failed {
		d.history.Observe(snap)
	}

	if err := d.store.SetSnapshot(snap); err != nil {
		d.logger.Error("snapshot cache write failed", "error", err)
	}
	if err := d.store.SetHistory(d.history.Export()); err != nil {
		d.logger.Error("history cache write failed", "error", err)
	}
	if err := writeHealthFile(d.config.Daemon.CacheDir, snap); err != nil {
		d.logger.Error("health file write failed", "error", err)
	}

	elapsed := time.Since(start)
	d.logger.Info("collection cycle complete",
		"duration", fmt.Sprintf("%dms", elapsed.Milliseconds()),
		"degraded", len(snap.Degraded),
		"failed", snap.Failed,
	)
}

// safePoll runs one collection cycle, recovering panics into a failed
// sentinel snapshot that keeps consumers on "stale" instead of crashing.
func (d *daemon) safePoll(ctx context.Context) (snap metrics.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("collection cycle panicked", "panic", r)
			snap = metrics.Snapshot{
				Timestamp: d.now(),
				Degraded:  append([]metrics.Domain(nil), metrics.Domains...),
				Failed:    true,
			}
		}
	}()
	return d.poller.Poll(ctx)
}
