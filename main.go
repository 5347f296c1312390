// waybar-resource-hub is a hardware telemetry hub for waybar.
//
// A background daemon polls CPU, memory, GPU, and disk sensors on a fixed
// interval and persists each snapshot to a shared cache. One-shot readers
// surface that data as a waybar JSON payload, a boxed terminal banner, or
// an interactive TUI dashboard.
//
// Usage:
//
//	waybar-resource-hub [flags]
//
// Flags:
//
//	-daemon         Run the background polling daemon
//	-waybar         Print one waybar JSON payload from the cache
//	-once           Run one collection cycle and print the waybar payload
//	-banner         Display the boxed telemetry banner from the cache
//	-tui            Launch the interactive Bubbletea dashboard
//	-health         Check daemon health status
//	-config string  Path to configuration file (default: ~/.config/waybar-resource-hub/config.yaml)
//	-term-width int Terminal width override for the banner (0 = auto-detect)
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/patrik-fredon/waybar-resource-hub/cache"
	"github.com/patrik-fredon/waybar-resource-hub/collectors"
	"github.com/patrik-fredon/waybar-resource-hub/config"
	"github.com/patrik-fredon/waybar-resource-hub/display/banner"
	"github.com/patrik-fredon/waybar-resource-hub/display/bar"
	"github.com/patrik-fredon/waybar-resource-hub/display/tui"
	"github.com/patrik-fredon/waybar-resource-hub/history"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
	"github.com/patrik-fredon/waybar-resource-hub/status"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/waybar-resource-hub/config.yaml)")
		runDaemon   = flag.Bool("daemon", false, "Run the background polling daemon")
		runWaybar   = flag.Bool("waybar", false, "Print one waybar JSON payload from the cache")
		runOnce     = flag.Bool("once", false, "Run one collection cycle and print the waybar payload")
		runBanner   = flag.Bool("banner", false, "Display the boxed telemetry banner from the cache")
		runTUI      = flag.Bool("tui", false, "Launch the interactive Bubbletea dashboard")
		runHealth   = flag.Bool("health", false, "Check daemon health status")
		healthJSON  = flag.Bool("json", false, "Output health check as JSON (with -health)")
		termWidth   = flag.Int("term-width", 0, "Terminal width override for the banner (0 = auto-detect)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("waybar-resource-hub %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(resolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Context with signal handling for the long-running modes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	switch {
	case *runHealth:
		os.Exit(checkHealth(cfg.Daemon.CacheDir, cfg.PollInterval(), *healthJSON))
	case *runDaemon:
		os.Exit(daemonMain(ctx, cfg, *verbose))
	case *runWaybar:
		os.Exit(waybarMain(cfg, *verbose))
	case *runOnce:
		os.Exit(onceMain(ctx, cfg, *verbose))
	case *runBanner:
		os.Exit(bannerMain(ctx, cfg, *termWidth, *verbose))
	case *runTUI:
		os.Exit(tuiMain(ctx, cfg, *verbose))
	}

	fmt.Printf("waybar-resource-hub %s (%s) built %s\n", version, commit, date)
	fmt.Println()
	fmt.Println("Usage: waybar-resource-hub [flags]")
	fmt.Println()
	flag.PrintDefaults()
}

// resolveConfigPath returns the explicit path, or the default config
// location when none was given.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "waybar-resource-hub", "config.yaml")
}

// newLogger builds a structured logger writing to w. Verbose lowers the
// level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// daemonMain runs the polling daemon until the context is cancelled.
func daemonMain(ctx context.Context, cfg *config.Config, verbose bool) int {
	logW := io.Writer(os.Stderr)
	if cfg.Daemon.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Daemon.LogFile), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.Daemon.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				defer f.Close()
				logW = f
			}
		}
	}
	logger := newLogger(logW, verbose)

	d, err := newDaemon(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daemon init failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "starting waybar-resource-hub daemon v%s\n", version)
	if err := d.run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
		return 1
	}
	return 0
}

// waybarMain prints one waybar payload from the cached snapshot. A missing
// or stale cache yields the stale payload, never an error exit, so the bar
// module keeps rendering while the daemon is down.
func waybarMain(cfg *config.Config, verbose bool) int {
	logger := newLogger(os.Stderr, verbose)

	store, err := cache.NewStore(cfg.Daemon.CacheDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache init failed: %v\n", err)
		return 1
	}

	// Anything older than two poll intervals means the daemon missed a
	// cycle and the reading is no longer trustworthy.
	ttl := 2 * cfg.PollInterval()
	snap, fresh, err := store.GetSnapshot(ttl)
	if err != nil {
		logger.Warn("snapshot read failed", "error", err)
	}
	if snap == nil {
		snap = &metrics.Snapshot{Failed: true}
	}
	if !fresh {
		snap.Failed = true
	}

	return printWaybar(cfg, *snap, ttl)
}

// onceMain runs one collection cycle in-process and prints its payload.
// Useful without a daemon, at the cost of a full sensor sweep per call.
func onceMain(ctx context.Context, cfg *config.Config, verbose bool) int {
	logger := newLogger(os.Stderr, verbose)

	agg := collectors.New(collectors.Config{
		SampleWindow: cfg.CPUSampleWindow(),
		CycleTimeout: cfg.CycleTimeout(),
		Filesystems:  cfg.Collectors.Filesystems,
		Resolver:     newResolver(cfg, logger),
	}, logger)

	return printWaybar(cfg, agg.Poll(ctx), 0)
}

// printWaybar evaluates the snapshot and writes the single-line JSON
// payload waybar expects.
func printWaybar(cfg *config.Config, snap metrics.Snapshot, maxAge time.Duration) int {
	evaluator := status.NewEvaluator(status.EvaluatorConfig{
		WarningPercent:  cfg.Thresholds.WarningPercent,
		CriticalPercent: cfg.Thresholds.CriticalPercent,
		TempWarningC:    status.DefaultEvaluatorConfig().TempWarningC,
		TempCriticalC:   status.DefaultEvaluatorConfig().TempCriticalC,
		MaxAge:          maxAge,
	})

	renderer := bar.NewRenderer(bar.Config{TemperatureUnit: cfg.Display.TemperatureUnit})
	payload, err := renderer.Encode(snap, evaluator.Evaluate(snap))
	if err != nil {
		fmt.Fprintf(os.Stderr, "waybar encode failed: %v\n", err)
		return 1
	}
	fmt.Println(string(payload))
	return 0
}

// bannerMain prints the boxed telemetry banner from the cache.
func bannerMain(ctx context.Context, cfg *config.Config, termWidth int, verbose bool) int {
	logger := newLogger(os.Stderr, verbose)

	bcfg := banner.DefaultConfig()
	bcfg.CacheDir = cfg.Daemon.CacheDir
	bcfg.CacheTTL = 2 * cfg.PollInterval()
	bcfg.TemperatureUnit = cfg.Display.TemperatureUnit
	bcfg.SparklineWidth = cfg.Display.SparklineWidth
	bcfg.TermWidth = termWidth
	bcfg.Thresholds = status.EvaluatorConfig{
		WarningPercent:  cfg.Thresholds.WarningPercent,
		CriticalPercent: cfg.Thresholds.CriticalPercent,
		TempWarningC:    status.DefaultEvaluatorConfig().TempWarningC,
		TempCriticalC:   status.DefaultEvaluatorConfig().TempCriticalC,
	}
	bcfg.Logger = logger

	out, err := banner.NewBanner(bcfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "banner render failed: %v\n", err)
		return 1
	}
	fmt.Println(out)
	return 0
}

// tuiMain runs the interactive dashboard with a live in-process poller.
func tuiMain(ctx context.Context, cfg *config.Config, verbose bool) int {
	logger := newLogger(io.Discard, verbose)

	agg := collectors.New(collectors.Config{
		SampleWindow: cfg.CPUSampleWindow(),
		CycleTimeout: cfg.CycleTimeout(),
		Filesystems:  cfg.Collectors.Filesystems,
		Resolver:     newResolver(cfg, logger),
	}, logger)

	model := tui.NewModel(tui.Config{
		Poller:          agg,
		History:         history.NewStore(cfg.History.Capacity),
		Interval:        cfg.PollInterval(),
		TemperatureUnit: cfg.Display.TemperatureUnit,
		SparklineWidth:  cfg.Display.SparklineWidth,
		Thresholds: status.EvaluatorConfig{
			WarningPercent:  cfg.Thresholds.WarningPercent,
			CriticalPercent: cfg.Thresholds.CriticalPercent,
			TempWarningC:    status.DefaultEvaluatorConfig().TempWarningC,
			TempCriticalC:   status.DefaultEvaluatorConfig().TempCriticalC,
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && err != tea.ErrProgramKilled {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return 1
	}
	return 0
}
