// Package banner renders a one-shot terminal overview of the latest
// telemetry snapshot: boxed cards with usage gauges, temperatures, disk
// identities, and history sparklines. It reads only cached data and is
// designed to complete well under 100ms.
package banner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/patrik-fredon/waybar-resource-hub/cache"
	"github.com/patrik-fredon/waybar-resource-hub/display/widgets"
	"github.com/patrik-fredon/waybar-resource-hub/internal/format"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
	"github.com/patrik-fredon/waybar-resource-hub/status"
)

// Color palette matching the TUI theme (display/tui/theme.go).
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple - headers
	colorSuccess = lipgloss.Color("#22C55E") // Green - healthy status
	colorWarning = lipgloss.Color("#EAB308") // Yellow - warning status
	colorDanger  = lipgloss.Color("#EF4444") // Red - critical status
	colorMuted   = lipgloss.Color("#6B7280") // Gray - stale status
)

// Config controls banner generation behavior.
type Config struct {
	// CacheDir is the cache directory holding snapshot.json and history.json.
	CacheDir string
	// CacheTTL is how long the cached snapshot counts as fresh.
	CacheTTL time.Duration
	// TemperatureUnit is "celsius" or "fahrenheit".
	TemperatureUnit string
	// SparklineWidth is the history sparkline column count.
	SparklineWidth int
	// Hostname overrides os.Hostname().
	Hostname string
	// TermWidth overrides terminal width detection; 0 auto-detects.
	TermWidth int
	// Thresholds drive the status evaluation and gauge coloring. MaxAge
	// is ignored; staleness comes from the cache TTL instead.
	Thresholds status.EvaluatorConfig
	// Logger for banner operations.
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults for banner generation.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		CacheDir:        home + "/.cache/waybar-resource-hub",
		CacheTTL:        4 * time.Second,
		TemperatureUnit: format.UnitCelsius,
		SparklineWidth:  12,
		Thresholds:      status.DefaultEvaluatorConfig(),
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Banner renders the terminal overview.
type Banner struct {
	config Config
}

// NewBanner creates a Banner with the given configuration.
// If Logger is nil, a no-op logger is used.
func NewBanner(cfg Config) *Banner {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.SparklineWidth <= 0 {
		cfg.SparklineWidth = 12
	}
	if cfg.Thresholds.WarningPercent == 0 {
		cfg.Thresholds = status.DefaultEvaluatorConfig()
	}
	cfg.Thresholds.MaxAge = 0
	return &Banner{config: cfg}
}

// Generate reads cached telemetry, evaluates status, and renders the
// banner string. Missing cache data renders a "no data" banner rather
// than an error; a daemon that has never run is an expected state.
func (b *Banner) Generate(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	var snap *metrics.Snapshot
	var fresh bool
	var history map[metrics.Domain][]float64

	store, err := cache.NewStore(b.config.CacheDir, b.config.Logger)
	if err != nil {
		b.config.Logger.Warn("banner: failed to open cache store", "error", err)
	} else {
		snap, fresh, err = store.GetSnapshot(b.config.CacheTTL)
		if err != nil {
			b.config.Logger.Warn("banner: failed to load snapshot", "error", err)
		}
		history, err = store.GetHistory()
		if err != nil {
			b.config.Logger.Warn("banner: failed to load history", "error", err)
		}
	}

	return b.Render(snap, fresh, history), nil
}

// Render composes the banner from already-loaded data. Split out from
// Generate so tests can inject snapshots without a cache directory.
func (b *Banner) Render(snap *metrics.Snapshot, fresh bool, history map[metrics.Domain][]float64) string {
	width := b.config.TermWidth
	if width <= 0 {
		width, _ = detectTerminalSize()
	}
	if width > 100 {
		width = 100
	}

	if snap == nil || snap.Failed {
		empty := []string{"no telemetry data cached", "is the daemon running?"}
		return RenderBox(empty, width, b.headerTitle(), RoundedBox, colorMuted)
	}

	st := status.NewEvaluator(b.config.Thresholds).Evaluate(*snap)
	if !fresh {
		st.Overall = status.LevelStale
	}

	var sections []string
	sections = append(sections,
		RenderBox(b.statusLines(snap, st), width, b.headerTitle(), RoundedBox, colorPrimary))
	sections = append(sections,
		RenderBox(b.cpuLines(snap, history), width, "CPU", RoundedBox, levelColor(domainLevel(st, metrics.DomainCPU))))
	sections = append(sections,
		RenderBox(b.memoryLines(snap, history), width, "Memory", RoundedBox, levelColor(domainLevel(st, metrics.DomainMemory))))
	sections = append(sections,
		RenderBox(b.gpuLines(snap, history), width, "GPU", RoundedBox, levelColor(domainLevel(st, metrics.DomainGPU))))
	sections = append(sections,
		RenderBox(b.diskLines(snap, history), width, "Disks", RoundedBox, levelColor(domainLevel(st, metrics.DomainDisk))))

	return strings.Join(sections, "\n")
}

func (b *Banner) headerTitle() string {
	hostname := b.config.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
		if hostname == "" {
			hostname = "unknown"
		}
	}
	return hostname
}

func (b *Banner) statusLines(snap *metrics.Snapshot, st status.SystemStatus) []string {
	line := widgets.RenderStatusFromString(st.Overall.String())
	if uptime := computeUptime(); uptime != "unknown" {
		line += "  up " + uptime
	}
	lines := []string{line, "sampled " + format.FormatTimeSince(snap.Timestamp)}

	for _, c := range st.Components {
		if c.Level != status.LevelHealthy {
			lines = append(lines, widgets.RenderStatusFromString(c.Level.String())+" "+c.Reason)
		}
	}
	return lines
}

func (b *Banner) cpuLines(snap *metrics.Snapshot, history map[metrics.Domain][]float64) []string {
	gauge := widgets.RenderGauge(widgets.GaugeConfig{
		Width:            20,
		Percent:          snap.CPU.UsagePercent,
		ShowPercent:      true,
		ThresholdWarning: b.config.Thresholds.WarningPercent,
		ThresholdDanger:  b.config.Thresholds.CriticalPercent,
	})

	detail := ""
	if snap.CPU.CoreCount != nil {
		detail = fmt.Sprintf("%d cores", *snap.CPU.CoreCount)
	}
	if snap.CPU.TemperatureC != nil {
		if detail != "" {
			detail += ", "
		}
		detail += format.FormatTemperature(*snap.CPU.TemperatureC, b.config.TemperatureUnit)
	}

	lines := []string{gauge}
	if detail != "" {
		lines = append(lines, detail)
	}
	if spark := b.sparkline(history, metrics.DomainCPU); spark != "" {
		lines = append(lines, spark)
	}
	return lines
}

func (b *Banner) memoryLines(snap *metrics.Snapshot, history map[metrics.Domain][]float64) []string {
	if snap.Memory.TotalBytes == 0 {
		return []string{"(no data)"}
	}

	gauge := widgets.RenderGauge(widgets.GaugeConfig{
		Width:            20,
		Percent:          snap.Memory.Percent(),
		ShowPercent:      true,
		ThresholdWarning: b.config.Thresholds.WarningPercent,
		ThresholdDanger:  b.config.Thresholds.CriticalPercent,
	})
	lines := []string{
		gauge,
		format.FormatBytes(snap.Memory.UsedBytes) + " / " + format.FormatBytes(snap.Memory.TotalBytes),
	}
	if spark := b.sparkline(history, metrics.DomainMemory); spark != "" {
		lines = append(lines, spark)
	}
	return lines
}

func (b *Banner) gpuLines(snap *metrics.Snapshot, history map[metrics.Domain][]float64) []string {
	if len(snap.GPUs) == 0 {
		return []string{"Not Detected"}
	}

	var lines []string
	for _, g := range snap.GPUs {
		lines = append(lines, g.Name)

		if g.UtilizationPercent != nil {
			lines = append(lines, widgets.RenderGauge(widgets.GaugeConfig{
				Width:            20,
				Percent:          *g.UtilizationPercent,
				Label:            "util",
				ShowPercent:      true,
				ThresholdWarning: b.config.Thresholds.WarningPercent,
				ThresholdDanger:  b.config.Thresholds.CriticalPercent,
			}))
		}

		if g.MemUsedBytes != nil && g.MemTotalBytes != nil {
			vram := format.FormatBytes(*g.MemUsedBytes) + " / " + format.FormatBytes(*g.MemTotalBytes) + " VRAM"
			if pct := g.MemoryPercent(); pct != nil {
				vram += " (" + format.FormatPercent(*pct) + ")"
			}
			lines = append(lines, vram)
		}

		if g.TemperatureC != nil {
			lines = append(lines, format.FormatTemperature(*g.TemperatureC, b.config.TemperatureUnit))
		}
	}
	if spark := b.sparkline(history, metrics.DomainGPU); spark != "" {
		lines = append(lines, spark)
	}
	return lines
}

func (b *Banner) diskLines(snap *metrics.Snapshot, history map[metrics.Domain][]float64) []string {
	if len(snap.Disks) == 0 {
		return []string{"(no data)"}
	}

	var lines []string
	for _, d := range snap.Disks {
		lines = append(lines, fmt.Sprintf("%s  %s  %s / %s",
			d.MountPoint,
			widgets.RenderMiniGauge(d.Percent(), 10),
			format.FormatBytes(d.UsedBytes),
			format.FormatBytes(d.TotalBytes),
		))
		identity := d.PhysicalDisk
		if d.Model != metrics.UnknownIdentity {
			identity += ", " + format.TruncateWithEllipsis(d.Model, 48)
		}
		lines = append(lines, "  "+identity)
	}
	if spark := b.sparkline(history, metrics.DomainDisk); spark != "" {
		lines = append(lines, spark)
	}
	return lines
}

// sparkline renders a fixed 0-100 scaled history sparkline, empty when
// the series is missing.
func (b *Banner) sparkline(history map[metrics.Domain][]float64, domain metrics.Domain) string {
	if history == nil {
		return ""
	}
	series := history[domain]
	if len(series) == 0 {
		return ""
	}
	return widgets.RenderSparkline(widgets.SparklineConfig{
		Data:  series,
		Width: b.config.SparklineWidth,
		Min:   0,
		Max:   100,
		Label: "history",
	})
}

// domainLevel extracts one domain's level from the evaluated status.
func domainLevel(st status.SystemStatus, domain metrics.Domain) status.Level {
	for _, c := range st.Components {
		if c.Domain == domain {
			return c.Level
		}
	}
	return status.LevelStale
}

// levelColor maps a status level to the banner accent palette.
func levelColor(l status.Level) lipgloss.Color {
	switch l {
	case status.LevelHealthy:
		return colorSuccess
	case status.LevelWarning:
		return colorWarning
	case status.LevelCritical:
		return colorDanger
	default:
		return colorMuted
	}
}

// computeUptime returns a human-readable system uptime string.
// Returns "unknown" if the uptime cannot be determined.
func computeUptime() string {
	d := getSystemUptime()
	if d == 0 {
		return "unknown"
	}
	return format.FormatDuration(d)
}

// parseUptimeSeconds parses the seconds value from /proc/uptime content.
func parseUptimeSeconds(data []byte) (float64, error) {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("banner: empty uptime data")
	}
	return strconv.ParseFloat(fields[0], 64)
}
