// Package collectors gathers hardware telemetry from OS-level and vendor
// backends and reconciles it into one immutable metrics.Snapshot per poll
// cycle. All backend failures degrade to absent or defaulted fields; no
// error ever crosses the aggregator boundary.
package collectors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// DefaultSampleWindow is the CPU usage sampling interval. It must be
// short enough to keep the cycle responsive but long enough to avoid
// pure-zero instantaneous readings.
const DefaultSampleWindow = 150 * time.Millisecond

// cpuSensorGroups is the allow-list of hwmon group names recognized as
// CPU temperature sources, tried in order. Matching is case-insensitive
// against the sensor key prefix.
var cpuSensorGroups = []string{"coretemp", "k10temp", "acpi", "cpu_thermal"}

// SystemSource reads CPU and memory telemetry from the OS via gopsutil.
// The OS backend is assumed always present; individual reads can still
// fail transiently and are reported as warnings.
type SystemSource struct {
	sampleWindow time.Duration

	// Overridable gopsutil entry points for testing.
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	cpuCounts     func(ctx context.Context, logical bool) (int, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	sensors       func(ctx context.Context) ([]host.TemperatureStat, error)
}

// NewSystemSource creates a SystemSource with the given CPU sampling
// window. A window of zero or less falls back to DefaultSampleWindow.
func NewSystemSource(sampleWindow time.Duration) *SystemSource {
	if sampleWindow <= 0 {
		sampleWindow = DefaultSampleWindow
	}
	return &SystemSource{
		sampleWindow:  sampleWindow,
		cpuPercent:    cpu.PercentWithContext,
		cpuCounts:     cpu.CountsWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		sensors:       host.SensorsTemperaturesWithContext,
	}
}

// CPU reads overall usage, physical core count, and package temperature.
// The usage read blocks for the sampling window. Temperature and core
// count are optional; their absence is not a warning.
func (s *SystemSource) CPU(ctx context.Context) (metrics.CPUStats, string) {
	var stats metrics.CPUStats
	var warn string

	pct, err := s.cpuPercent(ctx, s.sampleWindow, false)
	switch {
	case err != nil:
		warn = fmt.Sprintf("collectors: cpu usage: %v", err)
	case len(pct) == 0:
		warn = "collectors: cpu usage: empty sample"
	default:
		stats.UsagePercent = clampPercent(pct[0])
	}

	if cores, err := s.cpuCounts(ctx, false); err == nil && cores > 0 {
		stats.CoreCount = &cores
	}

	stats.TemperatureC = s.cpuTemperature(ctx)

	return stats, warn
}

// cpuTemperature scans the host sensor readings for the first reading of
// the first allow-listed sensor group. Returns nil when no group matches;
// that is an absence, not an error. Values are Celsius; any unit
// conversion happens at presentation time.
func (s *SystemSource) cpuTemperature(ctx context.Context) *float64 {
	readings, err := s.sensors(ctx)
	if err != nil || len(readings) == 0 {
		return nil
	}

	for _, group := range cpuSensorGroups {
		for _, r := range readings {
			if strings.HasPrefix(strings.ToLower(r.SensorKey), group) {
				temp := r.Temperature
				return &temp
			}
		}
	}
	return nil
}

// Memory reads physical memory usage. Percent is never stored; consumers
// derive it from the byte counts.
func (s *SystemSource) Memory(ctx context.Context) (metrics.MemoryStats, string) {
	vm, err := s.virtualMemory(ctx)
	if err != nil {
		return metrics.MemoryStats{}, fmt.Sprintf("collectors: virtual memory: %v", err)
	}
	return metrics.MemoryStats{
		UsedBytes:  vm.Used,
		TotalBytes: vm.Total,
	}, ""
}

// clampPercent bounds a percentage reading to [0,100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
