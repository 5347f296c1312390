package collectors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// TestCPUUsage verifies the usage read and clamping.
func TestCPUUsage(t *testing.T) {
	s := NewSystemSource(DefaultSampleWindow)
	s.cpuPercent = func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error) {
		return []float64{37.5}, nil
	}
	s.cpuCounts = func(ctx context.Context, logical bool) (int, error) { return 8, nil }
	s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) { return nil, nil }

	stats, warn := s.CPU(context.Background())
	if warn != "" {
		t.Errorf("warning: %s", warn)
	}
	if stats.UsagePercent != 37.5 {
		t.Errorf("usage = %f, want 37.5", stats.UsagePercent)
	}
	if stats.CoreCount == nil || *stats.CoreCount != 8 {
		t.Errorf("cores = %v, want 8", stats.CoreCount)
	}
	if stats.TemperatureC != nil {
		t.Errorf("temperature = %v, want nil with no sensors", stats.TemperatureC)
	}
}

// TestCPUUsageFailure verifies a failed usage read degrades with a
// warning while optional fields survive.
func TestCPUUsageFailure(t *testing.T) {
	s := NewSystemSource(DefaultSampleWindow)
	s.cpuPercent = func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error) {
		return nil, errors.New("proc unavailable")
	}
	s.cpuCounts = func(ctx context.Context, logical bool) (int, error) { return 4, nil }
	s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) { return nil, nil }

	stats, warn := s.CPU(context.Background())
	if warn == "" {
		t.Error("expected warning for failed usage read")
	}
	if stats.UsagePercent != 0 {
		t.Errorf("usage = %f, want 0 default", stats.UsagePercent)
	}
	if stats.CoreCount == nil || *stats.CoreCount != 4 {
		t.Errorf("cores = %v, want 4 despite usage failure", stats.CoreCount)
	}
}

// TestCPUTemperatureAllowList verifies sensor group matching: first
// reading of the first recognized group wins, case-insensitively, and
// unrecognized groups yield absence.
func TestCPUTemperatureAllowList(t *testing.T) {
	tests := []struct {
		name     string
		readings []host.TemperatureStat
		want     *float64
	}{
		{
			name: "coretemp preferred over k10temp",
			readings: []host.TemperatureStat{
				{SensorKey: "k10temp_tctl", Temperature: 70},
				{SensorKey: "coretemp_package_id_0", Temperature: 55},
				{SensorKey: "coretemp_core_0", Temperature: 52},
			},
			want: ptr(55.0),
		},
		{
			name: "case insensitive match",
			readings: []host.TemperatureStat{
				{SensorKey: "CoreTemp_Package", Temperature: 48},
			},
			want: ptr(48.0),
		},
		{
			name: "arm thermal zone",
			readings: []host.TemperatureStat{
				{SensorKey: "cpu_thermal", Temperature: 41},
			},
			want: ptr(41.0),
		},
		{
			name: "no recognized group",
			readings: []host.TemperatureStat{
				{SensorKey: "nvme_composite", Temperature: 38},
				{SensorKey: "iwlwifi_1", Temperature: 45},
			},
			want: nil,
		},
		{
			name:     "no sensors at all",
			readings: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSystemSource(DefaultSampleWindow)
			s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) {
				return tt.readings, nil
			}

			got := s.cpuTemperature(context.Background())
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("temperature = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("temperature = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("temperature = %v, want %v", *got, *tt.want)
			}
		})
	}
}

// TestCPUTemperatureSensorError verifies a sensors failure is absence,
// not an error.
func TestCPUTemperatureSensorError(t *testing.T) {
	s := NewSystemSource(DefaultSampleWindow)
	s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) {
		return nil, errors.New("sensors unavailable")
	}

	if got := s.cpuTemperature(context.Background()); got != nil {
		t.Errorf("temperature = %v, want nil on sensor error", *got)
	}
}

// TestMemory verifies byte counts are carried and percent is derived,
// never stored.
func TestMemory(t *testing.T) {
	s := NewSystemSource(DefaultSampleWindow)
	s.virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 16 << 30, Used: 4 << 30}, nil
	}

	stats, warn := s.Memory(context.Background())
	if warn != "" {
		t.Errorf("warning: %s", warn)
	}
	if stats.UsedBytes != 4<<30 || stats.TotalBytes != 16<<30 {
		t.Errorf("memory = %+v", stats)
	}
	if stats.Percent() != 25 {
		t.Errorf("derived percent = %f, want 25", stats.Percent())
	}
}

// TestMemoryFailure verifies a failed read yields zeroed stats plus a
// warning.
func TestMemoryFailure(t *testing.T) {
	s := NewSystemSource(DefaultSampleWindow)
	s.virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no meminfo")
	}

	stats, warn := s.Memory(context.Background())
	if warn == "" {
		t.Error("expected warning")
	}
	if stats.TotalBytes != 0 {
		t.Errorf("total = %d, want 0", stats.TotalBytes)
	}
}

// TestClampPercent verifies out-of-range readings are clamped.
func TestClampPercent(t *testing.T) {
	if got := clampPercent(-3); got != 0 {
		t.Errorf("clampPercent(-3) = %f", got)
	}
	if got := clampPercent(104); got != 100 {
		t.Errorf("clampPercent(104) = %f", got)
	}
	if got := clampPercent(55); got != 55 {
		t.Errorf("clampPercent(55) = %f", got)
	}
}

func ptr[T any](v T) *T { return &v }
