package banner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/cache"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

func testBanner() *Banner {
	cfg := DefaultConfig()
	cfg.Hostname = "workstation"
	cfg.TermWidth = 80
	return NewBanner(cfg)
}

func testSnapshot() *metrics.Snapshot {
	temp := 61.0
	cores := 8
	util := 42.0

	return &metrics.Snapshot{
		Timestamp: time.Now(),
		CPU:       metrics.CPUStats{UsagePercent: 25, TemperatureC: &temp, CoreCount: &cores},
		Memory:    metrics.MemoryStats{UsedBytes: 4 << 30, TotalBytes: 16 << 30},
		GPUs: []metrics.GPUStats{
			{Name: "NVIDIA GeForce RTX 3080", UtilizationPercent: &util},
		},
		Disks: []metrics.DiskStats{
			{
				MountPoint:   "/",
				TotalBytes:   500 << 30,
				UsedBytes:    200 << 30,
				PhysicalDisk: "nvme0n1",
				Model:        "Samsung SSD 980 PRO",
				Serial:       "S5GXNF0R123456",
			},
		},
	}
}

func TestRenderFullSnapshot(t *testing.T) {
	b := testBanner()
	out := b.Render(testSnapshot(), true, nil)

	for _, want := range []string{
		"workstation",
		"CPU",
		"8 cores",
		"61°C",
		"Memory",
		"4.0 GiB / 16.0 GiB",
		"NVIDIA GeForce RTX 3080",
		"Disks",
		"nvme0n1",
		"Samsung SSD 980 PRO",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q", want)
		}
	}
}

func TestRenderNoSnapshot(t *testing.T) {
	b := testBanner()
	out := b.Render(nil, false, nil)

	if !strings.Contains(out, "no telemetry data cached") {
		t.Errorf("empty banner missing placeholder:\n%s", out)
	}
	if !strings.Contains(out, "workstation") {
		t.Error("empty banner missing hostname header")
	}
}

func TestRenderGPUNotDetected(t *testing.T) {
	b := testBanner()
	snap := testSnapshot()
	snap.GPUs = nil

	out := b.Render(snap, true, nil)
	if !strings.Contains(out, "Not Detected") {
		t.Error("banner missing GPU Not Detected marker")
	}
}

func TestRenderWithHistorySparkline(t *testing.T) {
	b := testBanner()
	history := map[metrics.Domain][]float64{
		metrics.DomainCPU: {10, 30, 50, 70, 90},
	}

	out := b.Render(testSnapshot(), true, history)
	if !strings.Contains(out, "history") {
		t.Error("banner missing history sparkline label")
	}
	if !strings.Contains(out, "█") && !strings.Contains(out, "▅") {
		t.Error("banner missing sparkline blocks")
	}
}

func TestRenderFlatHistoryDoesNotPanic(t *testing.T) {
	b := testBanner()
	history := map[metrics.Domain][]float64{
		metrics.DomainCPU: {50, 50, 50, 50},
	}

	out := b.Render(testSnapshot(), true, history)
	if out == "" {
		t.Fatal("empty banner for flat history series")
	}
}

func TestRenderCustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hostname = "workstation"
	cfg.TermWidth = 80
	cfg.Thresholds.WarningPercent = 20
	cfg.Thresholds.CriticalPercent = 90
	b := NewBanner(cfg)

	// CPU at 25% sits above the lowered warning threshold, so the status
	// card must carry the warning reason that defaults would suppress.
	out := b.Render(testSnapshot(), true, nil)
	if !strings.Contains(out, "cpu at 25%") {
		t.Errorf("banner missing warning reason for lowered threshold:\n%s", out)
	}

	if defaults := testBanner().Render(testSnapshot(), true, nil); strings.Contains(defaults, "cpu at 25%") {
		t.Error("default thresholds should not flag 25% cpu usage")
	}
}

func TestRenderStaleSnapshot(t *testing.T) {
	b := testBanner()
	out := b.Render(testSnapshot(), false, nil)

	if !strings.Contains(out, "stale") {
		t.Errorf("banner for unfresh snapshot missing stale marker:\n%s", out)
	}
}

func TestGenerateFromCache(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewStore(dir, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SetSnapshot(*testSnapshot()); err != nil {
		t.Fatalf("SetSnapshot: %v", err)
	}
	if err := store.SetHistory(map[metrics.Domain][]float64{
		metrics.DomainCPU: {10, 20, 30},
	}); err != nil {
		t.Fatalf("SetHistory: %v", err)
	}

	cfg := DefaultConfig()
	cfg.CacheDir = dir
	cfg.Hostname = "cachehost"
	cfg.TermWidth = 80
	b := NewBanner(cfg)

	out, err := b.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "cachehost") {
		t.Error("generated banner missing hostname")
	}
	if !strings.Contains(out, "CPU") {
		t.Error("generated banner missing CPU card")
	}
}

func TestGenerateEmptyCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheDir = t.TempDir()
	cfg.TermWidth = 80
	b := NewBanner(cfg)

	out, err := b.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "no telemetry data cached") {
		t.Error("expected placeholder banner for empty cache")
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	b := testBanner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Generate(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestParseUptimeSeconds(t *testing.T) {
	got, err := parseUptimeSeconds([]byte("12345.67 98765.43\n"))
	if err != nil {
		t.Fatalf("parseUptimeSeconds: %v", err)
	}
	if got != 12345.67 {
		t.Errorf("parsed %v, want 12345.67", got)
	}

	if _, err := parseUptimeSeconds([]byte("")); err == nil {
		t.Error("expected error for empty input")
	}
}
