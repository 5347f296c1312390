package metrics

import (
	"math"
	"testing"
)

// TestMemoryPercentDerived verifies percent is derived from byte counts.
func TestMemoryPercentDerived(t *testing.T) {
	tests := []struct {
		name string
		mem  MemoryStats
		want float64
	}{
		{"half used", MemoryStats{UsedBytes: 8 << 30, TotalBytes: 16 << 30}, 50},
		{"empty", MemoryStats{UsedBytes: 0, TotalBytes: 16 << 30}, 0},
		{"zero total", MemoryStats{UsedBytes: 123, TotalBytes: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mem.Percent(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percent() = %f, want %f", got, tt.want)
			}
		})
	}
}

// TestDomainKeyNames pins the history key set. The persisted history JSON
// and waybar consumers key on these exact strings.
func TestDomainKeyNames(t *testing.T) {
	want := []Domain{"cpu", "ram", "gpu", "disk"}
	if len(Domains) != len(want) {
		t.Fatalf("Domains = %v, want %v", Domains, want)
	}
	for i, d := range Domains {
		if d != want[i] {
			t.Errorf("Domains[%d] = %q, want %q", i, d, want[i])
		}
	}
}

// TestGPUMemoryPercent verifies nil handling for partial VRAM data.
func TestGPUMemoryPercent(t *testing.T) {
	used := uint64(2 << 30)
	total := uint64(8 << 30)
	zero := uint64(0)

	g := GPUStats{MemUsedBytes: &used, MemTotalBytes: &total}
	if pct := g.MemoryPercent(); pct == nil || *pct != 25 {
		t.Errorf("MemoryPercent() = %v, want 25", pct)
	}

	if pct := (GPUStats{MemUsedBytes: &used}).MemoryPercent(); pct != nil {
		t.Errorf("MemoryPercent() with nil total = %v, want nil", pct)
	}
	if pct := (GPUStats{MemUsedBytes: &used, MemTotalBytes: &zero}).MemoryPercent(); pct != nil {
		t.Errorf("MemoryPercent() with zero total = %v, want nil", pct)
	}
}

// TestPrimarySelection verifies the primary-series value per domain.
func TestPrimarySelection(t *testing.T) {
	util := 30.0
	snap := Snapshot{
		CPU:    CPUStats{UsagePercent: 12},
		Memory: MemoryStats{UsedBytes: 1 << 30, TotalBytes: 4 << 30},
		GPUs:   []GPUStats{{Name: "gpu0", UtilizationPercent: &util}},
		Disks: []DiskStats{
			{DevicePath: "/dev/sda1", UsedBytes: 60, TotalBytes: 100},
			{DevicePath: "/dev/sdb1", UsedBytes: 1, TotalBytes: 100},
		},
	}

	if v, ok := snap.Primary(DomainCPU); !ok || v != 12 {
		t.Errorf("Primary(cpu) = %f,%v", v, ok)
	}
	if v, ok := snap.Primary(DomainMemory); !ok || v != 25 {
		t.Errorf("Primary(memory) = %f,%v", v, ok)
	}
	if v, ok := snap.Primary(DomainGPU); !ok || v != 30 {
		t.Errorf("Primary(gpu) = %f,%v", v, ok)
	}
	if v, ok := snap.Primary(DomainDisk); !ok || v != 60 {
		t.Errorf("Primary(disk) = %f,%v, want first disk's percent", v, ok)
	}
}

// TestPrimaryAbsentDomains verifies "no GPU detected" is reported as
// absent rather than a 0% reading.
func TestPrimaryAbsentDomains(t *testing.T) {
	snap := Snapshot{}

	if _, ok := snap.Primary(DomainGPU); ok {
		t.Error("Primary(gpu) with no devices should report no data")
	}
	if _, ok := snap.Primary(DomainDisk); ok {
		t.Error("Primary(disk) with no partitions should report no data")
	}
	if _, ok := snap.Primary(DomainMemory); ok {
		t.Error("Primary(memory) with zero total should report no data")
	}
}

// TestPrimaryGPUFallsBackToMemory covers vendors that report VRAM but
// not a utilization figure.
func TestPrimaryGPUFallsBackToMemory(t *testing.T) {
	used := uint64(1 << 30)
	total := uint64(2 << 30)
	snap := Snapshot{
		GPUs: []GPUStats{{Name: "gpu0", MemUsedBytes: &used, MemTotalBytes: &total}},
	}

	if v, ok := snap.Primary(DomainGPU); !ok || v != 50 {
		t.Errorf("Primary(gpu) = %f,%v, want 50 from VRAM percent", v, ok)
	}
}

// TestIsDegraded verifies degraded-domain lookup.
func TestIsDegraded(t *testing.T) {
	snap := Snapshot{Degraded: []Domain{DomainGPU}}
	if !snap.IsDegraded(DomainGPU) {
		t.Error("IsDegraded(gpu) = false, want true")
	}
	if snap.IsDegraded(DomainCPU) {
		t.Error("IsDegraded(cpu) = true, want false")
	}
}
