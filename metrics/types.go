// Package metrics defines the Snapshot schema shared by all collectors and
// presentation consumers. A Snapshot is produced atomically once per poll
// cycle and is never mutated afterwards; consumers receive it by value.
package metrics

import "time"

// Domain identifies a hardware sub-domain within a Snapshot.
type Domain string

const (
	DomainCPU    Domain = "cpu"
	DomainMemory Domain = "ram"
	DomainGPU    Domain = "gpu"
	DomainDisk   Domain = "disk"
)

// Domains lists every sub-domain in canonical presentation order.
var Domains = []Domain{DomainCPU, DomainMemory, DomainGPU, DomainDisk}

// Snapshot is one immutable, fully-formed telemetry reading across all
// domains for a single poll cycle. Percent values are always derived from
// the underlying byte counts at read time so the two can never drift.
type Snapshot struct {
	// Timestamp records when the cycle completed. Set even on failed
	// cycles so consumers can show "stale" instead of a blank panel.
	Timestamp time.Time `json:"timestamp"`

	CPU    CPUStats    `json:"cpu"`
	Memory MemoryStats `json:"memory"`

	// GPUs holds one record per detected device in backend enumeration
	// order. An empty slice means "no GPU detected", which is distinct
	// from a GPU reporting 0% utilization.
	GPUs []GPUStats `json:"gpus"`

	// Disks holds one record per mounted partition that passed the
	// filesystem allow-list and answered its usage query.
	Disks []DiskStats `json:"disks"`

	// Degraded lists sub-domains that came back absent or defaulted
	// this cycle.
	Degraded []Domain `json:"degraded,omitempty"`

	// Failed marks a sentinel snapshot from a cycle that produced no
	// data at all.
	Failed bool `json:"failed,omitempty"`
}

// CPUStats holds processor usage and thermal readings.
type CPUStats struct {
	// UsagePercent is the overall CPU utilization in [0,100].
	UsagePercent float64 `json:"usage_percent"`

	// TemperatureC is the package temperature in Celsius, nil when no
	// recognized sensor group was found.
	TemperatureC *float64 `json:"temperature_c,omitempty"`

	// CoreCount is the physical core count, nil when unavailable.
	CoreCount *int `json:"core_count,omitempty"`
}

// MemoryStats holds physical memory usage in bytes.
type MemoryStats struct {
	UsedBytes  uint64 `json:"used_bytes"`
	TotalBytes uint64 `json:"total_bytes"`
}

// Percent returns used/total*100, or 0 when TotalBytes is zero.
func (m MemoryStats) Percent() float64 {
	if m.TotalBytes == 0 {
		return 0
	}
	return float64(m.UsedBytes) / float64(m.TotalBytes) * 100
}

// GPUStats holds one GPU device reading. Vendors differ in what they
// report; unavailable fields stay nil and are passed through unreconciled.
type GPUStats struct {
	Name               string   `json:"name"`
	UtilizationPercent *float64 `json:"utilization_percent,omitempty"`
	MemUsedBytes       *uint64  `json:"mem_used_bytes,omitempty"`
	MemTotalBytes      *uint64  `json:"mem_total_bytes,omitempty"`
	TemperatureC       *float64 `json:"temperature_c,omitempty"`
}

// MemoryPercent returns VRAM usage as a percentage, or nil when either
// byte count is unavailable or the total is zero.
func (g GPUStats) MemoryPercent() *float64 {
	if g.MemUsedBytes == nil || g.MemTotalBytes == nil || *g.MemTotalBytes == 0 {
		return nil
	}
	pct := float64(*g.MemUsedBytes) / float64(*g.MemTotalBytes) * 100
	return &pct
}

// UnknownIdentity is the sentinel for unresolved disk model and serial.
// It is user-visible ("could not resolve"), not an error condition.
const UnknownIdentity = "Unknown"

// DiskStats holds one mounted-partition record. Records are either fully
// populated or omitted from the Snapshot entirely; a partition whose usage
// query failed mid-scan never appears zero-filled.
type DiskStats struct {
	DevicePath     string `json:"device_path"`
	MountPoint     string `json:"mount_point"`
	Filesystem     string `json:"filesystem"`
	TotalBytes     uint64 `json:"total_bytes"`
	UsedBytes      uint64 `json:"used_bytes"`
	FreeBytes      uint64 `json:"free_bytes"`
	PhysicalDisk   string `json:"physical_disk"`
	Model          string `json:"model"`
	Serial         string `json:"serial"`
}

// Percent returns used/total*100, or 0 when TotalBytes is zero.
func (d DiskStats) Percent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.UsedBytes) / float64(d.TotalBytes) * 100
}

// Primary returns the scalar series value for a history key: overall CPU
// usage, memory percent, first GPU utilization, or first disk percent.
// ok is false when the domain has no data this cycle.
func (s Snapshot) Primary(domain Domain) (float64, bool) {
	switch domain {
	case DomainCPU:
		return s.CPU.UsagePercent, true
	case DomainMemory:
		if s.Memory.TotalBytes == 0 {
			return 0, false
		}
		return s.Memory.Percent(), true
	case DomainGPU:
		if len(s.GPUs) == 0 {
			return 0, false
		}
		g := s.GPUs[0]
		if g.UtilizationPercent != nil {
			return *g.UtilizationPercent, true
		}
		if pct := g.MemoryPercent(); pct != nil {
			return *pct, true
		}
		return 0, true
	case DomainDisk:
		if len(s.Disks) == 0 {
			return 0, false
		}
		return s.Disks[0].Percent(), true
	}
	return 0, false
}

// IsDegraded reports whether the given domain was marked degraded.
func (s Snapshot) IsDegraded(domain Domain) bool {
	for _, d := range s.Degraded {
		if d == domain {
			return true
		}
	}
	return false
}
