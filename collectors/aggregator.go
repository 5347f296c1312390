package collectors

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/collectors/gpu"
	"github.com/patrik-fredon/waybar-resource-hub/diskid"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// DefaultCycleTimeout is the hard ceiling for one poll cycle. It must
// stay below the poll interval so a hung backend cannot stack cycles.
const DefaultCycleTimeout = 1500 * time.Millisecond

// Config wires an Aggregator.
type Config struct {
	// SampleWindow is the CPU usage sampling interval.
	SampleWindow time.Duration

	// CycleTimeout is the hard ceiling for one Poll call. Zero falls
	// back to DefaultCycleTimeout.
	CycleTimeout time.Duration

	// Filesystems is the partition allow-list; empty falls back to
	// DefaultFilesystems.
	Filesystems []string

	// Resolver resolves physical disk identity; may be nil.
	Resolver *diskid.Resolver

	// GPUBackends are the vendor backends in fallback order. Nil falls
	// back to gpu.DefaultBackends().
	GPUBackends []gpu.Backend
}

// Aggregator orchestrates all sensor backends and produces one Snapshot
// per Poll call. Sub-domains are queried in parallel; the snapshot is
// complete when every sub-query has returned or the cycle ceiling has
// passed, whichever comes first. Poll never returns an error.
type Aggregator struct {
	logger       *slog.Logger
	system       *SystemSource
	disks        *DiskSource
	gpus         []gpu.Backend
	cycleTimeout time.Duration

	now func() time.Time
}

// New creates an Aggregator. GPU backends are probed once here; vendors
// whose tools are missing are dropped for the process lifetime rather
// than re-probed every cycle. If logger is nil, a no-op logger is used.
func New(cfg Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	timeout := cfg.CycleTimeout
	if timeout <= 0 {
		timeout = DefaultCycleTimeout
	}

	backends := cfg.GPUBackends
	if backends == nil {
		backends = gpu.DefaultBackends()
	}
	var available []gpu.Backend
	for _, b := range backends {
		if b.Probe() {
			available = append(available, b)
			continue
		}
		logger.Debug("gpu backend unavailable", "vendor", b.Vendor())
	}

	return &Aggregator{
		logger:       logger,
		system:       NewSystemSource(cfg.SampleWindow),
		disks:        NewDiskSource(cfg.Filesystems, cfg.Resolver),
		gpus:         available,
		cycleTimeout: timeout,
		now:          time.Now,
	}
}

// cycleResult accumulates sub-query outputs behind a mutex so the
// snapshot can be assembled from whatever completed before the ceiling.
type cycleResult struct {
	mu sync.Mutex

	cpu     metrics.CPUStats
	cpuWarn string
	cpuDone bool

	mem     metrics.MemoryStats
	memWarn string
	memDone bool

	gpus        []metrics.GPUStats
	gpuDegraded bool
	gpuDone     bool

	disks    []metrics.DiskStats
	diskWarn string
	diskDone bool
}

// Poll produces one Snapshot. Every backend failure is converted to
// absence or defaults inside the snapshot; sub-domains that missed the
// cycle ceiling are reported in Degraded. Even a cycle in which nothing
// succeeded returns a timestamped sentinel snapshot so consumers can
// show "stale" instead of crashing the loop.
func (a *Aggregator) Poll(ctx context.Context) metrics.Snapshot {
	cctx, cancel := context.WithTimeout(ctx, a.cycleTimeout)
	defer cancel()

	res := &cycleResult{}
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		stats, warn := a.system.CPU(cctx)
		res.mu.Lock()
		res.cpu, res.cpuWarn, res.cpuDone = stats, warn, true
		res.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		stats, warn := a.system.Memory(cctx)
		res.mu.Lock()
		res.mem, res.memWarn, res.memDone = stats, warn, true
		res.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		devices, degraded := a.queryGPUs(cctx)
		res.mu.Lock()
		res.gpus, res.gpuDegraded, res.gpuDone = devices, degraded, true
		res.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		disks, err := a.disks.Disks(cctx)
		res.mu.Lock()
		if err != nil {
			res.diskWarn = err.Error()
		}
		res.disks, res.diskDone = disks, true
		res.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-cctx.Done():
		a.logger.Warn("poll cycle hit ceiling, proceeding with partial results",
			"timeout", a.cycleTimeout,
		)
	}

	return a.assemble(res)
}

// assemble builds the immutable snapshot from whatever sub-results are
// ready, marking the rest degraded.
func (a *Aggregator) assemble(res *cycleResult) metrics.Snapshot {
	res.mu.Lock()
	defer res.mu.Unlock()

	snap := metrics.Snapshot{Timestamp: a.now()}

	if res.cpuDone && res.cpuWarn == "" {
		snap.CPU = res.cpu
	} else {
		snap.Degraded = append(snap.Degraded, metrics.DomainCPU)
		if res.cpuWarn != "" {
			a.logger.Warn("cpu degraded", "warning", res.cpuWarn)
		}
		if res.cpuDone {
			// Keep optional fields that did resolve (temperature,
			// cores) even when the usage read failed.
			snap.CPU = res.cpu
		}
	}

	if res.memDone && res.memWarn == "" {
		snap.Memory = res.mem
	} else {
		snap.Degraded = append(snap.Degraded, metrics.DomainMemory)
		if res.memWarn != "" {
			a.logger.Warn("memory degraded", "warning", res.memWarn)
		}
	}

	if res.gpuDone {
		snap.GPUs = res.gpus
		if res.gpuDegraded {
			snap.Degraded = append(snap.Degraded, metrics.DomainGPU)
		}
	} else {
		snap.Degraded = append(snap.Degraded, metrics.DomainGPU)
	}

	if res.diskDone && res.diskWarn == "" {
		snap.Disks = res.disks
	} else {
		snap.Degraded = append(snap.Degraded, metrics.DomainDisk)
		if res.diskWarn != "" {
			a.logger.Warn("disk degraded", "warning", res.diskWarn)
		}
	}

	// Nothing came back at all: sentinel snapshot, still timestamped.
	if !res.cpuDone && !res.memDone && !res.gpuDone && !res.diskDone {
		snap.Failed = true
	}

	return snap
}

// queryGPUs applies the vendor fallback ordering: backends are tried in
// order and the first one reporting at least one device wins. Vendors
// are never merged within a cycle; mixed per-vendor semantics would
// double-count. degraded is true only when every consulted backend
// errored; all vendors reporting zero devices is a genuine "no GPU
// detected" absence.
func (a *Aggregator) queryGPUs(ctx context.Context) ([]metrics.GPUStats, bool) {
	anyErr := false
	for _, b := range a.gpus {
		devices, err := b.Devices(ctx)
		if err != nil {
			a.logger.Debug("gpu backend failed", "vendor", b.Vendor(), "error", err)
			anyErr = true
			continue
		}
		if len(devices) == 0 {
			continue
		}
		return devices, false
	}
	return nil, anyErr
}
