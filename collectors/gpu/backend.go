// Package gpu provides vendor-specific GPU telemetry backends. Each
// backend wraps a vendor query tool behind a capability-checked interface:
// Probe answers "can this vendor be queried at all" once at startup, and
// Devices enumerates every device the vendor reports.
//
// Utilization and memory semantics differ between vendors and are passed
// through as reported, not reconciled.
package gpu

import (
	"context"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// queryTimeout bounds a single vendor tool invocation.
const queryTimeout = 2 * time.Second

// Backend is a vendor-specific GPU data source.
type Backend interface {
	// Vendor returns the backend's vendor label ("nvidia", "amd").
	Vendor() string

	// Probe reports whether the vendor's query tool is present. The
	// result is stable for the process lifetime; callers evaluate it
	// once and never retry unavailable backends.
	Probe() bool

	// Devices enumerates all devices in index order. A per-device read
	// failure yields a placeholder record rather than aborting the
	// scan; an error return means the whole vendor query failed.
	Devices(ctx context.Context) ([]metrics.GPUStats, error)
}

// DefaultBackends returns the vendor backends in fallback order:
// NVIDIA before AMD.
func DefaultBackends() []Backend {
	return []Backend{NewNvidiaBackend(), NewAMDBackend()}
}

// mib is one mebibyte in bytes; vendor tools report VRAM in MiB.
const mib = 1024 * 1024
