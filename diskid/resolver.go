// Package diskid maps mounted partition device paths to their underlying
// physical disk and resolves the disk's model and serial. Resolution is
// best-effort: every failure degrades to the "Unknown" sentinel rather
// than an error.
package diskid

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// Identity holds a physical disk's model and serial. Unresolved fields
// carry metrics.UnknownIdentity.
type Identity struct {
	Model  string `json:"model"`
	Serial string `json:"serial"`
}

// unknown is the fully-unresolved identity.
func unknown() Identity {
	return Identity{Model: metrics.UnknownIdentity, Serial: metrics.UnknownIdentity}
}

// PhysicalDiskName extracts the physical disk name from a partition
// device path.
//
//	/dev/nvme0n1p1 -> nvme0n1   (strip trailing p<digits>)
//	/dev/sda1      -> sda       (strip trailing digits)
//	/dev/sdb       -> sdb       (no trailing digit, unchanged)
//	/dev/mmcblk0p1 -> mmcblk0p  (generic fallback: trailing digits only)
//
// The generic fallback is a known-imperfect heuristic for layouts like
// mmcblk and vd*; it strips only the trailing decimal digits.
func PhysicalDiskName(devicePath string) string {
	base := filepath.Base(devicePath)

	if strings.Contains(base, "nvme") {
		if i := strings.LastIndex(base, "p"); i > 0 && isDigits(base[i+1:]) {
			return base[:i]
		}
		return base
	}

	// sd* and the generic fallback both strip trailing digits.
	return strings.TrimRight(base, "0123456789")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IdentityBackend is a capability-checked source of disk identity.
// Probe is evaluated once at resolver construction; unavailable backends
// are never retried for the process lifetime.
type IdentityBackend interface {
	// Name identifies the backend in logs.
	Name() string

	// Probe reports whether the backend can be used at all.
	Probe() bool

	// Identity resolves model and serial for a physical disk name such
	// as "sda" or "nvme0n1". May require elevated privileges and fail.
	Identity(ctx context.Context, disk string) (Identity, error)
}

// cacheEntry is a resolved identity with its resolution time.
type cacheEntry struct {
	id Identity
	at time.Time
}

// Resolver resolves partition device paths to physical disk identity.
// The sysfs lookup is always consulted first; the fallback backend (if
// available) is tried only when sysfs yields an Unknown model, and its
// failure falls back to the sysfs result.
//
// Identity rarely changes, so resolved entries are cached per disk name
// for a bounded TTL to avoid re-reading sysfs and re-running smartctl
// every poll cycle.
type Resolver struct {
	logger *slog.Logger

	// sysfsRoot is the block-device metadata root, normally /sys/block.
	// Overridable for tests.
	sysfsRoot string

	// fallback is the optional low-level identity backend (smartctl).
	// Nil when the probe failed at construction.
	fallback IdentityBackend

	// cacheTTL bounds how long a resolved identity is reused.
	cacheTTL time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry

	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSysfsRoot overrides the sysfs block-device root (tests).
func WithSysfsRoot(root string) Option {
	return func(r *Resolver) { r.sysfsRoot = root }
}

// WithFallback sets the low-level identity backend. The backend is kept
// only if its Probe succeeds.
func WithFallback(b IdentityBackend) Option {
	return func(r *Resolver) {
		if b != nil && b.Probe() {
			r.fallback = b
		}
	}
}

// WithCacheTTL overrides the identity cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.cacheTTL = ttl }
}

// NewResolver creates a Resolver. If logger is nil, a no-op logger is used.
func NewResolver(logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Resolver{
		logger:    logger,
		sysfsRoot: "/sys/block",
		cacheTTL:  5 * time.Minute,
		cache:     make(map[string]cacheEntry),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a partition device path to its physical disk name and
// identity. It never returns an error; unresolved fields are "Unknown".
func (r *Resolver) Resolve(ctx context.Context, devicePath string) (string, Identity) {
	disk := PhysicalDiskName(devicePath)
	if disk == "" {
		return "", unknown()
	}
	return disk, r.identity(ctx, disk)
}

// identity returns the cached identity for a disk, resolving on miss or
// expiry.
func (r *Resolver) identity(ctx context.Context, disk string) Identity {
	r.mu.Lock()
	if entry, ok := r.cache[disk]; ok && r.now().Sub(entry.at) < r.cacheTTL {
		r.mu.Unlock()
		return entry.id
	}
	r.mu.Unlock()

	id := r.lookup(ctx, disk)

	r.mu.Lock()
	r.cache[disk] = cacheEntry{id: id, at: r.now()}
	r.mu.Unlock()

	return id
}

// lookup performs the two-stage identity resolution: sysfs first, then
// the fallback backend only when sysfs could not determine a model.
func (r *Resolver) lookup(ctx context.Context, disk string) Identity {
	id := r.sysfsIdentity(disk)
	if id.Model != metrics.UnknownIdentity || r.fallback == nil {
		return id
	}

	fb, err := r.fallback.Identity(ctx, disk)
	if err != nil {
		r.logger.Debug("identity fallback failed",
			"backend", r.fallback.Name(),
			"disk", disk,
			"error", err,
		)
		return id
	}
	return fb
}

// sysfsIdentity reads model and serial from the platform device metadata
// under <sysfsRoot>/<disk>/device/. Reads need no elevated privileges;
// missing or empty attributes stay Unknown.
func (r *Resolver) sysfsIdentity(disk string) Identity {
	id := unknown()

	if v := r.readAttr(disk, "model"); v != "" {
		id.Model = v
	}
	if v := r.readAttr(disk, "serial"); v != "" {
		id.Serial = v
	}
	return id
}

// readAttr reads a single device attribute, returning "" when absent.
func (r *Resolver) readAttr(disk, attr string) string {
	path := filepath.Join(r.sysfsRoot, disk, "device", attr)
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
