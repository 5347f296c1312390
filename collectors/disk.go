package collectors

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/patrik-fredon/waybar-resource-hub/diskid"
	"github.com/patrik-fredon/waybar-resource-hub/internal/format"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// DefaultFilesystems is the allow-list of real, mounted filesystem types
// worth reporting. Pseudo-filesystems (tmpfs, proc, sysfs, overlay and
// friends) are excluded by construction.
var DefaultFilesystems = []string{
	"ext2", "ext3", "ext4", "xfs", "btrfs", "ntfs", "vfat", "zfs",
}

// DiskSource enumerates mounted partitions, computes usage, and resolves
// physical disk identity through a diskid.Resolver.
type DiskSource struct {
	filesystems map[string]bool
	resolver    *diskid.Resolver

	// Overridable gopsutil entry points for testing.
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskSource creates a DiskSource. An empty filesystems list falls
// back to DefaultFilesystems. The resolver may be nil, in which case
// every identity stays Unknown.
func NewDiskSource(filesystems []string, resolver *diskid.Resolver) *DiskSource {
	if len(filesystems) == 0 {
		filesystems = DefaultFilesystems
	}
	filesystems = format.UniqueStrings(filesystems)
	allow := make(map[string]bool, len(filesystems))
	for _, fs := range filesystems {
		allow[fs] = true
	}
	return &DiskSource{
		filesystems: allow,
		resolver:    resolver,
		partitions:  disk.PartitionsWithContext,
		usage:       disk.UsageWithContext,
	}
}

// Disks returns one record per mounted allow-listed partition. A
// partition whose usage query fails (for example unmounted mid-scan) is
// skipped entirely rather than reported zero-filled. An error return
// means enumeration itself failed and the domain is absent this cycle.
func (s *DiskSource) Disks(ctx context.Context) ([]metrics.DiskStats, error) {
	parts, err := s.partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("collectors: disk partitions: %w", err)
	}

	var disks []metrics.DiskStats
	for _, p := range parts {
		if !s.filesystems[p.Fstype] {
			continue
		}

		u, err := s.usage(ctx, p.Mountpoint)
		if err != nil || u == nil {
			continue
		}

		record := metrics.DiskStats{
			DevicePath:   p.Device,
			MountPoint:   p.Mountpoint,
			Filesystem:   p.Fstype,
			TotalBytes:   u.Total,
			UsedBytes:    u.Used,
			FreeBytes:    u.Free,
			PhysicalDisk: metrics.UnknownIdentity,
			Model:        metrics.UnknownIdentity,
			Serial:       metrics.UnknownIdentity,
		}

		if s.resolver != nil {
			name, id := s.resolver.Resolve(ctx, p.Device)
			if name != "" {
				record.PhysicalDisk = name
			}
			record.Model = id.Model
			record.Serial = id.Serial
		}

		disks = append(disks, record)
	}
	return disks, nil
}
