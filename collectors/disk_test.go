package collectors

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

func TestDisksFilesystemAllowList(t *testing.T) {
	s := NewDiskSource(nil, nil)
	s.partitions = func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/nvme0n1p2", Mountpoint: "/", Fstype: "ext4"},
			{Device: "tmpfs", Mountpoint: "/tmp", Fstype: "tmpfs"},
			{Device: "overlay", Mountpoint: "/var/lib/docker/overlay2/x", Fstype: "overlay"},
			{Device: "/dev/sda1", Mountpoint: "/data", Fstype: "btrfs"},
		}, nil
	}
	s.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Total: 100, Used: 40, Free: 60}, nil
	}

	disks, err := s.Disks(context.Background())
	if err != nil {
		t.Fatalf("Disks error: %v", err)
	}
	if len(disks) != 2 {
		t.Fatalf("len(disks) = %d, want 2 (pseudo-filesystems excluded)", len(disks))
	}
	if disks[0].DevicePath != "/dev/nvme0n1p2" || disks[1].DevicePath != "/dev/sda1" {
		t.Errorf("devices = %q, %q", disks[0].DevicePath, disks[1].DevicePath)
	}
}

// TestDisksSkipOnUsageError verifies a partition whose usage query fails
// is excluded entirely, never reported zero-filled.
func TestDisksSkipOnUsageError(t *testing.T) {
	s := NewDiskSource(nil, nil)
	s.partitions = func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
			{Device: "/dev/sdb1", Mountpoint: "/mnt/gone", Fstype: "ext4"},
		}, nil
	}
	s.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		if path == "/mnt/gone" {
			return nil, errors.New("no such file or directory")
		}
		return &disk.UsageStat{Total: 500, Used: 100, Free: 400}, nil
	}

	disks, err := s.Disks(context.Background())
	if err != nil {
		t.Fatalf("Disks error: %v", err)
	}
	if len(disks) != 1 {
		t.Fatalf("len(disks) = %d, want 1", len(disks))
	}
	if disks[0].MountPoint != "/" {
		t.Errorf("kept partition = %q, want /", disks[0].MountPoint)
	}
}

// TestDisksEnumerationFailure verifies a partition listing failure is an
// error, making the whole domain absent for the cycle.
func TestDisksEnumerationFailure(t *testing.T) {
	s := NewDiskSource(nil, nil)
	s.partitions = func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
		return nil, errors.New("mounts unreadable")
	}

	if _, err := s.Disks(context.Background()); err == nil {
		t.Error("expected error when enumeration fails")
	}
}

// TestDisksNilResolver verifies identity fields stay Unknown without a
// resolver wired in.
func TestDisksNilResolver(t *testing.T) {
	s := NewDiskSource(nil, nil)
	s.partitions = func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/nvme0n1p1", Mountpoint: "/", Fstype: "ext4"},
		}, nil
	}
	s.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Total: 100, Used: 50, Free: 50}, nil
	}

	disks, err := s.Disks(context.Background())
	if err != nil {
		t.Fatalf("Disks error: %v", err)
	}
	d := disks[0]
	if d.PhysicalDisk != metrics.UnknownIdentity || d.Model != metrics.UnknownIdentity || d.Serial != metrics.UnknownIdentity {
		t.Errorf("identity = %q/%q/%q, want Unknown sentinels", d.PhysicalDisk, d.Model, d.Serial)
	}
}

func TestDisksCustomAllowList(t *testing.T) {
	s := NewDiskSource([]string{"xfs"}, nil)
	s.partitions = func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"},
			{Device: "/dev/sdb1", Mountpoint: "/srv", Fstype: "xfs"},
		}, nil
	}
	s.usage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Total: 10, Used: 1, Free: 9}, nil
	}

	disks, err := s.Disks(context.Background())
	if err != nil {
		t.Fatalf("Disks error: %v", err)
	}
	if len(disks) != 1 || disks[0].Filesystem != "xfs" {
		t.Errorf("disks = %+v, want only the xfs partition", disks)
	}
}
