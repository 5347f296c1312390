package gpu

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// nvidiaQueryFields is the column list passed to nvidia-smi. Order must
// match the parser below.
const nvidiaQueryFields = "name,utilization.gpu,memory.used,memory.total,temperature.gpu"

// NvidiaBackend queries NVIDIA devices through nvidia-smi CSV output.
type NvidiaBackend struct {
	// lookPath and run are overridable for tests.
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewNvidiaBackend creates a backend that shells out to nvidia-smi.
func NewNvidiaBackend() *NvidiaBackend {
	return &NvidiaBackend{
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Vendor returns "nvidia".
func (b *NvidiaBackend) Vendor() string {
	return "nvidia"
}

// Probe reports whether nvidia-smi is installed.
func (b *NvidiaBackend) Probe() bool {
	_, err := b.lookPath("nvidia-smi")
	return err == nil
}

// Devices enumerates NVIDIA devices via
// `nvidia-smi --query-gpu=... --format=csv,noheader,nounits`.
// One CSV line per device; a malformed line degrades that device to a
// placeholder record instead of failing the scan.
func (b *NvidiaBackend) Devices(ctx context.Context) ([]metrics.GPUStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := b.run(ctx, "nvidia-smi",
		"--query-gpu="+nvidiaQueryFields,
		"--format=csv,noheader,nounits",
	)
	if err != nil {
		return nil, fmt.Errorf("gpu: nvidia-smi: %w", err)
	}

	var devices []metrics.GPUStats
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		devices = append(devices, parseNvidiaLine(i, line))
	}
	return devices, nil
}

// parseNvidiaLine converts one CSV line into a device record. Fields that
// fail to parse (nvidia-smi prints "[N/A]" for unsupported queries) stay
// absent; a line with the wrong shape yields a placeholder name.
func parseNvidiaLine(index int, line string) metrics.GPUStats {
	dev := metrics.GPUStats{Name: fmt.Sprintf("GPU %d", index)}

	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return dev
	}

	if name := strings.TrimSpace(fields[0]); name != "" {
		dev.Name = name
	}
	if util, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err == nil {
		dev.UtilizationPercent = &util
	}
	if usedMiB, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64); err == nil {
		used := usedMiB * mib
		dev.MemUsedBytes = &used
	}
	if totalMiB, err := strconv.ParseUint(strings.TrimSpace(fields[3]), 10, 64); err == nil {
		total := totalMiB * mib
		dev.MemTotalBytes = &total
	}
	if temp, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64); err == nil {
		dev.TemperatureC = &temp
	}

	return dev
}

// Compile-time interface compliance check.
var _ Backend = (*NvidiaBackend)(nil)
