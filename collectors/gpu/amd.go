package gpu

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// AMDBackend queries AMD devices through rocm-smi JSON output.
type AMDBackend struct {
	// lookPath and run are overridable for tests.
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewAMDBackend creates a backend that shells out to rocm-smi.
func NewAMDBackend() *AMDBackend {
	return &AMDBackend{
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Vendor returns "amd".
func (b *AMDBackend) Vendor() string {
	return "amd"
}

// Probe reports whether rocm-smi is installed.
func (b *AMDBackend) Probe() bool {
	_, err := b.lookPath("rocm-smi")
	return err == nil
}

// Devices enumerates AMD devices via rocm-smi's JSON report. The report
// maps "cardN" keys to flat string fields whose names vary across ROCm
// releases, so field lookup is substring-based. Devices are returned in
// card index order.
func (b *AMDBackend) Devices(ctx context.Context) ([]metrics.GPUStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := b.run(ctx, "rocm-smi",
		"--showproductname", "--showuse", "--showtemp",
		"--showmeminfo", "vram", "--json",
	)
	if err != nil {
		return nil, fmt.Errorf("gpu: rocm-smi: %w", err)
	}

	var report map[string]map[string]string
	if err := json.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("gpu: parse rocm-smi output: %w", err)
	}

	cards := make([]string, 0, len(report))
	for card := range report {
		if strings.HasPrefix(card, "card") {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cardIndex(cards[i]) < cardIndex(cards[j])
	})

	var devices []metrics.GPUStats
	for _, card := range cards {
		devices = append(devices, parseAMDCard(report[card]))
	}
	return devices, nil
}

// cardIndex extracts the numeric suffix of a "cardN" key; unparseable
// keys sort last.
func cardIndex(card string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(card, "card"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// parseAMDCard converts one card's field map into a device record.
// Missing or unparseable fields stay absent.
func parseAMDCard(fields map[string]string) metrics.GPUStats {
	dev := metrics.GPUStats{Name: "AMD GPU"}

	if name := amdField(fields, "Card series", "Card model"); name != "" {
		dev.Name = name
	}
	if v := amdField(fields, "GPU use (%)"); v != "" {
		if util, err := strconv.ParseFloat(v, 64); err == nil {
			dev.UtilizationPercent = &util
		}
	}
	if v := amdFieldContains(fields, "Temperature", "edge"); v != "" {
		if temp, err := strconv.ParseFloat(v, 64); err == nil {
			dev.TemperatureC = &temp
		}
	}
	if v := amdField(fields, "VRAM Total Used Memory (B)"); v != "" {
		if used, err := strconv.ParseUint(v, 10, 64); err == nil {
			dev.MemUsedBytes = &used
		}
	}
	if v := amdField(fields, "VRAM Total Memory (B)"); v != "" {
		if total, err := strconv.ParseUint(v, 10, 64); err == nil {
			dev.MemTotalBytes = &total
		}
	}

	return dev
}

// amdField returns the first non-empty value whose key contains any of
// the given fragments (case-insensitive).
func amdField(fields map[string]string, fragments ...string) string {
	for _, frag := range fragments {
		for key, val := range fields {
			if strings.Contains(strings.ToLower(key), strings.ToLower(frag)) {
				if v := strings.TrimSpace(val); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// amdFieldContains returns the first non-empty value whose key contains
// all fragments (case-insensitive). Used for sensor keys like
// "Temperature (Sensor edge) (C)".
func amdFieldContains(fields map[string]string, fragments ...string) string {
	for key, val := range fields {
		lower := strings.ToLower(key)
		match := true
		for _, frag := range fragments {
			if !strings.Contains(lower, strings.ToLower(frag)) {
				match = false
				break
			}
		}
		if match {
			if v := strings.TrimSpace(val); v != "" {
				return v
			}
		}
	}
	return ""
}

// Compile-time interface compliance check.
var _ Backend = (*AMDBackend)(nil)
