// Package bar renders a telemetry snapshot as a waybar custom-module JSON
// payload: one line on stdout with text, tooltip, CSS class, and the
// dominant usage percentage.
package bar

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/patrik-fredon/waybar-resource-hub/internal/format"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
	"github.com/patrik-fredon/waybar-resource-hub/status"
)

// Output is the waybar custom module contract. Waybar reads one JSON
// object per line from the module's stdout.
type Output struct {
	Text       string `json:"text"`
	Tooltip    string `json:"tooltip"`
	Class      string `json:"class"`
	Percentage int    `json:"percentage"`
}

// Config controls bar rendering.
type Config struct {
	// TemperatureUnit is "celsius" or "fahrenheit". Snapshot values stay
	// Celsius; conversion happens only here.
	TemperatureUnit string
}

// Renderer formats snapshots for waybar.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a Renderer. An empty temperature unit means Celsius.
func NewRenderer(cfg Config) *Renderer {
	if cfg.TemperatureUnit == "" {
		cfg.TemperatureUnit = format.UnitCelsius
	}
	return &Renderer{cfg: cfg}
}

// Render produces the waybar payload for one snapshot and its evaluated
// status. A failed or stale snapshot renders a minimal "stale" payload
// rather than misleading numbers.
func (r *Renderer) Render(snap metrics.Snapshot, st status.SystemStatus) Output {
	if snap.Failed || st.Overall == status.LevelStale {
		return Output{
			Text:       "telemetry stale",
			Tooltip:    "no recent telemetry data",
			Class:      status.LevelStale.String(),
			Percentage: 0,
		}
	}

	return Output{
		Text:       r.text(snap),
		Tooltip:    r.tooltip(snap),
		Class:      st.Overall.String(),
		Percentage: int(dominantPercent(snap)),
	}
}

// Encode renders and marshals one snapshot to a single JSON line.
func (r *Renderer) Encode(snap metrics.Snapshot, st status.SystemStatus) ([]byte, error) {
	out := r.Render(snap, st)
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("bar: marshal output: %w", err)
	}
	return data, nil
}

// text builds the compact single-line bar text, one segment per domain.
func (r *Renderer) text(snap metrics.Snapshot) string {
	var parts []string

	cpu := fmt.Sprintf("CPU %s", format.FormatPercent(snap.CPU.UsagePercent))
	if snap.CPU.TemperatureC != nil {
		cpu += " " + format.FormatTemperature(*snap.CPU.TemperatureC, r.cfg.TemperatureUnit)
	}
	parts = append(parts, cpu)

	if snap.Memory.TotalBytes > 0 {
		parts = append(parts, fmt.Sprintf("RAM %s", format.FormatPercent(snap.Memory.Percent())))
	}

	parts = append(parts, r.gpuSegment(snap.GPUs))

	if pct, ok := snap.Primary(metrics.DomainDisk); ok {
		parts = append(parts, fmt.Sprintf("DISK %s", format.FormatPercent(pct)))
	}

	return strings.Join(parts, " | ")
}

// gpuSegment distinguishes "no GPU detected" from a GPU at 0%.
func (r *Renderer) gpuSegment(gpus []metrics.GPUStats) string {
	if len(gpus) == 0 {
		return "GPU: Not Detected"
	}

	g := gpus[0]
	seg := "GPU"
	switch {
	case g.UtilizationPercent != nil:
		seg += " " + format.FormatPercent(*g.UtilizationPercent)
	case g.MemoryPercent() != nil:
		seg += " " + format.FormatPercent(*g.MemoryPercent())
	default:
		seg += " n/a"
	}
	if g.TemperatureC != nil {
		seg += " " + format.FormatTemperature(*g.TemperatureC, r.cfg.TemperatureUnit)
	}
	return seg
}

// tooltip builds the multi-line hover detail.
func (r *Renderer) tooltip(snap metrics.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CPU: %s", format.FormatPercent(snap.CPU.UsagePercent))
	if snap.CPU.CoreCount != nil {
		fmt.Fprintf(&b, " (%d cores)", *snap.CPU.CoreCount)
	}
	if snap.CPU.TemperatureC != nil {
		fmt.Fprintf(&b, ", %s", format.FormatTemperature(*snap.CPU.TemperatureC, r.cfg.TemperatureUnit))
	}
	b.WriteByte('\n')

	if snap.Memory.TotalBytes > 0 {
		fmt.Fprintf(&b, "Memory: %s / %s (%s)\n",
			format.FormatBytes(snap.Memory.UsedBytes),
			format.FormatBytes(snap.Memory.TotalBytes),
			format.FormatPercent(snap.Memory.Percent()),
		)
	}

	if len(snap.GPUs) == 0 {
		b.WriteString("GPU: Not Detected\n")
	}
	for _, g := range snap.GPUs {
		fmt.Fprintf(&b, "GPU: %s", g.Name)
		if g.UtilizationPercent != nil {
			fmt.Fprintf(&b, ", %s", format.FormatPercent(*g.UtilizationPercent))
		}
		if g.MemUsedBytes != nil && g.MemTotalBytes != nil {
			fmt.Fprintf(&b, ", %s / %s VRAM",
				format.FormatBytes(*g.MemUsedBytes), format.FormatBytes(*g.MemTotalBytes))
		}
		if g.TemperatureC != nil {
			fmt.Fprintf(&b, ", %s", format.FormatTemperature(*g.TemperatureC, r.cfg.TemperatureUnit))
		}
		b.WriteByte('\n')
	}

	for _, d := range snap.Disks {
		fmt.Fprintf(&b, "%s (%s): %s / %s (%s)",
			d.MountPoint, d.PhysicalDisk,
			format.FormatBytes(d.UsedBytes), format.FormatBytes(d.TotalBytes),
			format.FormatPercent(d.Percent()),
		)
		if d.Model != metrics.UnknownIdentity {
			fmt.Fprintf(&b, ", %s", d.Model)
		}
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

// dominantPercent is the highest usage reading across domains, driving
// waybar's percentage field.
func dominantPercent(snap metrics.Snapshot) float64 {
	top := snap.CPU.UsagePercent
	for _, d := range metrics.Domains[1:] {
		if v, ok := snap.Primary(d); ok && v > top {
			top = v
		}
	}
	return top
}
