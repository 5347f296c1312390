package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeFilled = "█"
	gaugeEmpty  = "░"

	// Fallback coloring thresholds when a caller passes none, matching
	// the default status evaluation boundaries.
	defaultGaugeWarning = 75
	defaultGaugeDanger  = 90
)

// GaugeConfig describes one horizontal usage bar.
type GaugeConfig struct {
	// Width is the bar character count. Zero falls back to 20.
	Width int
	// Percent is the usage reading; values outside [0,100] are clamped.
	Percent float64
	// Label is prefixed verbatim when non-empty.
	Label string
	// ShowPercent appends the numeric reading after the bar.
	ShowPercent bool
	// ThresholdWarning and ThresholdDanger recolor the filled portion.
	// Both zero falls back to the default status boundaries.
	ThresholdWarning float64
	ThresholdDanger  float64
}

// gaugeColor picks the fill color for a reading against the thresholds.
func gaugeColor(percent, warning, danger float64) lipgloss.Color {
	switch {
	case percent >= danger:
		return lipgloss.Color("#EF4444")
	case percent >= warning:
		return lipgloss.Color("#EAB308")
	default:
		return lipgloss.Color("#22C55E")
	}
}

// RenderGauge renders a usage bar with threshold coloring, in the shape
// [Label] ████████░░░░ [NN%].
func RenderGauge(cfg GaugeConfig) string {
	percent := math.Max(0, math.Min(100, cfg.Percent))

	width := cfg.Width
	if width <= 0 {
		width = 20
	}
	warning, danger := cfg.ThresholdWarning, cfg.ThresholdDanger
	if warning == 0 && danger == 0 {
		warning, danger = defaultGaugeWarning, defaultGaugeDanger
	}

	filled := int(math.Round(percent / 100 * float64(width)))
	fillStyle := lipgloss.NewStyle().Foreground(gaugeColor(percent, warning, danger))

	var b strings.Builder
	if cfg.Label != "" {
		b.WriteString(cfg.Label)
		b.WriteString(" ")
	}
	b.WriteString(fillStyle.Render(strings.Repeat(gaugeFilled, filled)))
	b.WriteString(strings.Repeat(gaugeEmpty, width-filled))
	if cfg.ShowPercent {
		fmt.Fprintf(&b, " %3.0f%%", percent)
	}
	return b.String()
}

// RenderMiniGauge renders a bare fill bar for inline use, such as the
// per-partition column in the disk card.
func RenderMiniGauge(percent float64, width int) string {
	return RenderGauge(GaugeConfig{Width: width, Percent: percent})
}
