package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkRunes maps normalized sample height to a block character, lowest
// first. Eight levels is what the unicode block range offers.
var sparkRunes = [...]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineConfig describes one metric history series to render.
type SparklineConfig struct {
	// Data holds the series in arrival order, newest last.
	Data []float64
	// Width caps the rendered column count; only the newest samples fit.
	// Zero renders every sample. Series shorter than Width are left-padded
	// so the newest sample stays pinned to the right edge.
	Width int
	// Min and Max fix the vertical scale. Telemetry callers pass 0 and
	// 100 so successive frames stay comparable; leaving both zero scales
	// to the series bounds instead.
	Min float64
	Max float64
	// Label is prefixed verbatim when non-empty.
	Label string
	// Color tints the block characters when non-empty.
	Color lipgloss.Color
}

// RenderSparkline draws a block-character trend line for one series.
// A constant series renders at mid height rather than dividing by zero;
// an empty series renders nothing.
func RenderSparkline(cfg SparklineConfig) string {
	data := cfg.Data
	if len(data) == 0 {
		return ""
	}

	width := cfg.Width
	if width <= 0 {
		width = len(data)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := cfg.Min, cfg.Max
	if lo == hi {
		lo, hi = seriesBounds(data)
	}

	var blocks strings.Builder
	for _, v := range data {
		blocks.WriteRune(sparkRunes[sparkLevel(v, lo, hi)])
	}

	spark := blocks.String()
	if cfg.Color != "" {
		spark = lipgloss.NewStyle().Foreground(cfg.Color).Render(spark)
	}
	if pad := width - len(data); pad > 0 {
		spark = strings.Repeat(" ", pad) + spark
	}
	if cfg.Label != "" {
		spark = cfg.Label + " " + spark
	}
	return spark
}

// sparkLevel buckets one sample into a block index. A degenerate scale
// maps everything to mid height.
func sparkLevel(v, lo, hi float64) int {
	if lo >= hi {
		return len(sparkRunes) / 2
	}
	norm := (v - lo) / (hi - lo)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	idx := int(norm * float64(len(sparkRunes)-1))
	if idx >= len(sparkRunes) {
		idx = len(sparkRunes) - 1
	}
	return idx
}

// seriesBounds returns the min and max of a non-empty series.
func seriesBounds(data []float64) (lo, hi float64) {
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
