package widgets

import (
	"strings"
	"testing"
)

func TestRenderGaugeFillProportions(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		filled  int
		empty   int
		text    string
	}{
		{"idle", 0, 0, 20, "0%"},
		{"half", 50, 10, 10, "50%"},
		{"full", 100, 20, 0, "100%"},
		{"clamped high", 150, 20, 0, "100%"},
		{"clamped low", -25, 0, 20, "0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderGauge(GaugeConfig{Width: 20, Percent: tt.percent, ShowPercent: true})

			if got := strings.Count(out, gaugeFilled); got != tt.filled {
				t.Errorf("filled cells = %d, want %d", got, tt.filled)
			}
			if got := strings.Count(out, gaugeEmpty); got != tt.empty {
				t.Errorf("empty cells = %d, want %d", got, tt.empty)
			}
			if !strings.Contains(out, tt.text) {
				t.Errorf("output %q missing %q", out, tt.text)
			}
		})
	}
}

func TestRenderGaugeDefaultWidth(t *testing.T) {
	out := RenderGauge(GaugeConfig{Percent: 100})
	if got := strings.Count(out, gaugeFilled); got != 20 {
		t.Errorf("zero-width config rendered %d cells, want 20", got)
	}
}

func TestRenderGaugeLabel(t *testing.T) {
	out := RenderGauge(GaugeConfig{Width: 10, Percent: 50, Label: "util"})
	if !strings.HasPrefix(out, "util ") {
		t.Errorf("labeled gauge = %q, want 'util ' prefix", out)
	}
}

func TestRenderGaugeWithoutPercentText(t *testing.T) {
	out := RenderGauge(GaugeConfig{Width: 10, Percent: 50})
	if strings.Contains(out, "%") {
		t.Errorf("gauge without ShowPercent carries percent text: %q", out)
	}
}

func TestGaugeColorThresholds(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{30, "#22C55E"},
		{74.9, "#22C55E"},
		{75, "#EAB308"},
		{89.9, "#EAB308"},
		{90, "#EF4444"},
		{100, "#EF4444"},
	}

	for _, tt := range tests {
		if got := gaugeColor(tt.percent, 75, 90); string(got) != tt.want {
			t.Errorf("gaugeColor(%v) = %s, want %s", tt.percent, got, tt.want)
		}
	}
}

func TestRenderGaugeFallbackThresholds(t *testing.T) {
	// No thresholds in the config still renders; coloring falls back to
	// the default status boundaries.
	out := RenderGauge(GaugeConfig{Width: 10, Percent: 95, ShowPercent: true})
	if !strings.Contains(out, "95%") {
		t.Errorf("output %q missing reading", out)
	}
}

func TestRenderMiniGauge(t *testing.T) {
	out := RenderMiniGauge(50, 10)

	if got := strings.Count(out, gaugeFilled); got != 5 {
		t.Errorf("mini gauge filled cells = %d, want 5", got)
	}
	if got := strings.Count(out, gaugeEmpty); got != 5 {
		t.Errorf("mini gauge empty cells = %d, want 5", got)
	}
	if strings.Contains(out, "%") {
		t.Errorf("mini gauge carries percent text: %q", out)
	}
}
