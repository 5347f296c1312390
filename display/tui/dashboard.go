package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/patrik-fredon/waybar-resource-hub/display/widgets"
	"github.com/patrik-fredon/waybar-resource-hub/internal/format"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
	"github.com/patrik-fredon/waybar-resource-hub/status"
)

const gaugeWidth = 24

// renderDashboard lays out one section per hardware domain.
func (m Model) renderDashboard() string {
	sections := []string{
		m.renderCPU(),
		m.renderMemory(),
		m.renderGPU(),
		m.renderDisks(),
	}
	return styleContent.Render(strings.Join(sections, "\n\n"))
}

// gauge renders a usage bar with the evaluator's thresholds.
func (m Model) gauge(percent float64) string {
	return widgets.RenderGauge(widgets.GaugeConfig{
		Width:            gaugeWidth,
		Percent:          percent,
		ShowPercent:      true,
		ThresholdWarning: m.cfg.Thresholds.WarningPercent,
		ThresholdDanger:  m.cfg.Thresholds.CriticalPercent,
	})
}

// sparkline renders the domain's history series on a fixed 0-100 scale so
// successive frames stay comparable.
func (m Model) sparkline(domain metrics.Domain) string {
	if m.cfg.History == nil {
		return ""
	}
	series := m.cfg.History.Get(domain)
	if len(series) == 0 {
		return ""
	}
	return widgets.RenderSparkline(widgets.SparklineConfig{
		Data:  series,
		Width: m.cfg.SparklineWidth,
		Min:   0,
		Max:   100,
		Label: styleMutedText.Render("history"),
		Color: colorSecondary,
	})
}

// sectionTitle colors the domain heading by its evaluated level.
func (m Model) sectionTitle(name string, domain metrics.Domain) string {
	title := styleSection.Foreground(levelColor(m.domainLevel(domain))).Render(name)
	return title + m.degradedSuffix(domain)
}

// domainLevel returns the evaluated level for one domain, healthy when the
// evaluator produced no component for it.
func (m Model) domainLevel(domain metrics.Domain) status.Level {
	for _, c := range m.st.Components {
		if c.Domain == domain {
			return c.Level
		}
	}
	return status.LevelHealthy
}

func (m Model) renderCPU() string {
	cpu := m.snapshot.CPU
	lines := []string{
		m.sectionTitle("CPU", metrics.DomainCPU),
		m.gauge(cpu.UsagePercent),
	}

	var details []string
	if cpu.CoreCount != nil {
		details = append(details, fmt.Sprintf("%d cores", *cpu.CoreCount))
	}
	if cpu.TemperatureC != nil {
		details = append(details, format.FormatTemperature(*cpu.TemperatureC, m.unit()))
	}
	if len(details) > 0 {
		lines = append(lines, styleMutedText.Render(strings.Join(details, "  ")))
	}

	if spark := m.sparkline(metrics.DomainCPU); spark != "" {
		lines = append(lines, spark)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMemory() string {
	mem := m.snapshot.Memory
	lines := []string{
		m.sectionTitle("Memory", metrics.DomainMemory),
		m.gauge(mem.Percent()),
		styleMutedText.Render(fmt.Sprintf("%s / %s",
			format.FormatBytes(mem.UsedBytes), format.FormatBytes(mem.TotalBytes))),
	}
	if spark := m.sparkline(metrics.DomainMemory); spark != "" {
		lines = append(lines, spark)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGPU() string {
	lines := []string{m.sectionTitle("GPU", metrics.DomainGPU)}

	if len(m.snapshot.GPUs) == 0 {
		lines = append(lines, styleMutedText.Render("Not Detected"))
		return strings.Join(lines, "\n")
	}

	for _, g := range m.snapshot.GPUs {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(format.TruncateWithEllipsis(g.Name, 48)))
		if g.UtilizationPercent != nil {
			lines = append(lines, m.gauge(*g.UtilizationPercent))
		}

		var details []string
		if g.MemUsedBytes != nil && g.MemTotalBytes != nil {
			vram := fmt.Sprintf("VRAM %s / %s",
				format.FormatBytes(*g.MemUsedBytes), format.FormatBytes(*g.MemTotalBytes))
			if pct := g.MemoryPercent(); pct != nil {
				vram += fmt.Sprintf(" (%s)", format.FormatPercent(*pct))
			}
			details = append(details, vram)
		}
		if g.TemperatureC != nil {
			details = append(details, format.FormatTemperature(*g.TemperatureC, m.unit()))
		}
		if len(details) > 0 {
			lines = append(lines, styleMutedText.Render(strings.Join(details, "  ")))
		}
	}

	if spark := m.sparkline(metrics.DomainGPU); spark != "" {
		lines = append(lines, spark)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDisks() string {
	lines := []string{m.sectionTitle("Disks", metrics.DomainDisk)}

	if len(m.snapshot.Disks) == 0 {
		lines = append(lines, styleMutedText.Render("No mounted disks"))
		return strings.Join(lines, "\n")
	}

	table := widgets.DefaultTableConfig()
	table.Columns = []widgets.Column{
		{Title: "Mount"},
		{Title: "Used", Align: widgets.AlignRight},
		{Title: "Total", Align: widgets.AlignRight},
		{Title: "Fill", Align: widgets.AlignRight},
		{Title: "Disk"},
		{Title: "Model"},
	}
	if m.width > 0 {
		table.MaxWidth = m.width
	}
	for _, d := range m.snapshot.Disks {
		model := ""
		if d.Model != metrics.UnknownIdentity {
			model = format.TruncateWithEllipsis(d.Model, 32)
		}
		table.Rows = append(table.Rows, []string{
			d.MountPoint,
			format.FormatBytes(d.UsedBytes),
			format.FormatBytes(d.TotalBytes),
			format.FormatPercent(d.Percent()),
			d.PhysicalDisk,
			model,
		})
	}
	lines = append(lines, widgets.RenderTable(table))

	if spark := m.sparkline(metrics.DomainDisk); spark != "" {
		lines = append(lines, spark)
	}
	return strings.Join(lines, "\n")
}
