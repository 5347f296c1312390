// Package tui implements the live-updating terminal dashboard. It drives
// its own poll loop: a tick message triggers a collector cycle off the UI
// goroutine, and the resulting snapshot feeds the history store and view.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/patrik-fredon/waybar-resource-hub/history"
	"github.com/patrik-fredon/waybar-resource-hub/internal/format"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
	"github.com/patrik-fredon/waybar-resource-hub/status"
)

// Poller produces one snapshot per call. *collectors.Aggregator satisfies
// this; tests inject fakes.
type Poller interface {
	Poll(ctx context.Context) metrics.Snapshot
}

// Config wires the dashboard.
type Config struct {
	// Poller runs one collection cycle per tick.
	Poller Poller
	// History receives every snapshot; the dashboard renders its series.
	History *history.Store
	// Interval is the tick period between poll cycles.
	Interval time.Duration
	// TemperatureUnit is the initial unit; the u key toggles it.
	TemperatureUnit string
	// SparklineWidth is the history sparkline column count.
	SparklineWidth int
	// Thresholds drive the per-domain accent colors.
	Thresholds status.EvaluatorConfig
}

type tickMsg time.Time

type snapshotMsg metrics.Snapshot

// Model is the top-level Bubbletea model for the dashboard.
type Model struct {
	cfg       Config
	evaluator *status.Evaluator
	help      help.Model

	snapshot    metrics.Snapshot
	st          status.SystemStatus
	hasSnapshot bool

	width  int
	height int
	ready  bool

	fahrenheit bool
	paused     bool
	showHelp   bool
}

// NewModel returns an initialized dashboard model.
func NewModel(cfg Config) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.SparklineWidth <= 0 {
		cfg.SparklineWidth = 12
	}
	if cfg.Thresholds.WarningPercent == 0 {
		cfg.Thresholds = status.DefaultEvaluatorConfig()
	}
	// The dashboard shows live data; snapshot age never exceeds one tick.
	cfg.Thresholds.MaxAge = 0

	return Model{
		cfg:        cfg,
		evaluator:  status.NewEvaluator(cfg.Thresholds),
		help:       help.New(),
		fahrenheit: cfg.TemperatureUnit == format.UnitFahrenheit,
	}
}

// Init implements tea.Model. It kicks off the first poll immediately so
// the dashboard has data before the first tick elapses.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), m.tickCmd())
}

// pollCmd runs one collection cycle off the UI goroutine.
func (m Model) pollCmd() tea.Cmd {
	poller := m.cfg.Poller
	return func() tea.Msg {
		return snapshotMsg(poller.Poll(context.Background()))
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.ToggleUnit):
			m.fahrenheit = !m.fahrenheit
		case key.Matches(msg, keys.ResetHistory):
			if m.cfg.History != nil {
				m.cfg.History.Reset()
			}
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.pollCmd(), m.tickCmd())

	case snapshotMsg:
		snap := metrics.Snapshot(msg)
		m.snapshot = snap
		m.st = m.evaluator.Evaluate(snap)
		m.hasSnapshot = true
		if m.cfg.History != nil && !snap.Failed {
			m.cfg.History.Observe(snap)
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if !m.hasSnapshot {
		return styleContent.Render("Collecting first sample...")
	}

	header := m.renderHeader()
	content := m.renderDashboard()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// renderHeader shows the overall status and sample time.
func (m Model) renderHeader() string {
	title := styleTitle.Render("waybar-resource-hub")
	level := m.st.Overall

	badge := styleBadge(level).Render(level.String())
	stamp := styleMutedText.Render(m.snapshot.Timestamp.Format("15:04:05"))
	if m.paused {
		stamp += styleMutedText.Render(" (paused)")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", badge, "  ", stamp)
	return styleHeader.Width(m.width).Render(line)
}

// renderFooter renders key help via the bubbles help component.
func (m Model) renderFooter() string {
	return styleFooter.Width(m.width).Render(m.help.View(keys))
}

// unit returns the active temperature unit for formatting.
func (m Model) unit() string {
	if m.fahrenheit {
		return format.UnitFahrenheit
	}
	return format.UnitCelsius
}

// degradedSuffix marks a domain whose data missed this cycle.
func (m Model) degradedSuffix(domain metrics.Domain) string {
	if m.snapshot.IsDegraded(domain) {
		return styleMutedText.Render(" (degraded)")
	}
	return ""
}
