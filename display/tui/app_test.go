package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/patrik-fredon/waybar-resource-hub/history"
	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// fakePoller returns a canned snapshot and counts calls.
type fakePoller struct {
	snap  metrics.Snapshot
	calls int
}

func (f *fakePoller) Poll(_ context.Context) metrics.Snapshot {
	f.calls++
	return f.snap
}

func testSnapshot() metrics.Snapshot {
	temp := 61.0
	cores := 8
	util := 42.0

	return metrics.Snapshot{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		CPU:       metrics.CPUStats{UsagePercent: 25, TemperatureC: &temp, CoreCount: &cores},
		Memory:    metrics.MemoryStats{UsedBytes: 4 << 30, TotalBytes: 16 << 30},
		GPUs: []metrics.GPUStats{
			{Name: "NVIDIA GeForce RTX 3080", UtilizationPercent: &util},
		},
		Disks: []metrics.DiskStats{
			{
				MountPoint:   "/",
				TotalBytes:   500 << 30,
				UsedBytes:    200 << 30,
				PhysicalDisk: "nvme0n1",
				Model:        "Samsung SSD 980 PRO",
				Serial:       "S5GXNF0R123456",
			},
		},
	}
}

func newTestModel(t *testing.T) (Model, *fakePoller) {
	t.Helper()
	poller := &fakePoller{snap: testSnapshot()}
	m := NewModel(Config{
		Poller:  poller,
		History: history.NewStore(10),
	})
	return m, poller
}

// ready drives the model through a window size and one snapshot so View
// renders the full dashboard.
func ready(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	updated, _ = m.Update(snapshotMsg(testSnapshot()))
	return updated.(Model)
}

func keyPress(m Model, r rune) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return updated.(Model)
}

func TestViewBeforeReady(t *testing.T) {
	m, _ := newTestModel(t)
	if got := m.View(); !strings.Contains(got, "Initializing") {
		t.Errorf("View() = %q, want initializing placeholder", got)
	}
}

func TestViewWaitingForFirstSample(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	if got := m.View(); !strings.Contains(got, "Collecting first sample") {
		t.Errorf("View() = %q, want first-sample placeholder", got)
	}
}

func TestViewRendersAllDomains(t *testing.T) {
	m, _ := newTestModel(t)
	m = ready(m)
	out := m.View()

	for _, want := range []string{
		"waybar-resource-hub",
		"CPU",
		"8 cores",
		"61°C",
		"Memory",
		"4.0 GiB / 16.0 GiB",
		"NVIDIA GeForce RTX 3080",
		"Disks",
		"nvme0n1",
		"Samsung SSD 980 PRO",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestViewGPUNotDetected(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	snap := testSnapshot()
	snap.GPUs = nil
	updated, _ = m.Update(snapshotMsg(snap))
	m = updated.(Model)

	if out := m.View(); !strings.Contains(out, "Not Detected") {
		t.Error("dashboard missing GPU Not Detected marker")
	}
}

func TestToggleUnit(t *testing.T) {
	m, _ := newTestModel(t)
	m = ready(m)

	if out := m.View(); !strings.Contains(out, "61°C") {
		t.Fatal("expected Celsius before toggle")
	}

	m = keyPress(m, 'u')
	out := m.View()
	if !strings.Contains(out, "142°F") {
		t.Errorf("expected Fahrenheit after toggle, got:\n%s", out)
	}
	if strings.Contains(out, "61°C") {
		t.Error("Celsius reading leaked after unit toggle")
	}

	m = keyPress(m, 'u')
	if out := m.View(); !strings.Contains(out, "61°C") {
		t.Error("expected Celsius after second toggle")
	}
}

func TestPauseSkipsPolling(t *testing.T) {
	m, _ := newTestModel(t)
	m = ready(m)

	m = keyPress(m, ' ')
	if !m.paused {
		t.Fatal("space did not pause the model")
	}

	// A tick while paused re-arms the timer without polling, so no
	// snapshot message is produced.
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("paused tick must still schedule the next tick")
	}

	if out := m.View(); !strings.Contains(out, "(paused)") {
		t.Error("header missing paused marker")
	}

	m = keyPress(m, ' ')
	if m.paused {
		t.Error("second space did not resume")
	}
}

func TestResetHistory(t *testing.T) {
	m, _ := newTestModel(t)
	m = ready(m)

	if got := m.cfg.History.Get(metrics.DomainCPU); len(got) == 0 {
		t.Fatal("snapshot did not populate history")
	}

	m = keyPress(m, 'r')
	if got := m.cfg.History.Get(metrics.DomainCPU); len(got) != 0 {
		t.Errorf("history not cleared, still %d samples", len(got))
	}
}

func TestFailedSnapshotSkipsHistory(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	updated, _ = m.Update(snapshotMsg(metrics.Snapshot{Timestamp: time.Now(), Failed: true}))
	m = updated.(Model)

	if got := m.cfg.History.Get(metrics.DomainCPU); len(got) != 0 {
		t.Errorf("failed snapshot recorded %d history samples", len(got))
	}
	if out := m.View(); !strings.Contains(out, "stale") {
		t.Error("header badge missing stale level for failed snapshot")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	m = ready(m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if msg := cmd(); msg == nil {
		t.Error("q command produced no message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("q produced %T, want tea.QuitMsg", msg)
	}
}

func TestDegradedSuffix(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	snap := testSnapshot()
	snap.Degraded = []metrics.Domain{metrics.DomainDisk}
	updated, _ = m.Update(snapshotMsg(snap))
	m = updated.(Model)

	if out := m.View(); !strings.Contains(out, "degraded") {
		t.Error("dashboard missing degraded marker for disk domain")
	}
}

func TestPollCmdProducesSnapshotMsg(t *testing.T) {
	m, poller := newTestModel(t)

	msg := m.pollCmd()()
	snap, ok := msg.(snapshotMsg)
	if !ok {
		t.Fatalf("pollCmd produced %T, want snapshotMsg", msg)
	}
	if poller.calls != 1 {
		t.Errorf("poller called %d times, want 1", poller.calls)
	}
	if metrics.Snapshot(snap).CPU.UsagePercent != 25 {
		t.Error("snapshot message lost collector data")
	}
}
