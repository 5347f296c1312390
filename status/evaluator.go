// Package status classifies a telemetry snapshot into a health level used
// for waybar CSS classes and TUI accents.
package status

import (
	"fmt"
	"time"

	"github.com/patrik-fredon/waybar-resource-hub/metrics"
)

// Level represents system health.
type Level int

const (
	LevelHealthy  Level = iota // Everything normal
	LevelWarning               // Something needs attention
	LevelCritical              // Immediate attention needed
	LevelStale                 // Data too old or cycle failed
)

// String returns the human-readable name for a Level. It doubles as the
// waybar CSS class.
func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "healthy"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	case LevelStale:
		return "stale"
	default:
		return "stale"
	}
}

// levelSeverity returns the sort order for levels. Higher is worse.
// Critical > Warning > Stale > Healthy.
func levelSeverity(l Level) int {
	switch l {
	case LevelHealthy:
		return 0
	case LevelStale:
		return 1
	case LevelWarning:
		return 2
	case LevelCritical:
		return 3
	default:
		return 0
	}
}

// worstLevel returns whichever Level is more severe.
func worstLevel(a, b Level) Level {
	if levelSeverity(a) >= levelSeverity(b) {
		return a
	}
	return b
}

// ComponentStatus holds the evaluation result for a single domain.
type ComponentStatus struct {
	Domain metrics.Domain
	Level  Level
	Reason string // Human-readable reason
}

// SystemStatus is the aggregate evaluation result.
type SystemStatus struct {
	Overall     Level // Worst of all domains
	Components  []ComponentStatus
	EvaluatedAt time.Time
}

// EvaluatorConfig holds thresholds for evaluation rules. The percent
// thresholds apply to every usage reading: CPU utilization, memory
// percent, GPU utilization, and disk fill.
type EvaluatorConfig struct {
	WarningPercent  float64 // Default: 75.0
	CriticalPercent float64 // Default: 90.0

	// CPU package temperature thresholds in Celsius.
	TempWarningC  float64 // Default: 85.0
	TempCriticalC float64 // Default: 95.0

	// MaxAge is how old a snapshot may be before the whole status turns
	// stale. Zero disables the age check.
	MaxAge time.Duration
}

// DefaultEvaluatorConfig returns an EvaluatorConfig with sensible defaults.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		WarningPercent:  75.0,
		CriticalPercent: 90.0,
		TempWarningC:    85.0,
		TempCriticalC:   95.0,
		MaxAge:          4 * time.Second,
	}
}

// Evaluator analyzes snapshots and determines system health.
type Evaluator struct {
	config EvaluatorConfig

	now func() time.Time
}

// NewEvaluator creates an Evaluator with the given configuration.
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{config: cfg, now: time.Now}
}

// Evaluate runs all evaluation rules and returns the aggregate status.
// A failed snapshot, or one older than MaxAge, is stale regardless of the
// readings it carries.
func (e *Evaluator) Evaluate(snap metrics.Snapshot) SystemStatus {
	now := e.now()

	if snap.Failed {
		return SystemStatus{
			Overall:     LevelStale,
			Components:  nil,
			EvaluatedAt: now,
		}
	}
	if e.config.MaxAge > 0 && now.Sub(snap.Timestamp) > e.config.MaxAge {
		return SystemStatus{
			Overall: LevelStale,
			Components: []ComponentStatus{{
				Domain: metrics.DomainCPU,
				Level:  LevelStale,
				Reason: fmt.Sprintf("snapshot is %s old", now.Sub(snap.Timestamp).Round(time.Second)),
			}},
			EvaluatedAt: now,
		}
	}

	components := []ComponentStatus{
		e.evaluateCPU(snap),
		e.evaluateMemory(snap),
		e.evaluateGPU(snap),
		e.evaluateDisk(snap),
	}

	overall := components[0].Level
	for _, c := range components[1:] {
		overall = worstLevel(overall, c.Level)
	}

	return SystemStatus{
		Overall:     overall,
		Components:  components,
		EvaluatedAt: now,
	}
}

// classify buckets a usage percentage against the configured thresholds.
func (e *Evaluator) classify(pct float64) Level {
	switch {
	case pct >= e.config.CriticalPercent:
		return LevelCritical
	case pct >= e.config.WarningPercent:
		return LevelWarning
	default:
		return LevelHealthy
	}
}

func (e *Evaluator) evaluateCPU(snap metrics.Snapshot) ComponentStatus {
	if snap.IsDegraded(metrics.DomainCPU) {
		return ComponentStatus{Domain: metrics.DomainCPU, Level: LevelStale, Reason: "no data"}
	}

	level := e.classify(snap.CPU.UsagePercent)
	reason := fmt.Sprintf("cpu at %.0f%%", snap.CPU.UsagePercent)

	if t := snap.CPU.TemperatureC; t != nil {
		var thermal Level
		switch {
		case *t >= e.config.TempCriticalC:
			thermal = LevelCritical
		case *t >= e.config.TempWarningC:
			thermal = LevelWarning
		default:
			thermal = LevelHealthy
		}
		if levelSeverity(thermal) > levelSeverity(level) {
			level = thermal
			reason = fmt.Sprintf("cpu at %.0f°C", *t)
		}
	}

	return ComponentStatus{Domain: metrics.DomainCPU, Level: level, Reason: reason}
}

func (e *Evaluator) evaluateMemory(snap metrics.Snapshot) ComponentStatus {
	if snap.IsDegraded(metrics.DomainMemory) || snap.Memory.TotalBytes == 0 {
		return ComponentStatus{Domain: metrics.DomainMemory, Level: LevelStale, Reason: "no data"}
	}

	pct := snap.Memory.Percent()
	return ComponentStatus{
		Domain: metrics.DomainMemory,
		Level:  e.classify(pct),
		Reason: fmt.Sprintf("memory at %.0f%%", pct),
	}
}

// evaluateGPU takes the worst reading across devices. No GPU detected is
// healthy, not stale; absence of hardware is not a fault.
func (e *Evaluator) evaluateGPU(snap metrics.Snapshot) ComponentStatus {
	if snap.IsDegraded(metrics.DomainGPU) {
		return ComponentStatus{Domain: metrics.DomainGPU, Level: LevelStale, Reason: "no data"}
	}
	if len(snap.GPUs) == 0 {
		return ComponentStatus{Domain: metrics.DomainGPU, Level: LevelHealthy, Reason: "no gpu detected"}
	}

	level := LevelHealthy
	reason := "gpu normal"
	for _, g := range snap.GPUs {
		if g.UtilizationPercent != nil {
			if cand := e.classify(*g.UtilizationPercent); levelSeverity(cand) > levelSeverity(level) {
				level = cand
				reason = fmt.Sprintf("%s at %.0f%%", g.Name, *g.UtilizationPercent)
			}
		}
		if pct := g.MemoryPercent(); pct != nil {
			if cand := e.classify(*pct); levelSeverity(cand) > levelSeverity(level) {
				level = cand
				reason = fmt.Sprintf("%s vram at %.0f%%", g.Name, *pct)
			}
		}
	}

	return ComponentStatus{Domain: metrics.DomainGPU, Level: level, Reason: reason}
}

// evaluateDisk takes the worst fill level across partitions.
func (e *Evaluator) evaluateDisk(snap metrics.Snapshot) ComponentStatus {
	if snap.IsDegraded(metrics.DomainDisk) {
		return ComponentStatus{Domain: metrics.DomainDisk, Level: LevelStale, Reason: "no data"}
	}
	if len(snap.Disks) == 0 {
		return ComponentStatus{Domain: metrics.DomainDisk, Level: LevelHealthy, Reason: "no disks reported"}
	}

	level := LevelHealthy
	reason := "disks normal"
	for _, d := range snap.Disks {
		pct := d.Percent()
		if cand := e.classify(pct); levelSeverity(cand) > levelSeverity(level) {
			level = cand
			reason = fmt.Sprintf("%s at %.0f%%", d.MountPoint, pct)
		}
	}

	return ComponentStatus{Domain: metrics.DomainDisk, Level: level, Reason: reason}
}
