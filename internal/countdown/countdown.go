// Package countdown implements the exam clock core: a fixed-duration
// countdown engine with optional extra (grace) time and a wall-clock
// auto-start scheduler. The package is purely synchronous; driving the
// engine once per second and polling the scheduler is the caller's job.
package countdown

import (
	"fmt"
	"time"
)

// Config holds the fixed timing parameters for an exam session. All
// values are whole seconds and are immutable once the engine exists.
type Config struct {
	// TotalDurationSec is the primary exam duration. Must be > 0.
	TotalDurationSec int

	// WarningThresholdSec is the remaining time at which the final
	// warning window begins.
	WarningThresholdSec int

	// RestrictionDurationSec is the initial elapsed-time window during
	// which candidates may not leave the room.
	RestrictionDurationSec int

	// ExtraTimeLimitSec is the most negative value the clock may reach
	// when extra time is enabled. Must be <= 0.
	ExtraTimeLimitSec int
}

// Validate checks the configured durations against their allowed
// ranges. A config that fails validation must not reach NewEngine.
func (c Config) Validate() error {
	if c.TotalDurationSec <= 0 {
		return fmt.Errorf("total duration must be positive, got %d", c.TotalDurationSec)
	}
	if c.WarningThresholdSec < 0 {
		return fmt.Errorf("warning threshold must not be negative, got %d", c.WarningThresholdSec)
	}
	if c.RestrictionDurationSec < 0 {
		return fmt.Errorf("restriction duration must not be negative, got %d", c.RestrictionDurationSec)
	}
	if c.ExtraTimeLimitSec > 0 {
		return fmt.Errorf("extra time limit must not be positive, got %d", c.ExtraTimeLimitSec)
	}
	return nil
}

// Snapshot is the full observable state of the clock, recomputed on
// read and safe to hand to any presentation layer.
type Snapshot struct {
	RemainingSec     int
	ElapsedSec       int
	ProgressPercent  float64
	Running          bool
	PrimaryElapsed   bool
	HardStopped      bool
	ExtraTimeEnabled bool
	Warning          bool
	Restricted       bool
	AutoStartArmed   bool
	AutoStartAt      *time.Time `json:",omitempty"`
}

// TakeSnapshot assembles the combined engine and scheduler state.
func TakeSnapshot(e *Engine, s *Scheduler) Snapshot {
	snap := Snapshot{
		RemainingSec:     e.RemainingSec(),
		ElapsedSec:       e.ElapsedSec(),
		ProgressPercent:  e.ProgressPercent(),
		Running:          e.Running(),
		PrimaryElapsed:   e.PrimaryElapsed(),
		HardStopped:      e.HardStopped(),
		ExtraTimeEnabled: e.ExtraTimeEnabled(),
		Warning:          e.InWarning(),
		Restricted:       e.InRestriction(),
		AutoStartArmed:   s.Armed(),
	}
	if target, ok := s.Target(); ok {
		snap.AutoStartAt = &target
	}
	return snap
}
