package countdown

// Engine owns the countdown state for a single exam. Every command is a
// silent no-op when its precondition does not hold, so a presentation
// layer can issue commands without checking engine state first.
//
// Two terminal-ish facts are tracked separately: PrimaryElapsed records
// that the primary duration has run out at least once since the last
// reset, while HardStopped is the terminal latch after which ticking
// permanently ceases until reset.
type Engine struct {
	cfg Config

	remaining      int
	running        bool
	primaryElapsed bool
	hardStopped    bool
	extraTime      bool
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		remaining: cfg.TotalDurationSec,
	}
}

// Tick advances the clock by one second. No-op unless running.
//
// With extra time disabled the clock hard-stops the moment it reaches
// zero. With extra time enabled, crossing zero only marks the primary
// duration as elapsed and counting continues into negative time until
// the configured floor, where the engine hard-stops.
func (e *Engine) Tick() {
	if !e.running {
		return
	}
	next := e.remaining - 1
	if !e.extraTime {
		if next <= 0 {
			e.remaining = 0
			e.halt()
		} else {
			e.remaining = next
		}
		return
	}
	if next <= e.cfg.ExtraTimeLimitSec {
		e.remaining = e.cfg.ExtraTimeLimitSec
		e.halt()
		return
	}
	if e.remaining > 0 && next <= 0 {
		e.primaryElapsed = true
	}
	e.remaining = next
}

func (e *Engine) halt() {
	e.running = false
	e.primaryElapsed = true
	e.hardStopped = true
}

// Start begins counting. No-op if already running, hard-stopped, or
// sitting at the extra-time floor.
func (e *Engine) Start() {
	if e.running || e.hardStopped {
		return
	}
	if e.extraTime && e.remaining <= e.cfg.ExtraTimeLimitSec {
		return
	}
	e.running = true
}

// Pause stops counting without touching the remaining time.
func (e *Engine) Pause() {
	if !e.running {
		return
	}
	e.running = false
}

// Reset restores the exact initial state, including the extra-time flag.
func (e *Engine) Reset() {
	e.remaining = e.cfg.TotalDurationSec
	e.running = false
	e.primaryElapsed = false
	e.hardStopped = false
	e.extraTime = false
}

// SetExtraTime toggles the extra-time flag. Rejected only once the
// engine has hard-stopped at the extra-time floor; toggling never
// retroactively changes the remaining time.
func (e *Engine) SetExtraTime(enabled bool) {
	if e.hardStopped && e.extraTime && e.remaining <= e.cfg.ExtraTimeLimitSec {
		return
	}
	e.extraTime = enabled
}

func (e *Engine) Config() Config         { return e.cfg }
func (e *Engine) RemainingSec() int      { return e.remaining }
func (e *Engine) Running() bool          { return e.running }
func (e *Engine) PrimaryElapsed() bool   { return e.primaryElapsed }
func (e *Engine) HardStopped() bool      { return e.hardStopped }
func (e *Engine) ExtraTimeEnabled() bool { return e.extraTime }

// PausedAndNotFinished reports whether the engine is eligible for an
// auto start.
func (e *Engine) PausedAndNotFinished() bool {
	return !e.running && !e.hardStopped
}

// ElapsedSec is the time spent so far. Exceeds the total duration while
// the clock runs on extra time.
func (e *Engine) ElapsedSec() int {
	return e.cfg.TotalDurationSec - e.remaining
}

// ProgressPercent is the elapsed share of the primary duration, clamped
// to [0, 100].
func (e *Engine) ProgressPercent() float64 {
	pct := float64(e.ElapsedSec()) / float64(e.cfg.TotalDurationSec) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// InWarning reports whether the clock is inside the final-warning
// window: remaining time positive and at or below the threshold.
func (e *Engine) InWarning() bool {
	return e.remaining > 0 && e.remaining <= e.cfg.WarningThresholdSec
}

// InRestriction reports whether the clock is inside the no-leave
// window: some time elapsed but no more than the restriction duration.
func (e *Engine) InRestriction() bool {
	elapsed := e.ElapsedSec()
	return elapsed > 0 && elapsed <= e.cfg.RestrictionDurationSec
}
