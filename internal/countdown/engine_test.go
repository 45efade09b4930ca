package countdown

import "testing"

func testConfig() Config {
	return Config{
		TotalDurationSec:       10,
		WarningThresholdSec:    3,
		RestrictionDurationSec: 3,
		ExtraTimeLimitSec:      -5,
	}
}

func tickN(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.Tick()
	}
}

func TestEngineHardStopsAfterTotalDuration(t *testing.T) {
	e := NewEngine(testConfig())
	e.Start()

	tickN(e, 10)

	if e.RemainingSec() != 0 {
		t.Errorf("expected remaining 0, got %d", e.RemainingSec())
	}
	if e.Running() {
		t.Error("expected engine to stop at zero")
	}
	if !e.HardStopped() {
		t.Error("expected hard stop at zero")
	}
	if !e.PrimaryElapsed() {
		t.Error("expected primary duration to be elapsed")
	}

	// further ticks are no-ops
	tickN(e, 3)
	if e.RemainingSec() != 0 {
		t.Errorf("expected remaining to stay 0, got %d", e.RemainingSec())
	}
}

func TestEngineStopsOneTickBeforeFloorStillRunning(t *testing.T) {
	e := NewEngine(testConfig())
	e.SetExtraTime(true)
	e.Start()

	// total + |floor| - 1 ticks: one second short of the floor
	tickN(e, 10+5-1)

	if e.RemainingSec() != -4 {
		t.Errorf("expected remaining -4, got %d", e.RemainingSec())
	}
	if !e.Running() {
		t.Error("expected engine still running one tick before the floor")
	}
	if e.HardStopped() {
		t.Error("unexpected hard stop before the floor")
	}

	e.Tick()

	if e.RemainingSec() != -5 {
		t.Errorf("expected remaining clamped to -5, got %d", e.RemainingSec())
	}
	if !e.HardStopped() || e.Running() {
		t.Error("expected hard stop at the extra-time floor")
	}
}

func TestEngineMarksPrimaryElapsedWhenCrossingZeroOnExtraTime(t *testing.T) {
	e := NewEngine(testConfig())
	e.SetExtraTime(true)
	e.Start()

	tickN(e, 9)
	if e.PrimaryElapsed() {
		t.Error("primary duration should not be elapsed at remaining 1")
	}

	e.Tick()

	if e.RemainingSec() != 0 {
		t.Errorf("expected remaining 0, got %d", e.RemainingSec())
	}
	if !e.PrimaryElapsed() {
		t.Error("expected primary elapsed at zero")
	}
	if !e.Running() {
		t.Error("expected engine to keep running into extra time")
	}
	if e.HardStopped() {
		t.Error("crossing zero with extra time must not hard-stop")
	}
}

func TestTickWhilePausedIsNoOp(t *testing.T) {
	e := NewEngine(testConfig())
	e.Tick()
	if e.RemainingSec() != 10 {
		t.Errorf("tick while paused should not change remaining, got %d", e.RemainingSec())
	}

	e.Start()
	tickN(e, 4)
	e.Pause()
	e.Tick()
	if e.RemainingSec() != 6 {
		t.Errorf("expected remaining 6 after pause, got %d", e.RemainingSec())
	}
}

func TestStartGuards(t *testing.T) {
	e := NewEngine(testConfig())

	e.Start()
	e.Start() // no-op while already running
	if !e.Running() {
		t.Error("expected engine running")
	}

	tickN(e, 10)
	e.Start() // no-op once hard stopped
	if e.Running() {
		t.Error("start after hard stop should be a no-op")
	}
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	e := NewEngine(testConfig())
	e.Start()
	tickN(e, 3)
	e.Pause()
	e.Pause() // no-op while already paused
	if e.Running() {
		t.Error("expected engine paused")
	}
	e.Start()
	tickN(e, 2)
	if e.RemainingSec() != 5 {
		t.Errorf("expected remaining 5 after resume, got %d", e.RemainingSec())
	}
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	e := NewEngine(testConfig())
	e.SetExtraTime(true)
	e.Start()

	last := e.ProgressPercent()
	if last != 0 {
		t.Errorf("expected initial progress 0, got %f", last)
	}
	for i := 0; i < 15; i++ {
		e.Tick()
		pct := e.ProgressPercent()
		if pct < last {
			t.Errorf("progress decreased from %f to %f", last, pct)
		}
		if pct < 0 || pct > 100 {
			t.Errorf("progress out of range: %f", pct)
		}
		last = pct
	}
	if last != 100 {
		t.Errorf("expected progress clamped to 100 on extra time, got %f", last)
	}
}

func TestWarningWindow(t *testing.T) {
	e := NewEngine(testConfig())
	e.Start()

	tickN(e, 6)
	if e.RemainingSec() != 4 || e.InWarning() {
		t.Errorf("expected no warning at remaining %d", e.RemainingSec())
	}

	e.Tick()
	if e.RemainingSec() != 3 || !e.InWarning() {
		t.Errorf("expected warning to begin at remaining %d", e.RemainingSec())
	}

	e.Tick()
	e.Tick()
	if !e.InWarning() {
		t.Error("expected warning to hold at remaining 1")
	}

	e.Tick()
	if e.InWarning() {
		t.Error("expected no warning once the clock reaches zero")
	}
}

func TestRestrictionWindow(t *testing.T) {
	e := NewEngine(testConfig())
	e.Start()

	if e.InRestriction() {
		t.Error("expected no restriction at elapsed 0")
	}
	e.Tick()
	if !e.InRestriction() {
		t.Error("expected restriction at elapsed 1")
	}
	e.Tick()
	e.Tick()
	if !e.InRestriction() {
		t.Error("expected restriction at the window boundary")
	}
	e.Tick()
	if e.InRestriction() {
		t.Error("expected no restriction past the window")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(e *Engine)
	}{
		{"while running", func(e *Engine) {
			e.Start()
			tickN(e, 4)
		}},
		{"after hard stop", func(e *Engine) {
			e.Start()
			tickN(e, 10)
		}},
		{"at the extra-time floor", func(e *Engine) {
			e.SetExtraTime(true)
			e.Start()
			tickN(e, 15)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(testConfig())
			tc.prepare(e)
			e.Reset()

			if e.RemainingSec() != 10 {
				t.Errorf("expected remaining 10, got %d", e.RemainingSec())
			}
			if e.Running() || e.PrimaryElapsed() || e.HardStopped() || e.ExtraTimeEnabled() {
				t.Error("expected all flags cleared after reset")
			}
		})
	}
}

func TestExtraTimeToggleRejectedAtGraceFloor(t *testing.T) {
	e := NewEngine(testConfig())
	e.SetExtraTime(true)
	e.Start()
	tickN(e, 15)

	if !e.HardStopped() || e.RemainingSec() != -5 {
		t.Fatalf("expected hard stop at -5, got remaining %d", e.RemainingSec())
	}

	e.SetExtraTime(false)
	if !e.ExtraTimeEnabled() {
		t.Error("toggling extra time at the grace floor should be a no-op")
	}
}

func TestExtraTimeToggleAllowedAfterZeroFloorStop(t *testing.T) {
	e := NewEngine(testConfig())
	e.Start()
	tickN(e, 10)

	e.SetExtraTime(true)
	if !e.ExtraTimeEnabled() {
		t.Error("toggling extra time after a zero-floor stop should succeed")
	}
	if e.RemainingSec() != 0 {
		t.Errorf("toggling must not change remaining, got %d", e.RemainingSec())
	}
	// the hard stop itself is still latched
	e.Start()
	if e.Running() {
		t.Error("hard stop must hold until reset")
	}
}
