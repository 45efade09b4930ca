package countdown

import (
	"context"
	"time"

	"github.com/looplab/fsm"
)

// StartController is the narrow view of the engine the scheduler needs,
// which keeps the scheduler testable against a fake.
type StartController interface {
	Start()
	PausedAndNotFinished() bool
}

const (
	stateDisarmed = "disarmed"
	statePending  = "pending" // armed, target not yet computed
	stateWaiting  = "waiting" // armed with a target, polling the wall clock
)

// Scheduler arms a one-shot automatic start at the next :00 or :30
// wall-clock boundary. It never fights the engine: if the engine leaves
// the paused state through any other command the scheduler stands down.
type Scheduler struct {
	engine StartController
	clock  Clock
	state  *fsm.FSM
	target time.Time
}

func NewScheduler(engine StartController, clock Clock) *Scheduler {
	s := &Scheduler{
		engine: engine,
		clock:  clock,
	}
	s.state = fsm.NewFSM(
		stateDisarmed,
		fsm.Events{
			{Name: "arm", Src: []string{stateDisarmed}, Dst: statePending},
			{Name: "schedule", Src: []string{statePending}, Dst: stateWaiting},
			{Name: "fire", Src: []string{stateWaiting}, Dst: stateDisarmed},
			{Name: "disarm", Src: []string{statePending, stateWaiting}, Dst: stateDisarmed},
		},
		fsm.Callbacks{
			"enter_disarmed": func(_ context.Context, _ *fsm.Event) {
				s.target = time.Time{}
			},
		},
	)
	return s
}

// SetArmed arms or disarms the auto start. Arming is a no-op unless the
// engine is paused and not finished. The target boundary is computed
// exactly once here, never re-derived while waiting.
func (s *Scheduler) SetArmed(armed bool) {
	ctx := context.Background()
	if !armed {
		_ = s.state.Event(ctx, "disarm")
		return
	}
	if s.Armed() || !s.engine.PausedAndNotFinished() {
		return
	}
	_ = s.state.Event(ctx, "arm")
	s.target = NextAutoStart(s.clock.Now())
	_ = s.state.Event(ctx, "schedule")
}

// Poll compares the wall clock against the target and fires the engine
// start at most once. The scheduler disarms itself before calling Start
// so a re-entrant poll can never double fire.
func (s *Scheduler) Poll() {
	if s.state.Current() != stateWaiting {
		return
	}
	if !s.engine.PausedAndNotFinished() {
		_ = s.state.Event(context.Background(), "disarm")
		return
	}
	if s.clock.Now().Before(s.target) {
		return
	}
	_ = s.state.Event(context.Background(), "fire")
	s.engine.Start()
}

// Invalidate disarms the scheduler if the engine is no longer eligible
// for an auto start. Called after every engine mutation.
func (s *Scheduler) Invalidate() {
	if s.Armed() && !s.engine.PausedAndNotFinished() {
		_ = s.state.Event(context.Background(), "disarm")
	}
}

func (s *Scheduler) Armed() bool {
	return s.state.Current() != stateDisarmed
}

// Polling reports whether a target is set and the wall clock should be
// watched.
func (s *Scheduler) Polling() bool {
	return s.state.Current() == stateWaiting
}

// Target returns the scheduled start instant, if one is set.
func (s *Scheduler) Target() (time.Time, bool) {
	if s.state.Current() != stateWaiting {
		return time.Time{}, false
	}
	return s.target, true
}

// NextAutoStart returns the next half-hour boundary (:00 or :30)
// strictly after now, seconds truncated.
func NextAutoStart(now time.Time) time.Time {
	base := now.Truncate(time.Minute)
	if now.Minute() < 30 {
		return base.Add(time.Duration(30-now.Minute()) * time.Minute)
	}
	return base.Add(time.Duration(60-now.Minute()) * time.Minute)
}
