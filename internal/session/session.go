package session

import (
	"encoding/json"
	"runtime/debug"
	"time"

	"github.com/gorilla/websocket"
	"github.com/proctorkit/examclock/internal/countdown"
	"github.com/proctorkit/examclock/pkg/cadence"
	"github.com/proctorkit/examclock/pkg/logger"
)

const (
	tickInterval = time.Second
	pollInterval = 250 * time.Millisecond
)

// Session drives one exam clock. It owns the countdown engine and the
// auto-start scheduler and its loop goroutine is the only code that
// mutates them, so neither needs locking. The two periodic activities,
// the engine's one-second tick and the scheduler's sub-second wall
// clock poll, are cadences owned by the loop and reconciled against
// state after every mutation: a cadence cannot outlive the condition
// that justifies it.
type Session struct {
	engine    *countdown.Engine
	scheduler *countdown.Scheduler

	tick *cadence.Cadence
	poll *cadence.Cadence

	watchers  map[*watcher]bool
	join      chan *watcher
	leave     chan *watcher
	process   chan *inbound
	execute   chan Command
	executed  chan countdown.Snapshot
	snapshots chan chan countdown.Snapshot
	errCh     chan error
	stop      chan struct{}
	stopped   chan struct{}
}

func NewSession(cfg countdown.Config, clock countdown.Clock) *Session {
	engine := countdown.NewEngine(cfg)
	return &Session{
		engine:    engine,
		scheduler: countdown.NewScheduler(engine, clock),
		watchers:  make(map[*watcher]bool),
		join:      make(chan *watcher),
		leave:     make(chan *watcher),
		process:   make(chan *inbound),
		execute:   make(chan Command),
		executed:  make(chan countdown.Snapshot),
		snapshots: make(chan chan countdown.Snapshot),
		errCh:     make(chan error),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Start runs the session loop. Call once, in its own goroutine.
func (s *Session) Start() {
	// catch any panics so a defect in the clock core cannot take the
	// whole service down without a trace
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().Caller().Msgf("%v with stack trace %s", r, string(debug.Stack()))
		}
	}()

	s.loop()
}

func (s *Session) loop() {
	defer func() {
		s.cancelCadences()
		// unblock any watcher stuck on the leave channel before
		// detaching, otherwise teardown can deadlock on the watcher
		// mutex
		close(s.stopped)
		for w := range s.watchers {
			w.detach()
		}
	}()

	for {
		select {
		case w := <-s.join:
			if _, ok := s.watchers[w]; ok {
				s.errCh <- ErrWatcherAlreadyJoined(w.name)
				continue
			}
			s.watchers[w] = true
			s.send(w, OutboundMessage{Type: "Snapshot", Payload: s.snapshot()})
			s.errCh <- nil
		case w := <-s.leave:
			delete(s.watchers, w)
		case in := <-s.process:
			cmd, err := decodeCommand(in.payload)
			if err != nil {
				s.send(in.watcher, OutboundMessage{Type: "Error", Payload: err.Error()})
				continue
			}
			if err := s.apply(cmd); err != nil {
				s.send(in.watcher, OutboundMessage{Type: "Error", Payload: err.Error()})
			}
		case cmd := <-s.execute:
			if err := s.apply(cmd); err != nil {
				logger.Log.Debug().Err(err).Msg("rejected clock command")
			}
			s.executed <- s.snapshot()
		case reply := <-s.snapshots:
			reply <- s.snapshot()
		case <-s.tickCh():
			s.engine.Tick()
			s.afterMutation()
		case <-s.pollCh():
			// most polls are boundary checks that change nothing;
			// only a fire or stand-down is worth a broadcast
			waiting := s.scheduler.Polling()
			s.scheduler.Poll()
			if s.scheduler.Polling() != waiting {
				s.afterMutation()
			}
		case <-s.stop:
			return
		}
	}
}

// apply runs one command against the core. Commands with unmet
// preconditions are engine-level no-ops; only a malformed command is an
// error.
func (s *Session) apply(cmd Command) error {
	switch cmd.Type {
	case CommandStart:
		s.engine.Start()
	case CommandPause:
		s.engine.Pause()
	case CommandReset:
		s.engine.Reset()
		s.scheduler.SetArmed(false)
	case CommandSetExtraTime:
		details, err := decodeExtraTimeDetails(cmd.MoreDetails)
		if err != nil {
			return err
		}
		s.engine.SetExtraTime(details.Enabled)
	case CommandArmAutoStart:
		s.scheduler.SetArmed(true)
	case CommandDisarmAutoStart:
		s.scheduler.SetArmed(false)
	default:
		return ErrUnknownCommand(cmd.Type)
	}
	s.afterMutation()
	return nil
}

// afterMutation restores the loop's standing obligations: a scheduler
// that no longer has a pausable engine stands down, cadences match the
// state that justifies them, and watchers see the new snapshot.
func (s *Session) afterMutation() {
	s.scheduler.Invalidate()
	s.reconcileCadences()
	s.broadcast()
}

func (s *Session) reconcileCadences() {
	if s.engine.Running() && s.tick == nil {
		s.tick = cadence.Start(tickInterval)
	} else if !s.engine.Running() && s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.scheduler.Polling() && s.poll == nil {
		s.poll = cadence.Start(pollInterval)
	} else if !s.scheduler.Polling() && s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
}

func (s *Session) cancelCadences() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
}

// tickCh returns nil while the engine is paused so the select never
// observes a stale tick.
func (s *Session) tickCh() <-chan time.Time {
	if s.tick == nil {
		return nil
	}
	return s.tick.C()
}

func (s *Session) pollCh() <-chan time.Time {
	if s.poll == nil {
		return nil
	}
	return s.poll.C()
}

func (s *Session) snapshot() countdown.Snapshot {
	return countdown.TakeSnapshot(s.engine, s.scheduler)
}

func (s *Session) broadcast() {
	msg := OutboundMessage{Type: "Snapshot", Payload: s.snapshot()}
	for w := range s.watchers {
		s.send(w, msg)
	}
}

func (s *Session) send(w *watcher, msg OutboundMessage) {
	payload, _ := json.Marshal(msg)
	select {
	case w.send <- payload:
	default:
		delete(s.watchers, w)
		w.detach()
	}
}

// Execute runs a command and returns the resulting snapshot.
func (s *Session) Execute(cmd Command) (countdown.Snapshot, error) {
	select {
	case s.execute <- cmd:
		return <-s.executed, nil
	case <-s.stopped:
		return countdown.Snapshot{}, ErrSessionClosed
	}
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() (countdown.Snapshot, error) {
	reply := make(chan countdown.Snapshot, 1)
	select {
	case s.snapshots <- reply:
		return <-reply, nil
	case <-s.stopped:
		return countdown.Snapshot{}, ErrSessionClosed
	}
}

// Join attaches a websocket watcher to the session.
func (s *Session) Join(conn *websocket.Conn) error {
	w := newWatcher(conn, s)
	go w.readPump()
	go w.writePump()
	select {
	case s.join <- w:
		return <-s.errCh
	case <-s.stopped:
		return ErrSessionClosed
	}
}

// Close stops the loop, cancelling both cadences and detaching all
// watchers. No tick or poll is observed after Close returns.
func (s *Session) Close() {
	select {
	case s.stop <- struct{}{}:
	case <-s.stopped:
	}
	<-s.stopped
}
