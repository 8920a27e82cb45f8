package timer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/go_func_utils"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

// engineCommand represents commands sent to the engine goroutine.
type engineCommand int

const (
	cmdStart engineCommand = iota
	cmdPause
	cmdResume
	cmdStop
)

// saveTimeout bounds the fire-and-forget session save on completion.
const saveTimeout = 10 * time.Second

// Engine drives a Machine with a one-second ticker and publishes state
// snapshots to the Model. One engine exists per UI surface and runs at
// most one session at a time. Skip operations are synchronous: they take
// the same lock as the tick, so no tick can interleave with a skip.
type Engine struct {
	model  *Model
	sess   store.Store
	cues   CuePlayer
	logger *log.Logger

	mu      sync.RWMutex
	status  Status
	cfg     TimerConfig
	machine *Machine

	cmdChan      chan engineCommand
	doneChan     chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewEngine creates an Engine and starts its goroutine.
func NewEngine(model *Model, sess store.Store, cues CuePlayer, logger *log.Logger) *Engine {
	if model == nil {
		panic("Engine: model cannot be nil")
	}
	if sess == nil {
		panic("Engine: store cannot be nil")
	}
	if cues == nil {
		panic("Engine: cues cannot be nil")
	}
	if logger == nil {
		panic("Engine: logger cannot be nil")
	}

	e := &Engine{
		model:    model,
		sess:     sess,
		cues:     cues,
		logger:   logger,
		status:   StatusIdle,
		cmdChan:  make(chan engineCommand, 1),
		doneChan: make(chan struct{}),
	}

	e.wg.Add(1)
	go_func_utils.SafeGoNamed(logger, "engine loop", func() { e.runLoop() })

	return e
}

// Configure loads a session configuration. Only allowed while no session
// is running or paused.
func (e *Engine) Configure(cfg TimerConfig) {
	e.mu.Lock()
	if e.status == StatusRunning || e.status == StatusPaused {
		e.mu.Unlock()
		e.logger.Printf("Engine: cannot configure while running or paused")
		return
	}
	e.cfg = cfg
	e.machine = NewMachine(cfg, e.cues)
	e.status = StatusReady
	state := e.buildState()
	e.mu.Unlock()

	e.logger.Printf("Engine: configured %s session", cfg.Mode)
	e.model.SetTimerState(state)
}

// Start begins the configured session.
func (e *Engine) Start() {
	e.mu.RLock()
	status := e.status
	machine := e.machine
	e.mu.RUnlock()

	if machine == nil {
		e.logger.Printf("Engine: no session configured")
		return
	}
	if status == StatusRunning {
		e.logger.Printf("Engine: session already running")
		return
	}
	if status != StatusReady {
		e.logger.Printf("Engine: cannot start from status %s", status)
		return
	}

	e.logger.Printf("Engine: starting session")
	e.cmdChan <- cmdStart
}

// Pause suspends ticking without touching any counter.
func (e *Engine) Pause() {
	e.mu.RLock()
	status := e.status
	e.mu.RUnlock()

	if status != StatusRunning {
		e.logger.Printf("Engine: cannot pause - not running")
		return
	}
	e.logger.Printf("Engine: pausing")
	e.cmdChan <- cmdPause
}

// Resume continues a paused session.
func (e *Engine) Resume() {
	e.mu.RLock()
	status := e.status
	e.mu.RUnlock()

	if status != StatusPaused {
		e.logger.Printf("Engine: cannot resume - not paused")
		return
	}
	e.logger.Printf("Engine: resuming")
	e.cmdChan <- cmdResume
}

// Stop halts the session and discards its runtime state, returning the
// engine to the configured-but-not-started position.
func (e *Engine) Stop() {
	e.mu.RLock()
	status := e.status
	e.mu.RUnlock()

	if status == StatusIdle {
		e.logger.Printf("Engine: nothing to stop")
		return
	}
	e.logger.Printf("Engine: stopping")
	e.cmdChan <- cmdStop
}

// Reset is Stop for a completed session: it rebuilds the machine so the
// same configuration can run again.
func (e *Engine) Reset() {
	e.Stop()
}

// SkipForward jumps to the next phase. Synchronous and atomic with
// respect to ticking.
func (e *Engine) SkipForward() {
	e.skip(func(m *Machine) { m.SkipForward() })
}

// SkipBackward jumps to the previous phase boundary.
func (e *Engine) SkipBackward() {
	e.skip(func(m *Machine) { m.SkipBackward() })
}

func (e *Engine) skip(apply func(*Machine)) {
	e.mu.Lock()
	if e.machine == nil || (e.status != StatusRunning && e.status != StatusPaused) {
		e.mu.Unlock()
		return
	}
	apply(e.machine)
	completed := e.machine.Completed()
	if completed {
		e.status = StatusCompleted
	}
	state := e.buildState()
	wall := e.machine.Snapshot().ElapsedWall
	mode := e.cfg.Mode
	e.mu.Unlock()

	e.model.SetTimerState(state)
	if completed {
		e.logger.Printf("Engine: session completed via skip")
		e.saveCompletedSession(mode, wall)
	}
}

// Status returns the current engine status.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Config returns the currently loaded configuration.
func (e *Engine) Config() TimerConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Shutdown stops the engine goroutine. Safe to call multiple times.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.logger.Printf("Engine: shutting down")
		close(e.doneChan)
		e.wg.Wait()
		e.logger.Printf("Engine: shutdown complete")
	})
}

// buildState snapshots the machine plus engine status.
// MUST be called with mu held.
func (e *Engine) buildState() TimerState {
	if e.machine == nil {
		return TimerState{Status: e.status}
	}
	state := e.machine.Snapshot()
	state.Status = e.status
	return state
}

// handleTick advances the machine one second under lock and reports
// whether the session just completed.
func (e *Engine) handleTick() (state TimerState, skip, completed bool, wall int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusRunning || e.machine == nil {
		return TimerState{}, true, false, 0
	}

	e.machine.Tick()
	if e.machine.Completed() {
		e.status = StatusCompleted
		return e.buildState(), false, true, e.machine.Snapshot().ElapsedWall
	}
	return e.buildState(), false, false, 0
}

// runLoop is the engine goroutine: it owns the ticker and serialises
// commands against ticks.
func (e *Engine) runLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(1 * time.Second)
	ticker.Stop() // started on cmdStart

	for {
		select {
		case <-e.doneChan:
			ticker.Stop()
			e.logger.Printf("Engine: goroutine exiting")
			return

		case cmd := <-e.cmdChan:
			switch cmd {
			case cmdStart:
				state := func() TimerState {
					e.mu.Lock()
					defer e.mu.Unlock()
					e.status = StatusRunning
					return e.buildState()
				}()
				ticker.Reset(1 * time.Second)
				e.model.SetTimerState(state)
				e.logger.Printf("Engine: session started")

			case cmdPause:
				ticker.Stop()
				state := func() TimerState {
					e.mu.Lock()
					defer e.mu.Unlock()
					e.status = StatusPaused
					return e.buildState()
				}()
				e.model.SetTimerState(state)
				e.logger.Printf("Engine: session paused")

			case cmdResume:
				state := func() TimerState {
					e.mu.Lock()
					defer e.mu.Unlock()
					e.status = StatusRunning
					return e.buildState()
				}()
				ticker.Reset(1 * time.Second)
				e.model.SetTimerState(state)
				e.logger.Printf("Engine: session resumed")

			case cmdStop:
				ticker.Stop()
				state := func() TimerState {
					e.mu.Lock()
					defer e.mu.Unlock()
					e.machine = NewMachine(e.cfg, e.cues)
					e.status = StatusReady
					return e.buildState()
				}()
				e.model.SetTimerState(state)
				e.logger.Printf("Engine: session stopped and reset")
			}

		case <-ticker.C:
			state, skip, completed, wall := e.handleTick()
			if skip {
				continue
			}
			e.model.SetTimerState(state)
			if completed {
				ticker.Stop()
				e.logger.Printf("Engine: session complete")
				e.mu.RLock()
				mode := e.cfg.Mode
				e.mu.RUnlock()
				e.saveCompletedSession(mode, wall)
			}
		}
	}
}

// saveCompletedSession persists the finished session fire-and-forget.
// Failure is logged and surfaced as a notification; the timer state is
// never rolled back and the engine does not retry.
func (e *Engine) saveCompletedSession(mode Mode, durationSeconds int) {
	session := store.CompletedSession{
		Date:            time.Now(),
		Type:            mode.String(),
		DurationSeconds: durationSeconds,
	}
	go_func_utils.SafeGoNamed(e.logger, "session save", func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := e.sess.SaveCompletedSession(ctx, session); err != nil {
			e.logger.Printf("Engine: failed to save completed session: %v", err)
			e.model.NotifyUser("Could not save session - it will not appear in your history")
			return
		}
		e.logger.Printf("Engine: completed session saved")
		e.model.SessionSaved()
	})
}
