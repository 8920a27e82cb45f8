package timer

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/events"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/go_func_utils"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

const maxLogLines = 1000

// Model is the shared state between the engine, the controller and the
// views. Views subscribe to its events and render snapshots; they never
// reach into the engine directly.
type Model struct {
	timerStateEvent     *events.Event[TimerState]
	timerState          TimerState
	screenEvent         *events.Event[Screen]
	screen              Screen
	presetsEvent        *events.Event[[]store.Preset]
	presets             []store.Preset
	notificationEvent   *events.Event[string]
	historyChangedEvent *events.Event[struct{}]
	closeEvent          *events.Event[struct{}]
	logEvent            *events.Event[string]
	logLines            []string
	logMu               sync.RWMutex
	mu                  sync.RWMutex
	ctx                 context.Context
	cancel              context.CancelFunc
	wg                  sync.WaitGroup
	logger              *log.Logger
}

// NewModel creates the model. uiLogChan carries log lines destined for
// the on-screen log view; the model buffers the tail and fans lines out
// to subscribers.
func NewModel(logger *log.Logger, uiLogChan <-chan string) *Model {
	if logger == nil {
		panic("Model: logger cannot be nil")
	}
	if uiLogChan == nil {
		panic("Model: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		timerStateEvent:     events.NewEvent[TimerState](true),
		timerState:          TimerState{Status: StatusIdle},
		screenEvent:         events.NewEvent[Screen](true),
		screen:              ScreenTimer,
		presetsEvent:        events.NewEvent[[]store.Preset](true),
		notificationEvent:   events.NewEvent[string](false),
		historyChangedEvent: events.NewEvent[struct{}](false),
		closeEvent:          events.NewEvent[struct{}](true),
		logEvent:            events.NewEvent[string](false),
		logLines:            make([]string, 0, maxLogLines),
		ctx:                 ctx,
		cancel:              cancel,
		logger:              logger,
	}

	m.wg.Add(1)
	go_func_utils.SafeGo(m.logger, func() { m.readFromLogChannel(ctx, uiLogChan) })

	return m
}

// Shutdown stops the model's goroutines and waits for them to finish.
func (m *Model) Shutdown() {
	m.logger.Println("Model: Shutting down")
	m.cancel()
	m.wg.Wait()
	m.logger.Println("Model: Shutdown complete")
}

// SubscribeTimerState returns a channel of timer state snapshots and a
// deregistration function.
func (m *Model) SubscribeTimerState() (<-chan TimerState, func()) {
	return m.timerStateEvent.Subscribe()
}

// GetTimerState returns the latest timer state snapshot.
func (m *Model) GetTimerState() TimerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timerState
}

// SetTimerState stores a new timer state snapshot and notifies subscribers.
func (m *Model) SetTimerState(state TimerState) {
	m.mu.Lock()
	m.timerState = state
	m.mu.Unlock()

	m.timerStateEvent.Notify(state)
}

// SubscribeScreen returns a channel of active screen changes and a
// deregistration function.
func (m *Model) SubscribeScreen() (<-chan Screen, func()) {
	return m.screenEvent.Subscribe()
}

// GetScreen returns the currently active screen.
func (m *Model) GetScreen() Screen {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.screen
}

// SetScreen switches the active screen and notifies subscribers.
func (m *Model) SetScreen(screen Screen) {
	m.mu.Lock()
	if m.screen == screen {
		m.mu.Unlock()
		return
	}
	m.screen = screen
	m.mu.Unlock()

	m.screenEvent.Notify(screen)
}

// SubscribePresets returns a channel of preset list updates and a
// deregistration function.
func (m *Model) SubscribePresets() (<-chan []store.Preset, func()) {
	return m.presetsEvent.Subscribe()
}

// GetPresets returns a copy of the current preset list.
func (m *Model) GetPresets() []store.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	presets := make([]store.Preset, len(m.presets))
	copy(presets, m.presets)
	return presets
}

// SetPresets replaces the preset list and notifies subscribers.
func (m *Model) SetPresets(presets []store.Preset) {
	snapshot := make([]store.Preset, len(presets))
	copy(snapshot, presets)

	m.mu.Lock()
	m.presets = snapshot
	m.mu.Unlock()

	m.presetsEvent.Notify(snapshot)
}

// SubscribeNotifications returns a channel of user-facing messages and a
// deregistration function.
func (m *Model) SubscribeNotifications() (<-chan string, func()) {
	return m.notificationEvent.Subscribe()
}

// NotifyUser surfaces a message to the user via whatever view is active.
func (m *Model) NotifyUser(msg string) {
	m.logger.Printf("Model: NotifyUser %q", msg)
	m.notificationEvent.Notify(msg)
}

// SubscribeHistoryChanged returns a channel signalled whenever the
// session or workout history gains a record, plus a deregistration
// function. The dashboard uses it to refresh.
func (m *Model) SubscribeHistoryChanged() (<-chan struct{}, func()) {
	return m.historyChangedEvent.Subscribe()
}

// SessionSaved records that a completed session reached the store.
func (m *Model) SessionSaved() {
	m.logger.Println("Model: session saved")
	m.historyChangedEvent.Notify(struct{}{})
}

// WorkoutLogged records that a logged workout reached the store.
func (m *Model) WorkoutLogged() {
	m.logger.Println("Model: workout logged")
	m.historyChangedEvent.Notify(struct{}{})
}

// SubscribeClose returns a channel signalled when the application should
// exit, plus a deregistration function.
func (m *Model) SubscribeClose() (<-chan struct{}, func()) {
	return m.closeEvent.Subscribe()
}

// RequestClose signals that the application should close.
func (m *Model) RequestClose() {
	m.closeEvent.Notify(struct{}{})
}

// SubscribeLog returns a channel of log lines and a deregistration function.
func (m *Model) SubscribeLog() (<-chan string, func()) {
	return m.logEvent.Subscribe()
}

// GetLogTail returns the last n buffered log lines.
func (m *Model) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}
	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}
	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}

func (m *Model) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			m.logEvent.Notify(line)
		}
	}
}
