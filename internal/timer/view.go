package timer

import (
	"github.com/lowaak/fit-timer/fit-timer-app/internal/stats"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

// ViewImpl defines the interface for framework-specific UI implementations
type ViewImpl interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *Controller)

	// SetupKeyboardHandlers sets up keyboard event handlers
	// controller is used to handle keyboard events
	SetupKeyboardHandlers(controller *Controller)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// Draw refreshes/redraws the UI
	Draw() error

	// --- Screen Management ---

	// SetScreen switches the UI to the specified screen
	SetScreen(screen Screen)

	// GetCurrentScreen returns the currently active screen
	GetCurrentScreen() Screen

	// --- Log View (shared across screens) ---

	// GetLogViewHeight returns the visible height of the log view
	GetLogViewHeight() int

	// ClearLogView clears the log view
	ClearLogView()

	// WriteLogLine writes a line to the log view
	WriteLogLine(line string) error

	// --- Timer Screen ---

	// UpdateTimerState updates the countdown display
	UpdateTimerState(state TimerState)

	// --- Presets Screen ---

	// SetPresetList populates the preset list
	SetPresetList(presets []store.Preset)

	// --- Dashboard Screen ---

	// UpdateDashboard updates the dashboard display
	UpdateDashboard(summary stats.Summary)

	// --- Notifications ---

	// ShowNotification surfaces a short user-facing message
	ShowNotification(msg string)
}
