package timer

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/stats"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

// Page names for tview.Pages
const (
	pageTimer     = "timer"
	pagePresets   = "presets"
	pageDashboard = "dashboard"
)

// CursesView implements ViewImpl using tview (curses-based terminal UI)
type CursesView struct {
	logger        *log.Logger
	app           *tview.Application
	model         *Model
	currentScreen Screen

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible on all screens)
	logView          *tview.TextView
	notificationText *tview.TextView
	mainFlex         *tview.Flex // Main layout: screen content on left, logs on right

	// Timer screen components
	timerFlex       *tview.Flex
	timerPanel      *tview.TextView
	timerTabWidgets []*tview.Box

	// Presets screen components
	presetsFlex       *tview.Flex
	presetList        *tview.List
	presetDetails     *tview.TextView
	presetNameInput   *tview.InputField
	presetsTabWidgets []*tview.Box
	presets           []store.Preset // Currently listed presets

	// Dashboard screen components
	dashboardFlex       *tview.Flex
	dashboardPanel      *tview.TextView
	dashboardTabWidgets []*tview.Box
}

func NewCursesView(logger *log.Logger, app *tview.Application, model *Model) *CursesView {
	return &CursesView{
		logger:        logger,
		app:           app,
		model:         model,
		currentScreen: ScreenTimer,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesView) Initialize(controller *Controller) {
	// Create shared log view
	// Note: Don't use SetChangedFunc with app.Draw() - it can cause hangs during shutdown
	// when the app has been stopped but log messages are still being written.
	// The BaseView's event listeners already call Draw() after updating content.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	// Create shared notification bar
	ui.notificationText = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	// Create pages container for screen switching
	ui.pages = tview.NewPages()

	// Initialize each screen
	ui.initTimerScreen(controller)
	ui.initPresetsScreen(controller)
	ui.initDashboardScreen(controller)

	// Add pages
	ui.pages.AddPage(pageTimer, ui.timerFlex, true, true)
	ui.pages.AddPage(pagePresets, ui.presetsFlex, true, false)
	ui.pages.AddPage(pageDashboard, ui.dashboardFlex, true, false)

	// Create left column: pages above the notification bar
	leftColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.notificationText, 1, 0, false)

	// Create main layout: screens on left, logs on right
	ui.mainFlex = tview.NewFlex().
		AddItem(leftColumn, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	// Set initial focus
	ui.setFocusForCurrentScreen()
}

// initTimerScreen sets up the Timer screen UI
func (ui *CursesView) initTimerScreen(controller *Controller) {
	instructionsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructionsText.SetText("[yellow]Space[white] Start/Pause  |  [yellow]X[white] Stop  |  [yellow]→[white] Skip Fwd  |  [yellow]←[white] Skip Back\n[yellow]1[white] Timer  |  [yellow]2[white] Presets  |  [yellow]3[white] Dashboard  |  [yellow]Esc[white] Quit")

	ui.timerPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.timerPanel.SetBorder(true).SetTitle(" Timer ")
	ui.renderTimerState(TimerState{Status: StatusIdle})

	ui.timerTabWidgets = append(ui.timerTabWidgets, ui.timerPanel.Box)

	ui.timerFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructionsText, 2, 0, false).
		AddItem(ui.timerPanel, 0, 1, true)
}

// initPresetsScreen sets up the Presets screen UI
func (ui *CursesView) initPresetsScreen(controller *Controller) {
	ui.presetList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			if index < 0 || index >= len(ui.presets) {
				ui.logger.Printf("UI: Preset index %d out of range (have %d presets)", index, len(ui.presets))
				return
			}
			controller.LoadPreset(ui.presets[index])
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updatePresetDetailsDisplay(index)
		})
	ui.presetList.SetBorder(true).SetTitle(" Presets (Enter to Load, D to Delete) ")

	ui.presetDetails = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.presetDetails.SetBorder(true).SetTitle(" Preset Details ")
	ui.updatePresetDetailsDisplay(-1)

	ui.presetNameInput = tview.NewInputField().
		SetLabel(" Save current config as: ").
		SetFieldWidth(30)
	ui.presetNameInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		name := ui.presetNameInput.GetText()
		ui.presetNameInput.SetText("")
		controller.SaveCurrentAsPreset(name)
	})
	ui.presetNameInput.SetBorder(true).SetTitle(" New Preset ")

	ui.presetsTabWidgets = append(ui.presetsTabWidgets, ui.presetList.Box)
	ui.presetsTabWidgets = append(ui.presetsTabWidgets, ui.presetNameInput.Box)

	leftColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.presetList, 0, 1, true).
		AddItem(ui.presetNameInput, 3, 0, false)

	ui.presetsFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(leftColumn, 0, 1, true).
		AddItem(ui.presetDetails, 0, 1, false)
}

// initDashboardScreen sets up the Dashboard screen UI
func (ui *CursesView) initDashboardScreen(controller *Controller) {
	ui.dashboardPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.dashboardPanel.SetBorder(true).SetTitle(" Dashboard ")
	ui.dashboardPanel.SetText("\n  [gray]Loading history...[white]")

	ui.dashboardTabWidgets = append(ui.dashboardTabWidgets, ui.dashboardPanel.Box)

	ui.dashboardFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.dashboardPanel, 0, 1, true)
}

// SetScreen switches the UI to the specified screen
func (ui *CursesView) SetScreen(screen Screen) {
	if ui.currentScreen == screen {
		return
	}

	ui.currentScreen = screen

	switch screen {
	case ScreenTimer:
		ui.pages.SwitchToPage(pageTimer)
	case ScreenPresets:
		ui.pages.SwitchToPage(pagePresets)
	case ScreenDashboard:
		ui.pages.SwitchToPage(pageDashboard)
	}

	ui.setFocusForCurrentScreen()
	ui.app.Draw()
}

// GetCurrentScreen returns the currently active screen
func (ui *CursesView) GetCurrentScreen() Screen {
	return ui.currentScreen
}

// setFocusForCurrentScreen sets focus to the first widget of the current screen
func (ui *CursesView) setFocusForCurrentScreen() {
	widgets := ui.getTabWidgetsForCurrentScreen()
	if len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// getTabWidgetsForCurrentScreen returns the tab widgets for the current screen
func (ui *CursesView) getTabWidgetsForCurrentScreen() []*tview.Box {
	switch ui.currentScreen {
	case ScreenTimer:
		return ui.timerTabWidgets
	case ScreenPresets:
		return ui.presetsTabWidgets
	case ScreenDashboard:
		return ui.dashboardTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesView) SetupKeyboardHandlers(controller *Controller) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// While typing a preset name, only Escape is intercepted
		if ui.presetNameInput != nil && ui.presetNameInput.HasFocus() {
			if event.Key() == tcell.KeyEscape {
				ui.app.SetFocus(ui.presetList)
				return nil
			}
			return event
		}

		// Number keys for screen switching
		if event.Key() == tcell.KeyRune {
			if controller.OnScreenKey(event.Rune()) {
				return nil
			}
		}

		// Tab to switch focus between widgets on the current screen
		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentScreen()
			widgetCount := len(widgets)
			if widgetCount > 0 {
				for i := 0; i < widgetCount+1; i++ {
					idx := i % widgetCount
					if widgets[idx].HasFocus() {
						nextIdx := (idx + 1) % widgetCount
						ui.app.SetFocus(widgets[nextIdx])
						break
					}
				}
			}
			return nil
		}

		// Escape to quit
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		// Timer controls work on every screen
		if event.Key() == tcell.KeyRune && event.Rune() == ' ' {
			controller.ToggleTimer()
			return nil
		}
		if event.Key() == tcell.KeyRune && (event.Rune() == 'x' || event.Rune() == 'X') {
			controller.StopTimer()
			return nil
		}
		if event.Key() == tcell.KeyRight {
			controller.SkipForward()
			return nil
		}
		if event.Key() == tcell.KeyLeft {
			controller.SkipBackward()
			return nil
		}

		// Screen-specific key handlers
		if ui.currentScreen == ScreenPresets {
			// 'd' deletes the selected preset
			if event.Key() == tcell.KeyRune && (event.Rune() == 'd' || event.Rune() == 'D') {
				index := ui.presetList.GetCurrentItem()
				if index >= 0 && index < len(ui.presets) {
					controller.DeletePreset(ui.presets[index].ID)
				}
				return nil
			}
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesView) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesView) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesView) WriteLogLine(line string) error {
	_, err := fmt.Fprintln(ui.logView, line)
	return err
}

// UpdateTimerState updates the countdown display
func (ui *CursesView) UpdateTimerState(state TimerState) {
	ui.renderTimerState(state)
}

// renderTimerState formats and displays the timer state in the timer panel
func (ui *CursesView) renderTimerState(state TimerState) {
	if ui.timerPanel == nil {
		return
	}

	var text string
	switch state.Status {
	case StatusIdle:
		text = "\n\n  [yellow]Interval Timer[white]\n\n"
		text += "  No session configured.\n\n"
		text += "  [gray]Load a preset (press 2) or start with the defaults.[white]\n"

	case StatusCompleted:
		text = "\n\n  [green]Session Complete![white]\n\n"
		text += fmt.Sprintf("  Total time: [yellow]%s[white]\n\n", formatMMSS(state.ElapsedWall))
		text += "  [gray]Press Space to go again.[white]\n"

	default:
		text = "\n"
		text += fmt.Sprintf("  [gray]%s session[white]", state.Mode)
		if state.Status == StatusPaused {
			text += "  [yellow](PAUSED)[white]"
		}
		text += "\n\n"

		phaseColor := "white"
		switch state.Phase {
		case PhaseWork:
			phaseColor = "red"
		case PhaseRest, PhaseRecovery:
			phaseColor = "green"
		case PhasePreparation:
			phaseColor = "yellow"
		case PhaseFlow:
			phaseColor = "blue"
		}
		phaseName := state.Phase.String()
		if state.Phase == PhaseFlow && state.FlowName != "" {
			phaseName = state.FlowName
		}
		text += fmt.Sprintf("  [%s]%s[white]\n\n", phaseColor, phaseName)
		text += fmt.Sprintf("  [yellow]%s[white]\n\n", formatMMSS(state.Remaining))

		switch state.Mode {
		case ModeHIIT:
			text += fmt.Sprintf("  Round [yellow]%d[white]/%d", state.Round, state.RoundsPerSet)
			if state.Sets > 1 {
				text += fmt.Sprintf("   Set [yellow]%d[white]/%d", state.Set, state.Sets)
			}
			text += "\n"
			if state.RestExtended {
				text += "  [green]Extended rest[white]\n"
			}
			if state.NextExtendedAt > 0 {
				text += fmt.Sprintf("  [gray]Next extended rest at %s active[white]\n", formatMMSS(state.NextExtendedAt))
			}
		case ModeFlow:
			text += fmt.Sprintf("  Phase [yellow]%d[white]\n", state.FlowIndex+1)
		}

		text += fmt.Sprintf("\n  [gray]Elapsed %s / %s[white]\n", formatMMSS(state.ElapsedWall), formatMMSS(state.TotalSeconds))
	}

	ui.timerPanel.SetText(text)
}

// SetPresetList populates the preset list
func (ui *CursesView) SetPresetList(presets []store.Preset) {
	ui.presets = presets
	ui.presetList.Clear()

	for _, preset := range presets {
		ui.presetList.AddItem(preset.Name, describePresetConfig(preset.Config), 0, nil)
	}

	if len(presets) > 0 {
		ui.updatePresetDetailsDisplay(0)
	} else {
		ui.updatePresetDetailsDisplay(-1)
	}
}

// updatePresetDetailsDisplay formats and displays the selected preset
func (ui *CursesView) updatePresetDetailsDisplay(index int) {
	if ui.presetDetails == nil {
		return
	}

	var text string
	if index < 0 || index >= len(ui.presets) {
		text = "\n\n  [yellow]Presets[white]\n\n"
		text += "  Select a preset from the list to view details.\n\n"
		text += "  [gray]Press Enter to load the selected preset.[white]\n"
	} else {
		preset := ui.presets[index]
		text = "\n"
		text += fmt.Sprintf("  [yellow]%s[white]  [gray](%s)[white]\n\n", preset.Name, preset.Mode)
		cfg := preset.Config
		switch preset.Mode {
		case "HIIT":
			rest := "?"
			if tc, err := TimerConfigFromPreset(cfg); err == nil {
				rest = formatMMSS(tc.HIIT.RestSeconds())
			}
			text += fmt.Sprintf("  [gray]Work:[white] %s   [gray]Rest:[white] %s  [gray](%s)[white]\n", formatMMSS(cfg.WorkSeconds), rest, cfg.Ratio)
			text += fmt.Sprintf("  [gray]Rounds:[white] %d x %d sets\n", cfg.RoundsPerSet, cfg.Sets)
			if cfg.PrepSeconds > 0 {
				text += fmt.Sprintf("  [gray]Preparation:[white] %s\n", formatMMSS(cfg.PrepSeconds))
			}
			if cfg.RecoverySeconds > 0 {
				text += fmt.Sprintf("  [gray]Recovery:[white] %s\n", formatMMSS(cfg.RecoverySeconds))
			}
			if cfg.ExtendedRestIntervalMinutes > 0 {
				text += fmt.Sprintf("  [gray]Extended rest:[white] +%ds every %d min\n", cfg.ExtendedRestBonusSeconds, cfg.ExtendedRestIntervalMinutes)
			}
		case "FLOW":
			text += "  [gray]Phases:[white]\n"
			for i, phase := range cfg.FlowPhases {
				text += fmt.Sprintf("    %d. %s - %d min\n", i+1, phase.Name, phase.DurationMinutes)
			}
		case "CARDIO":
			text += fmt.Sprintf("  [gray]Duration:[white] %s\n", formatMMSS(cfg.WorkSeconds))
		}
		text += fmt.Sprintf("\n  [gray]Updated %s[white]\n", preset.UpdatedAt.Format("2006-01-02 15:04"))
		text += "\n  [green]Press Enter to load this preset[white]\n"
	}

	ui.presetDetails.SetText(text)
}

// describePresetConfig builds the one-line summary under a preset name
func describePresetConfig(cfg store.PresetConfig) string {
	switch cfg.Mode {
	case "HIIT":
		return fmt.Sprintf("%ds work @ %s, %dx%d", cfg.WorkSeconds, cfg.Ratio, cfg.RoundsPerSet, cfg.Sets)
	case "FLOW":
		total := 0
		for _, p := range cfg.FlowPhases {
			total += p.DurationMinutes
		}
		return fmt.Sprintf("%d phases, %d min", len(cfg.FlowPhases), total)
	case "CARDIO":
		return fmt.Sprintf("%d min", cfg.WorkSeconds/60)
	default:
		return cfg.Mode
	}
}

// UpdateDashboard updates the dashboard display
func (ui *CursesView) UpdateDashboard(summary stats.Summary) {
	if ui.dashboardPanel == nil {
		return
	}

	var text string
	text = "\n  [yellow]Training Dashboard[white]\n\n"
	text += fmt.Sprintf("  [gray]Sessions:[white]       %d total, %d this week\n", summary.TotalSessions, summary.SessionsThisWeek)
	text += fmt.Sprintf("  [gray]Active time:[white]    %s\n", formatMMSS(summary.TotalActiveSeconds))
	text += fmt.Sprintf("  [gray]Current streak:[white] %d days\n", summary.CurrentStreak)
	text += fmt.Sprintf("  [gray]Longest streak:[white] %d days\n\n", summary.LongestStreak)

	if len(summary.WeeklySets) > 0 {
		text += "  [cyan]Muscle volume this week (sets)[white]\n"
		muscles := make([]string, 0, len(summary.WeeklySets))
		for m := range summary.WeeklySets {
			muscles = append(muscles, m)
		}
		sort.Slice(muscles, func(i, j int) bool {
			if summary.WeeklySets[muscles[i]] != summary.WeeklySets[muscles[j]] {
				return summary.WeeklySets[muscles[i]] > summary.WeeklySets[muscles[j]]
			}
			return muscles[i] < muscles[j]
		})
		for _, m := range muscles {
			sets := summary.WeeklySets[m]
			barLen := int(sets)
			if barLen > 30 {
				barLen = 30
			}
			text += fmt.Sprintf("  %-14s [yellow]%4.1f[white] %s\n", m, sets, strings.Repeat("█", barLen))
		}
		text += "\n"
	}

	if len(summary.Unlocked) > 0 {
		text += "  [cyan]Achievements[white]\n"
		for _, a := range summary.Unlocked {
			text += fmt.Sprintf("  [green]●[white] %s [gray]- %s[white]\n", a.Name, a.Description)
		}
	} else {
		text += "  [gray]No achievements yet - complete a session to get started.[white]\n"
	}

	ui.dashboardPanel.SetText(text)
}

// ShowNotification surfaces a short message in the notification bar
func (ui *CursesView) ShowNotification(msg string) {
	if ui.notificationText == nil {
		return
	}
	ui.notificationText.SetText(fmt.Sprintf("[yellow]%s[white]", tview.Escape(msg)))
}

// Draw refreshes/redraws the UI
func (ui *CursesView) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesView) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentScreen()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesView) Stop() {
	ui.app.Stop()
}

// formatMMSS formats whole seconds as MM:SS
func formatMMSS(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
