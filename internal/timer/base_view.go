package timer

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/go_func_utils"
)

// BaseView contains the base logic shared by all UI implementations: it
// subscribes to model events and forwards snapshots to the ViewImpl.
type BaseView struct {
	viewImpl   ViewImpl
	model      *Model
	controller *Controller
	context    context.Context
	cancelFunc context.CancelFunc
	waitGroup  sync.WaitGroup
	logger     *log.Logger
}

// NewBaseViewArg holds the arguments for creating a new BaseView
type NewBaseViewArg struct {
	ViewImpl   ViewImpl
	Model      *Model
	Controller *Controller
	Logger     *log.Logger
}

// NewBaseView creates a new BaseView with the given implementation
func NewBaseView(args NewBaseViewArg) *BaseView {
	if args.Logger == nil {
		panic("BaseView: logger cannot be nil")
	}
	if args.ViewImpl == nil {
		panic("BaseView: ViewImpl cannot be nil")
	}
	if args.Model == nil {
		panic("BaseView: model cannot be nil")
	}
	if args.Controller == nil {
		panic("BaseView: controller cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseView{
		viewImpl:   args.ViewImpl,
		model:      args.Model,
		controller: args.Controller,
		context:    ctx,
		cancelFunc: cancel,
		logger:     args.Logger,
	}

	// Initialize framework-specific widgets
	args.ViewImpl.Initialize(args.Controller)

	// Set up keyboard handlers
	args.ViewImpl.SetupKeyboardHandlers(args.Controller)

	// Set initial screen and state from model
	args.ViewImpl.SetScreen(args.Model.GetScreen())
	args.ViewImpl.UpdateTimerState(args.Model.GetTimerState())

	// Set up periodic resize check and initial display
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

func (base *BaseView) setupEventListeners() {
	// Listen to log messages from model
	logChan, logUnregister := base.model.SubscribeLog()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer logUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-logChan:
				if !ok {
					return
				}
				// When a new log arrives, update the display to show the tail
				base.updateLogDisplay()
			}
		}
	})

	// Listen to timer state snapshots
	stateChan, stateUnregister := base.model.SubscribeTimerState()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer stateUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case state, ok := <-stateChan:
				if !ok {
					return
				}
				base.viewImpl.UpdateTimerState(state)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	// Listen to screen changes
	screenChan, screenUnregister := base.model.SubscribeScreen()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer screenUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case screen, ok := <-screenChan:
				if !ok {
					return
				}
				base.viewImpl.SetScreen(screen)
				if screen == ScreenDashboard {
					base.refreshDashboard()
				}
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	// Listen to preset list updates
	presetsChan, presetsUnregister := base.model.SubscribePresets()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer presetsUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case presets, ok := <-presetsChan:
				if !ok {
					return
				}
				base.viewImpl.SetPresetList(presets)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	// Listen to user notifications
	notifyChan, notifyUnregister := base.model.SubscribeNotifications()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer notifyUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case msg, ok := <-notifyChan:
				if !ok {
					return
				}
				base.viewImpl.ShowNotification(msg)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	// Listen to history changes: refresh the dashboard when visible
	historyChan, historyUnregister := base.model.SubscribeHistoryChanged()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer historyUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-historyChan:
				if !ok {
					return
				}
				if base.model.GetScreen() == ScreenDashboard {
					base.refreshDashboard()
					if err := base.viewImpl.Draw(); err != nil {
						base.logger.Printf("BaseView: Error drawing: %v", err)
					}
				}
			}
		}
	})

	// Listen to close application event from model
	closeChan, closeUnregister := base.model.SubscribeClose()
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, func() {
		defer base.waitGroup.Done()
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			// Stop the UI implementation
			base.viewImpl.Stop()
		}
	})
}

func (base *BaseView) refreshDashboard() {
	summary, err := base.controller.DashboardSummary()
	if err != nil {
		base.logger.Printf("BaseView: failed to build dashboard: %v", err)
		return
	}
	base.viewImpl.UpdateDashboard(summary)
}

func (base *BaseView) updateLogDisplay() {
	// Get the visible height of the log view
	height := base.viewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	// Get the tail of logs that fit in the visible area
	logLines := base.model.GetLogTail(height)

	// Clear and update the log view
	base.viewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.viewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseView) monitorLogResize() {
	defer base.waitGroup.Done()
	var lastHeight int
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.viewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish
func (base *BaseView) Shutdown() {
	base.logger.Println("BaseView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseView) Run() error {
	return base.viewImpl.Run()
}
