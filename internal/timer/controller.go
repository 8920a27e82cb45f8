package timer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/catalog"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/intervals"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/stats"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

// opTimeout bounds every store call made on behalf of a UI action.
const opTimeout = 5 * time.Second

// Controller translates UI events into engine and store operations and
// pushes the results into the Model.
type Controller struct {
	model   *Model
	engine  *Engine
	sess    store.Store
	catalog *catalog.Catalog
	logger  *log.Logger
}

// NewController creates a Controller with the given dependencies.
func NewController(model *Model, engine *Engine, sess store.Store, cat *catalog.Catalog, logger *log.Logger) *Controller {
	if model == nil {
		panic("Controller: model cannot be nil")
	}
	if engine == nil {
		panic("Controller: engine cannot be nil")
	}
	if sess == nil {
		panic("Controller: store cannot be nil")
	}
	if cat == nil {
		panic("Controller: catalog cannot be nil")
	}
	if logger == nil {
		panic("Controller: logger cannot be nil")
	}
	return &Controller{
		model:   model,
		engine:  engine,
		sess:    sess,
		catalog: cat,
		logger:  logger,
	}
}

// OnEscapeKey handles when the Escape key is pressed.
func (c *Controller) OnEscapeKey() {
	c.model.RequestClose()
}

// OnScreenKey switches screens on a number key. Returns whether the key
// was handled.
func (c *Controller) OnScreenKey(key rune) bool {
	screen, ok := GetScreenByKey(key)
	if !ok {
		return false
	}
	c.OnScreenChange(screen)
	return true
}

// OnScreenChange switches the active screen.
func (c *Controller) OnScreenChange(screen Screen) {
	if info, ok := GetScreenInfo(screen); ok {
		c.logger.Printf("Controller: switching to %s screen", info.DisplayName)
	}
	if screen == ScreenPresets {
		c.RefreshPresets()
	}
	c.model.SetScreen(screen)
}

// ApplyConfig loads a new session configuration into the engine.
func (c *Controller) ApplyConfig(cfg TimerConfig) {
	c.engine.Configure(cfg)
}

// ToggleTimer starts, pauses, or resumes depending on the current status.
func (c *Controller) ToggleTimer() {
	switch c.engine.Status() {
	case StatusReady:
		c.engine.Start()
	case StatusRunning:
		c.engine.Pause()
	case StatusPaused:
		c.engine.Resume()
	case StatusCompleted:
		c.engine.Reset()
	default:
		c.logger.Printf("Controller: no session configured")
	}
}

// StopTimer stops the running session.
func (c *Controller) StopTimer() {
	c.engine.Stop()
}

// SkipForward jumps to the next phase.
func (c *Controller) SkipForward() {
	c.engine.SkipForward()
}

// SkipBackward jumps to the previous phase boundary.
func (c *Controller) SkipBackward() {
	c.engine.SkipBackward()
}

// --- Preset Methods ---

// RefreshPresets reloads the preset list for the current mode into the
// model.
func (c *Controller) RefreshPresets() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	mode := c.engine.Config().Mode
	presets, err := c.sess.LoadPresets(ctx, mode.String())
	if err != nil {
		c.logger.Printf("Controller: failed to load presets: %v", err)
		c.model.NotifyUser("Could not load presets")
		return
	}
	c.model.SetPresets(presets)
}

// SaveCurrentAsPreset persists the engine's current configuration under
// the given name. Only HIIT and flow sessions can be saved; cardio is a
// single countdown with nothing worth naming.
func (c *Controller) SaveCurrentAsPreset(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		c.model.NotifyUser("Preset name cannot be empty")
		return
	}

	cfg := c.engine.Config()
	if cfg.Mode == ModeCardio {
		c.model.NotifyUser("Cardio sessions cannot be saved as presets")
		return
	}
	preset := store.Preset{
		Name:   name,
		Mode:   cfg.Mode.String(),
		Config: PresetConfigFromTimer(cfg),
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	saved, err := c.sess.SavePreset(ctx, preset)
	if err != nil {
		c.logger.Printf("Controller: failed to save preset %q: %v", name, err)
		c.model.NotifyUser("Could not save preset")
		return
	}
	c.logger.Printf("Controller: saved preset %q (%s)", saved.Name, saved.ID)
	c.model.NotifyUser(fmt.Sprintf("Preset %q saved", saved.Name))
	c.RefreshPresets()
}

// LoadPreset configures the engine from a saved preset.
func (c *Controller) LoadPreset(p store.Preset) {
	cfg, err := TimerConfigFromPreset(p.Config)
	if err != nil {
		c.logger.Printf("Controller: preset %q is invalid: %v", p.Name, err)
		c.model.NotifyUser(fmt.Sprintf("Preset %q could not be loaded", p.Name))
		return
	}
	c.logger.Printf("Controller: loading preset %q", p.Name)
	c.engine.Configure(cfg)
	c.model.NotifyUser(fmt.Sprintf("Loaded preset %q", p.Name))
}

// DeletePreset removes a saved preset.
func (c *Controller) DeletePreset(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.sess.DeletePreset(ctx, id); err != nil {
		c.logger.Printf("Controller: failed to delete preset %s: %v", id, err)
		c.model.NotifyUser("Could not delete preset")
		return
	}
	c.RefreshPresets()
}

// --- Workout Logging Methods ---

// LogWorkout saves a strength workout. Entries naming exercises missing
// from the catalog are accepted (they simply earn no muscle credit), but
// an entirely empty workout is rejected.
func (c *Controller) LogWorkout(entries []store.WorkoutEntry, notes string) {
	var valid []store.WorkoutEntry
	for _, entry := range entries {
		if strings.TrimSpace(entry.ExerciseName) == "" || entry.Sets <= 0 {
			continue
		}
		if _, known := c.catalog.ByName(entry.ExerciseName); !known {
			c.logger.Printf("Controller: exercise %q not in catalog, logging anyway", entry.ExerciseName)
		}
		valid = append(valid, entry)
	}
	if len(valid) == 0 {
		c.model.NotifyUser("Nothing to log - add at least one exercise with sets")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	workout := store.LoggedWorkout{
		Date:    time.Now(),
		Notes:   notes,
		Entries: valid,
	}
	if err := c.sess.SaveLoggedWorkout(ctx, workout); err != nil {
		c.logger.Printf("Controller: failed to save workout: %v", err)
		c.model.NotifyUser("Could not save workout - it will not appear in your history")
		return
	}
	c.model.NotifyUser("Workout logged")
	c.model.WorkoutLogged()
}

// --- Dashboard Methods ---

// DashboardSummary loads the full history and derives the dashboard
// figures from it.
func (c *Controller) DashboardSummary() (stats.Summary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	sessions, err := c.sess.ListCompletedSessions(ctx, 0)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("loading session history: %w", err)
	}
	workouts, err := c.sess.ListLoggedWorkouts(ctx, time.Time{})
	if err != nil {
		return stats.Summary{}, fmt.Errorf("loading workout history: %w", err)
	}
	return stats.BuildSummary(sessions, workouts, c.catalog, time.Now()), nil
}

// Catalog exposes the exercise catalog to views.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Shutdown stops the engine.
func (c *Controller) Shutdown() {
	c.engine.Shutdown()
}

// --- Preset conversion ---

// PresetConfigFromTimer converts a runtime configuration into its
// persisted form. Only HIIT and flow configurations are persistable.
func PresetConfigFromTimer(cfg TimerConfig) store.PresetConfig {
	pc := store.PresetConfig{Mode: cfg.Mode.String()}
	switch cfg.Mode {
	case ModeHIIT:
		pc.WorkSeconds = cfg.HIIT.WorkSeconds
		pc.Ratio = cfg.HIIT.Ratio.String()
		pc.RoundsPerSet = cfg.HIIT.RoundsPerSet
		pc.Sets = cfg.HIIT.Sets
		pc.PrepSeconds = cfg.HIIT.PrepSeconds
		pc.RecoverySeconds = cfg.HIIT.RecoverySeconds
		pc.ExtendedRestIntervalMinutes = cfg.HIIT.ExtendedRestIntervalMinutes
		pc.ExtendedRestBonusSeconds = cfg.HIIT.ExtendedRestBonusSeconds
	case ModeFlow:
		for _, phase := range cfg.Flow.Phases {
			pc.FlowPhases = append(pc.FlowPhases, store.FlowPhase{
				Name:            phase.Name,
				DurationMinutes: phase.DurationMinutes,
			})
		}
	}
	return pc
}

// TimerConfigFromPreset converts a persisted preset back into a runtime
// configuration, validating it as it goes. Cardio presets are rejected;
// they can only appear through hand-edited store data.
func TimerConfigFromPreset(pc store.PresetConfig) (TimerConfig, error) {
	mode, ok := ParseMode(pc.Mode)
	if !ok {
		return TimerConfig{}, fmt.Errorf("unknown mode %q", pc.Mode)
	}
	if mode == ModeCardio {
		return TimerConfig{}, fmt.Errorf("cardio sessions cannot be presets")
	}

	cfg := TimerConfig{Mode: mode}
	switch mode {
	case ModeHIIT:
		ratio, err := intervals.ParseRatio(pc.Ratio)
		if err != nil {
			return TimerConfig{}, err
		}
		if pc.WorkSeconds <= 0 {
			return TimerConfig{}, fmt.Errorf("work interval must be positive, got %d", pc.WorkSeconds)
		}
		if pc.RoundsPerSet <= 0 || pc.Sets <= 0 {
			return TimerConfig{}, fmt.Errorf("rounds and sets must be positive, got %d/%d", pc.RoundsPerSet, pc.Sets)
		}
		cfg.HIIT = HIITConfig{
			WorkSeconds:                 pc.WorkSeconds,
			Ratio:                       ratio,
			RoundsPerSet:                pc.RoundsPerSet,
			Sets:                        pc.Sets,
			PrepSeconds:                 pc.PrepSeconds,
			RecoverySeconds:             pc.RecoverySeconds,
			ExtendedRestIntervalMinutes: pc.ExtendedRestIntervalMinutes,
			ExtendedRestBonusSeconds:    pc.ExtendedRestBonusSeconds,
		}
	case ModeFlow:
		if len(pc.FlowPhases) == 0 {
			return TimerConfig{}, fmt.Errorf("flow preset has no phases")
		}
		for _, phase := range pc.FlowPhases {
			if phase.DurationMinutes <= 0 {
				return TimerConfig{}, fmt.Errorf("flow phase %q has non-positive duration", phase.Name)
			}
			cfg.Flow.Phases = append(cfg.Flow.Phases, FlowPhase{
				Name:            phase.Name,
				DurationMinutes: phase.DurationMinutes,
			})
		}
	}
	return cfg, nil
}
