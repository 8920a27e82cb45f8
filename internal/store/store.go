// Package store persists presets, completed sessions, and logged
// workouts. Three implementations share one interface: sqlite for durable
// storage, a JSON file for simple setups, and an in-memory store for
// tests. The contract is at-least-once: a failed write is reported to the
// caller and may be retried; no implementation retries internally.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("store: not found")

// FlowPhase mirrors a timer flow phase in its persisted form.
type FlowPhase struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// PresetConfig is the serialisable snapshot of a timer configuration.
// Only the fields matching Mode are meaningful. The rest interval is
// deliberately absent: it is always re-derived from work and ratio.
type PresetConfig struct {
	Mode string `json:"mode"`

	WorkSeconds                 int    `json:"work_seconds,omitempty"`
	Ratio                       string `json:"ratio,omitempty"`
	RoundsPerSet                int    `json:"rounds_per_set,omitempty"`
	Sets                        int    `json:"sets,omitempty"`
	PrepSeconds                 int    `json:"prep_seconds,omitempty"`
	RecoverySeconds             int    `json:"recovery_seconds,omitempty"`
	ExtendedRestIntervalMinutes int    `json:"extended_rest_interval_minutes,omitempty"`
	ExtendedRestBonusSeconds    int    `json:"extended_rest_bonus_seconds,omitempty"`

	FlowPhases []FlowPhase `json:"flow_phases,omitempty"`
}

// Preset is a named, saved timer configuration. Presets are never
// mutated in place: SavePreset with an existing id replaces the record.
type Preset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Mode      string       `json:"mode"`
	Config    PresetConfig `json:"config"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CompletedSession records a finished timer session. Write-once.
type CompletedSession struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Type            string    `json:"type"`
	DurationSeconds int       `json:"duration_seconds"`
	PerceivedEffort int       `json:"perceived_effort,omitempty"` // 1-10, 0 means unset
	Notes           string    `json:"notes,omitempty"`
}

// WorkoutEntry is one exercise within a logged workout.
type WorkoutEntry struct {
	ExerciseName string  `json:"exercise_name"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	WeightKg     float64 `json:"weight_kg,omitempty"`
}

// LoggedWorkout is a strength workout logged by the user, the input to
// the muscle-volume dashboard.
type LoggedWorkout struct {
	ID      string         `json:"id"`
	Date    time.Time      `json:"date"`
	Notes   string         `json:"notes,omitempty"`
	Entries []WorkoutEntry `json:"entries"`
}

// Store is the persistence contract consumed by the timer engine and the
// controller.
type Store interface {
	// LoadPresets returns all presets for a mode, newest first. An empty
	// mode returns every preset.
	LoadPresets(ctx context.Context, mode string) ([]Preset, error)

	// SavePreset upserts by id. A preset without an id gets one assigned;
	// the stored copy is returned.
	SavePreset(ctx context.Context, p Preset) (Preset, error)

	// DeletePreset removes a preset. Deleting an unknown id returns
	// ErrNotFound.
	DeletePreset(ctx context.Context, id string) error

	// SaveCompletedSession appends a finished session to the history.
	SaveCompletedSession(ctx context.Context, s CompletedSession) error

	// ListCompletedSessions returns the most recent sessions, newest
	// first, at most limit of them (limit <= 0 means no limit).
	ListCompletedSessions(ctx context.Context, limit int) ([]CompletedSession, error)

	// SaveLoggedWorkout appends a logged workout.
	SaveLoggedWorkout(ctx context.Context, w LoggedWorkout) error

	// ListLoggedWorkouts returns workouts on or after since, newest first.
	ListLoggedWorkouts(ctx context.Context, since time.Time) ([]LoggedWorkout, error)

	// Close releases underlying resources.
	Close() error
}
