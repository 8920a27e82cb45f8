package timer

import (
	"fmt"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/intervals"
)

// Mode selects which countdown engine variant a session runs.
type Mode int

const (
	ModeHIIT   Mode = iota // work/rest rounds grouped into sets
	ModeFlow               // ordered named phases, advanced linearly
	ModeCardio             // single countdown, no intermediate states
)

// String returns the canonical mode name used in persistence and display.
func (m Mode) String() string {
	switch m {
	case ModeHIIT:
		return "HIIT"
	case ModeFlow:
		return "FLOW"
	case ModeCardio:
		return "CARDIO"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a canonical mode name.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "HIIT":
		return ModeHIIT, true
	case "FLOW":
		return ModeFlow, true
	case "CARDIO":
		return ModeCardio, true
	default:
		return 0, false
	}
}

// Phase classifies what the countdown currently counts down through.
// Exactly one phase is active at a time.
type Phase int

const (
	PhasePreparation Phase = iota // lead-in before the first work interval
	PhaseWork                     // active interval (also the cardio countdown)
	PhaseRest                     // recovery between rounds
	PhaseRecovery                 // recovery between sets
	PhaseFlow                     // a named flow phase
	PhaseComplete                 // session finished, countdown stopped
)

// String returns a display name for the phase.
func (p Phase) String() string {
	switch p {
	case PhasePreparation:
		return "Preparation"
	case PhaseWork:
		return "Work"
	case PhaseRest:
		return "Rest"
	case PhaseRecovery:
		return "Recovery"
	case PhaseFlow:
		return "Flow"
	case PhaseComplete:
		return "Complete"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// FlowPhase is one named, fixed-duration segment of a flow session.
type FlowPhase struct {
	Name            string
	DurationMinutes int
}

// HIITConfig holds every parameter of a HIIT session. The rest interval is
// never stored: it is always derived from the work interval and the ratio,
// so the two can never drift apart.
type HIITConfig struct {
	WorkSeconds                 int
	Ratio                       intervals.Ratio
	RoundsPerSet                int
	Sets                        int
	PrepSeconds                 int
	RecoverySeconds             int // between sets, 0 disables the recovery phase
	ExtendedRestIntervalMinutes int // 0 disables extended rests
	ExtendedRestBonusSeconds    int
}

// RestSeconds derives the rest interval from the work interval and ratio.
func (c HIITConfig) RestSeconds() int {
	return intervals.RestFromWork(c.WorkSeconds, c.Ratio)
}

// ActiveSeconds is the total work+rest time of the session at base
// durations, excluding preparation, recovery, and extended-rest bonuses.
func (c HIITConfig) ActiveSeconds() int {
	return c.Sets * c.RoundsPerSet * (c.WorkSeconds + c.RestSeconds())
}

// FlowConfig holds the ordered phase list of a flow session.
type FlowConfig struct {
	Phases []FlowPhase
}

// TotalSeconds sums all phase durations.
func (c FlowConfig) TotalSeconds() int {
	total := 0
	for _, p := range c.Phases {
		total += p.DurationMinutes * 60
	}
	return total
}

// CardioConfig holds the single duration of a cardio countdown.
type CardioConfig struct {
	DurationMinutes int
}

// TimerConfig is the full configuration of a session. Only the section
// matching Mode is consulted.
type TimerConfig struct {
	Mode   Mode
	HIIT   HIITConfig
	Flow   FlowConfig
	Cardio CardioConfig
}

// Default session parameters, used when no config file overrides them.
const (
	DefaultWorkSeconds          = 30
	DefaultRoundsPerSet         = 8
	DefaultSets                 = 1
	DefaultPrepSeconds          = 10
	DefaultRecoverySeconds      = 60
	DefaultExtendedRestMinutes  = 5
	DefaultExtendedRestBonus    = 60
	DefaultCardioMinutes        = 20
	DefaultSessionLengthMinutes = 20
	DefaultWarmupMinutes        = 5
)

// DefaultHIITConfig returns the out-of-the-box HIIT configuration.
func DefaultHIITConfig() HIITConfig {
	return HIITConfig{
		WorkSeconds:                 DefaultWorkSeconds,
		Ratio:                       intervals.RatioOneToOne,
		RoundsPerSet:                DefaultRoundsPerSet,
		Sets:                        DefaultSets,
		PrepSeconds:                 DefaultPrepSeconds,
		RecoverySeconds:             DefaultRecoverySeconds,
		ExtendedRestIntervalMinutes: DefaultExtendedRestMinutes,
		ExtendedRestBonusSeconds:    DefaultExtendedRestBonus,
	}
}

// BuiltinFlows are the flow sequences offered before any user presets exist.
var BuiltinFlows = []struct {
	Name   string
	Config FlowConfig
}{
	{
		Name: "Morning Flow",
		Config: FlowConfig{Phases: []FlowPhase{
			{Name: "Warmup", DurationMinutes: 5},
			{Name: "Sun Salutations", DurationMinutes: 10},
			{Name: "Cool Down", DurationMinutes: 5},
		}},
	},
	{
		Name: "Full Practice",
		Config: FlowConfig{Phases: []FlowPhase{
			{Name: "Warmup", DurationMinutes: 5},
			{Name: "Vinyasa", DurationMinutes: 15},
			{Name: "Cool Down", DurationMinutes: 5},
		}},
	},
	{
		Name: "Quick Stretch",
		Config: FlowConfig{Phases: []FlowPhase{
			{Name: "Stretch", DurationMinutes: 10},
		}},
	},
}

// Status tracks the engine lifecycle around a machine.
type Status int

const (
	StatusIdle      Status = iota // no session configured
	StatusReady                   // configured but not started
	StatusRunning                 // ticking
	StatusPaused                  // ticking suspended, counters intact
	StatusCompleted               // session finished
)

// String returns a display name for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusReady:
		return "Ready"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// TimerState is the snapshot published to the model after every tick and
// every control action. Views render it; nothing mutates it.
type TimerState struct {
	Status    Status
	Mode      Mode
	Phase     Phase
	Remaining int // seconds left in the current phase, never negative

	// HIIT position
	Round          int
	Set            int
	RoundsPerSet   int
	Sets           int
	RestExtended   bool
	ElapsedActive  int // cumulative work+rest seconds at base durations
	NextExtendedAt int // scheduled elapsed time of the next extended rest

	// Flow position
	FlowIndex int
	FlowName  string

	ElapsedWall  int // wall-clock seconds ticked, pauses excluded
	TotalSeconds int // nominal session length for display
}

// Screen identifies which top-level screen the UI shows.
type Screen int

const (
	ScreenTimer     Screen = iota // countdown and controls
	ScreenPresets                 // preset management
	ScreenDashboard               // streaks, achievements, muscle volume
)

// ScreenInfo carries display metadata for a screen.
type ScreenInfo struct {
	Screen      Screen
	DisplayName string
	KeyBinding  rune
}

// AllScreens defines the available screens in display order.
var AllScreens = []ScreenInfo{
	{Screen: ScreenTimer, DisplayName: "Timer", KeyBinding: '1'},
	{Screen: ScreenPresets, DisplayName: "Presets", KeyBinding: '2'},
	{Screen: ScreenDashboard, DisplayName: "Dashboard", KeyBinding: '3'},
}

// GetScreenByKey returns the screen bound to a number key.
func GetScreenByKey(key rune) (Screen, bool) {
	for _, info := range AllScreens {
		if info.KeyBinding == key {
			return info.Screen, true
		}
	}
	return 0, false
}

// GetScreenInfo returns the metadata for a screen.
func GetScreenInfo(screen Screen) (ScreenInfo, bool) {
	for _, info := range AllScreens {
		if info.Screen == screen {
			return info, true
		}
	}
	return ScreenInfo{}, false
}
