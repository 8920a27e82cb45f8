package timer

import (
	"math"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/intervals"
)

// extendedRestTolerance is how close (in seconds) a rest completion must
// land to the scheduled extended-rest time for the bonus to apply.
const extendedRestTolerance = 0.5

// countdownCueFrom is the remaining-seconds threshold at and below which
// the per-second countdown beep fires.
const countdownCueFrom = 3

// Machine is the countdown state machine. It has no goroutines, no clock,
// and no locks: Tick advances it by exactly one second, skip calls move it
// between phase boundaries, and every mutation keeps the position counters
// consistent with what continuous ticking would have produced. The Engine
// owns one Machine at a time and serialises access to it.
type Machine struct {
	cfg  TimerConfig
	rest int // derived from work and ratio at construction
	cues CuePlayer

	phase     Phase
	remaining int
	round     int
	set       int
	flowIdx   int

	elapsedActive int  // work+rest seconds at base durations
	restExtended  bool // current rest period carries the bonus

	// Extended-rest schedule: nextExtendedAt is the elapsed time at which
	// the next extended rest should complete, extTarget the interval
	// multiple it services. Tracking the target separately keeps one
	// multiple from being serviced twice when the boundary lands early.
	nextExtendedAt int
	extTarget      int

	elapsedWall int
}

// NewMachine builds a machine positioned at the start of the session.
// cues must not be nil; pass NopCuePlayer to silence audio.
func NewMachine(cfg TimerConfig, cues CuePlayer) *Machine {
	if cues == nil {
		panic("Machine: cues cannot be nil")
	}

	m := &Machine{
		cfg:   cfg,
		rest:  cfg.HIIT.RestSeconds(),
		cues:  cues,
		round: 1,
		set:   1,
	}

	switch cfg.Mode {
	case ModeHIIT:
		if cfg.HIIT.ExtendedRestIntervalMinutes > 0 {
			m.nextExtendedAt = intervals.NextExtendedRestTime(0, cfg.HIIT.ExtendedRestIntervalMinutes, cfg.HIIT.WorkSeconds, m.rest)
			m.extTarget = intervals.NextIntervalTarget(0, cfg.HIIT.ExtendedRestIntervalMinutes)
		}
		if cfg.HIIT.PrepSeconds > 0 {
			m.phase = PhasePreparation
			m.remaining = cfg.HIIT.PrepSeconds
		} else {
			m.phase = PhaseWork
			m.remaining = cfg.HIIT.WorkSeconds
		}
	case ModeFlow:
		m.phase = PhaseFlow
		if len(cfg.Flow.Phases) > 0 {
			m.remaining = cfg.Flow.Phases[0].DurationMinutes * 60
		} else {
			m.phase = PhaseComplete
		}
	case ModeCardio:
		m.phase = PhaseWork
		m.remaining = cfg.Cardio.DurationMinutes * 60
	}

	return m
}

// Tick advances the machine by one second. At most one cue fires per
// call: either the countdown beep or the transition cue of the phase
// boundary reached this second.
func (m *Machine) Tick() {
	if m.phase == PhaseComplete {
		return
	}

	m.elapsedWall++
	m.remaining--
	if m.remaining > 0 {
		if m.remaining <= countdownCueFrom {
			m.cues.PlayBeep()
		}
		return
	}
	m.remaining = 0
	m.advance()
}

// advance performs the phase transition when the current phase's time is
// exhausted. Called with remaining already clamped to zero.
func (m *Machine) advance() {
	switch m.cfg.Mode {
	case ModeHIIT:
		m.advanceHIIT()
	case ModeFlow:
		m.advanceFlow()
	case ModeCardio:
		m.complete()
	}
}

func (m *Machine) advanceHIIT() {
	hiit := m.cfg.HIIT

	switch m.phase {
	case PhasePreparation:
		m.startWork()

	case PhaseWork:
		m.elapsedActive += hiit.WorkSeconds
		m.startRest()

	case PhaseRest:
		m.elapsedActive += m.rest
		m.restExtended = false
		if m.round < hiit.RoundsPerSet {
			m.round++
			m.startWork()
			return
		}
		// Set boundary.
		if m.set < hiit.Sets {
			if hiit.RecoverySeconds > 0 {
				m.phase = PhaseRecovery
				m.remaining = hiit.RecoverySeconds
				m.cues.PlayTransitionBeep()
				return
			}
			m.set++
			m.round = 1
			m.startWork()
			return
		}
		m.complete()

	case PhaseRecovery:
		m.set++
		m.round = 1
		m.startWork()
	}
}

func (m *Machine) advanceFlow() {
	m.flowIdx++
	if m.flowIdx < len(m.cfg.Flow.Phases) {
		m.phase = PhaseFlow
		m.remaining = m.cfg.Flow.Phases[m.flowIdx].DurationMinutes * 60
		m.cues.PlayChime()
		return
	}
	// The final phase boundary still chimes; in flow mode the chime is the
	// completion cue, keeping a single cue for the tick.
	m.phase = PhaseComplete
	m.remaining = 0
	m.cues.PlayChime()
}

func (m *Machine) startWork() {
	m.phase = PhaseWork
	m.remaining = m.cfg.HIIT.WorkSeconds
	m.cues.PlayHighBeep()
}

// startRest enters the rest phase after a work interval, applying the
// extended-rest bonus when this rest's completion lands on the schedule.
// The bonus applies at most once per rest period: the schedule is advanced
// past the serviced interval multiple in the same step.
func (m *Machine) startRest() {
	hiit := m.cfg.HIIT
	duration := m.rest
	m.restExtended = false

	if hiit.ExtendedRestIntervalMinutes > 0 {
		restEnd := m.elapsedActive + m.rest
		if math.Abs(float64(restEnd-m.nextExtendedAt)) <= extendedRestTolerance {
			m.restExtended = true
			duration += hiit.ExtendedRestBonusSeconds
			from := restEnd
			if m.extTarget > from {
				from = m.extTarget
			}
			m.nextExtendedAt = intervals.NextExtendedRestTime(from, hiit.ExtendedRestIntervalMinutes, hiit.WorkSeconds, m.rest)
			m.extTarget = intervals.NextIntervalTarget(from, hiit.ExtendedRestIntervalMinutes)
		}
	}

	m.phase = PhaseRest
	m.remaining = duration
	m.cues.PlayLowBeep()
}

func (m *Machine) complete() {
	m.phase = PhaseComplete
	m.remaining = 0
	m.cues.PlayCompletionFanfare()
}

// SkipForward jumps to the start of the next phase. Position counters,
// elapsed time, and the extended-rest schedule are re-derived from the
// target position so skipping is indistinguishable from having ticked
// there continuously. Skips fire no cues.
func (m *Machine) SkipForward() {
	switch m.cfg.Mode {
	case ModeHIIT:
		m.skipForwardHIIT()
	case ModeFlow:
		m.flowIdx++
		if m.flowIdx < len(m.cfg.Flow.Phases) {
			m.remaining = m.cfg.Flow.Phases[m.flowIdx].DurationMinutes * 60
		} else {
			m.phase = PhaseComplete
			m.remaining = 0
		}
	case ModeCardio:
		m.phase = PhaseComplete
		m.remaining = 0
	}
}

func (m *Machine) skipForwardHIIT() {
	hiit := m.cfg.HIIT

	switch m.phase {
	case PhasePreparation:
		m.resyncWork(1, 1)
	case PhaseWork:
		m.resyncRest(m.set, m.round)
	case PhaseRest:
		if m.round < hiit.RoundsPerSet {
			m.resyncWork(m.set, m.round+1)
			return
		}
		if m.set < hiit.Sets {
			if hiit.RecoverySeconds > 0 {
				m.resyncRecovery(m.set)
				return
			}
			m.resyncWork(m.set+1, 1)
			return
		}
		m.phase = PhaseComplete
		m.remaining = 0
	case PhaseRecovery:
		m.resyncWork(m.set+1, 1)
	}
}

// SkipBackward jumps to the start of the previous phase, or restarts the
// current one when there is nothing earlier. Counters are re-derived the
// same way as in SkipForward.
func (m *Machine) SkipBackward() {
	switch m.cfg.Mode {
	case ModeHIIT:
		m.skipBackwardHIIT()
	case ModeFlow:
		if m.phase == PhaseComplete {
			m.phase = PhaseFlow
			m.flowIdx = len(m.cfg.Flow.Phases) - 1
		} else if m.flowIdx > 0 {
			m.flowIdx--
		}
		if m.flowIdx >= 0 && m.flowIdx < len(m.cfg.Flow.Phases) {
			m.remaining = m.cfg.Flow.Phases[m.flowIdx].DurationMinutes * 60
		}
	case ModeCardio:
		m.phase = PhaseWork
		m.remaining = m.cfg.Cardio.DurationMinutes * 60
	}
}

func (m *Machine) skipBackwardHIIT() {
	hiit := m.cfg.HIIT

	switch m.phase {
	case PhasePreparation:
		m.remaining = hiit.PrepSeconds

	case PhaseWork:
		if m.round > 1 {
			m.resyncRest(m.set, m.round-1)
			return
		}
		if m.set > 1 {
			if hiit.RecoverySeconds > 0 {
				m.resyncRecovery(m.set - 1)
				return
			}
			m.resyncRest(m.set-1, hiit.RoundsPerSet)
			return
		}
		if hiit.PrepSeconds > 0 {
			m.resyncPrep()
			return
		}
		m.resyncWork(1, 1)

	case PhaseRest:
		m.resyncWork(m.set, m.round)

	case PhaseRecovery:
		m.resyncRest(m.set, hiit.RoundsPerSet)

	case PhaseComplete:
		m.resyncRest(hiit.Sets, hiit.RoundsPerSet)
	}
}

// resyncWork positions the machine at the start of the given work
// interval and rebuilds elapsed time and the extended-rest schedule from
// that position.
func (m *Machine) resyncWork(set, round int) {
	hiit := m.cfg.HIIT
	m.set = set
	m.round = round
	m.phase = PhaseWork
	m.remaining = hiit.WorkSeconds
	m.restExtended = false
	m.elapsedActive = intervals.ElapsedFromPosition(set, round, true, hiit.RoundsPerSet, hiit.WorkSeconds, m.rest)
	m.resyncExtendedSchedule()
}

// resyncRest positions the machine at the start of the given rest period,
// re-deriving whether that rest is the extended one.
func (m *Machine) resyncRest(set, round int) {
	hiit := m.cfg.HIIT
	m.set = set
	m.round = round
	m.phase = PhaseRest
	m.restExtended = false
	m.elapsedActive = intervals.ElapsedFromPosition(set, round, false, hiit.RoundsPerSet, hiit.WorkSeconds, m.rest)

	duration := m.rest
	if hiit.ExtendedRestIntervalMinutes > 0 {
		// Replay the schedule through the boundaries behind this position
		// so a target serviced early by a misaligned rest stays serviced.
		workStart := m.elapsedActive - hiit.WorkSeconds
		scheduled, target := intervals.ExtendedRestScheduleAt(workStart, hiit.ExtendedRestIntervalMinutes, hiit.WorkSeconds, m.rest)
		restEnd := m.elapsedActive + m.rest
		if math.Abs(float64(restEnd-scheduled)) <= extendedRestTolerance {
			m.restExtended = true
			duration += hiit.ExtendedRestBonusSeconds
			from := restEnd
			if target > from {
				from = target
			}
			m.nextExtendedAt = intervals.NextExtendedRestTime(from, hiit.ExtendedRestIntervalMinutes, hiit.WorkSeconds, m.rest)
			m.extTarget = intervals.NextIntervalTarget(from, hiit.ExtendedRestIntervalMinutes)
		} else {
			m.nextExtendedAt = scheduled
			m.extTarget = target
		}
	}
	m.remaining = duration
}

func (m *Machine) resyncRecovery(setJustFinished int) {
	hiit := m.cfg.HIIT
	m.set = setJustFinished
	m.round = hiit.RoundsPerSet
	m.phase = PhaseRecovery
	m.remaining = hiit.RecoverySeconds
	m.restExtended = false
	// Recovery sits at the set boundary: all of the finished set's rounds
	// are in the books.
	m.elapsedActive = setJustFinished * hiit.RoundsPerSet * (hiit.WorkSeconds + m.rest)
	m.resyncExtendedSchedule()
}

func (m *Machine) resyncPrep() {
	m.set = 1
	m.round = 1
	m.phase = PhasePreparation
	m.remaining = m.cfg.HIIT.PrepSeconds
	m.restExtended = false
	m.elapsedActive = 0
	m.resyncExtendedSchedule()
}

// resyncExtendedSchedule rebuilds the pending extended-rest schedule by
// replaying every rest boundary up to the current position, so a target
// serviced early by a misaligned boundary is not serviced a second time.
func (m *Machine) resyncExtendedSchedule() {
	hiit := m.cfg.HIIT
	if hiit.ExtendedRestIntervalMinutes <= 0 {
		return
	}
	m.nextExtendedAt, m.extTarget = intervals.ExtendedRestScheduleAt(m.elapsedActive, hiit.ExtendedRestIntervalMinutes, hiit.WorkSeconds, m.rest)
}

// Completed reports whether the session has reached its terminal phase.
func (m *Machine) Completed() bool {
	return m.phase == PhaseComplete
}

// IsWork reports whether a work interval is running. Mutually exclusive
// with IsPrep and IsRecovery.
func (m *Machine) IsWork() bool { return m.phase == PhaseWork }

// IsPrep reports whether the preparation lead-in is running.
func (m *Machine) IsPrep() bool { return m.phase == PhasePreparation }

// IsRecovery reports whether between-set recovery is running.
func (m *Machine) IsRecovery() bool { return m.phase == PhaseRecovery }

// Snapshot returns the current state for publication to views.
func (m *Machine) Snapshot() TimerState {
	state := TimerState{
		Mode:           m.cfg.Mode,
		Phase:          m.phase,
		Remaining:      m.remaining,
		Round:          m.round,
		Set:            m.set,
		RoundsPerSet:   m.cfg.HIIT.RoundsPerSet,
		Sets:           m.cfg.HIIT.Sets,
		RestExtended:   m.restExtended,
		ElapsedActive:  m.elapsedActive,
		NextExtendedAt: m.nextExtendedAt,
		FlowIndex:      m.flowIdx,
		ElapsedWall:    m.elapsedWall,
	}

	switch m.cfg.Mode {
	case ModeHIIT:
		state.TotalSeconds = m.cfg.HIIT.ActiveSeconds()
	case ModeFlow:
		state.TotalSeconds = m.cfg.Flow.TotalSeconds()
		if m.flowIdx >= 0 && m.flowIdx < len(m.cfg.Flow.Phases) {
			state.FlowName = m.cfg.Flow.Phases[m.flowIdx].Name
		}
	case ModeCardio:
		state.TotalSeconds = m.cfg.Cardio.DurationMinutes * 60
	}

	return state
}
