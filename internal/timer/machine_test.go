package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/intervals"
)

// recordingCues captures every cue call for assertions.
type recordingCues struct {
	calls []string
}

func (r *recordingCues) PlayBeep()              { r.calls = append(r.calls, "beep") }
func (r *recordingCues) PlayHighBeep()          { r.calls = append(r.calls, "high_beep") }
func (r *recordingCues) PlayLowBeep()           { r.calls = append(r.calls, "low_beep") }
func (r *recordingCues) PlayChime()             { r.calls = append(r.calls, "chime") }
func (r *recordingCues) PlayTransitionBeep()    { r.calls = append(r.calls, "transition_beep") }
func (r *recordingCues) PlayCompletionFanfare() { r.calls = append(r.calls, "completion_fanfare") }

func (r *recordingCues) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func hiitConfig(work int, ratio intervals.Ratio, rounds, sets, prep, recovery, extMinutes, extBonus int) TimerConfig {
	return TimerConfig{
		Mode: ModeHIIT,
		HIIT: HIITConfig{
			WorkSeconds:                 work,
			Ratio:                       ratio,
			RoundsPerSet:                rounds,
			Sets:                        sets,
			PrepSeconds:                 prep,
			RecoverySeconds:             recovery,
			ExtendedRestIntervalMinutes: extMinutes,
			ExtendedRestBonusSeconds:    extBonus,
		},
	}
}

// tickUntil drives the machine until cond holds, failing after limit ticks.
func tickUntil(t *testing.T, m *Machine, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		m.Tick()
	}
	require.True(t, cond(), "condition not reached within %d ticks", limit)
}

func TestMachine_HIIT_StartsInPreparation(t *testing.T) {
	m := NewMachine(hiitConfig(30, intervals.RatioOneToOne, 4, 1, 10, 0, 0, 0), &recordingCues{})

	state := m.Snapshot()
	assert.Equal(t, PhasePreparation, state.Phase)
	assert.Equal(t, 10, state.Remaining)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, 1, state.Set)
}

func TestMachine_HIIT_NoPrepStartsInWork(t *testing.T) {
	m := NewMachine(hiitConfig(30, intervals.RatioOneToOne, 4, 1, 0, 0, 0, 0), &recordingCues{})

	state := m.Snapshot()
	assert.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, 30, state.Remaining)
}

func TestMachine_HIIT_WorkRestProgression(t *testing.T) {
	cues := &recordingCues{}
	m := NewMachine(hiitConfig(30, intervals.RatioTwoToOne, 2, 1, 0, 0, 0, 0), cues)

	// 30 ticks of work
	for i := 0; i < 30; i++ {
		m.Tick()
	}
	state := m.Snapshot()
	assert.Equal(t, PhaseRest, state.Phase)
	assert.Equal(t, 15, state.Remaining) // 2:1 ratio
	assert.Equal(t, 30, state.ElapsedActive)
	assert.Equal(t, 1, state.Round)

	// 15 ticks of rest moves to round 2 work
	for i := 0; i < 15; i++ {
		m.Tick()
	}
	state = m.Snapshot()
	assert.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, 2, state.Round)
	assert.Equal(t, 45, state.ElapsedActive)
}

func TestMachine_HIIT_RemainingNeverNegative(t *testing.T) {
	m := NewMachine(hiitConfig(5, intervals.RatioOneToOne, 2, 1, 3, 0, 0, 0), &recordingCues{})

	for i := 0; i < 100; i++ {
		m.Tick()
		assert.GreaterOrEqual(t, m.Snapshot().Remaining, 0)
	}
	assert.True(t, m.Completed())
}

func TestMachine_PhaseFlagsMutuallyExclusive(t *testing.T) {
	m := NewMachine(hiitConfig(10, intervals.RatioOneToOne, 2, 2, 5, 8, 0, 0), &recordingCues{})

	for i := 0; i < 200 && !m.Completed(); i++ {
		flags := 0
		for _, f := range []bool{m.IsWork(), m.IsPrep(), m.IsRecovery()} {
			if f {
				flags++
			}
		}
		assert.LessOrEqual(t, flags, 1, "tick %d", i)
		m.Tick()
	}
}

func TestMachine_AtMostOneCuePerTick(t *testing.T) {
	cues := &recordingCues{}
	m := NewMachine(hiitConfig(5, intervals.RatioOneToOne, 3, 2, 4, 6, 1, 10), cues)

	for i := 0; i < 300 && !m.Completed(); i++ {
		before := len(cues.calls)
		m.Tick()
		assert.LessOrEqual(t, len(cues.calls)-before, 1, "tick %d fired more than one cue", i)
	}
}

func TestMachine_HIIT_ExtendedRestScenario(t *testing.T) {
	// work=30, ratio 1:1 (rest=30), 4 rounds, 1 set, prep=10,
	// extended rest every 4 minutes with a 60s bonus. Total active time is
	// 4*(30+30)=240s and the 4th round's rest, ending at exactly 240s,
	// carries the bonus.
	cues := &recordingCues{}
	m := NewMachine(hiitConfig(30, intervals.RatioOneToOne, 4, 1, 10, 0, 4, 60), cues)

	require.Equal(t, 240, m.Snapshot().NextExtendedAt)

	var restDurations []int
	var restExtended []bool
	lastPhase := m.Snapshot().Phase
	for i := 0; i < 1000 && !m.Completed(); i++ {
		m.Tick()
		state := m.Snapshot()
		if state.Phase == PhaseRest && lastPhase != PhaseRest {
			restDurations = append(restDurations, state.Remaining)
			restExtended = append(restExtended, state.RestExtended)
		}
		lastPhase = state.Phase
	}

	require.True(t, m.Completed())
	require.Equal(t, []int{30, 30, 30, 90}, restDurations)
	assert.Equal(t, []bool{false, false, false, true}, restExtended)
	assert.Equal(t, 240, m.Snapshot().ElapsedActive)
	assert.Equal(t, 1, cues.count("completion_fanfare"))
}

func TestMachine_HIIT_ExtendedRestAppliedOncePerRest(t *testing.T) {
	// Two sets so the session continues past the first extended rest; the
	// schedule must move to the next interval multiple.
	m := NewMachine(hiitConfig(30, intervals.RatioOneToOne, 4, 2, 0, 0, 4, 60), &recordingCues{})

	extendedCount := 0
	lastPhase := m.Snapshot().Phase
	for i := 0; i < 2000 && !m.Completed(); i++ {
		m.Tick()
		state := m.Snapshot()
		if state.Phase == PhaseRest && lastPhase != PhaseRest && state.RestExtended {
			extendedCount++
		}
		lastPhase = state.Phase
	}

	require.True(t, m.Completed())
	// 480s of active time crosses the 240s and 480s marks exactly.
	assert.Equal(t, 2, extendedCount)
}

func TestMachine_HIIT_CompletionAfterTwoSetsOneRecovery(t *testing.T) {
	cues := &recordingCues{}
	m := NewMachine(hiitConfig(10, intervals.RatioOneToOne, 3, 2, 0, 30, 0, 0), cues)

	recoveries := 0
	lastPhase := m.Snapshot().Phase
	completedAt := -1
	tick := 0
	for ; tick < 2000 && !m.Completed(); tick++ {
		m.Tick()
		state := m.Snapshot()
		if state.Phase == PhaseRecovery && lastPhase != PhaseRecovery {
			recoveries++
			// Recovery only happens after set 1 is fully done.
			assert.Equal(t, 1, state.Set)
			assert.Equal(t, 3, state.Round)
		}
		if state.Phase == PhaseComplete && completedAt < 0 {
			completedAt = tick
			assert.Equal(t, 2, state.Set)
		}
		lastPhase = state.Phase
	}

	require.True(t, m.Completed())
	assert.Equal(t, 1, recoveries)
	// 2 sets * 3 rounds * 20s + 30s recovery
	assert.Equal(t, 150, m.Snapshot().ElapsedWall)
	assert.Equal(t, 1, cues.count("completion_fanfare"))
}

func TestMachine_SkipForwardBackwardRoundTrip(t *testing.T) {
	// From mid-round-3 work with rps=8, work=30, rest=15, a forward then
	// backward skip must restore an equivalent position tuple.
	m := NewMachine(hiitConfig(30, intervals.RatioTwoToOne, 8, 1, 0, 0, 0, 0), &recordingCues{})

	// Two full rounds (45s each), then 10s into round 3's work.
	for i := 0; i < 2*45+10; i++ {
		m.Tick()
	}
	before := m.Snapshot()
	require.Equal(t, PhaseWork, before.Phase)
	require.Equal(t, 3, before.Round)
	require.Equal(t, 1, before.Set)
	require.Equal(t, 90, before.ElapsedActive)

	m.SkipForward()
	mid := m.Snapshot()
	assert.Equal(t, PhaseRest, mid.Phase)
	assert.Equal(t, 3, mid.Round)
	assert.Equal(t, 15, mid.Remaining)
	assert.Equal(t, 120, mid.ElapsedActive)

	m.SkipBackward()
	after := m.Snapshot()
	assert.Equal(t, before.Phase, after.Phase)
	assert.Equal(t, before.Round, after.Round)
	assert.Equal(t, before.Set, after.Set)
	assert.Equal(t, before.ElapsedActive, after.ElapsedActive)
	assert.Equal(t, 30, after.Remaining) // back at the start of the work interval
}

func TestMachine_SkipMatchesContinuousTicking(t *testing.T) {
	cfg := hiitConfig(30, intervals.RatioOneToOne, 4, 2, 5, 20, 4, 60)

	// Machine A ticks continuously to the start of set 1's rest 4.
	a := NewMachine(cfg, &recordingCues{})
	tickUntil(t, a, 1000, func() bool {
		s := a.Snapshot()
		return s.Phase == PhaseRest && s.Round == 4 && s.Set == 1
	})

	// Machine B skips forward phase by phase to the same position.
	b := NewMachine(cfg, &recordingCues{})
	for i := 0; i < 100; i++ {
		s := b.Snapshot()
		if s.Phase == PhaseRest && s.Round == 4 && s.Set == 1 {
			break
		}
		b.SkipForward()
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	assert.Equal(t, sa.Phase, sb.Phase)
	assert.Equal(t, sa.Round, sb.Round)
	assert.Equal(t, sa.Set, sb.Set)
	assert.Equal(t, sa.Remaining, sb.Remaining)
	assert.Equal(t, sa.ElapsedActive, sb.ElapsedActive)
	assert.Equal(t, sa.RestExtended, sb.RestExtended)
	assert.Equal(t, sa.NextExtendedAt, sb.NextExtendedAt)
}

func TestMachine_SkipAfterEarlyExtendedRestDoesNotReExtend(t *testing.T) {
	// Rounds are 100s but the 4-minute interval lands at 240s, so the
	// rest ending at 200 services the 240s target ahead of schedule and
	// continuous ticking then holds the next extension at 500.
	cfg := hiitConfig(50, intervals.RatioOneToOne, 12, 1, 0, 0, 4, 30)

	m := NewMachine(cfg, &recordingCues{})
	tickUntil(t, m, 1000, func() bool {
		s := m.Snapshot()
		return s.Phase == PhaseRest && s.RestExtended
	})
	state := m.Snapshot()
	require.Equal(t, 150, state.ElapsedActive)
	require.Equal(t, 500, state.NextExtendedAt)

	// Skipping out of the extended rest must keep the serviced target in
	// the books instead of rescheduling it onto the next boundary.
	m.SkipForward()
	state = m.Snapshot()
	require.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, 500, state.NextExtendedAt)

	// The rest ending at 300 is not extended a second time for the same
	// 240s mark.
	m.SkipForward()
	state = m.Snapshot()
	require.Equal(t, PhaseRest, state.Phase)
	assert.False(t, state.RestExtended)
	assert.Equal(t, 50, state.Remaining)
	assert.Equal(t, 500, state.NextExtendedAt)
}

func TestMachine_SkipMatchesContinuousTickingMisalignedInterval(t *testing.T) {
	cfg := hiitConfig(50, intervals.RatioOneToOne, 12, 1, 0, 0, 4, 30)

	// Machine A ticks continuously into rest 5, the second extended rest.
	a := NewMachine(cfg, &recordingCues{})
	tickUntil(t, a, 2000, func() bool {
		s := a.Snapshot()
		return s.Phase == PhaseRest && s.Round == 5
	})

	// Machine B only ever skips, crossing the early-serviced boundary.
	b := NewMachine(cfg, &recordingCues{})
	for i := 0; i < 100; i++ {
		s := b.Snapshot()
		if s.Phase == PhaseRest && s.Round == 5 {
			break
		}
		b.SkipForward()
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	require.True(t, sa.RestExtended)
	assert.Equal(t, sa.Remaining, sb.Remaining)
	assert.Equal(t, sa.ElapsedActive, sb.ElapsedActive)
	assert.Equal(t, sa.RestExtended, sb.RestExtended)
	assert.Equal(t, sa.NextExtendedAt, sb.NextExtendedAt)
}

func TestMachine_SkipBackwardFromFirstWorkReachesPrep(t *testing.T) {
	m := NewMachine(hiitConfig(30, intervals.RatioOneToOne, 4, 1, 10, 0, 0, 0), &recordingCues{})

	// Through prep into work.
	for i := 0; i < 10; i++ {
		m.Tick()
	}
	require.Equal(t, PhaseWork, m.Snapshot().Phase)

	m.SkipBackward()
	state := m.Snapshot()
	assert.Equal(t, PhasePreparation, state.Phase)
	assert.Equal(t, 10, state.Remaining)
	assert.Equal(t, 0, state.ElapsedActive)
}

func TestMachine_SkipForwardAcrossRecovery(t *testing.T) {
	m := NewMachine(hiitConfig(30, intervals.RatioOneToOne, 2, 2, 0, 45, 0, 0), &recordingCues{})

	// work r1 -> rest r1 -> work r2 -> rest r2 -> recovery -> work s2 r1
	phases := []Phase{PhaseRest, PhaseWork, PhaseRest, PhaseRecovery, PhaseWork}
	for _, want := range phases {
		m.SkipForward()
		assert.Equal(t, want, m.Snapshot().Phase)
	}
	state := m.Snapshot()
	assert.Equal(t, 2, state.Set)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, 120, state.ElapsedActive) // set 1 fully banked
}

func TestMachine_Flow_TransitionsAndChimes(t *testing.T) {
	cues := &recordingCues{}
	m := NewMachine(TimerConfig{
		Mode: ModeFlow,
		Flow: FlowConfig{Phases: []FlowPhase{
			{Name: "Warmup", DurationMinutes: 5},
			{Name: "Vinyasa", DurationMinutes: 15},
			{Name: "CoolDown", DurationMinutes: 5},
		}},
	}, cues)

	state := m.Snapshot()
	require.Equal(t, PhaseFlow, state.Phase)
	assert.Equal(t, "Warmup", state.FlowName)
	assert.Equal(t, 300, state.Remaining)
	assert.Equal(t, 1500, state.TotalSeconds)

	total := 0
	for !m.Completed() {
		m.Tick()
		total++
		require.LessOrEqual(t, total, 1500, "flow session overran")
	}

	// 25 minutes across exactly three phase transitions, one chime each.
	assert.Equal(t, 1500, total)
	assert.Equal(t, 3, cues.count("chime"))
	assert.Equal(t, 0, cues.count("completion_fanfare"))
}

func TestMachine_Flow_SkipNavigation(t *testing.T) {
	m := NewMachine(TimerConfig{
		Mode: ModeFlow,
		Flow: FlowConfig{Phases: []FlowPhase{
			{Name: "A", DurationMinutes: 1},
			{Name: "B", DurationMinutes: 2},
		}},
	}, &recordingCues{})

	m.SkipForward()
	state := m.Snapshot()
	assert.Equal(t, "B", state.FlowName)
	assert.Equal(t, 120, state.Remaining)

	m.SkipBackward()
	state = m.Snapshot()
	assert.Equal(t, "A", state.FlowName)
	assert.Equal(t, 60, state.Remaining)

	// Backward at the first phase restarts it.
	m.Tick()
	m.SkipBackward()
	assert.Equal(t, 60, m.Snapshot().Remaining)

	m.SkipForward()
	m.SkipForward()
	assert.True(t, m.Completed())
}

func TestMachine_Cardio_SingleCountdown(t *testing.T) {
	cues := &recordingCues{}
	m := NewMachine(TimerConfig{
		Mode:   ModeCardio,
		Cardio: CardioConfig{DurationMinutes: 1},
	}, cues)

	require.Equal(t, 60, m.Snapshot().Remaining)
	for i := 0; i < 60; i++ {
		assert.False(t, m.Completed())
		m.Tick()
	}
	assert.True(t, m.Completed())
	assert.Equal(t, 1, cues.count("completion_fanfare"))

	// Ticking past completion is a no-op.
	m.Tick()
	assert.Equal(t, 0, m.Snapshot().Remaining)
	assert.Equal(t, 1, cues.count("completion_fanfare"))
}

func TestMachine_CountdownBeeps(t *testing.T) {
	cues := &recordingCues{}
	m := NewMachine(TimerConfig{
		Mode:   ModeCardio,
		Cardio: CardioConfig{DurationMinutes: 1},
	}, cues)

	for i := 0; i < 59; i++ {
		m.Tick()
	}
	// Beeps at remaining 3, 2, 1.
	assert.Equal(t, 3, cues.count("beep"))
}
