package intervals

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in      string
		want    Ratio
		wantErr bool
	}{
		{in: "1:1", want: RatioOneToOne},
		{in: "3:2", want: RatioThreeToTwo},
		{in: "2:1", want: RatioTwoToOne},
		{in: " 3 : 2 ", want: RatioThreeToTwo},
		{in: "3", wantErr: true},
		{in: "0:2", wantErr: true},
		{in: "3:-1", wantErr: true},
		{in: "a:b", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseRatio(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestRestFromWork_Table(t *testing.T) {
	// rest = ceil(work * R / W) for every supported work duration and ratio
	works := []int{20, 30, 45, 60, 90, 120, 240}
	for _, work := range works {
		for _, ratio := range AllRatios {
			got := RestFromWork(work, ratio)
			want := (work*ratio.Rest + ratio.Work - 1) / ratio.Work
			assert.Equal(t, want, got, "work=%d ratio=%s", work, ratio)
			assert.GreaterOrEqual(t, got, 1, "work=%d ratio=%s", work, ratio)
		}
	}
}

func TestRestFromWork_Values(t *testing.T) {
	assert.Equal(t, 30, RestFromWork(30, RatioOneToOne))
	assert.Equal(t, 20, RestFromWork(30, RatioThreeToTwo))
	assert.Equal(t, 15, RestFromWork(30, RatioTwoToOne))
	// 45 * 2/3 = 30 exactly, 20 * 2/3 = 13.33 rounds up
	assert.Equal(t, 30, RestFromWork(45, RatioThreeToTwo))
	assert.Equal(t, 14, RestFromWork(20, RatioThreeToTwo))
}

func TestRestFromWork_DegenerateInput(t *testing.T) {
	assert.Equal(t, 1, RestFromWork(0, RatioOneToOne))
	assert.Equal(t, 1, RestFromWork(-5, RatioTwoToOne))
}

func TestRoundsForSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionMinutes int
		work, rest     int
		warmup         bool
		warmupMinutes  int
		want           int
	}{
		{name: "20min 30/30 no warmup", sessionMinutes: 20, work: 30, rest: 30, want: 20},
		{name: "20min 30/30 with 5min warmup", sessionMinutes: 20, work: 30, rest: 30, warmup: true, warmupMinutes: 5, want: 15},
		{name: "even division", sessionMinutes: 10, work: 45, rest: 30, want: 8},
		{name: "uneven division rounds up", sessionMinutes: 10, work: 45, rest: 25, want: 9},
		{name: "warmup swallows session", sessionMinutes: 10, work: 30, rest: 30, warmup: true, warmupMinutes: 10, want: 1},
		{name: "warmup exceeds session", sessionMinutes: 10, work: 30, rest: 30, warmup: true, warmupMinutes: 15, want: 1},
		{name: "disabled warmup ignored", sessionMinutes: 10, work: 30, rest: 30, warmup: false, warmupMinutes: 60, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundsForSession(tt.sessionMinutes, tt.work, tt.rest, tt.warmup, tt.warmupMinutes)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundsForSession_AlwaysAtLeastOne(t *testing.T) {
	for sessionMinutes := 10; sessionMinutes <= 60; sessionMinutes += 5 {
		for _, warmup := range []bool{false, true} {
			got := RoundsForSession(sessionMinutes, 60, 30, warmup, 10)
			assert.GreaterOrEqual(t, got, 1, "sessionMinutes=%d warmup=%v", sessionMinutes, warmup)
		}
	}
}

func TestNextExtendedRestTime(t *testing.T) {
	tests := []struct {
		name            string
		elapsed         int
		intervalMinutes int
		work, rest      int
		want            int
	}{
		// 30/30 rounds: boundaries every 60s, target 240 hit exactly
		{name: "boundary on target", elapsed: 0, intervalMinutes: 4, work: 30, rest: 30, want: 240},
		// mid-session recompute targets the next interval multiple
		{name: "recompute after first extension", elapsed: 240, intervalMinutes: 4, work: 30, rest: 30, want: 480},
		// 45/45 rounds: boundaries 90,180,270... target 240 -> 270 beats 180
		{name: "nearest boundary after target wins", elapsed: 0, intervalMinutes: 4, work: 45, rest: 45, want: 270},
		// 48/48 rounds: boundaries 96,192,288 equidistant around 240 -> later wins
		{name: "tie breaks to the later boundary", elapsed: 0, intervalMinutes: 4, work: 48, rest: 48, want: 288},
		// round far longer than the interval: first reachable boundary wins
		{name: "huge rounds pick the first boundary", elapsed: 0, intervalMinutes: 1, work: 240, rest: 120, want: 360},
		// elapsed past a multiple targets the one after it
		{name: "elapsed just past a multiple", elapsed: 250, intervalMinutes: 4, work: 30, rest: 30, want: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextExtendedRestTime(tt.elapsed, tt.intervalMinutes, tt.work, tt.rest)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextExtendedRestTime_Idempotent(t *testing.T) {
	cases := []struct {
		elapsed, intervalMinutes, work, rest int
	}{
		{0, 4, 30, 30},
		{125, 4, 30, 15},
		{599, 5, 45, 30},
		{1200, 10, 20, 10},
	}
	for _, c := range cases {
		first := NextExtendedRestTime(c.elapsed, c.intervalMinutes, c.work, c.rest)
		for i := 0; i < 5; i++ {
			again := NextExtendedRestTime(c.elapsed, c.intervalMinutes, c.work, c.rest)
			require.Equal(t, first, again, "case %+v iteration %d", c, i)
		}
	}
}

func TestNextExtendedRestTime_AlwaysInFuture(t *testing.T) {
	for elapsed := 0; elapsed < 1000; elapsed += 37 {
		got := NextExtendedRestTime(elapsed, 4, 30, 15)
		assert.Greater(t, got, elapsed, "elapsed=%d", elapsed)
	}
}

func TestNextExtendedRestTime_Disabled(t *testing.T) {
	assert.Equal(t, 0, NextExtendedRestTime(100, 0, 30, 30))
	assert.Equal(t, 0, NextExtendedRestTime(100, -1, 30, 30))
}

func TestExtendedRestScheduleAt(t *testing.T) {
	tests := []struct {
		name            string
		elapsed         int
		intervalMinutes int
		work, rest      int
		wantNext        int
		wantTarget      int
	}{
		// 50/50 rounds, 4-minute interval: boundaries every 100s never
		// align with the 240s multiples, so targets are serviced early.
		{name: "misaligned fresh", elapsed: 0, intervalMinutes: 4, work: 50, rest: 50, wantNext: 200, wantTarget: 240},
		{name: "misaligned before first service", elapsed: 100, intervalMinutes: 4, work: 50, rest: 50, wantNext: 200, wantTarget: 240},
		{name: "misaligned target serviced early", elapsed: 200, intervalMinutes: 4, work: 50, rest: 50, wantNext: 500, wantTarget: 480},
		{name: "misaligned mid second cycle", elapsed: 450, intervalMinutes: 4, work: 50, rest: 50, wantNext: 500, wantTarget: 480},
		{name: "misaligned second target serviced", elapsed: 500, intervalMinutes: 4, work: 50, rest: 50, wantNext: 700, wantTarget: 720},
		// 30/30 rounds: boundaries land exactly on the multiples.
		{name: "aligned fresh", elapsed: 0, intervalMinutes: 4, work: 30, rest: 30, wantNext: 240, wantTarget: 240},
		{name: "aligned after first service", elapsed: 240, intervalMinutes: 4, work: 30, rest: 30, wantNext: 480, wantTarget: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, target := ExtendedRestScheduleAt(tt.elapsed, tt.intervalMinutes, tt.work, tt.rest)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestExtendedRestScheduleAt_Disabled(t *testing.T) {
	next, target := ExtendedRestScheduleAt(300, 0, 30, 30)
	assert.Equal(t, 0, next)
	assert.Equal(t, 0, target)
}

func TestElapsedFromPosition(t *testing.T) {
	const (
		rps  = 8
		work = 30
		rest = 15
	)

	tests := []struct {
		set, round int
		isWork     bool
		want       int
	}{
		{set: 1, round: 1, isWork: true, want: 0},
		{set: 1, round: 1, isWork: false, want: 30},
		{set: 1, round: 2, isWork: true, want: 45},
		{set: 1, round: 3, isWork: true, want: 90},
		{set: 1, round: 8, isWork: false, want: 7*45 + 30},
		{set: 2, round: 1, isWork: true, want: 8 * 45},
		{set: 2, round: 4, isWork: false, want: 8*45 + 3*45 + 30},
	}

	for _, tt := range tests {
		got := ElapsedFromPosition(tt.set, tt.round, tt.isWork, rps, work, rest)
		assert.Equal(t, tt.want, got, fmt.Sprintf("set=%d round=%d isWork=%v", tt.set, tt.round, tt.isWork))
	}
}

func TestElapsedFromPosition_MatchesTickingAccumulation(t *testing.T) {
	// Simulate the accumulation the state machine performs (+work on
	// work->rest, +rest on rest->work) and check the reconstruction agrees
	// at every phase boundary.
	const (
		rps  = 4
		sets = 2
		work = 30
		rest = 20
	)

	elapsed := 0
	for set := 1; set <= sets; set++ {
		for round := 1; round <= rps; round++ {
			assert.Equal(t, elapsed, ElapsedFromPosition(set, round, true, rps, work, rest),
				"work start set=%d round=%d", set, round)
			elapsed += work
			assert.Equal(t, elapsed, ElapsedFromPosition(set, round, false, rps, work, rest),
				"rest start set=%d round=%d", set, round)
			elapsed += rest
		}
	}
}
