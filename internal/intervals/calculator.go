// Package intervals holds the pure arithmetic behind the interval timer:
// rest derivation from work:rest ratios, round counts for a target session
// length, extended-rest scheduling, and elapsed-time reconstruction from
// position counters. Everything here is stateless and side-effect free so
// the timer state machine and its tests share the exact same math.
package intervals

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is a work:rest ratio, e.g. 3:2 means rest = work * 2/3.
type Ratio struct {
	Work int
	Rest int
}

// Supported work:rest ratios, in the order they are offered to the user.
var (
	RatioOneToOne   = Ratio{Work: 1, Rest: 1}
	RatioThreeToTwo = Ratio{Work: 3, Rest: 2}
	RatioTwoToOne   = Ratio{Work: 2, Rest: 1}
)

// AllRatios is the registry of supported ratios.
var AllRatios = []Ratio{RatioOneToOne, RatioThreeToTwo, RatioTwoToOne}

// String renders the ratio in its canonical "W:R" form.
func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Work, r.Rest)
}

// ParseRatio parses a "W:R" string into a Ratio. Both sides must be
// positive integers.
func ParseRatio(s string) (Ratio, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return Ratio{}, fmt.Errorf("parse ratio %q: expected W:R form", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Ratio{}, fmt.Errorf("parse ratio %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Ratio{}, fmt.Errorf("parse ratio %q: %w", s, err)
	}
	if w <= 0 || r <= 0 {
		return Ratio{}, fmt.Errorf("parse ratio %q: sides must be positive", s)
	}
	return Ratio{Work: w, Rest: r}, nil
}

// RestFromWork derives the rest interval in seconds from a work interval
// and a ratio: ceil(work * R / W). Never less than one second.
func RestFromWork(work int, ratio Ratio) int {
	if work <= 0 || ratio.Work <= 0 {
		return 1
	}
	rest := ceilDiv(work*ratio.Rest, ratio.Work)
	if rest < 1 {
		rest = 1
	}
	return rest
}

// RoundsForSession computes how many work+rest rounds fit into a session
// of the given length, after subtracting an optional warmup. The result is
// floored at one round so a misconfigured session can never be empty.
func RoundsForSession(sessionMinutes, work, rest int, warmupEnabled bool, warmupMinutes int) int {
	available := sessionMinutes * 60
	if warmupEnabled {
		available -= warmupMinutes * 60
	}
	roundDur := work + rest
	if available <= 0 || roundDur <= 0 {
		return 1
	}
	rounds := ceilDiv(available, roundDur)
	if rounds < 1 {
		rounds = 1
	}
	return rounds
}

// NextIntervalTarget returns the first multiple of intervalMinutes (in
// seconds) strictly after elapsed, or 0 when the interval is disabled.
func NextIntervalTarget(elapsed, intervalMinutes int) int {
	interval := intervalMinutes * 60
	if interval <= 0 {
		return 0
	}
	return (elapsed/interval + 1) * interval
}

// extendedRestSearchRadiusRounds bounds the candidate search in
// NextExtendedRestTime to +/- this many round durations around the target.
const extendedRestSearchRadiusRounds = 2

// NextExtendedRestTime returns the elapsed active time, in seconds, at
// which the next extended rest should fall. Rest boundaries occur every
// work+rest seconds of active time; the function picks the boundary
// nearest the next multiple of intervalMinutes that lies strictly after
// elapsed, searching only within two round durations of that target. When
// two boundaries are equidistant the later one wins. If no boundary lands
// inside the window, the raw target is returned as a fallback.
//
// The function is deterministic and idempotent: recomputing from the same
// elapsed time always yields the same answer.
func NextExtendedRestTime(elapsed, intervalMinutes, work, rest int) int {
	target := NextIntervalTarget(elapsed, intervalMinutes)
	if target <= 0 {
		return 0
	}

	roundDur := work + rest
	if roundDur <= 0 {
		return target
	}

	window := extendedRestSearchRadiusRounds * roundDur
	lo := target - window
	hi := target + window

	best := -1
	bestDist := 0
	kLo := lo / roundDur
	if kLo < 1 {
		kLo = 1
	}
	kHi := hi / roundDur
	for k := kLo; k <= kHi; k++ {
		c := k * roundDur
		if c <= elapsed || c < lo || c > hi {
			continue
		}
		d := c - target
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist || (d == bestDist && c > best) {
			best = c
			bestDist = d
		}
	}
	if best < 0 {
		return target
	}
	return best
}

// ExtendedRestScheduleAt replays the extended-rest schedule from the
// start of the session through every rest boundary at or before elapsed,
// and returns the pending (nextAt, target) pair a continuously ticking
// session would hold at that position. A rest boundary that matched the
// schedule consumes its interval target, so a target serviced early by a
// misaligned boundary stays serviced. Returns (0, 0) when the interval is
// disabled.
func ExtendedRestScheduleAt(elapsed, intervalMinutes, work, rest int) (nextAt, target int) {
	if intervalMinutes <= 0 {
		return 0, 0
	}
	nextAt = NextExtendedRestTime(0, intervalMinutes, work, rest)
	target = NextIntervalTarget(0, intervalMinutes)

	roundDur := work + rest
	if roundDur <= 0 {
		return nextAt, target
	}
	for b := roundDur; b <= elapsed; b += roundDur {
		if b != nextAt {
			continue
		}
		from := b
		if target > from {
			from = target
		}
		nextAt = NextExtendedRestTime(from, intervalMinutes, work, rest)
		target = NextIntervalTarget(from, intervalMinutes)
	}
	return nextAt, target
}

// ElapsedFromPosition reconstructs the cumulative active time (work and
// rest only, no preparation or recovery) at the start of the phase
// identified by the position counters. During a rest phase the just
// finished work interval has already been accumulated, matching what
// continuous ticking produces.
func ElapsedFromPosition(set, round int, isWork bool, roundsPerSet, work, rest int) int {
	if set < 1 {
		set = 1
	}
	if round < 1 {
		round = 1
	}
	elapsed := (set-1)*roundsPerSet*(work+rest) + (round-1)*(work+rest)
	if !isWork {
		elapsed += work
	}
	return elapsed
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
