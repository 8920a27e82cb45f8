// Package stats derives dashboard figures from the persisted history:
// training streaks, weekly muscle volume, and achievements.
package stats

import (
	"sort"
	"time"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/catalog"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

// secondaryMuscleWeight is how much a set counts towards a muscle the
// exercise works indirectly.
const secondaryMuscleWeight = 0.5

// activeDays reduces a list of timestamps to the sorted set of distinct
// local calendar days.
func activeDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool)
	for _, d := range dates {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
		seen[day] = true
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// CurrentStreak counts consecutive active days ending today or
// yesterday. A streak whose last active day is before yesterday has been
// broken and counts as zero.
func CurrentStreak(dates []time.Time, today time.Time) int {
	days := activeDays(dates)
	if len(days) == 0 {
		return 0
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	last := days[len(days)-1]
	if !last.Equal(day) && !last.Equal(day.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i].Equal(days[i+1].AddDate(0, 0, -1)) {
			streak++
		} else {
			break
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive active days in
// the whole history.
func LongestStreak(dates []time.Time) int {
	days := activeDays(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// WeekOf returns the Monday 00:00 local time of the week containing t.
func WeekOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// SetsByMuscle totals weighted sets per muscle across the given
// workouts. Each set counts 1.0 towards the exercise's primary muscle
// and secondaryMuscleWeight towards each secondary. Exercises missing
// from the catalog are ignored.
func SetsByMuscle(workouts []store.LoggedWorkout, cat *catalog.Catalog) map[string]float64 {
	volume := make(map[string]float64)
	for _, w := range workouts {
		for _, entry := range w.Entries {
			ex, ok := cat.ByName(entry.ExerciseName)
			if !ok {
				continue
			}
			sets := float64(entry.Sets)
			if ex.PrimaryMuscle != "" {
				volume[ex.PrimaryMuscle] += sets
			}
			for _, m := range ex.SecondaryMuscles {
				volume[m] += sets * secondaryMuscleWeight
			}
		}
	}
	return volume
}

// Summary is everything the dashboard screen renders.
type Summary struct {
	TotalSessions      int
	TotalActiveSeconds int
	SessionsThisWeek   int
	CurrentStreak      int
	LongestStreak      int
	WeeklySets         map[string]float64
	Unlocked           []Achievement
}

// BuildSummary computes the dashboard summary from the full history as
// of now.
func BuildSummary(sessions []store.CompletedSession, workouts []store.LoggedWorkout, cat *catalog.Catalog, now time.Time) Summary {
	dates := make([]time.Time, 0, len(sessions)+len(workouts))
	totalActive := 0
	weekStart := WeekOf(now)
	sessionsThisWeek := 0
	for _, s := range sessions {
		dates = append(dates, s.Date)
		totalActive += s.DurationSeconds
		if !s.Date.Before(weekStart) {
			sessionsThisWeek++
		}
	}
	for _, w := range workouts {
		dates = append(dates, w.Date)
	}

	var weekWorkouts []store.LoggedWorkout
	for _, w := range workouts {
		if !w.Date.Before(weekStart) {
			weekWorkouts = append(weekWorkouts, w)
		}
	}

	summary := Summary{
		TotalSessions:      len(sessions),
		TotalActiveSeconds: totalActive,
		SessionsThisWeek:   sessionsThisWeek,
		CurrentStreak:      CurrentStreak(dates, now),
		LongestStreak:      LongestStreak(dates),
		WeeklySets:         SetsByMuscle(weekWorkouts, cat),
	}
	summary.Unlocked = Evaluate(sessions, workouts, summary)
	return summary
}
