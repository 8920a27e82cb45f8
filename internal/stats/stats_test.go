package stats

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/catalog"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

func day(yearDay int) time.Time {
	return time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local).AddDate(0, 0, yearDay-1)
}

func TestCurrentStreak(t *testing.T) {
	today := day(10)

	tests := []struct {
		name string
		days []int
		want int
	}{
		{"no history", nil, 0},
		{"only today", []int{10}, 1},
		{"ends today", []int{7, 8, 9, 10}, 4},
		{"ends yesterday still counts", []int{7, 8, 9}, 3},
		{"ended two days ago is broken", []int{6, 7, 8}, 0},
		{"gap resets the count", []int{5, 6, 8, 9, 10}, 3},
		{"duplicate same-day entries count once", []int{9, 9, 10, 10}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := make([]time.Time, len(tt.days))
			for i, d := range tt.days {
				dates[i] = day(d)
			}
			assert.Equal(t, tt.want, CurrentStreak(dates, today))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{"no history", nil, 0},
		{"single day", []int{3}, 1},
		{"one long run", []int{1, 2, 3, 4, 5}, 5},
		{"longest run not the latest", []int{1, 2, 3, 4, 8, 9}, 4},
		{"all isolated days", []int{1, 3, 5, 7}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := make([]time.Time, len(tt.days))
			for i, d := range tt.days {
				dates[i] = day(d)
			}
			assert.Equal(t, tt.want, LongestStreak(dates))
		})
	}
}

func TestWeekOf(t *testing.T) {
	// 2026-03-04 is a Wednesday; its week starts Monday 2026-03-02.
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.Local)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	assert.Equal(t, monday, WeekOf(wed))

	// Monday maps to itself, Sunday to the Monday six days earlier.
	assert.Equal(t, monday, WeekOf(monday))
	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.Local)
	assert.Equal(t, monday, WeekOf(sunday))
}

func TestSetsByMuscle(t *testing.T) {
	cat := catalog.Builtin(log.New(io.Discard, "", 0))

	workouts := []store.LoggedWorkout{
		{
			Date: day(1),
			Entries: []store.WorkoutEntry{
				// Bench Press: primary Chest, secondary Triceps + Shoulders.
				{ExerciseName: "Bench Press", Sets: 4, Reps: 8, WeightKg: 60},
				// Dip: primary Triceps, secondary Chest + Shoulders.
				{ExerciseName: "Dip", Sets: 2, Reps: 10},
				{ExerciseName: "Not In Catalog", Sets: 5, Reps: 5},
			},
		},
	}

	volume := SetsByMuscle(workouts, cat)
	assert.InDelta(t, 4.0+1.0, volume["Chest"], 1e-9)    // 4 primary + 2*0.5 secondary
	assert.InDelta(t, 2.0+2.0, volume["Triceps"], 1e-9)  // 2 primary + 4*0.5 secondary
	assert.InDelta(t, 3.0, volume["Shoulders"], 1e-9)    // (4+2)*0.5 secondary
	assert.NotContains(t, volume, "Quadriceps")
}

func TestBuildSummary(t *testing.T) {
	cat := catalog.Builtin(log.New(io.Discard, "", 0))
	now := time.Date(2026, 3, 4, 18, 0, 0, 0, time.Local) // Wednesday

	sessions := []store.CompletedSession{
		{Date: time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local), Type: "HIIT", DurationSeconds: 240},
		{Date: time.Date(2026, 3, 3, 6, 30, 0, 0, time.Local), Type: "FLOW", DurationSeconds: 1500},
		{Date: time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local), Type: "HIIT", DurationSeconds: 600},
	}
	workouts := []store.LoggedWorkout{
		{Date: time.Date(2026, 3, 4, 17, 0, 0, 0, time.Local), Entries: []store.WorkoutEntry{
			{ExerciseName: "Back Squat", Sets: 3, Reps: 5, WeightKg: 80},
		}},
		// Last week's workout must not count towards weekly sets.
		{Date: time.Date(2026, 2, 25, 17, 0, 0, 0, time.Local), Entries: []store.WorkoutEntry{
			{ExerciseName: "Deadlift", Sets: 5, Reps: 3, WeightKg: 100},
		}},
	}

	s := BuildSummary(sessions, workouts, cat, now)
	assert.Equal(t, 3, s.TotalSessions)
	assert.Equal(t, 2340, s.TotalActiveSeconds)
	assert.Equal(t, 2, s.SessionsThisWeek)
	assert.Equal(t, 3, s.CurrentStreak) // Mar 2, 3, 4
	assert.Equal(t, 3, s.LongestStreak)
	assert.InDelta(t, 3.0, s.WeeklySets["Quadriceps"], 1e-9)
	// Hamstrings only from the squat's secondary credit; last week's
	// deadlift (5 primary sets) is outside the current week.
	assert.InDelta(t, 1.5, s.WeeklySets["Hamstrings"], 1e-9)

	ids := make([]AchievementID, 0, len(s.Unlocked))
	for _, a := range s.Unlocked {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, AchievementID("first_session"))
	assert.Contains(t, ids, AchievementID("early_bird")) // 6:30 session
	assert.Contains(t, ids, AchievementID("first_workout"))
	assert.NotContains(t, ids, AchievementID("ten_sessions"))
	assert.NotContains(t, ids, AchievementID("all_modes")) // no CARDIO yet
}

func TestEvaluateAllModes(t *testing.T) {
	sessions := []store.CompletedSession{
		{Date: day(1), Type: "HIIT", DurationSeconds: 60},
		{Date: day(2), Type: "FLOW", DurationSeconds: 60},
		{Date: day(3), Type: "CARDIO", DurationSeconds: 60},
	}
	unlocked := Evaluate(sessions, nil, Summary{})

	found := false
	for _, a := range unlocked {
		if a.ID == "all_modes" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildSummaryEmptyHistory(t *testing.T) {
	cat := catalog.Builtin(log.New(io.Discard, "", 0))
	s := BuildSummary(nil, nil, cat, time.Now())
	assert.Zero(t, s.TotalSessions)
	assert.Zero(t, s.CurrentStreak)
	assert.Zero(t, s.LongestStreak)
	assert.Empty(t, s.Unlocked)
	require.NotNil(t, s.WeeklySets)
	assert.Empty(t, s.WeeklySets)
}
