package stats

import (
	"github.com/lowaak/fit-timer/fit-timer-app/internal/store"
)

type AchievementID string

// Achievement is a milestone the dashboard can show as unlocked.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	unlocked    func(sessions []store.CompletedSession, workouts []store.LoggedWorkout, s Summary) bool
}

// AllAchievements is the registry of every achievement the app knows
// about, in display order.
var AllAchievements = []Achievement{
	{
		ID:          "first_session",
		Name:        "First Steps",
		Description: "Complete your first timer session",
		unlocked: func(sessions []store.CompletedSession, _ []store.LoggedWorkout, _ Summary) bool {
			return len(sessions) >= 1
		},
	},
	{
		ID:          "ten_sessions",
		Name:        "Regular",
		Description: "Complete 10 timer sessions",
		unlocked: func(sessions []store.CompletedSession, _ []store.LoggedWorkout, _ Summary) bool {
			return len(sessions) >= 10
		},
	},
	{
		ID:          "fifty_sessions",
		Name:        "Veteran",
		Description: "Complete 50 timer sessions",
		unlocked: func(sessions []store.CompletedSession, _ []store.LoggedWorkout, _ Summary) bool {
			return len(sessions) >= 50
		},
	},
	{
		ID:          "week_streak",
		Name:        "Full Week",
		Description: "Train 7 days in a row",
		unlocked: func(_ []store.CompletedSession, _ []store.LoggedWorkout, s Summary) bool {
			return s.LongestStreak >= 7
		},
	},
	{
		ID:          "month_streak",
		Name:        "Iron Month",
		Description: "Train 30 days in a row",
		unlocked: func(_ []store.CompletedSession, _ []store.LoggedWorkout, s Summary) bool {
			return s.LongestStreak >= 30
		},
	},
	{
		ID:          "hour_of_work",
		Name:        "Hour of Power",
		Description: "Accumulate one hour of active training time",
		unlocked: func(_ []store.CompletedSession, _ []store.LoggedWorkout, s Summary) bool {
			return s.TotalActiveSeconds >= 3600
		},
	},
	{
		ID:          "early_bird",
		Name:        "Early Bird",
		Description: "Complete a session before 7am",
		unlocked: func(sessions []store.CompletedSession, _ []store.LoggedWorkout, _ Summary) bool {
			for _, sess := range sessions {
				if sess.Date.Hour() < 7 {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "all_modes",
		Name:        "Jack of All Trades",
		Description: "Complete a session in each timer mode",
		unlocked: func(sessions []store.CompletedSession, _ []store.LoggedWorkout, _ Summary) bool {
			modes := make(map[string]bool)
			for _, sess := range sessions {
				modes[sess.Type] = true
			}
			return modes["HIIT"] && modes["FLOW"] && modes["CARDIO"]
		},
	},
	{
		ID:          "first_workout",
		Name:        "Under the Bar",
		Description: "Log your first strength workout",
		unlocked: func(_ []store.CompletedSession, workouts []store.LoggedWorkout, _ Summary) bool {
			return len(workouts) >= 1
		},
	},
	{
		ID:          "balanced_week",
		Name:        "Balanced",
		Description: "Work 5 different muscles in one week",
		unlocked: func(_ []store.CompletedSession, _ []store.LoggedWorkout, s Summary) bool {
			return len(s.WeeklySets) >= 5
		},
	},
}

// Evaluate returns the unlocked achievements, in registry order.
func Evaluate(sessions []store.CompletedSession, workouts []store.LoggedWorkout, s Summary) []Achievement {
	var unlocked []Achievement
	for _, a := range AllAchievements {
		if a.unlocked(sessions, workouts, s) {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
