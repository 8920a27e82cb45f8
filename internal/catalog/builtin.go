package catalog

import (
	"log"
	"strings"
)

// builtinExercises is the fallback catalog used when no catalog file is
// configured. Deliberately small: enough to log common strength work.
var builtinExercises = []Exercise{
	{Name: "Back Squat", PrimaryMuscle: "Quadriceps", SecondaryMuscles: []string{"Glutes", "Hamstrings", "Core"}, Equipment: "Barbell"},
	{Name: "Front Squat", PrimaryMuscle: "Quadriceps", SecondaryMuscles: []string{"Glutes", "Core"}, Equipment: "Barbell"},
	{Name: "Deadlift", PrimaryMuscle: "Hamstrings", SecondaryMuscles: []string{"Glutes", "Back", "Core"}, Equipment: "Barbell"},
	{Name: "Romanian Deadlift", PrimaryMuscle: "Hamstrings", SecondaryMuscles: []string{"Glutes", "Back"}, Equipment: "Barbell"},
	{Name: "Bench Press", PrimaryMuscle: "Chest", SecondaryMuscles: []string{"Triceps", "Shoulders"}, Equipment: "Barbell"},
	{Name: "Overhead Press", PrimaryMuscle: "Shoulders", SecondaryMuscles: []string{"Triceps", "Core"}, Equipment: "Barbell"},
	{Name: "Barbell Row", PrimaryMuscle: "Back", SecondaryMuscles: []string{"Biceps", "Core"}, Equipment: "Barbell"},
	{Name: "Pull-up", PrimaryMuscle: "Back", SecondaryMuscles: []string{"Biceps", "Core"}, Equipment: "Bodyweight"},
	{Name: "Push-up", PrimaryMuscle: "Chest", SecondaryMuscles: []string{"Triceps", "Shoulders", "Core"}, Equipment: "Bodyweight"},
	{Name: "Dip", PrimaryMuscle: "Triceps", SecondaryMuscles: []string{"Chest", "Shoulders"}, Equipment: "Bodyweight"},
	{Name: "Lunge", PrimaryMuscle: "Quadriceps", SecondaryMuscles: []string{"Glutes", "Hamstrings"}, Equipment: "Dumbbell"},
	{Name: "Dumbbell Curl", PrimaryMuscle: "Biceps", SecondaryMuscles: []string{"Forearms"}, Equipment: "Dumbbell"},
	{Name: "Lateral Raise", PrimaryMuscle: "Shoulders", SecondaryMuscles: nil, Equipment: "Dumbbell"},
	{Name: "Plank", PrimaryMuscle: "Core", SecondaryMuscles: []string{"Shoulders"}, Equipment: "Bodyweight"},
	{Name: "Kettlebell Swing", PrimaryMuscle: "Glutes", SecondaryMuscles: []string{"Hamstrings", "Back", "Core"}, Equipment: "Kettlebell"},
	{Name: "Burpee", PrimaryMuscle: "Full Body", SecondaryMuscles: []string{"Chest", "Quadriceps", "Core"}, Equipment: "Bodyweight"},
}

// Builtin returns the built-in fallback catalog.
func Builtin(logger *log.Logger) *Catalog {
	if logger == nil {
		panic("catalog.Builtin: logger cannot be nil")
	}
	c := &Catalog{byName: make(map[string]*Exercise), logger: logger}
	c.exercises = make([]Exercise, len(builtinExercises))
	copy(c.exercises, builtinExercises)
	for i := range c.exercises {
		c.byName[strings.ToLower(c.exercises[i].Name)] = &c.exercises[i]
	}
	return c
}
