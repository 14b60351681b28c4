package engine

import (
	"math"
	"unicode/utf8"
)

type Mood string

const (
	MoodTired Mood = "tired"
	MoodSad   Mood = "sad"
	MoodAngry Mood = "angry"
	MoodGood  Mood = "good"
	MoodGreat Mood = "great"
)

type Productivity string

const (
	ProductivityLow    Productivity = "low"
	ProductivityMedium Productivity = "medium"
	ProductivityHigh   Productivity = "high"
)

// Category tags an entry, and names the score axes challenges and badges track.
type Category string

const (
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryMindfulness  Category = "mindfulness"
	CategoryProductivity Category = "productivity"
	CategoryOther        Category = "other"
	// CategoryOverall is only used by challenges and badges and tracks the total.
	CategoryOverall Category = "overall"
)

// ScoreCategories are the four axes of a ScoreBreakdown, in display order.
var ScoreCategories = []Category{CategoryHealth, CategoryFitness, CategoryMindfulness, CategoryProductivity}

func IsEntryCategory(c Category) bool {
	switch c {
	case CategoryHealth, CategoryFitness, CategoryMindfulness, CategoryProductivity, CategoryOther:
		return true
	}
	return false
}

const (
	MaxSleepHours      = 24
	MaxWaterIntake     = 10
	MaxHealthyMeals    = 3
	MaxExerciseMinutes = 24 * 60
	MaxNotesLength     = 1000

	// PassingScore is the entry total at or above which an entry counts as complete.
	PassingScore = 60
)

// HabitInput is one day's raw metrics.
type HabitInput struct {
	SleepHours        float64
	WaterIntake       float64
	ExerciseDone      bool
	ExerciseMinutes   int
	HealthyMeals      int
	Mood              Mood
	ProductivityLevel Productivity
	Category          Category
	Notes             string
}

func (in HabitInput) exercised() bool {
	return in.ExerciseDone || in.ExerciseMinutes > 0
}

// ScoreBreakdown is the per-entry score. Total is the sum of the weighted
// components; the category fields are each normalised to 0-100.
type ScoreBreakdown struct {
	Total        int `json:"total"`
	Health       int `json:"health"`
	Fitness      int `json:"fitness"`
	Mindfulness  int `json:"mindfulness"`
	Productivity int `json:"productivity"`
}

// Completed reports whether the entry meets the completion criterion.
func (s ScoreBreakdown) Completed() bool {
	return s.Total >= PassingScore
}

// Category returns the score for one axis; CategoryOverall maps to Total.
func (s ScoreBreakdown) Category(c Category) int {
	switch c {
	case CategoryHealth:
		return s.Health
	case CategoryFitness:
		return s.Fitness
	case CategoryMindfulness:
		return s.Mindfulness
	case CategoryProductivity:
		return s.Productivity
	case CategoryOverall:
		return s.Total
	}
	return 0
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// ValidateHabitInput checks every field against its declared range.
func ValidateHabitInput(in HabitInput) error {
	if badNumber(in.SleepHours) || in.SleepHours < 0 || in.SleepHours > MaxSleepHours {
		return &InvalidHabitDataError{Field: "sleep_hours", Value: in.SleepHours, Reason: "must be between 0 and 24"}
	}
	if badNumber(in.WaterIntake) || in.WaterIntake < 0 || in.WaterIntake > MaxWaterIntake {
		return &InvalidHabitDataError{Field: "water_intake", Value: in.WaterIntake, Reason: "must be between 0 and 10"}
	}
	if in.ExerciseMinutes < 0 || in.ExerciseMinutes > MaxExerciseMinutes {
		return &InvalidHabitDataError{Field: "exercise_minutes", Value: in.ExerciseMinutes, Reason: "must be between 0 and 1440"}
	}
	if in.HealthyMeals < 0 || in.HealthyMeals > MaxHealthyMeals {
		return &InvalidHabitDataError{Field: "healthy_meals", Value: in.HealthyMeals, Reason: "must be between 0 and 3"}
	}
	switch in.Mood {
	case MoodTired, MoodSad, MoodAngry, MoodGood, MoodGreat:
	default:
		return &InvalidHabitDataError{Field: "mood", Value: in.Mood, Reason: "must be one of tired, sad, angry, good, great"}
	}
	switch in.ProductivityLevel {
	case ProductivityLow, ProductivityMedium, ProductivityHigh:
	default:
		return &InvalidHabitDataError{Field: "productivity_level", Value: in.ProductivityLevel, Reason: "must be one of low, medium, high"}
	}
	if in.Category != "" && !IsEntryCategory(in.Category) {
		return &InvalidHabitDataError{Field: "category", Value: in.Category, Reason: "must be one of health, fitness, mindfulness, productivity, other"}
	}
	if utf8.RuneCountInString(in.Notes) > MaxNotesLength {
		return &InvalidHabitDataError{Field: "notes", Value: utf8.RuneCountInString(in.Notes), Reason: "must be at most 1000 characters"}
	}
	return nil
}

func sleepPoints(h float64) int {
	switch {
	case h >= 6 && h <= 8:
		return 20
	case (h >= 5 && h < 6) || (h > 8 && h <= 9):
		return 10
	}
	return 0
}

func waterPoints(l float64) int {
	switch {
	case l >= 2 && l <= 3:
		return 20
	case (l >= 1.5 && l < 2) || l > 3:
		return 10
	}
	return 0
}

func exercisePoints(done bool) int {
	if done {
		return 20
	}
	return 0
}

func mealPoints(n int) int {
	p := n * 10
	if p > 30 {
		p = 30
	}
	return p
}

var moodPoints = map[Mood]int{
	MoodGreat: 20,
	MoodGood:  15,
	MoodTired: 5,
	MoodSad:   0,
	MoodAngry: 0,
}

var productivityPoints = map[Productivity]int{
	ProductivityHigh:   20,
	ProductivityMedium: 10,
	ProductivityLow:    0,
}

// ComputeScore validates the input and converts it into a ScoreBreakdown.
// Raw inputs are never clamped; only the derived total is.
func ComputeScore(in HabitInput) (ScoreBreakdown, error) {
	if err := ValidateHabitInput(in); err != nil {
		return ScoreBreakdown{}, err
	}

	sleep := sleepPoints(in.SleepHours)
	water := waterPoints(in.WaterIntake)
	exercise := exercisePoints(in.exercised())
	meals := mealPoints(in.HealthyMeals)
	mood := moodPoints[in.Mood]
	prod := productivityPoints[in.ProductivityLevel]

	return ScoreBreakdown{
		Total:        clampScore(sleep + water + exercise + meals + mood + prod),
		Health:       normalise(sleep+water+meals, 70),
		Fitness:      normalise(exercise, 20),
		Mindfulness:  normalise(mood, 20),
		Productivity: normalise(prod, 20),
	}, nil
}

func normalise(points, max int) int {
	return clampScore(roundHalfUp(float64(points) * 100 / float64(max)))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
