package store

import (
	"errors"
	"math"
	"time"
)

const (
	// DefaultHistoryLimit is used when the workout history is requested without a limit.
	DefaultHistoryLimit = 50
	// DefaultWorkoutDetails is stored when a workout is logged without details.
	DefaultWorkoutDetails = "Quick Log - No Details Provided"
	// ProteinGramsPerKg is the daily protein target per kilogram of body weight.
	ProteinGramsPerKg = 1.8
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrHandleMissing = errors.New("user handle empty")
)

// User is a registered profile. Credential is compared as stored.
type User struct {
	ID         int     `json:"id"`
	Handle     string  `json:"handle"`
	Credential string  `json:"-"`
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
	GoalWeight float64 `json:"goalWeight"`
}

// ProteinGoal is the daily protein target in grams, rounded half up.
func (u User) ProteinGoal() int {
	return int(math.Floor(u.Weight*ProteinGramsPerKg + 0.5))
}

// WorkoutEntry is an immutable record of a completed or manually logged set/session.
type WorkoutEntry struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	Timestamp       time.Time `json:"timestamp"`
	ExerciseLabel   string    `json:"exerciseLabel"`
	DurationSeconds int       `json:"durationSeconds"`
	Details         string    `json:"details"`
}

// MealEntry is a logged food intake. Date is the local midnight of the logging day.
type MealEntry struct {
	ID       int       `json:"id"`
	UserID   int       `json:"userId"`
	Date     time.Time `json:"date"`
	FoodName string    `json:"foodName"`
	Protein  float64   `json:"protein"`
	Calories float64   `json:"calories"`
}

type RegisterParams struct {
	Handle     string
	Credential string
	Name       string
	Age        int
	Height     float64
	Weight     float64
	GoalWeight float64
}

type LogWorkoutParams struct {
	UserID          int
	ExerciseLabel   string
	DurationSeconds int
	// Details defaults to DefaultWorkoutDetails when empty.
	Details string
}

func (p LogWorkoutParams) validate() error {
	if p.DurationSeconds < 0 {
		return ErrInvalidEntry
	}
	return nil
}

func (p LogWorkoutParams) details() string {
	if p.Details == "" {
		return DefaultWorkoutDetails
	}
	return p.Details
}

type LogMealParams struct {
	UserID   int
	FoodName string
	Protein  float64
	Calories float64
}

func (p LogMealParams) validate() error {
	if p.Protein < 0 || p.Calories < 0 {
		return ErrInvalidEntry
	}
	return nil
}

func historyLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}

// dateOf returns the local calendar day of t, at midnight.
func dateOf(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// asLocal reinterprets the wall clock of a timestamp read from a
// TIMESTAMP WITHOUT TIME ZONE (or DATE) column as local time.
func asLocal(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}
