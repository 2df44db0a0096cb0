package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

type RegisterForm struct {
	Handle     string `json:"handle"`
	Credential string `json:"credential"`
	Name       string `json:"name"`
	Age        string `json:"age"`
	Height     string `json:"height"`
	Weight     string `json:"weight"`
	GoalWeight string `json:"goalWeight"`
}

// ProfileForm holds the editable profile fields. Empty fields keep their current value.
type ProfileForm struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Height     string `json:"height"`
	Weight     string `json:"weight"`
	GoalWeight string `json:"goalWeight"`
}

type WorkoutKind string

const (
	KindGym    WorkoutKind = "GYM"
	KindCardio WorkoutKind = "CARDIO"
)

// ManualWorkoutForm is a workout typed in by hand, its duration in minutes.
type ManualWorkoutForm struct {
	Kind     WorkoutKind `json:"kind"`
	Exercise string      `json:"exercise"`
	Minutes  string      `json:"minutes"`
	Sets     string      `json:"sets"`
	Reps     string      `json:"reps"`
	Steps    string      `json:"steps"`
}

type TimerForm struct {
	Category string `json:"category"`
	Exercise string `json:"exercise"`
	Sets     string `json:"sets"`
	Reps     string `json:"reps"`
}

// Upper bounds keep parsed numbers inside the INTEGER columns of the store.
const (
	maxAge     = 150
	maxMinutes = math.MaxInt32 / 60
	maxCount   = math.MaxInt32
)

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &ValidationError{Field: field, Value: value, Reason: "required"}
	}
	return value, nil
}

// exact rejects a blank value but keeps a non-blank one as typed.
func exact(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", &ValidationError{Field: field, Value: value, Reason: "required"}
	}
	return value, nil
}

func parseInt(field, value string, minValue, maxValue int) (int, error) {
	value = strings.TrimSpace(value)
	n, err := strconv.Atoi(value)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, &ValidationError{Field: field, Value: value, Reason: "must be at most " + strconv.Itoa(maxValue)}
		}
		return 0, &ValidationError{Field: field, Value: value, Reason: "not a whole number"}
	}
	if n < minValue {
		return 0, &ValidationError{Field: field, Value: value, Reason: "must be at least " + strconv.Itoa(minValue)}
	}
	if n > maxValue {
		return 0, &ValidationError{Field: field, Value: value, Reason: "must be at most " + strconv.Itoa(maxValue)}
	}
	return n, nil
}

func parseFloat(field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ValidationError{Field: field, Value: value, Reason: "not a number"}
	}
	if f < 0 {
		return 0, &ValidationError{Field: field, Value: value, Reason: "must not be negative"}
	}
	return f, nil
}

func optionalInt(field, value string, current, maxValue int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return current, nil
	}
	return parseInt(field, value, 0, maxValue)
}

func optionalFloat(field, value string, current float64) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return current, nil
	}
	return parseFloat(field, value)
}
