package analytics

import (
	"fmt"

	"github.com/2beens/fitpulse/internal/store"
)

// PointsPerActiveDay is what every active day adds to the streak score.
const PointsPerActiveDay = 10

type BMIClass string

const (
	Underweight BMIClass = "Underweight"
	Healthy     BMIClass = "Healthy"
	Overweight  BMIClass = "Overweight"
)

// ProteinGoal is the daily protein target in grams for the given body weight (kg).
func ProteinGoal(weight float64) int {
	return store.User{Weight: weight}.ProteinGoal()
}

// BMI returns weight / (height in meters)^2, or 0 if height is not positive.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// ClassifyBMI applies the bands < 18.5, < 24.9 and the rest. 24.9 itself is Overweight.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 24.9:
		return Healthy
	default:
		return Overweight
	}
}

// RecursiveStreakScore is defined as 0 for days <= 0, else 10 + score(days-1).
// Evaluated iteratively so large day counts cannot exhaust the stack.
func RecursiveStreakScore(days int) int {
	score := 0
	for d := days; d > 0; d-- {
		score += PointsPerActiveDay
	}
	return score
}

// LongestWorkoutDuration returns the maximum duration, 0 for no durations.
func LongestWorkoutDuration(durations []int) int {
	longest := 0
	for i, d := range durations {
		if i == 0 || d > longest {
			longest = d
		}
	}
	return longest
}

// ProteinProgressPercent is the share of the goal consumed, truncated and capped at 100.
func ProteinProgressPercent(consumed float64, goal int) int {
	if goal <= 0 {
		return 0
	}
	percent := int(consumed / float64(goal) * 100)
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
