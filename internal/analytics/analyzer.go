package analytics

import (
	"context"
	"time"

	"github.com/2beens/fitpulse/internal/store"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=analytics_test

type statsRepo interface {
	StreakDays(ctx context.Context, userID int) (int, error)
	TodayProteinTotal(ctx context.Context, userID int) (float64, error)
	TodayMeals(ctx context.Context, userID int) ([]store.MealEntry, error)
	WorkoutHistory(ctx context.Context, userID, limit int) ([]store.WorkoutEntry, error)
	WorkoutDurations(ctx context.Context, userID int) ([]int, error)
}

// HistoryRow is a workout entry prepared for the history table.
type HistoryRow struct {
	ID           int       `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Exercise     string    `json:"exercise"`
	Duration     string    `json:"duration"`
	DurationSecs int       `json:"durationSeconds"`
	Details      string    `json:"details"`
}

type Stats struct {
	StreakDays     int          `json:"streakDays"`
	Score          int          `json:"score"`
	TodayProtein   float64      `json:"todayProtein"`
	LongestWorkout int          `json:"longestWorkout"`
	History        []HistoryRow `json:"history"`
}

type Profile struct {
	User        store.User `json:"user"`
	BMI         float64    `json:"bmi"`
	BMIClass    BMIClass   `json:"bmiClass"`
	ProteinGoal int        `json:"proteinGoal"`
	StreakDays  int        `json:"streakDays"`
}

type Nutrition struct {
	Goal     int               `json:"goal"`
	Consumed float64           `json:"consumed"`
	Percent  int               `json:"percent"`
	Meals    []store.MealEntry `json:"meals"`
}

type Analyzer struct {
	repo statsRepo
}

func NewAnalyzer(repo statsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Stats gathers the statistics screen: active days, score, today's protein,
// the longest workout and the most recent history rows.
func (a *Analyzer) Stats(ctx context.Context, userID int) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	days, err := a.repo.StreakDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	protein, err := a.repo.TodayProteinTotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	durations, err := a.repo.WorkoutDurations(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := a.repo.WorkoutHistory(ctx, userID, store.DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	rows := make([]HistoryRow, 0, len(history))
	for _, w := range history {
		rows = append(rows, HistoryRow{
			ID:           w.ID,
			Timestamp:    w.Timestamp,
			Exercise:     w.ExerciseLabel,
			Duration:     FormatDuration(w.DurationSeconds),
			DurationSecs: w.DurationSeconds,
			Details:      w.Details,
		})
	}

	return &Stats{
		StreakDays:     days,
		Score:          RecursiveStreakScore(days),
		TodayProtein:   protein,
		LongestWorkout: LongestWorkoutDuration(durations),
		History:        rows,
	}, nil
}

func (a *Analyzer) Profile(ctx context.Context, user store.User) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", user.ID))

	days, err := a.repo.StreakDays(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	bmi := BMI(user.Weight, user.Height)
	return &Profile{
		User:        user,
		BMI:         bmi,
		BMIClass:    ClassifyBMI(bmi),
		ProteinGoal: ProteinGoal(user.Weight),
		StreakDays:  days,
	}, nil
}

// TodayNutrition compares today's protein intake with the user's goal.
func (a *Analyzer) TodayNutrition(ctx context.Context, user store.User) (_ *Nutrition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.nutrition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", user.ID))

	meals, err := a.repo.TodayMeals(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var consumed float64
	for _, m := range meals {
		consumed += m.Protein
	}

	goal := ProteinGoal(user.Weight)
	return &Nutrition{
		Goal:     goal,
		Consumed: consumed,
		Percent:  ProteinProgressPercent(consumed, goal),
		Meals:    meals,
	}, nil
}
