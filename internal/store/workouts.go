package store

import (
	"context"
	"fmt"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// LogWorkout appends a workout entry stamped with the store clock.
func (s *Store) LogWorkout(ctx context.Context, params LogWorkoutParams) (_ *WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", params.UserID),
		attribute.String("exercise", params.ExerciseLabel),
		attribute.Int("duration", params.DurationSeconds),
	)

	if err := params.validate(); err != nil {
		return nil, err
	}

	entry := WorkoutEntry{
		UserID:          params.UserID,
		Timestamp:       s.Now(),
		ExerciseLabel:   params.ExerciseLabel,
		DurationSeconds: params.DurationSeconds,
		Details:         params.details(),
	}

	err = s.db.QueryRow(
		ctx,
		`INSERT INTO workouts (user_id, created_at, exercise_label, duration_seconds, details)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		entry.UserID, entry.Timestamp, entry.ExerciseLabel, entry.DurationSeconds, entry.Details,
	).Scan(&entry.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		if pkg.IsCheckViolationError(err) {
			return nil, ErrInvalidEntry
		}
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", entry.ID))
	return &entry, nil
}

// StreakDays counts the distinct calendar dates with at least one workout.
// It is a cumulative active days counter, not a run of consecutive days.
func (s *Store) StreakDays(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.streakdays")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var days int
	err = s.db.QueryRow(
		ctx,
		`SELECT COUNT(DISTINCT created_at::date) FROM workouts WHERE user_id = $1;`,
		userID,
	).Scan(&days)
	if err != nil {
		return 0, fmt.Errorf("count active days: %w", err)
	}
	return days, nil
}

// WorkoutHistory returns up to limit workouts, most recently created first.
func (s *Store) WorkoutHistory(ctx context.Context, userID, limit int) (_ []WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	limit = historyLimit(limit)
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("limit", limit))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, user_id, created_at, exercise_label, duration_seconds, details
			FROM workouts
			WHERE user_id = $1
			ORDER BY id DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	workouts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (WorkoutEntry, error) {
		var w WorkoutEntry
		if err := row.Scan(&w.ID, &w.UserID, &w.Timestamp, &w.ExerciseLabel, &w.DurationSeconds, &w.Details); err != nil {
			return w, err
		}
		w.Timestamp = asLocal(w.Timestamp)
		return w, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect workouts: %w", err)
	}

	if workouts == nil {
		workouts = make([]WorkoutEntry, 0)
	}
	return workouts, nil
}

// WorkoutDurations returns the durations of all workouts of the user, unordered.
func (s *Store) WorkoutDurations(ctx context.Context, userID int) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.durations")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := s.db.Query(ctx, `SELECT duration_seconds FROM workouts WHERE user_id = $1;`, userID)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	durations, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("collect durations: %w", err)
	}

	if durations == nil {
		durations = make([]int, 0)
	}
	return durations, nil
}
