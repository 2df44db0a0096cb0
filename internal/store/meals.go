package store

import (
	"context"
	"fmt"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// LogMeal appends a meal dated to today, according to the store clock.
func (s *Store) LogMeal(ctx context.Context, params LogMealParams) (_ *MealEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.meals.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", params.UserID),
		attribute.String("food", params.FoodName),
	)

	if err := params.validate(); err != nil {
		return nil, err
	}

	meal := MealEntry{
		UserID:   params.UserID,
		Date:     dateOf(s.Now()),
		FoodName: params.FoodName,
		Protein:  params.Protein,
		Calories: params.Calories,
	}

	err = s.db.QueryRow(
		ctx,
		`INSERT INTO meals (user_id, date, food_name, protein, calories)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		meal.UserID, meal.Date, meal.FoodName, meal.Protein, meal.Calories,
	).Scan(&meal.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		if pkg.IsCheckViolationError(err) {
			return nil, ErrInvalidEntry
		}
		return nil, fmt.Errorf("insert meal: %w", err)
	}

	span.SetAttributes(attribute.Int("meal.id", meal.ID))
	return &meal, nil
}

// DeleteMeal removes the meal with the given id. Deleting a missing meal is not an error.
func (s *Store) DeleteMeal(ctx context.Context, mealID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.meals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("meal.id", mealID))

	tag, err := s.db.Exec(ctx, `DELETE FROM meals WHERE id = $1;`, mealID)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int64("deleted", tag.RowsAffected()))
	return nil
}

// TodayProteinTotal sums the protein of all meals logged today. 0 if there are none.
func (s *Store) TodayProteinTotal(ctx context.Context, userID int) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.meals.todayprotein")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var total float64
	err = s.db.QueryRow(
		ctx,
		`SELECT COALESCE(SUM(protein), 0) FROM meals WHERE user_id = $1 AND date = $2;`,
		userID, dateOf(s.Now()),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum protein: %w", err)
	}
	return total, nil
}

// TodayMeals returns the meals logged today, in insertion order.
func (s *Store) TodayMeals(ctx context.Context, userID int) (_ []MealEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.meals.today")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, user_id, date, food_name, protein, calories
			FROM meals
			WHERE user_id = $1 AND date = $2
			ORDER BY id;`,
		userID, dateOf(s.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	meals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MealEntry, error) {
		var m MealEntry
		if err := row.Scan(&m.ID, &m.UserID, &m.Date, &m.FoodName, &m.Protein, &m.Calories); err != nil {
			return m, err
		}
		m.Date = asLocal(m.Date)
		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect meals: %w", err)
	}

	if meals == nil {
		meals = make([]MealEntry, 0)
	}
	return meals, nil
}
