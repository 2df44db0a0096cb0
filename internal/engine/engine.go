package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/2beens/fitpulse/internal/analytics"
	"github.com/2beens/fitpulse/internal/catalog"
	"github.com/2beens/fitpulse/internal/store"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/internal/timer"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type fitnessStore interface {
	Register(ctx context.Context, params store.RegisterParams) (bool, error)
	Authenticate(ctx context.Context, handle, credential string) (*store.User, error)
	GetUser(ctx context.Context, id int) (*store.User, error)
	UpdateProfile(ctx context.Context, user store.User) error
	LogWorkout(ctx context.Context, params store.LogWorkoutParams) (*store.WorkoutEntry, error)
	LogMeal(ctx context.Context, params store.LogMealParams) (*store.MealEntry, error)
	DeleteMeal(ctx context.Context, mealID int) error
	StreakDays(ctx context.Context, userID int) (int, error)
	TodayProteinTotal(ctx context.Context, userID int) (float64, error)
	TodayMeals(ctx context.Context, userID int) ([]store.MealEntry, error)
	WorkoutHistory(ctx context.Context, userID, limit int) ([]store.WorkoutEntry, error)
	WorkoutDurations(ctx context.Context, userID int) ([]int, error)
}

// Session is the logged user. It replaces any process wide "current user":
// every operation receives the session it acts for.
type Session struct {
	User store.User `json:"user"`
}

// Engine ties the store, analytics, catalog and per user timers together.
type Engine struct {
	store          fitnessStore
	catalog        *catalog.Catalog
	analyzer       *analytics.Analyzer
	metricsManager *metrics.Manager
	timerOpts      []timer.Option

	mu     sync.Mutex
	timers map[int]*timer.Timer
	closed bool
}

func New(
	fitnessStore fitnessStore,
	cat *catalog.Catalog,
	metricsManager *metrics.Manager,
	timerOpts ...timer.Option,
) *Engine {
	return &Engine{
		store:          fitnessStore,
		catalog:        cat,
		analyzer:       analytics.NewAnalyzer(fitnessStore),
		metricsManager: metricsManager,
		timerOpts:      timerOpts,
		timers:         make(map[int]*timer.Timer),
	}
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) storageError(op string, err error) error {
	log.Errorf("engine %s: %s", op, err)
	e.metricsManager.CounterStorageErrors.WithLabelValues(op).Inc()
	return &StorageError{Op: op, Err: err}
}

// Register creates a user from the registration form.
// A taken handle gives false and no error.
func (e *Engine) Register(ctx context.Context, form RegisterForm) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	params, err := form.params()
	if err != nil {
		return false, err
	}

	created, err := e.store.Register(ctx, params)
	if err != nil {
		return false, e.storageError("register", err)
	}
	if !created {
		log.Debugf("register: handle [%s] taken", params.Handle)
		return false, nil
	}

	e.metricsManager.CounterRegistrations.Inc()
	return true, nil
}

func (f RegisterForm) params() (store.RegisterParams, error) {
	var (
		p   store.RegisterParams
		err error
	)
	if p.Handle, err = exact("handle", f.Handle); err != nil {
		return p, err
	}
	if p.Credential = f.Credential; p.Credential == "" {
		return p, &ValidationError{Field: "credential", Reason: "required"}
	}
	p.Name = strings.TrimSpace(f.Name)
	if p.Age, err = parseInt("age", f.Age, 0, maxAge); err != nil {
		return p, err
	}
	if p.Height, err = parseFloat("height", f.Height); err != nil {
		return p, err
	}
	if p.Weight, err = parseFloat("weight", f.Weight); err != nil {
		return p, err
	}
	if p.GoalWeight, err = parseFloat("goal weight", f.GoalWeight); err != nil {
		return p, err
	}
	return p, nil
}

// Login authenticates by exact handle and credential.
func (e *Engine) Login(ctx context.Context, handle, credential string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := e.store.Authenticate(ctx, handle, credential)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			e.metricsManager.CounterLogins.WithLabelValues("miss").Inc()
			return nil, ErrNotFound
		}
		e.metricsManager.CounterLogins.WithLabelValues("error").Inc()
		return nil, e.storageError("authenticate", err)
	}

	e.metricsManager.CounterLogins.WithLabelValues("ok").Inc()
	return &Session{User: *user}, nil
}

// SessionFor rebuilds the session of an already authenticated user.
func (e *Engine) SessionFor(ctx context.Context, userID int) (*Session, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, e.storageError("get user", err)
	}
	return &Session{User: *user}, nil
}

// UpdateProfile writes the profile form. The session is refreshed only after
// the store accepted the change.
func (e *Engine) UpdateProfile(ctx context.Context, sess *Session, form ProfileForm) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.profile.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sess == nil {
		return ErrNoSession
	}

	updated := sess.User
	if name := strings.TrimSpace(form.Name); name != "" {
		updated.Name = name
	}
	if updated.Age, err = optionalInt("age", form.Age, updated.Age, maxAge); err != nil {
		return err
	}
	if updated.Height, err = optionalFloat("height", form.Height, updated.Height); err != nil {
		return err
	}
	if updated.Weight, err = optionalFloat("weight", form.Weight, updated.Weight); err != nil {
		return err
	}
	if updated.GoalWeight, err = optionalFloat("goal weight", form.GoalWeight, updated.GoalWeight); err != nil {
		return err
	}

	if err := e.store.UpdateProfile(ctx, updated); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrNotFound
		}
		return e.storageError("update profile", err)
	}

	sess.User = updated
	return nil
}

// LogWorkout stores a manually entered workout.
func (e *Engine) LogWorkout(ctx context.Context, sess *Session, form ManualWorkoutForm) (_ *store.WorkoutEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.workout.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sess == nil {
		return nil, ErrNoSession
	}

	params, err := form.params(sess.User.ID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("kind", string(form.Kind)))

	entry, err := e.store.LogWorkout(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, store.ErrInvalidEntry) {
			return nil, &ValidationError{Field: "workout", Value: params.ExerciseLabel, Reason: "rejected by the store"}
		}
		return nil, e.storageError("log workout", err)
	}

	e.metricsManager.CounterWorkouts.WithLabelValues("manual").Inc()
	return entry, nil
}

func (f ManualWorkoutForm) params(userID int) (store.LogWorkoutParams, error) {
	p := store.LogWorkoutParams{UserID: userID}

	exercise, err := required("exercise", f.Exercise)
	if err != nil {
		return p, err
	}
	p.ExerciseLabel = exercise

	minutes, err := parseInt("minutes", f.Minutes, 0, maxMinutes)
	if err != nil {
		return p, err
	}
	p.DurationSeconds = minutes * 60

	switch f.Kind {
	case KindGym:
		sets, err := parseInt("sets", f.Sets, 0, maxCount)
		if err != nil {
			return p, err
		}
		reps, err := parseInt("reps", f.Reps, 0, maxCount)
		if err != nil {
			return p, err
		}
		p.Details = fmt.Sprintf("Sets: %d Reps: %d", sets, reps)
	case KindCardio:
		steps, err := parseInt("steps", f.Steps, 0, maxCount)
		if err != nil {
			return p, err
		}
		p.Details = fmt.Sprintf("Steps: %d", steps)
	case "":
		// quick log, the store fills in the default details
	default:
		return p, &ValidationError{Field: "kind", Value: string(f.Kind), Reason: "must be GYM or CARDIO"}
	}

	return p, nil
}

// LogMeal logs a portion of a catalog food, grams typed in by the user.
func (e *Engine) LogMeal(ctx context.Context, sess *Session, foodName, gramsText string) (_ *store.MealEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.meal.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sess == nil {
		return nil, ErrNoSession
	}

	grams, err := parseFloat("grams", gramsText)
	if err != nil {
		return nil, err
	}

	portion, err := e.catalog.Portion(foodName, grams)
	if err != nil {
		return nil, fmt.Errorf("food [%s]: %w", foodName, ErrNotFound)
	}

	meal, err := e.store.LogMeal(ctx, store.LogMealParams{
		UserID:   sess.User.ID,
		FoodName: foodName,
		Protein:  portion.Protein,
		Calories: portion.Calories,
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, store.ErrInvalidEntry) {
			return nil, &ValidationError{Field: "meal", Value: foodName, Reason: "rejected by the store"}
		}
		return nil, e.storageError("log meal", err)
	}

	e.metricsManager.CounterMeals.Inc()
	return meal, nil
}

// DeleteMeal removes a meal by id. A missing meal is not an error.
func (e *Engine) DeleteMeal(ctx context.Context, sess *Session, mealID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.meal.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sess == nil {
		return ErrNoSession
	}

	if err := e.store.DeleteMeal(ctx, mealID); err != nil {
		return e.storageError("delete meal", err)
	}

	e.metricsManager.CounterMealsDeleted.Inc()
	return nil
}

func (e *Engine) WorkoutHistory(ctx context.Context, sess *Session, limit int) ([]store.WorkoutEntry, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	history, err := e.store.WorkoutHistory(ctx, sess.User.ID, limit)
	if err != nil {
		return nil, e.storageError("workout history", err)
	}
	return history, nil
}

func (e *Engine) Stats(ctx context.Context, sess *Session) (*analytics.Stats, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	stats, err := e.analyzer.Stats(ctx, sess.User.ID)
	if err != nil {
		return nil, e.storageError("stats", err)
	}
	return stats, nil
}

func (e *Engine) Profile(ctx context.Context, sess *Session) (*analytics.Profile, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	profile, err := e.analyzer.Profile(ctx, sess.User)
	if err != nil {
		return nil, e.storageError("profile", err)
	}
	return profile, nil
}

func (e *Engine) TodayNutrition(ctx context.Context, sess *Session) (*analytics.Nutrition, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	nutrition, err := e.analyzer.TodayNutrition(ctx, sess.User)
	if err != nil {
		return nil, e.storageError("today nutrition", err)
	}
	return nutrition, nil
}
