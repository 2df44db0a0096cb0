package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/2beens/fitpulse/internal/store"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fitnessStore interface {
	Register(ctx context.Context, params store.RegisterParams) (bool, error)
	Authenticate(ctx context.Context, handle, credential string) (*store.User, error)
	GetUser(ctx context.Context, id int) (*store.User, error)
	UpdateProfile(ctx context.Context, user store.User) error
	LogWorkout(ctx context.Context, params store.LogWorkoutParams) (*store.WorkoutEntry, error)
	StreakDays(ctx context.Context, userID int) (int, error)
	WorkoutHistory(ctx context.Context, userID, limit int) ([]store.WorkoutEntry, error)
	WorkoutDurations(ctx context.Context, userID int) ([]int, error)
	LogMeal(ctx context.Context, params store.LogMealParams) (*store.MealEntry, error)
	DeleteMeal(ctx context.Context, mealID int) error
	TodayProteinTotal(ctx context.Context, userID int) (float64, error)
	TodayMeals(ctx context.Context, userID int) ([]store.MealEntry, error)
}

// storeFactory returns an empty store and a setter for its clock.
type storeFactory func(t *testing.T) (fitnessStore, func(now func() time.Time))

func randomRegisterParams() store.RegisterParams {
	return store.RegisterParams{
		Handle:     gofakeit.Username() + gofakeit.DigitN(6),
		Credential: gofakeit.Password(true, true, true, false, false, 12),
		Name:       gofakeit.Name(),
		Age:        gofakeit.Number(18, 80),
		Height:     float64(gofakeit.Number(150, 200)),
		Weight:     float64(gofakeit.Number(50, 120)),
		GoalWeight: float64(gofakeit.Number(50, 120)),
	}
}

func registerUser(t *testing.T, s fitnessStore) *store.User {
	t.Helper()
	ctx := context.Background()

	params := randomRegisterParams()
	ok, err := s.Register(ctx, params)
	require.NoError(t, err)
	require.True(t, ok)

	user, err := s.Authenticate(ctx, params.Handle, params.Credential)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func runStoreContract(t *testing.T, newStore storeFactory) {
	t.Run("register and authenticate", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		params := randomRegisterParams()
		ok, err := s.Register(ctx, params)
		require.NoError(t, err)
		assert.True(t, ok)

		user, err := s.Authenticate(ctx, params.Handle, params.Credential)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Positive(t, user.ID)
		assert.Equal(t, params.Handle, user.Handle)
		assert.Equal(t, params.Name, user.Name)
		assert.Equal(t, params.Age, user.Age)
		assert.Equal(t, params.Weight, user.Weight)

		_, err = s.Authenticate(ctx, params.Handle, params.Credential+"x")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.Authenticate(ctx, "nobody-"+params.Handle, params.Credential)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("register duplicate handle", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		params := randomRegisterParams()
		ok, err := s.Register(ctx, params)
		require.NoError(t, err)
		require.True(t, ok)

		params.Credential = "other"
		ok, err = s.Register(ctx, params)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("register empty handle", func(t *testing.T) {
		s, _ := newStore(t)
		ok, err := s.Register(context.Background(), store.RegisterParams{Handle: "  "})
		assert.ErrorIs(t, err, store.ErrHandleMissing)
		assert.False(t, ok)
	})

	t.Run("update profile", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)

		user.Name = "Updated"
		user.Age = 41
		user.Height = 181.5
		user.Weight = 88.2
		user.GoalWeight = 80
		require.NoError(t, s.UpdateProfile(ctx, *user))

		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Name)
		assert.Equal(t, 41, got.Age)
		assert.InDelta(t, 181.5, got.Height, 0.001)
		assert.InDelta(t, 88.2, got.Weight, 0.001)
		assert.InDelta(t, 80, got.GoalWeight, 0.001)
		assert.Equal(t, user.Handle, got.Handle)

		err = s.UpdateProfile(ctx, store.User{ID: user.ID + 1000})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.GetUser(ctx, user.ID+1000)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("workouts history and durations", func(t *testing.T) {
		s, setNow := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)
		other := registerUser(t, s)

		day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
		setNow(func() time.Time { return day })

		first, err := s.LogWorkout(ctx, store.LogWorkoutParams{
			UserID:          user.ID,
			ExerciseLabel:   "Legs: Barbell Squats",
			DurationSeconds: 60,
			Details:         "Timer Session - Sets: 1, Reps: 10",
		})
		require.NoError(t, err)
		assert.Equal(t, "Timer Session - Sets: 1, Reps: 10", first.Details)

		second, err := s.LogWorkout(ctx, store.LogWorkoutParams{
			UserID:          user.ID,
			ExerciseLabel:   "Cardio: Cycling",
			DurationSeconds: 1800,
		})
		require.NoError(t, err)
		assert.Equal(t, store.DefaultWorkoutDetails, second.Details)
		assert.Greater(t, second.ID, first.ID)

		_, err = s.LogWorkout(ctx, store.LogWorkoutParams{
			UserID:          other.ID,
			ExerciseLabel:   "Abs: Plank",
			DurationSeconds: 30,
		})
		require.NoError(t, err)

		history, err := s.WorkoutHistory(ctx, user.ID, 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, second.ID, history[0].ID)
		assert.Equal(t, first.ID, history[1].ID)
		assert.Equal(t, "Legs: Barbell Squats", history[1].ExerciseLabel)
		assert.True(t, day.Equal(history[1].Timestamp))

		history, err = s.WorkoutHistory(ctx, user.ID, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, second.ID, history[0].ID)

		durations, err := s.WorkoutDurations(ctx, user.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{60, 1800}, durations)
	})

	t.Run("workout validation", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)

		_, err := s.LogWorkout(ctx, store.LogWorkoutParams{UserID: user.ID, ExerciseLabel: "x", DurationSeconds: -1})
		assert.ErrorIs(t, err, store.ErrInvalidEntry)

		_, err = s.LogWorkout(ctx, store.LogWorkoutParams{UserID: user.ID + 1000, ExerciseLabel: "x", DurationSeconds: 1})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("empty history", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)

		history, err := s.WorkoutHistory(ctx, user.ID, 50)
		require.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)

		durations, err := s.WorkoutDurations(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, durations)

		days, err := s.StreakDays(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, days)
	})

	t.Run("streak days counts distinct dates", func(t *testing.T) {
		s, setNow := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)

		times := []time.Time{
			time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local),
			time.Date(2024, 3, 1, 19, 30, 0, 0, time.Local),
			time.Date(2024, 3, 4, 7, 0, 0, 0, time.Local),
			time.Date(2024, 3, 9, 23, 59, 0, 0, time.Local),
		}
		for _, ts := range times {
			setNow(func() time.Time { return ts })
			_, err := s.LogWorkout(ctx, store.LogWorkoutParams{
				UserID:          user.ID,
				ExerciseLabel:   "Back: Deadlift",
				DurationSeconds: 10,
			})
			require.NoError(t, err)
		}

		days, err := s.StreakDays(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("meals today", func(t *testing.T) {
		s, setNow := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)

		yesterday := time.Date(2024, 5, 1, 20, 0, 0, 0, time.Local)
		today := time.Date(2024, 5, 2, 8, 0, 0, 0, time.Local)

		setNow(func() time.Time { return yesterday })
		_, err := s.LogMeal(ctx, store.LogMealParams{UserID: user.ID, FoodName: "Oats (Raw)", Protein: 13, Calories: 389})
		require.NoError(t, err)

		setNow(func() time.Time { return today })
		m1, err := s.LogMeal(ctx, store.LogMealParams{UserID: user.ID, FoodName: "Chicken Breast (Cooked)", Protein: 62, Calories: 330})
		require.NoError(t, err)
		m2, err := s.LogMeal(ctx, store.LogMealParams{UserID: user.ID, FoodName: "Banana", Protein: 1.1, Calories: 89})
		require.NoError(t, err)

		meals, err := s.TodayMeals(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, meals, 2)
		assert.Equal(t, m1.ID, meals[0].ID)
		assert.Equal(t, m2.ID, meals[1].ID)
		assert.Equal(t, "Banana", meals[1].FoodName)

		total, err := s.TodayProteinTotal(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, 63.1, total, 0.001)

		require.NoError(t, s.DeleteMeal(ctx, m1.ID))
		require.NoError(t, s.DeleteMeal(ctx, m1.ID))

		total, err = s.TodayProteinTotal(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1.1, total, 0.001)
	})

	t.Run("meal validation", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		user := registerUser(t, s)

		_, err := s.LogMeal(ctx, store.LogMealParams{UserID: user.ID, FoodName: "Apple", Protein: -1})
		assert.ErrorIs(t, err, store.ErrInvalidEntry)

		_, err = s.LogMeal(ctx, store.LogMealParams{UserID: user.ID + 1000, FoodName: "Apple", Protein: 1})
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		total, err := s.TodayProteinTotal(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
