package store

import (
	"context"
	"strings"
	"sync"
	"time"
)

// TestStore is an in-memory store with the same semantics as Store.
// It backs the "memory" store backend and unit tests.
type TestStore struct {
	mu       sync.RWMutex
	users    map[int]User
	workouts []WorkoutEntry
	meals    []MealEntry

	nextUserID    int
	nextWorkoutID int
	nextMealID    int

	// Now is the store clock; workout timestamps and meal dates come from it.
	Now func() time.Time
}

func NewTestStore() *TestStore {
	return &TestStore{
		users:         make(map[int]User),
		nextUserID:    1,
		nextWorkoutID: 1,
		nextMealID:    1,
		Now:           time.Now,
	}
}

func (s *TestStore) Init(context.Context) error {
	return nil
}

func (s *TestStore) Register(_ context.Context, params RegisterParams) (bool, error) {
	if strings.TrimSpace(params.Handle) == "" {
		return false, ErrHandleMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Handle == params.Handle {
			return false, nil
		}
	}

	id := s.nextUserID
	s.nextUserID++
	s.users[id] = User{
		ID:         id,
		Handle:     params.Handle,
		Credential: params.Credential,
		Name:       params.Name,
		Age:        params.Age,
		Height:     params.Height,
		Weight:     params.Weight,
		GoalWeight: params.GoalWeight,
	}
	return true, nil
}

func (s *TestStore) Authenticate(_ context.Context, handle, credential string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Handle == handle && u.Credential == credential {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *TestStore) GetUser(_ context.Context, id int) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *TestStore) UpdateProfile(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}

	existing.Name = user.Name
	existing.Age = user.Age
	existing.Height = user.Height
	existing.Weight = user.Weight
	existing.GoalWeight = user.GoalWeight
	s.users[user.ID] = existing
	return nil
}

func (s *TestStore) LogWorkout(_ context.Context, params LogWorkoutParams) (*WorkoutEntry, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[params.UserID]; !ok {
		return nil, ErrUserNotFound
	}

	entry := WorkoutEntry{
		ID:              s.nextWorkoutID,
		UserID:          params.UserID,
		Timestamp:       s.Now(),
		ExerciseLabel:   params.ExerciseLabel,
		DurationSeconds: params.DurationSeconds,
		Details:         params.details(),
	}
	s.nextWorkoutID++
	s.workouts = append(s.workouts, entry)
	return &entry, nil
}

func (s *TestStore) StreakDays(_ context.Context, userID int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make(map[time.Time]struct{})
	for _, w := range s.workouts {
		if w.UserID == userID {
			days[dateOf(w.Timestamp)] = struct{}{}
		}
	}
	return len(days), nil
}

func (s *TestStore) WorkoutHistory(_ context.Context, userID, limit int) ([]WorkoutEntry, error) {
	limit = historyLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]WorkoutEntry, 0)
	for i := len(s.workouts) - 1; i >= 0 && len(history) < limit; i-- {
		if s.workouts[i].UserID == userID {
			history = append(history, s.workouts[i])
		}
	}
	return history, nil
}

func (s *TestStore) WorkoutDurations(_ context.Context, userID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	durations := make([]int, 0)
	for _, w := range s.workouts {
		if w.UserID == userID {
			durations = append(durations, w.DurationSeconds)
		}
	}
	return durations, nil
}

func (s *TestStore) LogMeal(_ context.Context, params LogMealParams) (*MealEntry, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[params.UserID]; !ok {
		return nil, ErrUserNotFound
	}

	meal := MealEntry{
		ID:       s.nextMealID,
		UserID:   params.UserID,
		Date:     dateOf(s.Now()),
		FoodName: params.FoodName,
		Protein:  params.Protein,
		Calories: params.Calories,
	}
	s.nextMealID++
	s.meals = append(s.meals, meal)
	return &meal, nil
}

func (s *TestStore) DeleteMeal(_ context.Context, mealID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.meals {
		if m.ID == mealID {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *TestStore) TodayProteinTotal(ctx context.Context, userID int) (float64, error) {
	meals, err := s.TodayMeals(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, m := range meals {
		total += m.Protein
	}
	return total, nil
}

func (s *TestStore) TodayMeals(_ context.Context, userID int) ([]MealEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := dateOf(s.Now())
	meals := make([]MealEntry, 0)
	for _, m := range s.meals {
		if m.UserID == userID && m.Date.Equal(today) {
			meals = append(meals, m)
		}
	}
	return meals, nil
}
