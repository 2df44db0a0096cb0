//go:build integration_test || all_tests

package test

import (
	"net/http"
	"net/url"
	"time"
)

func (s *IntegrationTestSuite) TestRegisterLoginLogout() {
	login := s.registerAndLogin("serj", "secret")
	s.Equal("serj", login.Session.User.Handle)

	// second registration with the same handle
	status, _ := s.do(http.MethodPost, "/register", "", url.Values{
		"handle":     {"serj"},
		"credential": {"other"},
		"age":        {"30"},
		"height":     {"180"},
		"weight":     {"90"},
		"goalWeight": {"85"},
	})
	s.Equal(http.StatusConflict, status)

	status, _ = s.do(http.MethodPost, "/login", "", url.Values{
		"handle":     {"serj"},
		"credential": {"wrong"},
	})
	s.Equal(http.StatusUnauthorized, status)

	var profile struct {
		ProteinGoal int    `json:"proteinGoal"`
		BMIClass    string `json:"bmiClass"`
	}
	s.doJSON(http.MethodGet, "/profile", login.Token, nil, http.StatusOK, &profile)
	s.Equal(144, profile.ProteinGoal)
	s.Equal("Overweight", profile.BMIClass)

	var logout map[string]bool
	s.doJSON(http.MethodPost, "/logout", login.Token, nil, http.StatusOK, &logout)
	s.True(logout["loggedOut"])

	status, _ = s.do(http.MethodGet, "/profile", login.Token, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestWorkoutsAndStats() {
	login := s.registerAndLogin("runner", "pass")

	s.doJSON(http.MethodPost, "/workouts", login.Token, url.Values{
		"kind":     {"GYM"},
		"exercise": {"Bench Press"},
		"minutes":  {"15"},
		"sets":     {"4"},
		"reps":     {"8"},
	}, http.StatusCreated, nil)
	s.doJSON(http.MethodPost, "/workouts", login.Token, url.Values{
		"kind":     {"CARDIO"},
		"exercise": {"Running"},
		"minutes":  {"30"},
		"steps":    {"5200"},
	}, http.StatusCreated, nil)

	status, _ := s.do(http.MethodPost, "/workouts", login.Token, url.Values{
		"kind":     {"YOGA"},
		"exercise": {"Sun Salutation"},
		"minutes":  {"10"},
	})
	s.Equal(http.StatusBadRequest, status)

	var history struct {
		Total    int `json:"total"`
		Workouts []struct {
			ExerciseLabel   string `json:"exerciseLabel"`
			DurationSeconds int    `json:"durationSeconds"`
			Details         string `json:"details"`
		} `json:"workouts"`
	}
	s.doJSON(http.MethodGet, "/workouts?limit=10", login.Token, nil, http.StatusOK, &history)
	s.Require().Equal(2, history.Total)
	// newest first
	s.Equal(1800, history.Workouts[0].DurationSeconds)
	s.Equal("Steps: 5200", history.Workouts[0].Details)
	s.Equal("Sets: 4 Reps: 8", history.Workouts[1].Details)

	var stats struct {
		StreakDays     int `json:"streakDays"`
		Score          int `json:"score"`
		LongestWorkout int `json:"longestWorkout"`
	}
	s.doJSON(http.MethodGet, "/stats", login.Token, nil, http.StatusOK, &stats)
	s.Equal(1, stats.StreakDays)
	s.Equal(10, stats.Score)
	s.Equal(1800, stats.LongestWorkout)
}

func (s *IntegrationTestSuite) TestMeals() {
	login := s.registerAndLogin("eater", "pass")

	var meal struct {
		ID       int     `json:"id"`
		Protein  float64 `json:"protein"`
		Calories float64 `json:"calories"`
	}
	s.doJSON(http.MethodPost, "/meals", login.Token, url.Values{
		"food":  {"Chicken Breast (Cooked)"},
		"grams": {"200"},
	}, http.StatusCreated, &meal)
	s.InDelta(62, meal.Protein, 0.001)
	s.InDelta(330, meal.Calories, 0.001)

	status, _ := s.do(http.MethodPost, "/meals", login.Token, url.Values{
		"food":  {"Dragon Fruit Steak"},
		"grams": {"100"},
	})
	s.Equal(http.StatusNotFound, status)

	var nutrition struct {
		Goal     int     `json:"goal"`
		Consumed float64 `json:"consumed"`
		Percent  int     `json:"percent"`
	}
	s.doJSON(http.MethodGet, "/meals/today", login.Token, nil, http.StatusOK, &nutrition)
	s.Equal(144, nutrition.Goal)
	s.InDelta(62, nutrition.Consumed, 0.001)
	s.Equal(43, nutrition.Percent)

	status, body := s.do(http.MethodDelete, "/meals/"+itoa(meal.ID), login.Token, nil)
	s.Equal(http.StatusOK, status)
	s.Equal("deleted:"+itoa(meal.ID), string(body))

	s.doJSON(http.MethodGet, "/meals/today", login.Token, nil, http.StatusOK, &nutrition)
	s.Zero(nutrition.Consumed)
}

func (s *IntegrationTestSuite) TestTimerSession() {
	login := s.registerAndLogin("lifter", "pass")

	var progress struct {
		SessionID string `json:"sessionId"`
		State     string `json:"state"`
		Total     int    `json:"total"`
	}
	s.doJSON(http.MethodPost, "/timer/start", login.Token, url.Values{
		"category": {"Legs"},
		"exercise": {"Lunges"},
		"sets":     {"3"},
		"reps":     {"10"},
	}, http.StatusOK, &progress)
	s.Equal("RUNNING", progress.State)
	s.Equal(60, progress.Total)
	s.NotEmpty(progress.SessionID)

	status, _ := s.do(http.MethodPost, "/timer/start", login.Token, url.Values{
		"category": {"Legs"},
		"exercise": {"Lunges"},
		"sets":     {"3"},
		"reps":     {"10"},
	})
	s.Equal(http.StatusConflict, status)

	// let a few ticks pass
	time.Sleep(50 * time.Millisecond)

	var result struct {
		Early bool `json:"early"`
		Entry struct {
			ExerciseLabel string `json:"exerciseLabel"`
			Details       string `json:"details"`
		} `json:"entry"`
	}
	s.doJSON(http.MethodPost, "/timer/finish", login.Token, nil, http.StatusOK, &result)
	s.True(result.Early)
	s.Equal("Legs: Lunges", result.Entry.ExerciseLabel)
	s.Equal("Timer Session - Sets: 3, Reps: 10", result.Entry.Details)

	status, _ = s.do(http.MethodPost, "/timer/finish", login.Token, nil)
	s.Equal(http.StatusConflict, status)

	var history struct {
		Total int `json:"total"`
	}
	s.doJSON(http.MethodGet, "/workouts", login.Token, nil, http.StatusOK, &history)
	s.Equal(1, history.Total)
}
