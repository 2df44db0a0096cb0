package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/fitpulse/internal/engine"
	"github.com/2beens/fitpulse/internal/middleware"
	"github.com/2beens/fitpulse/internal/timer"
	"github.com/2beens/fitpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=api_test

type sessionStore interface {
	Login(ctx context.Context, userID int) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	engine            *engine.Engine
	sessions          sessionStore
	versionInfo       string
	registerRateLimit func(http.Handler) http.Handler
}

func NewHandler(e *engine.Engine, sessions sessionStore, versionInfo string) *Handler {
	return &Handler{
		engine:      e,
		sessions:    sessions,
		versionInfo: versionInfo,
	}
}

// WithRegisterRateLimit wraps the registration route with the given limiter middleware.
func (handler *Handler) WithRegisterRateLimit(rateLimit func(http.Handler) http.Handler) *Handler {
	handler.registerRateLimit = rateLimit
	return handler
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/", handler.HandleRoot).Methods("GET").Name("root")

	var register http.Handler = http.HandlerFunc(handler.HandleRegister)
	if handler.registerRateLimit != nil {
		register = handler.registerRateLimit(register)
	}
	r.Handle("/register", register).Methods("POST", "OPTIONS").Name("register")
	r.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	r.HandleFunc("/profile", handler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", handler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")

	r.HandleFunc("/workouts", handler.HandleLogWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts", handler.HandleWorkoutHistory).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("stats")

	r.HandleFunc("/meals", handler.HandleLogMeal).Methods("POST", "OPTIONS").Name("new-meal")
	r.HandleFunc("/meals/today", handler.HandleTodayMeals).Methods("GET", "OPTIONS").Name("today-meals")
	r.HandleFunc("/meals/{id}", handler.HandleDeleteMeal).Methods("DELETE", "OPTIONS").Name("remove-meal")

	r.HandleFunc("/catalog/exercises", handler.HandleCategories).Methods("GET").Name("categories")
	r.HandleFunc("/catalog/exercises/{category}", handler.HandleExercises).Methods("GET").Name("exercises")
	r.HandleFunc("/catalog/foods", handler.HandleFoods).Methods("GET").Name("foods")
	r.HandleFunc("/catalog/foods/{name}", handler.HandleFood).Methods("GET").Name("food")

	r.HandleFunc("/timer", handler.HandleTimerProgress).Methods("GET", "OPTIONS").Name("timer")
	r.HandleFunc("/timer/start", handler.HandleTimerStart).Methods("POST", "OPTIONS").Name("timer-start")
	r.HandleFunc("/timer/finish", handler.HandleTimerFinish).Methods("POST", "OPTIONS").Name("timer-finish")
	r.HandleFunc("/timer/stream", handler.HandleTimerStream).Methods("GET", "OPTIONS").Name("timer-stream")
}

func (handler *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponse(w, map[string]string{
		"service": "fitpulse",
		"version": handler.versionInfo,
	}, http.StatusOK)
}

// session loads the session of the user put in the request context by the auth middleware.
func (handler *Handler) session(r *http.Request) (*engine.Session, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil, engine.ErrNoSession
	}
	return handler.engine.SessionFor(r.Context(), userID)
}

// writeError maps engine errors to status codes. Storage failures are logged by the engine.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *engine.ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, engine.ErrNoSession):
		http.Error(w, "no can do", http.StatusUnauthorized)
	case errors.Is(err, engine.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, timer.ErrAlreadyRunning), errors.Is(err, timer.ErrNotRunning):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, timer.ErrClosed):
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
	default:
		log.Errorf("request failed: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		log.Errorf("%s %s: parse form: %s", r.Method, r.URL.Path, err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return false
	}
	return true
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	created, err := handler.engine.Register(r.Context(), engine.RegisterForm{
		Handle:     r.Form.Get("handle"),
		Credential: r.Form.Get("credential"),
		Name:       r.Form.Get("name"),
		Age:        r.Form.Get("age"),
		Height:     r.Form.Get("height"),
		Weight:     r.Form.Get("weight"),
		GoalWeight: r.Form.Get("goalWeight"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !created {
		http.Error(w, "handle taken", http.StatusConflict)
		return
	}

	log.Printf("new user registered: [%s]", r.Form.Get("handle"))
	pkg.WriteJSONResponse(w, map[string]bool{"created": true}, http.StatusCreated)
}

type loginResponse struct {
	Token   string         `json:"token"`
	Session engine.Session `json:"session"`
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	sess, err := handler.engine.Login(r.Context(), r.Form.Get("handle"), r.Form.Get("credential"))
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		writeError(w, err)
		return
	}

	token, err := handler.sessions.Login(r.Context(), sess.User.ID)
	if err != nil {
		log.Errorf("login user %d: %s", sess.User.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, loginResponse{Token: token, Session: *sess}, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.TokenHeader)
	loggedOut, err := handler.sessions.Logout(r.Context(), token)
	if err != nil {
		log.Errorf("logout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok && loggedOut {
		handler.engine.ReleaseTimer(userID)
	}
	pkg.WriteJSONResponse(w, map[string]bool{"loggedOut": loggedOut}, http.StatusOK)
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := handler.engine.Profile(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, profile, http.StatusOK)
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := handler.engine.UpdateProfile(r.Context(), sess, engine.ProfileForm{
		Name:       r.Form.Get("name"),
		Age:        r.Form.Get("age"),
		Height:     r.Form.Get("height"),
		Weight:     r.Form.Get("weight"),
		GoalWeight: r.Form.Get("goalWeight"),
	}); err != nil {
		writeError(w, err)
		return
	}

	profile, err := handler.engine.Profile(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, profile, http.StatusOK)
}

func (handler *Handler) HandleLogWorkout(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := handler.engine.LogWorkout(r.Context(), sess, engine.ManualWorkoutForm{
		Kind:     engine.WorkoutKind(r.Form.Get("kind")),
		Exercise: r.Form.Get("exercise"),
		Minutes:  r.Form.Get("minutes"),
		Sets:     r.Form.Get("sets"),
		Reps:     r.Form.Get("reps"),
		Steps:    r.Form.Get("steps"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, entry, http.StatusCreated)
}

func (handler *Handler) HandleWorkoutHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "error, limit invalid", http.StatusBadRequest)
			return
		}
	}

	history, err := handler.engine.WorkoutHistory(r.Context(), sess, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, map[string]any{
		"workouts": history,
		"total":    len(history),
	}, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := handler.engine.Stats(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, stats, http.StatusOK)
}

func (handler *Handler) HandleLogMeal(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	meal, err := handler.engine.LogMeal(r.Context(), sess, r.Form.Get("food"), r.Form.Get("grams"))
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, meal, http.StatusCreated)
}

func (handler *Handler) HandleTodayMeals(w http.ResponseWriter, r *http.Request) {
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	nutrition, err := handler.engine.TodayNutrition(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, nutrition, http.StatusOK)
}

func (handler *Handler) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := handler.engine.DeleteMeal(r.Context(), sess, id); err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("deleted:%d", id), http.StatusOK)
}

func (handler *Handler) HandleCategories(w http.ResponseWriter, _ *http.Request) {
	cat := handler.engine.Catalog()
	pkg.WriteJSONResponse(w, map[string]any{
		"categories": cat.Categories(),
		"gym":        cat.GymExercises(),
		"cardio":     cat.CardioExercises(),
	}, http.StatusOK)
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	cat := handler.engine.Catalog()
	pkg.WriteJSONResponse(w, map[string]any{
		"category":  category,
		"cardio":    cat.IsCardio(category),
		"exercises": cat.Exercises(category),
	}, http.StatusOK)
}

// HandleFoods lists every food, or the ones matching the q query param.
func (handler *Handler) HandleFoods(w http.ResponseWriter, r *http.Request) {
	cat := handler.engine.Catalog()
	var foods []string
	if q := r.URL.Query().Get("q"); q != "" {
		foods = cat.Search(q)
	} else {
		foods = cat.FoodNames()
	}
	pkg.WriteJSONResponse(w, map[string]any{
		"foods": foods,
		"total": len(foods),
	}, http.StatusOK)
}

func (handler *Handler) HandleFood(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	macros, err := handler.engine.Catalog().Food(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	pkg.WriteJSONResponse(w, macros, http.StatusOK)
}

func (handler *Handler) HandleTimerStart(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	progress, err := handler.engine.StartTimer(r.Context(), sess, engine.TimerForm{
		Category: r.Form.Get("category"),
		Exercise: r.Form.Get("exercise"),
		Sets:     r.Form.Get("sets"),
		Reps:     r.Form.Get("reps"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, progress, http.StatusOK)
}

func (handler *Handler) HandleTimerFinish(w http.ResponseWriter, r *http.Request) {
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := handler.engine.FinishTimer(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, res, http.StatusOK)
}

func (handler *Handler) HandleTimerProgress(w http.ResponseWriter, r *http.Request) {
	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	progress, err := handler.engine.TimerProgress(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSONResponse(w, progress, http.StatusOK)
}

// HandleTimerStream pushes timer progress as server-sent events until the
// client goes away or the timer is closed.
func (handler *Handler) HandleTimerStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sess, err := handler.session(r)
	if err != nil {
		writeError(w, err)
		return
	}

	updates, unsubscribe, err := handler.engine.SubscribeTimer(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case progress, open := <-updates:
			if !open {
				return
			}
			data, err := json.Marshal(progress)
			if err != nil {
				log.Errorf("marshal timer progress: %s", err)
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				log.Debugf("timer stream of user %d closed: %s", sess.User.ID, err)
				return
			}
			flusher.Flush()
		}
	}
}
