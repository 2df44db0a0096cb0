package engine

import (
	"context"
	"errors"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/internal/timer"

	log "github.com/sirupsen/logrus"
)

// timerFor returns the timer of the user, creating it on first use.
// Timers live until ReleaseTimer or Close.
func (e *Engine) timerFor(userID int) (*timer.Timer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, timer.ErrClosed
	}

	if t, ok := e.timers[userID]; ok {
		return t, nil
	}

	opts := append([]timer.Option{timer.WithOnComplete(e.onTimerComplete)}, e.timerOpts...)
	t := timer.New(e.store, opts...)
	e.timers[userID] = t
	return t, nil
}

func (e *Engine) onTimerComplete(res timer.Result) {
	finish := "complete"
	if res.Early {
		finish = "early"
	}
	e.metricsManager.CounterTimerSessions.WithLabelValues(finish).Inc()
	e.metricsManager.GaugeRunningTimers.Dec()

	if res.Err != nil {
		e.metricsManager.CounterStorageErrors.WithLabelValues("timer workout").Inc()
		return
	}
	e.metricsManager.CounterWorkouts.WithLabelValues("timer").Inc()
	e.metricsManager.HistogramSetDuration.Observe(float64(res.TimeSpent))
}

// StartTimer arms the session timer of the user with a planned set.
func (e *Engine) StartTimer(ctx context.Context, sess *Session, form TimerForm) (_ timer.Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engine.timer.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sess == nil {
		return timer.Progress{}, ErrNoSession
	}

	plan := timer.Plan{UserID: sess.User.ID}
	if plan.Category, err = required("category", form.Category); err != nil {
		return timer.Progress{}, err
	}
	if plan.Exercise, err = required("exercise", form.Exercise); err != nil {
		return timer.Progress{}, err
	}
	if plan.Sets, err = parseInt("sets", form.Sets, 1, maxCount); err != nil {
		return timer.Progress{}, err
	}
	if plan.Reps, err = parseInt("reps", form.Reps, 1, timer.MaxReps); err != nil {
		return timer.Progress{}, err
	}

	t, err := e.timerFor(sess.User.ID)
	if err != nil {
		return timer.Progress{}, err
	}

	if err := t.Start(ctx, plan); err != nil {
		if errors.Is(err, timer.ErrInvalidPlan) {
			return timer.Progress{}, &ValidationError{Field: "plan", Value: plan.Label(), Reason: err.Error()}
		}
		return timer.Progress{}, err
	}

	e.metricsManager.GaugeRunningTimers.Inc()
	return t.Snapshot(), nil
}

// FinishTimer finishes the running set early and records it.
func (e *Engine) FinishTimer(ctx context.Context, sess *Session) (_ *timer.Result, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "engine.timer.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sess == nil {
		return nil, ErrNoSession
	}

	t, err := e.timerFor(sess.User.ID)
	if err != nil {
		return nil, err
	}

	res, err := t.FinishEarly()
	if err != nil {
		if errors.Is(err, timer.ErrNotRunning) {
			return nil, err
		}
		log.Errorf("engine finish timer: %s", err)
		return res, &StorageError{Op: "timer workout", Err: res.Err}
	}

	return res, nil
}

func (e *Engine) TimerProgress(sess *Session) (timer.Progress, error) {
	if sess == nil {
		return timer.Progress{}, ErrNoSession
	}
	t, err := e.timerFor(sess.User.ID)
	if err != nil {
		return timer.Progress{}, err
	}
	return t.Snapshot(), nil
}

// SubscribeTimer streams the progress of the user's timer.
func (e *Engine) SubscribeTimer(sess *Session) (<-chan timer.Progress, func(), error) {
	if sess == nil {
		return nil, nil, ErrNoSession
	}
	t, err := e.timerFor(sess.User.ID)
	if err != nil {
		return nil, nil, err
	}
	updates, unsubscribe := t.Subscribe()
	return updates, unsubscribe, nil
}

// ReleaseTimer drops the timer of a user who logged out. A running set keeps its
// timer so it still completes and gets recorded.
func (e *Engine) ReleaseTimer(userID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[userID]
	if !ok || !t.CloseIfIdle() {
		return false
	}
	delete(e.timers, userID)
	return true
}

// Close stops every timer. Running sets are abandoned.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	timers := e.timers
	e.timers = make(map[int]*timer.Timer)
	e.mu.Unlock()

	for _, t := range timers {
		t.Close()
	}
	e.metricsManager.GaugeRunningTimers.Set(0)
}
