package timer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/2beens/fitpulse/internal/store"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// SecondsPerRep is the fixed duration estimate of a single repetition.
const SecondsPerRep = 6

// MaxReps keeps the planned duration of a set inside a 32-bit second count.
const MaxReps = math.MaxInt32 / SecondsPerRep

const (
	defaultTickInterval = time.Second
	subscriberBuffer    = 16
)

var (
	ErrAlreadyRunning = errors.New("timer session already running")
	ErrNotRunning     = errors.New("no timer session running")
	ErrInvalidPlan    = errors.New("sets and reps must be at least 1, reps at most 357913941")
	ErrClosed         = errors.New("timer closed")
)

type State string

const (
	StateIdle     State = "IDLE"
	StateRunning  State = "RUNNING"
	StateComplete State = "COMPLETE"
)

// Plan is one planned set.
type Plan struct {
	UserID   int    `json:"userId"`
	Category string `json:"category"`
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
}

func (p Plan) Label() string {
	return p.Category + ": " + p.Exercise
}

func (p Plan) Details() string {
	return fmt.Sprintf("Timer Session - Sets: %d, Reps: %d", p.Sets, p.Reps)
}

func (p Plan) TotalSeconds() int {
	return p.Reps * SecondsPerRep
}

// Progress is an observable snapshot of the timer.
type Progress struct {
	SessionID string `json:"sessionId,omitempty"`
	State     State  `json:"state"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
	Elapsed   int    `json:"elapsed"`
}

// Result describes a completed session and the workout recorded for it.
type Result struct {
	SessionID string              `json:"sessionId"`
	Plan      Plan                `json:"plan"`
	TimeSpent int                 `json:"timeSpent"`
	Early     bool                `json:"early"`
	Entry     *store.WorkoutEntry `json:"entry,omitempty"`
	Err       error               `json:"-"`
}

type Recorder interface {
	LogWorkout(ctx context.Context, params store.LogWorkoutParams) (*store.WorkoutEntry, error)
}

type Option func(*Timer)

// WithTickInterval sets the period of the internal tick source.
func WithTickInterval(interval time.Duration) Option {
	return func(t *Timer) {
		t.interval = interval
	}
}

// WithManualTicks disables the internal tick source; the caller drives the timer via Tick.
func WithManualTicks() Option {
	return func(t *Timer) {
		t.manual = true
	}
}

// WithOnComplete registers a callback invoked once per completed session, after recording.
func WithOnComplete(fn func(Result)) Option {
	return func(t *Timer) {
		t.onComplete = fn
	}
}

// Timer is a single session state machine: IDLE -> RUNNING -> COMPLETE -> IDLE.
// Ticks and finishes are serialized, so every armed session completes exactly once.
type Timer struct {
	recorder   Recorder
	interval   time.Duration
	manual     bool
	onComplete func(Result)

	mu        sync.Mutex
	state     State
	plan      Plan
	sessionID string
	total     int
	remaining int
	// generation changes on every start; a tick carrying an old generation is stale
	generation  uint64
	recordCtx   context.Context
	stopTicker  chan struct{}
	subscribers map[int]chan Progress
	nextSubID   int
	closed      bool

	wg sync.WaitGroup
}

func New(recorder Recorder, opts ...Option) *Timer {
	t := &Timer{
		recorder:    recorder,
		interval:    defaultTickInterval,
		state:       StateIdle,
		subscribers: make(map[int]chan Progress),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start arms a new session. Starting while a session runs changes nothing.
func (t *Timer) Start(ctx context.Context, plan Plan) error {
	if plan.Sets < 1 || plan.Reps < 1 || plan.Reps > MaxReps {
		return ErrInvalidPlan
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.state == StateRunning {
		return ErrAlreadyRunning
	}

	t.generation++
	t.plan = plan
	t.sessionID = uuid.NewString()
	t.total = plan.TotalSeconds()
	t.remaining = t.total
	t.state = StateRunning
	t.recordCtx = context.WithoutCancel(ctx)

	log.Debugf("timer session %s started: %s, %d sec", t.sessionID, plan.Label(), t.total)
	t.publishLocked()

	if !t.manual {
		stop := make(chan struct{})
		t.stopTicker = stop
		t.wg.Add(1)
		go t.run(t.generation, stop)
	}

	return nil
}

func (t *Timer) run(generation uint64, stop <-chan struct{}) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.advance(generation, true)
		}
	}
}

// Tick advances the running session by one second. It returns the result if
// this tick completed the session, nil otherwise.
func (t *Timer) Tick() *Result {
	return t.advance(0, false)
}

func (t *Timer) advance(generation uint64, checkGeneration bool) *Result {
	t.mu.Lock()
	if t.state != StateRunning || (checkGeneration && generation != t.generation) {
		t.mu.Unlock()
		return nil
	}

	t.remaining--
	if t.remaining > 0 {
		t.publishLocked()
		t.mu.Unlock()
		return nil
	}

	res := t.completeLocked(false)
	gen := t.generation
	ctx := t.recordCtx
	t.mu.Unlock()

	return t.record(ctx, gen, res)
}

// FinishEarly completes the running session now.
func (t *Timer) FinishEarly() (*Result, error) {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return nil, ErrNotRunning
	}

	res := t.completeLocked(true)
	gen := t.generation
	ctx := t.recordCtx
	t.mu.Unlock()

	res = t.record(ctx, gen, res)
	if res.Err != nil {
		return res, fmt.Errorf("record workout: %w", res.Err)
	}
	return res, nil
}

func (t *Timer) completeLocked(early bool) *Result {
	if t.stopTicker != nil {
		close(t.stopTicker)
		t.stopTicker = nil
	}

	timeSpent := t.total - t.remaining
	if timeSpent < 0 {
		timeSpent = 0
	}
	if early && t.remaining == t.total {
		timeSpent = 1
	}

	t.state = StateComplete
	t.publishLocked()

	return &Result{
		SessionID: t.sessionID,
		Plan:      t.plan,
		TimeSpent: timeSpent,
		Early:     early,
	}
}

// record stores the workout of a completed session, then returns the timer to
// IDLE unless a new session was armed meanwhile.
func (t *Timer) record(ctx context.Context, generation uint64, res *Result) *Result {
	ctx, span := tracing.GlobalTracer.Start(ctx, "timer.record")
	span.SetAttributes(
		attribute.String("session.id", res.SessionID),
		attribute.Int("time_spent", res.TimeSpent),
		attribute.Bool("early", res.Early),
	)

	res.Entry, res.Err = t.recorder.LogWorkout(ctx, store.LogWorkoutParams{
		UserID:          res.Plan.UserID,
		ExerciseLabel:   res.Plan.Label(),
		DurationSeconds: res.TimeSpent,
		Details:         res.Plan.Details(),
	})
	tracing.EndSpanWithErrCheck(span, res.Err)
	if res.Err != nil {
		log.Errorf("timer session %s: record workout: %s", res.SessionID, res.Err)
	} else {
		log.Debugf("timer session %s complete: %d sec recorded", res.SessionID, res.TimeSpent)
	}

	t.mu.Lock()
	if t.generation == generation && t.state == StateComplete {
		t.state = StateIdle
		t.publishLocked()
	}
	t.mu.Unlock()

	if t.onComplete != nil {
		t.onComplete(*res)
	}

	return res
}

func (t *Timer) Snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) snapshotLocked() Progress {
	p := Progress{
		State: t.state,
	}
	if t.state == StateIdle {
		return p
	}
	p.SessionID = t.sessionID
	p.Total = t.total
	p.Remaining = max(t.remaining, 0)
	p.Elapsed = t.total - p.Remaining
	return p
}

// Subscribe returns a stream of progress updates, starting with the current one.
// A subscriber that falls behind loses its oldest buffered updates, never the
// latest one. The returned func unsubscribes and closes the stream.
func (t *Timer) Subscribe() (<-chan Progress, func()) {
	ch := make(chan Progress, subscriberBuffer)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextSubID
	t.nextSubID++
	t.subscribers[id] = ch
	ch <- t.snapshotLocked()

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if sub, ok := t.subscribers[id]; ok {
			delete(t.subscribers, id)
			close(sub)
		}
	}
}

func (t *Timer) publishLocked() {
	p := t.snapshotLocked()
	for _, ch := range t.subscribers {
		sendLatest(ch, p)
	}
}

// sendLatest delivers p, making room by dropping the oldest buffered update.
func sendLatest(ch chan Progress, p Progress) {
	for {
		select {
		case ch <- p:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close abandons a running session without recording it, stops the tick source
// and closes every subscriber stream.
func (t *Timer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	if t.stopTicker != nil {
		close(t.stopTicker)
		t.stopTicker = nil
	}
	if t.state == StateRunning {
		log.Debugf("timer session %s abandoned", t.sessionID)
		t.state = StateIdle
		t.generation++
	}
	t.mu.Unlock()

	t.shutdown()
}

// CloseIfIdle closes the timer only when no session is running or being recorded.
// It reports whether the timer was closed.
func (t *Timer) CloseIfIdle() bool {
	t.mu.Lock()
	if t.closed || t.state != StateIdle {
		t.mu.Unlock()
		return false
	}
	t.closed = true
	t.mu.Unlock()

	t.shutdown()
	return true
}

func (t *Timer) shutdown() {
	t.wg.Wait()

	t.mu.Lock()
	for id, ch := range t.subscribers {
		delete(t.subscribers, id)
		close(ch)
	}
	t.mu.Unlock()
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateRunning
}
