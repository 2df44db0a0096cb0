package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterRegistrations      prometheus.Counter
	CounterLogins             *prometheus.CounterVec
	CounterWorkouts           *prometheus.CounterVec
	CounterMeals              prometheus.Counter
	CounterMealsDeleted       prometheus.Counter
	CounterTimerSessions      *prometheus.CounterVec
	CounterStorageErrors      *prometheus.CounterVec

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeOpenConns     prometheus.Gauge
	GaugeLifeSignal    prometheus.Gauge
	GaugeRunningTimers prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramSetDuration     prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitpulse", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitpulse", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRegistrations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "registrations",
		Help:      "The total number of registered users",
	})
	counterLogins := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "logins",
		Help:      "The total number of login attempts",
	}, []string{"outcome"})
	counterWorkouts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_logged",
		Help:      "The total number of logged workout entries",
	}, []string{"source"})
	counterMeals := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "meals_logged",
		Help:      "The total number of logged meals",
	})
	counterMealsDeleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "meals_deleted",
		Help:      "The total number of meal delete requests",
	})
	counterTimerSessions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "timer_sessions",
		Help:      "The total number of completed timer sessions",
	}, []string{"finish"})
	counterStorageErrors := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "storage_errors",
		Help:      "The total number of failed store operations",
	}, []string{"op"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests in flight",
	})
	gaugeOpenConns := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "open_connections",
		Help:      "Current number of open client connections",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeRunningTimers := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "running_timers",
		Help:      "Number of workout timer sessions currently running",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramSetDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "timer_set_duration_seconds",
		Help:      "Recorded duration of timed workout sets in seconds",
		Buckets:   []float64{1, 6, 15, 30, 60, 120, 300, 600, 1800, 6000},
	})

	return &Manager{
		CounterRequests:           counterRequests,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		CounterRegistrations:      counterRegistrations,
		CounterLogins:             counterLogins,
		CounterWorkouts:           counterWorkouts,
		CounterMeals:              counterMeals,
		CounterMealsDeleted:       counterMealsDeleted,
		CounterTimerSessions:      counterTimerSessions,
		CounterStorageErrors:      counterStorageErrors,
		GaugeRequests:             gaugeRequests,
		GaugeOpenConns:            gaugeOpenConns,
		GaugeLifeSignal:           gaugeLifeSignal,
		GaugeRunningTimers:        gaugeRunningTimers,
		HistogramRequestDuration:  histogramRequestDuration,
		HistogramSetDuration:      histogramSetDuration,
	}
}
