package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitpulse/internal/api"
	"github.com/2beens/fitpulse/internal/auth"
	"github.com/2beens/fitpulse/internal/catalog"
	"github.com/2beens/fitpulse/internal/config"
	"github.com/2beens/fitpulse/internal/db"
	"github.com/2beens/fitpulse/internal/engine"
	"github.com/2beens/fitpulse/internal/middleware"
	"github.com/2beens/fitpulse/internal/store"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/internal/timer"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type sessionStore interface {
	Login(ctx context.Context, userID int) (string, error)
	UserID(ctx context.Context, token string) (int, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type fitnessStore interface {
	Init(ctx context.Context) error
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

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	engine   *engine.Engine
	sessions sessionStore

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	stopSessionsCleanup context.CancelFunc
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if secrets == nil {
		secrets = &config.Secrets{}
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, "fitpulse")
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		versionInfo:  params.VersionInfo,
		otelShutdown: otelShutdown,
	}

	var (
		fitStore        fitnessStore
		extraCollectors []prometheus.Collector
	)

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		log.Warnln("using the in-memory store, nothing survives a restart")
		fitStore = store.NewTestStore()
		s.sessions = auth.NewTestSessions()
	default:
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         secrets.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: secrets.HoneycombEnabled,
		})
		if err != nil {
			otelShutdown()
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := s.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		fitStore = store.NewStore(s.dbPool)

		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: secrets.RedisPassword,
			DB:       0, // use default DB
		})
		if secrets.HoneycombEnabled {
			s.redisClient.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		authService := auth.NewService(cfg.SessionTTL, s.redisClient)
		s.sessions = authService
		s.rateLimiter = redis_rate.NewLimiter(s.redisClient)

		cleanupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.stopSessionsCleanup = cancel
		go sessionsCleanup(cleanupCtx, authService, cfg.SessionsCleanupInterval)
	}

	if err := fitStore.Init(ctx); err != nil {
		s.closeResources()
		return nil, fmt.Errorf("init store: %w", err)
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("fitpulse", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.engine = engine.New(
		fitStore,
		catalog.New(),
		s.metricsManager,
		timer.WithTickInterval(cfg.TimerTickInterval),
	)

	return s, nil
}

func sessionsCleanup(ctx context.Context, authService *auth.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.ScanAndClean(ctx)
		}
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitpulse-router"))

	apiHandler := api.NewHandler(s.engine, s.sessions, s.versionInfo)
	if s.rateLimiter != nil && s.config.RegisterRateLimitAllowedPerMin > 0 {
		apiHandler.WithRegisterRateLimit(
			middleware.RateLimit(s.rateLimiter, "register", s.config.RegisterRateLimitAllowedPerMin),
		)
	}
	apiHandler.SetupRoutes(r)

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessions)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:     s.routerSetup(),
		Addr:        ipAndPort,
		ReadTimeout: time.Minute,
		// no write timeout, timer progress is streamed
		IdleTimeout: 2 * time.Minute,
		ConnState:   s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           otelhttp.NewHandler(metricsRouter, "fitpulse-metrics"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// running timer sessions are abandoned; this also ends open progress streams
	s.engine.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.closeResources()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

// closeResources releases the store and session backends and stops tracing.
func (s *Server) closeResources() {
	if s.stopSessionsCleanup != nil {
		s.stopSessionsCleanup()
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeOpenConns.Inc()
	case http.StateClosed:
		s.metricsManager.GaugeOpenConns.Dec()
	default:
		// do nothing
	}
}
