package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

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

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/dashboard"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/meals"
	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/profiles"
	"github.com/2beens/fittrack/internal/recommend"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/timeutil"
	"github.com/2beens/fittrack/internal/web"
	"github.com/2beens/fittrack/pkg"
)

const (
	dbName                 = "fittrack"
	sessionCleanerInterval = 8 * time.Hour
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config    *config.Config
	dbPool    *pgxpool.Pool
	zone      *timeutil.Zone
	generator recommend.Generator

	redisClient    *redis.Client
	rateLimiter    middleware.RequestRateLimiter
	authProvider   auth.Provider
	sessionService *auth.SessionService
	sessionChecker *auth.SessionChecker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	PostgresPassword        string
	RedisPassword           string
	AuthAnonKey             string
	CohereAPIKey            string
	OpenAIAPIKey            string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	zone, err := timeutil.NewZone(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	promRegistry := metrics.SetupPrometheus()
	if err := metrics.RegisterDBPool(promRegistry, dbPool, dbName); err != nil {
		return nil, fmt.Errorf("register db pool metrics: %w", err)
	}
	metricsManager := metrics.NewManager("fittrack", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: params.RedisPassword,
		DB:       0,
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown := func() {}
	if params.HoneycombTracingEnabled {
		otelShutdown, err = tracing.HoneycombSetup()
		if err != nil {
			return nil, err
		}
	}

	sessionService := auth.NewSessionService(cfg.SessionTTL.Duration, rdb)
	go sessionService.RunCleaner(ctx, sessionCleanerInterval)

	return &Server{
		config:    cfg,
		dbPool:    dbPool,
		zone:      zone,
		generator: newGenerator(cfg, params),

		redisClient:    rdb,
		rateLimiter:    redis_rate.NewLimiter(rdb),
		authProvider:   newAuthProvider(cfg, params.AuthAnonKey),
		sessionService: sessionService,
		sessionChecker: auth.NewSessionChecker(sessionService),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func newAuthProvider(cfg *config.Config, anonKey string) auth.Provider {
	if cfg.AuthProvider == config.AuthProviderRemote {
		log.Debugf("using remote auth provider: %s", cfg.AuthURL)
		return auth.NewRemoteProvider(cfg.AuthURL, anonKey, cfg.SiteURL)
	}

	users := make([]auth.LocalUser, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, auth.LocalUser{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
		})
	}
	log.Debugf("using local auth provider with %d users", len(users))
	return auth.NewLocalProvider(users)
}

func newGenerator(cfg *config.Config, params NewServerParams) recommend.Generator {
	if cfg.Generator == config.GeneratorOpenAI {
		if params.OpenAIAPIKey == "" {
			log.Errorf("openai API key not set, recommendations will fail")
		}
		return recommend.NewOpenAIGenerator(cfg.OpenAIBaseURL, params.OpenAIAPIKey, cfg.OpenAIModel)
	}

	if params.CohereAPIKey == "" {
		log.Errorf("cohere API key not set, recommendations will fail")
	}
	return recommend.NewCohereGenerator(cfg.CohereURL, params.CohereAPIKey, cfg.CohereModel)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type connectionStatus struct {
	Status string `json:"status"`
}

// handleTestConnection reports whether the database answers a ping.
func handleTestConnection(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.testConnection")
		defer span.End()

		if err := db.Ping(ctx); err != nil {
			log.Errorf("test connection: %s", err)
			pkg.WriteJSON(w, connectionStatus{Status: "error"}, http.StatusInternalServerError)
			return
		}
		pkg.WriteJSON(w, connectionStatus{Status: "Connected to database successfully!"}, http.StatusOK)
	}
}

type routerDeps struct {
	pinger         pinger
	checker        auth.Checker
	authHandler    *auth.Handler
	meals          *meals.Service
	exercises      *exercises.Service
	profiles       *profiles.Service
	dashboard      *dashboard.Service
	recommend      *recommend.Service
	zone           *timeutil.Zone
	rateLimiter    middleware.RequestRateLimiter
	metricsManager *metrics.Manager
	config         *config.Config
}

func (s *Server) routerDeps() routerDeps {
	mealsRepo := meals.NewRepo(s.dbPool)
	exercisesRepo := exercises.NewRepo(s.dbPool)
	profilesRepo := profiles.NewRepo(s.dbPool)

	return routerDeps{
		pinger:  s.dbPool,
		checker: s.sessionChecker,
		authHandler: auth.NewHandler(
			s.authProvider,
			s.sessionService,
			s.sessionChecker,
			s.config.SessionTTL.Duration,
			s.config.SessionCookieSecure,
		),
		meals:     meals.NewService(mealsRepo, s.zone, s.metricsManager),
		exercises: exercises.NewService(exercisesRepo, s.zone, s.metricsManager),
		profiles:  profiles.NewService(profilesRepo),
		dashboard: dashboard.NewService(profilesRepo, mealsRepo, exercisesRepo, s.zone),
		recommend: recommend.NewService(
			s.generator,
			exercisesRepo,
			recommend.NewRepo(s.dbPool),
			s.metricsManager,
		),
		zone:           s.zone,
		rateLimiter:    s.rateLimiter,
		metricsManager: s.metricsManager,
		config:         s.config,
	}
}

func routerSetup(deps routerDeps) (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	requireUser := func(fn auth.UserHandlerFunc) http.HandlerFunc {
		return auth.RequireUser(deps.checker, fn)
	}
	signInLimit := middleware.RateLimit(
		deps.rateLimiter, deps.metricsManager, "signin",
		deps.config.SignInRateLimitPerMin, middleware.ByIP,
	)
	recommendLimit := middleware.RateLimit(
		deps.rateLimiter, deps.metricsManager, "recommend",
		deps.config.RecommendRateLimitPerMin, middleware.BySession,
	)

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test-connection", handleTestConnection(deps.pinger)).Methods("GET").Name("test-connection")

	mealsHandler := meals.NewHandler(deps.meals)
	api.HandleFunc("/meals", requireUser(mealsHandler.HandleList)).Methods("GET", "OPTIONS").Name("list-meals")
	api.HandleFunc("/meals", requireUser(mealsHandler.HandleAdd)).Methods("POST", "OPTIONS").Name("new-meal")
	api.HandleFunc("/meals", requireUser(mealsHandler.HandleDelete)).Methods("DELETE", "OPTIONS").Name("remove-meal")

	exercisesHandler := exercises.NewHandler(deps.exercises)
	api.HandleFunc("/exercises", requireUser(exercisesHandler.HandleList)).Methods("GET", "OPTIONS").Name("list-exercises")
	api.HandleFunc("/exercises", requireUser(exercisesHandler.HandleAdd)).Methods("POST", "OPTIONS").Name("new-exercise")
	api.HandleFunc("/exercises", requireUser(exercisesHandler.HandleDelete)).Methods("DELETE", "OPTIONS").Name("remove-exercise")

	profilesHandler := profiles.NewHandler(deps.profiles)
	api.HandleFunc("/profile", requireUser(profilesHandler.HandleGet)).Methods("GET", "OPTIONS").Name("get-profile")
	api.HandleFunc("/profile", requireUser(profilesHandler.HandleUpdate)).Methods("PUT", "POST", "OPTIONS").Name("update-profile")

	dashboardHandler := dashboard.NewHandler(deps.dashboard)
	api.HandleFunc("/dashboard", requireUser(dashboardHandler.HandleStats)).Methods("GET", "OPTIONS").Name("dashboard")

	recommendHandler := recommend.NewHandler(deps.recommend)
	api.Handle("/exercise/recommend", recommendLimit(requireUser(recommendHandler.HandleRecommend))).
		Methods("POST", "OPTIONS").Name("recommend")

	// pages and auth
	pages, err := web.NewPages(
		deps.checker,
		deps.zone,
		deps.meals,
		deps.exercises,
		deps.profiles,
		deps.dashboard,
		deps.recommend,
	)
	if err != nil {
		return nil, fmt.Errorf("new pages: %w", err)
	}

	r.HandleFunc("/auth/signin", pages.HandleSignIn).Methods("GET").Name("signin-page")
	r.Handle("/auth/signin", signInLimit(http.HandlerFunc(deps.authHandler.HandleSignIn))).Methods("POST").Name("signin")
	r.HandleFunc("/auth/signup", deps.authHandler.HandleSignUp).Methods("POST").Name("signup")
	r.HandleFunc("/auth/signout", deps.authHandler.HandleSignOut).Methods("POST").Name("signout")
	r.HandleFunc("/auth/verify-email", pages.HandleVerifyEmail).Methods("GET").Name("verify-email")

	r.HandleFunc("/", pages.HandleHome).Methods("GET").Name("home")
	r.HandleFunc("/about", pages.HandleAbout).Methods("GET").Name("about")
	r.HandleFunc("/dashboard", pages.Protected(pages.HandleDashboard)).Methods("GET").Name("dashboard-page")
	r.HandleFunc("/diet", pages.Protected(pages.HandleDiet)).Methods("GET").Name("diet-page")
	r.HandleFunc("/diet", pages.Protected(pages.HandleDietAdd)).Methods("POST").Name("diet-add")
	r.HandleFunc("/diet/delete", pages.Protected(pages.HandleDietDelete)).Methods("POST").Name("diet-delete")
	r.HandleFunc("/exercise", pages.Protected(pages.HandleExercise)).Methods("GET").Name("exercise-page")
	r.HandleFunc("/exercise", pages.Protected(pages.HandleExerciseAdd)).Methods("POST").Name("exercise-add")
	r.HandleFunc("/exercise/delete", pages.Protected(pages.HandleExerciseDelete)).Methods("POST").Name("exercise-delete")
	r.Handle("/exercise/recommend", recommendLimit(pages.Protected(pages.HandleExerciseRecommend))).Methods("POST").Name("exercise-recommend")
	r.HandleFunc("/profile", pages.Protected(pages.HandleProfile)).Methods("GET").Name("profile-page")
	r.HandleFunc("/profile", pages.Protected(pages.HandleProfileUpdate)).Methods("POST").Name("profile-update")

	r.Use(middleware.PanicRecovery(deps.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(deps.metricsManager))
	r.Use(middleware.Cors(deps.config.AllowedOrigins))
	r.Use(middleware.NewSessionGate(deps.checker).Gate())
	r.Use(middleware.CloseRequestBody(middleware.MaxBodyDrain))

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := routerSetup(s.routerDeps())
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// recommendations wait for the generator, which may take close to a minute
		WriteTimeout: 2 * time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
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

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
