package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-quote/internal/account"
	"github.com/noah-isme/backend-quote/internal/auth"
	"github.com/noah-isme/backend-quote/internal/catalog"
	"github.com/noah-isme/backend-quote/internal/common"
	"github.com/noah-isme/backend-quote/internal/config"
	"github.com/noah-isme/backend-quote/internal/coupon"
	"github.com/noah-isme/backend-quote/internal/export"
	"github.com/noah-isme/backend-quote/internal/health"
	"github.com/noah-isme/backend-quote/internal/obs"
	"github.com/noah-isme/backend-quote/internal/quote"
)

const sessionCookie = "quote_session"

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "quote")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	// Money travels as JSON numbers, matching the float payloads clients send.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "quote-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	gstPct := decimal.NewFromFloat(cfg.GSTPercentage)

	accountRepo := &account.Repo{Pool: pool}
	accountSvc := &account.Service{Q: accountRepo}
	accountHandler := &account.Handler{Svc: accountSvc}

	authService, err := auth.NewService(auth.Config{
		Users:        accountRepo,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Secret:       cfg.SessionSecret,
		SessionTTL:   cfg.SessionTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	authHandler := &auth.Handler{
		Service:       authService,
		Logger:        logger,
		FrontendURL:   cfg.FrontendURL,
		SessionCookie: sessionCookie,
		CookieDomain:  cfg.CookieDomain,
		CookieSecure:  cfg.CookieSecure,
	}
	authMiddleware := auth.Middleware{Service: authService, SessionCookie: sessionCookie}

	catalogRepo := catalog.Repo{Pool: pool}
	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Queries:     catalogRepo,
		Cache:       catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		SearchLimit: cfg.CatalogSearchLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogHandler := &catalog.Handler{Service: catalogService}

	couponRepo := &coupon.Repo{Pool: pool}
	couponHandler := &coupon.Handler{Svc: &coupon.Service{Q: couponRepo}}

	quoteSvc := quote.NewService(quote.NewRepo(pool), catalogRepo, couponRepo, accountRepo, gstPct)
	quoteHandler := quote.NewHandler(quoteSvc)

	gotenberg := export.NewGotenbergClient(cfg.GotenbergURL, cfg.PDFRenderTimeout)

	var mailer common.EmailSender = common.NopEmailSender{}
	if cfg.SMTPHost != "" {
		mailer = &export.SMTPSender{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
		}
	} else {
		logger.Warn().Msg("smtp not configured, quotation emails disabled")
	}
	exportHandler := export.NewHandler(accountSvc, gotenberg, mailer, logger, cfg.MailFrom, cfg.MailBCC, gstPct)

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker:         readinessChecker{db: pool, redis: redisClient, renderer: gotenberg},
		DBTimeout:       envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout:    envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
		RendererTimeout: envDurationMillis("HEALTH_READY_RENDERER_TIMEOUT_MS", 1000),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Get("/auth/google", authHandler.Login)
	r.Get("/auth/google/callback", authHandler.Callback)
	r.Get("/auth/logout", authHandler.Logout)

	r.Route("/api/v1", func(v chi.Router) {
		v.With(authMiddleware.Authenticate).Get("/users/me", accountHandler.Me)

		v.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Put("/users/me/account", accountHandler.UpdateAccount)

			protected.Get("/products", catalogHandler.Products)
			protected.Get("/categories", catalogHandler.Categories)

			protected.Post("/coupons/apply", couponHandler.Apply)

			protected.Route("/quotes", func(q chi.Router) {
				q.Get("/", quoteHandler.List)
				q.With(idem.Middleware).Post("/", quoteHandler.Save)
				q.Get("/{id}", quoteHandler.Get)
				q.Delete("/{id}", quoteHandler.Delete)

				q.Post("/export/xlsx", exportHandler.XLSX)
				q.Post("/preview-pdf", exportHandler.PreviewPDF)
				q.Post("/send-email", exportHandler.SendEmail)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	renderer *export.GotenbergClient
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func (c readinessChecker) PingRenderer(ctx context.Context, timeout time.Duration) error {
	if c.renderer == nil {
		return errors.New("renderer not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.renderer.Ping(ctx)
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
