package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/mcq-exam-api/internal/handler"
	"github.com/noah-isme/mcq-exam-api/internal/middleware"
	"github.com/noah-isme/mcq-exam-api/internal/repository"
	"github.com/noah-isme/mcq-exam-api/internal/service"
	"github.com/noah-isme/mcq-exam-api/pkg/cache"
	"github.com/noah-isme/mcq-exam-api/pkg/config"
	"github.com/noah-isme/mcq-exam-api/pkg/database"
	"github.com/noah-isme/mcq-exam-api/pkg/jobs"
	"github.com/noah-isme/mcq-exam-api/pkg/llm"
	"github.com/noah-isme/mcq-exam-api/pkg/logger"
)

// @title MCQ Exam API
// @version 1.0.0
// @description Accounts, AI generated question sets and timed test results
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to migrate schema", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	resultRepo := repository.NewTestResultRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)
	sessionRepo := repository.NewSessionRepository(redisClient)
	limitRepo := repository.NewRateLimitRepository(redisClient, "")

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	sessions := service.NewSessionService(service.SessionConfig{
		Secret:            cfg.Session.Secret,
		TTL:               cfg.Session.TTL,
		RevocationEnabled: cfg.Session.RevocationEnabled,
	}, sessionRepo, metrics, logr)
	authSvc := service.NewAuthService(userRepo, sessions, cacheSvc, validate, logr, service.AuthConfig{
		BcryptCost: cfg.Password.BcryptCost,
		ProfileTTL: cfg.Dashboard.CacheTTL,
	})
	generator := llm.NewOpenAIClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logr)
	questionSvc := service.NewQuestionService(generator, validate, metrics, logr)
	limiter := service.NewRateLimitService(limitRepo, service.RateLimitConfig{
		Enabled:     cfg.RateLimit.Enabled,
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}, metrics, logr)

	queue := jobs.NewQueue("results", jobs.QueueConfig{Workers: cfg.Jobs.Workers, MaxRetries: cfg.Jobs.Retries, Logger: logr})
	resultSvc := service.NewTestResultService(resultRepo, cacheSvc, queue, validate, metrics, logr, cfg.Dashboard.CacheTTL)
	queue.Handle(service.JobRefreshSummary, resultSvc.HandleRefreshJob)
	queue.Start(ctx)
	defer queue.Stop()

	cookie := middleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.IsProduction(),
		MaxAge: int(sessions.TTL() / time.Second),
	}

	router := newRouter(routerDeps{
		cfg:      cfg,
		logger:   logr,
		metrics:  metrics,
		sessions: sessions,
		limiter:  limiter,
		auth:     handler.NewAuthHandler(authSvc, cookie),
		question: handler.NewQuestionHandler(questionSvc, limiter),
		results:  handler.NewTestResultHandler(resultSvc),
		pages:    handler.NewPageHandler(cfg.WebRoot),
		ops: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			"postgres": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
		cookie: cookie,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
