package main

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mcq-exam-api/api/swagger"
	"github.com/noah-isme/mcq-exam-api/internal/handler"
	"github.com/noah-isme/mcq-exam-api/internal/middleware"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	"github.com/noah-isme/mcq-exam-api/internal/service"
	"github.com/noah-isme/mcq-exam-api/pkg/config"
	"github.com/noah-isme/mcq-exam-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mcq-exam-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mcq-exam-api/pkg/middleware/requestid"
)

type sessionVerifier interface {
	Check(ctx context.Context, token string) models.VerifyResult
}

type routerDeps struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *service.MetricsService
	sessions sessionVerifier
	limiter  *service.RateLimitService
	auth     *handler.AuthHandler
	question *handler.QuestionHandler
	results  *handler.TestResultHandler
	pages    *handler.PageHandler
	ops      *handler.MetricsHandler
	cookie   middleware.CookieConfig
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.logger, "/health", "/metrics"))
	r.Use(middleware.Metrics(d.metrics, "/metrics"))
	r.Use(corsmiddleware.New(d.cfg.CORS.AllowedOrigins))
	r.Use(middleware.SessionGate(d.sessions, middleware.GateConfig{
		Cookie:                d.cookie,
		RedirectAuthenticated: d.cfg.Session.RedirectAuthenticated,
	}))

	r.GET("/health", d.ops.Health)
	r.GET("/ready", d.ops.Ready)
	r.GET("/metrics", d.ops.Prometheus)

	if !d.cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	for _, page := range []string{"login", "register", "dashboard", "mcq"} {
		r.GET("/"+page, d.pages.Page(page))
	}
	r.GET("/", d.pages.Page("index"))

	api := r.Group(d.cfg.APIPrefix)
	api.POST("/register", d.auth.Register)
	api.POST("/login", d.auth.Login)
	api.POST("/logout", d.auth.Logout)
	api.GET("/me", d.auth.Me)

	api.GET("/generate-mcq", d.question.Usage)
	api.POST("/generate-mcq", middleware.RateLimit(d.limiter, d.logger), d.question.Generate)

	api.POST("/save-test-result", d.results.Save)
	api.GET("/test-results", d.results.List)
	api.GET("/test-results/summary", d.results.Summary)
	api.GET("/test-results/export", d.results.Export)

	return r
}
