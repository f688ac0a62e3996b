package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/handler"
	"github.com/noah-isme/mcq-exam-api/internal/middleware"
	"github.com/noah-isme/mcq-exam-api/internal/service"
	"github.com/noah-isme/mcq-exam-api/pkg/config"
)

func testRouter(t *testing.T) (*gin.Engine, *service.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logr := zap.NewNop()
	metrics := service.NewMetricsService()
	sessions := service.NewSessionService(service.SessionConfig{Secret: "route-secret", TTL: time.Hour}, nil, metrics, logr)
	validate := validator.New()
	limiter := service.NewRateLimitService(nil, service.RateLimitConfig{}, metrics, logr)
	cookie := middleware.CookieConfig{Name: "session", MaxAge: 3600}

	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"}
	cfg.Session.RedirectAuthenticated = true

	r := newRouter(routerDeps{
		cfg:      cfg,
		logger:   logr,
		metrics:  metrics,
		sessions: sessions,
		limiter:  limiter,
		auth:     handler.NewAuthHandler(service.NewAuthService(nil, sessions, nil, validate, logr, service.AuthConfig{}), cookie),
		question: handler.NewQuestionHandler(service.NewQuestionService(nil, validate, metrics, logr), limiter),
		results:  handler.NewTestResultHandler(service.NewTestResultService(nil, nil, nil, validate, metrics, logr, time.Minute)),
		pages:    handler.NewPageHandler(""),
		ops:      handler.NewMetricsHandler(metrics, nil),
		cookie:   cookie,
	})
	return r, sessions
}

func TestRouterHealthIsOpen(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouterProtectedAPIRequiresSession(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{"/api/me", "/api/generate-mcq", "/api/test-results"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouterProtectedPageRedirects(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRouterUsageWithBearerToken(t *testing.T) {
	r, sessions := testRouter(t)
	token, _, err := sessions.Create("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/generate-mcq", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/generate-mcq")
}

func TestRouterLoginRedirectsAuthenticatedUser(t *testing.T) {
	r, sessions := testRouter(t)
	token, _, err := sessions.Create("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}
