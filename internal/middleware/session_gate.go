package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcq-exam-api/internal/models"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

// RouteClass is how the session gate treats a path.
type RouteClass int

const (
	RouteOpen RouteClass = iota
	RoutePublic
	RouteProtectedPage
	RouteProtectedAPI
)

var (
	publicPaths        = []string{"/", "/login", "/register"}
	publicAPIPrefixes  = []string{"/api/login", "/api/register"}
	protectedPages     = []string{"/dashboard", "/mcq"}
	protectedAPIRoutes = []string{"/api/generate-mcq", "/api/me", "/api/logout", "/api/save-test-result", "/api/test-results"}
)

// ClassifyPath maps a request path onto its gate class.
func ClassifyPath(path string) RouteClass {
	for _, p := range publicPaths {
		if path == p {
			return RoutePublic
		}
	}
	if hasAnyPrefix(path, publicAPIPrefixes) {
		return RoutePublic
	}
	if hasAnyPrefix(path, protectedAPIRoutes) {
		return RouteProtectedAPI
	}
	if hasAnyPrefix(path, protectedPages) {
		return RouteProtectedPage
	}
	return RouteOpen
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

type sessionChecker interface {
	Check(ctx context.Context, token string) models.VerifyResult
}

// GateConfig configures the session gate.
type GateConfig struct {
	Cookie                CookieConfig
	LoginPath             string
	HomePath              string
	RedirectAuthenticated bool
}

// SessionGate enforces authentication per path class. Protected pages redirect to the login page
// and drop the cookie; protected API routes answer 401.
func SessionGate(sessions sessionChecker, cfg GateConfig) gin.HandlerFunc {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/dashboard"
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		class := ClassifyPath(path)

		switch class {
		case RouteOpen:
			c.Next()
			return
		case RoutePublic:
			if cfg.RedirectAuthenticated && (path == "/login" || path == "/register") {
				if token := SessionToken(c, cfg.Cookie.Name); token != "" && sessions.Check(c.Request.Context(), token).Valid() {
					c.Redirect(http.StatusFound, cfg.HomePath)
					c.Abort()
					return
				}
			}
			c.Next()
			return
		}

		result := sessions.Check(c.Request.Context(), SessionToken(c, cfg.Cookie.Name))
		if !result.Valid() {
			if class == RouteProtectedAPI {
				response.Abort(c, appErrors.ErrUnauthorized)
				return
			}
			ClearSessionCookie(c, cfg.Cookie)
			c.Header("Cache-Control", "no-store")
			c.Redirect(http.StatusFound, cfg.LoginPath)
			c.Abort()
			return
		}

		SetClaims(c, result.Claims)
		c.Next()
	}
}
