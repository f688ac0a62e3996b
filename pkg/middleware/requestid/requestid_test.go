package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func serve(header string) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(headerKey, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen
}

func TestMiddlewareKeepsClientID(t *testing.T) {
	w, seen := serve("req-123")
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(headerKey))
}

func TestMiddlewareReplacesMissingOrInvalidID(t *testing.T) {
	for _, header := range []string{"", "bad id\n", strings.Repeat("a", 65)} {
		w, seen := serve(header)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err, "header %q", header)
		assert.Equal(t, seen, w.Header().Get(headerKey))
	}
}
