package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcq-exam-api/internal/middleware"
)

// PageHandler serves the browser pages from a directory of prebuilt HTML.
type PageHandler struct {
	root string
}

// NewPageHandler creates a page handler. An empty root serves JSON descriptors only.
func NewPageHandler(root string) *PageHandler {
	return &PageHandler{root: root}
}

// Page returns a handler for the named page, served from <root>/<name>.html when present.
func (h *PageHandler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.root != "" {
			file := filepath.Join(h.root, name+".html")
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				c.Header("Cache-Control", "no-store")
				c.File(file)
				return
			}
		}

		body := gin.H{"page": name, "authenticated": false}
		if claims := middleware.Claims(c); claims != nil {
			body["authenticated"] = true
			body["userId"] = claims.UserID
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, body)
	}
}
