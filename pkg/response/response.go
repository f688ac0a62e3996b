package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
)

// ErrorBody is the wire shape of every failed request.
type ErrorBody struct {
	Success    bool                   `json:"success"`
	Error      string                 `json:"error"`
	Code       string                 `json:"code,omitempty"`
	Details    []appErrors.FieldError `json:"details,omitempty"`
	RetryAfter int64                  `json:"retryAfter,omitempty"`
	ResetTime  int64                  `json:"resetTime,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// JSON sends a success payload as-is.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// Private sends a per-user payload that intermediaries must not cache.
func Private(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "private, no-store")
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// RateLimited sends a 429 carrying retry hints in seconds and epoch milliseconds.
func RateLimited(c *gin.Context, retryAfter, resetTimeMillis int64) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusTooManyRequests, ErrorBody{
		Success:    false,
		Error:      appErrors.ErrRateLimited.Message,
		Code:       appErrors.ErrRateLimited.Code,
		RetryAfter: retryAfter,
		ResetTime:  resetTimeMillis,
	})
}

// Abort writes the error and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
