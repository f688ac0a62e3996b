package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/middleware"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	"github.com/noah-isme/mcq-exam-api/internal/service"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

type testResultService interface {
	Save(ctx context.Context, userID string, req dto.SaveTestResultRequest) (*dto.SaveTestResultResponse, error)
	List(ctx context.Context, userID string, page, pageSize int) (*dto.TestResultListResponse, error)
	Summary(ctx context.Context, userID string) (*models.ResultSummary, bool, error)
	Export(ctx context.Context, userID, format string) (*service.ExportFile, error)
}

// TestResultHandler persists submissions and serves result history.
type TestResultHandler struct {
	service testResultService
}

// NewTestResultHandler creates a new handler.
func NewTestResultHandler(svc testResultService) *TestResultHandler {
	return &TestResultHandler{service: svc}
}

// Save godoc
// @Summary Save test result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.SaveTestResultRequest true "Result payload"
// @Success 201 {object} dto.SaveTestResultResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /save-test-result [post]
func (h *TestResultHandler) Save(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveTestResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid test result data"))
		return
	}

	res, err := h.service.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// List godoc
// @Summary List test results
// @Tags Results
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.TestResultListResponse
// @Failure 401 {object} response.ErrorBody
// @Router /test-results [get]
func (h *TestResultHandler) List(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page, err := queryInt(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	pageSize, err := queryInt(c, "pageSize")
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), claims.UserID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Private(c, http.StatusOK, res)
}

// Summary godoc
// @Summary Result summary
// @Tags Results
// @Produce json
// @Success 200 {object} models.ResultSummary
// @Failure 401 {object} response.ErrorBody
// @Router /test-results/summary [get]
func (h *TestResultHandler) Summary(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, hit, err := h.service.Summary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.Private(c, http.StatusOK, summary)
}

// Export godoc
// @Summary Export result history
// @Tags Results
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /test-results/export [get]
func (h *TestResultHandler) Export(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	file, err := h.service.Export(c.Request.Context(), claims.UserID, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be a positive integer", key))
	}
	return v, nil
}
