package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/middleware"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

type questionService interface {
	Generate(ctx context.Context, req dto.GenerateMCQRequest) (*dto.GenerateMCQResponse, error)
	Usage() dto.GenerationUsage
}

type quotaReader interface {
	Enabled() bool
	Status(ctx context.Context, client string) (dto.RateLimitStatus, error)
}

// QuestionHandler serves question generation.
type QuestionHandler struct {
	service questionService
	quota   quotaReader
}

// NewQuestionHandler creates a new handler. quota may be nil.
func NewQuestionHandler(svc questionService, quota quotaReader) *QuestionHandler {
	return &QuestionHandler{service: svc, quota: quota}
}

// Usage godoc
// @Summary Generation usage
// @Description Describes the generation parameters and the caller's remaining quota
// @Tags Questions
// @Produce json
// @Success 200 {object} dto.GenerationUsage
// @Router /generate-mcq [get]
func (h *QuestionHandler) Usage(c *gin.Context) {
	usage := h.service.Usage()
	if h.quota != nil && h.quota.Enabled() {
		if status, err := h.quota.Status(c.Request.Context(), middleware.ClientKey(c)); err == nil {
			usage.RateLimit = &status
		}
	}
	response.JSON(c, http.StatusOK, usage)
}

// Generate godoc
// @Summary Generate questions
// @Description Generate a validated multiple choice question set
// @Tags Questions
// @Accept json
// @Produce json
// @Param payload body dto.GenerateMCQRequest true "Generation parameters"
// @Success 200 {object} dto.GenerateMCQResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 429 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /generate-mcq [post]
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req dto.GenerateMCQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request data"))
		return
	}

	res, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}
