package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
)

type fakeQuestionSrv struct {
	resp    *dto.GenerateMCQResponse
	err     error
	lastReq dto.GenerateMCQRequest
}

func (f *fakeQuestionSrv) Generate(_ context.Context, req dto.GenerateMCQRequest) (*dto.GenerateMCQResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeQuestionSrv) Usage() dto.GenerationUsage {
	return dto.GenerationUsage{Message: "MCQ Generator API is running"}
}

type fakeQuota struct{}

func (fakeQuota) Enabled() bool { return true }

func (fakeQuota) Status(context.Context, string) (dto.RateLimitStatus, error) {
	return dto.RateLimitStatus{Allowed: true, Limit: 4, Remaining: 3}, nil
}

func TestQuestionHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeQuestionSrv{resp: &dto.GenerateMCQResponse{Success: true}}
	handler := NewQuestionHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/api/generate-mcq", `{"count":5,"subject":"Math","difficulty":"easy","language":"english"}`)

	handler.Generate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastReq.Count)
	assert.Equal(t, 5, *srv.lastReq.Count)
	assert.Equal(t, "Math", srv.lastReq.Subject)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestQuestionHandlerGenerateErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[int]error{
		http.StatusBadRequest:          appErrors.ErrValidation,
		http.StatusTooManyRequests:     appErrors.ErrRateLimited,
		http.StatusInternalServerError: appErrors.ErrUpstream,
	}
	for status, err := range cases {
		handler := NewQuestionHandler(&fakeQuestionSrv{err: err}, nil)
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = jsonRequest(http.MethodPost, "/api/generate-mcq", `{}`)

		handler.Generate(c)

		assert.Equal(t, status, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	}
}

func TestQuestionHandlerRejectsWrongTypes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeQuestionSrv{}
	handler := NewQuestionHandler(srv, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPost, "/api/generate-mcq", `{"count":"five"}`)

	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuestionHandlerUsageIncludesQuota(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQuestionHandler(&fakeQuestionSrv{}, fakeQuota{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/generate-mcq", nil)

	handler.Usage(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining":3`)
}
