package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/exam"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
	"github.com/noah-isme/mcq-exam-api/pkg/export"
	"github.com/noah-isme/mcq-exam-api/pkg/jobs"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

// JobRefreshSummary recomputes a user's cached result summary.
const JobRefreshSummary = "results.refresh_summary"

const (
	defaultResultPageSize = 20
	maxResultPageSize     = 100
)

type testResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	ListByUser(ctx context.Context, filter models.TestResultFilter) ([]models.TestResult, int, error)
	ListAllByUser(ctx context.Context, userID string) ([]models.TestResult, error)
	Summary(ctx context.Context, userID string) (*models.ResultSummary, error)
	Latest(ctx context.Context, userID string) (*models.TestResult, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered result history.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TestResultService persists submissions and serves the dashboard views.
type TestResultService struct {
	repo       testResultRepository
	cache      *CacheService
	queue      jobEnqueuer
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
	summaryTTL time.Duration
	renderers  map[string]datasetRenderer
	now        func() time.Time
}

// NewTestResultService constructs a TestResultService. queue may be nil, in which case the
// summary cache is invalidated inline after a save.
func NewTestResultService(repo testResultRepository, cache *CacheService, queue jobEnqueuer, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, summaryTTL time.Duration) *TestResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := export.NewCSVExporter()
	pdf := export.NewPDFExporter()
	return &TestResultService{
		repo:       repo,
		cache:      cache,
		queue:      queue,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
		summaryTTL: summaryTTL,
		renderers:  map[string]datasetRenderer{csv.Extension(): csv, pdf.Extension(): pdf},
		now:        time.Now,
	}
}

// Save validates and stores a submission for userID. When the question set is supplied the
// counts are recomputed from the answers instead of trusting the client.
func (s *TestResultService) Save(ctx context.Context, userID string, req dto.SaveTestResultRequest) (*dto.SaveTestResultResponse, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Invalid test result data")
	}

	counts := exam.Result{
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		WrongAnswers:   req.WrongAnswers,
		Unanswered:     req.Unanswered,
		Score:          req.Score,
		Percentage:     req.Percentage,
	}
	if len(req.MCQs) > 0 {
		counts = exam.Score(req.MCQs, req.Answers)
	} else if counts.CorrectAnswers+counts.WrongAnswers+counts.Unanswered > counts.TotalQuestions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Answer counts exceed total questions")
	}

	result := &models.TestResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		TotalQuestions: counts.TotalQuestions,
		CorrectAnswers: counts.CorrectAnswers,
		WrongAnswers:   counts.WrongAnswers,
		Unanswered:     counts.Unanswered,
		Score:          counts.Score,
		Percentage:     counts.Percentage,
		TimeTaken:      int(req.TimeTaken),
		Subject:        optional(req.Subject),
		Difficulty:     optional(req.Difficulty),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to save test result")
	}
	s.metrics.RecordResultSaved()
	s.scheduleRefresh(ctx, userID)

	return &dto.SaveTestResultResponse{Success: true, ID: result.ID, CreatedAt: result.CreatedAt}, nil
}

func (s *TestResultService) scheduleRefresh(ctx context.Context, userID string) {
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{Type: JobRefreshSummary, Key: userID, Payload: userID})
		if err == nil {
			return
		}
		s.logger.Warn("failed to enqueue summary refresh", zap.String("user_id", userID), zap.Error(err))
	}
	_ = s.cache.Invalidate(ctx, summaryCacheKey(userID))
}

// HandleRefreshJob is the queue handler for JobRefreshSummary.
func (s *TestResultService) HandleRefreshJob(ctx context.Context, job jobs.Job) error {
	userID, ok := job.Payload.(string)
	if !ok || userID == "" {
		return nil
	}
	return s.RefreshSummary(ctx, userID)
}

// RefreshSummary drops and recomputes the cached summary for userID.
func (s *TestResultService) RefreshSummary(ctx context.Context, userID string) error {
	if err := s.cache.Invalidate(ctx, summaryCacheKey(userID)); err != nil {
		return err
	}
	if !s.cache.Enabled() {
		return nil
	}
	summary, err := s.loadSummary(ctx, userID)
	if err != nil {
		return err
	}
	s.cache.Set(ctx, summaryCacheKey(userID), summary, s.summaryTTL)
	return nil
}

// List returns a page of the user's results, newest first.
func (s *TestResultService) List(ctx context.Context, userID string, page, pageSize int) (*dto.TestResultListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultResultPageSize
	}
	if pageSize > maxResultPageSize {
		pageSize = maxResultPageSize
	}
	results, total, err := s.repo.ListByUser(ctx, models.TestResultFilter{UserID: userID, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to load test results")
	}
	items := make([]dto.TestResultItem, 0, len(results))
	for _, r := range results {
		items = append(items, dto.NewTestResultItem(r))
	}
	return &dto.TestResultListResponse{Results: items, Pagination: response.Pagination{Page: page, PageSize: pageSize, TotalCount: total}}, nil
}

// Summary aggregates the user's history, served from cache when possible.
func (s *TestResultService) Summary(ctx context.Context, userID string) (*models.ResultSummary, bool, error) {
	var cached models.ResultSummary
	if s.cache.Get(ctx, summaryCacheKey(userID), &cached) {
		return &cached, true, nil
	}
	summary, err := s.loadSummary(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to load summary")
	}
	s.cache.Set(ctx, summaryCacheKey(userID), summary, s.summaryTTL)
	return summary, false, nil
}

func (s *TestResultService) loadSummary(ctx context.Context, userID string) (*models.ResultSummary, error) {
	summary, err := s.repo.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if summary.Attempts == 0 {
		return summary, nil
	}
	latest, err := s.repo.Latest(ctx, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		summary.LatestGrade = exam.Grade(latest.Percentage)
	}
	return summary, nil
}

// Export renders the user's full history as csv or pdf.
func (s *TestResultService) Export(ctx context.Context, userID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Unsupported export format")
	}

	results, err := s.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to load test results")
	}

	now := s.now().UTC()
	data := export.Dataset{
		Title:   "Test history",
		Caption: fmt.Sprintf("%d attempts, generated %s", len(results), now.Format(time.RFC1123)),
		Headers: []string{"Date", "Subject", "Difficulty", "Score", "Percentage", "Grade", "Time"},
		Widths:  []float64{3, 3, 2, 1.5, 1.5, 1, 1.5},
		Rows:    make([][]string, 0, len(results)),
	}
	for _, r := range results {
		data.Rows = append(data.Rows, []string{
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			deref(r.Subject),
			deref(r.Difficulty),
			fmt.Sprintf("%d/%d", r.Score, r.TotalQuestions),
			strconv.Itoa(r.Percentage) + "%",
			exam.Grade(r.Percentage),
			exam.FormatSeconds(r.TimeTaken),
		})
	}

	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("test-results-%s.%s", now.Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        body,
	}, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
