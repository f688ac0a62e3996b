package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mcq-exam-api/internal/models"
)

const testResultColumns = `id, user_id, total_questions, correct_answers, wrong_answers, unanswered, score, percentage, time_taken, subject, difficulty, created_at`

// TestResultRepository persists exam submissions.
type TestResultRepository struct {
	db *sqlx.DB
}

// NewTestResultRepository creates a new TestResultRepository.
func NewTestResultRepository(db *sqlx.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

// Create inserts a result row; results are never updated afterwards.
func (r *TestResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO test_results (` + testResultColumns + `) VALUES (:id, :user_id, :total_questions, :correct_answers, :wrong_answers, :unanswered, :score, :percentage, :time_taken, :subject, :difficulty, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("create test result: %w", err)
	}
	return nil
}

// ListByUser returns a page of the user's results ordered newest first, with the total count.
func (r *TestResultRepository) ListByUser(ctx context.Context, filter models.TestResultFilter) ([]models.TestResult, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT %s FROM test_results WHERE user_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, testResultColumns, pageSize, offset)
	var results []models.TestResult
	if err := r.db.SelectContext(ctx, &results, listQuery, filter.UserID); err != nil {
		return nil, 0, fmt.Errorf("list test results: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM test_results WHERE user_id = $1`, filter.UserID); err != nil {
		return nil, 0, fmt.Errorf("count test results: %w", err)
	}

	return results, total, nil
}

// ListAllByUser returns every result for export, newest first.
func (r *TestResultRepository) ListAllByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	query := `SELECT ` + testResultColumns + ` FROM test_results WHERE user_id = $1 ORDER BY created_at DESC`
	var results []models.TestResult
	if err := r.db.SelectContext(ctx, &results, query, userID); err != nil {
		return nil, fmt.Errorf("list all test results: %w", err)
	}
	return results, nil
}

// Summary aggregates a user's history. A user with no results yields a zero summary.
func (r *TestResultRepository) Summary(ctx context.Context, userID string) (*models.ResultSummary, error) {
	const query = `SELECT COUNT(*) AS attempts,
		COALESCE(AVG(percentage), 0) AS average_percentage,
		COALESCE(MAX(percentage), 0) AS best_percentage,
		COALESCE(SUM(correct_answers), 0) AS total_correct,
		COALESCE(SUM(total_questions), 0) AS total_questions,
		COALESCE(AVG(time_taken), 0) AS average_time_taken,
		MAX(created_at) AS last_attempt_at
		FROM test_results WHERE user_id = $1`
	var summary models.ResultSummary
	if err := r.db.GetContext(ctx, &summary, query, userID); err != nil {
		return nil, fmt.Errorf("summarise test results: %w", err)
	}
	return &summary, nil
}

// Latest returns the most recent result for a user.
func (r *TestResultRepository) Latest(ctx context.Context, userID string) (*models.TestResult, error) {
	query := `SELECT ` + testResultColumns + ` FROM test_results WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	var result models.TestResult
	if err := r.db.GetContext(ctx, &result, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("latest test result: %w", err)
	}
	return &result, nil
}
