package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcq-exam-api/internal/models"
)

var resultRowColumns = []string{"id", "user_id", "total_questions", "correct_answers", "wrong_answers", "unanswered", "score", "percentage", "time_taken", "subject", "difficulty", "created_at"}

func TestCreateTestResult(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestResultRepository(db)

	mock.ExpectExec("INSERT INTO test_results").WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.TestResult{UserID: "u1", TotalQuestions: 5, CorrectAnswers: 3, WrongAnswers: 1, Unanswered: 1, Score: 3, Percentage: 60, TimeTaken: 125}
	require.NoError(t, repo.Create(context.Background(), result))
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTestResultsByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestResultRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(resultRowColumns).
		AddRow("r2", "u1", 10, 8, 2, 0, 8, 80, 300, "Math", "easy", now).
		AddRow("r1", "u1", 10, 5, 3, 2, 5, 50, 540, nil, nil, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM test_results WHERE user_id = $1 ORDER BY created_at DESC LIMIT 10 OFFSET 10")).
		WithArgs("u1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM test_results WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	results, total, err := repo.ListByUser(context.Background(), models.TestResultFilter{UserID: "u1", Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 12, total)
	assert.Equal(t, "Math", *results[0].Subject)
	assert.Nil(t, results[1].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryEmptyHistory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestResultRepository(db)

	rows := sqlmock.NewRows([]string{"attempts", "average_percentage", "best_percentage", "total_correct", "total_questions", "average_time_taken", "last_attempt_at"}).
		AddRow(0, 0, 0, 0, 0, 0, nil)
	mock.ExpectQuery("FROM test_results WHERE user_id = \\$1").WithArgs("u1").WillReturnRows(rows)

	summary, err := repo.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Attempts)
	assert.Nil(t, summary.LastAttemptAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
