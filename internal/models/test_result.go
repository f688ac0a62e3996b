package models

import "time"

// TestResult is one persisted exam submission.
type TestResult struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"userId"`
	TotalQuestions int       `db:"total_questions" json:"totalQuestions"`
	CorrectAnswers int       `db:"correct_answers" json:"correctAnswers"`
	WrongAnswers   int       `db:"wrong_answers" json:"wrongAnswers"`
	Unanswered     int       `db:"unanswered" json:"unanswered"`
	Score          int       `db:"score" json:"score"`
	Percentage     int       `db:"percentage" json:"percentage"`
	TimeTaken      int       `db:"time_taken" json:"timeTaken"`
	Subject        *string   `db:"subject" json:"subject,omitempty"`
	Difficulty     *string   `db:"difficulty" json:"difficulty,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// TestResultFilter pages through one user's results.
type TestResultFilter struct {
	UserID   string
	Page     int
	PageSize int
}

// ResultSummary aggregates a user's history for the dashboard.
type ResultSummary struct {
	Attempts          int        `db:"attempts" json:"attempts"`
	AveragePercentage float64    `db:"average_percentage" json:"averagePercentage"`
	BestPercentage    int        `db:"best_percentage" json:"bestPercentage"`
	TotalCorrect      int        `db:"total_correct" json:"totalCorrect"`
	TotalQuestions    int        `db:"total_questions" json:"totalQuestions"`
	AverageTimeTaken  float64    `db:"average_time_taken" json:"averageTimeTaken"`
	LastAttemptAt     *time.Time `db:"last_attempt_at" json:"lastAttemptAt,omitempty"`
	LatestGrade       string     `db:"-" json:"latestGrade,omitempty"`
}
