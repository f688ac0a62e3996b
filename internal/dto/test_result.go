package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/noah-isme/mcq-exam-api/internal/exam"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

// Seconds decodes either a JSON number of seconds or an "MM:SS" / "H:MM:SS" string.
// Anything unparseable or negative decodes to zero.
type Seconds int

// MaxSeconds is the largest duration the time_taken column holds. Larger values are treated as invalid.
const MaxSeconds = math.MaxInt32

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		secs, err := exam.ParseClock(raw)
		if err != nil || secs > MaxSeconds {
			*s = 0
			return nil
		}
		*s = Seconds(secs)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*s = 0
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > MaxSeconds {
		*s = 0
		return nil
	}
	*s = Seconds(math.Trunc(f))
	return nil
}

// SaveTestResultRequest is the body of POST /api/save-test-result. Answers and MCQs are the
// optional richer payload; when MCQs are present the counts are recomputed server side.
type SaveTestResultRequest struct {
	TotalQuestions int            `json:"totalQuestions" validate:"gte=0"`
	CorrectAnswers int            `json:"correctAnswers" validate:"gte=0"`
	WrongAnswers   int            `json:"wrongAnswers" validate:"gte=0"`
	Unanswered     int            `json:"unanswered" validate:"gte=0"`
	Score          int            `json:"score" validate:"gte=0"`
	Percentage     int            `json:"percentage" validate:"gte=0,lte=100"`
	TimeTaken      Seconds        `json:"timeTaken"`
	Subject        string         `json:"subject" validate:"max=255"`
	Difficulty     string         `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Answers        map[int]string `json:"answers"`
	MCQs           []models.MCQ   `json:"mcqs" validate:"omitempty,max=40"`
}

// SaveTestResultResponse is the success body of POST /api/save-test-result.
type SaveTestResultResponse struct {
	Success   bool      `json:"success"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// TestResultListResponse lists a user's results newest first.
type TestResultListResponse struct {
	Results []TestResultItem `json:"results"`
	response.Pagination
}

// TestResultItem decorates a stored result with derived display fields.
type TestResultItem struct {
	models.TestResult
	Grade         string `json:"grade"`
	TimeFormatted string `json:"timeFormatted"`
}

// NewTestResultItem derives the display fields of a result.
func NewTestResultItem(r models.TestResult) TestResultItem {
	return TestResultItem{TestResult: r, Grade: exam.Grade(r.Percentage), TimeFormatted: exam.FormatSeconds(r.TimeTaken)}
}
