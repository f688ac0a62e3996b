package exam

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/mcq-exam-api/internal/models"
)

// Result summarises a scored exam.
type Result struct {
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
	WrongAnswers   int `json:"wrongAnswers"`
	Unanswered     int `json:"unanswered"`
	Score          int `json:"score"`
	Percentage     int `json:"percentage"`
}

// Score tallies answers (keyed by question id) against the correct labels.
// Answers for ids outside the question set are ignored.
func Score(mcqs []models.MCQ, answers map[int]string) Result {
	res := Result{TotalQuestions: len(mcqs)}
	for _, q := range mcqs {
		given := strings.ToUpper(strings.TrimSpace(answers[q.ID]))
		switch {
		case given == "":
			res.Unanswered++
		case given == strings.ToUpper(q.CorrectAnswer):
			res.CorrectAnswers++
		default:
			res.WrongAnswers++
		}
	}
	res.Score = res.CorrectAnswers
	res.Percentage = Percentage(res.CorrectAnswers, res.TotalQuestions)
	return res
}

// Percentage returns round(correct / total * 100), or 0 for an empty exam.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Grade maps a percentage onto the letter bands shown with results.
func Grade(percentage int) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}

// FormatSeconds renders seconds as zero padded MM:SS.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseClock accepts "MM:SS" or "H:MM:SS" and returns whole seconds.
func ParseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	values := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > math.MaxInt32 {
			return 0, fmt.Errorf("invalid clock value %q", raw)
		}
		values[i] = n
	}
	if len(values) == 2 {
		return values[0]*60 + values[1], nil
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}
