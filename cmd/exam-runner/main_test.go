package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/exam"
	"github.com/noah-isme/mcq-exam-api/internal/models"
)

func questionSet(n int) []models.MCQ {
	mcqs := make([]models.MCQ, n)
	for i := range mcqs {
		mcqs[i] = models.MCQ{
			ID:       i + 1,
			Question: "Question?",
			Options: []models.Option{
				{Label: "A", Text: "one"}, {Label: "B", Text: "two"},
				{Label: "C", Text: "three"}, {Label: "D", Text: "four"},
			},
			CorrectAnswer: "B",
			Difficulty:    models.DifficultyMedium,
			Explanation:   "because",
		}
	}
	return mcqs
}

func TestTakeExamCollectsAnswers(t *testing.T) {
	mcqs := questionSet(3)
	timer := exam.NewTimerWithDuration(time.Hour)
	var out bytes.Buffer

	answers := takeExam(context.Background(), timer, mcqs, strings.NewReader("b\n\nX\nC\n"), &out)

	assert.Equal(t, map[int]string{1: "B", 3: "C"}, answers)
	assert.Contains(t, out.String(), `"X" is not an option`)
	assert.Equal(t, exam.StateStopped, timer.State())
}

func TestTakeExamStopsAtEndOfInput(t *testing.T) {
	mcqs := questionSet(4)
	timer := exam.NewTimerWithDuration(time.Hour)

	answers := takeExam(context.Background(), timer, mcqs, strings.NewReader("A\n"), &bytes.Buffer{})

	res := exam.Score(mcqs, answers)
	assert.Equal(t, 1, res.WrongAnswers)
	assert.Equal(t, 3, res.Unanswered)
}

func TestRunGeneratesAndSubmits(t *testing.T) {
	var saved dto.SaveTestResultRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "token", Path: "/"})
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"user":{}}`))
	})
	mux.HandleFunc("/api/generate-mcq", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(dto.GenerateMCQResponse{Success: true, MCQs: questionSet(2)})
	})
	mux.HandleFunc("/api/save-test-result", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&saved)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), options{
		base: srv.URL, email: "a@b.co", password: "secret1", count: 2,
		subject: "Math", difficulty: "medium", language: "english", submit: true, timeout: time.Second,
	}, strings.NewReader("B\nA\n"), &out)

	require.NoError(t, err)
	assert.Equal(t, 2, saved.TotalQuestions)
	assert.Equal(t, 1, saved.CorrectAnswers)
	assert.Equal(t, 1, saved.WrongAnswers)
	assert.Equal(t, 50, saved.Percentage)
	assert.Len(t, saved.MCQs, 2)
	assert.Contains(t, out.String(), "grade D")
}

func TestRunSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	err := run(context.Background(), options{base: srv.URL, email: "a@b.co", password: "nope", timeout: time.Second}, strings.NewReader(""), &bytes.Buffer{})

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}
