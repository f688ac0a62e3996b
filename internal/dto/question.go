package dto

import (
	"time"

	"github.com/noah-isme/mcq-exam-api/internal/models"
)

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 40
	DefaultSubject       = "General"
)

// GenerateMCQRequest is the body of POST /api/generate-mcq. Pointer fields distinguish absent from zero.
type GenerateMCQRequest struct {
	Count      *int              `json:"count" validate:"omitempty,min=1,max=40"`
	Subject    string            `json:"subject"`
	Topic      string            `json:"topic"`
	Difficulty models.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Language   models.Language   `json:"language" validate:"omitempty,oneof=english bengali"`
	ExamType   string            `json:"examType"`
}

// GenerationParams are the request values after defaults were applied.
type GenerationParams struct {
	Count      int
	Subject    string
	Topic      string
	Difficulty models.Difficulty
	Language   models.Language
	ExamType   string
}

// Normalize applies defaults to an already validated request.
func (r GenerateMCQRequest) Normalize() GenerationParams {
	p := GenerationParams{
		Count:      DefaultQuestionCount,
		Subject:    r.Subject,
		Topic:      r.Topic,
		Difficulty: r.Difficulty,
		Language:   r.Language,
		ExamType:   r.ExamType,
	}
	if r.Count != nil {
		p.Count = *r.Count
	}
	if p.Subject == "" {
		p.Subject = DefaultSubject
	}
	if p.Difficulty == "" {
		p.Difficulty = models.DifficultyMedium
	}
	if p.Language == "" {
		p.Language = models.LanguageBengali
	}
	return p
}

// GenerationMetadata accompanies a generated set.
type GenerationMetadata struct {
	TotalQuestions   int               `json:"totalQuestions"`
	Subject          string            `json:"subject"`
	Topic            string            `json:"topic,omitempty"`
	Difficulty       models.Difficulty `json:"difficulty"`
	Language         models.Language   `json:"language"`
	ExamType         string            `json:"examType,omitempty"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

// GenerateMCQResponse is the success body of POST /api/generate-mcq.
type GenerateMCQResponse struct {
	Success  bool               `json:"success"`
	MCQs     []models.MCQ       `json:"mcqs"`
	Metadata GenerationMetadata `json:"metadata"`
}

// RateLimitStatus describes a caller's quota.
type RateLimitStatus struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"resetTime"`
	TotalHits int   `json:"totalHits"`
}

// GenerationUsage documents the generation endpoint for GET callers.
type GenerationUsage struct {
	Message   string           `json:"message"`
	Endpoints UsageEndpoint    `json:"endpoints"`
	Example   map[string]any   `json:"example"`
	RateLimit *RateLimitStatus `json:"rateLimit,omitempty"`
}

// UsageEndpoint describes one generation endpoint and its parameters.
type UsageEndpoint struct {
	POST        string            `json:"POST"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}
