package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
	"github.com/noah-isme/mcq-exam-api/pkg/llm"
)

const (
	generationFailedMessage  = "Failed to generate MCQs. Please try again."
	generationInvalidMessage = "Generated questions failed validation"
)

type questionGenerator interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// QuestionService turns generation requests into validated question sets.
type QuestionService struct {
	generator questionGenerator
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(generator questionGenerator, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{generator: generator, validator: validate, metrics: metrics, logger: logger, now: time.Now}
}

// Generate validates req, asks the generator for a set and validates the reply.
func (s *QuestionService) Generate(ctx context.Context, req dto.GenerateMCQRequest) (*dto.GenerateMCQResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Invalid request data")
	}
	params := req.Normalize()

	start := s.now()
	raw, err := s.generator.Complete(ctx, llm.Request{
		System:     "You write multiple choice exam questions and answer only with JSON matching the given schema.",
		Prompt:     BuildPrompt(params),
		SchemaName: "mcq_set",
		Schema:     mcqSetSchema(),
	})
	elapsed := s.now().Sub(start)
	if err != nil {
		mapped := classifyGenerationError(err)
		s.metrics.RecordGeneration(strings.ToLower(mapped.Code), elapsed)
		s.logger.Warn("question generation failed", zap.String("subject", params.Subject), zap.Int("count", params.Count), zap.Error(err))
		return nil, mapped
	}

	mcqs, err := s.decode(raw, params)
	if err != nil {
		s.metrics.RecordGeneration("invalid", elapsed)
		s.logger.Warn("generated questions failed validation", zap.Int("count", params.Count), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, generationInvalidMessage)
	}
	s.metrics.RecordGeneration("success", elapsed)

	return &dto.GenerateMCQResponse{
		Success: true,
		MCQs:    mcqs,
		Metadata: dto.GenerationMetadata{
			TotalQuestions:   len(mcqs),
			Subject:          params.Subject,
			Topic:            params.Topic,
			Difficulty:       params.Difficulty,
			Language:         params.Language,
			ExamType:         params.ExamType,
			GeneratedAt:      s.now().UTC(),
			ProcessingTimeMs: elapsed.Milliseconds(),
		},
	}, nil
}

// Usage describes the endpoint for GET callers.
func (s *QuestionService) Usage() dto.GenerationUsage {
	return dto.GenerationUsage{
		Message: "MCQ Generator API is running",
		Endpoints: dto.UsageEndpoint{
			POST:        "/api/generate-mcq",
			Description: "Generate multiple choice questions",
			Parameters: map[string]string{
				"count":      fmt.Sprintf("number (1-%d, default: %d)", dto.MaxQuestionCount, dto.DefaultQuestionCount),
				"subject":    "string (default: " + dto.DefaultSubject + ")",
				"topic":      "string (optional)",
				"difficulty": "easy|medium|hard (default: medium)",
				"language":   "english|bengali (default: bengali)",
				"examType":   "string (optional, e.g., BCS, University)",
			},
		},
		Example: map[string]any{
			"count":      5,
			"subject":    "গণিত",
			"topic":      "বীজগণিত",
			"difficulty": "medium",
			"language":   "bengali",
			"examType":   "বিসিএস",
		},
	}
}

func (s *QuestionService) decode(raw string, params dto.GenerationParams) ([]models.MCQ, error) {
	var payload struct {
		MCQs []models.MCQ `json:"mcqs"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode generated set: %w", err)
	}
	if err := s.ValidateSet(payload.MCQs, params.Count); err != nil {
		return nil, err
	}
	for i := range payload.MCQs {
		if payload.MCQs[i].Subject == "" {
			payload.MCQs[i].Subject = params.Subject
		}
		if payload.MCQs[i].Topic == "" {
			payload.MCQs[i].Topic = params.Topic
		}
	}
	return payload.MCQs, nil
}

// ValidateSet checks a generated set: exactly count questions, four uniquely labeled options each,
// a correct answer among those labels and unique ids.
func (s *QuestionService) ValidateSet(mcqs []models.MCQ, count int) error {
	if len(mcqs) != count {
		return fmt.Errorf("expected %d questions, got %d", count, len(mcqs))
	}
	ids := make(map[int]struct{}, len(mcqs))
	for i, mcq := range mcqs {
		if err := s.validator.Struct(mcq); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		labels := make(map[string]struct{}, len(mcq.Options))
		for _, opt := range mcq.Options {
			if _, dup := labels[opt.Label]; dup {
				return fmt.Errorf("question %d: duplicate option label %s", i+1, opt.Label)
			}
			labels[opt.Label] = struct{}{}
		}
		if _, ok := labels[mcq.CorrectAnswer]; !ok {
			return fmt.Errorf("question %d: correct answer %s is not an option", i+1, mcq.CorrectAnswer)
		}
		if _, dup := ids[mcq.ID]; dup {
			return fmt.Errorf("question %d: duplicate id %d", i+1, mcq.ID)
		}
		ids[mcq.ID] = struct{}{}
	}
	return nil
}

func classifyGenerationError(err error) *appErrors.Error {
	if errors.Is(err, llm.ErrRateLimited) || strings.Contains(strings.ToLower(err.Error()), "rate limit") {
		return appErrors.Wrap(err, appErrors.ErrRateLimited.Code, appErrors.ErrRateLimited.Status, appErrors.ErrRateLimited.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, generationFailedMessage)
}

// BuildPrompt renders the localized generation instruction.
func BuildPrompt(p dto.GenerationParams) string {
	var b strings.Builder
	if p.Language == models.LanguageBengali {
		fmt.Fprintf(&b, "ঠিক %dটি বহুনির্বাচনী প্রশ্ন তৈরি করুন %s বিষয়ে", p.Count, p.Subject)
		if p.Topic != "" {
			fmt.Fprintf(&b, " বিশেষভাবে %s টপিকে", p.Topic)
		}
		fmt.Fprintf(&b, " %s অসুবিধার স্তরে।\n\n", p.Difficulty)
		b.WriteString("গুরুত্বপূর্ণ শর্তাবলী:\n")
		b.WriteString("- প্রতিটি প্রশ্নে ৪টি অপশন থাকবে যা একে অপরের খুব কাছাকাছি\n")
		b.WriteString("- সব অপশনই যুক্তিযুক্ত হতে হবে - কোনো স্পষ্ট ভুল উত্তর নয়\n")
		b.WriteString("- বিভ্রান্তিকর অপশনগুলো প্রকৃত বোঝাপড়া পরীক্ষা করবে\n")
		fmt.Fprintf(&b, "- প্রশ্নের নম্বর ১ থেকে %d পর্যন্ত\n", p.Count)
		b.WriteString("- স্পষ্ট ব্যাখ্যা দিন\n")
		b.WriteString("- সময়বদ্ধ পরীক্ষার জন্য উপযুক্ত প্রশ্ন তৈরি করুন\n")
		if p.ExamType != "" {
			fmt.Fprintf(&b, "- %s পরীক্ষার ধরনের জন্য উপযুক্ত করুন\n", p.ExamType)
		}
		b.WriteString("\nউদাহরণ কাছাকাছি অপশন:\n")
		b.WriteString("প্রশ্ন: \"বাংলাদেশের স্বাধীনতা লাভের তারিখ কোনটি?\"\n")
		b.WriteString("A. ২৬ মার্চ, ১৯৭১  B. ১৬ ডিসেম্বর, ১৯৭১  C. ২৩ মার্চ, ১৯৭১  D. ২৫ মার্চ, ১৯৭১\n\n")
		b.WriteString("সব প্রশ্ন ও উত্তর বাংলায় লিখুন।")
		return b.String()
	}

	fmt.Fprintf(&b, "Generate exactly %d multiple choice questions about %s", p.Count, p.Subject)
	if p.Topic != "" {
		fmt.Fprintf(&b, " focusing on %s", p.Topic)
	}
	fmt.Fprintf(&b, " at %s difficulty level.\n\n", p.Difficulty)
	b.WriteString("CRITICAL REQUIREMENTS:\n")
	b.WriteString("- Each question must have 4 options that are VERY CLOSE to each other\n")
	b.WriteString("- All options should be plausible - no obviously wrong answers\n")
	b.WriteString("- Distractors should test genuine understanding\n")
	fmt.Fprintf(&b, "- Number questions from 1 to %d\n", p.Count)
	b.WriteString("- Provide clear explanations\n")
	b.WriteString("- Make questions suitable for a timed test environment\n")
	if p.ExamType != "" {
		fmt.Fprintf(&b, "- Make it suitable for %s exam type\n", p.ExamType)
	}
	b.WriteString("\nEXAMPLE of close options:\n")
	b.WriteString("Question: \"What is the value of π to 4 decimal places?\"\n")
	b.WriteString("A. 3.1415  B. 3.1416  C. 3.1417  D. 3.1414")
	return b.String()
}

func mcqSetSchema() *jsonschema.Definition {
	labels := append([]string(nil), models.OptionLabels...)
	option := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"label": {Type: jsonschema.String, Enum: labels},
			"text":  {Type: jsonschema.String},
		},
		Required:             []string{"label", "text"},
		AdditionalProperties: false,
	}
	mcq := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"id":            {Type: jsonschema.Integer},
			"subject":       {Type: jsonschema.String},
			"topic":         {Type: jsonschema.String},
			"difficulty":    {Type: jsonschema.String, Enum: []string{"easy", "medium", "hard"}},
			"question":      {Type: jsonschema.String},
			"options":       {Type: jsonschema.Array, Items: &option, Description: "Exactly four options labeled A, B, C and D"},
			"correctAnswer": {Type: jsonschema.String, Enum: labels},
			"explanation":   {Type: jsonschema.String},
		},
		Required:             []string{"id", "subject", "topic", "difficulty", "question", "options", "correctAnswer", "explanation"},
		AdditionalProperties: false,
	}
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"mcqs": {Type: jsonschema.Array, Items: &mcq},
		},
		Required:             []string{"mcqs"},
		AdditionalProperties: false,
	}
}
