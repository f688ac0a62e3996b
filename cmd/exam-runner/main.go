package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/exam"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	"github.com/noah-isme/mcq-exam-api/pkg/response"
)

type options struct {
	base       string
	email      string
	password   string
	count      int
	subject    string
	topic      string
	difficulty string
	language   string
	questions  string
	submit     bool
	timeout    time.Duration
}

type apiClient struct {
	base string
	http *http.Client
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func main() {
	var opts options
	flag.StringVar(&opts.base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&opts.email, "email", "", "Account email")
	flag.StringVar(&opts.password, "password", "", "Account password")
	flag.IntVar(&opts.count, "count", 10, "Number of questions to generate")
	flag.StringVar(&opts.subject, "subject", "General", "Question subject")
	flag.StringVar(&opts.topic, "topic", "", "Optional topic")
	flag.StringVar(&opts.difficulty, "difficulty", "medium", "easy, medium or hard")
	flag.StringVar(&opts.language, "language", "english", "english or bengali")
	flag.StringVar(&opts.questions, "questions", "", "Read a question set from a JSON file instead of generating one")
	flag.BoolVar(&opts.submit, "submit", true, "Save the result to the account")
	flag.DurationVar(&opts.timeout, "timeout", 90*time.Second, "HTTP client timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("exam-runner: %v", err)
	}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	client, err := newAPIClient(opts.base, opts.timeout)
	if err != nil {
		return err
	}

	needsSession := opts.questions == "" || opts.submit
	if needsSession {
		if opts.email == "" || opts.password == "" {
			return errors.New("-email and -password are required")
		}
		if err := client.login(ctx, opts.email, opts.password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	var mcqs []models.MCQ
	if opts.questions != "" {
		mcqs, err = loadQuestions(opts.questions)
	} else {
		count := opts.count
		mcqs, err = client.generate(ctx, dto.GenerateMCQRequest{
			Count:      &count,
			Subject:    opts.subject,
			Topic:      opts.topic,
			Difficulty: models.Difficulty(opts.difficulty),
			Language:   models.Language(opts.language),
		})
	}
	if err != nil {
		return err
	}
	if len(mcqs) == 0 {
		return errors.New("no questions to answer")
	}

	timer := exam.NewTimer(len(mcqs))
	answers := takeExam(ctx, timer, mcqs, in, out)
	elapsed := timer.Elapsed()
	result := exam.Score(mcqs, answers)

	printResult(out, result, elapsed, timer.Reason())

	if !opts.submit {
		return nil
	}
	return client.save(ctx, dto.SaveTestResultRequest{
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		WrongAnswers:   result.WrongAnswers,
		Unanswered:     result.Unanswered,
		Score:          result.Score,
		Percentage:     result.Percentage,
		TimeTaken:      dto.Seconds(elapsed),
		Subject:        opts.subject,
		Difficulty:     opts.difficulty,
		Answers:        answers,
		MCQs:           mcqs,
	})
}

// takeExam asks each question in order until every question is answered, the
// input ends, or the timer expires. Answers given so far are kept on expiry.
func takeExam(ctx context.Context, timer *exam.Timer, mcqs []models.MCQ, in io.Reader, out io.Writer) map[int]string {
	answers := make(map[int]string, len(mcqs))
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-timer.Done():
				return
			}
		}
	}()

	if err := timer.Start(ctx); err != nil {
		return answers
	}
	defer timer.Stop()

	fmt.Fprintf(out, "%d questions, %s on the clock\n", len(mcqs), exam.FormatSeconds(timer.Duration()))
	for i := 0; i < len(mcqs); i++ {
		q := mcqs[i]
		fmt.Fprintf(out, "\n[%s] %d. %s\n", timer.FormatRemaining(), i+1, q.Question)
		for _, opt := range q.Options {
			fmt.Fprintf(out, "   %s) %s\n", opt.Label, opt.Text)
		}
		fmt.Fprint(out, "answer (A-D, blank to skip): ")

		select {
		case line, ok := <-lines:
			if !ok {
				return answers
			}
			choice := strings.ToUpper(strings.TrimSpace(line))
			if choice == "" {
				continue
			}
			if !validChoice(q, choice) {
				fmt.Fprintf(out, "%q is not an option\n", choice)
				i--
				continue
			}
			answers[q.ID] = choice
		case <-timer.Expired():
			fmt.Fprintln(out, "\ntime is up, submitting")
			return answers
		case <-ctx.Done():
			return answers
		}
	}
	return answers
}

func validChoice(q models.MCQ, choice string) bool {
	for _, opt := range q.Options {
		if opt.Label == choice {
			return true
		}
	}
	return false
}

func printResult(out io.Writer, res exam.Result, elapsed int, reason exam.StopReason) {
	fmt.Fprintln(out, "\nExam Result")
	fmt.Fprintln(out, "===========")
	fmt.Fprintf(out, "Score: %d/%d (%d%%) grade %s\n", res.Score, res.TotalQuestions, res.Percentage, exam.Grade(res.Percentage))
	fmt.Fprintf(out, "Correct: %d | Wrong: %d | Unanswered: %d\n", res.CorrectAnswers, res.WrongAnswers, res.Unanswered)
	fmt.Fprintf(out, "Time taken: %s (%s)\n", exam.FormatSeconds(elapsed), reason)
}

func loadQuestions(path string) ([]models.MCQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		MCQs []models.MCQ `json:"mcqs"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.MCQs) > 0 {
		return envelope.MCQs, nil
	}
	var mcqs []models.MCQ
	if err := json.Unmarshal(data, &mcqs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return mcqs, nil
}

func newAPIClient(base string, timeout time.Duration) (*apiClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

func (c *apiClient) login(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/login", dto.LoginRequest{Email: email, Password: password}, nil)
}

func (c *apiClient) generate(ctx context.Context, req dto.GenerateMCQRequest) ([]models.MCQ, error) {
	var resp dto.GenerateMCQResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate-mcq", req, &resp); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return resp.MCQs, nil
}

func (c *apiClient) save(ctx context.Context, req dto.SaveTestResultRequest) error {
	if err := c.do(ctx, http.MethodPost, "/api/save-test-result", req, nil); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var failure response.ErrorBody
		_ = json.Unmarshal(data, &failure)
		msg := failure.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &apiError{Status: resp.StatusCode, Message: msg}
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(data, dest)
}
