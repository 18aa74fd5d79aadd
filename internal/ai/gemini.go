package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"NewsBriefing/internal/config"
	"NewsBriefing/internal/digest"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmptyResponse means the model answered without any text
var ErrEmptyResponse = errors.New("empty response from model")

// SummarizationError wraps every failure of a summarize call
type SummarizationError struct {
	Model string
	Err   error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarize with %s: %v", e.Model, e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// contentGenerator is the slice of genai.Models the summarizer needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSummarizer turns a composed digest request into the final digest text
type GeminiSummarizer struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	log         *zap.Logger
}

// GeminiOption customizes the summarizer
type GeminiOption func(*GeminiSummarizer)

// WithGenerator replaces the genai backend, used by tests
func WithGenerator(g contentGenerator) GeminiOption {
	return func(s *GeminiSummarizer) {
		s.models = g
	}
}

// NewGeminiSummarizer creates the genai client for the Gemini API backend
func NewGeminiSummarizer(ctx context.Context, cfg config.Gemini, model string, temperature float32, timeout time.Duration, log *zap.Logger, opts ...GeminiOption) (*GeminiSummarizer, error) {
	s := &GeminiSummarizer{
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		log:         log.Named("gemini"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.models == nil {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     cfg.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: timeout},
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		s.models = client.Models
	}

	s.log.Info("🔧 Gemini summarizer ready", zap.String("model", model), zap.Float32("temperature", temperature))
	return s, nil
}

// Model returns the configured model name
func (s *GeminiSummarizer) Model() string {
	return s.model
}

// Summarize sends the whole prompt in one request and returns the model text
func (s *GeminiSummarizer) Summarize(ctx context.Context, req digest.Request) (string, error) {
	prompt := req.Prompt()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	temperature := s.temperature
	started := time.Now()
	s.log.Info("🤖 Requesting digest",
		zap.Int("categories", len(req.Blocks)),
		zap.Int("articles", req.ArticleCount()),
		zap.Int("prompt_chars", utf8.RuneCountInString(prompt)),
	)

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", &SummarizationError{Model: s.model, Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &SummarizationError{Model: s.model, Err: ErrEmptyResponse}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &SummarizationError{Model: s.model, Err: ErrEmptyResponse}
	}

	fields := []zap.Field{
		zap.Int("digest_chars", utf8.RuneCountInString(text)),
		zap.Duration("took", time.Since(started)),
	}
	if resp.UsageMetadata != nil {
		fields = append(fields, zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount))
	}
	s.log.Info("✅ Digest generated", fields...)
	return text, nil
}
