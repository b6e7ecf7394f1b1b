package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tripplanner/config"
	"tripplanner/logger"
	"tripplanner/metrics"
)

// MinContentLength is the shortest itinerary accepted from the backend, in characters.
const MinContentLength = 100

// abandonGrace bounds how long an abandoned backend call may keep running after the
// caller has stopped waiting for it.
const abandonGrace = 30 * time.Second

const maxResponseBytes = 4 << 20

// Generator produces itinerary text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMClient talks to an OpenAI-compatible chat completions endpoint.
//
// Each call makes exactly one attempt. The HTTP request runs in its own goroutine and the
// caller waits at most cfg.Timeout for it. When the wait expires the goroutine is abandoned,
// not cancelled: the backend may still finish the request, and its result is dropped. The
// http.Client timeout (Timeout + abandonGrace) is what eventually stops an abandoned call.
type LLMClient struct {
	cfg        config.LLMConfig
	httpClient *http.Client
	tracer     trace.Tracer
}

var _ Generator = (*LLMClient)(nil)

// NewLLMClient returns ErrMissingCredential when cfg has no API key.
func NewLLMClient(cfg config.LLMConfig) (*LLMClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if cfg.APIURL == "" {
		return nil, errors.New("text-generation API URL not configured")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("text-generation timeout must be positive, got %s", cfg.Timeout)
	}

	return &LLMClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout + abandonGrace,
		},
		tracer: otel.Tracer("tripplanner/services"),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type callResult struct {
	content string
	err     error
}

// Generate returns the backend's text or a *GenerationError.
func (c *LLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.model", c.cfg.Model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	content, err := c.await(ctx, prompt)
	if err == nil && utf8.RuneCountInString(strings.TrimSpace(content)) < MinContentLength {
		err = &GenerationError{Kind: KindTooShort}
	}

	metrics.LLMCallDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	outcome := "success"
	var ge *GenerationError
	if errors.As(err, &ge) {
		outcome = ge.Kind.String()
	}
	metrics.LLMCallTotal.WithLabelValues(c.cfg.Model, outcome).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.FromContext(ctx).Warn("text generation failed",
			"model", c.cfg.Model, "outcome", outcome, "elapsed", time.Since(start), "error", err)
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.content_chars", len(content)))
	return content, nil
}

// await runs the call in the background and stops waiting on timeout or when ctx ends.
func (c *LLMClient) await(ctx context.Context, prompt string) (string, error) {
	results := make(chan callResult, 1)
	go func() {
		content, err := c.call(context.WithoutCancel(ctx), prompt)
		results <- callResult{content: content, err: err}
	}()

	timer := time.NewTimer(c.cfg.Timeout)
	defer timer.Stop()

	select {
	case r := <-results:
		return r.content, r.err
	case <-timer.C:
		metrics.LLMAbandonedCalls.Inc()
		return "", &GenerationError{Kind: KindTimeout, Err: fmt.Errorf("no response after %s", c.cfg.Timeout)}
	case <-ctx.Done():
		metrics.LLMAbandonedCalls.Inc()
		return "", &GenerationError{Kind: KindTransport, Err: ctx.Err()}
	}
}

func (c *LLMClient) call(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Kind: KindTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &GenerationError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GenerationError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &GenerationError{Kind: KindTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GenerationError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.New(truncate(string(body), 300)),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &GenerationError{Kind: KindMalformed, Err: fmt.Errorf("failed to parse AI response: %w", err)}
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == nil {
		return "", &GenerationError{Kind: KindMalformed, Err: errors.New("no response content received")}
	}

	return *chatResp.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
