// Package gemini wraps the Google generative AI API behind the single
// invocation contract the job processor depends on.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/cvpilot/cv-analyzer/internal/common"
)

// Client sends prompts to the Gemini inference service. One outbound network
// call per Invoke; safe for concurrent use.
type Client struct {
	genai       *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *slog.Logger
}

func NewClient(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, common.NewAppError("LLM_CONFIG", "API key is required", common.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		genai:       gc,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		log:         logger,
	}, nil
}

// Invoke sends the prompt and returns the raw text output. Failures map onto
// the pipeline taxonomy: ErrRateLimited when the provider throttles,
// ErrTimeout when the bounded deadline expires, ErrServiceUnavailable for
// everything else transport- or auth-shaped.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	c.log.Info("llm.invoke.start", "model", c.model, "prompt_bytes", len(prompt))

	model := c.genai.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	model.SetTopK(32)
	model.SetTopP(1)
	model.SetMaxOutputTokens(4096)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		mapped := mapInvokeError(err)
		c.log.Error("llm.invoke.failed",
			"model", c.model,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", mapped
	}

	text, err := extractText(resp)
	if err != nil {
		c.log.Error("llm.invoke.empty_response", "model", c.model, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	c.log.Info("llm.invoke.ok",
		"model", c.model,
		"response_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) Close() error {
	if c.genai != nil {
		return c.genai.Close()
	}
	return nil
}

func mapInvokeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrTimeout, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", common.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
