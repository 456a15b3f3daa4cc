// Package polish rewrites rule-derived drafts for tone with a language model.
// The model has no authority over the decision; guardrails run on its output.
package polish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Polisher rewrites a draft reply.
type Polisher interface {
	Polish(ctx context.Context, decisionText, draft, customerMessage string) (string, error)
}

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("empty completion")

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxWords    int
	Timeout     time.Duration
}

// Ollama calls the non-streaming /api/generate endpoint.
type Ollama struct {
	cfg OllamaConfig
}

// NewOllama builds a client with defaults for unset fields.
func NewOllama(cfg OllamaConfig) *Ollama {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "llama3.1"
	}
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = 180
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &Ollama{cfg: cfg}
}

// Model returns the configured generation model.
func (o *Ollama) Model() string {
	return o.cfg.Model
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Options generateOptions `json:"options"`
	Stream  bool            `json:"stream"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Polish asks the model to rephrase draft without changing its content.
func (o *Ollama) Polish(ctx context.Context, decisionText, draft, customerMessage string) (string, error) {
	prompt := BuildPrompt(decisionText, draft, customerMessage, o.cfg.MaxWords)
	return o.Generate(ctx, prompt, o.cfg.Temperature)
}

// Generate runs one completion and returns the trimmed response text.
func (o *Ollama) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	var resp generateResponse
	req := generateRequest{
		Model:   o.cfg.Model,
		Prompt:  prompt,
		Options: generateOptions{Temperature: temperature},
		Stream:  false,
	}
	if err := o.do(ctx, fiber.MethodPost, "/api/generate", req, &resp); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	text := strings.TrimSpace(resp.Response)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// Version reports the server version, used by health checks.
func (o *Ollama) Version(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := o.do(ctx, fiber.MethodGet, "/api/version", nil, &out); err != nil {
		return nil, fmt.Errorf("ollama version: %w", err)
	}
	return out, nil
}

func (o *Ollama) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := o.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	var agent *fiber.Agent
	if method == fiber.MethodPost {
		agent = fiber.Post(o.cfg.BaseURL + path).JSON(body)
	} else {
		agent = fiber.Get(o.cfg.BaseURL + path)
	}
	agent.Timeout(timeout)

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if status >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", status)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
