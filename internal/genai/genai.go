// Package genai talks to an OpenAI-compatible chat-completions endpoint.
//
// The default endpoint is Groq, which speaks the OpenAI wire format, so the
// official openai-go client is used with a custom base URL.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/BTreeMap/MoyoCare/internal/models"
)

// Defaults for the completion call.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1/"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.55
	DefaultMaxTokens   = 300
	DefaultMaxRetries  = 2
)

var (
	// ErrMissingAPIKey is returned by NewClient when no API key is configured.
	ErrMissingAPIKey = errors.New("API key not set")
	// ErrNoChoicesReturned is returned when the completion has no choices.
	ErrNoChoicesReturned = errors.New("no choices returned")
)

// chatService defines minimal interface for chat completions.
type chatService interface {
	Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error)
}

// completionsAdapter adapts the SDK's completion service to chatService.
type completionsAdapter struct {
	svc *openai.ChatCompletionService
}

func (a completionsAdapter) Create(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletion, error) {
	resp, err := a.svc.New(ctx, params)
	if err != nil {
		return openai.ChatCompletion{}, err
	}
	return *resp, nil
}

// Opts holds configuration for the completion client.
type Opts struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	MaxRetries  int
	DebugMode   bool
	StateDir    string
}

// Option configures the completion client.
type Option func(*Opts)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithBaseURL points the client at another OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) Option {
	return func(o *Opts) { o.Temperature = temp }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int64) Option {
	return func(o *Opts) { o.MaxTokens = n }
}

// WithMaxRetries sets how often the SDK retries rate-limited or failed calls.
func WithMaxRetries(n int) Option {
	return func(o *Opts) { o.MaxRetries = n }
}

// WithDebugMode enables writing every call to <state dir>/debug.
func WithDebugMode(enabled bool) Option {
	return func(o *Opts) { o.DebugMode = enabled }
}

// WithStateDir sets the directory debug call logs are written under.
func WithStateDir(dir string) Option {
	return func(o *Opts) { o.StateDir = dir }
}

// Client produces raw model replies for a system prompt and chat history.
type Client struct {
	chat        chatService
	model       string
	temperature float64
	maxTokens   int64
	debugMode   bool
	stateDir    string
}

// NewClient builds a client from the given options.
func NewClient(opts ...Option) (*Client, error) {
	cfg := Opts{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		MaxRetries:  DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	cli := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	)
	slog.Debug("genai.NewClient: client created", "base_url", cfg.BaseURL, "model", cfg.Model, "temperature", cfg.Temperature, "max_tokens", cfg.MaxTokens)
	return &Client{
		chat:        completionsAdapter{svc: &cli.Chat.Completions},
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		debugMode:   cfg.DebugMode,
		stateDir:    cfg.StateDir,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the system prompt followed by history and returns the first
// choice's content. Roles other than user and assistant are skipped.
func (c *Client) Complete(ctx context.Context, system string, history []models.ChatMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(system))
	for _, m := range history {
		switch m.Role {
		case models.RoleUser:
			messages = append(messages, openai.UserMessage(m.Content))
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	}

	slog.Debug("Client.Complete: sending request", "model", c.model, "messages", len(messages))
	resp, err := c.chat.Create(ctx, params)
	c.logDebugCall("Complete", params, resp, err)
	if err != nil {
		slog.Error("Client.Complete: completion failed", "model", c.model, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("Client.Complete: no choices returned", "model", c.model)
		return "", ErrNoChoicesReturned
	}
	content := resp.Choices[0].Message.Content
	slog.Debug("Client.Complete: completion received", "model", c.model, "length", len(content), "finish_reason", resp.Choices[0].FinishReason)
	return content, nil
}
