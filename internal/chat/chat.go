// Package chat wires Moyo's message analysis, the completion service and
// persistence into the operations the HTTP API exposes.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BTreeMap/MoyoCare/internal/composer"
	"github.com/BTreeMap/MoyoCare/internal/crisis"
	"github.com/BTreeMap/MoyoCare/internal/intent"
	"github.com/BTreeMap/MoyoCare/internal/language"
	"github.com/BTreeMap/MoyoCare/internal/models"
	"github.com/BTreeMap/MoyoCare/internal/persona"
	"github.com/BTreeMap/MoyoCare/internal/sentiment"
	"github.com/BTreeMap/MoyoCare/internal/store"
)

const (
	// DefaultHistoryLimit is how many trailing messages are sent to the model.
	DefaultHistoryLimit = 30
	// SessionHistoryLimit caps the messages returned by History.
	SessionHistoryLimit = 50
	// RuleBasedModel is reported as the model name for composer replies.
	RuleBasedModel = "rule-based"
)

var (
	// ErrCompletionFailed wraps any failure of the completion service.
	ErrCompletionFailed = errors.New("completion failed")
	// ErrNoCompleter is returned by Chat when no completion service is
	// configured and the rule-based fallback is disabled.
	ErrNoCompleter = errors.New("no completion service configured")
)

// Completer produces a raw model reply for a system prompt and history.
type Completer interface {
	Complete(ctx context.Context, system string, history []models.ChatMessage) (string, error)
	Model() string
}

// ChatReply is the result of one LLM-assisted turn.
type ChatReply struct {
	SessionID string        `json:"session_id"`
	Reply     string        `json:"reply"`
	Language  language.Code `json:"language"`
	Crisis    crisis.Signal `json:"crisis"`
	Replaced  bool          `json:"replaced"`
	Model     string        `json:"model"`
	Thinking  []string      `json:"thinking,omitempty"`
	Resources []string      `json:"resources,omitempty"`
}

// RespondReply is the result of one rule-based turn.
type RespondReply struct {
	SessionID string           `json:"session_id"`
	Response  string           `json:"response"`
	Thinking  []string         `json:"thinking"`
	Resources []string         `json:"resources,omitempty"`
	Sentiment sentiment.Result `json:"sentiment"`
	Intent    intent.Result    `json:"intent"`
	Crisis    crisis.Signal    `json:"crisis"`
	Language  language.Code    `json:"language"`
}

// Analysis is the diagnostic view of a single text.
type Analysis struct {
	Sentiment sentiment.Result `json:"sentiment"`
	Intent    intent.Result    `json:"intent"`
	Crisis    crisis.Signal    `json:"crisis"`
	Language  language.Code    `json:"language"`
}

// Opts holds orchestrator configuration.
type Opts struct {
	Completer         Completer
	HistoryLimit      int
	RuleBasedFallback bool
}

// Option configures the orchestrator.
type Option func(*Opts)

// WithCompleter sets the completion service used by Chat.
func WithCompleter(c Completer) Option {
	return func(o *Opts) { o.Completer = c }
}

// WithHistoryLimit sets how many trailing messages are sent to the model.
func WithHistoryLimit(n int) Option {
	return func(o *Opts) { o.HistoryLimit = n }
}

// WithRuleBasedFallback controls whether Chat answers through Respond when no
// completion service is configured.
func WithRuleBasedFallback(enabled bool) Option {
	return func(o *Opts) { o.RuleBasedFallback = enabled }
}

// Orchestrator runs chat turns and owns conversation state.
type Orchestrator struct {
	store        store.Store
	completer    Completer
	historyLimit int
	fallback     bool
}

// NewOrchestrator creates an orchestrator over st. A nil store is replaced by
// an in-memory one.
func NewOrchestrator(st store.Store, opts ...Option) *Orchestrator {
	cfg := Opts{HistoryLimit: DefaultHistoryLimit, RuleBasedFallback: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if st == nil {
		st = store.NewInMemoryStore()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	return &Orchestrator{
		store:        st,
		completer:    cfg.Completer,
		historyLimit: cfg.HistoryLimit,
		fallback:     cfg.RuleBasedFallback,
	}
}

// Chat runs one LLM-assisted turn: the reply is generated by the completion
// service under the persona prompt for the resolved language and checked by
// the persona validator before it is returned.
func (o *Orchestrator) Chat(ctx context.Context, req models.ChatRequest) (ChatReply, error) {
	if err := req.Validate(); err != nil {
		return ChatReply{}, err
	}
	lastUser := req.LastUserMessage()

	if o.completer == nil {
		if !o.fallback {
			return ChatReply{}, ErrNoCompleter
		}
		slog.Debug("Orchestrator.Chat: no completer, using rule-based fallback", "user_id", req.UserID)
		r, err := o.Respond(ctx, models.RespondRequest{
			UserID:    req.UserID,
			SessionID: req.SessionID,
			Text:      lastUser,
			Language:  req.Language,
		})
		if err != nil {
			return ChatReply{}, err
		}
		return ChatReply{
			SessionID: r.SessionID,
			Reply:     r.Response,
			Language:  r.Language,
			Crisis:    r.Crisis,
			Model:     RuleBasedModel,
			Thinking:  r.Thinking,
			Resources: r.Resources,
		}, nil
	}

	code := language.Resolve(req.Language, lastUser)
	history := req.Messages
	if len(history) > o.historyLimit {
		history = history[len(history)-o.historyLimit:]
	}

	start := time.Now()
	raw, err := o.completer.Complete(ctx, persona.SystemPromptFor(code), history)
	if err != nil {
		slog.Error("Orchestrator.Chat: completion failed", "user_id", req.UserID, "error", err)
		return ChatReply{}, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	verdict := persona.Check(raw, code)
	signal := crisis.Detect(lastUser)
	if signal.IsCrisis {
		slog.Warn("Orchestrator.Chat: crisis signal detected", "user_id", req.UserID, "type", signal.Type)
	}

	sessionID := o.persistTurn(ctx, req.UserID, req.SessionID, code, lastUser, verdict.Text)
	slog.Info("Orchestrator.Chat: reply generated", "user_id", req.UserID, "session_id", sessionID,
		"language", code, "replaced", verdict.Replaced, "crisis", signal.IsCrisis, "duration", time.Since(start))

	return ChatReply{
		SessionID: sessionID,
		Reply:     verdict.Text,
		Language:  code,
		Crisis:    signal,
		Replaced:  verdict.Replaced,
		Model:     o.completer.Model(),
	}, nil
}

// Respond runs one rule-based turn through the composer. A missing cycle
// context means period mode off in the follicular phase.
func (o *Orchestrator) Respond(ctx context.Context, req models.RespondRequest) (RespondReply, error) {
	if err := req.Validate(); err != nil {
		return RespondReply{}, err
	}
	cycle := models.DefaultCycleContext()
	if req.Cycle != nil {
		cycle = *req.Cycle
	}

	a := o.Analyze(req.Text, req.Language)
	reply := composer.Generate(composer.Context{
		Sentiment: a.Sentiment,
		Intent:    a.Intent.Primary,
		Cycle:     cycle,
	})
	if a.Crisis.IsCrisis {
		slog.Warn("Orchestrator.Respond: crisis signal detected", "user_id", req.UserID, "type", a.Crisis.Type)
	}

	sessionID := o.persistTurn(ctx, req.UserID, req.SessionID, a.Language, req.Text, reply.Response)
	slog.Info("Orchestrator.Respond: reply composed", "user_id", req.UserID, "session_id", sessionID,
		"intent", a.Intent.Primary, "sentiment", a.Sentiment.Level, "crisis", a.Crisis.IsCrisis)

	return RespondReply{
		SessionID: sessionID,
		Response:  reply.Response,
		Thinking:  reply.Thinking,
		Resources: reply.Resources,
		Sentiment: a.Sentiment,
		Intent:    a.Intent,
		Crisis:    a.Crisis,
		Language:  a.Language,
	}, nil
}

// Analyze scores a text without generating a reply or touching the store.
func (o *Orchestrator) Analyze(text, declared string) Analysis {
	return Analysis{
		Sentiment: sentiment.Analyze(text),
		Intent:    intent.Classify(text),
		Crisis:    crisis.Detect(text),
		Language:  language.Resolve(declared, text),
	}
}

// persistTurn stores the user message and the reply and returns the session
// ID, generating one when the caller had none. Failures are logged only.
func (o *Orchestrator) persistTurn(ctx context.Context, userID, sessionID string, code language.Code, userText, reply string) string {
	if strings.TrimSpace(sessionID) == "" {
		sessionID = store.NewID()
	}
	now := time.Now().UTC()
	turn := []models.StoredMessage{
		{UserID: userID, SessionID: sessionID, Role: models.RoleUser, Content: userText, Language: string(code), CreatedAt: now},
		{UserID: userID, SessionID: sessionID, Role: models.RoleAssistant, Content: reply, Language: string(code), CreatedAt: now},
	}
	for _, m := range turn {
		if _, err := o.store.SaveMessage(ctx, m); err != nil {
			slog.Error("Orchestrator.persistTurn: failed to save message", "user_id", userID, "session_id", sessionID, "role", m.Role, "error", err)
			break
		}
	}
	return sessionID
}
