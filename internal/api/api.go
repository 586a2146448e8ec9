// Package api provides the HTTP server for MoyoCare.
//
// It exposes JSON endpoints for chat turns, rule-based replies, message
// analysis, conversation history and the journal. The server wires the store,
// the completion client and the chat orchestrator together.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BTreeMap/MoyoCare/internal/chat"
	"github.com/BTreeMap/MoyoCare/internal/genai"
	"github.com/BTreeMap/MoyoCare/internal/store"
)

// Server configuration defaults.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 30 * time.Second
	// DefaultWriteTimeout leaves room for a slow completion call.
	DefaultWriteTimeout = 90 * time.Second
	// MaxRequestBodyBytes bounds every JSON request body.
	MaxRequestBodyBytes = 1 << 20
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr              string
	RuleBasedFallback bool
	HistoryLimit      int
	ShutdownTimeout   time.Duration
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithRuleBasedFallback controls whether /chat answers through the composer
// when no completion service is configured.
func WithRuleBasedFallback(enabled bool) Option {
	return func(o *Opts) { o.RuleBasedFallback = enabled }
}

// WithHistoryLimit sets how many trailing messages are sent to the model.
func WithHistoryLimit(n int) Option {
	return func(o *Opts) { o.HistoryLimit = n }
}

// WithShutdownTimeout sets how long in-flight requests get on shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Opts) { o.ShutdownTimeout = d }
}

func defaultOpts() Opts {
	return Opts{
		Addr:              DefaultAddr,
		RuleBasedFallback: true,
		HistoryLimit:      chat.DefaultHistoryLimit,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	orch          *chat.Orchestrator
	llmConfigured bool
	model         string
}

// NewServer creates a server around an orchestrator. model names the
// completion model and is empty when replies are rule-based.
func NewServer(orch *chat.Orchestrator, model string) *Server {
	return &Server{orch: orch, llmConfigured: model != "", model: model}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/respond", s.respondHandler)
	mux.HandleFunc("/analyze", s.analyzeHandler)
	mux.HandleFunc("/sessions", s.sessionsHandler)
	mux.HandleFunc("/sessions/{id}", s.sessionHandler)
	mux.HandleFunc("/journal", s.journalListHandler)
	mux.HandleFunc("/journal/{date}", s.journalEntryHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return withCORS(withRequestLogging(mux))
}

// Run builds the store, the completion client and the orchestrator, serves
// HTTP until SIGINT or SIGTERM, and then shuts down gracefully.
func Run(storeOpts []store.Option, genaiOpts []genai.Option, apiOpts []Option) error {
	cfg := defaultOpts()
	for _, opt := range apiOpts {
		opt(&cfg)
	}

	st, err := store.Open(storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Run: failed to close store", "error", err)
		}
	}()

	orchOpts := []chat.Option{
		chat.WithRuleBasedFallback(cfg.RuleBasedFallback),
		chat.WithHistoryLimit(cfg.HistoryLimit),
	}
	model := ""
	gaClient, err := genai.NewClient(genaiOpts...)
	switch {
	case errors.Is(err, genai.ErrMissingAPIKey):
		slog.Warn("Run: no LLM API key configured, /chat will use the rule-based composer", "fallback_enabled", cfg.RuleBasedFallback)
	case err != nil:
		return fmt.Errorf("failed to create completion client: %w", err)
	default:
		orchOpts = append(orchOpts, chat.WithCompleter(gaClient))
		model = gaClient.Model()
	}

	srv := NewServer(chat.NewOrchestrator(st, orchOpts...), model)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: DefaultReadTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("MoyoCare API listening", "addr", cfg.Addr, "model", model)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping server", "timeout", cfg.ShutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
