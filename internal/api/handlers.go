// Package api provides HTTP handlers for MoyoCare endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BTreeMap/MoyoCare/internal/models"
)

// decodeJSON reads a bounded JSON body into v. It writes the 400 response
// itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Warn(op+": failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(msgInvalidJSON))
		return false
	}
	return true
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Server.chatHandler", http.MethodPost)
		return
	}
	var req models.ChatRequest
	if !decodeJSON(w, r, "Server.chatHandler", &req) {
		return
	}
	reply, err := s.orch.Chat(r.Context(), req)
	if err != nil {
		writeError(w, "Server.chatHandler", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

func (s *Server) respondHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Server.respondHandler", http.MethodPost)
		return
	}
	var req models.RespondRequest
	if !decodeJSON(w, r, "Server.respondHandler", &req) {
		return
	}
	reply, err := s.orch.Respond(r.Context(), req)
	if err != nil {
		writeError(w, "Server.respondHandler", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Server.analyzeHandler", http.MethodPost)
		return
	}
	var req models.AnalyzeRequest
	if !decodeJSON(w, r, "Server.analyzeHandler", &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, "Server.analyzeHandler", models.ErrEmptyText)
		return
	}
	if len(req.Text) > models.MaxMessageLength {
		writeError(w, "Server.analyzeHandler", models.ErrMessageTooLong)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(s.orch.Analyze(req.Text, req.Language)))
}

func (s *Server) sessionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "Server.sessionsHandler", http.MethodGet)
		return
	}
	sessions, err := s.orch.Sessions(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, "Server.sessionsHandler", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(sessions))
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	sessionID := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		msgs, err := s.orch.History(r.Context(), userID, sessionID)
		if err != nil {
			writeError(w, "Server.sessionHandler", err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(msgs))
	case http.MethodDelete:
		if err := s.orch.DeleteSession(r.Context(), userID, sessionID); err != nil {
			writeError(w, "Server.sessionHandler", err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session deleted", nil))
	default:
		methodNotAllowed(w, r, "Server.sessionHandler", http.MethodGet, http.MethodDelete)
	}
}

// journalWriteRequest is the body of PUT /journal/{date}.
type journalWriteRequest struct {
	UserID  string      `json:"user_id"`
	Content string      `json:"content"`
	Mood    models.Mood `json:"mood,omitempty"`
}

func (s *Server) journalEntryHandler(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	switch r.Method {
	case http.MethodGet:
		entry, err := s.orch.JournalEntry(r.Context(), r.URL.Query().Get("user_id"), date)
		if err != nil {
			writeError(w, "Server.journalEntryHandler", err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(entry))
	case http.MethodPut:
		var req journalWriteRequest
		if !decodeJSON(w, r, "Server.journalEntryHandler", &req) {
			return
		}
		entry, err := s.orch.SaveJournalEntry(r.Context(), models.JournalEntry{
			UserID:  req.UserID,
			Date:    date,
			Content: req.Content,
			Mood:    req.Mood,
		})
		if err != nil {
			writeError(w, "Server.journalEntryHandler", err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Journal entry saved", entry))
	default:
		methodNotAllowed(w, r, "Server.journalEntryHandler", http.MethodGet, http.MethodPut)
	}
}

func (s *Server) journalListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "Server.journalListHandler", http.MethodGet)
		return
	}
	entries, err := s.orch.JournalEntries(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, "Server.journalListHandler", err)
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(entries))
}

// healthHandler provides a health check endpoint for monitoring and load balancing
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "Server.healthHandler", http.MethodGet)
		return
	}
	mode := "rule-based"
	if s.llmConfigured {
		mode = "llm"
	}
	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"mode":      mode,
	}
	if s.model != "" {
		healthData["model"] = s.model
	}
	writeJSONResponse(w, http.StatusOK, healthData)
}
