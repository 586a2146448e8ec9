// Package api provides HTTP response utilities for MoyoCare.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BTreeMap/MoyoCare/internal/chat"
	"github.com/BTreeMap/MoyoCare/internal/models"
	"github.com/BTreeMap/MoyoCare/internal/store"
)

// User-facing error messages.
const (
	msgInvalidJSON       = "Invalid JSON format"
	msgConnectionTrouble = "Moyo is having trouble connecting right now. Please try again."
	msgNotConfigured     = "LLM service not configured"
	msgNotFound          = "Not found"
	msgInternal          = "Internal server error"
)

// Pre-marshaled fallback responses to avoid runtime JSON encoding failures
var (
	fallbackErrorResponse []byte
)

// init validates that our fallback responses can be marshaled
func init() {
	var err error
	fallbackErrorResponse, err = json.Marshal(models.Error(msgInternal))
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal fallback error response at startup: %v", err))
	}
}

// validationErrors are reported to the caller verbatim with a 400.
var validationErrors = []error{
	models.ErrEmptyUserID,
	models.ErrMissingMessages,
	models.ErrInvalidRole,
	models.ErrMessageTooLong,
	models.ErrLastMessageNotUser,
	models.ErrEmptyText,
	models.ErrInvalidPhase,
	models.ErrInvalidDate,
	models.ErrInvalidMood,
	models.ErrJournalTooLong,
	models.ErrEmptySessionID,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeJSONResponse writes a JSON response to the http.ResponseWriter with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	// Marshal the response to JSON first to catch encoding errors before writing headers
	jsonData, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		jsonData = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(jsonData); writeErr != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", writeErr)
	}
}

// writeError maps an orchestrator or store error onto a status code and a
// message that is safe to show to the caller.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case isValidationError(err):
		slog.Warn(op+": validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
	case errors.Is(err, store.ErrNotFound):
		writeJSONResponse(w, http.StatusNotFound, models.Error(msgNotFound))
	case errors.Is(err, chat.ErrCompletionFailed):
		slog.Error(op+": completion failed", "error", err)
		writeJSONResponse(w, http.StatusBadGateway, models.Error(msgConnectionTrouble))
	case errors.Is(err, chat.ErrNoCompleter):
		slog.Error(op+": no completion service", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error(msgNotConfigured))
	default:
		slog.Error(op+": internal error", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error(msgInternal))
	}
}

// methodNotAllowed answers with 405 and the permitted methods.
func methodNotAllowed(w http.ResponseWriter, r *http.Request, op string, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	slog.Warn(op+": method not allowed", "method", r.Method)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
