package genai

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/openai/openai-go"
)

// debugEntry is one call written to the debug directory.
type debugEntry struct {
	Timestamp time.Time                      `json:"timestamp"`
	Method    string                         `json:"method"`
	Model     string                         `json:"model"`
	Params    openai.ChatCompletionNewParams `json:"params"`
	Response  *openai.ChatCompletion         `json:"response"`
	Error     string                         `json:"error,omitempty"`
}

// logDebugCall writes the request and outcome as one JSON file. Failures are
// logged and otherwise ignored.
func (c *Client) logDebugCall(method string, params openai.ChatCompletionNewParams, resp openai.ChatCompletion, callErr error) {
	if !c.debugMode || c.stateDir == "" {
		return
	}
	entry := debugEntry{
		Timestamp: time.Now().UTC(),
		Method:    method,
		Model:     c.model,
		Params:    params,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	} else {
		entry.Response = &resp
	}

	dir := filepath.Join(c.stateDir, "debug")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("Client.logDebugCall: failed to create debug dir", "dir", dir, "error", err)
		return
	}
	data, err := json.MarshalIndent(&entry, "", "  ")
	if err != nil {
		slog.Warn("Client.logDebugCall: marshal failed", "error", err)
		return
	}
	name := fmt.Sprintf("%s_%s.json", entry.Timestamp.Format("20060102T150405.000000000"), method)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
		slog.Warn("Client.logDebugCall: write failed", "error", err)
	}
}
