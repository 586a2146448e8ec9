package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BTreeMap/MoyoCare/internal/chat"
	"github.com/BTreeMap/MoyoCare/internal/models"
	"github.com/BTreeMap/MoyoCare/internal/store"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, system string, history []models.ChatMessage) (string, error) {
	return s.reply, s.err
}

func (s *stubCompleter) Model() string { return "stub-model" }

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func newTestServer(t *testing.T, opts ...chat.Option) (http.Handler, store.Store) {
	t.Helper()
	st := store.NewInMemoryStore()
	model := ""
	cfg := chat.Opts{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Completer != nil {
		model = cfg.Completer.Model()
	}
	return NewServer(chat.NewOrchestrator(st, opts...), model).Handler(), st
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var env envelope
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: response is not JSON: %v (%s)", method, target, err, rr.Body.String())
		}
	}
	return rr, env
}

func TestChatHandler_Success(t *testing.T) {
	h, st := newTestServer(t, chat.WithCompleter(&stubCompleter{reply: "I hear you. What happened today?"}))

	rr, env := do(t, h, http.MethodPost, "/chat",
		`{"user_id":"u1","messages":[{"role":"user","content":"I feel so anxious about my exams"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if env.Status != "ok" {
		t.Errorf("expected status ok, got %q", env.Status)
	}
	var reply chat.ChatReply
	if err := json.Unmarshal(env.Result, &reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	if reply.Reply != "I hear you. What happened today?" {
		t.Errorf("unexpected reply %q", reply.Reply)
	}
	if reply.Model != "stub-model" {
		t.Errorf("expected model stub-model, got %q", reply.Model)
	}
	if reply.SessionID == "" {
		t.Fatal("expected a session id")
	}
	msgs, err := st.ListMessages(context.Background(), "u1", reply.SessionID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("expected 2 stored messages, got %d", len(msgs))
	}
}

func TestChatHandler_CompletionFailure(t *testing.T) {
	h, _ := newTestServer(t, chat.WithCompleter(&stubCompleter{err: errors.New("upstream down")}))

	rr, env := do(t, h, http.MethodPost, "/chat",
		`{"user_id":"u1","messages":[{"role":"user","content":"hello"}]}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if env.Message != msgConnectionTrouble {
		t.Errorf("expected connection trouble message, got %q", env.Message)
	}
	if strings.Contains(rr.Body.String(), "upstream down") {
		t.Error("upstream error leaked to the caller")
	}
}

func TestChatHandler_NoCompleter(t *testing.T) {
	h, _ := newTestServer(t, chat.WithRuleBasedFallback(false))
	rr, env := do(t, h, http.MethodPost, "/chat",
		`{"user_id":"u1","messages":[{"role":"user","content":"hello"}]}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if env.Message != msgNotConfigured {
		t.Errorf("unexpected message %q", env.Message)
	}

	h, _ = newTestServer(t)
	rr, env = do(t, h, http.MethodPost, "/chat",
		`{"user_id":"u1","messages":[{"role":"user","content":"my stomach hurts"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with rule-based fallback, got %d", rr.Code)
	}
	var reply chat.ChatReply
	if err := json.Unmarshal(env.Result, &reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	if reply.Model != chat.RuleBasedModel {
		t.Errorf("expected model %q, got %q", chat.RuleBasedModel, reply.Model)
	}
}

func TestChatHandler_BadRequests(t *testing.T) {
	h, _ := newTestServer(t, chat.WithCompleter(&stubCompleter{reply: "ok"}))

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"invalid json", `{"user_id":`, msgInvalidJSON},
		{"missing user", `{"messages":[{"role":"user","content":"hi"}]}`, models.ErrEmptyUserID.Error()},
		{"no messages", `{"user_id":"u1","messages":[]}`, models.ErrMissingMessages.Error()},
		{"bad role", `{"user_id":"u1","messages":[{"role":"system","content":"hi"}]}`, models.ErrInvalidRole.Error()},
		{"assistant last", `{"user_id":"u1","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"yo"}]}`, models.ErrLastMessageNotUser.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, env := do(t, h, http.MethodPost, "/chat", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if env.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, env.Message)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		method string
		target string
		allow  string
	}{
		{http.MethodGet, "/chat", "POST"},
		{http.MethodGet, "/respond", "POST"},
		{http.MethodPut, "/analyze", "POST"},
		{http.MethodPost, "/sessions", "GET"},
		{http.MethodPost, "/sessions/abc", "GET, DELETE"},
		{http.MethodDelete, "/journal", "GET"},
		{http.MethodPost, "/journal/2024-05-01", "GET, PUT"},
		{http.MethodPost, "/health", "GET"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tt.method, tt.target, rr.Code)
			continue
		}
		if got := rr.Header().Get("Allow"); got != tt.allow {
			t.Errorf("%s %s: expected Allow %q, got %q", tt.method, tt.target, tt.allow, got)
		}
	}
}

func TestRespondHandler(t *testing.T) {
	h, _ := newTestServer(t)

	rr, env := do(t, h, http.MethodPost, "/respond",
		`{"user_id":"u1","text":"I keep thinking about suicide","cycle":{"is_period_mode":true,"cycle_phase":"menstrual"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var reply chat.RespondReply
	if err := json.Unmarshal(env.Result, &reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	if !reply.Crisis.IsCrisis {
		t.Error("expected crisis signal")
	}
	if reply.Response == "" {
		t.Error("expected a response")
	}
	if len(reply.Thinking) == 0 {
		t.Error("expected a thinking trace")
	}

	rr, env = do(t, h, http.MethodPost, "/respond",
		`{"user_id":"u1","text":"hi","cycle":{"cycle_phase":"winter"}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid phase, got %d", rr.Code)
	}
	if env.Message != models.ErrInvalidPhase.Error() {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestAnalyzeHandler(t *testing.T) {
	h, _ := newTestServer(t)

	rr, env := do(t, h, http.MethodPost, "/analyze", `{"text":"I started cutting again"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var a chat.Analysis
	if err := json.Unmarshal(env.Result, &a); err != nil {
		t.Fatalf("failed to decode analysis: %v", err)
	}
	if a.Crisis.Type != "severe_self_injury" {
		t.Errorf("expected severe_self_injury, got %q", a.Crisis.Type)
	}
	if a.Language != "en" {
		t.Errorf("expected en, got %q", a.Language)
	}

	rr, _ = do(t, h, http.MethodPost, "/analyze", `{"text":"   "}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank text, got %d", rr.Code)
	}
}

func TestSessionEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	_, env := do(t, h, http.MethodPost, "/respond", `{"user_id":"u1","text":"exam stress is real"}`)
	var reply chat.RespondReply
	if err := json.Unmarshal(env.Result, &reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}

	rr, env := do(t, h, http.MethodGet, "/sessions?user_id=u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var sessions []models.SessionSummary
	if err := json.Unmarshal(env.Result, &sessions); err != nil {
		t.Fatalf("failed to decode sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != reply.SessionID || sessions[0].MessageCount != 2 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}

	rr, env = do(t, h, http.MethodGet, "/sessions/"+reply.SessionID+"?user_id=u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var msgs []models.StoredMessage
	if err := json.Unmarshal(env.Result, &msgs); err != nil {
		t.Fatalf("failed to decode messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != models.RoleUser {
		t.Fatalf("unexpected history %+v", msgs)
	}

	rr, _ = do(t, h, http.MethodDelete, "/sessions/"+reply.SessionID+"?user_id=someone-else", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting another user's session, got %d", rr.Code)
	}
	rr, _ = do(t, h, http.MethodDelete, "/sessions/"+reply.SessionID+"?user_id=u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rr.Code)
	}
	rr, _ = do(t, h, http.MethodDelete, "/sessions/"+reply.SessionID+"?user_id=u1", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rr.Code)
	}

	rr, _ = do(t, h, http.MethodGet, "/sessions", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without user_id, got %d", rr.Code)
	}
}

func TestJournalEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	rr, env := do(t, h, http.MethodPut, "/journal/2024-05-01",
		`{"user_id":"u1","content":"Today was a good day, I felt calm","mood":"good"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var entry models.JournalEntry
	if err := json.Unmarshal(env.Result, &entry); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if entry.Date != "2024-05-01" || entry.Mood != models.MoodGood {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.SentimentLevel == "" {
		t.Error("expected sentiment level to be set")
	}

	rr, env = do(t, h, http.MethodGet, "/journal/2024-05-01?user_id=u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if err := json.Unmarshal(env.Result, &entry); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if entry.Content != "Today was a good day, I felt calm" {
		t.Errorf("unexpected content %q", entry.Content)
	}

	do(t, h, http.MethodPut, "/journal/2024-05-03", `{"user_id":"u1","content":"later"}`)
	rr, env = do(t, h, http.MethodGet, "/journal?user_id=u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var entries []models.JournalEntry
	if err := json.Unmarshal(env.Result, &entries); err != nil {
		t.Fatalf("failed to decode entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Date != "2024-05-03" {
		t.Fatalf("unexpected entries %+v", entries)
	}

	rr, _ = do(t, h, http.MethodGet, "/journal/2024-06-01?user_id=u1", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing entry, got %d", rr.Code)
	}
	rr, env = do(t, h, http.MethodPut, "/journal/yesterday", `{"user_id":"u1","content":"x"}`)
	if rr.Code != http.StatusBadRequest || env.Message != models.ErrInvalidDate.Error() {
		t.Errorf("expected 400 invalid date, got %d %q", rr.Code, env.Message)
	}
	rr, env = do(t, h, http.MethodPut, "/journal/2024-05-01", `{"user_id":"u1","content":"x","mood":"ecstatic"}`)
	if rr.Code != http.StatusBadRequest || env.Message != models.ErrInvalidMood.Error() {
		t.Errorf("expected 400 invalid mood, got %d %q", rr.Code, env.Message)
	}
}

func TestHealthHandler(t *testing.T) {
	h, _ := newTestServer(t, chat.WithCompleter(&stubCompleter{}))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" || body["mode"] != "llm" || body["model"] != "stub-model" {
		t.Errorf("unexpected health body %v", body)
	}

	h, _ = newTestServer(t)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["mode"] != "rule-based" {
		t.Errorf("expected rule-based mode, got %v", body["mode"])
	}
}

func TestCORS(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != corsAllowHeaders {
		t.Errorf("unexpected allow headers %q", got)
	}

	rr, _ = do(t, h, http.MethodPost, "/chat", `{`)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected CORS headers on error responses, got %q", got)
	}
}

func TestWriteJSONResponse_MarshalFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSONResponse(rr, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if !bytes.Equal(rr.Body.Bytes(), fallbackErrorResponse) {
		t.Errorf("expected fallback body, got %s", rr.Body.String())
	}
}
