package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  ChatRequest
		want error
	}{
		{"valid", ChatRequest{UserID: "u1", Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}}}, nil},
		{"missing user", ChatRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}}}, ErrEmptyUserID},
		{"missing messages", ChatRequest{UserID: "u1"}, ErrMissingMessages},
		{"bad role", ChatRequest{UserID: "u1", Messages: []ChatMessage{{Role: "system", Content: "x"}}}, ErrInvalidRole},
		{"too long", ChatRequest{UserID: "u1", Messages: []ChatMessage{{Role: RoleUser, Content: strings.Repeat("a", MaxMessageLength+1)}}}, ErrMessageTooLong},
		{"ends with assistant", ChatRequest{UserID: "u1", Messages: []ChatMessage{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}}, ErrLastMessageNotUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChatRequestLastUserMessage(t *testing.T) {
	req := ChatRequest{Messages: []ChatMessage{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
	}}
	if got := req.LastUserMessage(); got != "second" {
		t.Errorf("LastUserMessage() = %q, want %q", got, "second")
	}
	if got := (&ChatRequest{}).LastUserMessage(); got != "" {
		t.Errorf("expected empty string for no messages, got %q", got)
	}
}

func TestRespondRequestValidate(t *testing.T) {
	luteal := &CycleContext{IsPeriodMode: true, CyclePhase: PhaseLuteal}
	bad := &CycleContext{CyclePhase: "winter"}
	tests := []struct {
		name string
		req  RespondRequest
		want error
	}{
		{"valid", RespondRequest{UserID: "u1", Text: "hi"}, nil},
		{"valid with cycle", RespondRequest{UserID: "u1", Text: "hi", Cycle: luteal}, nil},
		{"blank text", RespondRequest{UserID: "u1", Text: "   "}, ErrEmptyText},
		{"bad phase", RespondRequest{UserID: "u1", Text: "hi", Cycle: bad}, ErrInvalidPhase},
		{"missing user", RespondRequest{Text: "hi"}, ErrEmptyUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestJournalEntryValidate(t *testing.T) {
	tests := []struct {
		name  string
		entry JournalEntry
		want  error
	}{
		{"valid", JournalEntry{UserID: "u1", Date: "2026-03-14", Mood: MoodGood}, nil},
		{"no mood", JournalEntry{UserID: "u1", Date: "2026-03-14"}, nil},
		{"bad date", JournalEntry{UserID: "u1", Date: "14/03/2026"}, ErrInvalidDate},
		{"bad mood", JournalEntry{UserID: "u1", Date: "2026-03-14", Mood: "meh"}, ErrInvalidMood},
		{"missing user", JournalEntry{Date: "2026-03-14"}, ErrEmptyUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entry.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultCycleContext(t *testing.T) {
	c := DefaultCycleContext()
	if c.IsPeriodMode || c.CyclePhase != PhaseFollicular {
		t.Errorf("unexpected default cycle context %+v", c)
	}
}

func TestErrorEnvelope(t *testing.T) {
	data, err := json.Marshal(Error("boom"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"status":"error","message":"boom"}` {
		t.Errorf("unexpected envelope %s", data)
	}
}
