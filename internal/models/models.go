// Package models defines the core data structures for MoyoCare.
//
// It includes chat messages, cycle context, journal entries and the JSON
// envelope shared by the API layer.
package models

import (
	"errors"
	"strings"
	"time"
)

// Role tags a chat message with its author.
type Role string

const (
	// RoleUser is a message written by the user.
	RoleUser Role = "user"
	// RoleAssistant is a message written by Moyo.
	RoleAssistant Role = "assistant"
)

// CyclePhase is a phase of the menstrual cycle.
type CyclePhase string

const (
	PhaseMenstrual  CyclePhase = "menstrual"
	PhaseFollicular CyclePhase = "follicular"
	PhaseOvulation  CyclePhase = "ovulation"
	PhaseLuteal     CyclePhase = "luteal"
)

// Mood is the mood a user attaches to a journal entry.
type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodBad   Mood = "bad"
	MoodAwful Mood = "awful"
)

// Validation constants for input validation
const (
	// MaxMessageLength is the maximum accepted length of a single chat message.
	MaxMessageLength = 8000
	// MaxJournalLength is the maximum accepted length of a journal entry.
	MaxJournalLength = 20000
	// JournalDateLayout is the date format used for journal entries.
	JournalDateLayout = "2006-01-02"
)

// Error variables for better error handling and testability
var (
	ErrEmptyUserID        = errors.New("user_id is required")
	ErrMissingMessages    = errors.New("messages array is required")
	ErrInvalidRole        = errors.New("message role must be user or assistant")
	ErrMessageTooLong     = errors.New("message exceeds maximum length")
	ErrLastMessageNotUser = errors.New("last message must be from the user")
	ErrEmptyText          = errors.New("text is required")
	ErrInvalidPhase       = errors.New("invalid cycle phase")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidMood        = errors.New("invalid mood")
	ErrJournalTooLong     = errors.New("journal entry exceeds maximum length")
	ErrEmptySessionID     = errors.New("session id is required")
)

// IsValidPhase checks if the given cycle phase is supported.
func IsValidPhase(p CyclePhase) bool {
	switch p {
	case PhaseMenstrual, PhaseFollicular, PhaseOvulation, PhaseLuteal:
		return true
	default:
		return false
	}
}

// IsValidMood checks if the given mood is supported. An empty mood is allowed.
func IsValidMood(m Mood) bool {
	switch m {
	case "", MoodGreat, MoodGood, MoodOkay, MoodBad, MoodAwful:
		return true
	default:
		return false
	}
}

// CycleContext is the caller-supplied cycle state used to pick reply templates.
type CycleContext struct {
	IsPeriodMode bool       `json:"is_period_mode"`
	CyclePhase   CyclePhase `json:"cycle_phase"`
}

// DefaultCycleContext is used when the caller supplies no cycle context.
func DefaultCycleContext() CycleContext {
	return CycleContext{IsPeriodMode: false, CyclePhase: PhaseFollicular}
}

// ChatMessage is a single role-tagged turn of a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StoredMessage is a chat message persisted under a session.
type StoredMessage struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Role      Role      `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	Language  string    `json:"language,omitempty" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionSummary describes one conversation session in a user's history.
type SessionSummary struct {
	ID           string    `json:"id" db:"session_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	MessageCount int       `json:"message_count" db:"message_count"`
	Preview      string    `json:"preview" db:"preview"`
}

// JournalEntry is a user's journal entry for a single day.
type JournalEntry struct {
	UserID         string    `json:"user_id" db:"user_id"`
	Date           string    `json:"date" db:"entry_date"`
	Content        string    `json:"content" db:"content"`
	Mood           Mood      `json:"mood,omitempty" db:"mood"`
	SentimentScore int       `json:"sentiment_score" db:"sentiment_score"`
	SentimentLevel string    `json:"sentiment_level" db:"sentiment_level"`
	CrisisType     string    `json:"crisis_type,omitempty" db:"crisis_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the user-supplied fields of a journal entry.
func (e *JournalEntry) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrEmptyUserID
	}
	if _, err := time.Parse(JournalDateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if !IsValidMood(e.Mood) {
		return ErrInvalidMood
	}
	if len(e.Content) > MaxJournalLength {
		return ErrJournalTooLong
	}
	return nil
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserID    string        `json:"user_id"`
	SessionID string        `json:"session_id,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	Language  string        `json:"language,omitempty"`
}

// Validate performs validation on a chat request.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyUserID
	}
	if len(r.Messages) == 0 {
		return ErrMissingMessages
	}
	for _, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return ErrInvalidRole
		}
		if len(m.Content) > MaxMessageLength {
			return ErrMessageTooLong
		}
	}
	if r.Messages[len(r.Messages)-1].Role != RoleUser {
		return ErrLastMessageNotUser
	}
	return nil
}

// LastUserMessage returns the content of the most recent user message.
func (r *ChatRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// RespondRequest is the body of POST /respond.
type RespondRequest struct {
	UserID    string        `json:"user_id"`
	SessionID string        `json:"session_id,omitempty"`
	Text      string        `json:"text"`
	Language  string        `json:"language,omitempty"`
	Cycle     *CycleContext `json:"cycle,omitempty"`
}

// Validate performs validation on a rule-based response request.
func (r *RespondRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if len(r.Text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if r.Cycle != nil && !IsValidPhase(r.Cycle.CyclePhase) {
		return ErrInvalidPhase
	}
	return nil
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
