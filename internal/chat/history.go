package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BTreeMap/MoyoCare/internal/crisis"
	"github.com/BTreeMap/MoyoCare/internal/models"
	"github.com/BTreeMap/MoyoCare/internal/sentiment"
)

// Sessions lists the user's conversations, newest first.
func (o *Orchestrator) Sessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, models.ErrEmptyUserID
	}
	return o.store.ListSessions(ctx, userID)
}

// History returns the most recent messages of a session, oldest first.
func (o *Orchestrator) History(ctx context.Context, userID, sessionID string) ([]models.StoredMessage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, models.ErrEmptyUserID
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, models.ErrEmptySessionID
	}
	return o.store.ListMessages(ctx, userID, sessionID, SessionHistoryLimit)
}

// DeleteSession removes a session and its messages.
func (o *Orchestrator) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if strings.TrimSpace(userID) == "" {
		return models.ErrEmptyUserID
	}
	if strings.TrimSpace(sessionID) == "" {
		return models.ErrEmptySessionID
	}
	if err := o.store.DeleteSession(ctx, userID, sessionID); err != nil {
		return err
	}
	slog.Info("Orchestrator.DeleteSession: session deleted", "user_id", userID, "session_id", sessionID)
	return nil
}

// SaveJournalEntry validates and upserts a journal entry. The text is scored
// by the sentiment scorer and crisis detector and the results are stored with
// it.
func (o *Orchestrator) SaveJournalEntry(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	if err := e.Validate(); err != nil {
		return models.JournalEntry{}, err
	}
	s := sentiment.Analyze(e.Content)
	e.SentimentScore = s.Score
	e.SentimentLevel = string(s.Level)
	e.CrisisType = ""
	if sig := crisis.Detect(e.Content); sig.IsCrisis {
		e.CrisisType = string(sig.Type)
		slog.Warn("Orchestrator.SaveJournalEntry: crisis signal in journal entry", "user_id", e.UserID, "date", e.Date, "type", sig.Type)
	}
	saved, err := o.store.UpsertJournalEntry(ctx, e)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("save journal entry: %w", err)
	}
	return saved, nil
}

// JournalEntry returns the user's entry for date.
func (o *Orchestrator) JournalEntry(ctx context.Context, userID, date string) (models.JournalEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return models.JournalEntry{}, models.ErrEmptyUserID
	}
	if _, err := time.Parse(models.JournalDateLayout, date); err != nil {
		return models.JournalEntry{}, models.ErrInvalidDate
	}
	return o.store.GetJournalEntry(ctx, userID, date)
}

// JournalEntries lists the user's entries, newest first.
func (o *Orchestrator) JournalEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, models.ErrEmptyUserID
	}
	return o.store.ListJournalEntries(ctx, userID)
}
