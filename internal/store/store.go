// Package store provides storage backends for MoyoCare.
//
// It includes an in-memory store and SQL-backed stores (SQLite and PostgreSQL)
// for chat sessions, chat messages and journal entries.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BTreeMap/MoyoCare/internal/models"
)

// ErrNotFound is returned when a session or journal entry does not exist for
// the requesting user. Writing into another user's session also reports it.
var ErrNotFound = errors.New("not found")

// Store is the persistence interface used by the chat orchestrator.
type Store interface {
	// SaveMessage appends a message to its session, creating the session on
	// first use. Empty IDs and zero timestamps are filled in.
	SaveMessage(ctx context.Context, m models.StoredMessage) (models.StoredMessage, error)
	// ListMessages returns the most recent limit messages of a session, oldest
	// first. A limit of zero or less returns all messages.
	ListMessages(ctx context.Context, userID, sessionID string, limit int) ([]models.StoredMessage, error)
	// ListSessions returns the user's sessions, newest first.
	ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error)
	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, userID, sessionID string) error
	// UpsertJournalEntry creates or replaces the entry keyed by (user, date).
	UpsertJournalEntry(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error)
	// GetJournalEntry returns one entry or ErrNotFound.
	GetJournalEntry(ctx context.Context, userID, date string) (models.JournalEntry, error)
	// ListJournalEntries returns the user's entries, newest date first.
	ListJournalEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Close() error
}

// NewID returns a fresh random identifier for sessions and messages.
func NewID() string {
	return uuid.NewString()
}

// prepareMessage fills in the generated fields of a message.
func prepareMessage(m models.StoredMessage) models.StoredMessage {
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return m
}

func previewOf(content string) string {
	const maxPreview = 80
	content = strings.TrimSpace(content)
	if r := []rune(content); len(r) > maxPreview {
		return string(r[:maxPreview])
	}
	return content
}

type memSession struct {
	id        string
	userID    string
	createdAt time.Time
	messages  []models.StoredMessage
}

// InMemoryStore is a mutex-guarded store that lives for the process lifetime.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memSession
	journal  map[string]models.JournalEntry
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*memSession),
		journal:  make(map[string]models.JournalEntry),
	}
}

func journalKey(userID, date string) string {
	return userID + "\x00" + date
}

// SaveMessage implements Store.
func (s *InMemoryStore) SaveMessage(ctx context.Context, m models.StoredMessage) (models.StoredMessage, error) {
	if m.SessionID == "" {
		return m, models.ErrEmptySessionID
	}
	m = prepareMessage(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[m.SessionID]
	if !ok {
		sess = &memSession{id: m.SessionID, userID: m.UserID, createdAt: m.CreatedAt}
		s.sessions[m.SessionID] = sess
	} else if sess.userID != m.UserID {
		return m, ErrNotFound
	}
	sess.messages = append(sess.messages, m)
	return m, nil
}

// ListMessages implements Store.
func (s *InMemoryStore) ListMessages(ctx context.Context, userID, sessionID string, limit int) ([]models.StoredMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.StoredMessage{}
	sess, ok := s.sessions[sessionID]
	if !ok {
		return out, nil
	}
	for _, m := range sess.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ListSessions implements Store.
func (s *InMemoryStore) ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.SessionSummary{}
	for _, sess := range s.sessions {
		if sess.userID != userID {
			continue
		}
		sum := models.SessionSummary{ID: sess.id, CreatedAt: sess.createdAt, MessageCount: len(sess.messages)}
		for _, m := range sess.messages {
			if m.Role == models.RoleUser {
				sum.Preview = previewOf(m.Content)
				break
			}
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteSession implements Store.
func (s *InMemoryStore) DeleteSession(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.userID != userID {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// UpsertJournalEntry implements Store.
func (s *InMemoryStore) UpsertJournalEntry(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	key := journalKey(e.UserID, e.Date)
	e.CreatedAt = now
	if prev, ok := s.journal[key]; ok {
		e.CreatedAt = prev.CreatedAt
	}
	e.UpdatedAt = now
	s.journal[key] = e
	return e, nil
}

// GetJournalEntry implements Store.
func (s *InMemoryStore) GetJournalEntry(ctx context.Context, userID, date string) (models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.journal[journalKey(userID, date)]
	if !ok {
		return models.JournalEntry{}, ErrNotFound
	}
	return e, nil
}

// ListJournalEntries implements Store.
func (s *InMemoryStore) ListJournalEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.JournalEntry{}
	for _, e := range s.journal {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// Close implements Store.
func (s *InMemoryStore) Close() error {
	return nil
}
