package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BTreeMap/MoyoCare/internal/models"
)

// sqlStore implements Store over any sqlx connection. Queries use "?"
// placeholders and are rebound for the connection's driver.
type sqlStore struct {
	db   *sqlx.DB
	name string
}

// DB exposes the underlying connection for maintenance tasks and tests.
func (s *sqlStore) DB() *sqlx.DB {
	return s.db
}

func (s *sqlStore) q(query string) string {
	return s.db.Rebind(query)
}

// SaveMessage implements Store.
func (s *sqlStore) SaveMessage(ctx context.Context, m models.StoredMessage) (models.StoredMessage, error) {
	if m.SessionID == "" {
		return m, models.ErrEmptySessionID
	}
	m = prepareMessage(m)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error(s.name+".SaveMessage: begin failed", "error", err)
		return m, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO sessions (id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`),
		m.SessionID, m.UserID, m.CreatedAt); err != nil {
		slog.Error(s.name+".SaveMessage: session insert failed", "error", err, "session_id", m.SessionID)
		return m, fmt.Errorf("failed to create session %s: %w", m.SessionID, err)
	}
	var owner string
	if err := tx.GetContext(ctx, &owner, s.q(`SELECT user_id FROM sessions WHERE id = ?`), m.SessionID); err != nil {
		return m, fmt.Errorf("failed to read session %s: %w", m.SessionID, err)
	}
	if owner != m.UserID {
		slog.Warn(s.name+".SaveMessage: session owned by another user", "session_id", m.SessionID, "user_id", m.UserID)
		return m, ErrNotFound
	}

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO messages (id, session_id, user_id, role, content, language, created_at)
		VALUES (:id, :session_id, :user_id, :role, :content, :language, :created_at)`, m); err != nil {
		slog.Error(s.name+".SaveMessage: insert failed", "error", err, "session_id", m.SessionID)
		return m, fmt.Errorf("failed to insert message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return m, fmt.Errorf("commit message: %w", err)
	}
	slog.Debug(s.name+".SaveMessage succeeded", "session_id", m.SessionID, "role", m.Role)
	return m, nil
}

// ListMessages implements Store.
func (s *sqlStore) ListMessages(ctx context.Context, userID, sessionID string, limit int) ([]models.StoredMessage, error) {
	query := `SELECT id, session_id, user_id, role, content, language, created_at FROM messages
		WHERE user_id = ? AND session_id = ? ORDER BY seq DESC`
	args := []interface{}{userID, sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	out := []models.StoredMessage{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		slog.Error(s.name+".ListMessages query failed", "error", err, "session_id", sessionID)
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	// Rows arrive newest first; callers want chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

// ListSessions implements Store.
func (s *sqlStore) ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	const query = `SELECT s.id AS session_id, s.created_at,
		(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id) AS message_count,
		COALESCE((SELECT m.content FROM messages m WHERE m.session_id = s.id AND m.role = 'user' ORDER BY m.seq LIMIT 1), '') AS preview
		FROM sessions s WHERE s.user_id = ? ORDER BY s.created_at DESC, s.id DESC`

	out := []models.SessionSummary{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), userID); err != nil {
		slog.Error(s.name+".ListSessions query failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	for i := range out {
		out[i].Preview = previewOf(out[i].Preview)
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

// DeleteSession implements Store.
func (s *sqlStore) DeleteSession(ctx context.Context, userID, sessionID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM sessions WHERE id = ? AND user_id = ?`), sessionID, userID)
	if err != nil {
		slog.Error(s.name+".DeleteSession failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM messages WHERE session_id = ?`), sessionID); err != nil {
		slog.Error(s.name+".DeleteSession messages failed", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	slog.Debug(s.name+".DeleteSession succeeded", "session_id", sessionID)
	return nil
}

// UpsertJournalEntry implements Store.
func (s *sqlStore) UpsertJournalEntry(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	const query = `INSERT INTO journal_entries
		(user_id, entry_date, content, mood, sentiment_score, sentiment_level, crisis_type, created_at, updated_at)
		VALUES (:user_id, :entry_date, :content, :mood, :sentiment_score, :sentiment_level, :crisis_type, :created_at, :updated_at)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			content = excluded.content,
			mood = excluded.mood,
			sentiment_score = excluded.sentiment_score,
			sentiment_level = excluded.sentiment_level,
			crisis_type = excluded.crisis_type,
			updated_at = excluded.updated_at`
	if _, err := s.db.NamedExecContext(ctx, query, e); err != nil {
		slog.Error(s.name+".UpsertJournalEntry failed", "error", err, "user_id", e.UserID, "date", e.Date)
		return e, fmt.Errorf("failed to upsert journal entry: %w", err)
	}
	slog.Debug(s.name+".UpsertJournalEntry succeeded", "user_id", e.UserID, "date", e.Date)
	return s.GetJournalEntry(ctx, e.UserID, e.Date)
}

const journalColumns = `user_id, entry_date, content, mood, sentiment_score, sentiment_level, crisis_type, created_at, updated_at`

// GetJournalEntry implements Store.
func (s *sqlStore) GetJournalEntry(ctx context.Context, userID, date string) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := s.db.GetContext(ctx, &e, s.q(`SELECT `+journalColumns+` FROM journal_entries WHERE user_id = ? AND entry_date = ?`), userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	if err != nil {
		slog.Error(s.name+".GetJournalEntry failed", "error", err, "user_id", userID, "date", date)
		return e, fmt.Errorf("failed to get journal entry: %w", err)
	}
	e.CreatedAt, e.UpdatedAt = e.CreatedAt.UTC(), e.UpdatedAt.UTC()
	return e, nil
}

// ListJournalEntries implements Store.
func (s *sqlStore) ListJournalEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	out := []models.JournalEntry{}
	err := s.db.SelectContext(ctx, &out, s.q(`SELECT `+journalColumns+` FROM journal_entries WHERE user_id = ? ORDER BY entry_date DESC`), userID)
	if err != nil {
		slog.Error(s.name+".ListJournalEntries failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	for i := range out {
		out[i].CreatedAt, out[i].UpdatedAt = out[i].CreatedAt.UTC(), out[i].UpdatedAt.UTC()
	}
	return out, nil
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	slog.Debug(s.name + ".Close: closing database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error(s.name+".Close failed", "error", err)
	}
	return err
}
