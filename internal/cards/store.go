package cards

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users need to delete the database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different release.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates the requested session or card does not exist.
var ErrNotFound = errors.New("not found")

// Session is one processed recording whose cards are kept for review.
type Session struct {
	ID         string
	Title      string
	SourcePath string
	OutputDir  string
	Language   string
	CreatedAt  time.Time
	CardCount  int
}

// Card is one stored slide/transcript pair.
type Card struct {
	ID             int64
	SessionID      string
	Position       int
	ImagePath      string
	SlideTimestamp float64
	TranscriptText string
	Included       bool
	UpdatedAt      time.Time
}

// Store manages card persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the card database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// SaveSession stores a session and its cards in one transaction.
func (s *Store) SaveSession(ctx context.Context, session Session, pairs []Pair) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, title, source_path, output_dir, language, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.Title, session.SourcePath, session.OutputDir, session.Language, now,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, pair := range pairs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cards (session_id, position, image_path, slide_timestamp, transcript_text, included, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			session.ID, pair.Position, pair.ImagePath, pair.SlideTimestamp, pair.TranscriptText, boolToInt(pair.Included), now,
		)
		if err != nil {
			return fmt.Errorf("insert card %d: %w", pair.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// ListSessions returns all sessions, newest first, with card counts.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.title, s.source_path, s.output_dir, s.language, s.created_at, COUNT(c.id)
         FROM sessions s LEFT JOIN cards c ON c.session_id = s.id
         GROUP BY s.id ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		var created string
		if err := rows.Scan(&session.ID, &session.Title, &session.SourcePath, &session.OutputDir, &session.Language, &created, &session.CardCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.CreatedAt = parseTimestamp(created)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetSession fetches one session by identifier.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	var session Session
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.title, s.source_path, s.output_dir, s.language, s.created_at, COUNT(c.id)
         FROM sessions s LEFT JOIN cards c ON c.session_id = s.id
         WHERE s.id = ? GROUP BY s.id`,
		id,
	).Scan(&session.ID, &session.Title, &session.SourcePath, &session.OutputDir, &session.Language, &created, &session.CardCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = parseTimestamp(created)
	return session, nil
}

// ListCards returns a session's cards in slide order.
func (s *Store) ListCards(ctx context.Context, sessionID string) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, position, image_path, slide_timestamp, transcript_text, included, updated_at
         FROM cards WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var card Card
		var included int
		var updated string
		if err := rows.Scan(&card.ID, &card.SessionID, &card.Position, &card.ImagePath, &card.SlideTimestamp, &card.TranscriptText, &included, &updated); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		card.Included = included != 0
		card.UpdatedAt = parseTimestamp(updated)
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateText replaces a card's transcript text after manual review.
func (s *Store) UpdateText(ctx context.Context, cardID int64, text string) error {
	return s.updateCard(ctx,
		"UPDATE cards SET transcript_text = ?, updated_at = ? WHERE id = ?",
		text, time.Now().UTC().Format(time.RFC3339Nano), cardID,
	)
}

// SetIncluded flips whether a card is part of the exported set.
func (s *Store) SetIncluded(ctx context.Context, cardID int64, included bool) error {
	return s.updateCard(ctx,
		"UPDATE cards SET included = ?, updated_at = ? WHERE id = ?",
		boolToInt(included), time.Now().UTC().Format(time.RFC3339Nano), cardID,
	)
}

// DeleteCard removes one card.
func (s *Store) DeleteCard(ctx context.Context, cardID int64) error {
	return s.updateCard(ctx, "DELETE FROM cards WHERE id = ?", cardID)
}

// DeleteSession removes a session and, through the foreign key, its cards.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) updateCard(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("card: %w", ErrNotFound)
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
