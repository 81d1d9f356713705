package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/giveaway-server/internal/store"
)

// Schema creates the social tables when they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS giveaway_likes (
	giveaway_id TEXT PRIMARY KEY,
	likes_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS comments (
	id          TEXT PRIMARY KEY,
	giveaway_id TEXT NOT NULL,
	user_name   TEXT NOT NULL,
	avatar_url  TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_comments_giveaway ON comments(giveaway_id, created_at DESC);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		if _, err := db.Exec(Schema); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== LikeStore implementation ====

// GetLikes returns the like count for a giveaway.
func (s *SQLiteStore) GetLikes(ctx context.Context, giveawayID string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(likes_count), 0)
		FROM giveaway_likes
		WHERE giveaway_id = ?
	`
	var count int64
	if err := s.db.QueryRowContext(ctx, query, giveawayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("query likes: %w", err)
	}
	return count, nil
}

// IncrementLikes adds one like in a single statement and returns the new count.
func (s *SQLiteStore) IncrementLikes(ctx context.Context, giveawayID string) (int64, error) {
	query := `
		INSERT INTO giveaway_likes (giveaway_id, likes_count)
		VALUES (?, 1)
		ON CONFLICT(giveaway_id) DO UPDATE SET likes_count = likes_count + 1
		RETURNING likes_count
	`
	var count int64
	if err := s.db.QueryRowContext(ctx, query, giveawayID).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment likes: %w", err)
	}
	return count, nil
}

// ==== CommentStore implementation ====

// CreateComment persists a comment.
func (s *SQLiteStore) CreateComment(ctx context.Context, c *store.Comment) error {
	query := `
		INSERT INTO comments (id, giveaway_id, user_name, avatar_url, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.GiveawayID, c.UserName, c.AvatarURL, c.Content, c.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListComments returns comments for a giveaway, newest first.
func (s *SQLiteStore) ListComments(ctx context.Context, giveawayID string, limit int) ([]*store.Comment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, giveaway_id, user_name, avatar_url, content, created_at
		FROM comments
		WHERE giveaway_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, giveawayID, limit)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*store.Comment, 0)
	for rows.Next() {
		var c store.Comment
		if err := rows.Scan(&c.ID, &c.GiveawayID, &c.UserName, &c.AvatarURL, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
