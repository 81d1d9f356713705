package store

import (
	"context"
	"time"
)

// Comment is a persisted comment on a giveaway.
type Comment struct {
	ID         string
	GiveawayID string
	UserName   string
	AvatarURL  string
	Content    string
	CreatedAt  time.Time
}

// LikeStore handles like counters keyed by giveaway.
type LikeStore interface {
	// GetLikes returns the like count for a giveaway, zero when it has none.
	GetLikes(ctx context.Context, giveawayID string) (int64, error)

	// IncrementLikes adds one like and returns the new count.
	IncrementLikes(ctx context.Context, giveawayID string) (int64, error)
}

// CommentStore handles comment persistence.
type CommentStore interface {
	// CreateComment persists a comment. ID and CreatedAt must be set by the caller.
	CreateComment(ctx context.Context, c *Comment) error

	// ListComments returns up to limit comments for a giveaway, newest first.
	ListComments(ctx context.Context, giveawayID string, limit int) ([]*Comment, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	LikeStore
	CommentStore

	// Close closes the underlying database connection.
	Close() error
}
