package social

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vovakirdan/giveaway-server/internal/store"
)

// Common errors for social operations.
var (
	ErrInvalidGiveaway = errors.New("invalid giveaway id")
	ErrEmptyComment    = errors.New("comment is empty")
	ErrCommentTooLong  = errors.New("comment is too long")
)

const (
	defaultUserName         = "Visitante"
	defaultMaxCommentLength = 500
	defaultPageSize         = 50
	maxGiveawayIDLength     = 128
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug derives a giveaway id from its title: lowercase, whitespace runs become "-".
func Slug(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// Options tunes validation and defaults.
type Options struct {
	DefaultUser      string
	MaxCommentLength int
	PageSize         int
	Now              func() time.Time
}

// Service provides like and comment business logic.
type Service struct {
	store store.Store
	opts  Options
}

// New creates a new social Service.
func New(st store.Store, opts Options) *Service {
	if opts.DefaultUser == "" {
		opts.DefaultUser = defaultUserName
	}
	if opts.MaxCommentLength <= 0 {
		opts.MaxCommentLength = defaultMaxCommentLength
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, opts: opts}
}

// Likes returns the current like count.
func (s *Service) Likes(ctx context.Context, giveawayID string) (int64, error) {
	id, err := normalizeID(giveawayID)
	if err != nil {
		return 0, err
	}
	count, err := s.store.GetLikes(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get likes: %w", err)
	}
	return count, nil
}

// Like records one like and returns the new count.
func (s *Service) Like(ctx context.Context, giveawayID string) (int64, error) {
	id, err := normalizeID(giveawayID)
	if err != nil {
		return 0, err
	}
	count, err := s.store.IncrementLikes(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("increment likes: %w", err)
	}
	return count, nil
}

// Comments lists the newest comments for a giveaway.
func (s *Service) Comments(ctx context.Context, giveawayID string) ([]*store.Comment, error) {
	id, err := normalizeID(giveawayID)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, id, s.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// NewComment is the input for AddComment. UserName and AvatarURL are optional.
type NewComment struct {
	UserName  string
	AvatarURL string
	Content   string
}

// AddComment validates and persists a comment.
func (s *Service) AddComment(ctx context.Context, giveawayID string, in NewComment) (*store.Comment, error) {
	id, err := normalizeID(giveawayID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > s.opts.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		userName = s.opts.DefaultUser
	}

	comment := &store.Comment{
		ID:         uuid.NewString(),
		GiveawayID: id,
		UserName:   userName,
		AvatarURL:  strings.TrimSpace(in.AvatarURL),
		Content:    content,
		CreatedAt:  s.opts.Now().UTC(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func normalizeID(giveawayID string) (string, error) {
	id := Slug(giveawayID)
	if id == "" || len(id) > maxGiveawayIDLength {
		return "", ErrInvalidGiveaway
	}
	return id, nil
}
