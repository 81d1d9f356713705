package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/giveaway-server/internal/service/social"
)

// SocialHandlers provides likes and comments endpoints for giveaways.
type SocialHandlers struct {
	social *social.Service
	log    *zerolog.Logger
}

// NewSocialHandlers creates a new social handlers instance.
func NewSocialHandlers(svc *social.Service, logger *zerolog.Logger) *SocialHandlers {
	return &SocialHandlers{
		social: svc,
		log:    logger,
	}
}

// LikesResponse is the like counter of a giveaway.
type LikesResponse struct {
	GiveawayID string `json:"giveawayId"`
	Likes      int64  `json:"likes"`
}

// CommentRequest represents the comment creation body.
type CommentRequest struct {
	UserName  string `json:"userName"`
	AvatarURL string `json:"avatarUrl"`
	Content   string `json:"content" binding:"required"`
}

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID         string    `json:"id"`
	GiveawayID string    `json:"giveawayId"`
	UserName   string    `json:"userName"`
	AvatarURL  string    `json:"avatarUrl"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetLikes returns the like count.
// GET /api/giveaways/:id/likes
func (h *SocialHandlers) GetLikes(c *gin.Context) {
	id := c.Param("id")
	likes, err := h.social.Likes(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, id, "failed to get likes")
		return
	}
	c.JSON(http.StatusOK, LikesResponse{GiveawayID: social.Slug(id), Likes: likes})
}

// Like increments the like count.
// POST /api/giveaways/:id/likes
func (h *SocialHandlers) Like(c *gin.Context) {
	id := c.Param("id")
	likes, err := h.social.Like(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, id, "failed to like giveaway")
		return
	}
	c.JSON(http.StatusOK, LikesResponse{GiveawayID: social.Slug(id), Likes: likes})
}

// ListComments returns comments newest first.
// GET /api/giveaways/:id/comments
func (h *SocialHandlers) ListComments(c *gin.Context) {
	id := c.Param("id")
	comments, err := h.social.Comments(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, id, "failed to list comments")
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		response = append(response, commentResponse(cm))
	}
	c.JSON(http.StatusOK, response)
}

// AddComment posts a new comment.
// POST /api/giveaways/:id/comments
func (h *SocialHandlers) AddComment(c *gin.Context) {
	id := c.Param("id")

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid comment request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	comment, err := h.social.AddComment(c.Request.Context(), id, social.NewComment{
		UserName:  req.UserName,
		AvatarURL: req.AvatarURL,
		Content:   req.Content,
	})
	if err != nil {
		h.fail(c, err, id, "failed to add comment")
		return
	}

	h.log.Info().Str("giveaway_id", comment.GiveawayID).Str("comment_id", comment.ID).Msg("comment added")
	c.JSON(http.StatusCreated, commentResponse(comment))
}

func (h *SocialHandlers) fail(c *gin.Context, err error, id, msg string) {
	switch {
	case errors.Is(err, social.ErrInvalidGiveaway),
		errors.Is(err, social.ErrEmptyComment),
		errors.Is(err, social.ErrCommentTooLong):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Str("giveaway_id", id).Msg(msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
