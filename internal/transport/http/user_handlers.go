package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/giveaway-server/internal/profile"
)

// UserHandlers proxies public user profile lookups.
type UserHandlers struct {
	profiles ProfileLookup
	log      *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(profiles ProfileLookup, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		profiles: profiles,
		log:      logger,
	}
}

// GetRobloxUser returns the merged profile for a username.
// GET /api/roblox/user/:username
func (h *UserHandlers) GetRobloxUser(c *gin.Context) {
	username := c.Param("username")

	p, err := h.profiles.Lookup(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		h.log.Error().Err(err).Str("username", username).Msg("failed to fetch roblox profile")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch Roblox data"})
		return
	}

	c.JSON(http.StatusOK, p)
}
