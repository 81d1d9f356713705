package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/giveaway-server/internal/config"
	"github.com/vovakirdan/giveaway-server/internal/core"
	"github.com/vovakirdan/giveaway-server/internal/profile"
	"github.com/vovakirdan/giveaway-server/internal/service/social"
)

// ProfileLookup resolves a username into a merged profile.
type ProfileLookup interface {
	Lookup(ctx context.Context, username string) (*profile.Profile, error)
}

// Deps are the collaborators the HTTP layer routes to.
type Deps struct {
	Hub      *core.Hub
	Social   *social.Service
	Profiles ProfileLookup
}

// NewServer builds an HTTP server with all routes.
func NewServer(deps Deps, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(deps, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers the chat socket, the API and the page assets. The socket
// sits on a plain ServeMux because the connection must be hijacked before gin
// touches the response.
func NewRouter(deps Deps, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(deps.Hub, cfg, logger))
	mux.Handle("/", newEngine(deps, cfg, logger))
	return mux
}

func newEngine(deps Deps, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := router.Group("/api")

	users := NewUserHandlers(deps.Profiles, logger)
	api.GET("/roblox/user/:username", users.GetRobloxUser)

	giveaways := NewSocialHandlers(deps.Social, logger)
	api.GET("/giveaways/:id/likes", giveaways.GetLikes)
	api.POST("/giveaways/:id/likes", giveaways.Like)
	api.GET("/giveaways/:id/comments", giveaways.ListComments)
	api.POST("/giveaways/:id/comments", giveaways.AddComment)

	router.NoRoute(NewAssetHandler(cfg, logger))

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
