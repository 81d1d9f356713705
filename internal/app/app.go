package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/giveaway-server/internal/config"
	"github.com/vovakirdan/giveaway-server/internal/core"
	"github.com/vovakirdan/giveaway-server/internal/profile"
	"github.com/vovakirdan/giveaway-server/internal/service/social"
	"github.com/vovakirdan/giveaway-server/internal/store"
	"github.com/vovakirdan/giveaway-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/giveaway-server/internal/transport/http"
)

const profileCachePrefix = "giveaway"

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	cache           *profile.RedisCache
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	loc, err := loadLocation(cfg.Chat.TimeZone)
	if err != nil {
		return nil, err
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	// Redis is optional; without it every lookup goes upstream.
	var (
		cache     profile.Cache
		redisConn *profile.RedisCache
	)
	if cfg.Redis.Addr != "" {
		redisConn, err = profile.NewRedisCache(profile.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, profileCachePrefix)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("init profile cache: %w", err)
		}
		cache = redisConn
		logger.Info().Str("redis_addr", cfg.Redis.Addr).Msg("profile cache enabled")
	}

	profiles := profile.NewClient(profile.Options{
		UsersURL:      cfg.Profile.UsersURL,
		ThumbnailsURL: cfg.Profile.ThumbnailsURL,
		Timeout:       cfg.Profile.Timeout,
		CacheTTL:      cfg.Profile.CacheTTL,
	}, cache, logger)

	socialSvc := social.New(st, social.Options{
		DefaultUser:      cfg.Social.DefaultUser,
		MaxCommentLength: cfg.Social.MaxCommentLength,
		PageSize:         cfg.Social.CommentPageSize,
	})

	hub := core.NewHub(core.Options{
		HistoryLimit:   cfg.Chat.HistoryLimit,
		DefaultUser:    cfg.Chat.DefaultUser,
		AllowEmptyText: cfg.Chat.AllowEmptyText,
		Location:       loc,
	}, logger)

	server := transporthttp.NewServer(transporthttp.Deps{
		Hub:      hub,
		Social:   socialSvc,
		Profiles: profiles,
	}, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		cache:           redisConn,
		log:             logger,
	}, nil
}

// Run starts the hub and the HTTP server and blocks until ctx is cancelled
// or either of them fails.
func (a *App) Run(ctx context.Context) error {
	defer a.cleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gctx)
	})

	g.Go(func() error {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close profile cache")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}
