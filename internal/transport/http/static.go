package http

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/giveaway-server/internal/config"
)

// NewAssetHandler serves everything that is not an API route. In production it
// serves the built single-page app from StaticDir and falls back to
// index.html for client-side routes. In development it proxies to the
// frontend dev server.
func NewAssetHandler(cfg *config.Config, logger *zerolog.Logger) gin.HandlerFunc {
	var serve gin.HandlerFunc
	if cfg.IsProduction() {
		serve = staticHandler(cfg.StaticDir)
	} else {
		serve = devProxyHandler(cfg.DevServerURL, logger)
	}

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		serve(c)
	}
}

func staticHandler(root string) gin.HandlerFunc {
	index := filepath.Join(root, "index.html")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}

		clean := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(root, filepath.FromSlash(clean))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		c.File(index)
	}
}

func devProxyHandler(target string, logger *zerolog.Logger) gin.HandlerFunc {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		logger.Error().Err(err).Str("dev_server_url", target).Msg("invalid dev server url")
		return func(c *gin.Context) {
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "dev server unavailable"})
		}
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("dev server proxy error")
		w.WriteHeader(http.StatusBadGateway)
	}

	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
