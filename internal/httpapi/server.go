package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"noticias.lat/hub/internal/auth"
	"noticias.lat/hub/internal/cache"
	"noticias.lat/hub/internal/content"
	"noticias.lat/hub/internal/db"
	"noticias.lat/hub/internal/globaltime"
	"noticias.lat/hub/internal/source/radio"
	"noticias.lat/hub/internal/video"
)

// SyncFunc runs one ingest pass for a named source.
type SyncFunc func(ctx context.Context) (*content.Summary, error)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	DefaultSiteTag      string
	RadioDefaultCountry string

	SitemapBaseURL  string
	SitemapPageSize int

	PlaylistMediaDir   string
	PlaylistPublicBase string
}

type Server struct {
	pool     *db.Pool
	logger   zerolog.Logger
	opts     Options
	verifier *auth.Verifier
	cache    *cache.TTLCache
	radio    *radio.Client
	matcher  *video.Matcher
	syncers  map[string]SyncFunc
	sitemaps sitemapStore
}

// sitemapStore is the slice of the pool the sitemap handlers read from.
type sitemapStore interface {
	CountArticlesBySite(ctx context.Context, siteTag string) (int64, error)
	ListArticlesForSitemap(ctx context.Context, siteTag string, offset, limit int) ([]db.SitemapEntry, error)
}

// Dependencies carries the collaborators the handlers need beyond the pool.
// Nil members disable the routes they serve.
type Dependencies struct {
	Verifier *auth.Verifier
	Cache    *cache.TTLCache
	Radio    *radio.Client
	Matcher  *video.Matcher
	Syncers  map[string]SyncFunc
}

func NewServer(pool *db.Pool, logger zerolog.Logger, deps Dependencies, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.SitemapPageSize <= 0 {
		opts.SitemapPageSize = 5000
	}
	opts.Host = host

	s := &Server{
		pool:     pool,
		logger:   logger,
		opts:     opts,
		verifier: deps.Verifier,
		cache:    deps.Cache,
		radio:    deps.Radio,
		matcher:  deps.Matcher,
		syncers:  deps.Syncers,
	}
	if pool != nil {
		s.sitemaps = pool
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("hub api server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("hub api server stopped")
	return nil
}

// buildEcho wires middleware and routes; split out so handler tests can run
// requests without binding a port.
func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-API-Key"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/playlist.txt", s.handlePlaylistManifest)
	e.GET("/sitemap.xml", s.handleSitemapIndex)
	e.GET("/sitemap-static.xml", s.handleSitemapStatic)
	e.GET("/sitemap-noticias-:page", s.handleSitemapNews)
	if dir := strings.TrimSpace(s.opts.PlaylistMediaDir); dir != "" {
		e.Static(strings.TrimSuffix(s.opts.PlaylistPublicBase, "/"), dir)
	}

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)

	api.GET("/articles", s.handleListArticles)
	api.GET("/articles/:id", s.handleGetArticle)
	api.POST("/articles", s.handleCreateArticle, s.requireAdminKey())
	api.POST("/articles/:id/video-match", s.handleVideoMatch, s.requireAdminKey())

	api.GET("/games", s.handleListGames, s.cached())
	api.GET("/games/:slug", s.handleGetGame)

	api.GET("/radio", s.handleRadioSnapshot, s.cached())
	api.GET("/radio/buscar", s.handleRadioSearch, s.cached())

	api.POST("/sync-gnews", s.syncHandler("gnews"), s.requireAdminKey())
	api.POST("/sync-games", s.syncHandler("games"), s.requireAdminKey())
	api.POST("/sync-rss", s.syncHandler("rss"), s.requireAdminKey())
	api.POST("/sync-radios", s.handleSyncRadios, s.requireAdminKey())

	api.GET("/playlist", s.handleListPlaylist)
	api.POST("/playlist/upload", s.handlePlaylistUpload, s.requireAdminKey())
	api.PUT("/playlist/reorder", s.handlePlaylistReorder, s.requireAdminKey())
	api.DELETE("/playlist/:id", s.handlePlaylistDelete, s.requireAdminKey())

	return e
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	isAPI := strings.HasPrefix(c.Request().URL.Path, "/api/")
	if isAPI {
		if status >= 500 {
			_ = internalError(c, "Internal server error")
			return
		}
		_ = fail(c, status, message, nil)
		return
	}

	_ = c.String(status, message)
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "hub",
		"time":    globaltime.UTC(),
	})
}
