package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/podcache/pkg/domain"
)

//go:generate moq -out mocks/downloads.go -pkg mocks -skip-ensure -fmt goimports . Downloads
//go:generate moq -out mocks/event_stats.go -pkg mocks -skip-ensure -fmt goimports . EventStats

// Server represents HTTP server instance
type Server struct {
	cache     FeedCache
	downloads Downloads
	events    EventStats
	config    Config
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// FeedCache is the cache.Manager api used by handlers
type FeedCache interface {
	View(fn func())
	Feeds() []*domain.Feed
	GetFeed(id int64) (*domain.Feed, bool)
	GetFeedItem(id int64, feed *domain.Feed) (*domain.FeedItem, bool)
	Subscribe(url string)
	RefreshFeed(feed *domain.Feed)
	RefreshAllFeeds()
	DeleteFeed(ctx context.Context, feed *domain.Feed) bool
	DeleteFeedMedia(ctx context.Context, media *domain.FeedMedia) bool

	UnreadItems() []*domain.FeedItem
	MarkItemRead(ctx context.Context, item *domain.FeedItem, read bool)
	MarkFeedRead(ctx context.Context, feed *domain.Feed)
	MarkAllItemsRead(ctx context.Context)

	Queue() []*domain.FeedItem
	AddQueueItem(ctx context.Context, item *domain.FeedItem)
	RemoveQueueItem(ctx context.Context, item *domain.FeedItem)
	MoveQueueItem(ctx context.Context, item *domain.FeedItem, delta int)
	ClearQueue(ctx context.Context)

	DownloadLog() []*domain.DownloadStatus
}

// Downloads queues media downloads and reports the backlog
type Downloads interface {
	DownloadMedia(media *domain.FeedMedia)
	Pending() int
}

// EventStats reports notification counters
type EventStats interface {
	Stats() (published, dropped int64)
}

// Config holds server settings
type Config struct {
	Listen  string
	Timeout time.Duration
	BaseURL string
}

// New initializes a new server instance
func New(cfg Config, cache FeedCache, downloads Downloads, events EventStats, version string, debug bool) *Server {
	s := &Server{
		cache:     cache,
		downloads: downloads,
		events:    events,
		config:    cfg,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting server on %s", s.config.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.Timeout,
		ReadTimeout:       s.config.Timeout,
		WriteTimeout:      s.config.Timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the router, used by tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("podcache", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /feeds", s.feedsHandler)
		r.HandleFunc("POST /feeds", s.subscribeHandler)
		r.HandleFunc("POST /feeds/refresh", s.refreshAllHandler)
		r.HandleFunc("GET /feeds/{id}", s.feedHandler)
		r.HandleFunc("DELETE /feeds/{id}", s.deleteFeedHandler)
		r.HandleFunc("POST /feeds/{id}/refresh", s.refreshFeedHandler)
		r.HandleFunc("POST /feeds/{id}/read", s.markFeedReadHandler)
		r.HandleFunc("PUT /feeds/{feedID}/items/{itemID}/read", s.markItemReadHandler)
		r.HandleFunc("POST /feeds/{feedID}/items/{itemID}/media", s.downloadMediaHandler)
		r.HandleFunc("DELETE /feeds/{feedID}/items/{itemID}/media", s.deleteMediaHandler)

		r.HandleFunc("GET /unread", s.unreadHandler)
		r.HandleFunc("POST /unread/read-all", s.markAllReadHandler)

		r.HandleFunc("GET /queue", s.queueHandler)
		r.HandleFunc("POST /queue", s.addQueueHandler)
		r.HandleFunc("DELETE /queue", s.clearQueueHandler)
		r.HandleFunc("DELETE /queue/{feedID}/{itemID}", s.removeQueueHandler)
		r.HandleFunc("POST /queue/{feedID}/{itemID}/move", s.moveQueueHandler)

		r.HandleFunc("GET /downloads", s.downloadsHandler)
	})

	s.router.HandleFunc("GET /rss/{view}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"feeds":   len(s.cache.Feeds()),
		"unread":  len(s.cache.UnreadItems()),
		"queue":   len(s.cache.Queue()),
	}
	if s.downloads != nil {
		status["pending_downloads"] = s.downloads.Pending()
	}
	if s.events != nil {
		published, dropped := s.events.Stats()
		status["events"] = map[string]int64{"published": published, "dropped": dropped}
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
