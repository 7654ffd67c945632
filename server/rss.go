package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
	"github.com/umputun/podcache/pkg/feed"
)

// rssHandler serves the queue or unread episodes as a podcast RSS feed
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")

	var items []*domain.FeedItem
	switch view {
	case "queue":
		items = s.cache.Queue()
	case "unread":
		items = s.cache.UnreadItems()
	default:
		http.Error(w, "Unknown feed", http.StatusNotFound)
		return
	}

	generator := feed.NewGenerator(s.config.BaseURL)
	var rss string
	var err error
	s.cache.View(func() { rss, err = generator.GenerateRSS(view, "/rss/"+view, items) })
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler exports subscriptions as OPML
func (s *Server) opmlHandler(w http.ResponseWriter, _ *http.Request) {
	generator := feed.NewGenerator(s.config.BaseURL)
	feeds := s.cache.Feeds()
	var opml string
	var err error
	s.cache.View(func() { opml, err = generator.GenerateOPML(feeds) })
	if err != nil {
		lgr.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="podcache.opml"`)
	if _, err := w.Write([]byte(opml)); err != nil {
		lgr.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
