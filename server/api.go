package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// feedsHandler lists subscribed feeds without items
func (s *Server) feedsHandler(w http.ResponseWriter, r *http.Request) {
	feeds := s.cache.Feeds()
	res := make([]feedView, 0, len(feeds))
	s.cache.View(func() {
		for _, f := range feeds {
			res = append(res, newFeedView(f, false))
		}
	})
	RenderJSON(w, r, http.StatusOK, res)
}

// feedHandler returns a feed with its items
func (s *Server) feedHandler(w http.ResponseWriter, r *http.Request) {
	feed, _, ok := s.lookupFeed(w, r, "id")
	if !ok {
		return
	}
	var res feedView
	s.cache.View(func() { res = newFeedView(feed, true) })
	RenderJSON(w, r, http.StatusOK, res)
}

// subscribeHandler requests download of a new feed, the feed shows up once fetched
func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		RenderError(w, r, fmt.Errorf("invalid feed url %q", req.URL), http.StatusBadRequest)
		return
	}
	s.cache.Subscribe(req.URL)
	lgr.Printf("[INFO] subscription to %s requested", req.URL)
	RenderJSON(w, r, http.StatusAccepted, map[string]string{"status": "requested", "url": req.URL})
}

func (s *Server) refreshAllHandler(w http.ResponseWriter, r *http.Request) {
	s.cache.RefreshAllFeeds()
	RenderJSON(w, r, http.StatusAccepted, map[string]string{"status": "requested"})
}

func (s *Server) refreshFeedHandler(w http.ResponseWriter, r *http.Request) {
	feed, id, ok := s.lookupFeed(w, r, "id")
	if !ok {
		return
	}
	s.cache.RefreshFeed(feed)
	RenderJSON(w, r, http.StatusAccepted, map[string]any{"status": "requested", "id": id})
}

// deleteFeedHandler removes the feed with its items, media files and queue entries
func (s *Server) deleteFeedHandler(w http.ResponseWriter, r *http.Request) {
	feed, id, ok := s.lookupFeed(w, r, "id")
	if !ok {
		return
	}
	if !s.cache.DeleteFeed(r.Context(), feed) {
		RenderError(w, r, fmt.Errorf("feed %d not found", id), http.StatusNotFound)
		return
	}
	RenderJSON(w, r, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (s *Server) markFeedReadHandler(w http.ResponseWriter, r *http.Request) {
	feed, _, ok := s.lookupFeed(w, r, "id")
	if !ok {
		return
	}
	s.cache.MarkFeedRead(r.Context(), feed)
	var res feedView
	s.cache.View(func() { res = newFeedView(feed, false) })
	RenderJSON(w, r, http.StatusOK, res)
}

// markItemReadHandler sets read state of an item, body is {"read": bool}
func (s *Server) markItemReadHandler(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookupItem(w, r)
	if !ok {
		return
	}
	var req struct {
		Read *bool `json:"read"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Read == nil {
		RenderError(w, r, fmt.Errorf("read flag is required"), http.StatusBadRequest)
		return
	}
	s.cache.MarkItemRead(r.Context(), item, *req.Read)
	var res itemView
	s.cache.View(func() { res = newItemView(item) })
	RenderJSON(w, r, http.StatusOK, res)
}

func (s *Server) downloadMediaHandler(w http.ResponseWriter, r *http.Request) {
	media, mediaID, ok := s.lookupMedia(w, r)
	if !ok {
		return
	}
	if s.downloads == nil {
		RenderError(w, r, fmt.Errorf("downloads are not available"), http.StatusServiceUnavailable)
		return
	}
	s.downloads.DownloadMedia(media)
	RenderJSON(w, r, http.StatusAccepted, map[string]any{"status": "requested", "media_id": mediaID})
}

// deleteMediaHandler removes the downloaded media file of an item
func (s *Server) deleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	media, mediaID, ok := s.lookupMedia(w, r)
	if !ok {
		return
	}
	removed := s.cache.DeleteFeedMedia(r.Context(), media)
	RenderJSON(w, r, http.StatusOK, map[string]any{"removed": removed, "media_id": mediaID})
}

func (s *Server) unreadHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.itemViews(s.cache.UnreadItems()))
}

func (s *Server) markAllReadHandler(w http.ResponseWriter, r *http.Request) {
	s.cache.MarkAllItemsRead(r.Context())
	RenderJSON(w, r, http.StatusOK, map[string]int{"unread": len(s.cache.UnreadItems())})
}

func (s *Server) queueHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.itemViews(s.cache.Queue()))
}

// addQueueHandler appends an item to the queue, body is {"feed_id": N, "item_id": N}
func (s *Server) addQueueHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeedID int64 `json:"feed_id"`
		ItemID int64 `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	item, err := s.findItem(req.FeedID, req.ItemID)
	if err != nil {
		RenderError(w, r, err, http.StatusNotFound)
		return
	}
	s.cache.AddQueueItem(r.Context(), item)
	RenderJSON(w, r, http.StatusOK, s.itemViews(s.cache.Queue()))
}

func (s *Server) clearQueueHandler(w http.ResponseWriter, r *http.Request) {
	s.cache.ClearQueue(r.Context())
	RenderJSON(w, r, http.StatusOK, []itemView{})
}

func (s *Server) removeQueueHandler(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookupItem(w, r)
	if !ok {
		return
	}
	s.cache.RemoveQueueItem(r.Context(), item)
	RenderJSON(w, r, http.StatusOK, s.itemViews(s.cache.Queue()))
}

// moveQueueHandler swaps the item with the one delta positions away
func (s *Server) moveQueueHandler(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookupItem(w, r)
	if !ok {
		return
	}
	delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid delta"), http.StatusBadRequest)
		return
	}
	s.cache.MoveQueueItem(r.Context(), item, delta)
	RenderJSON(w, r, http.StatusOK, s.itemViews(s.cache.Queue()))
}

func (s *Server) downloadsHandler(w http.ResponseWriter, r *http.Request) {
	log := s.cache.DownloadLog()
	res := make([]statusView, 0, len(log))
	s.cache.View(func() {
		for _, st := range log {
			res = append(res, newStatusView(st))
		}
	})
	RenderJSON(w, r, http.StatusOK, res)
}

// lookupFeed resolves the feed id from the path, renders an error if it fails
func (s *Server) lookupFeed(w http.ResponseWriter, r *http.Request, param string) (*domain.Feed, int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(param), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid feed ID"), http.StatusBadRequest)
		return nil, 0, false
	}
	feed, ok := s.cache.GetFeed(id)
	if !ok {
		RenderError(w, r, fmt.Errorf("feed %d not found", id), http.StatusNotFound)
		return nil, 0, false
	}
	return feed, id, true
}

// lookupItem resolves {feedID}/{itemID} path values, renders an error if it fails
func (s *Server) lookupItem(w http.ResponseWriter, r *http.Request) (*domain.FeedItem, bool) {
	feedID, err := strconv.ParseInt(r.PathValue("feedID"), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid feed ID"), http.StatusBadRequest)
		return nil, false
	}
	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid item ID"), http.StatusBadRequest)
		return nil, false
	}
	item, err := s.findItem(feedID, itemID)
	if err != nil {
		RenderError(w, r, err, http.StatusNotFound)
		return nil, false
	}
	return item, true
}

// lookupMedia resolves media of the item in the path, renders an error if the item has none
func (s *Server) lookupMedia(w http.ResponseWriter, r *http.Request) (*domain.FeedMedia, int64, bool) {
	item, ok := s.lookupItem(w, r)
	if !ok {
		return nil, 0, false
	}
	var media *domain.FeedMedia
	var itemID, mediaID int64
	s.cache.View(func() {
		itemID = item.ID
		if media = item.Media; media != nil {
			mediaID = media.ID
		}
	})
	if media == nil {
		RenderError(w, r, fmt.Errorf("item %d has no media", itemID), http.StatusNotFound)
		return nil, 0, false
	}
	return media, mediaID, true
}

// itemViews renders cached items under the cache read lock
func (s *Server) itemViews(items []*domain.FeedItem) []itemView {
	var res []itemView
	s.cache.View(func() { res = newItemViews(items) })
	return res
}

var errNotFound = errors.New("not found")

func (s *Server) findItem(feedID, itemID int64) (*domain.FeedItem, error) {
	feed, ok := s.cache.GetFeed(feedID)
	if !ok {
		return nil, fmt.Errorf("feed %d: %w", feedID, errNotFound)
	}
	item, ok := s.cache.GetFeedItem(itemID, feed)
	if !ok {
		return nil, fmt.Errorf("item %d of feed %d: %w", itemID, feedID, errNotFound)
	}
	return item, nil
}
