package cache

import (
	"context"
	"slices"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// DeleteFeed removes a feed with all its items, media files and image.
// Returns false if the feed is not cached.
func (m *Manager) DeleteFeed(ctx context.Context, feed *domain.Feed) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.Index(m.feeds, feed)
	if idx < 0 {
		lgr.Printf("[INFO] feed %q is not cached, nothing to delete", feed.Link)
		return false
	}

	if feed.Image != nil && feed.Image.Downloaded {
		m.removeFile(feed.Image.FileURL)
	}

	var unreadChanged, queueChanged bool
	for _, item := range feed.Items {
		if !item.Read {
			before := len(m.unread)
			m.unread = slices.DeleteFunc(m.unread, func(it *domain.FeedItem) bool { return it == item })
			unreadChanged = unreadChanged || len(m.unread) != before
		}
		if i := slices.Index(m.queue, item); i >= 0 {
			m.queue = slices.Delete(m.queue, i, i+1)
			queueChanged = true
		}
		if item.Media != nil && item.Media.Downloaded {
			m.removeFile(item.Media.FileURL)
		}
	}

	if queueChanged {
		m.saveQueue(ctx)
	}
	if m.hasStore("feed removal") {
		if err := m.store.RemoveFeed(ctx, feed.ID); err != nil {
			lgr.Printf("[WARN] failed to remove feed %d: %v", feed.ID, err)
		}
	}
	m.feeds = slices.Delete(m.feeds, idx, idx+1)

	if unreadChanged {
		m.notify(domain.Event{Type: domain.EventUnreadItemsChanged, FeedID: feed.ID})
	}
	if queueChanged {
		m.notify(domain.Event{Type: domain.EventQueueChanged, FeedID: feed.ID})
	}
	lgr.Printf("[INFO] deleted feed %q (%d items)", feed.Title, len(feed.Items))
	return true
}

// DeleteFeedMedia removes the downloaded file of the media and resets its download state.
// Returns true only if a file was actually removed.
func (m *Manager) DeleteFeedMedia(ctx context.Context, media *domain.FeedMedia) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	if media.FileURL != "" {
		removed = m.removeFile(media.FileURL)
	}
	media.Downloaded = false
	media.FileURL = ""
	m.saveMedia(ctx, media)
	lgr.Printf("[DEBUG] deleted media file of %d, removed=%v", media.ID, removed)
	return removed
}

func (m *Manager) removeFile(path string) bool {
	if path == "" {
		return false
	}
	ok, err := m.files.Remove(path)
	if err != nil {
		lgr.Printf("[WARN] failed to remove %s: %v", path, err)
		return false
	}
	return ok
}
