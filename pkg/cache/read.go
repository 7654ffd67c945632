package cache

import (
	"context"
	"slices"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// MarkItemRead sets the read flag of an item, persists it and updates the unread index
func (m *Manager) MarkItemRead(ctx context.Context, item *domain.FeedItem, read bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cachedItem(item) {
		lgr.Printf("[INFO] item %d is not in cached feeds, read state not changed", item.ID)
		return
	}
	m.markItemRead(ctx, item, read)
}

// MarkFeedRead marks every unread item of the feed as read
func (m *Manager) MarkFeedRead(ctx context.Context, feed *domain.Feed) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.feeds, feed) {
		lgr.Printf("[INFO] feed %d is not cached, read state not changed", feed.ID)
		return
	}
	for _, item := range feed.Items {
		if slices.Contains(m.unread, item) {
			m.markItemRead(ctx, item, true)
		}
	}
}

// MarkAllItemsRead marks all unread items as read and emits a single bulk event
func (m *Manager) MarkAllItemsRead(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lgr.Printf("[DEBUG] marking %d items as read", len(m.unread))
	for _, item := range m.unread {
		item.Read = true
		m.saveItem(ctx, item)
	}
	m.unread = nil
	m.notify(domain.NewBulkEvent(domain.EventUnreadItemsChanged))
}

// SetFeedMedia persists media state, e.g. playback position
func (m *Manager) SetFeedMedia(ctx context.Context, media *domain.FeedMedia) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveMedia(ctx, media)
}

// MarkMediaDownloaded records a finished media download
func (m *Manager) MarkMediaDownloaded(ctx context.Context, media *domain.FeedMedia, fileURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	media.FileURL = fileURL
	media.Downloaded = true
	m.saveMedia(ctx, media)
}

// MarkImageDownloaded records a finished image download
func (m *Manager) MarkImageDownloaded(ctx context.Context, image *domain.FeedImage, fileURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	image.FileURL = fileURL
	image.Downloaded = true
	m.saveImage(ctx, image)
}

// markItemRead expects the write lock to be held
func (m *Manager) markItemRead(ctx context.Context, item *domain.FeedItem, read bool) {
	lgr.Printf("[DEBUG] setting item %q read=%v", item.Title, read)
	item.Read = read
	m.saveItem(ctx, item)
	if read {
		m.unread = slices.DeleteFunc(m.unread, func(it *domain.FeedItem) bool { return it == item })
	} else {
		m.addUnread(item)
	}
	m.notify(domain.NewItemEvent(domain.EventUnreadItemsChanged, item))
}

// addUnread inserts an item into the unread index keeping it sorted, newest first
func (m *Manager) addUnread(item *domain.FeedItem) {
	if slices.Contains(m.unread, item) {
		return
	}
	m.unread = append(m.unread, item)
	slices.SortStableFunc(m.unread, domain.ByPubDateDesc)
}

func (m *Manager) saveItem(ctx context.Context, item *domain.FeedItem) {
	if !m.hasStore("item save") {
		return
	}
	if err := m.store.SetFeedItem(ctx, item); err != nil {
		lgr.Printf("[WARN] failed to save item %q: %v", item.Title, err)
	}
}

func (m *Manager) saveMedia(ctx context.Context, media *domain.FeedMedia) {
	if !m.hasStore("media save") {
		return
	}
	if err := m.store.SetMedia(ctx, media); err != nil {
		lgr.Printf("[WARN] failed to save media %d: %v", media.ID, err)
	}
}

func (m *Manager) saveImage(ctx context.Context, image *domain.FeedImage) {
	if !m.hasStore("image save") {
		return
	}
	if err := m.store.SetImage(ctx, image); err != nil {
		lgr.Printf("[WARN] failed to save image %d: %v", image.ID, err)
	}
}
