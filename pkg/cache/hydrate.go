package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// Load replaces the cache content with the state kept by the store.
// Only an unreadable feed list is reported as error, other failures are logged and skipped.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.feeds = nil
	m.categories = nil
	m.unread = nil
	m.queue = nil
	m.downloadLog = nil

	if !m.hasStore("load") {
		return nil
	}

	if err := m.loadFeeds(ctx); err != nil {
		return fmt.Errorf("load feeds: %w", err)
	}
	m.loadDownloadLog(ctx)
	m.loadQueue(ctx)

	lgr.Printf("[INFO] loaded %d feeds, %d unread, %d queued, %d log entries",
		len(m.feeds), len(m.unread), len(m.queue), len(m.downloadLog))
	return nil
}

func (m *Manager) loadFeeds(ctx context.Context) error {
	var feeds []*domain.Feed
	var imageIDs []int64
	for row, err := range m.store.Feeds(ctx) {
		if err != nil {
			return err
		}
		feeds = append(feeds, row.ToDomain())
		imageIDs = append(imageIDs, row.ImageID)
	}

	stubs := map[int64]*domain.FeedItem{} // media id -> owning item
	for i, feed := range feeds {
		if imageIDs[i] != 0 {
			img, err := m.store.Image(ctx, imageIDs[i])
			if err != nil {
				lgr.Printf("[WARN] failed to load image of feed %d: %v", feed.ID, err)
			} else {
				feed.Image = img.ToDomain(feed.ID)
			}
		}
		m.loadItems(ctx, feed, stubs)
	}

	if len(stubs) > 0 {
		ids := make([]int64, 0, len(stubs))
		for id := range stubs {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for row, err := range m.store.MediaByIDs(ctx, ids) {
			if err != nil {
				lgr.Printf("[WARN] failed to load media: %v", err)
				break
			}
			if item, ok := stubs[row.ID]; ok {
				item.Media = row.ToDomain(item.ID)
			}
		}
	}

	slices.SortStableFunc(feeds, byTitle)
	slices.SortStableFunc(m.unread, domain.ByPubDateDesc)
	m.feeds = feeds
	return nil
}

// loadItems reads items of the feed, registering media stubs. Chapters are read once the item
// cursor is drained.
func (m *Manager) loadItems(ctx context.Context, feed *domain.Feed, stubs map[int64]*domain.FeedItem) {
	var withChapters []*domain.FeedItem
	for row, err := range m.store.ItemsOfFeed(ctx, feed.ID) {
		if err != nil {
			lgr.Printf("[WARN] failed to load items of feed %d: %v", feed.ID, err)
			break
		}
		item := row.ToDomain()
		item.FeedID = feed.ID
		if row.MediaID != 0 {
			item.Media = &domain.FeedMedia{ID: row.MediaID, ItemID: item.ID}
			stubs[row.MediaID] = item
		}
		if !item.Read {
			m.unread = append(m.unread, item)
		}
		if row.HasSimpleChapters {
			withChapters = append(withChapters, item)
		}
		feed.Items = append(feed.Items, item)
	}

	for _, item := range withChapters {
		for row, err := range m.store.ChaptersOfItem(ctx, item.ID) {
			if err != nil {
				lgr.Printf("[WARN] failed to load chapters of item %d: %v", item.ID, err)
				break
			}
			item.Chapters = append(item.Chapters, row.ToDomain())
		}
	}
	slices.SortStableFunc(feed.Items, domain.ByPubDateDesc)
}

func (m *Manager) loadDownloadLog(ctx context.Context) {
	for row, err := range m.store.DownloadLog(ctx) {
		if err != nil {
			lgr.Printf("[WARN] failed to load download log: %v", err)
			return
		}
		var file domain.FeedFile
		var ok bool
		switch row.Kind() {
		case domain.FileKindFeed:
			file, ok = m.feedFile(row.FeedFileID)
		case domain.FileKindImage:
			file, ok = m.imageFile(row.FeedFileID)
		case domain.FileKindMedia:
			file, ok = m.mediaFile(row.FeedFileID)
		}
		if !ok {
			lgr.Printf("[DEBUG] skip download status %d, %s %d not found", row.ID, row.Kind(), row.FeedFileID)
			continue
		}
		m.downloadLog = append(m.downloadLog, row.ToDomain(file))
	}
}

// the file lookups keep typed nil pointers out of the FeedFile interface
func (m *Manager) feedFile(id int64) (domain.FeedFile, bool) {
	if f, ok := m.feedByID(id); ok {
		return f, true
	}
	return nil, false
}

func (m *Manager) imageFile(id int64) (domain.FeedFile, bool) {
	if img, ok := m.imageByID(id); ok {
		return img, true
	}
	return nil, false
}

func (m *Manager) mediaFile(id int64) (domain.FeedFile, bool) {
	if media, ok := m.mediaByID(id); ok {
		return media, true
	}
	return nil, false
}

func (m *Manager) loadQueue(ctx context.Context) {
	for row, err := range m.store.Queue(ctx) {
		if err != nil {
			lgr.Printf("[WARN] failed to load queue: %v", err)
			return
		}
		feed, ok := m.feedByID(row.FeedID)
		if !ok {
			lgr.Printf("[DEBUG] skip queue entry %d, feed %d not found", row.Ordinal, row.FeedID)
			continue
		}
		item, ok := m.itemByID(row.ItemID, feed)
		if !ok {
			lgr.Printf("[DEBUG] skip queue entry %d, item %d not found", row.Ordinal, row.ItemID)
			continue
		}
		if slices.Contains(m.queue, item) {
			continue
		}
		pos := min(max(row.Ordinal, 0), len(m.queue))
		m.queue = slices.Insert(m.queue, pos, item)
	}
}
