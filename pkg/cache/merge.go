package cache

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// UpdateFeed merges a freshly parsed feed into the cache and returns the saved feed.
//
// Feeds are matched by link, items within a feed by title. A feed with an unknown link is added
// as a whole. For a known feed only items with unknown titles are inserted, at the position they
// have in the new feed, and marked unread; existing items are left untouched.
// Title matching is weak, two episodes sharing a title collapse into one.
func (m *Manager) UpdateFeed(ctx context.Context, newFeed *domain.Feed) *domain.Feed {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved, ok := m.feedByLink(newFeed.Link)
	if !ok {
		lgr.Printf("[DEBUG] no cached feed for %q, adding as new one", newFeed.Link)
		m.addNewFeed(ctx, newFeed)
		return newFeed
	}

	lgr.Printf("[DEBUG] feed %q already cached, syncing items", newFeed.Link)
	added := 0
	for idx, item := range newFeed.Items {
		if m.itemByTitle(saved, item.Title) != nil {
			continue
		}
		item.FeedID = saved.ID
		saved.Items = slices.Insert(saved.Items, min(idx, len(saved.Items)), item)
		m.markItemRead(ctx, item, false)
		added++
	}
	saved.LastUpdate = newFeed.LastUpdate
	if m.hasStore("feed save") {
		if err := m.store.SetFeed(ctx, saved); err != nil {
			lgr.Printf("[WARN] failed to save feed %q: %v", saved.Link, err)
		}
	}
	lgr.Printf("[INFO] updated feed %q, %d new items", saved.Title, added)
	return saved
}

// addNewFeed expects the write lock to be held
func (m *Manager) addNewFeed(ctx context.Context, feed *domain.Feed) {
	pos, _ := slices.BinarySearchFunc(m.feeds, feed, byTitle)
	m.feeds = slices.Insert(m.feeds, pos, feed)

	if m.hasStore("new feed save") {
		if err := m.store.SetCompleteFeed(ctx, feed); err != nil {
			lgr.Printf("[WARN] failed to save new feed %q: %v", feed.Link, err)
		}
	}
	for _, item := range feed.Items {
		item.FeedID = feed.ID
	}
	if feed.Image != nil {
		feed.Image.FeedID = feed.ID
	}

	if len(feed.Items) == 0 {
		lgr.Printf("[INFO] added feed %q without items", feed.Title)
		return
	}
	// only the first item is written and announced, the rest join the index silently
	m.markItemRead(ctx, feed.Items[0], false)
	for _, item := range feed.Items[1:] {
		if !item.Read {
			m.addUnread(item)
		}
	}
	lgr.Printf("[INFO] added feed %q with %d items", feed.Title, len(feed.Items))
}

func (m *Manager) itemByTitle(feed *domain.Feed, title string) *domain.FeedItem {
	for _, item := range feed.Items {
		if item.Title == title {
			return item
		}
	}
	return nil
}

// RefreshFeed asks the downloader to fetch the feed again
func (m *Manager) RefreshFeed(feed *domain.Feed) {
	m.mu.RLock()
	req := domain.FeedRequest{URL: feed.DownloadURL, Requested: time.Now(), FeedID: feed.ID}
	m.mu.RUnlock()
	m.requestFeed(req)
}

// RefreshAllFeeds asks the downloader to fetch every cached feed
func (m *Manager) RefreshAllFeeds() {
	feeds := m.Feeds()
	lgr.Printf("[INFO] refreshing %d feeds", len(feeds))
	for _, f := range feeds {
		m.RefreshFeed(f)
	}
}

// Subscribe asks the downloader to fetch a feed not yet cached
func (m *Manager) Subscribe(url string) {
	m.requestFeed(domain.FeedRequest{URL: url, Requested: time.Now()})
}

// NotifyInvalidImageFile resets the download state of a broken image and requests it again
func (m *Manager) NotifyInvalidImageFile(ctx context.Context, image *domain.FeedImage) {
	m.resetImage(ctx, image)
	if m.downloader == nil {
		lgr.Printf("[WARN] downloader is not available, image not requested")
		return
	}
	m.downloader.DownloadImage(image)
}

func (m *Manager) resetImage(ctx context.Context, image *domain.FeedImage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lgr.Printf("[INFO] image %d is invalid, requesting download again", image.ID)
	image.Downloaded = false
	image.FileURL = ""
	m.saveImage(ctx, image)
}

func (m *Manager) requestFeed(req domain.FeedRequest) {
	if m.downloader == nil {
		lgr.Printf("[WARN] downloader is not available, request for %s dropped", req.URL)
		return
	}
	m.downloader.DownloadFeed(req)
}

func byTitle(a, b *domain.Feed) int {
	return strings.Compare(a.Title, b.Title)
}
