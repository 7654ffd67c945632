// Package cache keeps the in-memory state of subscribed feeds in sync with the store.
//
// Manager owns feeds (with their items, media, images and chapters) together with derived
// views: the unread index, the playback queue and the bounded download log. Every mutating
// call updates in-memory indexes, writes through to the Store and emits an event while holding
// a single lock, so readers never observe a partially updated index.
package cache

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"slices"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
	"github.com/umputun/podcache/pkg/repository"
)

//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/downloader.go -pkg mocks -skip-ensure -fmt goimports . Downloader
//go:generate moq -out mocks/file_remover.go -pkg mocks -skip-ensure -fmt goimports . FileRemover

// Store is the persistence gateway the cache reads from and writes through to
type Store interface {
	Feeds(ctx context.Context) iter.Seq2[repository.FeedRow, error]
	Image(ctx context.Context, id int64) (*repository.ImageRow, error)
	ItemsOfFeed(ctx context.Context, feedID int64) iter.Seq2[repository.ItemRow, error]
	MediaByIDs(ctx context.Context, ids []int64) iter.Seq2[repository.MediaRow, error]
	ChaptersOfItem(ctx context.Context, itemID int64) iter.Seq2[repository.ChapterRow, error]
	DownloadLog(ctx context.Context) iter.Seq2[repository.DownloadStatusRow, error]
	Queue(ctx context.Context) iter.Seq2[repository.QueueRow, error]

	SetCompleteFeed(ctx context.Context, feed *domain.Feed) error
	SetFeed(ctx context.Context, feed *domain.Feed) error
	SetFeedItem(ctx context.Context, item *domain.FeedItem) error
	SetImage(ctx context.Context, image *domain.FeedImage) error
	SetMedia(ctx context.Context, media *domain.FeedMedia) error
	SetQueue(ctx context.Context, items []*domain.FeedItem) error
	SetDownloadStatus(ctx context.Context, status *domain.DownloadStatus) (int64, error)
	RemoveDownloadStatus(ctx context.Context, id int64) error
	RemoveFeed(ctx context.Context, feedID int64) error
}

// Notifier receives change events. Notify must not block.
type Notifier interface {
	Notify(ev domain.Event)
}

// Downloader accepts fire-and-forget download requests, results come back through Manager methods
type Downloader interface {
	DownloadFeed(req domain.FeedRequest)
	DownloadImage(image *domain.FeedImage)
}

// FileRemover deletes local files. Remove reports false with no error if the file did not exist.
type FileRemover interface {
	Remove(path string) (bool, error)
}

// DownloadLogSize is the number of download statuses kept
const DownloadLogSize = 25

// Params holds Manager collaborators, any of them may be nil
type Params struct {
	Store      Store
	Notifier   Notifier
	Downloader Downloader
	Files      FileRemover
}

// Manager is the feed state cache
type Manager struct {
	store      Store
	notifier   Notifier
	downloader Downloader
	files      FileRemover

	mu          sync.RWMutex
	feeds       []*domain.Feed // sorted by title
	categories  []string
	unread      []*domain.FeedItem // sorted by pub date, newest first
	queue       []*domain.FeedItem
	downloadLog []*domain.DownloadStatus
}

// New makes an empty Manager, call Load to hydrate it from the store
func New(p Params) *Manager {
	if p.Files == nil {
		p.Files = osFiles{}
	}
	return &Manager{
		store:      p.Store,
		notifier:   p.Notifier,
		downloader: p.Downloader,
		files:      p.Files,
	}
}

// Feeds returns cached feeds sorted by title
func (m *Manager) Feeds() []*domain.Feed {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.feeds)
}

// Categories returns known categories
func (m *Manager) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.categories)
}

// UnreadItems returns unread items, newest first
func (m *Manager) UnreadItems() []*domain.FeedItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.unread)
}

// Queue returns queued items in playback order
func (m *Manager) Queue() []*domain.FeedItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.queue)
}

// DownloadLog returns download statuses, oldest first
func (m *Manager) DownloadLog() []*domain.DownloadStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.downloadLog)
}

// View runs fn under the read lock. Cached objects returned by other methods may be read
// only inside fn, and fn must not call Manager methods.
func (m *Manager) View(fn func()) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn()
}

// GetFeed finds a cached feed by id
func (m *Manager) GetFeed(id int64) (*domain.Feed, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.feedByID(id)
}

// GetFeedItem finds an item of the feed by id
func (m *Manager) GetFeedItem(id int64, feed *domain.Feed) (*domain.FeedItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.itemByID(id, feed)
}

// GetFeedImage finds an image of any cached feed by id
func (m *Manager) GetFeedImage(id int64) (*domain.FeedImage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.imageByID(id)
}

// GetFeedMedia finds media of any cached feed by id
func (m *Manager) GetFeedMedia(id int64) (*domain.FeedMedia, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mediaByID(id)
}

// GetFeedMediaOfFeed finds media by id within a single feed
func (m *Manager) GetFeedMediaOfFeed(id int64, feed *domain.Feed) (*domain.FeedMedia, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if feed == nil {
		lgr.Printf("[INFO] can't find media %d, feed is nil", id)
		return nil, false
	}
	for _, item := range feed.Items {
		if item.Media != nil && item.Media.ID == id {
			return item.Media, true
		}
	}
	lgr.Printf("[INFO] can't find media %d in feed %d", id, feed.ID)
	return nil, false
}

func (m *Manager) feedByID(id int64) (*domain.Feed, bool) {
	for _, f := range m.feeds {
		if f.ID == id {
			return f, true
		}
	}
	lgr.Printf("[INFO] can't find feed %d", id)
	return nil, false
}

// cachedItem reports whether the item belongs to a cached feed, expects the lock to be held
func (m *Manager) cachedItem(item *domain.FeedItem) bool {
	for _, f := range m.feeds {
		if slices.Contains(f.Items, item) {
			return true
		}
	}
	return false
}

func (m *Manager) feedByLink(link string) (*domain.Feed, bool) {
	for _, f := range m.feeds {
		if f.Link == link {
			return f, true
		}
	}
	return nil, false
}

func (m *Manager) itemByID(id int64, feed *domain.Feed) (*domain.FeedItem, bool) {
	if feed == nil {
		return nil, false
	}
	for _, item := range feed.Items {
		if item.ID == id {
			return item, true
		}
	}
	lgr.Printf("[INFO] can't find item %d in feed %d", id, feed.ID)
	return nil, false
}

func (m *Manager) imageByID(id int64) (*domain.FeedImage, bool) {
	for _, f := range m.feeds {
		if f.Image != nil && f.Image.ID == id {
			return f.Image, true
		}
	}
	lgr.Printf("[DEBUG] can't find image %d", id)
	return nil, false
}

func (m *Manager) mediaByID(id int64) (*domain.FeedMedia, bool) {
	for _, f := range m.feeds {
		for _, item := range f.Items {
			if item.Media != nil && item.Media.ID == id {
				return item.Media, true
			}
		}
	}
	lgr.Printf("[DEBUG] can't find media %d", id)
	return nil, false
}

// hasStore reports whether writes can go through, logging the skipped operation otherwise
func (m *Manager) hasStore(op string) bool {
	if m.store == nil {
		lgr.Printf("[WARN] store is not available, %s skipped", op)
		return false
	}
	return true
}

func (m *Manager) notify(ev domain.Event) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(ev)
}

// osFiles removes files from the local filesystem
type osFiles struct{}

func (osFiles) Remove(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
