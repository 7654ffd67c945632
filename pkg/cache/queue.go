package cache

import (
	"context"
	"slices"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// AddQueueItem appends an item to the playback queue, already queued items are ignored
func (m *Manager) AddQueueItem(ctx context.Context, item *domain.FeedItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.queue, item) {
		lgr.Printf("[DEBUG] item %d is already queued", item.ID)
		return
	}
	if !m.cachedItem(item) {
		lgr.Printf("[INFO] item %d is not in cached feeds, not queued", item.ID)
		return
	}
	m.queue = append(m.queue, item)
	m.saveQueue(ctx)
	m.notify(domain.NewItemEvent(domain.EventQueueChanged, item))
}

// ClearQueue removes all items from the queue
func (m *Manager) ClearQueue(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lgr.Printf("[DEBUG] clearing queue")
	m.queue = nil
	m.saveQueue(ctx)
	m.notify(domain.NewBulkEvent(domain.EventQueueChanged))
}

// RemoveQueueItem removes an item from the queue if present
func (m *Manager) RemoveQueueItem(ctx context.Context, item *domain.FeedItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := slices.Index(m.queue, item); idx >= 0 {
		m.queue = slices.Delete(m.queue, idx, idx+1)
		m.saveQueue(ctx)
	}
	m.notify(domain.NewItemEvent(domain.EventQueueChanged, item))
}

// MoveQueueItem swaps the item with the one delta positions away.
// Nothing changes if the target position is out of bounds or the item is not queued.
func (m *Manager) MoveQueueItem(ctx context.Context, item *domain.FeedItem, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := slices.Index(m.queue, item)
	target := idx + delta
	if idx >= 0 && target >= 0 && target < len(m.queue) {
		m.queue[idx], m.queue[target] = m.queue[target], m.queue[idx]
		m.saveQueue(ctx)
	}
	m.notify(domain.NewItemEvent(domain.EventQueueChanged, item))
}

// IsInQueue checks if the item is queued
func (m *Manager) IsInQueue(item *domain.FeedItem) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.queue, item)
}

// FirstQueueItem returns the head of the queue
func (m *Manager) FirstQueueItem() (*domain.FeedItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.queue) == 0 {
		return nil, false
	}
	return m.queue[0], true
}

func (m *Manager) saveQueue(ctx context.Context) {
	if !m.hasStore("queue save") {
		return
	}
	if err := m.store.SetQueue(ctx, m.queue); err != nil {
		lgr.Printf("[WARN] failed to save queue: %v", err)
	}
}
