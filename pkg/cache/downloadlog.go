package cache

import (
	"context"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/podcache/pkg/domain"
)

// AddDownloadStatus appends a status to the download log, evicting the oldest entry once the log
// grows over DownloadLogSize. Returns the store id of the status, 0 if it was not persisted.
func (m *Manager) AddDownloadStatus(ctx context.Context, status *domain.DownloadStatus) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.downloadLog = append(m.downloadLog, status)
	if len(m.downloadLog) > DownloadLogSize {
		oldest := m.downloadLog[0]
		m.downloadLog = m.downloadLog[1:]
		if m.store != nil && oldest.ID != 0 {
			if err := m.store.RemoveDownloadStatus(ctx, oldest.ID); err != nil {
				lgr.Printf("[WARN] failed to remove download status %d: %v", oldest.ID, err)
			}
		}
	}

	if !m.hasStore("download status save") {
		return 0
	}
	id, err := m.store.SetDownloadStatus(ctx, status)
	if err != nil {
		lgr.Printf("[WARN] failed to save download status: %v", err)
		return 0
	}
	return id
}

// GetDownloadStatus finds a logged status by id
func (m *Manager) GetDownloadStatus(id int64) (*domain.DownloadStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.downloadLog {
		if s.ID == id {
			return s, true
		}
	}
	lgr.Printf("[DEBUG] can't find download status %d", id)
	return nil, false
}
