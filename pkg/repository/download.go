package repository

import (
	"context"
	"fmt"
	"iter"

	"github.com/umputun/podcache/pkg/domain"
)

// DownloadLog returns download log rows, oldest first
func (s *Store) DownloadLog(ctx context.Context) iter.Seq2[DownloadStatusRow, error] {
	return selectRows[DownloadStatusRow](ctx, s.db, "download log", "SELECT * FROM download_log ORDER BY id")
}

// SetDownloadStatus inserts or updates a download log entry and returns its id
func (s *Store) SetDownloadStatus(ctx context.Context, status *domain.DownloadStatus) (int64, error) {
	row := DownloadStatusRow{
		ID:             status.ID,
		Successful:     status.Successful,
		Reason:         int(status.Reason),
		CompletionDate: status.CompletionDate,
	}
	if status.File != nil {
		row.FeedFileID = status.File.FileID()
		row.FeedFileType = int(status.File.FileKind())
	}

	id := row.ID
	err := withRetry(ctx, func() error {
		if row.ID != 0 {
			query := `
				UPDATE download_log
				SET feedfile_id = :feedfile_id, feedfile_type = :feedfile_type, successful = :successful,
				    reason = :reason, completion_date = :completion_date
				WHERE id = :id
			`
			_, err := s.db.NamedExecContext(ctx, query, row)
			return err
		}
		query := `
			INSERT INTO download_log (feedfile_id, feedfile_type, successful, reason, completion_date)
			VALUES (:feedfile_id, :feedfile_type, :successful, :reason, :completion_date)
		`
		res, err := s.db.NamedExecContext(ctx, query, row)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("set download status: %w", err)
	}
	status.ID = id
	return id, nil
}

// RemoveDownloadStatus deletes a download log entry
func (s *Store) RemoveDownloadStatus(ctx context.Context, id int64) error {
	err := withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM download_log WHERE id = ?", id)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove download status: %w", err)
	}
	return nil
}
