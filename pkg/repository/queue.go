package repository

import (
	"context"
	"fmt"
	"iter"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/podcache/pkg/domain"
)

// Queue returns queue rows ordered by position
func (s *Store) Queue(ctx context.Context) iter.Seq2[QueueRow, error] {
	return selectRows[QueueRow](ctx, s.db, "queue", "SELECT * FROM queue ORDER BY id")
}

// SetQueue replaces the stored queue with the given items
func (s *Store) SetQueue(ctx context.Context, items []*domain.FeedItem) error {
	err := withRetry(ctx, func() error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM queue"); err != nil {
				return err
			}
			for i, item := range items {
				_, err := tx.ExecContext(ctx, "INSERT INTO queue (id, feed_id, item_id) VALUES (?, ?, ?)",
					i, item.FeedID, item.ID)
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("set queue: %w", err)
	}
	return nil
}
