package repository

import (
	"context"
	"fmt"
	"iter"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/podcache/pkg/domain"
)

// mediaBatchSize limits the number of ids bound into one IN (...) query
const mediaBatchSize = 500

// ItemsOfFeed returns all item rows of a feed
func (s *Store) ItemsOfFeed(ctx context.Context, feedID int64) iter.Seq2[ItemRow, error] {
	return selectRows[ItemRow](ctx, s.db, "items", "SELECT * FROM feed_items WHERE feed_id = ? ORDER BY id", feedID)
}

// MediaByIDs returns media rows for the given ids, batched into IN (...) queries
func (s *Store) MediaByIDs(ctx context.Context, ids []int64) iter.Seq2[MediaRow, error] {
	return func(yield func(MediaRow, error) bool) {
		for start := 0; start < len(ids); start += mediaBatchSize {
			end := min(start+mediaBatchSize, len(ids))
			query, args, err := sqlx.In("SELECT * FROM feed_media WHERE id IN (?)", ids[start:end])
			if err != nil {
				yield(MediaRow{}, fmt.Errorf("build media query: %w", err))
				return
			}
			for row, err := range selectRows[MediaRow](ctx, s.db, "media", s.db.Rebind(query), args...) {
				if !yield(row, err) || err != nil {
					return
				}
			}
		}
	}
}

// ChaptersOfItem returns chapter rows of an item ordered by start offset
func (s *Store) ChaptersOfItem(ctx context.Context, itemID int64) iter.Seq2[ChapterRow, error] {
	return selectRows[ChapterRow](ctx, s.db, "chapters",
		"SELECT * FROM simple_chapters WHERE item_id = ? ORDER BY start, id", itemID)
}

// SetFeedItem stores a single item with its media and chapters
func (s *Store) SetFeedItem(ctx context.Context, item *domain.FeedItem) error {
	var ids assignments
	err := withRetry(ctx, func() error {
		ids = nil
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			_, err := saveItem(ctx, tx, item, item.FeedID, &ids)
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("set feed item: %w", err)
	}
	ids.apply()
	return nil
}

// SetMedia stores a media record
func (s *Store) SetMedia(ctx context.Context, media *domain.FeedMedia) error {
	var id int64
	err := withRetry(ctx, func() (err error) {
		id, err = saveMedia(ctx, s.db, media)
		return err
	})
	if err != nil {
		return fmt.Errorf("set media: %w", err)
	}
	media.ID = id
	return nil
}

// saveItem inserts or updates an item, its media and chapters, returning the item id
func saveItem(ctx context.Context, e sqlx.ExtContext, item *domain.FeedItem, feedID int64, ids *assignments) (int64, error) {
	var mediaID int64
	if item.Media != nil {
		id, err := saveMedia(ctx, e, item.Media)
		if err != nil {
			return 0, err
		}
		mediaID = id
		ids.set(&item.Media.ID, id)
	}

	row := ItemRow{
		ID:                item.ID,
		FeedID:            feedID,
		Title:             item.Title,
		Link:              item.Link,
		Description:       item.Description,
		ContentEncoded:    item.ContentEncoded,
		PubDate:           item.PubDate,
		PaymentLink:       item.PaymentLink,
		MediaID:           mediaID,
		Read:              item.Read,
		HasSimpleChapters: len(item.Chapters) > 0,
	}

	itemID := row.ID
	if itemID == 0 {
		query := `
			INSERT INTO feed_items (feed_id, title, link, description, content_encoded, pub_date,
			                        payment_link, media_id, read, has_simple_chapters)
			VALUES (:feed_id, :title, :link, :description, :content_encoded, :pub_date,
			        :payment_link, :media_id, :read, :has_simple_chapters)
		`
		res, err := sqlx.NamedExecContext(ctx, e, query, row)
		if err != nil {
			return 0, fmt.Errorf("insert item: %w", err)
		}
		if itemID, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("get item insert id: %w", err)
		}
	} else {
		query := `
			UPDATE feed_items
			SET feed_id = :feed_id, title = :title, link = :link, description = :description,
			    content_encoded = :content_encoded, pub_date = :pub_date, payment_link = :payment_link,
			    media_id = :media_id, read = :read, has_simple_chapters = :has_simple_chapters
			WHERE id = :id
		`
		if _, err := sqlx.NamedExecContext(ctx, e, query, row); err != nil {
			return 0, fmt.Errorf("update item: %w", err)
		}
	}

	if _, err := e.ExecContext(ctx, "DELETE FROM simple_chapters WHERE item_id = ?", itemID); err != nil {
		return 0, fmt.Errorf("clear chapters: %w", err)
	}
	for _, ch := range item.Chapters {
		_, err := e.ExecContext(ctx, "INSERT INTO simple_chapters (item_id, start, title) VALUES (?, ?, ?)",
			itemID, ch.Start, ch.Title)
		if err != nil {
			return 0, fmt.Errorf("insert chapter: %w", err)
		}
	}

	ids.set(&item.ID, itemID)
	ids.set(&item.FeedID, feedID)
	if item.Media != nil {
		ids.set(&item.Media.ItemID, itemID)
	}
	return itemID, nil
}

// saveMedia inserts or updates a media row, returning its id
func saveMedia(ctx context.Context, e sqlx.ExtContext, media *domain.FeedMedia) (int64, error) {
	row := MediaRow{
		ID:          media.ID,
		Duration:    media.Duration,
		Position:    media.Position,
		Size:        media.Size,
		MimeType:    media.MimeType,
		FileURL:     media.FileURL,
		DownloadURL: media.DownloadURL,
		Downloaded:  media.Downloaded,
	}

	if row.ID != 0 {
		query := `
			UPDATE feed_media
			SET duration = :duration, position = :position, size = :size, mime_type = :mime_type,
			    file_url = :file_url, download_url = :download_url, downloaded = :downloaded
			WHERE id = :id
		`
		if _, err := sqlx.NamedExecContext(ctx, e, query, row); err != nil {
			return 0, fmt.Errorf("update media: %w", err)
		}
		return row.ID, nil
	}

	query := `
		INSERT INTO feed_media (duration, position, size, mime_type, file_url, download_url, downloaded)
		VALUES (:duration, :position, :size, :mime_type, :file_url, :download_url, :downloaded)
	`
	res, err := sqlx.NamedExecContext(ctx, e, query, row)
	if err != nil {
		return 0, fmt.Errorf("insert media: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get media insert id: %w", err)
	}
	return id, nil
}
