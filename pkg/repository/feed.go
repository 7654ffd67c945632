package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/podcache/pkg/domain"
)

// Feeds returns all feed rows ordered by title
func (s *Store) Feeds(ctx context.Context) iter.Seq2[FeedRow, error] {
	return selectRows[FeedRow](ctx, s.db, "feeds", "SELECT * FROM feeds ORDER BY title")
}

// Image retrieves a feed image by id
func (s *Store) Image(ctx context.Context, id int64) (*ImageRow, error) {
	var row ImageRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM feed_images WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("image %d not found", id)
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &row, nil
}

// SetCompleteFeed stores a feed with its image, items, media and chapters in one transaction.
// Ids of newly inserted records are assigned to the domain objects after commit.
func (s *Store) SetCompleteFeed(ctx context.Context, feed *domain.Feed) error {
	var ids assignments
	err := withRetry(ctx, func() error {
		ids = nil
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			feedID, err := saveFeed(ctx, tx, feed, &ids)
			if err != nil {
				return err
			}
			for _, item := range feed.Items {
				if _, err := saveItem(ctx, tx, item, feedID, &ids); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("set complete feed: %w", err)
	}
	ids.apply()
	return nil
}

// SetFeed stores feed metadata and its image, items are not touched
func (s *Store) SetFeed(ctx context.Context, feed *domain.Feed) error {
	var ids assignments
	err := withRetry(ctx, func() error {
		ids = nil
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			_, err := saveFeed(ctx, tx, feed, &ids)
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("set feed: %w", err)
	}
	ids.apply()
	return nil
}

// SetImage stores a feed image
func (s *Store) SetImage(ctx context.Context, image *domain.FeedImage) error {
	var id int64
	err := withRetry(ctx, func() (err error) {
		id, err = saveImage(ctx, s.db, image)
		return err
	})
	if err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	image.ID = id
	return nil
}

// RemoveFeed deletes a feed with its image, items, media, chapters and queue entries
func (s *Store) RemoveFeed(ctx context.Context, feedID int64) error {
	queries := []string{
		`DELETE FROM simple_chapters WHERE item_id IN (SELECT id FROM feed_items WHERE feed_id = ?)`,
		`DELETE FROM feed_media WHERE id IN (SELECT media_id FROM feed_items WHERE feed_id = ? AND media_id != 0)`,
		`DELETE FROM feed_images WHERE id IN (SELECT image_id FROM feeds WHERE id = ? AND image_id != 0)`,
		`DELETE FROM queue WHERE feed_id = ?`,
		`DELETE FROM feed_items WHERE feed_id = ?`,
		`DELETE FROM feeds WHERE id = ?`,
	}
	err := withRetry(ctx, func() error {
		return s.inTx(ctx, func(tx *sqlx.Tx) error {
			for _, q := range queries {
				if _, err := tx.ExecContext(ctx, q, feedID); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("remove feed: %w", err)
	}
	return nil
}

// saveFeed inserts or updates the feed row and its image, returning the feed id
func saveFeed(ctx context.Context, e sqlx.ExtContext, feed *domain.Feed, ids *assignments) (int64, error) {
	var imageID int64
	if feed.Image != nil {
		id, err := saveImage(ctx, e, feed.Image)
		if err != nil {
			return 0, err
		}
		imageID = id
		ids.set(&feed.Image.ID, id)
	}

	row := FeedRow{
		ID:          feed.ID,
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		PaymentLink: feed.PaymentLink,
		Author:      feed.Author,
		Language:    feed.Language,
		ImageID:     imageID,
		FileURL:     feed.FileURL,
		DownloadURL: feed.DownloadURL,
		Downloaded:  feed.Downloaded,
		LastUpdate:  feed.LastUpdate,
	}

	feedID := row.ID
	if feedID == 0 {
		query := `
			INSERT INTO feeds (title, link, description, payment_link, author, language,
			                   image_id, file_url, download_url, downloaded, last_update)
			VALUES (:title, :link, :description, :payment_link, :author, :language,
			        :image_id, :file_url, :download_url, :downloaded, :last_update)
		`
		res, err := sqlx.NamedExecContext(ctx, e, query, row)
		if err != nil {
			return 0, fmt.Errorf("insert feed: %w", err)
		}
		if feedID, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("get feed insert id: %w", err)
		}
	} else {
		query := `
			UPDATE feeds
			SET title = :title, link = :link, description = :description, payment_link = :payment_link,
			    author = :author, language = :language, image_id = :image_id, file_url = :file_url,
			    download_url = :download_url, downloaded = :downloaded, last_update = :last_update
			WHERE id = :id
		`
		if _, err := sqlx.NamedExecContext(ctx, e, query, row); err != nil {
			return 0, fmt.Errorf("update feed: %w", err)
		}
	}

	ids.set(&feed.ID, feedID)
	if feed.Image != nil {
		ids.set(&feed.Image.FeedID, feedID)
	}
	return feedID, nil
}

// saveImage inserts or updates an image row, returning its id
func saveImage(ctx context.Context, e sqlx.ExtContext, image *domain.FeedImage) (int64, error) {
	row := ImageRow{
		ID:          image.ID,
		Title:       image.Title,
		FileURL:     image.FileURL,
		DownloadURL: image.DownloadURL,
		Downloaded:  image.Downloaded,
	}

	if row.ID != 0 {
		query := `
			UPDATE feed_images
			SET title = :title, file_url = :file_url, download_url = :download_url, downloaded = :downloaded
			WHERE id = :id
		`
		if _, err := sqlx.NamedExecContext(ctx, e, query, row); err != nil {
			return 0, fmt.Errorf("update image: %w", err)
		}
		return row.ID, nil
	}

	query := `
		INSERT INTO feed_images (title, file_url, download_url, downloaded)
		VALUES (:title, :file_url, :download_url, :downloaded)
	`
	res, err := sqlx.NamedExecContext(ctx, e, query, row)
	if err != nil {
		return 0, fmt.Errorf("insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get image insert id: %w", err)
	}
	return id, nil
}
