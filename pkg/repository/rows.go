package repository

import (
	"time"

	"github.com/umputun/podcache/pkg/domain"
)

// FeedRow is a persisted feed without items
type FeedRow struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Link        string    `db:"link"`
	Description string    `db:"description"`
	PaymentLink string    `db:"payment_link"`
	Author      string    `db:"author"`
	Language    string    `db:"language"`
	ImageID     int64     `db:"image_id"`
	FileURL     string    `db:"file_url"`
	DownloadURL string    `db:"download_url"`
	Downloaded  bool      `db:"downloaded"`
	LastUpdate  time.Time `db:"last_update"`
}

// ItemRow is a persisted item. MediaID is zero for items without media.
type ItemRow struct {
	ID                int64     `db:"id"`
	FeedID            int64     `db:"feed_id"`
	Title             string    `db:"title"`
	Link              string    `db:"link"`
	Description       string    `db:"description"`
	ContentEncoded    string    `db:"content_encoded"`
	PubDate           time.Time `db:"pub_date"`
	PaymentLink       string    `db:"payment_link"`
	MediaID           int64     `db:"media_id"`
	Read              bool      `db:"read"`
	HasSimpleChapters bool      `db:"has_simple_chapters"`
}

// MediaRow is a persisted media record
type MediaRow struct {
	ID          int64  `db:"id"`
	Duration    int    `db:"duration"`
	Position    int    `db:"position"`
	Size        int64  `db:"size"`
	MimeType    string `db:"mime_type"`
	FileURL     string `db:"file_url"`
	DownloadURL string `db:"download_url"`
	Downloaded  bool   `db:"downloaded"`
}

// ImageRow is a persisted feed image
type ImageRow struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	FileURL     string `db:"file_url"`
	DownloadURL string `db:"download_url"`
	Downloaded  bool   `db:"downloaded"`
}

// ChapterRow is a persisted simple chapter
type ChapterRow struct {
	ID     int64  `db:"id"`
	ItemID int64  `db:"item_id"`
	Start  int64  `db:"start"`
	Title  string `db:"title"`
}

// DownloadStatusRow is a persisted download log entry, referencing a feed file by kind and id
type DownloadStatusRow struct {
	ID             int64     `db:"id"`
	FeedFileID     int64     `db:"feedfile_id"`
	FeedFileType   int       `db:"feedfile_type"`
	Successful     bool      `db:"successful"`
	Reason         int       `db:"reason"`
	CompletionDate time.Time `db:"completion_date"`
}

// QueueRow is one queue position
type QueueRow struct {
	Ordinal int   `db:"id"`
	FeedID  int64 `db:"feed_id"`
	ItemID  int64 `db:"item_id"`
}

// ToDomain converts the row to a feed with no image and no items
func (r FeedRow) ToDomain() *domain.Feed {
	return &domain.Feed{
		ID:          r.ID,
		Link:        r.Link,
		Title:       r.Title,
		Description: r.Description,
		PaymentLink: r.PaymentLink,
		Author:      r.Author,
		Language:    r.Language,
		DownloadURL: r.DownloadURL,
		FileURL:     r.FileURL,
		Downloaded:  r.Downloaded,
		LastUpdate:  r.LastUpdate,
	}
}

// ToDomain converts the row to an item. Media and chapters are not attached.
func (r ItemRow) ToDomain() *domain.FeedItem {
	return &domain.FeedItem{
		ID:             r.ID,
		FeedID:         r.FeedID,
		Title:          r.Title,
		Link:           r.Link,
		Description:    r.Description,
		ContentEncoded: r.ContentEncoded,
		PaymentLink:    r.PaymentLink,
		PubDate:        r.PubDate,
		Read:           r.Read,
	}
}

// ToDomain converts the row to media owned by itemID
func (r MediaRow) ToDomain(itemID int64) *domain.FeedMedia {
	return &domain.FeedMedia{
		ID:          r.ID,
		ItemID:      itemID,
		Duration:    r.Duration,
		Position:    r.Position,
		Size:        r.Size,
		MimeType:    r.MimeType,
		FileURL:     r.FileURL,
		DownloadURL: r.DownloadURL,
		Downloaded:  r.Downloaded,
	}
}

// ToDomain converts the row to an image owned by feedID
func (r ImageRow) ToDomain(feedID int64) *domain.FeedImage {
	return &domain.FeedImage{
		ID:          r.ID,
		FeedID:      feedID,
		Title:       r.Title,
		FileURL:     r.FileURL,
		DownloadURL: r.DownloadURL,
		Downloaded:  r.Downloaded,
	}
}

// ToDomain converts the row to a chapter
func (r ChapterRow) ToDomain() domain.SimpleChapter {
	return domain.SimpleChapter{Start: r.Start, Title: r.Title}
}

// Kind returns the referenced file kind
func (r DownloadStatusRow) Kind() domain.FileKind {
	return domain.FileKind(r.FeedFileType)
}

// ToDomain converts the row to a status referencing the resolved file
func (r DownloadStatusRow) ToDomain(file domain.FeedFile) *domain.DownloadStatus {
	return &domain.DownloadStatus{
		ID:             r.ID,
		File:           file,
		Successful:     r.Successful,
		Reason:         domain.DownloadReason(r.Reason),
		CompletionDate: r.CompletionDate,
	}
}
