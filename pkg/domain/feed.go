package domain

import "time"

// FileKind identifies which kind of downloadable file a FeedFile is.
// Values are persisted in the download log and must not change.
type FileKind int

// file kinds
const (
	FileKindFeed  FileKind = 0
	FileKindImage FileKind = 1
	FileKindMedia FileKind = 2
)

// String returns kind name for logs
func (k FileKind) String() string {
	switch k {
	case FileKindFeed:
		return "feed"
	case FileKindImage:
		return "image"
	case FileKindMedia:
		return "media"
	default:
		return "unknown"
	}
}

// FeedFile is anything with a download lifecycle: feeds, images and media
type FeedFile interface {
	FileKind() FileKind
	FileID() int64
}

// Feed represents a subscribed podcast source. Feed owns its items and image.
type Feed struct {
	ID          int64
	Link        string // identity key for merges
	Title       string
	Description string
	PaymentLink string
	Author      string
	Language    string
	DownloadURL string
	FileURL     string
	Downloaded  bool
	LastUpdate  time.Time
	Image       *FeedImage
	Items       []*FeedItem
}

// FileKind implements FeedFile
func (f *Feed) FileKind() FileKind { return FileKindFeed }

// FileID implements FeedFile
func (f *Feed) FileID() int64 { return f.ID }

// FeedImage is the cover image of a feed
type FeedImage struct {
	ID          int64
	FeedID      int64
	Title       string
	FileURL     string
	DownloadURL string
	Downloaded  bool
}

// FileKind implements FeedFile
func (i *FeedImage) FileKind() FileKind { return FileKindImage }

// FileID implements FeedFile
func (i *FeedImage) FileID() int64 { return i.ID }

// FeedRequest asks the download collaborator to fetch a feed.
// FeedID is zero for feeds not yet subscribed.
type FeedRequest struct {
	URL       string
	Requested time.Time
	FeedID    int64
}
