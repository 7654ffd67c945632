package domain

import (
	"cmp"
	"time"
)

// FeedItem is one episode of a feed. FeedID refers back to the owning feed.
type FeedItem struct {
	ID             int64
	FeedID         int64
	Title          string // identity key for merges within a feed
	Link           string
	Description    string
	ContentEncoded string
	PaymentLink    string
	PubDate        time.Time
	Read           bool
	Media          *FeedMedia
	Chapters       []SimpleChapter
}

// FeedMedia is the downloadable audio/video payload of an item
type FeedMedia struct {
	ID          int64
	ItemID      int64
	Duration    int // milliseconds
	Position    int // milliseconds
	Size        int64
	MimeType    string
	FileURL     string
	DownloadURL string
	Downloaded  bool
}

// FileKind implements FeedFile
func (m *FeedMedia) FileKind() FileKind { return FileKindMedia }

// FileID implements FeedFile
func (m *FeedMedia) FileID() int64 { return m.ID }

// SimpleChapter marks a named position inside an item's media
type SimpleChapter struct {
	Start int64 // offset in milliseconds
	Title string
}

// ByPubDateDesc orders items newest first, for use with slices.SortFunc
func ByPubDateDesc(a, b *FeedItem) int {
	return cmp.Compare(b.PubDate.UnixNano(), a.PubDate.UnixNano())
}
