package server

import (
	"time"

	"github.com/umputun/podcache/pkg/domain"
)

// json views of cache objects, cache structs carry no json tags and have cyclic ownership

type feedView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author,omitempty"`
	Language    string     `json:"language,omitempty"`
	PaymentLink string     `json:"payment_link,omitempty"`
	DownloadURL string     `json:"download_url"`
	LastUpdate  time.Time  `json:"last_update"`
	Image       *imageView `json:"image,omitempty"`
	ItemsCount  int        `json:"items_count"`
	Items       []itemView `json:"items,omitempty"`
}

type imageView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title,omitempty"`
	DownloadURL string `json:"download_url"`
	Downloaded  bool   `json:"downloaded"`
}

type itemView struct {
	ID          int64         `json:"id"`
	FeedID      int64         `json:"feed_id"`
	Title       string        `json:"title"`
	Link        string        `json:"link,omitempty"`
	Description string        `json:"description,omitempty"`
	PaymentLink string        `json:"payment_link,omitempty"`
	PubDate     time.Time     `json:"pub_date"`
	Read        bool          `json:"read"`
	Media       *mediaView    `json:"media,omitempty"`
	Chapters    []chapterView `json:"chapters,omitempty"`
}

type mediaView struct {
	ID          int64  `json:"id"`
	Duration    int    `json:"duration_ms"`
	Position    int    `json:"position_ms"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mime_type,omitempty"`
	DownloadURL string `json:"download_url"`
	Downloaded  bool   `json:"downloaded"`
}

type chapterView struct {
	Start int64  `json:"start_ms"`
	Title string `json:"title"`
}

type statusView struct {
	ID             int64     `json:"id"`
	Kind           string    `json:"kind"`
	FileID         int64     `json:"file_id"`
	Successful     bool      `json:"successful"`
	Reason         string    `json:"reason"`
	CompletionDate time.Time `json:"completion_date"`
}

func newFeedView(f *domain.Feed, withItems bool) feedView {
	res := feedView{
		ID:          f.ID,
		Title:       f.Title,
		Link:        f.Link,
		Description: f.Description,
		Author:      f.Author,
		Language:    f.Language,
		PaymentLink: f.PaymentLink,
		DownloadURL: f.DownloadURL,
		LastUpdate:  f.LastUpdate,
		ItemsCount:  len(f.Items),
	}
	if f.Image != nil {
		res.Image = &imageView{ID: f.Image.ID, Title: f.Image.Title, DownloadURL: f.Image.DownloadURL, Downloaded: f.Image.Downloaded}
	}
	if withItems {
		res.Items = newItemViews(f.Items)
	}
	return res
}

func newItemView(it *domain.FeedItem) itemView {
	res := itemView{
		ID:          it.ID,
		FeedID:      it.FeedID,
		Title:       it.Title,
		Link:        it.Link,
		Description: it.Description,
		PaymentLink: it.PaymentLink,
		PubDate:     it.PubDate,
		Read:        it.Read,
	}
	if m := it.Media; m != nil {
		res.Media = &mediaView{ID: m.ID, Duration: m.Duration, Position: m.Position, Size: m.Size,
			MimeType: m.MimeType, DownloadURL: m.DownloadURL, Downloaded: m.Downloaded}
	}
	for _, c := range it.Chapters {
		res.Chapters = append(res.Chapters, chapterView{Start: c.Start, Title: c.Title})
	}
	return res
}

func newItemViews(items []*domain.FeedItem) []itemView {
	res := make([]itemView, 0, len(items))
	for _, it := range items {
		res = append(res, newItemView(it))
	}
	return res
}

func newStatusView(st *domain.DownloadStatus) statusView {
	res := statusView{
		ID:             st.ID,
		Successful:     st.Successful,
		Reason:         st.Reason.String(),
		CompletionDate: st.CompletionDate,
	}
	if st.File != nil {
		res.Kind = st.File.FileKind().String()
		res.FileID = st.File.FileID()
	}
	return res
}
