package feed

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/umputun/podcache/pkg/domain"
)

// Generator renders cache views as podcast RSS and subscriptions as OPML
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS makes an RSS 2.0 podcast feed of items, e.g. the playback queue or unread episodes.
// Item order is kept as given.
func (g *Generator) GenerateRSS(title, path string, items []*domain.FeedItem) (string, error) {
	now := time.Now()
	feed := &feeds.Feed{
		Title:       "Podcache - " + title,
		Link:        &feeds.Link{Href: g.baseURL + path},
		Description: fmt.Sprintf("%s, %d episodes", title, len(items)),
		Created:     now,
		Updated:     now,
	}

	for _, item := range items {
		feed.Add(g.convertItem(item))
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return rss, nil
}

func (g *Generator) convertItem(item *domain.FeedItem) *feeds.Item {
	res := &feeds.Item{
		Title:       item.Title,
		Link:        &feeds.Link{Href: item.Link},
		Id:          fmt.Sprintf("%s/feeds/%d/items/%d", g.baseURL, item.FeedID, item.ID),
		Description: item.Description,
		Content:     item.ContentEncoded,
		Created:     item.PubDate,
	}
	if item.Media != nil && item.Media.DownloadURL != "" {
		res.Enclosure = &feeds.Enclosure{
			Url:    item.Media.DownloadURL,
			Length: strconv.FormatInt(item.Media.Size, 10),
			Type:   item.Media.MimeType,
		}
	}
	return res
}

// GenerateOPML creates an OPML file with feed subscriptions
func (g *Generator) GenerateOPML(subs []*domain.Feed) (string, error) {
	outlines := make([]opmlOutline, 0, len(subs))
	for _, f := range subs {
		if f.DownloadURL == "" {
			continue
		}
		outlines = append(outlines, opmlOutline{
			Text:    f.Title,
			Title:   f.Title,
			Type:    "rss",
			XMLUrl:  f.DownloadURL,
			HTMLUrl: f.Link,
		})
	}

	doc := opmlDoc{
		Version: "2.0",
		Head: opmlHead{
			Title:       "Podcache Subscriptions",
			DateCreated: time.Now().Format(time.RFC1123Z),
		},
		Body: opmlBody{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}

type opmlOutline struct {
	XMLName xml.Name `xml:"outline"`
	Text    string   `xml:"text,attr"`
	Title   string   `xml:"title,attr"`
	Type    string   `xml:"type,attr"`
	XMLUrl  string   `xml:"xmlUrl,attr"`
	HTMLUrl string   `xml:"htmlUrl,attr,omitempty"`
}

type opmlBody struct {
	XMLName  xml.Name      `xml:"body"`
	Outlines []opmlOutline `xml:"outline"`
}

type opmlHead struct {
	XMLName     xml.Name `xml:"head"`
	Title       string   `xml:"title"`
	DateCreated string   `xml:"dateCreated"`
}

type opmlDoc struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}
