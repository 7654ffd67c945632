// Package feed fetches podcast feeds and renders cache views as feeds.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/umputun/podcache/pkg/domain"
)

// ErrParse reports a document that could not be parsed as RSS/Atom
var ErrParse = errors.New("parse feed")

// HTTPStatusError reports a non-200 response
type HTTPStatusError struct {
	URL  string
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.Code, e.URL)
}

// Parser fetches podcast feeds and converts them to unpersisted domain feeds
type Parser struct {
	client    *http.Client
	userAgent string
	policy    *bluemonday.Policy
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		policy:    bluemonday.UGCPolicy(),
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.Feed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	res, err := p.ParseReader(body)
	if err != nil {
		return nil, err
	}
	res.DownloadURL = url
	if res.Link == "" {
		res.Link = url
	}
	return res, nil
}

// ParseReader parses a feed document. Items keep document order and have no ids.
func (p *Parser) ParseReader(r io.Reader) (*domain.Feed, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	res := &domain.Feed{
		Title:       strings.TrimSpace(parsed.Title),
		Link:        parsed.Link,
		Description: p.policy.Sanitize(parsed.Description),
		Language:    parsed.Language,
		PaymentLink: paymentLink(parsed.Extensions),
		LastUpdate:  time.Now(),
		Items:       make([]*domain.FeedItem, 0, len(parsed.Items)),
	}
	if parsed.Author != nil {
		res.Author = parsed.Author.Name
	} else if parsed.ITunesExt != nil {
		res.Author = parsed.ITunesExt.Author
	}
	if parsed.UpdatedParsed != nil {
		res.LastUpdate = *parsed.UpdatedParsed
	}

	switch {
	case parsed.Image != nil && parsed.Image.URL != "":
		res.Image = &domain.FeedImage{Title: parsed.Image.Title, DownloadURL: parsed.Image.URL}
	case parsed.ITunesExt != nil && parsed.ITunesExt.Image != "":
		res.Image = &domain.FeedImage{Title: res.Title, DownloadURL: parsed.ITunesExt.Image}
	}

	for _, item := range parsed.Items {
		res.Items = append(res.Items, p.convertItem(item))
	}
	return res, nil
}

func (p *Parser) convertItem(item *gofeed.Item) *domain.FeedItem {
	res := &domain.FeedItem{
		Title:          strings.TrimSpace(item.Title),
		Link:           item.Link,
		Description:    p.policy.Sanitize(item.Description),
		ContentEncoded: p.policy.Sanitize(item.Content),
		PaymentLink:    paymentLink(item.Extensions),
		Chapters:       chapters(item.Extensions),
	}

	switch {
	case item.PublishedParsed != nil:
		res.PubDate = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		res.PubDate = *item.UpdatedParsed
	}

	if enc := pickEnclosure(item.Enclosures); enc != nil {
		res.Media = &domain.FeedMedia{DownloadURL: enc.URL, MimeType: enc.Type}
		if size, err := strconv.ParseInt(strings.TrimSpace(enc.Length), 10, 64); err == nil {
			res.Media.Size = size
		}
		if item.ITunesExt != nil {
			res.Media.Duration = int(parseOffset(item.ITunesExt.Duration))
		}
	}
	return res
}

// pickEnclosure prefers audio/video enclosures, falling back to the first one
func pickEnclosure(encs []*gofeed.Enclosure) *gofeed.Enclosure {
	for _, e := range encs {
		if strings.HasPrefix(e.Type, "audio/") || strings.HasPrefix(e.Type, "video/") {
			return e
		}
	}
	if len(encs) > 0 && encs[0].URL != "" {
		return encs[0]
	}
	return nil
}

// paymentLink looks for <atom:link rel="payment"> (flattr style donation links)
func paymentLink(exts ext.Extensions) string {
	for _, l := range exts["atom"]["link"] {
		if l.Attrs["rel"] == "payment" {
			return l.Attrs["href"]
		}
	}
	return ""
}

// chapters reads podlove simple chapters, <psc:chapters><psc:chapter start="00:01:02.500" title="..."/>
func chapters(exts ext.Extensions) []domain.SimpleChapter {
	var res []domain.SimpleChapter
	for _, group := range exts["psc"]["chapters"] {
		for _, ch := range group.Children["chapter"] {
			res = append(res, domain.SimpleChapter{Start: parseOffset(ch.Attrs["start"]), Title: ch.Attrs["title"]})
		}
	}
	return res
}

// parseOffset converts "[[HH:]MM:]SS[.mmm]" or plain seconds to milliseconds, 0 if malformed
func parseOffset(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var ms int64
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		frac := (s[dot+1:] + "000")[:3]
		v, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0
		}
		ms = v
		s = s[:dot]
	}
	var secs int64
	for _, part := range strings.Split(s, ":") {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil || v < 0 {
			return 0
		}
		secs = secs*60 + v
	}
	return secs*1000 + ms
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	addBrowserHeaders(req, feedAccept)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{URL: url, Code: resp.StatusCode}
	}
	return resp.Body, nil
}
