package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podcache/pkg/domain"
)

func TestGenerator_GenerateRSS(t *testing.T) {
	generator := NewGenerator("https://pods.example.com/")
	pub := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []*domain.FeedItem{
		{ID: 11, FeedID: 1, Title: "Second in queue", Link: "https://radio-t.com/p/2", PubDate: pub,
			Description: "desc 2", Media: &domain.FeedMedia{DownloadURL: "https://cdn.radio-t.com/2.mp3", MimeType: "audio/mpeg", Size: 1000}},
		{ID: 10, FeedID: 1, Title: "First in queue", Link: "https://radio-t.com/p/1", PubDate: pub.Add(-time.Hour)},
	}

	rss, err := generator.GenerateRSS("queue", "/rss/queue", items)
	require.NoError(t, err)

	assert.Contains(t, rss, `<rss version="2.0"`)
	assert.Contains(t, rss, "<title>Podcache - queue</title>")
	assert.Contains(t, rss, "<link>https://pods.example.com/rss/queue</link>")
	assert.Contains(t, rss, "<title>Second in queue</title>")
	assert.Contains(t, rss, `url="https://cdn.radio-t.com/2.mp3"`)
	assert.Contains(t, rss, `length="1000"`)
	assert.Contains(t, rss, `type="audio/mpeg"`)
	assert.Contains(t, rss, "https://pods.example.com/feeds/1/items/11")
	assert.Less(t, strings.Index(rss, "Second in queue"), strings.Index(rss, "First in queue"), "order kept")
	assert.Equal(t, 1, strings.Count(rss, "<enclosure"))

	t.Run("empty", func(t *testing.T) {
		rss, err := generator.GenerateRSS("unread", "/rss/unread", nil)
		require.NoError(t, err)
		assert.Contains(t, rss, "<title>Podcache - unread</title>")
		assert.NotContains(t, rss, "<item>")
	})
}

func TestGenerator_GenerateOPML(t *testing.T) {
	generator := NewGenerator("https://pods.example.com")
	subs := []*domain.Feed{
		{Title: "Radio-T", Link: "https://radio-t.com", DownloadURL: "https://radio-t.com/podcast.rss"},
		{Title: "Go Time", Link: "https://changelog.com/gotime", DownloadURL: "https://changelog.com/gotime/feed"},
		{Title: "Broken", Link: "https://broken.example.com"},
	}

	opml, err := generator.GenerateOPML(subs)
	require.NoError(t, err)
	assert.Contains(t, opml, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, opml, `<opml version="2.0">`)
	assert.Contains(t, opml, "<title>Podcache Subscriptions</title>")
	assert.Contains(t, opml, `<outline text="Radio-T" title="Radio-T" type="rss" xmlUrl="https://radio-t.com/podcast.rss" htmlUrl="https://radio-t.com"></outline>`)
	assert.Contains(t, opml, `xmlUrl="https://changelog.com/gotime/feed"`)
	assert.NotContains(t, opml, "Broken")
}
