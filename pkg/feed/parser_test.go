package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const podcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:atom="http://www.w3.org/2005/Atom"
	xmlns:psc="http://podlove.org/simple-chapters">
<channel>
	<title> Radio-T </title>
	<link>https://radio-t.com</link>
	<description>Weekly &lt;b&gt;tech&lt;/b&gt; podcast</description>
	<language>ru</language>
	<itunes:author>Umputun</itunes:author>
	<atom:link rel="payment" href="https://radio-t.com/donate" type="text/html"/>
	<image>
		<url>https://radio-t.com/cover.png</url>
		<title>Radio-T cover</title>
		<link>https://radio-t.com</link>
	</image>
	<item>
		<title>Episode 900</title>
		<link>https://radio-t.com/p/900</link>
		<description><![CDATA[<p>news</p><script>alert(1)</script>]]></description>
		<content:encoded><![CDATA[<p>full <a href="https://example.com">notes</a></p>]]></content:encoded>
		<pubDate>Sat, 01 Jun 2024 20:00:00 +0000</pubDate>
		<enclosure url="https://cdn.radio-t.com/rt900_cover.jpg" length="10" type="image/jpeg"/>
		<enclosure url="https://cdn.radio-t.com/rt900.mp3" length="123456" type="audio/mpeg"/>
		<itunes:duration>01:02:03</itunes:duration>
		<atom:link rel="payment" href="https://radio-t.com/donate/900" type="text/html"/>
		<psc:chapters version="1.2">
			<psc:chapter start="00:00:00" title="Intro"/>
			<psc:chapter start="00:05:30.5" title="News"/>
		</psc:chapters>
	</item>
	<item>
		<title>Episode 899</title>
		<link>https://radio-t.com/p/899</link>
		<pubDate>Sat, 25 May 2024 20:00:00 +0000</pubDate>
	</item>
</channel>
</rss>`

func TestParser_Parse(t *testing.T) {
	var gotAccept, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept, gotUA = r.Header.Get("Accept"), r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(podcastRSS))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "podcache-test")
	feed, err := parser.Parse(context.Background(), server.URL+"/rss")
	require.NoError(t, err)
	assert.Equal(t, "podcache-test", gotUA)
	assert.Contains(t, gotAccept, "application/rss+xml")

	assert.Zero(t, feed.ID)
	assert.Equal(t, "Radio-T", feed.Title)
	assert.Equal(t, "https://radio-t.com", feed.Link)
	assert.Equal(t, server.URL+"/rss", feed.DownloadURL)
	assert.Equal(t, "ru", feed.Language)
	assert.Equal(t, "Umputun", feed.Author)
	assert.Equal(t, "https://radio-t.com/donate", feed.PaymentLink)
	require.NotNil(t, feed.Image)
	assert.Equal(t, "https://radio-t.com/cover.png", feed.Image.DownloadURL)
	assert.Equal(t, "Radio-T cover", feed.Image.Title)
	assert.False(t, feed.Image.Downloaded)

	require.Len(t, feed.Items, 2)
	ep := feed.Items[0]
	assert.Equal(t, "Episode 900", ep.Title)
	assert.Equal(t, "https://radio-t.com/p/900", ep.Link)
	assert.False(t, ep.Read)
	assert.True(t, ep.PubDate.Equal(time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)))
	assert.Contains(t, ep.Description, "<p>news</p>")
	assert.NotContains(t, ep.Description, "script")
	assert.Contains(t, ep.ContentEncoded, "notes")
	assert.Equal(t, "https://radio-t.com/donate/900", ep.PaymentLink)

	require.NotNil(t, ep.Media)
	assert.Equal(t, "https://cdn.radio-t.com/rt900.mp3", ep.Media.DownloadURL)
	assert.Equal(t, "audio/mpeg", ep.Media.MimeType)
	assert.Equal(t, int64(123456), ep.Media.Size)
	assert.Equal(t, 3723000, ep.Media.Duration)

	require.Len(t, ep.Chapters, 2)
	assert.Equal(t, "Intro", ep.Chapters[0].Title)
	assert.Equal(t, int64(0), ep.Chapters[0].Start)
	assert.Equal(t, "News", ep.Chapters[1].Title)
	assert.Equal(t, int64(330500), ep.Chapters[1].Start)

	assert.Nil(t, feed.Items[1].Media)
	assert.Empty(t, feed.Items[1].Chapters)
}

func TestParser_Errors(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewParser(time.Second, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
		var statusErr *HTTPStatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	})

	t.Run("not a feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("just some text"))
		}))
		defer server.Close()

		_, err := NewParser(time.Second, "test").Parse(context.Background(), server.URL)
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewParser(time.Second, "test").Parse(context.Background(), url)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrParse)
	})
}

func TestParser_ParseReaderFallbacks(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel>
	<title>No image tag</title>
	<itunes:image href="https://example.com/itunes.jpg"/>
	<item>
		<title>only enclosure</title>
		<enclosure url="https://example.com/file.bin" length="bad" type="application/octet-stream"/>
	</item>
</channel>
</rss>`
	feed, err := NewParser(time.Second, "test").ParseReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.NotNil(t, feed.Image)
	assert.Equal(t, "https://example.com/itunes.jpg", feed.Image.DownloadURL)
	require.Len(t, feed.Items, 1)
	require.NotNil(t, feed.Items[0].Media)
	assert.Equal(t, "https://example.com/file.bin", feed.Items[0].Media.DownloadURL)
	assert.Zero(t, feed.Items[0].Media.Size)
	assert.True(t, feed.Items[0].PubDate.IsZero())
}

func TestParseOffset(t *testing.T) {
	tbl := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"42", 42000},
		{"01:02", 62000},
		{"01:02:03", 3723000},
		{"00:00:01.5", 1500},
		{"00:00:01.250", 1250},
		{"00:00:01.1234", 1123},
		{"abc", 0},
		{"1:-2", 0},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOffset(tt.in))
		})
	}
}
