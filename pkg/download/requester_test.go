package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podcache/pkg/cache"
	"github.com/umputun/podcache/pkg/domain"
	"github.com/umputun/podcache/pkg/download/mocks"
	"github.com/umputun/podcache/pkg/feed"
	"github.com/umputun/podcache/pkg/repository"
)

const showRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test Show</title>
  <link>https://example.com/show</link>
  <description>weekly test show</description>
  <image><url>%[1]s/cover.png</url><title>Test Show</title><link>https://example.com/show</link></image>
  <item>
    <title>Episode 2</title>
    <pubDate>Mon, 03 Jun 2024 10:00:00 GMT</pubDate>
    <enclosure url="%[1]s/ep2.mp3" length="11" type="audio/mpeg"/>
  </item>
  <item>
    <title>Episode 1</title>
    <pubDate>Mon, 27 May 2024 10:00:00 GMT</pubDate>
    <enclosure url="%[1]s/ep1.mp3" length="11" type="audio/mpeg"/>
  </item>
</channel>
</rss>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = fmt.Fprintf(w, showRSS, srv.URL)
		case "/garbage.xml":
			_, _ = w.Write([]byte("this is not a feed"))
		case "/cover.png":
			_, _ = w.Write([]byte("png-bytes"))
		case "/ep1.mp3", "/ep2.mp3":
			_, _ = w.Write([]byte("audio-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRequester(t *testing.T, workers int) *Requester {
	t.Helper()
	return New(Params{
		Parser:  feed.NewParser(5*time.Second, "podcache-test"),
		Files:   feed.NewFileFetcher(5*time.Second, "podcache-test"),
		DataDir: t.TempDir(),
		Workers: workers,
		Timeout: 10 * time.Second,
	})
}

// runRequester starts r.Run in background, stops it on test cleanup
func runRequester(t *testing.T, r *Requester, sink Sink) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, sink) }()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}

func TestRequester_Feed(t *testing.T) {
	srv := newTestServer(t)
	r := newTestRequester(t, 2)

	sink := &mocks.SinkMock{
		UpdateFeedFunc: func(_ context.Context, f *domain.Feed) *domain.Feed {
			f.ID = 1
			if f.Image != nil {
				f.Image.ID, f.Image.FeedID = 5, 1
			}
			return f
		},
		MarkImageDownloadedFunc: func(context.Context, *domain.FeedImage, string) {},
		AddDownloadStatusFunc:   func(context.Context, *domain.DownloadStatus) int64 { return 1 },
		ViewFunc:                func(fn func()) { fn() },
	}
	runRequester(t, r, sink)

	r.DownloadFeed(domain.FeedRequest{URL: srv.URL + "/feed.xml", Requested: time.Now()})
	require.Eventually(t, func() bool { return len(sink.AddDownloadStatusCalls()) == 2 }, 5*time.Second, 10*time.Millisecond)

	updates := sink.UpdateFeedCalls()
	require.Len(t, updates, 1)
	parsed := updates[0].NewFeed
	assert.Equal(t, "Test Show", parsed.Title)
	assert.Equal(t, srv.URL+"/feed.xml", parsed.DownloadURL)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "Episode 2", parsed.Items[0].Title)

	statuses := sink.AddDownloadStatusCalls()
	assert.Same(t, parsed, statuses[0].Status.File)
	assert.True(t, statuses[0].Status.Successful)
	assert.Equal(t, domain.ReasonNone, statuses[0].Status.Reason)
	assert.Same(t, parsed.Image, statuses[1].Status.File)
	assert.True(t, statuses[1].Status.Successful)

	marks := sink.MarkImageDownloadedCalls()
	require.Len(t, marks, 1)
	assert.Equal(t, filepath.Join(r.dataDir, "images", "image-5.png"), marks[0].FileURL)
	data, err := os.ReadFile(marks[0].FileURL)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Empty(t, sink.GetFeedCalls())
}

func TestRequester_FeedFailures(t *testing.T) {
	srv := newTestServer(t)
	r := newTestRequester(t, 1) // sequential, so the last status means all jobs are done

	known := &domain.Feed{ID: 7, Title: "known"}
	sink := &mocks.SinkMock{
		GetFeedFunc: func(id int64) (*domain.Feed, bool) {
			if id == known.ID {
				return known, true
			}
			return nil, false
		},
		AddDownloadStatusFunc: func(context.Context, *domain.DownloadStatus) int64 { return 1 },
		ViewFunc:              func(fn func()) { fn() },
	}
	runRequester(t, r, sink)

	r.DownloadFeed(domain.FeedRequest{URL: srv.URL + "/garbage.xml"})           // new subscription, no status
	r.DownloadFeed(domain.FeedRequest{URL: srv.URL + "/garbage.xml", FeedID: 8}) // unknown feed, no status
	r.DownloadFeed(domain.FeedRequest{URL: srv.URL + "/garbage.xml", FeedID: 7})
	r.DownloadFeed(domain.FeedRequest{URL: srv.URL + "/missing.xml", FeedID: 7})
	require.Eventually(t, func() bool { return len(sink.AddDownloadStatusCalls()) == 2 }, 5*time.Second, 10*time.Millisecond)

	statuses := sink.AddDownloadStatusCalls()
	assert.Same(t, known, statuses[0].Status.File)
	assert.False(t, statuses[0].Status.Successful)
	assert.Equal(t, domain.ReasonParser, statuses[0].Status.Reason)
	assert.Equal(t, domain.ReasonHTTPStatus, statuses[1].Status.Reason)
	assert.False(t, statuses[1].Status.CompletionDate.IsZero())

	var ids []int64
	for _, c := range sink.GetFeedCalls() {
		ids = append(ids, c.Id)
	}
	assert.Equal(t, []int64{8, 7, 7}, ids)
	assert.Empty(t, sink.UpdateFeedCalls())
}

func TestRequester_Media(t *testing.T) {
	srv := newTestServer(t)
	r := newTestRequester(t, 2)

	sink := &mocks.SinkMock{
		MarkMediaDownloadedFunc: func(context.Context, *domain.FeedMedia, string) {},
		AddDownloadStatusFunc:   func(context.Context, *domain.DownloadStatus) int64 { return 1 },
		ViewFunc:                func(fn func()) { fn() },
	}
	runRequester(t, r, sink)

	ok := &domain.FeedMedia{ID: 3, DownloadURL: srv.URL + "/ep1.mp3"}
	missing := &domain.FeedMedia{ID: 4, DownloadURL: srv.URL + "/nope.mp3"}
	r.DownloadMedia(ok)
	r.DownloadMedia(missing)
	require.Eventually(t, func() bool { return len(sink.AddDownloadStatusCalls()) == 2 }, 5*time.Second, 10*time.Millisecond)

	marks := sink.MarkMediaDownloadedCalls()
	require.Len(t, marks, 1)
	assert.Same(t, ok, marks[0].Media)
	assert.Equal(t, filepath.Join(r.dataDir, "media", "media-3.mp3"), marks[0].FileURL)
	data, err := os.ReadFile(marks[0].FileURL)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))

	for _, c := range sink.AddDownloadStatusCalls() {
		switch c.Status.File {
		case domain.FeedFile(ok):
			assert.True(t, c.Status.Successful)
		case domain.FeedFile(missing):
			assert.False(t, c.Status.Successful)
			assert.Equal(t, domain.ReasonHTTPStatus, c.Status.Reason)
		default:
			t.Fatalf("unexpected status file %v", c.Status.File)
		}
	}
}

func TestRequester_QueueFull(t *testing.T) {
	r := New(Params{QueueSize: 1})
	r.DownloadFeed(domain.FeedRequest{URL: "https://example.com/a.xml"})
	r.DownloadImage(&domain.FeedImage{DownloadURL: "https://example.com/a.png"})
	r.DownloadMedia(&domain.FeedMedia{DownloadURL: "https://example.com/a.mp3"})
	assert.Equal(t, 1, r.Pending())
}

func TestRequester_RunStops(t *testing.T) {
	r := New(Params{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := r.Run(ctx, &mocks.SinkMock{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequester_WithCache(t *testing.T) {
	srv := newTestServer(t)
	store, err := repository.New(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	r := newTestRequester(t, 2)
	var events atomic.Int32
	m := cache.New(cache.Params{
		Store:      store,
		Downloader: r,
		Notifier:   notifyFunc(func(domain.Event) { events.Add(1) }),
	})
	runRequester(t, r, m)

	m.Subscribe(srv.URL + "/feed.xml")
	require.Eventually(t, func() bool {
		feeds := m.Feeds()
		if len(feeds) != 1 || feeds[0].Image == nil {
			return false
		}
		img, ok := m.GetFeedImage(feeds[0].Image.ID)
		return ok && img.Downloaded
	}, 5*time.Second, 10*time.Millisecond)

	feeds := m.Feeds()
	assert.Equal(t, "Test Show", feeds[0].Title)
	assert.Len(t, feeds[0].Items, 2)
	assert.Len(t, m.UnreadItems(), 2)
	assert.Positive(t, events.Load())
	require.Eventually(t, func() bool { return len(m.DownloadLog()) == 2 }, 5*time.Second, 10*time.Millisecond)

	// refresh merges into the cached feed, nothing new to add
	m.RefreshFeed(feeds[0])
	require.Eventually(t, func() bool { return len(m.DownloadLog()) == 3 }, 5*time.Second, 10*time.Millisecond)
	assert.Len(t, m.Feeds()[0].Items, 2)

	media := feeds[0].Items[0].Media
	require.NotNil(t, media)
	r.DownloadMedia(media)
	require.Eventually(t, func() bool {
		got, ok := m.GetFeedMedia(media.ID)
		return ok && got.Downloaded
	}, 5*time.Second, 10*time.Millisecond)
}

type notifyFunc func(domain.Event)

func (f notifyFunc) Notify(ev domain.Event) { f(ev) }

func TestReasonOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.DownloadReason
	}{
		{name: "nil", err: nil, want: domain.ReasonNone},
		{name: "http status", err: fmt.Errorf("get: %w", &feed.HTTPStatusError{URL: "u", Code: 503}), want: domain.ReasonHTTPStatus},
		{name: "parser", err: fmt.Errorf("parse: %w", feed.ErrParse), want: domain.ReasonParser},
		{name: "file io", err: &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, want: domain.ReasonFileIO},
		{name: "connection", err: errors.New("connection refused"), want: domain.ReasonConnection},
		{name: "timeout", err: context.DeadlineExceeded, want: domain.ReasonConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reasonOf(tt.err))
		})
	}
}

func TestFileExt(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"https://cdn.example.com/ep/1.MP3", ".mp3"},
		{"https://cdn.example.com/cover.jpg?w=300", ".jpg"},
		{"https://cdn.example.com/stream", ".bin"},
		{"https://cdn.example.com/file.verylongext", ".bin"},
		{"://bad", ".bin"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, fileExt(tt.url))
		})
	}
}
