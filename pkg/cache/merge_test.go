package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podcache/pkg/domain"
)

func TestManager_UpdateFeed_New(t *testing.T) {
	m, env := setupManager(t)
	ctx := context.Background()

	newFeed := podcast("radio", 3)
	saved := m.UpdateFeed(ctx, newFeed)
	require.Same(t, newFeed, saved)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, saved.ID, saved.Image.FeedID)
	for _, item := range saved.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, saved.ID, item.FeedID)
		assert.Equal(t, item.ID, item.Media.ItemID)
	}

	// only the first item is announced, all unread items are indexed
	events := eventsOf(env, domain.EventUnreadItemsChanged)
	require.Len(t, events, 1)
	assert.Equal(t, domain.Event{Type: domain.EventUnreadItemsChanged, FeedID: saved.ID, ItemID: saved.Items[0].ID}, events[0])
	assert.Len(t, m.UnreadItems(), 3)
	requireUnreadConsistent(t, m)

	var stored int
	for _, err := range env.store.ItemsOfFeed(ctx, saved.ID) {
		require.NoError(t, err)
		stored++
	}
	assert.Equal(t, 3, stored)
}

func TestManager_UpdateFeed_NoItems(t *testing.T) {
	m, env := setupManager(t)
	saved := m.UpdateFeed(context.Background(), podcast("empty", 0))
	assert.NotZero(t, saved.ID)
	assert.Empty(t, m.UnreadItems())
	assert.Empty(t, env.notifier.NotifyCalls())
}

func TestManager_UpdateFeed_Merge(t *testing.T) {
	tbl := []struct {
		name      string
		incoming  []string // titles of the refreshed feed
		wantTitle []string // titles of the saved feed after merge
		wantNew   int
	}{
		{name: "new item on top", incoming: []string{"ep3", "ep2", "ep1"}, wantTitle: []string{"ep3", "ep2", "ep1"}, wantNew: 1},
		{name: "new item in the middle", incoming: []string{"ep2", "ep1.5", "ep1"}, wantTitle: []string{"ep2", "ep1.5", "ep1"}, wantNew: 1},
		{name: "several new items", incoming: []string{"x1", "x2", "ep2", "x3"}, wantTitle: []string{"x1", "x2", "ep2", "x3", "ep1"}, wantNew: 3},
		{name: "index past the end", incoming: []string{"ep2", "ep2", "ep2", "z"}, wantTitle: []string{"ep2", "ep1", "z"}, wantNew: 1},
		{name: "nothing new", incoming: []string{"ep2", "ep1"}, wantTitle: []string{"ep2", "ep1"}, wantNew: 0},
		{name: "dropped items stay", incoming: []string{"ep2"}, wantTitle: []string{"ep2", "ep1"}, wantNew: 0},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			m, env := setupManager(t)
			ctx := context.Background()

			orig := &domain.Feed{Title: "show", Link: "https://example.com/show", LastUpdate: baseTime,
				Items: []*domain.FeedItem{episode("ep2", baseTime), episode("ep1", baseTime.Add(-time.Hour))}}
			saved := m.UpdateFeed(ctx, orig)
			m.MarkFeedRead(ctx, saved)
			require.Empty(t, m.UnreadItems())
			ep2 := saved.Items[0]
			eventsBefore := len(eventsOf(env, domain.EventUnreadItemsChanged))

			refreshed := &domain.Feed{Title: "show", Link: "https://example.com/show", LastUpdate: baseTime.Add(time.Hour)}
			for i, title := range tt.incoming {
				refreshed.Items = append(refreshed.Items, episode(title, baseTime.Add(time.Duration(i)*time.Minute)))
			}

			res := m.UpdateFeed(ctx, refreshed)
			require.Same(t, saved, res)
			assert.Len(t, m.Feeds(), 1)
			assert.True(t, res.LastUpdate.Equal(baseTime.Add(time.Hour)))
			assert.Same(t, ep2, m.itemByTitle(res, "ep2"), "existing item replaced")
			assert.True(t, ep2.Read, "existing item state changed")

			titles := make([]string, 0, len(res.Items))
			for _, item := range res.Items {
				titles = append(titles, item.Title)
				if !item.Read {
					assert.NotZero(t, item.ID, "new item %q not persisted", item.Title)
					assert.Equal(t, res.ID, item.FeedID)
				}
			}
			assert.Equal(t, tt.wantTitle, titles)
			assert.Len(t, m.UnreadItems(), tt.wantNew)
			assert.Len(t, eventsOf(env, domain.EventUnreadItemsChanged), eventsBefore+tt.wantNew)
			requireUnreadConsistent(t, m)
		})
	}
}

func TestManager_Refresh(t *testing.T) {
	m, env := setupManager(t)
	ctx := context.Background()
	f1 := m.UpdateFeed(ctx, podcast("one", 1))
	f2 := m.UpdateFeed(ctx, podcast("two", 1))

	m.RefreshFeed(f1)
	calls := env.dl.DownloadFeedCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, f1.DownloadURL, calls[0].Req.URL)
	assert.Equal(t, f1.ID, calls[0].Req.FeedID)
	assert.False(t, calls[0].Req.Requested.IsZero())

	m.RefreshAllFeeds()
	calls = env.dl.DownloadFeedCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, f1.ID, calls[1].Req.FeedID)
	assert.Equal(t, f2.ID, calls[2].Req.FeedID)

	m.Subscribe("https://example.com/fresh.rss")
	calls = env.dl.DownloadFeedCalls()
	require.Len(t, calls, 4)
	assert.Equal(t, "https://example.com/fresh.rss", calls[3].Req.URL)
	assert.Zero(t, calls[3].Req.FeedID)
}

func TestManager_NotifyInvalidImageFile(t *testing.T) {
	m, env := setupManager(t)
	ctx := context.Background()
	f := m.UpdateFeed(ctx, podcast("pic", 1))
	m.MarkImageDownloaded(ctx, f.Image, "/data/pic.png")
	require.True(t, f.Image.Downloaded)

	m.NotifyInvalidImageFile(ctx, f.Image)
	assert.False(t, f.Image.Downloaded)
	assert.Empty(t, f.Image.FileURL)
	require.Len(t, env.dl.DownloadImageCalls(), 1)
	assert.Same(t, f.Image, env.dl.DownloadImageCalls()[0].Image)

	img, err := env.store.Image(ctx, f.Image.ID)
	require.NoError(t, err)
	assert.False(t, img.Downloaded)
	assert.Empty(t, img.FileURL)

	// lock is released, the next write goes through
	m.MarkImageDownloaded(ctx, f.Image, "/data/pic-2.png")
	assert.True(t, f.Image.Downloaded)
}
