package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/podcache/pkg/domain"
)

func TestBus_Notify(t *testing.T) {
	bus := NewBus()
	ch1, cancel1 := bus.Subscribe(4)
	defer cancel1()
	ch2, cancel2 := bus.Subscribe(4)
	defer cancel2()

	ev := domain.Event{Type: domain.EventQueueChanged, FeedID: 1, ItemID: 2}
	bus.Notify(ev)

	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)
	published, dropped := bus.Stats()
	assert.Equal(t, int64(1), published)
	assert.Zero(t, dropped)
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus()
	slow, cancelSlow := bus.Subscribe(1)
	defer cancelSlow()
	fast, cancelFast := bus.Subscribe(10)
	defer cancelFast()

	for i := range 3 {
		bus.Notify(domain.Event{Type: domain.EventUnreadItemsChanged, ItemID: int64(i)})
	}

	require.Len(t, slow, 1)
	assert.Equal(t, int64(0), (<-slow).ItemID)
	assert.Len(t, fast, 3)
	published, dropped := bus.Stats()
	assert.Equal(t, int64(3), published)
	assert.Equal(t, int64(2), dropped)
}

func TestBus_Cancel(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(0)
	cancel()
	cancel() // second cancel is a no-op

	_, ok := <-ch
	assert.False(t, ok, "channel closed")
	bus.Notify(domain.NewBulkEvent(domain.EventQueueChanged)) // no subscribers, no panic
}

func TestBus_Concurrent(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1000)
	defer cancel()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				bus.Notify(domain.NewBulkEvent(domain.EventUnreadItemsChanged))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, ch, 500)
}

func TestBus_Nil(t *testing.T) {
	var bus *Bus
	bus.Notify(domain.Event{}) // must not panic
}
