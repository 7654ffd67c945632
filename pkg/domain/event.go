package domain

// EventType is the kind of state change an Event reports
type EventType string

// event types
const (
	EventUnreadItemsChanged EventType = "unread_items_changed"
	EventQueueChanged       EventType = "queue_changed"
)

// Event is a fire-and-forget notification about cache changes.
// Bulk events carry no feed or item id.
type Event struct {
	Type   EventType
	FeedID int64
	ItemID int64
	Bulk   bool
}

// NewItemEvent makes an event for a single item
func NewItemEvent(t EventType, item *FeedItem) Event {
	if item == nil {
		return Event{Type: t, Bulk: true}
	}
	return Event{Type: t, FeedID: item.FeedID, ItemID: item.ID}
}

// NewBulkEvent makes an event without item reference
func NewBulkEvent(t EventType) Event {
	return Event{Type: t, Bulk: true}
}
