package sync

import (
	"sort"
	stdsync "sync"

	"github.com/story-catalog/storycat/internal/log"
	"github.com/story-catalog/storycat/internal/models"
)

// EventType names a sync lifecycle notification.
type EventType string

// Lifecycle events emitted by the engine, in the order guaranteed per
// drain pass: sync-start precedes any per-item event, sync-complete is
// always last and emitted exactly once.
const (
	EventOnline          EventType = "online"
	EventOffline         EventType = "offline"
	EventSyncStart       EventType = "sync-start"
	EventStorySynced     EventType = "story-synced"
	EventQueueItemSynced EventType = "queue-item-synced"
	EventSyncComplete    EventType = "sync-complete"
	EventSyncError       EventType = "sync-error"
	EventDataCleared     EventType = "data-cleared"
)

// Event is the payload delivered to sync listeners. Fields are set
// according to the event type.
type Event struct {
	Type    EventType
	Story   *models.PendingStory
	Item    *models.SyncQueueItem
	Result  *DrainResult
	Success bool
	Err     error
}

// Listener receives sync events. A panicking listener is isolated and
// logged; it never aborts the sync pass.
type Listener func(Event)

// Notifier fans sync events out to registered listeners.
type Notifier struct {
	mu        stdsync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]Listener)}
}

// Subscribe registers a listener and returns its subscription id.
func (n *Notifier) Subscribe(fn Listener) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.listeners[n.nextID] = fn
	return n.nextID
}

// Unsubscribe removes a listener. Unknown ids are a no-op.
func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.listeners, id)
}

// Count returns the number of registered listeners.
func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Emit delivers an event to every listener in subscription order.
func (n *Notifier) Emit(event Event) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.listeners[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		n.deliver(fn, event)
	}
}

func (n *Notifier) deliver(fn Listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("sync: listener panic on %s: %v", event.Type, r)
		}
	}()
	fn(event)
}
