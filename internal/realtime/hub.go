package realtime

import "sync"

// Collection names published through the hub.
const (
	CollectionIncidents       = "incidents"
	CollectionUsers           = "users"
	CollectionRoles           = "roles"
	CollectionAutomationRules = "automationRules"
	CollectionTags            = "tags"
)

// Hub fans full collection snapshots out to subscribers. The contract is
// deliberately full-snapshot: every publish hands each subscriber the
// complete current collection, never a diff.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(interface{})
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func(interface{}))}
}

// Subscribe registers fn for a collection and returns an unsubscribe func.
// fn is called with the full snapshot on every publish.
func (h *Hub) Subscribe(collection string, fn func(snapshot interface{})) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]func(interface{}))
	}
	id := h.nextID
	h.nextID++
	h.subs[collection][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[collection], id)
	}
}

// Publish delivers the snapshot to every subscriber of the collection.
// Callbacks run synchronously on the publishing goroutine; subscribers that
// need to block hand off to a channel (the SSE handler does this).
func (h *Hub) Publish(collection string, snapshot interface{}) {
	h.mu.Lock()
	fns := make([]func(interface{}), 0, len(h.subs[collection]))
	for _, fn := range h.subs[collection] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
