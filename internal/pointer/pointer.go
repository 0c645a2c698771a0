// Package pointer fans pointer-down events out to independent subscribers.
//
// A Hub is owned by the event loop that feeds it (the bubbletea Update
// goroutine) and is not safe for concurrent use. Subscribers are called in
// subscription order against a snapshot, so a handler may close its own or
// another subscription while an event is being dispatched.
package pointer

// Button identifies which pointer button went down.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event is a pointer-down at a cell position.
type Event struct {
	X, Y   int
	Button Button
}

// Handler receives pointer-down events.
type Handler func(Event)

// Hub is a process-wide registry of pointer-down listeners.
type Hub struct {
	nextID uint64
	subs   []*Subscription
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscription is a single registration on a Hub.
type Subscription struct {
	hub     *Hub
	id      uint64
	handler Handler
	closed  bool
}

// Subscribe registers h. The returned subscription must be closed when the
// owner is torn down.
func (h *Hub) Subscribe(fn Handler) *Subscription {
	h.nextID++
	s := &Subscription{hub: h, id: h.nextID, handler: fn}
	h.subs = append(h.subs, s)
	return s
}

// Dispatch delivers ev to every live subscription.
func (h *Hub) Dispatch(ev Event) {
	snapshot := append([]*Subscription(nil), h.subs...)
	for _, s := range snapshot {
		if s.closed || s.handler == nil {
			continue
		}
		s.handler(ev)
	}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	return len(h.subs)
}

// Close removes the subscription from its hub. Safe to call more than once
// and on a nil subscription.
func (s *Subscription) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.handler = nil
	subs := s.hub.subs
	for i, other := range subs {
		if other.id == s.id {
			s.hub.subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return s != nil && !s.closed
}
