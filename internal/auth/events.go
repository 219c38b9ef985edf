package auth

import (
	"sync"

	"copysmith-backend/internal/models"
)

// SessionEventKind identifies what changed about a user's authentication state
type SessionEventKind string

const (
	EventSignedIn    SessionEventKind = "signed_in"
	EventSignedOut   SessionEventKind = "signed_out"
	EventUserUpdated SessionEventKind = "user_updated"
)

// SessionEvent describes a change to a user's authentication state
type SessionEvent struct {
	Kind      SessionEventKind
	Principal models.Principal
}

// Notifier broadcasts session-change events to subscribers. The auth
// service publishes into it; the workflow layer observes it.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(SessionEvent)
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(SessionEvent))}
}

// OnSessionChange registers fn to receive session-change events. The
// returned subscription must be closed when the observer is torn down.
func (n *Notifier) OnSessionChange(fn func(SessionEvent)) *Subscription {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return &Subscription{cancel: func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}}
}

// Publish delivers ev to every current subscriber. Callbacks run outside
// the notifier lock so a subscriber may unsubscribe from within one.
func (n *Notifier) Publish(ev SessionEvent) {
	n.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscription is a cancellable handle to the session-change feed
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}
