package workflow

import (
	"sync"

	"copysmith-backend/internal/auth"
	"copysmith-backend/internal/gen"
	"copysmith-backend/internal/models"
)

// SessionFeed is the session-change surface of the auth service
type SessionFeed interface {
	OnSessionChange(fn func(auth.SessionEvent)) *auth.Subscription
}

// Registry is the session controller: it owns one App per authenticated
// principal and tears the state down when the auth service reports a
// sign-out or identity change, so nothing from a previous identity leaks
// into the next session.
type Registry struct {
	mu        sync.Mutex
	apps      map[int64]*App
	store     DescriptionStore
	generator gen.Generator
	sub       *auth.Subscription
}

// NewRegistry creates an empty registry over the given gateways
func NewRegistry(store DescriptionStore, generator gen.Generator) *Registry {
	return &Registry{
		apps:      make(map[int64]*App),
		store:     store,
		generator: generator,
	}
}

// Observe subscribes the registry to the session-change feed. Close
// releases the subscription.
func (r *Registry) Observe(feed SessionFeed) {
	r.sub = feed.OnSessionChange(r.handle)
}

func (r *Registry) handle(ev auth.SessionEvent) {
	switch ev.Kind {
	case auth.EventSignedOut, auth.EventUserUpdated:
		r.mu.Lock()
		app := r.apps[ev.Principal.UserID]
		delete(r.apps, ev.Principal.UserID)
		r.mu.Unlock()

		if app != nil {
			app.Reset()
		}
	case auth.EventSignedIn:
		// Apps are created lazily on first use; nothing to do here.
	}
}

// For returns the App for principal, creating it on first use and
// priming its history cache. A failed prime leaves the cache empty; the
// next fetch rebuilds it.
func (r *Registry) For(principal models.Principal) *App {
	r.mu.Lock()
	app, ok := r.apps[principal.UserID]
	if ok {
		r.mu.Unlock()
		return app
	}

	app = NewApp(principal, r.store, r.generator)
	r.apps[principal.UserID] = app
	r.mu.Unlock()

	app.history.Fetch()
	return app
}

// Len returns the number of live apps
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// Close releases the session-change subscription
func (r *Registry) Close() {
	if r.sub != nil {
		r.sub.Close()
	}
}
