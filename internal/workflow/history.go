package workflow

import (
	"log"
	"sync"

	"copysmith-backend/internal/models"
)

// DescriptionStore is the persistence surface the workflow depends on
type DescriptionStore interface {
	Insert(d *models.Description) error
	ListByUser(userID int64) ([]*models.Description, error)
	Delete(id string, userID int64) error
}

// History is the per-user cache of persisted generations. It mirrors the
// store and is replaced wholesale on every successful fetch; the store
// remains the source of truth. The cache only ever holds rows owned by
// its user.
type History struct {
	mu     sync.Mutex
	userID int64
	store  DescriptionStore
	items  []*models.Description
}

func newHistory(userID int64, store DescriptionStore) *History {
	return &History{userID: userID, store: store}
}

// Fetch reloads the cache from the store, most recent first. A fetch
// failure is logged and leaves the existing cache in place.
func (h *History) Fetch() error {
	items, err := h.store.ListByUser(h.userID)
	if err != nil {
		log.Printf("fetch history for user %d: %v", h.userID, err)
		return err
	}

	h.mu.Lock()
	h.items = items
	h.mu.Unlock()
	return nil
}

// DeleteItem removes one record from the store and refreshes the cache.
// A failed delete leaves the cache unchanged and is returned to the
// caller; a failed refresh after a successful delete is logged only.
func (h *History) DeleteItem(id string) error {
	if err := h.store.Delete(id, h.userID); err != nil {
		return err
	}

	h.Fetch()
	return nil
}

// Items returns a copy of the cached records, most recent first
func (h *History) Items() []*models.Description {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]*models.Description, len(h.items))
	copy(items, h.items)
	return items
}

// Len returns the number of cached records
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

func (h *History) clear() {
	h.mu.Lock()
	h.items = nil
	h.mu.Unlock()
}
