package cart

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps carts in process memory. The map is guarded by a
// read-write mutex while each cart carries its own mutex, so mutations of
// different carts proceed in parallel but all read-modify-write cycles for
// one cart id are serialized.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*memEntry

	// TTL of 0 disables expiry.
	TTL time.Duration
	Now func() time.Time
}

type memEntry struct {
	mu        sync.Mutex
	cart      Cart
	expiresAt time.Time
}

// NewMemoryStore builds an in-memory cart store. A non-zero ttl makes carts
// expire after their last mutation; run Sweep periodically to reclaim them.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{carts: map[string]*memEntry{}, TTL: ttl}
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MemoryStore) expiry() time.Time {
	if s.TTL <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.TTL)
}

func (s *MemoryStore) live(e *memEntry) bool {
	return e.expiresAt.IsZero() || e.expiresAt.After(s.now())
}

// Create stores a new cart.
func (s *MemoryStore) Create(_ context.Context, cart Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.carts[cart.ID]; ok && s.live(existing) {
		return fmt.Errorf("cart %s already exists", cart.ID)
	}
	s.carts[cart.ID] = &memEntry{cart: cart.Clone(), expiresAt: s.expiry()}
	return nil
}

// Get returns a copy of the cart or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Cart, error) {
	s.mu.RLock()
	entry, ok := s.carts[id]
	s.mu.RUnlock()
	if !ok || !s.live(entry) {
		return Cart{}, ErrNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.cart.Clone(), nil
}

// Update applies fn under the cart's own mutex and persists the result.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Cart) error) (Cart, error) {
	s.mu.RLock()
	entry, ok := s.carts[id]
	s.mu.RUnlock()
	if !ok || !s.live(entry) {
		return Cart{}, ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.cart.Clone()
	if err := fn(&working); err != nil {
		return Cart{}, err
	}
	entry.cart = working
	entry.expiresAt = s.expiry()
	return working.Clone(), nil
}

// Delete removes the cart or returns ErrNotFound.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.carts[id]
	if !ok || !s.live(entry) {
		delete(s.carts, id)
		return ErrNotFound
	}
	delete(s.carts, id)
	return nil
}

// List returns the identifiers of all live carts.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.carts))
	for id, entry := range s.carts {
		if s.live(entry) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Sweep drops expired carts and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.carts {
		if !s.live(entry) {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := s.Sweep()
				if removed > 0 && onSweep != nil {
					onSweep(removed)
				}
			}
		}
	}()
}
