package usecase

import (
	"sync"

	"github.com/google/uuid"
	"github.com/m-fukushima/mdbatch/pkg/domain/model"
)

// DefaultStoreCapacity bounds how many batches the store retains.
const DefaultStoreCapacity = 16

// Store retains recent batch results in memory so the presentation layer
// can fetch previews, per-file downloads, and the bulk archive after the
// conversion request has returned. It is the explicit replacement for
// hidden per-session globals: callers hold the returned batch ID.
//
// Retention is bounded; when the capacity is exceeded the oldest batch is
// evicted. Nothing is persisted.
type Store struct {
	mu       sync.Mutex
	batches  map[string]*model.BatchResult
	order    []string
	capacity int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCapacity sets how many batches are retained before eviction.
func WithCapacity(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// NewStore creates an empty batch store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		batches:  make(map[string]*model.BatchResult),
		capacity: DefaultStoreCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put retains a batch result and returns its newly assigned ID. The oldest
// batch is evicted if the store is at capacity.
func (s *Store) Put(result *model.BatchResult) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	result.ID = id
	s.batches[id] = result
	s.order = append(s.order, id)

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.batches, oldest)
	}

	return id
}

// Get returns the batch with the given ID, if retained.
func (s *Store) Get(id string) (*model.BatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.batches[id]
	return r, ok
}

// Delete removes a batch and reports whether it was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.batches[id]; !ok {
		return false
	}
	delete(s.batches, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of retained batches.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}
