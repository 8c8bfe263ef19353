package devserver

import (
	"sort"
	"sync"

	"fedadmin/internal/engine"
)

// Store is an in-memory table of one entity kind, keyed by id.
type Store[T engine.Entity] struct {
	mu    sync.RWMutex
	items map[int64]T
}

// NewStore creates an empty store.
func NewStore[T engine.Entity]() *Store[T] {
	return &Store[T]{items: make(map[int64]T)}
}

func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// All returns a copy of every item ordered by id.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EntityID() < result[j].EntityID() })
	return result
}

func (s *Store[T]) Put(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.EntityID()] = item
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Update applies fn to every listed id under one lock. fn returns the new
// value and false to delete the item. Ids that do not exist are returned.
func (s *Store[T]) Update(ids []int64, fn func(T) (T, bool)) (missing []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		item, ok := s.items[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		next, keep := fn(item)
		if !keep {
			delete(s.items, id)
			continue
		}
		s.items[id] = next
	}
	return missing
}
