package store

import (
	"context"
	"fmt"
)

// MemoryStore keeps records in a slice with a key index.
type MemoryStore[K comparable, V any] struct {
	items []V
	index map[K]int
}

var _ Store[string, int] = (*MemoryStore[string, int])(nil)

// NewMemoryStore indexes items by key. Duplicate keys are rejected.
func NewMemoryStore[K comparable, V any](key func(V) K, items []V) (*MemoryStore[K, V], error) {
	s := &MemoryStore[K, V]{
		items: make([]V, len(items)),
		index: make(map[K]int, len(items)),
	}
	copy(s.items, items)
	for i, item := range s.items {
		k := key(item)
		if _, dup := s.index[k]; dup {
			return nil, fmt.Errorf("duplicate key %v", k)
		}
		s.index[k] = i
	}
	return s, nil
}

func (s *MemoryStore[K, V]) GetByKey(_ context.Context, key K) (V, error) {
	i, ok := s.index[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return s.items[i], nil
}

func (s *MemoryStore[K, V]) FindByPredicate(_ context.Context, match func(V) bool) ([]V, error) {
	var out []V
	for _, item := range s.items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *MemoryStore[K, V]) ListAll(_ context.Context) ([]V, error) {
	out := make([]V, len(s.items))
	copy(out, s.items)
	return out, nil
}
