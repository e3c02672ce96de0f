// Package store holds the read-only record stores the engines query. Records
// are seeded once and never mutated, so a store may be shared freely between
// concurrent callers.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetByKey when no record has the key.
var ErrNotFound = errors.New("record not found")

// Store is read access to an ordered set of records identified by key.
// Implementations must return records in seed order.
type Store[K comparable, V any] interface {
	GetByKey(ctx context.Context, key K) (V, error)
	FindByPredicate(ctx context.Context, match func(V) bool) ([]V, error)
	ListAll(ctx context.Context) ([]V, error)
}
