package productswitch

import (
	"context"
	"sync"
)

// Deferred is an explicit lazily-evaluated value: a thunk plus a cache
// cell. Get evaluates the thunk at most once, no matter how often it is
// read; both the value and the error are cached. It makes the
// at-most-one-fetch guarantee of the discount eligibility check a testable
// contract instead of an implementation accident.
type Deferred[T any] struct {
	fetch func(ctx context.Context) (T, error)
	once  sync.Once
	value T
	err   error
}

func NewDeferred[T any](fetch func(ctx context.Context) (T, error)) *Deferred[T] {
	return &Deferred[T]{fetch: fetch}
}

// Resolved returns a Deferred that yields a fixed value without fetching.
func Resolved[T any](value T) *Deferred[T] {
	return NewDeferred(func(context.Context) (T, error) {
		return value, nil
	})
}

func (d *Deferred[T]) Get(ctx context.Context) (T, error) {
	d.once.Do(func() {
		d.value, d.err = d.fetch(ctx)
	})
	return d.value, d.err
}
