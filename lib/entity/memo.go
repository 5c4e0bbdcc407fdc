package entity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("sportsref/lib/entity")

type result struct {
	value any
	err   error
}

// Store holds the memoized results of one owner: an entity, or a sport
// client for free functions. It lives exactly as long as its owner and is
// never evicted.
type Store struct {
	mu      sync.Mutex
	group   singleflight.Group
	results map[string]result
}

func NewStore() *Store {
	return &Store{results: map[string]result{}}
}

// Call runs fn at most once per unique (op, args) for the life of the
// store. Concurrent calls with an identical call key collapse into a
// single execution and all of them observe its result.
//
// Caching policy: successful results and ErrNotAvailable are cached;
// every other error propagates uncached, so transient fetch failures are
// retried on the next access. The context of the first in-flight caller
// is the one fn observes.
func Call[T any](ctx context.Context, s *Store, op string, args []any, fn func(context.Context) (T, error)) (T, error) {
	key := CallKey(op, args...)

	ctx, span := tracer.Start(ctx, "memo:"+op)
	defer span.End()
	span.SetAttributes(attribute.String("call_key", key))

	if cached, ok := s.lookup(key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return asTyped[T](cached)
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	value, err, _ := s.group.Do(key, func() (any, error) {
		// a concurrent flight may have populated the store between our
		// lookup and joining the group
		if cached, ok := s.lookup(key); ok {
			return cached.value, cached.err
		}

		v, err := fn(ctx)
		if err == nil || errors.Is(err, ErrNotAvailable) {
			s.mu.Lock()
			s.results[key] = result{value: v, err: err}
			s.mu.Unlock()
		}
		return v, err
	})
	if err != nil && !errors.Is(err, ErrNotAvailable) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "memoized call failed")
	}

	return asTyped[T](result{value: value, err: err})
}

func (s *Store) lookup(key string) (result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached, ok := s.results[key]
	return cached, ok
}

// Len reports how many call keys are populated.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func asTyped[T any](r result) (T, error) {
	var zero T
	if r.err != nil {
		return zero, r.err
	}
	typed, ok := r.value.(T)
	if !ok {
		return zero, fmt.Errorf("memoized value is a %T, not the requested type", r.value)
	}
	return typed, nil
}
