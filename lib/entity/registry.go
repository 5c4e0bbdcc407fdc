package entity

import (
	"fmt"
	"sync"
)

// Registry hands out at most one live instance per (kind, natural key).
// Repeated lookups return the same object, so all of them share one
// result cache.
//
// A registry is plain constructible state, not a package global: inject
// one per client and Clear it between tests.
type Registry struct {
	mu       sync.Mutex
	entities map[string]Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: map[string]Entity{}}
}

// GetOrCreate returns the registered entity for (kind, key), constructing
// and registering one if none exists yet. Insert-if-absent is atomic with
// respect to the key. Constructor failures (e.g. ErrInvalidKey) register
// nothing.
func GetOrCreate[T Entity](r *Registry, kind, key string, construct func(key string) (T, error)) (T, error) {
	var zero T

	r.mu.Lock()
	defer r.mu.Unlock()

	mapKey := kind + ":" + key
	if existing, ok := r.entities[mapKey]; ok {
		typed, ok := existing.(T)
		if !ok {
			return zero, fmt.Errorf("entity %q is a %T, not the requested type", mapKey, existing)
		}
		return typed, nil
	}

	created, err := construct(key)
	if err != nil {
		return zero, err
	}
	r.entities[mapKey] = created
	return created, nil
}

// Clear drops every registered entity. Test isolation only.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities = map[string]Entity{}
}

// Len reports how many entities are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}
