// Package entity provides the identity and memoization core shared by
// every sport package: a registry that deduplicates entity instances by
// natural key, and a per-entity store that caches the result of expensive
// operations (page fetches, table parses) so they run at most once.
package entity

// Entity is anything identified by a natural key: a team, a box score.
// Identity, equality and hashing all derive from (Kind, Key) alone, never
// from the physical instance.
type Entity interface {
	// Kind is a short tag naming the entity variant, e.g. "nfl/team".
	Kind() string
	// Key is the natural key, e.g. "nwe" or "201509100nwe".
	Key() string
}

// Keyer lets non-entity argument types control their cache-key
// representation.
type Keyer interface {
	CacheKey() string
}

// MapKey reduces an entity to a string usable as a Go map key.
// Two separately obtained references to the same logical entity yield the
// same MapKey.
func MapKey(e Entity) string {
	return e.Kind() + ":" + e.Key()
}

// Same reports whether two entities denote the same real-world object.
func Same(a, b Entity) bool {
	return a.Kind() == b.Kind() && a.Key() == b.Key()
}
