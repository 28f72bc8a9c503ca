package system

// Lookup is a key-indexed view over a slice of components, built once and
// read-only afterwards. It joins independently parsed datasets by a string
// key; callers normalize key case on both sides.
type Lookup[T any] struct {
	entries map[string]T
}

// NewLookup indexes items by the given key function. Later items win on a
// key collision.
func NewLookup[T any](items []T, key func(T) string) Lookup[T] {
	entries := make(map[string]T, len(items))
	for _, item := range items {
		entries[key(item)] = item
	}
	return Lookup[T]{entries: entries}
}

// Get returns the item stored under key, or false when there is none.
func (l Lookup[T]) Get(key string) (T, bool) {
	item, ok := l.entries[key]
	return item, ok
}

// Len reports the number of distinct keys.
func (l Lookup[T]) Len() int { return len(l.entries) }
