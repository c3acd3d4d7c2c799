package engine

import (
	"fmt"
	"strings"
)

// matchID returns the index of the single entry whose id equals or starts
// with prefix.
func matchID[T any](items []T, idOf func(T) string, prefix string, notFound error) (int, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return -1, notFound
	}
	found := -1
	for i, it := range items {
		id := idOf(it)
		if id == prefix {
			return i, nil
		}
		if strings.HasPrefix(id, prefix) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", notFound, prefix)
	}
	return found, nil
}

// ShortID is the display form of an id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
