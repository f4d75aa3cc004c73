package param

import (
	"github.com/mapstudio/msb/internal/hash"
)

// Collection is a snapshot name index over an entry sequence: an ordered
// name list aligned with the sequence and a name-to-index map. It aliases
// the caller's slice rather than copying entries.
//
// The map value for a duplicated name is the last index holding that name at
// construction time; after Disambiguate has run, every name maps to exactly
// one index. A Collection is a point-in-time view: rebuild it after any
// rename, reorder, or insertion.
type Collection[E Entry] struct {
	entries []E
	names   []string
	index   map[string]int
	folded  map[uint64][]int
}

// Collect builds a Collection over entries. Construction is O(n); no entry
// is copied.
func Collect[E Entry](entries []E) *Collection[E] {
	c := &Collection[E]{
		entries: entries,
		names:   make([]string, len(entries)),
		index:   make(map[string]int, len(entries)),
		folded:  make(map[uint64][]int, len(entries)),
	}

	for i, e := range entries {
		name := e.Name()
		c.names[i] = name
		c.index[name] = i
		key := hash.Fold(name)
		c.folded[key] = append(c.folded[key], i)
	}

	return c
}

// Len returns the number of entries in the snapshot.
func (c *Collection[E]) Len() int {
	return len(c.names)
}

// At returns the entry at position i of the aliased sequence.
func (c *Collection[E]) At(i int) E {
	return c.entries[i]
}

// Names returns the index-aligned name list. The slice is shared with the
// collection; callers must not modify it.
func (c *Collection[E]) Names() []string {
	return c.names
}
