package param

import (
	"fmt"
	"math"
	"strings"

	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/internal/hash"
)

// RefKind classifies the outcome of a name lookup. Keeping Absent and
// Missing distinct is load-bearing: a blank name is an intentional
// no-reference and serializes as -1, while a non-blank name that resolves
// nowhere is a broken file and must fail loudly.
type RefKind int

const (
	// RefMissing means a non-blank name matched nothing, even case-insensitively.
	RefMissing RefKind = iota
	// RefAbsent means the name was blank: an intentional no-reference.
	RefAbsent
	// RefResolved means the name matched an entry.
	RefResolved
)

// Lookup resolves name against the collection. A blank name is Absent
// without any lookup. An exact miss retries case-insensitively, lowercasing
// the query against the lowercased names; map data is known to carry
// historical casing drift, so this fallback is part of the format's
// semantics, not a convenience.
func (c *Collection[E]) Lookup(name string) (int, RefKind) {
	if name == "" {
		return -1, RefAbsent
	}

	if i, ok := c.index[name]; ok {
		return i, RefResolved
	}

	lower := strings.ToLower(name)
	found := -1
	for _, i := range c.folded[hash.Fold(name)] {
		if strings.ToLower(c.names[i]) == lower {
			found = i // keep the last match, mirroring the exact-name map
		}
	}
	if found >= 0 {
		return found, RefResolved
	}

	return -1, RefMissing
}

// IndexOf converts a reference name to its 32-bit serialized index. Blank
// yields the -1 sentinel. A missing reference is an error carrying the
// referring entry's identity and the unresolved name; it never degrades to
// the sentinel.
func (c *Collection[E]) IndexOf(owner, name string) (int32, error) {
	i, kind := c.Lookup(name)
	switch kind {
	case RefAbsent:
		return -1, nil
	case RefResolved:
		return int32(i), nil
	default:
		return 0, fmt.Errorf("%w: %q referenced by entry %q", errs.ErrMissingReference, name, owner)
	}
}

// IndexOf16 is IndexOf for fields serialized at 16-bit width.
func (c *Collection[E]) IndexOf16(owner, name string) (int16, error) {
	i, err := c.IndexOf(owner, name)
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt16 {
		return 0, fmt.Errorf("%w: index %d of %q referenced by entry %q", errs.ErrIndexOverflow, i, name, owner)
	}

	return int16(i), nil
}

// IndicesOf applies IndexOf element-wise, preserving order and shape.
func (c *Collection[E]) IndicesOf(owner string, names []string) ([]int32, error) {
	out := make([]int32, len(names))
	for i, name := range names {
		idx, err := c.IndexOf(owner, name)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}

	return out, nil
}

// IndicesOf16 applies IndexOf16 element-wise, preserving order and shape.
func (c *Collection[E]) IndicesOf16(owner string, names []string) ([]int16, error) {
	out := make([]int16, len(names))
	for i, name := range names {
		idx, err := c.IndexOf16(owner, name)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}

	return out, nil
}

// NameAt converts a stored index back to a name. The -1 sentinel and any
// out-of-range index yield the blank no-reference name; decode never fails
// on an index.
func (c *Collection[E]) NameAt(i int32) string {
	if i < 0 || int(i) >= len(c.names) {
		return ""
	}

	return c.names[i]
}

// NameAt16 is NameAt for 16-bit stored indices.
func (c *Collection[E]) NameAt16(i int16) string {
	return c.NameAt(int32(i))
}

// NamesAt applies NameAt element-wise, preserving order and shape.
func (c *Collection[E]) NamesAt(indices []int32) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = c.NameAt(idx)
	}

	return out
}

// NamesAt16 applies NameAt16 element-wise, preserving order and shape.
func (c *Collection[E]) NamesAt16(indices []int16) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = c.NameAt16(idx)
	}

	return out
}
