package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Fold computes the xxHash64 of the lowercased string. It is the bucket key
// for case-insensitive name lookups; callers must confirm hits by comparing
// the lowercased strings since distinct folded names can share a hash.
func Fold(data string) uint64 {
	return xxhash.Sum64String(strings.ToLower(data))
}
