package param

import (
	"fmt"
	"strings"
)

// Disambiguate rewrites duplicate and blank names in entries so every entry
// has a unique, non-blank display name. Reference resolution depends on a
// name mapping to a single index, so this must run after decode and before
// any collection that foreign entries resolve against is built.
//
// Serialized files may legitimately contain duplicate or blank names; this
// is a decode-time normalization, never an input error. A colliding name
// "A" with category "X" is rewritten to "X A {n}" (blank names drop the
// middle part), where n is the running occurrence count. Blank names sit in a counter
// bucket seeded at zero so even a single blank entry is renamed: a blank
// name is not a distinguishable target and must never resolve.
//
// A rewritten name can itself collide with a pre-existing name, or two
// rewrites can collide with each other, so the scan repeats with a fresh
// counter map until a full pass changes nothing. Each rewrite strictly
// extends the un-suffixed form, so the process terminates for finite input.
func Disambiguate[E Entry](entries []E, category string) {
	for changed := true; changed; {
		changed = false
		counts := map[string]int{"": 0}

		for _, e := range entries {
			name := e.Name()
			n, seen := counts[name]
			if !seen {
				counts[name] = 1
				continue
			}

			counts[name] = n + 1
			base := strings.TrimSpace(category + " " + name)
			e.SetName(fmt.Sprintf("%s {%d}", base, n+1))
			changed = true
		}
	}
}
