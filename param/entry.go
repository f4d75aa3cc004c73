// Package param implements the generic section protocol shared by every MSB
// section type: the offset-table framing, the name index built over an entry
// sequence, the duplicate-name disambiguator, and the name/index reference
// resolution used to serialize cross-section references.
//
// The package never inspects entry-specific fields. Concrete entry layouts
// live with the document schemas and plug in through the Entry interface and
// the decode/encode hooks.
package param

import (
	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/format"
)

// Entry is one named record belonging to a section. Names are the only
// identity the format has: references between entries are stored as names in
// memory and converted to positional indices only at encode time.
type Entry interface {
	// Name returns the entry's display name. May be blank in raw files.
	Name() string
	// SetName replaces the display name. Used by Disambiguate.
	SetName(name string)
	// Subtype identifies the entry's concrete kind. Entries written back to
	// back share a local ordinal counter that resets when the subtype
	// changes from the previous entry.
	Subtype() uint32
}

// DecodeFunc materializes one entry. The cursor is positioned at the entry's
// offset; the hook may seek freely, the framer re-seeks per entry.
type DecodeFunc[E Entry] func(r *cursor.Reader, f format.Format) (E, error)

// EncodeFunc serializes one entry body at the current position. ordinal is
// the entry's position within its run of same-subtype entries; the layouts
// store it as the entry's serialized index field.
type EncodeFunc[E Entry] func(w *cursor.Writer, f format.Format, e E, ordinal int32) error
