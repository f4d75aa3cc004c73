package param

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

// Param is one decoded section: an ordered sequence of entries of a single
// logical type, identified by a format-defined tag string.
//
// On the wire a section is an offset-table frame:
//
//	[version]   int32, only in variants with per-section versions
//	reserved    uint32, always zero
//	count       int32, number of offsets = entries + 1
//	offsets     count offset-width words; the last one addresses the
//	            section's own tag string rather than an entry
//	next        offset of the next section, literal zero on the last
//	tag string  null-terminated, padded to the format's alignment
//	entries     at their offsets, grouped by concrete subtype
//
// The off-by-one in count is intentional and preserved: the tag string
// occupies the final slot of the offset table. Sections chain through the
// next offset; there is no directory, so a section never knows what follows
// it - the orchestrator does.
type Param[E Entry] struct {
	// Tag is the section's format-defined tag string, e.g. "MODEL_PARAM_ST".
	Tag string
	// Version is the per-section version word of variants that carry one.
	Version int32
	// Entries is the decoded entry sequence in file order.
	Entries []E
}

// Read decodes one section frame at the cursor's position. The section's
// embedded tag string must equal tag; a mismatch means the file put a
// different section where this one was expected, which is fatal, since the
// following offset tables cannot be trusted. Entry bodies are delegated to
// dec, re-seeking per entry offset.
//
// Read returns the absolute offset of the next section. It does not seek
// there: the orchestrator decides whether an offset is expected (chained
// sections) or must be the literal zero terminator (last section).
func Read[E Entry](r *cursor.Reader, f format.Format, tag string, dec DecodeFunc[E]) (*Param[E], int64, error) {
	p := &Param[E]{Tag: tag}

	if f.HasVersions {
		p.Version = r.Int32()
	}
	r.AssertUint32(0)

	count := r.Int32()
	if err := r.Err(); err != nil {
		return nil, 0, err
	}
	if count < 1 {
		return nil, 0, fmt.Errorf("%w: offset count %d in section %s", errs.ErrUnexpectedValue, count, tag)
	}
	// The count word comes straight from the file. Bound it by the space the
	// offset table (plus the next-section slot) would need before allocating,
	// so a corrupt or byte-swapped word fails cleanly instead of exhausting
	// memory.
	if need := (int64(count) + 1) * int64(f.OffsetSize()); need > r.Len()-r.Pos() {
		return nil, 0, fmt.Errorf("%w: offset count %d exceeds remaining input in section %s", errs.ErrUnexpectedValue, count, tag)
	}

	offsets := make([]int64, count)
	for i := range offsets {
		offsets[i] = r.Offset(f.LongOffsets)
	}
	next := r.Offset(f.LongOffsets)
	if err := r.Err(); err != nil {
		return nil, 0, err
	}

	r.Seek(offsets[count-1])
	got := r.StringZ(f.WideNames)
	if err := r.Err(); err != nil {
		return nil, 0, err
	}
	if got != tag {
		return nil, 0, fmt.Errorf("%w: found %q, expected %q", errs.ErrParamTag, got, tag)
	}

	p.Entries = make([]E, 0, count-1)
	for i, off := range offsets[:count-1] {
		r.Seek(off)
		e, err := dec(r, f)
		if err != nil {
			return nil, 0, fmt.Errorf("section %s entry %d: %w", tag, i, err)
		}
		p.Entries = append(p.Entries, e)
	}

	return p, next, nil
}

// Write encodes the section frame at the cursor's position: header words,
// reserved offset table, reserved next offset, tag string, then the entry
// bodies, back-filling each table slot immediately before its entry.
//
// Entries are numbered with a local per-subtype ordinal that restarts at
// zero whenever the subtype differs from the previous entry; enc receives
// it because the layouts serialize it as the entry's index field.
//
// The next-section slot stays reserved under NextKey; the orchestrator fills
// it once it knows where the next section begins, or with literal zero for
// the last section.
func (p *Param[E]) Write(w *cursor.Writer, f format.Format, enc EncodeFunc[E]) error {
	if f.HasVersions {
		w.Int32(p.Version)
	}
	w.Uint32(0)

	n := len(p.Entries)
	w.Int32(int32(n) + 1)
	for i := range p.Entries {
		w.ReserveOffset(p.entryKey(i), f.LongOffsets)
	}
	w.ReserveOffset(p.tagKey(), f.LongOffsets)
	w.ReserveOffset(p.NextKey(), f.LongOffsets)

	w.FillOffset(p.tagKey(), w.Pos())
	w.StringZ(p.Tag, f.WideNames)
	w.Pad(f.Align)

	var ordinal int32
	for i, e := range p.Entries {
		if i > 0 && p.Entries[i-1].Subtype() != e.Subtype() {
			ordinal = 0
		}
		w.FillOffset(p.entryKey(i), w.Pos())
		if err := enc(w, f, e, ordinal); err != nil {
			return fmt.Errorf("section %s entry %d: %w", p.Tag, i, err)
		}
		ordinal++
	}

	return w.Err()
}

// Collect builds a name index snapshot over the section's current entries.
func (p *Param[E]) Collect() *Collection[E] {
	return Collect(p.Entries)
}

// NextKey is the reservation key of the section's next-section offset.
func (p *Param[E]) NextKey() string {
	return p.Tag + ":next"
}

func (p *Param[E]) tagKey() string {
	return p.Tag + ":tag"
}

func (p *Param[E]) entryKey(i int) string {
	return fmt.Sprintf("%s:entry[%d]", p.Tag, i)
}
