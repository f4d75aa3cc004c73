package cursor

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/mapstudio/msb/endian"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/internal/pool"
)

// reservation is one named slot awaiting a Fill.
type reservation struct {
	pos   int
	width int
}

// Writer is a sticky-error append cursor producing an in-memory file.
//
// Offsets inside a section chain forward: the value of an offset field is a
// position that is not known until later bytes have been written. Reserve
// emits a zeroed slot under a caller-chosen key and Fill patches it once the
// position is known. Bytes fails while any reservation is unfilled, so a
// forgotten Fill cannot silently produce a broken file.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	buf      *pool.ByteBuffer
	engine   endian.EndianEngine
	reserved map[string]reservation
	err      error
}

// NewWriter creates a Writer using the given byte order. The backing buffer
// comes from the shared pool; call Release when the writer is no longer
// needed.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		buf:      pool.GetMapBuffer(),
		engine:   engine,
		reserved: make(map[string]reservation),
	}
}

// Release returns the backing buffer to the pool. The writer must not be
// used afterwards.
func (w *Writer) Release() {
	pool.PutMapBuffer(w.buf)
	w.buf = nil
}

// Err returns the first error encountered, or nil.
func (w *Writer) Err() error {
	return w.err
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return int64(w.buf.Len())
}

// Bytes returns a copy of the emitted file. It fails if any error latched or
// any reservation was never filled.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.reserved) > 0 {
		keys := make([]string, 0, len(w.reserved))
		for k := range w.reserved {
			keys = append(keys, k)
		}

		return nil, fmt.Errorf("%w: %s", errs.ErrUnfilledReservation, strings.Join(keys, ", "))
	}

	return append([]byte(nil), w.buf.Bytes()...), nil
}

func (w *Writer) Uint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf.B = append(w.buf.B, v)
}

func (w *Writer) Uint16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

func (w *Writer) Uint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

func (w *Writer) Uint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

func (w *Writer) Int64(v int64) {
	w.Uint64(uint64(v))
}

func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf.B = append(w.buf.B, b...)
}

// Offset writes one offset field at the format's width.
func (w *Writer) Offset(v int64, long bool) {
	if long {
		w.Uint64(uint64(v))
		return
	}
	if v < 0 || v > math.MaxUint32 {
		if w.err == nil {
			w.err = fmt.Errorf("%w: offset 0x%x does not fit 32 bits", errs.ErrOffsetOutOfRange, v)
		}

		return
	}
	w.Uint32(uint32(v))
}

// StringZ writes a null-terminated string: raw 8-bit bytes when wide is
// false, UTF-16 code units when wide is true. A string containing NUL cannot
// be framed and latches an error.
func (w *Writer) StringZ(s string, wide bool) {
	if w.err != nil {
		return
	}
	if strings.ContainsRune(s, 0) {
		w.err = fmt.Errorf("%w: %q contains NUL", errs.ErrInvalidEntryName, s)
		return
	}

	if !wide {
		w.buf.B = append(w.buf.B, s...)
		w.buf.B = append(w.buf.B, 0)

		return
	}

	for _, u := range utf16.Encode([]rune(s)) {
		w.Uint16(u)
	}
	w.Uint16(0)
}

// Pad writes zero bytes until the position is a multiple of align.
func (w *Writer) Pad(align int) {
	if w.err != nil || align <= 1 {
		return
	}
	for w.buf.Len()%align != 0 {
		w.buf.B = append(w.buf.B, 0)
	}
}

// Zero writes n zero bytes.
func (w *Writer) Zero(n int) {
	if w.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		w.buf.B = append(w.buf.B, 0)
	}
}

// Reserve emits a zeroed slot of the given width at the current position and
// records it under key for a later Fill. Reusing a live key is an error.
func (w *Writer) Reserve(key string, width int) {
	if w.err != nil {
		return
	}
	if _, exists := w.reserved[key]; exists {
		w.err = fmt.Errorf("%w: key %q already reserved", errs.ErrReservation, key)
		return
	}
	w.reserved[key] = reservation{pos: w.buf.Len(), width: width}
	w.Zero(width)
}

// ReserveOffset reserves one offset-width slot.
func (w *Writer) ReserveOffset(key string, long bool) {
	if long {
		w.Reserve(key, 8)
		return
	}
	w.Reserve(key, 4)
}

// Fill patches the slot reserved under key with v and releases the key.
func (w *Writer) Fill(key string, v uint64) {
	if w.err != nil {
		return
	}
	res, ok := w.reserved[key]
	if !ok {
		w.err = fmt.Errorf("%w: key %q was never reserved", errs.ErrReservation, key)
		return
	}
	delete(w.reserved, key)

	dst := w.buf.B[res.pos : res.pos+res.width]
	switch res.width {
	case 4:
		if v > math.MaxUint32 {
			w.err = fmt.Errorf("%w: value 0x%x does not fit key %q", errs.ErrReservation, v, key)
			return
		}
		w.engine.PutUint32(dst, uint32(v))
	case 8:
		w.engine.PutUint64(dst, v)
	default:
		w.err = fmt.Errorf("%w: key %q has width %d", errs.ErrReservation, key, res.width)
	}
}

// FillOffset patches an offset-width slot reserved with ReserveOffset.
func (w *Writer) FillOffset(key string, v int64) {
	w.Fill(key, uint64(v))
}
