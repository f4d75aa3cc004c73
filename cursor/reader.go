// Package cursor implements the seekable binary cursor the msb codec reads
// and writes through.
//
// Both Reader and Writer are sticky-error cursors: the first failure (out of
// range seek, failed assertion, reservation misuse) latches and every
// subsequent operation becomes a no-op returning zero values. Callers check
// Err at protocol boundaries instead of after every primitive read, which
// keeps entry codecs flat without losing the fail-fast behavior offset-table
// formats require.
//
// The Writer adds a deferred-offset mechanism: Reserve records a named slot
// at the current position, and Fill patches it later once the value (almost
// always a future position) is known. Bytes refuses to produce output while
// any reservation is unfilled.
package cursor

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/mapstudio/msb/endian"
	"github.com/mapstudio/msb/errs"
)

// Reader is a sticky-error cursor over an in-memory buffer.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	data   []byte
	engine endian.EndianEngine
	pos    int
	err    error
}

// NewReader creates a Reader over data using the given byte order.
func NewReader(data []byte, engine endian.EndianEngine) *Reader {
	return &Reader{data: data, engine: engine}
}

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return int64(r.pos)
}

// Len returns the total buffer length.
func (r *Reader) Len() int64 {
	return int64(len(r.data))
}

// Seek moves the cursor to the absolute offset off.
func (r *Reader) Seek(off int64) {
	if r.err != nil {
		return
	}
	if off < 0 || off > int64(len(r.data)) {
		r.err = fmt.Errorf("%w: seek to %d in %d bytes", errs.ErrOffsetOutOfRange, off, len(r.data))
		return
	}
	r.pos = int(off)
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) {
	r.Seek(int64(r.pos) + n)
}

// take returns the next n bytes and advances, or latches an error.
func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("%w: read %d bytes at %d in %d bytes", errs.ErrOffsetOutOfRange, n, r.pos, len(r.data))
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b
}

// Bytes reads n raw bytes. The returned slice is a copy.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}

	return r.engine.Uint16(b)
}

func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}

	return r.engine.Uint64(b)
}

func (r *Reader) Int64() int64 {
	return int64(r.Uint64())
}

func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

// Offset reads one offset field: uint32 when long is false, uint64 when true.
// Offsets are positions in a bounded in-memory file, so a value above
// MaxInt64 is malformed.
func (r *Reader) Offset(long bool) int64 {
	if !long {
		return int64(r.Uint32())
	}

	v := r.Uint64()
	if v > math.MaxInt64 {
		if r.err == nil {
			r.err = fmt.Errorf("%w: offset 0x%x", errs.ErrOffsetOutOfRange, v)
		}

		return 0
	}

	return int64(v)
}

// AssertUint8 reads one byte and latches an error unless it equals want.
func (r *Reader) AssertUint8(want uint8) {
	got := r.Uint8()
	if r.err == nil && got != want {
		r.err = fmt.Errorf("%w: byte 0x%02x at %d, want 0x%02x", errs.ErrUnexpectedValue, got, r.pos-1, want)
	}
}

// AssertUint32 reads a uint32 and latches an error unless it equals want.
func (r *Reader) AssertUint32(want uint32) {
	got := r.Uint32()
	if r.err == nil && got != want {
		r.err = fmt.Errorf("%w: word 0x%08x at %d, want 0x%08x", errs.ErrUnexpectedValue, got, r.pos-4, want)
	}
}

// AssertMagic reads len(want) bytes and latches an error unless they match.
func (r *Reader) AssertMagic(want []byte) {
	got := r.take(len(want))
	if r.err == nil && !bytes.Equal(got, want) {
		r.err = fmt.Errorf("%w: %q, want %q", errs.ErrInvalidMagic, got, want)
	}
}

// StringZ reads a null-terminated string from the current position: raw
// 8-bit bytes when wide is false, UTF-16 code units in the cursor's byte
// order when wide is true.
func (r *Reader) StringZ(wide bool) string {
	if r.err != nil {
		return ""
	}

	if !wide {
		end := bytes.IndexByte(r.data[r.pos:], 0)
		if end < 0 {
			r.err = fmt.Errorf("%w: unterminated string at %d", errs.ErrOffsetOutOfRange, r.pos)
			return ""
		}
		s := string(r.data[r.pos : r.pos+end])
		r.pos += end + 1

		return s
	}

	var units []uint16
	for {
		u := r.Uint16()
		if r.err != nil {
			return ""
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}

	return string(utf16.Decode(units))
}
