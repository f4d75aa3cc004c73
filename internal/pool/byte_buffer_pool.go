// Package pool provides pooled byte buffers for the encode paths.
//
// A map container encode produces the whole file in one in-memory buffer; the
// DCX wrapper then produces a second one. Both are short-lived and of similar
// size across calls, which is exactly the shape sync.Pool is good at.
package pool

import (
	"io"
	"sync"
)

const (
	// MapBufferDefaultSize is the initial capacity of a pooled buffer. Most
	// map containers land in the tens of kilobytes.
	MapBufferDefaultSize = 1024 * 64
	// MapBufferMaxThreshold is the largest buffer the pool will retain.
	MapBufferMaxThreshold = 1024 * 1024 * 4
)

// ByteBuffer is a growable byte slice with explicit length control.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// ExtendOrGrow extends the buffer by n bytes, growing it if necessary. The
// extension bytes are zeroed only when freshly allocated; callers overwrite
// them unconditionally.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		bb.Grow(n)
	}
	bb.B = bb.B[:curLen+n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer has sufficient capacity, Grow does
// nothing.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := MapBufferDefaultSize
	if cap(bb.B) > 4*MapBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var mapDefaultPool = NewByteBufferPool(MapBufferDefaultSize, MapBufferMaxThreshold)

// GetMapBuffer retrieves a ByteBuffer from the default map pool.
func GetMapBuffer() *ByteBuffer {
	return mapDefaultPool.Get()
}

// PutMapBuffer returns a ByteBuffer to the default map pool.
func PutMapBuffer(bb *ByteBuffer) {
	mapDefaultPool.Put(bb)
}
