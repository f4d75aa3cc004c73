package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibWriterPool pools zlib writers for reuse; Reset makes them cheap to
// recycle between payloads.
var zlibWriterPool = sync.Pool{
	New: func() any {
		w, err := zlib.NewWriterLevel(io.Discard, zlib.BestCompression)
		if err != nil {
			// BestCompression is a valid level, this cannot happen.
			panic(fmt.Sprintf("failed to create zlib writer for pool: %v", err))
		}
		return w
	},
}

// ZlibCompressor provides zlib/deflate compression, the codec of classic
// DCX archives. Original archives use the maximum deflate level, so this
// codec does too.
type ZlibCompressor struct{}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a new zlib compressor.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{}
}

// Compress compresses the input data as a zlib stream.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, _ := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a zlib stream.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return decompressed, nil
}
