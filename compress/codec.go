package compress

import (
	"fmt"

	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

// Compressor compresses a whole container payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a whole container payload.
//
// Implementations must be safe for concurrent use; the built-in codecs are
// stateless values with pooled internals.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// The input must be a complete payload produced by the matching
	// Compressor. Corrupted or mismatched data returns an error.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the specified
// compression type. The target string names the caller's context for error
// messages.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZlib:
		return NewZlibCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZlib: NewZlibCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}
