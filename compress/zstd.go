package compress

// ZstdCompressor provides Zstandard compression as used by later-era
// archives. Two implementations exist behind build tags: a cgo binding to
// libzstd when cgo is available, and a pure Go fallback otherwise. Both
// produce standard zstd frames and decode each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
