package compress

// NoOpCompressor bypasses data without compression. DCX archives with the
// "NONE" codec tag carry their payload verbatim; this codec serves them.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor that bypasses data.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is without copying. The result shares
// the input's underlying memory.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is without copying. The result
// shares the input's underlying memory.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
