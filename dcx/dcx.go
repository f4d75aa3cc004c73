// Package dcx reads and writes the compressed wrapper that game archives
// ship map containers in: a small fixed header naming the codec and the
// payload sizes, followed by the compressed payload.
//
// Wrapper layout, header integers big-endian regardless of the wrapped
// container's byte order:
//
//	"DCX\x00" magic, 4-byte codec tag, uint32 uncompressed size,
//	uint32 compressed size, payload.
package dcx

import (
	"encoding/binary"
	"fmt"

	"github.com/mapstudio/msb/compress"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

const (
	magic      = "DCX\x00"
	headerSize = 16
)

// codec tags as they appear on the wire.
var codecTags = map[format.CompressionType]string{
	format.CompressionNone: "NONE",
	format.CompressionZlib: "DFLT",
	format.CompressionZstd: "ZSTD",
	format.CompressionLZ4:  "LZ4\x00",
}

func typeForTag(tag string) (format.CompressionType, bool) {
	for typ, t := range codecTags {
		if t == tag {
			return typ, true
		}
	}

	return 0, false
}

// Is reports whether data starts with the wrapper magic.
func Is(data []byte) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == magic
}

// Compress wraps data in a compressed container using the given codec.
func Compress(data []byte, typ format.CompressionType) ([]byte, error) {
	tag, ok := codecTags[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, typ)
	}
	codec, err := compress.GetCodec(typ)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Compress(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, magic...)
	out = append(out, tag...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)

	return out, nil
}

// Decompress unwraps a compressed container and returns the raw payload.
// The header's sizes are validated against the actual data; a mismatch
// means truncation or corruption and fails the unwrap.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the wrapper header", errs.ErrInvalidContainer, len(data))
	}
	if !Is(data) {
		return nil, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidContainer, data[:4])
	}

	tag := string(data[4:8])
	typ, ok := typeForTag(tag)
	if !ok {
		return nil, fmt.Errorf("%w: codec tag %q", errs.ErrUnsupportedCompression, tag)
	}

	rawSize := binary.BigEndian.Uint32(data[8:12])
	compressedSize := binary.BigEndian.Uint32(data[12:16])
	payload := data[headerSize:]
	if uint32(len(payload)) != compressedSize {
		return nil, fmt.Errorf("%w: header claims %d compressed bytes, found %d",
			errs.ErrInvalidContainer, compressedSize, len(payload))
	}

	codec, err := compress.GetCodec(typ)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", errs.ErrInvalidContainer, typ, err)
	}
	if uint32(len(raw)) != rawSize {
		return nil, fmt.Errorf("%w: header claims %d raw bytes, decompressed to %d",
			errs.ErrInvalidContainer, rawSize, len(raw))
	}

	return raw, nil
}
