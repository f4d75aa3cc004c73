// Package format describes the per-game parameters of the MSB container
// family and the compression types used by the DCX wrapper.
//
// The section framing protocol is the same across every supported game; what
// varies is a small set of structural knobs: offset width, name string
// encoding, alignment, byte order, and the presence of a fixed header, a
// routes section, and per-section version words. A Format value captures all
// of them so the cursor, framer, and orchestrator never branch on game names.
package format

import "github.com/mapstudio/msb/endian"

// CompressionType identifies the codec of a DCX-wrapped container.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents an uncompressed payload.
	CompressionZlib CompressionType = 0x2 // CompressionZlib represents zlib/deflate compression (the classic DCX codec).
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents Zstandard compression (later-era archives).
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression (community variant).
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Format is the structural parameter set of one MSB variant.
type Format struct {
	// Name identifies the variant in diagnostics.
	Name string
	// LongOffsets selects 64-bit offset fields; false means 32-bit offsets.
	LongOffsets bool
	// WideNames selects UTF-16 name strings; false means 8-bit strings.
	WideNames bool
	// BigEndian selects big-endian byte order for every multi-byte field.
	BigEndian bool
	// HasHeader indicates the file starts with the fixed "MSB " header.
	HasHeader bool
	// HasRoutes indicates the file carries a ROUTE_PARAM_ST section between
	// regions and parts.
	HasRoutes bool
	// HasVersions indicates each section header starts with a version word.
	HasVersions bool
	// Align is the alignment of strings and entry bodies, 4 or 8 bytes.
	Align int
}

// Engine returns the endian engine matching the variant's byte order.
func (f Format) Engine() endian.EndianEngine {
	if f.BigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// OffsetSize returns the serialized width of an offset field in bytes.
func (f Format) OffsetSize() int {
	if f.LongOffsets {
		return 8
	}

	return 4
}

// Supported format presets. The names follow the first game each layout
// shipped with; later games reusing a layout use the same preset.
var (
	// DarkSouls is the 32-bit little-endian layout: no file header, no routes
	// section, 8-bit strings, 4-byte alignment.
	DarkSouls = Format{
		Name:  "DarkSouls",
		Align: 4,
	}

	// DemonsSouls is the DarkSouls layout in big-endian byte order.
	DemonsSouls = Format{
		Name:      "DemonsSouls",
		BigEndian: true,
		Align:     4,
	}

	// Bloodborne is the 64-bit layout: fixed file header, routes section,
	// per-section version words, UTF-16 strings, 8-byte alignment.
	Bloodborne = Format{
		Name:        "Bloodborne",
		LongOffsets: true,
		WideNames:   true,
		HasHeader:   true,
		HasRoutes:   true,
		HasVersions: true,
		Align:       8,
	}
)

// Formats lists every supported preset, in release order.
var Formats = []Format{DemonsSouls, DarkSouls, Bloodborne}
