// Package msb reads and writes the MSB map layout container family used by
// the souls-like games: section-framed binary files describing everything
// placed in one map (model declarations, parts, trigger regions, scripted
// events, routes).
//
// On disk, entries reference each other by table index. In memory they
// reference each other by name: the decoder resolves every index to the
// referenced entry's name, and the encoder resolves the names back to
// indices. Entries can therefore be added, removed, and reordered freely
// between decode and encode.
//
// # Basic Usage
//
// Reading a map container:
//
//	import "github.com/mapstudio/msb"
//
//	data, _ := os.ReadFile("m10_00_00_00.msb")
//	doc, err := msb.Read(data, format.DarkSouls)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range doc.Parts {
//	    fmt.Println(p.Name())
//	}
//
// Compressed archives are unwrapped automatically; Read accepts both raw
// containers and DCX-wrapped ones.
//
// Writing it back:
//
//	out, err := doc.Bytes()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the document
// package. For fine-grained control (entry construction, portable YAML
// form, compression), use the document, portable, and dcx packages
// directly.
package msb

import (
	"fmt"

	"github.com/mapstudio/msb/dcx"
	"github.com/mapstudio/msb/document"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

// Read decodes a map container in the given format. DCX-wrapped data is
// decompressed first.
func Read(data []byte, f format.Format) (*document.Document, error) {
	if dcx.Is(data) {
		raw, err := dcx.Decompress(data)
		if err != nil {
			return nil, err
		}
		data = raw
	}

	return document.Read(data, f)
}

// Detect decodes a map container without knowing its format, trying every
// supported preset in release order. DCX-wrapped data is decompressed
// first. Returns the document decoded by the first preset that accepts the
// data.
func Detect(data []byte) (*document.Document, error) {
	if dcx.Is(data) {
		raw, err := dcx.Decompress(data)
		if err != nil {
			return nil, err
		}
		data = raw
	}

	var firstErr error
	for _, f := range format.Formats {
		doc, err := document.Read(data, f)
		if err == nil {
			return doc, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, fmt.Errorf("%w: no supported format accepts the data: %v", errs.ErrInvalidContainer, firstErr)
}

// Write encodes a document as a raw map container.
func Write(d *document.Document) ([]byte, error) {
	return d.Bytes()
}

// WriteCompressed encodes a document and wraps it in a DCX container using
// the given codec.
func WriteCompressed(d *document.Document, typ format.CompressionType) ([]byte, error) {
	raw, err := d.Bytes()
	if err != nil {
		return nil, err
	}

	return dcx.Compress(raw, typ)
}

// New creates an empty document for the given format.
func New(f format.Format) *document.Document {
	return document.New(f)
}
