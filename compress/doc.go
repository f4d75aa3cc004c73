// Package compress provides the payload codecs used by DCX-wrapped map
// containers: zlib (the classic archive codec), Zstandard, LZ4 block
// compression, and a pass-through no-op.
//
// All codecs operate on whole payloads. Map containers are small enough
// (tens of KB to a few MB) that streaming buys nothing, so the interface is
// a simple []byte in, []byte out pair with pooled encoder state behind it.
package compress
