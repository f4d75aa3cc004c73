// Package endian provides byte order utilities for the msb binary codec.
//
// MSB containers exist in both byte orders: the PlayStation 3 era formats are
// big-endian while every later variant is little-endian. This package combines
// the standard library's ByteOrder and AppendByteOrder interfaces into a single
// EndianEngine so the cursor can be parameterized on one value.
//
// The returned engines are the binary.LittleEndian / binary.BigEndian values
// from encoding/binary, so they are immutable, stateless, and safe for
// concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian, making it fully
// compatible with existing Go code while providing both read/write and append
// operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
