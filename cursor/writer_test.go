package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/endian"
	"github.com/mapstudio/msb/errs"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w := NewWriter(endian.GetLittleEndianEngine())
	t.Cleanup(w.Release)

	return w
}

func TestWriterPrimitives(t *testing.T) {
	w := newTestWriter(t)

	w.Uint8(0x01)
	w.Uint16(0x0302)
	w.Uint32(0x07060504)
	w.Uint64(0x0F0E0D0C0B0A0908)
	w.Raw([]byte{0xAA})

	data, err := w.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
		0xAA,
	}, data)
	require.Equal(t, int64(16), w.Pos())
}

func TestWriterReadBack(t *testing.T) {
	engines := map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(engine)
			defer w.Release()

			w.Int32(-5)
			w.Float32(1.25)
			w.Int16(-2)
			w.Int64(1 << 40)
			w.StringZ("souls", false)
			w.StringZ("ソウル", true)
			w.Offset(0x1234, false)
			w.Offset(0x56789A, true)

			data, err := w.Bytes()
			require.NoError(t, err)

			r := NewReader(data, engine)
			require.Equal(t, int32(-5), r.Int32())
			require.Equal(t, float32(1.25), r.Float32())
			require.Equal(t, int16(-2), r.Int16())
			require.Equal(t, int64(1<<40), r.Int64())
			require.Equal(t, "souls", r.StringZ(false))
			require.Equal(t, "ソウル", r.StringZ(true))
			require.Equal(t, int64(0x1234), r.Offset(false))
			require.Equal(t, int64(0x56789A), r.Offset(true))
			require.NoError(t, r.Err())
		})
	}
}

func TestWriterPad(t *testing.T) {
	w := newTestWriter(t)

	w.Uint8(1)
	w.Pad(4)
	require.Equal(t, int64(4), w.Pos())

	w.Pad(4) // already aligned, no-op
	require.Equal(t, int64(4), w.Pos())

	w.Uint8(2)
	w.Pad(8)
	require.Equal(t, int64(8), w.Pos())

	data, err := w.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, data)
}

func TestWriterZero(t *testing.T) {
	w := newTestWriter(t)
	w.Zero(3)

	data, err := w.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0}, data)
}

func TestWriterStringZRejectsNUL(t *testing.T) {
	w := newTestWriter(t)
	w.StringZ("bad\x00name", false)
	require.ErrorIs(t, w.Err(), errs.ErrInvalidEntryName)
}

func TestWriterOffsetOverflow(t *testing.T) {
	w := newTestWriter(t)
	w.Offset(1<<40, false)
	require.ErrorIs(t, w.Err(), errs.ErrOffsetOutOfRange)
}

func TestWriterReservations(t *testing.T) {
	w := newTestWriter(t)

	w.Reserve("hdr", 4)
	w.Uint32(0xDEADBEEF)
	w.Fill("hdr", uint64(w.Pos()))

	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data, endian.GetLittleEndianEngine())
	require.Equal(t, uint32(8), r.Uint32())
	require.Equal(t, uint32(0xDEADBEEF), r.Uint32())
}

func TestWriterReservationLongOffsets(t *testing.T) {
	w := newTestWriter(t)

	w.ReserveOffset("a", true)
	w.ReserveOffset("b", false)
	w.FillOffset("a", 0x1_0000_0001)
	w.FillOffset("b", 0x42)

	data, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(data, endian.GetLittleEndianEngine())
	require.Equal(t, int64(0x1_0000_0001), r.Offset(true))
	require.Equal(t, int64(0x42), r.Offset(false))
}

func TestWriterReservationMisuse(t *testing.T) {
	t.Run("bytes with unfilled reservation", func(t *testing.T) {
		w := newTestWriter(t)
		w.Reserve("never", 4)

		_, err := w.Bytes()
		require.ErrorIs(t, err, errs.ErrUnfilledReservation)
		require.Contains(t, err.Error(), "never")
	})

	t.Run("duplicate key", func(t *testing.T) {
		w := newTestWriter(t)
		w.Reserve("dup", 4)
		w.Reserve("dup", 4)
		require.ErrorIs(t, w.Err(), errs.ErrReservation)
	})

	t.Run("fill unknown key", func(t *testing.T) {
		w := newTestWriter(t)
		w.Fill("ghost", 1)
		require.ErrorIs(t, w.Err(), errs.ErrReservation)
	})

	t.Run("fill 32-bit slot with wide value", func(t *testing.T) {
		w := newTestWriter(t)
		w.Reserve("small", 4)
		w.Fill("small", 1<<40)
		require.ErrorIs(t, w.Err(), errs.ErrReservation)
	})

	t.Run("double fill", func(t *testing.T) {
		w := newTestWriter(t)
		w.Reserve("once", 4)
		w.Fill("once", 1)
		w.Fill("once", 2)
		require.ErrorIs(t, w.Err(), errs.ErrReservation)
	})
}

func TestWriterStickyError(t *testing.T) {
	w := newTestWriter(t)

	w.Fill("ghost", 1)
	first := w.Err()
	require.Error(t, first)

	w.Uint32(1)
	w.StringZ("x", false)
	require.Zero(t, w.Pos())

	_, err := w.Bytes()
	require.Equal(t, first, err)
}
