package param

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

const testTag = "FAKE_PARAM_ST"

// fake entry layout: name offset, subtype, ordinal, value, then the name
// string, padded.

func decodeFake(r *cursor.Reader, f format.Format) (*fakeEntry, error) {
	start := r.Pos()
	e := &fakeEntry{}

	nameOff := r.Offset(f.LongOffsets)
	e.subtype = r.Uint32()
	e.ordinal = r.Int32()
	e.value = r.Uint32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	r.Seek(start + nameOff)
	e.name = r.StringZ(f.WideNames)

	return e, r.Err()
}

func encodeFake(w *cursor.Writer, f format.Format, e *fakeEntry, ordinal int32) error {
	start := w.Pos()
	k := fmt.Sprintf("fake@%d", start)

	w.ReserveOffset(k+":name", f.LongOffsets)
	w.Uint32(e.subtype)
	w.Int32(ordinal)
	w.Uint32(e.value)

	w.FillOffset(k+":name", w.Pos()-start)
	w.StringZ(e.name, f.WideNames)
	w.Pad(f.Align)

	return w.Err()
}

func writeTestParam(t *testing.T, f format.Format, p *Param[*fakeEntry]) []byte {
	t.Helper()

	w := cursor.NewWriter(f.Engine())
	defer w.Release()

	require.NoError(t, p.Write(w, f, encodeFake))
	w.FillOffset(p.NextKey(), 0)

	data, err := w.Bytes()
	require.NoError(t, err)

	return data
}

func TestParamRoundTrip(t *testing.T) {
	formats := []format.Format{format.DarkSouls, format.DemonsSouls, format.Bloodborne}

	for _, f := range formats {
		t.Run(f.Name, func(t *testing.T) {
			p := &Param[*fakeEntry]{
				Tag:     testTag,
				Version: 3,
				Entries: []*fakeEntry{
					{name: "first", subtype: 1, value: 10},
					{name: "second", subtype: 1, value: 20},
					{name: "third", subtype: 2, value: 30},
				},
			}
			data := writeTestParam(t, f, p)

			r := cursor.NewReader(data, f.Engine())
			got, next, err := Read(r, f, testTag, decodeFake)
			require.NoError(t, err)
			require.Zero(t, next)
			require.Len(t, got.Entries, 3)
			if f.HasVersions {
				require.Equal(t, int32(3), got.Version)
			}
			for i, e := range got.Entries {
				require.Equal(t, p.Entries[i].name, e.name)
				require.Equal(t, p.Entries[i].subtype, e.subtype)
				require.Equal(t, p.Entries[i].value, e.value)
			}
		})
	}
}

func TestParamOffsetTableShape(t *testing.T) {
	f := format.DarkSouls
	p := &Param[*fakeEntry]{
		Tag: testTag,
		Entries: []*fakeEntry{
			{name: "a"}, {name: "b"},
		},
	}
	data := writeTestParam(t, f, p)

	r := cursor.NewReader(data, f.Engine())
	r.AssertUint32(0)
	count := r.Int32()
	require.NoError(t, r.Err())

	// n entries serialize n+1 offsets; the extra slot addresses the tag
	// string, not an entry.
	require.Equal(t, int32(3), count)

	offsets := make([]int64, count)
	for i := range offsets {
		offsets[i] = r.Offset(f.LongOffsets)
	}
	next := r.Offset(f.LongOffsets)
	require.NoError(t, r.Err())
	require.Zero(t, next)

	r.Seek(offsets[count-1])
	require.Equal(t, testTag, r.StringZ(f.WideNames))
	require.NoError(t, r.Err())

	// Entry offsets point past the tag string in ascending order.
	require.Greater(t, offsets[0], offsets[count-1])
	require.Greater(t, offsets[1], offsets[0])
}

func TestParamEmpty(t *testing.T) {
	f := format.DarkSouls
	p := &Param[*fakeEntry]{Tag: testTag}
	data := writeTestParam(t, f, p)

	r := cursor.NewReader(data, f.Engine())
	got, next, err := Read(r, f, testTag, decodeFake)
	require.NoError(t, err)
	require.Zero(t, next)
	require.Empty(t, got.Entries)
}

func TestParamTagMismatch(t *testing.T) {
	f := format.DarkSouls
	p := &Param[*fakeEntry]{Tag: "OTHER_PARAM_ST", Entries: []*fakeEntry{{name: "a"}}}
	data := writeTestParam(t, f, p)

	r := cursor.NewReader(data, f.Engine())
	_, _, err := Read(r, f, testTag, decodeFake)
	require.ErrorIs(t, err, errs.ErrParamTag)
	require.Contains(t, err.Error(), "OTHER_PARAM_ST")
}

func TestParamBadCount(t *testing.T) {
	f := format.DarkSouls

	w := cursor.NewWriter(f.Engine())
	defer w.Release()
	w.Uint32(0)
	w.Int32(0) // a frame always has at least the tag slot

	data, err := w.Bytes()
	require.NoError(t, err)

	r := cursor.NewReader(data, f.Engine())
	_, _, err = Read(r, f, testTag, decodeFake)
	require.ErrorIs(t, err, errs.ErrUnexpectedValue)
}

func TestParamOversizedCount(t *testing.T) {
	f := format.DarkSouls

	tests := []struct {
		name  string
		count int32
	}{
		// A little-endian count read with the wrong byte order looks like
		// this; it must be rejected before the offset table is allocated.
		{"byte-swapped", 0x30000000},
		{"max", 0x7FFFFFFF},
		{"off by one", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := cursor.NewWriter(f.Engine())
			defer w.Release()
			w.Uint32(0)
			w.Int32(tt.count)
			// Room for two offset words, not count+1 of them.
			w.Uint32(0)
			w.Uint32(0)

			data, err := w.Bytes()
			require.NoError(t, err)

			r := cursor.NewReader(data, f.Engine())
			_, _, err = Read(r, f, testTag, decodeFake)
			require.ErrorIs(t, err, errs.ErrUnexpectedValue)
			require.Contains(t, err.Error(), "exceeds remaining input")
		})
	}
}

func TestParamOrdinalsResetPerSubtype(t *testing.T) {
	f := format.DarkSouls
	p := &Param[*fakeEntry]{
		Tag: testTag,
		Entries: []*fakeEntry{
			{name: "a", subtype: 1},
			{name: "b", subtype: 1},
			{name: "c", subtype: 2},
			{name: "d", subtype: 2},
			{name: "e", subtype: 2},
			{name: "f", subtype: 1},
		},
	}
	data := writeTestParam(t, f, p)

	r := cursor.NewReader(data, f.Engine())
	got, _, err := Read(r, f, testTag, decodeFake)
	require.NoError(t, err)

	ordinals := make([]int32, len(got.Entries))
	for i, e := range got.Entries {
		ordinals[i] = e.ordinal
	}
	// The ordinal counts within a run of equal subtypes and restarts when
	// the subtype changes, even back to one seen before.
	require.Equal(t, []int32{0, 1, 0, 1, 2, 0}, ordinals)
}
