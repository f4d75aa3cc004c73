package param

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/errs"
)

func TestLookup(t *testing.T) {
	c := Collect(entriesOf("Floor", "Door", "door handle"))

	tests := []struct {
		name      string
		query     string
		wantIndex int
		wantKind  RefKind
	}{
		{"exact match", "Door", 1, RefResolved},
		{"blank is absent", "", -1, RefAbsent},
		{"case-insensitive fallback", "DOOR", 1, RefResolved},
		{"fallback with spaces", "Door Handle", 2, RefResolved},
		{"no match", "window", -1, RefMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, kind := c.Lookup(tt.query)
			require.Equal(t, tt.wantKind, kind)
			require.Equal(t, tt.wantIndex, i)
		})
	}
}

func TestLookupDuplicateKeepsLast(t *testing.T) {
	c := Collect(entriesOf("x", "dup", "dup"))

	i, kind := c.Lookup("dup")
	require.Equal(t, RefResolved, kind)
	require.Equal(t, 2, i)

	// The fallback mirrors the exact map's last-wins behavior.
	i, kind = c.Lookup("DUP")
	require.Equal(t, RefResolved, kind)
	require.Equal(t, 2, i)
}

func TestIndexOf(t *testing.T) {
	c := Collect(entriesOf("a", "b"))

	i, err := c.IndexOf("owner", "b")
	require.NoError(t, err)
	require.Equal(t, int32(1), i)

	i, err = c.IndexOf("owner", "")
	require.NoError(t, err)
	require.Equal(t, int32(-1), i)

	_, err = c.IndexOf("the owner", "ghost")
	require.ErrorIs(t, err, errs.ErrMissingReference)
	require.Contains(t, err.Error(), "ghost")
	require.Contains(t, err.Error(), "the owner")
}

func TestIndexOf16Overflow(t *testing.T) {
	entries := make([]*fakeEntry, 0x8001)
	for i := range entries {
		entries[i] = &fakeEntry{name: "e" + strconv.Itoa(i)}
	}
	c := Collect(entries)

	// The last entry's index is 0x8000, one past MaxInt16.
	last := entries[len(entries)-1].name
	i32, err := c.IndexOf("owner", last)
	require.NoError(t, err)
	require.Equal(t, int32(0x8000), i32)

	_, err = c.IndexOf16("owner", last)
	require.ErrorIs(t, err, errs.ErrIndexOverflow)

	// MaxInt16 itself still fits.
	i16, err := c.IndexOf16("owner", entries[0x7FFF].name)
	require.NoError(t, err)
	require.Equal(t, int16(0x7FFF), i16)
}

func TestIndicesOf(t *testing.T) {
	c := Collect(entriesOf("a", "b", "c"))

	got, err := c.IndicesOf("owner", []string{"c", "", "a"})
	require.NoError(t, err)
	require.Equal(t, []int32{2, -1, 0}, got)

	_, err = c.IndicesOf("owner", []string{"a", "ghost"})
	require.ErrorIs(t, err, errs.ErrMissingReference)

	got16, err := c.IndicesOf16("owner", []string{"b", ""})
	require.NoError(t, err)
	require.Equal(t, []int16{1, -1}, got16)
}

func TestNameAt(t *testing.T) {
	c := Collect(entriesOf("a", "b"))

	require.Equal(t, "b", c.NameAt(1))
	require.Equal(t, "", c.NameAt(-1))
	require.Equal(t, "", c.NameAt(99))
	require.Equal(t, "a", c.NameAt16(0))
	require.Equal(t, "", c.NameAt16(-1))

	require.Equal(t, []string{"b", "", "a"}, c.NamesAt([]int32{1, -1, 0}))
	require.Equal(t, []string{"", "a"}, c.NamesAt16([]int16{-1, 0}))
}

func TestCollectionView(t *testing.T) {
	entries := entriesOf("a", "b")
	c := Collect(entries)

	require.Equal(t, 2, c.Len())
	require.Same(t, entries[1], c.At(1))
	require.Equal(t, []string{"a", "b"}, c.Names())
}
