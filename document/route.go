package document

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/format"
)

// Route is one entry of the routes section carried by 64-bit variants. The
// two value words have no known meaning and are round-tripped verbatim.
type Route struct {
	name string

	Unk08 int32
	Unk0C int32
}

func (rt *Route) Name() string        { return rt.name }
func (rt *Route) SetName(name string) { rt.name = name }
func (rt *Route) Subtype() uint32     { return 0 }

// NewRoute creates a route entry.
func NewRoute(name string) *Route {
	return &Route{name: name}
}

func decodeRoute(r *cursor.Reader, f format.Format) (*Route, error) {
	start := r.Pos()
	rt := &Route{}

	nameOff := r.Offset(f.LongOffsets)
	rt.Unk08 = r.Int32()
	rt.Unk0C = r.Int32()
	r.AssertUint32(0) // subtype, single known kind
	r.Int32()         // subtype ordinal, recomputed on write
	if err := r.Err(); err != nil {
		return nil, err
	}

	r.Seek(start + nameOff)
	rt.name = r.StringZ(f.WideNames)

	return rt, r.Err()
}

func encodeRoute(w *cursor.Writer, f format.Format, rt *Route, ordinal int32) error {
	start := w.Pos()
	k := fmt.Sprintf("route@%d", start)

	w.ReserveOffset(k+":name", f.LongOffsets)
	w.Int32(rt.Unk08)
	w.Int32(rt.Unk0C)
	w.Uint32(0)
	w.Int32(ordinal)

	w.FillOffset(k+":name", w.Pos()-start)
	w.StringZ(rt.name, f.WideNames)
	w.Pad(f.Align)

	return w.Err()
}
