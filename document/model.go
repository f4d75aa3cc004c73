package document

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/format"
)

// ModelType is the model entry subtype.
type ModelType uint32

const (
	ModelMapPiece  ModelType = 0
	ModelObject    ModelType = 1
	ModelEnemy     ModelType = 2
	ModelPlayer    ModelType = 4
	ModelCollision ModelType = 5
)

// Model declares one renderable or collidable asset that part entries
// instantiate by name. All model subtypes share a single layout.
type Model struct {
	name string

	Type ModelType
	// SibPath is the editor placement file path baked into the entry.
	SibPath string
	// InstanceCount is the number of parts expected to use this model.
	InstanceCount int32
}

func (m *Model) Name() string        { return m.name }
func (m *Model) SetName(name string) { m.name = name }
func (m *Model) Subtype() uint32     { return uint32(m.Type) }

// NewModel creates a model entry.
func NewModel(name string, typ ModelType, sibPath string) *Model {
	return &Model{name: name, Type: typ, SibPath: sibPath}
}

// Wire layout, offsets relative to the entry start:
//
//	name offset, type, subtype ordinal, sib offset, instance count,
//	12 reserved zero bytes, then the name and sib strings, padded.

func decodeModel(r *cursor.Reader, f format.Format) (*Model, error) {
	start := r.Pos()
	m := &Model{}

	nameOff := r.Offset(f.LongOffsets)
	m.Type = ModelType(r.Uint32())
	r.Int32() // subtype ordinal, recomputed on write
	sibOff := r.Offset(f.LongOffsets)
	m.InstanceCount = r.Int32()
	r.AssertUint32(0)
	r.AssertUint32(0)
	r.AssertUint32(0)
	if err := r.Err(); err != nil {
		return nil, err
	}

	r.Seek(start + nameOff)
	m.name = r.StringZ(f.WideNames)
	r.Seek(start + sibOff)
	m.SibPath = r.StringZ(f.WideNames)

	return m, r.Err()
}

func encodeModel(w *cursor.Writer, f format.Format, m *Model, ordinal int32) error {
	start := w.Pos()
	k := fmt.Sprintf("model@%d", start)

	w.ReserveOffset(k+":name", f.LongOffsets)
	w.Uint32(uint32(m.Type))
	w.Int32(ordinal)
	w.ReserveOffset(k+":sib", f.LongOffsets)
	w.Int32(m.InstanceCount)
	w.Zero(12)

	w.FillOffset(k+":name", w.Pos()-start)
	w.StringZ(m.name, f.WideNames)
	w.FillOffset(k+":sib", w.Pos()-start)
	w.StringZ(m.SibPath, f.WideNames)
	w.Pad(f.Align)

	return w.Err()
}
