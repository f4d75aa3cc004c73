package document

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
	"github.com/mapstudio/msb/param"
)

// RegionType is the region shape subtype.
type RegionType uint32

const (
	RegionPoint  RegionType = 0
	RegionSphere RegionType = 2
	RegionBox    RegionType = 5
)

// Region is one placed volume or point that events and parts target by
// name. Concrete shapes implement the interface.
type Region interface {
	param.Entry
	common() *RegionCommon
	hasShapeData() bool
	readShapeData(r *cursor.Reader) error
	writeShapeData(w *cursor.Writer) error
}

// RegionCommon holds the fields every region shape shares.
type RegionCommon struct {
	name string

	Position Vec3
	Rotation Vec3
	EntityID int32
}

func (c *RegionCommon) Name() string        { return c.name }
func (c *RegionCommon) SetName(name string) { c.name = name }
func (c *RegionCommon) common() *RegionCommon {
	return c
}

// Point is a zero-volume region; it carries no shape data block.
type Point struct {
	RegionCommon
}

func (*Point) Subtype() uint32                     { return uint32(RegionPoint) }
func (*Point) hasShapeData() bool                  { return false }
func (*Point) readShapeData(*cursor.Reader) error  { return nil }
func (*Point) writeShapeData(*cursor.Writer) error { return nil }

// Sphere is a spherical region.
type Sphere struct {
	RegionCommon

	Radius float32
}

func (*Sphere) Subtype() uint32    { return uint32(RegionSphere) }
func (*Sphere) hasShapeData() bool { return true }

func (s *Sphere) readShapeData(r *cursor.Reader) error {
	s.Radius = r.Float32()
	return r.Err()
}

func (s *Sphere) writeShapeData(w *cursor.Writer) error {
	w.Float32(s.Radius)
	return w.Err()
}

// Box is an axis-aligned box region, rotated by the common rotation.
type Box struct {
	RegionCommon

	Width  float32
	Height float32
	Depth  float32
}

func (*Box) Subtype() uint32    { return uint32(RegionBox) }
func (*Box) hasShapeData() bool { return true }

func (b *Box) readShapeData(r *cursor.Reader) error {
	b.Width = r.Float32()
	b.Height = r.Float32()
	b.Depth = r.Float32()

	return r.Err()
}

func (b *Box) writeShapeData(w *cursor.Writer) error {
	w.Float32(b.Width)
	w.Float32(b.Height)
	w.Float32(b.Depth)

	return w.Err()
}

// NewPoint creates a point region.
func NewPoint(name string, pos Vec3) *Point {
	p := &Point{}
	p.name = name
	p.Position = pos

	return p
}

// NewSphere creates a sphere region.
func NewSphere(name string, pos Vec3, radius float32) *Sphere {
	s := &Sphere{Radius: radius}
	s.name = name
	s.Position = pos

	return s
}

// NewBox creates a box region.
func NewBox(name string, pos Vec3, w, h, d float32) *Box {
	b := &Box{Width: w, Height: h, Depth: d}
	b.name = name
	b.Position = pos

	return b
}

// Wire layout, offsets relative to the entry start:
//
//	name offset, subtype ordinal, shape type, position, rotation,
//	shape data offset (literal 0 for points), entity ID,
//	then the name string and the shape data block, padded.

func decodeRegion(r *cursor.Reader, f format.Format) (Region, error) {
	start := r.Pos()

	nameOff := r.Offset(f.LongOffsets)
	r.Int32() // subtype ordinal, recomputed on write
	subtype := RegionType(r.Uint32())
	pos := readVec3(r)
	rot := readVec3(r)
	shapeOff := r.Offset(f.LongOffsets)
	entityID := r.Int32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	var reg Region
	switch subtype {
	case RegionPoint:
		reg = &Point{}
	case RegionSphere:
		reg = &Sphere{}
	case RegionBox:
		reg = &Box{}
	default:
		return nil, fmt.Errorf("%w: region subtype %d", errs.ErrUnknownSubtype, subtype)
	}

	c := reg.common()
	c.Position = pos
	c.Rotation = rot
	c.EntityID = entityID

	r.Seek(start + nameOff)
	c.name = r.StringZ(f.WideNames)

	if (shapeOff == 0) == reg.hasShapeData() {
		return nil, fmt.Errorf("%w: region subtype %d with shape offset 0x%x", errs.ErrUnexpectedValue, subtype, shapeOff)
	}
	if shapeOff != 0 {
		r.Seek(start + shapeOff)
		if err := reg.readShapeData(r); err != nil {
			return nil, err
		}
	}

	return reg, r.Err()
}

func encodeRegion(w *cursor.Writer, f format.Format, reg Region, ordinal int32) error {
	start := w.Pos()
	k := fmt.Sprintf("region@%d", start)
	c := reg.common()

	w.ReserveOffset(k+":name", f.LongOffsets)
	w.Int32(ordinal)
	w.Uint32(reg.Subtype())
	writeVec3(w, c.Position)
	writeVec3(w, c.Rotation)
	w.ReserveOffset(k+":shape", f.LongOffsets)
	w.Int32(c.EntityID)

	w.FillOffset(k+":name", w.Pos()-start)
	w.StringZ(c.name, f.WideNames)
	w.Pad(4)

	if reg.hasShapeData() {
		w.FillOffset(k+":shape", w.Pos()-start)
		if err := reg.writeShapeData(w); err != nil {
			return err
		}
	} else {
		w.FillOffset(k+":shape", 0)
	}
	w.Pad(f.Align)

	return w.Err()
}
