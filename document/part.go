package document

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
	"github.com/mapstudio/msb/param"
)

// PartType is the part entry subtype. The numbering mirrors ModelType; a
// part instantiates a model of the matching kind.
type PartType uint32

const (
	PartMapPiece  PartType = 0
	PartObject    PartType = 1
	PartEnemy     PartType = 2
	PartPlayer    PartType = 4
	PartCollision PartType = 5
)

// Part is one placed instance of a model. Concrete subtypes implement the
// interface.
type Part interface {
	param.Entry
	referencer
	common() *PartCommon
	hasTypeData() bool
	readTypeData(r *cursor.Reader) error
	writeTypeData(w *cursor.Writer) error
}

// PartCommon holds the fields every part subtype shares: the instantiated
// model, the editor placement file path, and the world transform.
type PartCommon struct {
	name string

	ModelName string
	SibPath   string
	Position  Vec3
	Rotation  Vec3
	Scale     Vec3
	EntityID  int32

	modelIndex int32
}

func (c *PartCommon) Name() string        { return c.name }
func (c *PartCommon) SetName(name string) { c.name = name }
func (c *PartCommon) common() *PartCommon {
	return c
}

func (c *PartCommon) resolveCommonNames(v *Entries) {
	c.ModelName = v.Models.NameAt(c.modelIndex)
}

func (c *PartCommon) resolveCommonIndices(v *Entries) error {
	var err error
	if c.modelIndex, err = v.Models.IndexOf(c.name, c.ModelName); err != nil {
		return err
	}

	return nil
}

// MapPiece is static level geometry; it carries no typed data block.
type MapPiece struct {
	PartCommon
}

func (*MapPiece) Subtype() uint32                    { return uint32(PartMapPiece) }
func (*MapPiece) hasTypeData() bool                  { return false }
func (*MapPiece) readTypeData(*cursor.Reader) error  { return nil }
func (*MapPiece) writeTypeData(*cursor.Writer) error { return nil }

func (m *MapPiece) resolveNames(v *Entries) {
	m.resolveCommonNames(v)
}

func (m *MapPiece) resolveIndices(v *Entries) error {
	return m.resolveCommonIndices(v)
}

// Object is a dynamic prop, optionally bound to the collision part it rests
// on.
type Object struct {
	PartCommon

	CollisionName string
	AnimID        int32

	collisionIndex int32
}

func (*Object) Subtype() uint32   { return uint32(PartObject) }
func (*Object) hasTypeData() bool { return true }

func (o *Object) readTypeData(r *cursor.Reader) error {
	o.collisionIndex = r.Int32()
	o.AnimID = r.Int32()

	return r.Err()
}

func (o *Object) writeTypeData(w *cursor.Writer) error {
	w.Int32(o.collisionIndex)
	w.Int32(o.AnimID)

	return w.Err()
}

func (o *Object) resolveNames(v *Entries) {
	o.resolveCommonNames(v)
	o.CollisionName = v.Parts.NameAt(o.collisionIndex)
}

func (o *Object) resolveIndices(v *Entries) error {
	if err := o.resolveCommonIndices(v); err != nil {
		return err
	}
	var err error
	if o.collisionIndex, err = v.Parts.IndexOf(o.name, o.CollisionName); err != nil {
		return err
	}

	return nil
}

// Enemy is a placed NPC. Its patrol route references are serialized at
// 16-bit width and preserved at that width exactly.
type Enemy struct {
	PartCommon

	ThinkParamID      int32
	NPCParamID        int32
	TalkID            int32
	CollisionName     string
	PatrolRegionNames [8]string

	collisionIndex      int32
	patrolRegionIndices [8]int16
}

func (*Enemy) Subtype() uint32   { return uint32(PartEnemy) }
func (*Enemy) hasTypeData() bool { return true }

func (e *Enemy) readTypeData(r *cursor.Reader) error {
	e.ThinkParamID = r.Int32()
	e.NPCParamID = r.Int32()
	e.TalkID = r.Int32()
	e.collisionIndex = r.Int32()
	for i := range e.patrolRegionIndices {
		e.patrolRegionIndices[i] = r.Int16()
	}

	return r.Err()
}

func (e *Enemy) writeTypeData(w *cursor.Writer) error {
	w.Int32(e.ThinkParamID)
	w.Int32(e.NPCParamID)
	w.Int32(e.TalkID)
	w.Int32(e.collisionIndex)
	for _, idx := range e.patrolRegionIndices {
		w.Int16(idx)
	}

	return w.Err()
}

func (e *Enemy) resolveNames(v *Entries) {
	e.resolveCommonNames(v)
	e.CollisionName = v.Parts.NameAt(e.collisionIndex)
	copy(e.PatrolRegionNames[:], v.Regions.NamesAt16(e.patrolRegionIndices[:]))
}

func (e *Enemy) resolveIndices(v *Entries) error {
	if err := e.resolveCommonIndices(v); err != nil {
		return err
	}
	var err error
	if e.collisionIndex, err = v.Parts.IndexOf(e.name, e.CollisionName); err != nil {
		return err
	}
	regions, err := v.Regions.IndicesOf16(e.name, e.PatrolRegionNames[:])
	if err != nil {
		return err
	}
	copy(e.patrolRegionIndices[:], regions)

	return nil
}

// Player is a spawn point; it carries no typed data block.
type Player struct {
	PartCommon
}

func (*Player) Subtype() uint32                    { return uint32(PartPlayer) }
func (*Player) hasTypeData() bool                  { return false }
func (*Player) readTypeData(*cursor.Reader) error  { return nil }
func (*Player) writeTypeData(*cursor.Writer) error { return nil }

func (p *Player) resolveNames(v *Entries) {
	p.resolveCommonNames(v)
}

func (p *Player) resolveIndices(v *Entries) error {
	return p.resolveCommonIndices(v)
}

// Collision is walkable collision geometry, optionally bound to the region
// controlling its environment map.
type Collision struct {
	PartCommon

	HitFilterID      int32
	EnvMapRegionName string

	envMapRegionIndex int32
}

func (*Collision) Subtype() uint32   { return uint32(PartCollision) }
func (*Collision) hasTypeData() bool { return true }

func (c *Collision) readTypeData(r *cursor.Reader) error {
	c.HitFilterID = r.Int32()
	c.envMapRegionIndex = r.Int32()

	return r.Err()
}

func (c *Collision) writeTypeData(w *cursor.Writer) error {
	w.Int32(c.HitFilterID)
	w.Int32(c.envMapRegionIndex)

	return w.Err()
}

func (c *Collision) resolveNames(v *Entries) {
	c.resolveCommonNames(v)
	c.EnvMapRegionName = v.Regions.NameAt(c.envMapRegionIndex)
}

func (c *Collision) resolveIndices(v *Entries) error {
	if err := c.resolveCommonIndices(v); err != nil {
		return err
	}
	var err error
	if c.envMapRegionIndex, err = v.Regions.IndexOf(c.name, c.EnvMapRegionName); err != nil {
		return err
	}

	return nil
}

// NewMapPiece creates a map piece part.
func NewMapPiece(name, model string) *MapPiece {
	p := &MapPiece{}
	p.name = name
	p.ModelName = model
	p.Scale = Vec3{X: 1, Y: 1, Z: 1}

	return p
}

// NewObject creates an object part.
func NewObject(name, model string) *Object {
	o := &Object{}
	o.name = name
	o.ModelName = model
	o.Scale = Vec3{X: 1, Y: 1, Z: 1}

	return o
}

// NewEnemy creates an enemy part.
func NewEnemy(name, model string) *Enemy {
	e := &Enemy{}
	e.name = name
	e.ModelName = model
	e.Scale = Vec3{X: 1, Y: 1, Z: 1}

	return e
}

// NewPlayer creates a player spawn part.
func NewPlayer(name, model string) *Player {
	p := &Player{}
	p.name = name
	p.ModelName = model
	p.Scale = Vec3{X: 1, Y: 1, Z: 1}

	return p
}

// NewCollision creates a collision part.
func NewCollision(name, model string) *Collision {
	c := &Collision{}
	c.name = name
	c.ModelName = model
	c.Scale = Vec3{X: 1, Y: 1, Z: 1}

	return c
}

// Wire layout, offsets relative to the entry start:
//
//	name offset, subtype, subtype ordinal, model index, sib offset,
//	position, rotation, scale, entity ID, type data offset (literal 0
//	when the subtype has no typed block), then the name and sib strings
//	and the typed block, padded.

func decodePart(r *cursor.Reader, f format.Format) (Part, error) {
	start := r.Pos()

	nameOff := r.Offset(f.LongOffsets)
	subtype := PartType(r.Uint32())
	r.Int32() // subtype ordinal, recomputed on write
	modelIndex := r.Int32()
	sibOff := r.Offset(f.LongOffsets)
	pos := readVec3(r)
	rot := readVec3(r)
	scale := readVec3(r)
	entityID := r.Int32()
	typeOff := r.Offset(f.LongOffsets)
	if err := r.Err(); err != nil {
		return nil, err
	}

	var p Part
	switch subtype {
	case PartMapPiece:
		p = &MapPiece{}
	case PartObject:
		p = &Object{}
	case PartEnemy:
		p = &Enemy{}
	case PartPlayer:
		p = &Player{}
	case PartCollision:
		p = &Collision{}
	default:
		return nil, fmt.Errorf("%w: part subtype %d", errs.ErrUnknownSubtype, subtype)
	}

	c := p.common()
	c.modelIndex = modelIndex
	c.Position = pos
	c.Rotation = rot
	c.Scale = scale
	c.EntityID = entityID

	r.Seek(start + nameOff)
	c.name = r.StringZ(f.WideNames)
	r.Seek(start + sibOff)
	c.SibPath = r.StringZ(f.WideNames)

	if (typeOff == 0) == p.hasTypeData() {
		return nil, fmt.Errorf("%w: part subtype %d with type data offset 0x%x", errs.ErrUnexpectedValue, subtype, typeOff)
	}
	if typeOff != 0 {
		r.Seek(start + typeOff)
		if err := p.readTypeData(r); err != nil {
			return nil, err
		}
	}

	return p, r.Err()
}

func encodePart(w *cursor.Writer, f format.Format, p Part, ordinal int32) error {
	start := w.Pos()
	k := fmt.Sprintf("part@%d", start)
	c := p.common()

	w.ReserveOffset(k+":name", f.LongOffsets)
	w.Uint32(p.Subtype())
	w.Int32(ordinal)
	w.Int32(c.modelIndex)
	w.ReserveOffset(k+":sib", f.LongOffsets)
	writeVec3(w, c.Position)
	writeVec3(w, c.Rotation)
	writeVec3(w, c.Scale)
	w.Int32(c.EntityID)
	w.ReserveOffset(k+":type", f.LongOffsets)

	w.FillOffset(k+":name", w.Pos()-start)
	w.StringZ(c.name, f.WideNames)
	w.FillOffset(k+":sib", w.Pos()-start)
	w.StringZ(c.SibPath, f.WideNames)
	w.Pad(4)

	if p.hasTypeData() {
		w.FillOffset(k+":type", w.Pos()-start)
		if err := p.writeTypeData(w); err != nil {
			return err
		}
	} else {
		w.FillOffset(k+":type", 0)
	}
	w.Pad(f.Align)

	return w.Err()
}
