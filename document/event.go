package document

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
	"github.com/mapstudio/msb/param"
)

// EventType is the event entry subtype.
type EventType uint32

const (
	EventTreasure EventType = 4
	EventSpawner  EventType = 5
	EventObjAct   EventType = 7
	EventOther    EventType = 0xFFFFFFFF
)

// Event is one scripted occurrence anchored to parts and regions by name.
// Concrete subtypes implement the interface.
type Event interface {
	param.Entry
	referencer
	common() *EventCommon
	hasTypeData() bool
	readTypeData(r *cursor.Reader) error
	writeTypeData(w *cursor.Writer) error
}

// EventCommon holds the fields every event subtype shares: the entity ID and
// the optional anchor part and region. Blank anchor names mean "no anchor"
// and serialize as the -1 sentinel.
type EventCommon struct {
	name string

	EntityID   int32
	PartName   string
	RegionName string

	partIndex   int32
	regionIndex int32
}

func (c *EventCommon) Name() string        { return c.name }
func (c *EventCommon) SetName(name string) { c.name = name }
func (c *EventCommon) common() *EventCommon {
	return c
}

func (c *EventCommon) resolveCommonNames(v *Entries) {
	c.PartName = v.Parts.NameAt(c.partIndex)
	c.RegionName = v.Regions.NameAt(c.regionIndex)
}

func (c *EventCommon) resolveCommonIndices(v *Entries) error {
	var err error
	if c.partIndex, err = v.Parts.IndexOf(c.name, c.PartName); err != nil {
		return err
	}
	if c.regionIndex, err = v.Regions.IndexOf(c.name, c.RegionName); err != nil {
		return err
	}

	return nil
}

// Treasure places an item pickup on a part.
type Treasure struct {
	EventCommon

	// TreasurePartName names the part the pickup appears on.
	TreasurePartName string
	// ItemLot selects the awarded item row.
	ItemLot int32

	treasurePartIndex int32
}

func (*Treasure) Subtype() uint32   { return uint32(EventTreasure) }
func (*Treasure) hasTypeData() bool { return true }

func (t *Treasure) readTypeData(r *cursor.Reader) error {
	t.treasurePartIndex = r.Int32()
	t.ItemLot = r.Int32()
	r.AssertUint32(0)

	return r.Err()
}

func (t *Treasure) writeTypeData(w *cursor.Writer) error {
	w.Int32(t.treasurePartIndex)
	w.Int32(t.ItemLot)
	w.Uint32(0)

	return w.Err()
}

func (t *Treasure) resolveNames(v *Entries) {
	t.resolveCommonNames(v)
	t.TreasurePartName = v.Parts.NameAt(t.treasurePartIndex)
}

func (t *Treasure) resolveIndices(v *Entries) error {
	if err := t.resolveCommonIndices(v); err != nil {
		return err
	}
	var err error
	if t.treasurePartIndex, err = v.Parts.IndexOf(t.name, t.TreasurePartName); err != nil {
		return err
	}

	return nil
}

// Spawner respawns enemies at its regions. The region references are
// serialized at 16-bit width, the part references at 32-bit; both widths are
// format-significant and preserved exactly.
type Spawner struct {
	EventCommon

	MaxPopulation    uint8
	SpawnRegionNames [4]string
	SpawnPartNames   [4]string

	spawnRegionIndices [4]int16
	spawnPartIndices   [4]int32
}

func (*Spawner) Subtype() uint32   { return uint32(EventSpawner) }
func (*Spawner) hasTypeData() bool { return true }

func (s *Spawner) readTypeData(r *cursor.Reader) error {
	s.MaxPopulation = r.Uint8()
	r.AssertUint8(0)
	r.AssertUint8(0)
	r.AssertUint8(0)
	for i := range s.spawnRegionIndices {
		s.spawnRegionIndices[i] = r.Int16()
	}
	for i := range s.spawnPartIndices {
		s.spawnPartIndices[i] = r.Int32()
	}

	return r.Err()
}

func (s *Spawner) writeTypeData(w *cursor.Writer) error {
	w.Uint8(s.MaxPopulation)
	w.Zero(3)
	for _, idx := range s.spawnRegionIndices {
		w.Int16(idx)
	}
	for _, idx := range s.spawnPartIndices {
		w.Int32(idx)
	}

	return w.Err()
}

func (s *Spawner) resolveNames(v *Entries) {
	s.resolveCommonNames(v)
	copy(s.SpawnRegionNames[:], v.Regions.NamesAt16(s.spawnRegionIndices[:]))
	copy(s.SpawnPartNames[:], v.Parts.NamesAt(s.spawnPartIndices[:]))
}

func (s *Spawner) resolveIndices(v *Entries) error {
	if err := s.resolveCommonIndices(v); err != nil {
		return err
	}
	regions, err := v.Regions.IndicesOf16(s.name, s.SpawnRegionNames[:])
	if err != nil {
		return err
	}
	copy(s.spawnRegionIndices[:], regions)
	parts, err := v.Parts.IndicesOf(s.name, s.SpawnPartNames[:])
	if err != nil {
		return err
	}
	copy(s.spawnPartIndices[:], parts)

	return nil
}

// ObjAct binds an object action to a part.
type ObjAct struct {
	EventCommon

	ObjActPartName string
	ObjActID       int32

	objActPartIndex int32
}

func (*ObjAct) Subtype() uint32   { return uint32(EventObjAct) }
func (*ObjAct) hasTypeData() bool { return true }

func (o *ObjAct) readTypeData(r *cursor.Reader) error {
	o.objActPartIndex = r.Int32()
	o.ObjActID = r.Int32()

	return r.Err()
}

func (o *ObjAct) writeTypeData(w *cursor.Writer) error {
	w.Int32(o.objActPartIndex)
	w.Int32(o.ObjActID)

	return w.Err()
}

func (o *ObjAct) resolveNames(v *Entries) {
	o.resolveCommonNames(v)
	o.ObjActPartName = v.Parts.NameAt(o.objActPartIndex)
}

func (o *ObjAct) resolveIndices(v *Entries) error {
	if err := o.resolveCommonIndices(v); err != nil {
		return err
	}
	var err error
	if o.objActPartIndex, err = v.Parts.IndexOf(o.name, o.ObjActPartName); err != nil {
		return err
	}

	return nil
}

// OtherEvent is an event of a kind this codec does not model beyond the
// common fields; it carries no typed data block.
type OtherEvent struct {
	EventCommon
}

func (*OtherEvent) Subtype() uint32                    { return uint32(EventOther) }
func (*OtherEvent) hasTypeData() bool                  { return false }
func (*OtherEvent) readTypeData(*cursor.Reader) error  { return nil }
func (*OtherEvent) writeTypeData(*cursor.Writer) error { return nil }

func (e *OtherEvent) resolveNames(v *Entries) {
	e.resolveCommonNames(v)
}

func (e *OtherEvent) resolveIndices(v *Entries) error {
	return e.resolveCommonIndices(v)
}

// NewTreasure creates a treasure event.
func NewTreasure(name string, treasurePart string, itemLot int32) *Treasure {
	t := &Treasure{TreasurePartName: treasurePart, ItemLot: itemLot}
	t.name = name

	return t
}

// NewSpawner creates a spawner event.
func NewSpawner(name string, maxPopulation uint8) *Spawner {
	s := &Spawner{MaxPopulation: maxPopulation}
	s.name = name

	return s
}

// NewObjAct creates an object-action event.
func NewObjAct(name string, objActPart string, objActID int32) *ObjAct {
	o := &ObjAct{ObjActPartName: objActPart, ObjActID: objActID}
	o.name = name

	return o
}

// NewOtherEvent creates an event with only the common fields.
func NewOtherEvent(name string) *OtherEvent {
	e := &OtherEvent{}
	e.name = name

	return e
}

// Wire layout, offsets relative to the entry start:
//
//	name offset, subtype ordinal, subtype, reserved zero,
//	base data offset, type data offset (literal 0 when the subtype has no
//	typed block), then the name string, the base data block (entity ID,
//	part index, region index, reserved zero), and the typed block, padded.

func decodeEvent(r *cursor.Reader, f format.Format) (Event, error) {
	start := r.Pos()

	nameOff := r.Offset(f.LongOffsets)
	r.Int32() // subtype ordinal, recomputed on write
	subtype := EventType(r.Uint32())
	r.AssertUint32(0)
	baseOff := r.Offset(f.LongOffsets)
	typeOff := r.Offset(f.LongOffsets)
	if err := r.Err(); err != nil {
		return nil, err
	}

	var e Event
	switch subtype {
	case EventTreasure:
		e = &Treasure{}
	case EventSpawner:
		e = &Spawner{}
	case EventObjAct:
		e = &ObjAct{}
	case EventOther:
		e = &OtherEvent{}
	default:
		return nil, fmt.Errorf("%w: event subtype %d", errs.ErrUnknownSubtype, subtype)
	}

	c := e.common()
	r.Seek(start + nameOff)
	c.name = r.StringZ(f.WideNames)

	r.Seek(start + baseOff)
	c.EntityID = r.Int32()
	c.partIndex = r.Int32()
	c.regionIndex = r.Int32()
	r.AssertUint32(0)
	if err := r.Err(); err != nil {
		return nil, err
	}

	if (typeOff == 0) == e.hasTypeData() {
		return nil, fmt.Errorf("%w: event subtype %d with type data offset 0x%x", errs.ErrUnexpectedValue, subtype, typeOff)
	}
	if typeOff != 0 {
		r.Seek(start + typeOff)
		if err := e.readTypeData(r); err != nil {
			return nil, err
		}
	}

	return e, r.Err()
}

func encodeEvent(w *cursor.Writer, f format.Format, e Event, ordinal int32) error {
	start := w.Pos()
	k := fmt.Sprintf("event@%d", start)
	c := e.common()

	w.ReserveOffset(k+":name", f.LongOffsets)
	w.Int32(ordinal)
	w.Uint32(e.Subtype())
	w.Uint32(0)
	w.ReserveOffset(k+":base", f.LongOffsets)
	w.ReserveOffset(k+":type", f.LongOffsets)

	w.FillOffset(k+":name", w.Pos()-start)
	w.StringZ(c.name, f.WideNames)
	w.Pad(4)

	w.FillOffset(k+":base", w.Pos()-start)
	w.Int32(c.EntityID)
	w.Int32(c.partIndex)
	w.Int32(c.regionIndex)
	w.Uint32(0)

	if e.hasTypeData() {
		w.FillOffset(k+":type", w.Pos()-start)
		if err := e.writeTypeData(w); err != nil {
			return err
		}
	} else {
		w.FillOffset(k+":type", 0)
	}
	w.Pad(f.Align)

	return w.Err()
}
