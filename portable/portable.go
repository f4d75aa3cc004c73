// Package portable converts documents to and from an editable YAML form.
//
// The portable form carries the same information as a decoded document:
// every cross reference is a name, never an index, so entries can be
// renamed, reordered, added, or removed in a text editor and re-encoded.
// Serialized layout details (offsets, padding, ordinals) are recomputed on
// encode and do not appear.
package portable

import (
	"fmt"

	"github.com/invopop/yaml"

	"github.com/mapstudio/msb/document"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

// Map is the portable form of one map container.
type Map struct {
	Format  string   `json:"format"`            // format preset name (e.g. DarkSouls)
	Models  []Model  `json:"models,omitempty"`  // model declarations
	Events  []Event  `json:"events,omitempty"`  // scripted events
	Regions []Region `json:"regions,omitempty"` // placed regions
	Routes  []Route  `json:"routes,omitempty"`  // routes (64-bit variants only)
	Parts   []Part   `json:"parts,omitempty"`   // placed parts
}

// Vec3 is a portable 3-component vector.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Model is a portable model entry.
type Model struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"` // map_piece, object, enemy, player, collision
	SibPath       string `json:"sib_path,omitempty"`
	InstanceCount int32  `json:"instance_count,omitempty"`
}

// Event is a portable event entry. Kind selects which of the optional
// fields apply.
type Event struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // treasure, spawner, objact, other
	EntityID int32  `json:"entity_id,omitempty"`
	Part     string `json:"part,omitempty"`
	Region   string `json:"region,omitempty"`

	TreasurePart string `json:"treasure_part,omitempty"` // treasure
	ItemLot      int32  `json:"item_lot,omitempty"`      // treasure

	MaxPopulation uint8    `json:"max_population,omitempty"` // spawner
	SpawnRegions  []string `json:"spawn_regions,omitempty"`  // spawner
	SpawnParts    []string `json:"spawn_parts,omitempty"`    // spawner

	ObjActPart string `json:"objact_part,omitempty"` // objact
	ObjActID   int32  `json:"objact_id,omitempty"`   // objact
}

// Region is a portable region entry. Kind selects the shape fields.
type Region struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // point, sphere, box
	Position Vec3   `json:"position"`
	Rotation Vec3   `json:"rotation"`
	EntityID int32  `json:"entity_id,omitempty"`

	Radius float32 `json:"radius,omitempty"` // sphere
	Width  float32 `json:"width,omitempty"`  // box
	Height float32 `json:"height,omitempty"` // box
	Depth  float32 `json:"depth,omitempty"`  // box
}

// Route is a portable route entry.
type Route struct {
	Name  string `json:"name"`
	Unk08 int32  `json:"unk08,omitempty"`
	Unk0C int32  `json:"unk0c,omitempty"`
}

// Part is a portable part entry. Kind selects which of the optional fields
// apply.
type Part struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // map_piece, object, enemy, player, collision
	Model    string `json:"model"`
	SibPath  string `json:"sib_path,omitempty"`
	Position Vec3   `json:"position"`
	Rotation Vec3   `json:"rotation"`
	Scale    Vec3   `json:"scale"`
	EntityID int32  `json:"entity_id,omitempty"`

	Collision string `json:"collision,omitempty"` // object, enemy
	AnimID    int32  `json:"anim_id,omitempty"`   // object

	ThinkParamID  int32    `json:"think_param_id,omitempty"` // enemy
	NPCParamID    int32    `json:"npc_param_id,omitempty"`   // enemy
	TalkID        int32    `json:"talk_id,omitempty"`        // enemy
	PatrolRegions []string `json:"patrol_regions,omitempty"` // enemy

	HitFilterID  int32  `json:"hit_filter_id,omitempty"`  // collision
	EnvMapRegion string `json:"env_map_region,omitempty"` // collision
}

// Marshal renders a document as YAML.
func Marshal(d *document.Document) ([]byte, error) {
	return yaml.Marshal(FromDocument(d))
}

// Unmarshal parses YAML into a document.
func Unmarshal(data []byte) (*document.Document, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return m.Document()
}

func vecOut(v document.Vec3) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }
func vecIn(v Vec3) document.Vec3  { return document.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

var modelKinds = map[document.ModelType]string{
	document.ModelMapPiece:  "map_piece",
	document.ModelObject:    "object",
	document.ModelEnemy:     "enemy",
	document.ModelPlayer:    "player",
	document.ModelCollision: "collision",
}

// compact drops trailing blank references so spawner and patrol lists
// render as short YAML sequences.
func compact(names []string) []string {
	end := len(names)
	for end > 0 && names[end-1] == "" {
		end--
	}
	if end == 0 {
		return nil
	}

	return names[:end]
}

// FromDocument converts a document to its portable form.
func FromDocument(d *document.Document) *Map {
	m := &Map{Format: d.Format.Name}

	for _, md := range d.Models {
		m.Models = append(m.Models, Model{
			Name:          md.Name(),
			Kind:          modelKinds[md.Type],
			SibPath:       md.SibPath,
			InstanceCount: md.InstanceCount,
		})
	}

	for _, ev := range d.Events {
		m.Events = append(m.Events, portableEvent(ev))
	}
	for _, rg := range d.Regions {
		m.Regions = append(m.Regions, portableRegion(rg))
	}
	for _, rt := range d.Routes {
		m.Routes = append(m.Routes, Route{Name: rt.Name(), Unk08: rt.Unk08, Unk0C: rt.Unk0C})
	}
	for _, p := range d.Parts {
		m.Parts = append(m.Parts, portablePart(p))
	}

	return m
}

// Document converts the portable form back to a document. Unknown format
// preset names or entry kinds fail the conversion.
func (m *Map) Document() (*document.Document, error) {
	var f format.Format
	found := false
	for _, preset := range format.Formats {
		if preset.Name == m.Format {
			f = preset
			found = true

			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: unknown format %q", errs.ErrUnexpectedValue, m.Format)
	}

	d := document.New(f)

	for _, md := range m.Models {
		typ, err := modelKind(md.Kind)
		if err != nil {
			return nil, err
		}
		model := document.NewModel(md.Name, typ, md.SibPath)
		model.InstanceCount = md.InstanceCount
		d.Models = append(d.Models, model)
	}

	for _, ev := range m.Events {
		event, err := ev.event()
		if err != nil {
			return nil, err
		}
		d.Events = append(d.Events, event)
	}
	for _, rg := range m.Regions {
		region, err := rg.region()
		if err != nil {
			return nil, err
		}
		d.Regions = append(d.Regions, region)
	}
	for _, rt := range m.Routes {
		route := document.NewRoute(rt.Name)
		route.Unk08 = rt.Unk08
		route.Unk0C = rt.Unk0C
		d.Routes = append(d.Routes, route)
	}
	for _, p := range m.Parts {
		part, err := p.part()
		if err != nil {
			return nil, err
		}
		d.Parts = append(d.Parts, part)
	}

	return d, nil
}

func modelKind(kind string) (document.ModelType, error) {
	for typ, name := range modelKinds {
		if name == kind {
			return typ, nil
		}
	}

	return 0, fmt.Errorf("%w: model kind %q", errs.ErrUnknownSubtype, kind)
}

func portableEvent(ev document.Event) Event {
	out := Event{Name: ev.Name()}
	switch e := ev.(type) {
	case *document.Treasure:
		out.Kind = "treasure"
		out.EntityID = e.EntityID
		out.Part = e.PartName
		out.Region = e.RegionName
		out.TreasurePart = e.TreasurePartName
		out.ItemLot = e.ItemLot
	case *document.Spawner:
		out.Kind = "spawner"
		out.EntityID = e.EntityID
		out.Part = e.PartName
		out.Region = e.RegionName
		out.MaxPopulation = e.MaxPopulation
		out.SpawnRegions = compact(e.SpawnRegionNames[:])
		out.SpawnParts = compact(e.SpawnPartNames[:])
	case *document.ObjAct:
		out.Kind = "objact"
		out.EntityID = e.EntityID
		out.Part = e.PartName
		out.Region = e.RegionName
		out.ObjActPart = e.ObjActPartName
		out.ObjActID = e.ObjActID
	case *document.OtherEvent:
		out.Kind = "other"
		out.EntityID = e.EntityID
		out.Part = e.PartName
		out.Region = e.RegionName
	}

	return out
}

func (ev Event) event() (document.Event, error) {
	fill := func(c *document.EventCommon) {
		c.EntityID = ev.EntityID
		c.PartName = ev.Part
		c.RegionName = ev.Region
	}

	switch ev.Kind {
	case "treasure":
		e := document.NewTreasure(ev.Name, ev.TreasurePart, ev.ItemLot)
		fill(&e.EventCommon)

		return e, nil
	case "spawner":
		e := document.NewSpawner(ev.Name, ev.MaxPopulation)
		fill(&e.EventCommon)
		copy(e.SpawnRegionNames[:], ev.SpawnRegions)
		copy(e.SpawnPartNames[:], ev.SpawnParts)

		return e, nil
	case "objact":
		e := document.NewObjAct(ev.Name, ev.ObjActPart, ev.ObjActID)
		fill(&e.EventCommon)

		return e, nil
	case "other":
		e := document.NewOtherEvent(ev.Name)
		fill(&e.EventCommon)

		return e, nil
	default:
		return nil, fmt.Errorf("%w: event kind %q", errs.ErrUnknownSubtype, ev.Kind)
	}
}

func portableRegion(rg document.Region) Region {
	out := Region{Name: rg.Name()}
	switch r := rg.(type) {
	case *document.Point:
		out.Kind = "point"
		out.Position = vecOut(r.Position)
		out.Rotation = vecOut(r.Rotation)
		out.EntityID = r.EntityID
	case *document.Sphere:
		out.Kind = "sphere"
		out.Position = vecOut(r.Position)
		out.Rotation = vecOut(r.Rotation)
		out.EntityID = r.EntityID
		out.Radius = r.Radius
	case *document.Box:
		out.Kind = "box"
		out.Position = vecOut(r.Position)
		out.Rotation = vecOut(r.Rotation)
		out.EntityID = r.EntityID
		out.Width = r.Width
		out.Height = r.Height
		out.Depth = r.Depth
	}

	return out
}

func (rg Region) region() (document.Region, error) {
	switch rg.Kind {
	case "point":
		r := document.NewPoint(rg.Name, vecIn(rg.Position))
		r.Rotation = vecIn(rg.Rotation)
		r.EntityID = rg.EntityID

		return r, nil
	case "sphere":
		r := document.NewSphere(rg.Name, vecIn(rg.Position), rg.Radius)
		r.Rotation = vecIn(rg.Rotation)
		r.EntityID = rg.EntityID

		return r, nil
	case "box":
		r := document.NewBox(rg.Name, vecIn(rg.Position), rg.Width, rg.Height, rg.Depth)
		r.Rotation = vecIn(rg.Rotation)
		r.EntityID = rg.EntityID

		return r, nil
	default:
		return nil, fmt.Errorf("%w: region kind %q", errs.ErrUnknownSubtype, rg.Kind)
	}
}

func portablePart(p document.Part) Part {
	out := Part{Name: p.Name()}

	switch pt := p.(type) {
	case *document.MapPiece:
		out.Kind = "map_piece"
		fillPartCommon(&out, &pt.PartCommon)
	case *document.Object:
		out.Kind = "object"
		fillPartCommon(&out, &pt.PartCommon)
		out.Collision = pt.CollisionName
		out.AnimID = pt.AnimID
	case *document.Enemy:
		out.Kind = "enemy"
		fillPartCommon(&out, &pt.PartCommon)
		out.Collision = pt.CollisionName
		out.ThinkParamID = pt.ThinkParamID
		out.NPCParamID = pt.NPCParamID
		out.TalkID = pt.TalkID
		out.PatrolRegions = compact(pt.PatrolRegionNames[:])
	case *document.Player:
		out.Kind = "player"
		fillPartCommon(&out, &pt.PartCommon)
	case *document.Collision:
		out.Kind = "collision"
		fillPartCommon(&out, &pt.PartCommon)
		out.HitFilterID = pt.HitFilterID
		out.EnvMapRegion = pt.EnvMapRegionName
	}

	return out
}

func fillPartCommon(out *Part, c *document.PartCommon) {
	out.Model = c.ModelName
	out.SibPath = c.SibPath
	out.Position = vecOut(c.Position)
	out.Rotation = vecOut(c.Rotation)
	out.Scale = vecOut(c.Scale)
	out.EntityID = c.EntityID
}

func (p Part) part() (document.Part, error) {
	apply := func(c *document.PartCommon) {
		c.SibPath = p.SibPath
		c.Position = vecIn(p.Position)
		c.Rotation = vecIn(p.Rotation)
		c.Scale = vecIn(p.Scale)
		c.EntityID = p.EntityID
	}

	switch p.Kind {
	case "map_piece":
		part := document.NewMapPiece(p.Name, p.Model)
		apply(&part.PartCommon)

		return part, nil
	case "object":
		part := document.NewObject(p.Name, p.Model)
		apply(&part.PartCommon)
		part.CollisionName = p.Collision
		part.AnimID = p.AnimID

		return part, nil
	case "enemy":
		part := document.NewEnemy(p.Name, p.Model)
		apply(&part.PartCommon)
		part.CollisionName = p.Collision
		part.ThinkParamID = p.ThinkParamID
		part.NPCParamID = p.NPCParamID
		part.TalkID = p.TalkID
		copy(part.PatrolRegionNames[:], p.PatrolRegions)

		return part, nil
	case "player":
		part := document.NewPlayer(p.Name, p.Model)
		apply(&part.PartCommon)

		return part, nil
	case "collision":
		part := document.NewCollision(p.Name, p.Model)
		apply(&part.PartCommon)
		part.HitFilterID = p.HitFilterID
		part.EnvMapRegionName = p.EnvMapRegion

		return part, nil
	default:
		return nil, fmt.Errorf("%w: part kind %q", errs.ErrUnknownSubtype, p.Kind)
	}
}
