// Package document implements the MSB map container: the fixed section
// sequence, the per-entry schemas (models, events, regions, routes, parts),
// and the decode/encode orchestration that threads name references across
// sections.
//
// Decode order: sections are read in file order, every section's names are
// disambiguated, a cross-section index view is built, and each entry swaps
// its stored indices for names against that view. Encode reverses it: a
// fresh view is built from the current entries, each entry converts its
// name-valued fields back to indices, and the sections are framed in file
// order with their next-section offsets chained, the last one forced to
// literal zero.
package document

import (
	"fmt"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
	"github.com/mapstudio/msb/param"
)

// Section tag strings, fixed across every variant.
const (
	TagModels  = "MODEL_PARAM_ST"
	TagEvents  = "EVENT_PARAM_ST"
	TagRegions = "POINT_PARAM_ST"
	TagRoutes  = "ROUTE_PARAM_ST"
	TagParts   = "PARTS_PARAM_ST"
)

// defaultSectionVersion is written for variants with per-section version
// words when the document was not decoded from a file.
const defaultSectionVersion = 3

// Vec3 is a 3-component float vector (position, Euler rotation, scale).
type Vec3 struct {
	X, Y, Z float32
}

func readVec3(r *cursor.Reader) Vec3 {
	return Vec3{X: r.Float32(), Y: r.Float32(), Z: r.Float32()}
}

func writeVec3(w *cursor.Writer, v Vec3) {
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Z)
}

// Document is one parsed map container.
type Document struct {
	Format format.Format

	Models  []*Model
	Events  []Event
	Regions []Region
	Routes  []*Route
	Parts   []Part

	// versions preserves the per-section version words of decoded files so
	// re-encoding reproduces them exactly.
	versions [5]int32
}

// New creates an empty document for the given format.
func New(f format.Format) *Document {
	d := &Document{Format: f}
	if f.HasVersions {
		for i := range d.versions {
			d.versions[i] = defaultSectionVersion
		}
	}

	return d
}

// Entries is the cross-section index view: one name-index snapshot per
// referenceable category. It is built fresh immediately before resolving or
// encoding references; any rename, reorder, or insertion invalidates it.
type Entries struct {
	Models  *param.Collection[*Model]
	Events  *param.Collection[Event]
	Regions *param.Collection[Region]
	Routes  *param.Collection[*Route]
	Parts   *param.Collection[Part]
}

// Entries builds the cross-section view over the document's current entries.
func (d *Document) Entries() *Entries {
	return &Entries{
		Models:  param.Collect(d.Models),
		Events:  param.Collect(d.Events),
		Regions: param.Collect(d.Regions),
		Routes:  param.Collect(d.Routes),
		Parts:   param.Collect(d.Parts),
	}
}

// referencer is implemented by entries carrying name-valued fields.
type referencer interface {
	resolveNames(v *Entries)
	resolveIndices(v *Entries) error
}

// Read decodes a raw (uncompressed) map container.
//
// Any malformed structure - a failed magic or reserved-word assertion, a
// section tag mismatch, an offset outside the file, or a non-zero next
// offset on the final section - aborts the whole decode. Offset tables make
// partial structures unsafe to continue scanning, so there is no best-effort
// mode.
func Read(data []byte, f format.Format) (*Document, error) {
	r := cursor.NewReader(data, f.Engine())
	d := &Document{Format: f}

	if f.HasHeader {
		if err := readHeader(r, f); err != nil {
			return nil, err
		}
	}

	models, next, err := param.Read(r, f, TagModels, decodeModel)
	if err != nil {
		return nil, err
	}
	d.Models = models.Entries
	d.versions[0] = models.Version
	if err := seekNext(r, TagModels, next); err != nil {
		return nil, err
	}

	events, next, err := param.Read(r, f, TagEvents, decodeEvent)
	if err != nil {
		return nil, err
	}
	d.Events = events.Entries
	d.versions[1] = events.Version
	if err := seekNext(r, TagEvents, next); err != nil {
		return nil, err
	}

	regions, next, err := param.Read(r, f, TagRegions, decodeRegion)
	if err != nil {
		return nil, err
	}
	d.Regions = regions.Entries
	d.versions[2] = regions.Version
	if err := seekNext(r, TagRegions, next); err != nil {
		return nil, err
	}

	if f.HasRoutes {
		routes, nextRoutes, err := param.Read(r, f, TagRoutes, decodeRoute)
		if err != nil {
			return nil, err
		}
		d.Routes = routes.Entries
		d.versions[3] = routes.Version
		if err := seekNext(r, TagRoutes, nextRoutes); err != nil {
			return nil, err
		}
	}

	parts, next, err := param.Read(r, f, TagParts, decodePart)
	if err != nil {
		return nil, err
	}
	d.Parts = parts.Entries
	d.versions[4] = parts.Version
	if next != 0 {
		return nil, fmt.Errorf("%w: %s points at 0x%x", errs.ErrTrailingOffset, TagParts, next)
	}

	d.disambiguate()

	view := d.Entries()
	for _, e := range d.Events {
		e.resolveNames(view)
	}
	for _, p := range d.Parts {
		p.resolveNames(view)
	}

	return d, nil
}

// seekNext validates and follows a chained next-section offset.
func seekNext(r *cursor.Reader, tag string, next int64) error {
	if next == 0 {
		return fmt.Errorf("%w: %s has zero next offset but is not the final section", errs.ErrUnexpectedValue, tag)
	}
	r.Seek(next)

	return r.Err()
}

// disambiguate normalizes every section's names. Raw files may contain
// duplicate or blank names; references resolve by name, so this runs before
// the cross-section view is built.
func (d *Document) disambiguate() {
	param.Disambiguate(d.Models, "Model")
	param.Disambiguate(d.Events, "Event")
	param.Disambiguate(d.Regions, "Region")
	param.Disambiguate(d.Routes, "Route")
	param.Disambiguate(d.Parts, "Part")
}

// Bytes encodes the document into a raw map container.
//
// Entry names must be unique within each section when references are
// resolved; documents produced by Read already are. A name-valued field that
// resolves nowhere aborts the encode with a MissingReference error naming
// the referring entry.
func (d *Document) Bytes() ([]byte, error) {
	f := d.Format

	view := d.Entries()
	for _, e := range d.Events {
		if err := e.resolveIndices(view); err != nil {
			return nil, err
		}
	}
	for _, p := range d.Parts {
		if err := p.resolveIndices(view); err != nil {
			return nil, err
		}
	}

	w := cursor.NewWriter(f.Engine())
	defer w.Release()

	if f.HasHeader {
		writeHeader(w, f)
	}

	models := &param.Param[*Model]{Tag: TagModels, Version: d.versions[0], Entries: d.Models}
	if err := models.Write(w, f, encodeModel); err != nil {
		return nil, err
	}
	w.FillOffset(models.NextKey(), w.Pos())

	events := &param.Param[Event]{Tag: TagEvents, Version: d.versions[1], Entries: d.Events}
	if err := events.Write(w, f, encodeEvent); err != nil {
		return nil, err
	}
	w.FillOffset(events.NextKey(), w.Pos())

	regions := &param.Param[Region]{Tag: TagRegions, Version: d.versions[2], Entries: d.Regions}
	if err := regions.Write(w, f, encodeRegion); err != nil {
		return nil, err
	}
	w.FillOffset(regions.NextKey(), w.Pos())

	if f.HasRoutes {
		routes := &param.Param[*Route]{Tag: TagRoutes, Version: d.versions[3], Entries: d.Routes}
		if err := routes.Write(w, f, encodeRoute); err != nil {
			return nil, err
		}
		w.FillOffset(routes.NextKey(), w.Pos())
	}

	parts := &param.Param[Part]{Tag: TagParts, Version: d.versions[4], Entries: d.Parts}
	if err := parts.Write(w, f, encodePart); err != nil {
		return nil, err
	}
	// The final section terminates the chain with a literal zero, never a
	// real address.
	w.FillOffset(parts.NextKey(), 0)

	return w.Bytes()
}

// header layout: "MSB " magic, version word 1, header size 16, then four
// flag bytes pinned to the format (long offsets, big-endian, wide names,
// 0xFF terminator). Only variants with HasHeader carry it.

func flagByte(b bool) uint8 {
	if b {
		return 1
	}

	return 0
}

func readHeader(r *cursor.Reader, f format.Format) error {
	r.AssertMagic([]byte("MSB "))
	r.AssertUint32(1)
	r.AssertUint32(16)
	r.AssertUint8(flagByte(f.LongOffsets))
	r.AssertUint8(flagByte(f.BigEndian))
	r.AssertUint8(flagByte(f.WideNames))
	r.AssertUint8(0xFF)

	return r.Err()
}

func writeHeader(w *cursor.Writer, f format.Format) {
	w.Raw([]byte("MSB "))
	w.Uint32(1)
	w.Uint32(16)
	w.Uint8(flagByte(f.LongOffsets))
	w.Uint8(flagByte(f.BigEndian))
	w.Uint8(flagByte(f.WideNames))
	w.Uint8(0xFF)
}
