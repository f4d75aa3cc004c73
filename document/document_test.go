package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/cursor"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
	"github.com/mapstudio/msb/param"
)

// buildFullDoc constructs a document exercising every entry kind and every
// reference edge, with all names unique so disambiguation is a no-op.
func buildFullDoc(f format.Format) *Document {
	d := New(f)

	d.Models = append(d.Models,
		NewModel("m0000B0", ModelMapPiece, `N:\FRPG\data\Model\map\m0000B0.sib`),
		NewModel("o0500", ModelObject, `N:\FRPG\data\Model\obj\o0500.sib`),
		NewModel("c1000", ModelEnemy, `N:\FRPG\data\Model\chr\c1000.sib`),
		NewModel("c0000", ModelPlayer, ""),
		NewModel("h0000B0", ModelCollision, `N:\FRPG\data\Model\map\h0000B0.sib`),
	)

	d.Regions = append(d.Regions,
		NewPoint("spawn point", Vec3{X: 1, Y: 2, Z: 3}),
		NewSphere("trigger sphere", Vec3{X: 4, Y: 5, Z: 6}, 2.5),
		NewBox("ambush box", Vec3{X: 7, Y: 8, Z: 9}, 1, 2, 3),
	)

	if f.HasRoutes {
		route := NewRoute("main route")
		route.Unk08 = 7
		d.Routes = append(d.Routes, route)
	}

	floor := NewMapPiece("m0000B0_0000", "m0000B0")
	collision := NewCollision("h0000B0_0000", "h0000B0")
	collision.HitFilterID = 8
	collision.EnvMapRegionName = "ambush box"
	chest := NewObject("o0500_0000", "o0500")
	chest.CollisionName = "h0000B0_0000"
	chest.AnimID = 10
	hollow := NewEnemy("c1000_0000", "c1000")
	hollow.ThinkParamID = 110000
	hollow.NPCParamID = 110000
	hollow.CollisionName = "h0000B0_0000"
	hollow.PatrolRegionNames[0] = "spawn point"
	hollow.PatrolRegionNames[1] = "trigger sphere"
	player := NewPlayer("c0000_0000", "c0000")
	d.Parts = append(d.Parts, floor, collision, chest, hollow, player)

	treasure := NewTreasure("chest loot", "o0500_0000", 1000)
	treasure.EntityID = 5100
	treasure.PartName = "o0500_0000"
	spawner := NewSpawner("hollow spawner", 3)
	spawner.RegionName = "trigger sphere"
	spawner.SpawnRegionNames[0] = "spawn point"
	spawner.SpawnPartNames[0] = "c1000_0000"
	objAct := NewObjAct("chest action", "o0500_0000", 5500)
	other := NewOtherEvent("ambient sound")
	other.RegionName = "ambush box"
	d.Events = append(d.Events, treasure, spawner, objAct, other)

	return d
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, f := range format.Formats {
		t.Run(f.Name, func(t *testing.T) {
			d := buildFullDoc(f)

			data, err := d.Bytes()
			require.NoError(t, err)

			decoded, err := Read(data, f)
			require.NoError(t, err)

			require.Len(t, decoded.Models, len(d.Models))
			require.Len(t, decoded.Events, len(d.Events))
			require.Len(t, decoded.Regions, len(d.Regions))
			require.Len(t, decoded.Routes, len(d.Routes))
			require.Len(t, decoded.Parts, len(d.Parts))

			// References come back as names.
			treasure := decoded.Events[0].(*Treasure)
			require.Equal(t, "o0500_0000", treasure.TreasurePartName)
			require.Equal(t, "o0500_0000", treasure.PartName)
			require.Equal(t, int32(1000), treasure.ItemLot)

			spawner := decoded.Events[1].(*Spawner)
			require.Equal(t, "trigger sphere", spawner.RegionName)
			require.Equal(t, "spawn point", spawner.SpawnRegionNames[0])
			require.Equal(t, "c1000_0000", spawner.SpawnPartNames[0])
			require.Empty(t, spawner.SpawnRegionNames[1])
			require.Equal(t, uint8(3), spawner.MaxPopulation)

			hollow := decoded.Parts[3].(*Enemy)
			require.Equal(t, "c1000", hollow.ModelName)
			require.Equal(t, "h0000B0_0000", hollow.CollisionName)
			require.Equal(t, "spawn point", hollow.PatrolRegionNames[0])
			require.Equal(t, "trigger sphere", hollow.PatrolRegionNames[1])
			require.Empty(t, hollow.PatrolRegionNames[2])

			collision := decoded.Parts[1].(*Collision)
			require.Equal(t, "ambush box", collision.EnvMapRegionName)
			require.Equal(t, int32(8), collision.HitFilterID)

			sphere := decoded.Regions[1].(*Sphere)
			require.Equal(t, float32(2.5), sphere.Radius)
			require.Equal(t, Vec3{X: 4, Y: 5, Z: 6}, sphere.Position)

			box := decoded.Regions[2].(*Box)
			require.Equal(t, float32(3), box.Depth)

			if f.HasRoutes {
				require.Equal(t, "main route", decoded.Routes[0].Name())
				require.Equal(t, int32(7), decoded.Routes[0].Unk08)
			}

			// Re-encoding a decoded document reproduces the bytes exactly,
			// padding and literal zeros included.
			again, err := decoded.Bytes()
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestDocumentEmptyRoundTrip(t *testing.T) {
	for _, f := range format.Formats {
		t.Run(f.Name, func(t *testing.T) {
			d := New(f)

			data, err := d.Bytes()
			require.NoError(t, err)

			decoded, err := Read(data, f)
			require.NoError(t, err)
			require.Empty(t, decoded.Models)
			require.Empty(t, decoded.Parts)

			again, err := decoded.Bytes()
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestDocumentMissingReferenceAborts(t *testing.T) {
	d := New(format.DarkSouls)
	d.Models = append(d.Models, NewModel("c1000", ModelEnemy, ""))
	enemy := NewEnemy("c1000_0000", "c1000")
	enemy.CollisionName = "no such part"
	d.Parts = append(d.Parts, enemy)

	_, err := d.Bytes()
	require.ErrorIs(t, err, errs.ErrMissingReference)
	require.Contains(t, err.Error(), "no such part")
	require.Contains(t, err.Error(), "c1000_0000")
}

func TestDocumentBlankReferenceRoundTrip(t *testing.T) {
	d := New(format.DarkSouls)
	ev := NewOtherEvent("lonely event")
	d.Events = append(d.Events, ev)

	data, err := d.Bytes()
	require.NoError(t, err)

	decoded, err := Read(data, format.DarkSouls)
	require.NoError(t, err)

	got := decoded.Events[0].(*OtherEvent)
	require.Empty(t, got.PartName)
	require.Empty(t, got.RegionName)
}

func TestDocumentCaseInsensitiveReference(t *testing.T) {
	d := New(format.DarkSouls)
	d.Models = append(d.Models, NewModel("c1000", ModelEnemy, ""))
	// Historical files reference with drifted casing; resolution falls back
	// case-insensitively and decode returns the canonical name.
	d.Parts = append(d.Parts, NewEnemy("c1000_0000", "C1000"))

	data, err := d.Bytes()
	require.NoError(t, err)

	decoded, err := Read(data, format.DarkSouls)
	require.NoError(t, err)
	require.Equal(t, "c1000", decoded.Parts[0].(*Enemy).ModelName)
}

func TestDocumentDuplicateNamesDisambiguatedOnDecode(t *testing.T) {
	d := New(format.DarkSouls)
	d.Models = append(d.Models, NewModel("m0000B0", ModelMapPiece, ""))
	d.Parts = append(d.Parts,
		NewMapPiece("X", "m0000B0"),
		NewMapPiece("X", "m0000B0"),
		NewMapPiece("", "m0000B0"),
	)

	data, err := d.Bytes()
	require.NoError(t, err)

	decoded, err := Read(data, format.DarkSouls)
	require.NoError(t, err)

	names := make([]string, len(decoded.Parts))
	for i, p := range decoded.Parts {
		names[i] = p.Name()
	}
	require.Equal(t, []string{"X", "Part X {2}", "Part {1}"}, names)
}

func TestDocumentTrailingOffsetAborts(t *testing.T) {
	f := format.DarkSouls
	w := cursor.NewWriter(f.Engine())
	defer w.Release()

	models := &param.Param[*Model]{Tag: TagModels}
	require.NoError(t, models.Write(w, f, encodeModel))
	w.FillOffset(models.NextKey(), w.Pos())

	events := &param.Param[Event]{Tag: TagEvents}
	require.NoError(t, events.Write(w, f, encodeEvent))
	w.FillOffset(events.NextKey(), w.Pos())

	regions := &param.Param[Region]{Tag: TagRegions}
	require.NoError(t, regions.Write(w, f, encodeRegion))
	w.FillOffset(regions.NextKey(), w.Pos())

	parts := &param.Param[Part]{Tag: TagParts}
	require.NoError(t, parts.Write(w, f, encodePart))
	// The final section must chain to literal zero; any other value is a
	// malformed file.
	w.FillOffset(parts.NextKey(), w.Pos())

	data, err := w.Bytes()
	require.NoError(t, err)

	_, err = Read(data, f)
	require.ErrorIs(t, err, errs.ErrTrailingOffset)
}

func TestDocumentHeaderValidation(t *testing.T) {
	d := New(format.Bloodborne)
	data, err := d.Bytes()
	require.NoError(t, err)

	t.Run("corrupt magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] = 'X'
		_, err := Read(bad, format.Bloodborne)
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("corrupt flag byte", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[12] = 0 // long-offsets flag must be 1 for this format
		_, err := Read(bad, format.Bloodborne)
		require.ErrorIs(t, err, errs.ErrUnexpectedValue)
	})

	t.Run("wrong format preset", func(t *testing.T) {
		_, err := Read(data, format.DarkSouls)
		require.Error(t, err)
	})
}

func TestDocumentTruncatedAborts(t *testing.T) {
	d := buildFullDoc(format.DarkSouls)
	data, err := d.Bytes()
	require.NoError(t, err)

	_, err = Read(data[:len(data)/2], format.DarkSouls)
	require.Error(t, err)
}

func TestDocumentVersionWordsPreserved(t *testing.T) {
	d := New(format.Bloodborne)
	d.versions = [5]int32{9, 8, 7, 6, 5}

	data, err := d.Bytes()
	require.NoError(t, err)

	decoded, err := Read(data, format.Bloodborne)
	require.NoError(t, err)
	require.Equal(t, d.versions, decoded.versions)
}
