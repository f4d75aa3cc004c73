package msb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/dcx"
	"github.com/mapstudio/msb/document"
	"github.com/mapstudio/msb/errs"
	"github.com/mapstudio/msb/format"
)

func buildMap(f format.Format) *document.Document {
	d := New(f)

	d.Models = append(d.Models,
		document.NewModel("m0000B0", document.ModelMapPiece, `N:\FRPG\data\Model\map\m0000B0.sib`),
		document.NewModel("c1000", document.ModelEnemy, `N:\FRPG\data\Model\chr\c1000.sib`),
	)
	d.Regions = append(d.Regions,
		document.NewSphere("trigger", document.Vec3{X: 3}, 5),
	)
	if f.HasRoutes {
		d.Routes = append(d.Routes, document.NewRoute("route"))
	}

	floor := document.NewMapPiece("m0000B0_0000", "m0000B0")
	hollow := document.NewEnemy("c1000_0000", "c1000")
	d.Parts = append(d.Parts, floor, hollow)

	ambush := document.NewOtherEvent("ambush")
	ambush.PartName = "c1000_0000"
	ambush.RegionName = "trigger"
	d.Events = append(d.Events, ambush)

	return d
}

func TestReadWriteRoundTrip(t *testing.T) {
	for _, f := range format.Formats {
		t.Run(f.Name, func(t *testing.T) {
			d := buildMap(f)

			data, err := Write(d)
			require.NoError(t, err)

			decoded, err := Read(data, f)
			require.NoError(t, err)

			ev := decoded.Events[0].(*document.OtherEvent)
			require.Equal(t, "c1000_0000", ev.PartName)
			require.Equal(t, "trigger", ev.RegionName)

			again, err := Write(decoded)
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestReadUnwrapsCompressed(t *testing.T) {
	d := buildMap(format.DarkSouls)

	for _, typ := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZlib,
		format.CompressionZstd,
		format.CompressionLZ4,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			wrapped, err := WriteCompressed(d, typ)
			require.NoError(t, err)
			require.True(t, dcx.Is(wrapped))

			decoded, err := Read(wrapped, format.DarkSouls)
			require.NoError(t, err)
			require.Len(t, decoded.Parts, 2)
		})
	}
}

func TestDetect(t *testing.T) {
	for _, f := range format.Formats {
		t.Run(f.Name, func(t *testing.T) {
			data, err := Write(buildMap(f))
			require.NoError(t, err)

			decoded, err := Detect(data)
			require.NoError(t, err)
			require.Equal(t, f.Name, decoded.Format.Name)
		})
	}

	t.Run("compressed", func(t *testing.T) {
		wrapped, err := WriteCompressed(buildMap(format.Bloodborne), format.CompressionZlib)
		require.NoError(t, err)

		decoded, err := Detect(wrapped)
		require.NoError(t, err)
		require.Equal(t, "Bloodborne", decoded.Format.Name)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Detect([]byte("certainly not a map container"))
		require.ErrorIs(t, err, errs.ErrInvalidContainer)
	})
}
