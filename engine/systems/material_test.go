package systems

import (
	"testing"

	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindMaterialsTerrainOnly(t *testing.T) {
	data := metadata.NewDefaultPlanetData()
	data.Terrain.MountainsHeight = 42
	data.TerrainMaterial.Layers[1].Height = 0.3
	data.TerrainMaterial.Layers[3].Texture = "rock.png"

	bindings := BindMaterials(data)
	for _, b := range bindings {
		assert.Equal(t, metadata.MaterialTargetTerrain, b.Target)
	}

	b, ok := FindBinding(bindings, metadata.MaterialTargetTerrain, metadata.SlotDisplacementIntensity)
	require.True(t, ok)
	assert.Equal(t, float32(42), b.Float)

	b, ok = FindBinding(bindings, metadata.MaterialTargetTerrain, metadata.SlotTexture02Height)
	require.True(t, ok)
	assert.Equal(t, float32(0.3), b.Float)

	b, ok = FindBinding(bindings, metadata.MaterialTargetTerrain, metadata.SlotTexture04)
	require.True(t, ok)
	assert.Equal(t, metadata.MaterialValueTexture, b.Kind)
	assert.Equal(t, "rock.png", b.Texture)

	b, ok = FindBinding(bindings, metadata.MaterialTargetTerrain, metadata.SlotRiversMap)
	require.True(t, ok)
	assert.Equal(t, metadata.RiversMapName, b.Texture)
	assert.Equal(t, "_RiversMap", b.Slot.PropertyName())

	// 4 layers x 4 slots, 3 heights, displacement, separation and 3 maps
	assert.Len(t, bindings, 16+3+1+1+3)
}

func TestBindMaterialsOptionalFeatures(t *testing.T) {
	data := metadata.NewDefaultPlanetData()
	data.Shape.Size = 10
	data.Atmosphere.Enabled = true
	data.Atmosphere.Radius = 0.5
	data.Ocean.Enabled = true
	data.Ocean.Height = -0.25
	data.Rings.Enabled = true
	data.Rings.Size = 3
	data.Rings.Rotation = math.NewVec3(10, 20, 30)

	bindings := BindMaterials(data)

	b, ok := FindBinding(bindings, metadata.MaterialTargetAtmosphere, metadata.SlotAtmosphereRadius)
	require.True(t, ok)
	assert.Equal(t, float32(10.5), b.Float)

	b, ok = FindBinding(bindings, metadata.MaterialTargetOcean, metadata.SlotOceanScale)
	require.True(t, ok)
	assert.Equal(t, float32(9.75), b.Float)

	b, ok = FindBinding(bindings, metadata.MaterialTargetRings, metadata.SlotRingsScale)
	require.True(t, ok)
	assert.Equal(t, float32(13), b.Float)

	b, ok = FindBinding(bindings, metadata.MaterialTargetRings, metadata.SlotRingsRotation)
	require.True(t, ok)
	assert.Equal(t, metadata.MaterialValueVector, b.Kind)
	assert.Equal(t, math.NewVec4(10, 20, 30, 0), b.Vector)

	data.Ocean.Enabled = false
	_, ok = FindBinding(BindMaterials(data), metadata.MaterialTargetOcean, metadata.SlotOceanScale)
	assert.False(t, ok)
}
