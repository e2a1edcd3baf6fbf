package systems

import (
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

var (
	layerTextureSlots    = [metadata.TerrainLayerCount]metadata.MaterialSlot{metadata.SlotTexture01, metadata.SlotTexture02, metadata.SlotTexture03, metadata.SlotTexture04}
	layerColourSlots     = [metadata.TerrainLayerCount]metadata.MaterialSlot{metadata.SlotColor01, metadata.SlotColor02, metadata.SlotColor03, metadata.SlotColor04}
	layerTilingSlots     = [metadata.TerrainLayerCount]metadata.MaterialSlot{metadata.SlotTilingTexture01, metadata.SlotTilingTexture02, metadata.SlotTilingTexture03, metadata.SlotTilingTexture04}
	layerSmoothnessSlots = [metadata.TerrainLayerCount]metadata.MaterialSlot{metadata.SlotSmoothnessTexture01, metadata.SlotSmoothnessTexture02, metadata.SlotSmoothnessTexture03, metadata.SlotSmoothnessTexture04}
	// the first layer has no start height
	layerHeightSlots = [metadata.TerrainLayerCount]metadata.MaterialSlot{-1, metadata.SlotTexture02Height, metadata.SlotTexture03Height, metadata.SlotTexture04Height}
)

type materialWriter struct {
	target   metadata.MaterialTarget
	bindings []metadata.MaterialBinding
}

func (mw *materialWriter) float(slot metadata.MaterialSlot, v float32) {
	mw.bindings = append(mw.bindings, metadata.MaterialBinding{Target: mw.target, Slot: slot, Kind: metadata.MaterialValueFloat, Float: v})
}

func (mw *materialWriter) colour(slot metadata.MaterialSlot, c math.Vec4) {
	mw.bindings = append(mw.bindings, metadata.MaterialBinding{Target: mw.target, Slot: slot, Kind: metadata.MaterialValueColour, Vector: c})
}

func (mw *materialWriter) vector(slot metadata.MaterialSlot, v math.Vec3) {
	mw.bindings = append(mw.bindings, metadata.MaterialBinding{Target: mw.target, Slot: slot, Kind: metadata.MaterialValueVector, Vector: math.NewVec4(v.X, v.Y, v.Z, 0)})
}

func (mw *materialWriter) texture(slot metadata.MaterialSlot, path string) {
	mw.bindings = append(mw.bindings, metadata.MaterialBinding{Target: mw.target, Slot: slot, Kind: metadata.MaterialValueTexture, Texture: path})
}

/**
 * @brief Maps the planet record onto the material slots of the terrain,
 * atmosphere, ocean and rings. Disabled features produce no binding.
 */
func BindMaterials(data *metadata.PlanetData) []metadata.MaterialBinding {
	var out []metadata.MaterialBinding

	terrain := &materialWriter{target: metadata.MaterialTargetTerrain}
	terrain.float(metadata.SlotDisplacementIntensity, data.Terrain.MountainsHeight)
	for i, layer := range data.TerrainMaterial.Layers {
		if i >= metadata.TerrainLayerCount {
			break
		}
		terrain.texture(layerTextureSlots[i], layer.Texture)
		terrain.colour(layerColourSlots[i], layer.Colour)
		terrain.float(layerTilingSlots[i], layer.Tiling)
		terrain.float(layerSmoothnessSlots[i], layer.Smoothness)
		if layerHeightSlots[i] >= 0 {
			terrain.float(layerHeightSlots[i], layer.Height)
		}
	}
	terrain.float(metadata.SlotTextureSeparationSmoothness, data.TerrainMaterial.SeparationSmoothness)
	terrain.texture(metadata.SlotHeightMap, metadata.HeightMapName)
	terrain.texture(metadata.SlotNormalMap, metadata.NormalMapName)
	terrain.texture(metadata.SlotRiversMap, metadata.RiversMapName)
	out = append(out, terrain.bindings...)

	if a := &data.Atmosphere; a.Enabled {
		atmosphere := &materialWriter{target: metadata.MaterialTargetAtmosphere}
		atmosphere.colour(metadata.SlotAtmosphereMainColor, a.MainColour)
		atmosphere.colour(metadata.SlotAtmosphereHorizonColor, a.HorizonColour)
		atmosphere.float(metadata.SlotAtmosphereRadius, a.Radius+data.Shape.Size)
		atmosphere.float(metadata.SlotAtmosphereDensity, a.Density)
		atmosphere.float(metadata.SlotAtmosphereDensityPower, a.EdgeSmoothness)
		atmosphere.float(metadata.SlotAtmospherePlanetVisibility, a.PlanetVisibilityModifier)
		atmosphere.float(metadata.SlotAtmosphereLightingRadius, a.LightingDistance)
		out = append(out, atmosphere.bindings...)
	}

	if o := &data.Ocean; o.Enabled {
		ocean := &materialWriter{target: metadata.MaterialTargetOcean}
		ocean.float(metadata.SlotOceanScale, data.Shape.Size+o.Height)
		ocean.colour(metadata.SlotOceanColor, o.Colour)
		ocean.texture(metadata.SlotOceanTexture, o.Texture)
		ocean.texture(metadata.SlotOceanNormalTexture, o.NormalTexture)
		ocean.float(metadata.SlotOceanTextureTiling, o.TextureTiling)
		ocean.float(metadata.SlotOceanSmoothness, o.Smoothness)
		ocean.float(metadata.SlotOceanMetalness, o.Metalness)
		ocean.float(metadata.SlotOceanHeightVariation, o.HeightVariationIntensity)
		ocean.float(metadata.SlotOceanHeightNoiseScale, o.HeightVariationFrequency)
		ocean.float(metadata.SlotOceanSeed, o.HeightVariationSeed)
		ocean.float(metadata.SlotOceanMovementSpeed, o.MovementSpeed)
		out = append(out, ocean.bindings...)
	}

	if r := &data.Rings; r.Enabled {
		rings := &materialWriter{target: metadata.MaterialTargetRings}
		rings.float(metadata.SlotRingsScale, data.Shape.Size+r.Size)
		rings.vector(metadata.SlotRingsRotation, r.Rotation)
		rings.float(metadata.SlotRingsWidth, r.Width)
		rings.colour(metadata.SlotRingsColor, r.Colour)
		rings.texture(metadata.SlotRingsTexture, r.Texture)
		out = append(out, rings.bindings...)
	}

	return out
}

// FindBinding returns the binding of slot on target.
func FindBinding(bindings []metadata.MaterialBinding, target metadata.MaterialTarget, slot metadata.MaterialSlot) (metadata.MaterialBinding, bool) {
	for _, b := range bindings {
		if b.Target == target && b.Slot == slot {
			return b, true
		}
	}
	return metadata.MaterialBinding{}, false
}
