package metadata

import (
	"fmt"

	"github.com/spaghettifunk/planetforge/engine/math"
)

/**
 * @brief The material a binding is applied to.
 */
type MaterialTarget int

const (
	MaterialTargetTerrain MaterialTarget = iota
	MaterialTargetAtmosphere
	MaterialTargetOcean
	MaterialTargetRings
)

func (t MaterialTarget) String() string {
	switch t {
	case MaterialTargetTerrain:
		return "terrain"
	case MaterialTargetAtmosphere:
		return "atmosphere"
	case MaterialTargetOcean:
		return "ocean"
	case MaterialTargetRings:
		return "rings"
	default:
		return fmt.Sprintf("MaterialTarget(%d)", int(t))
	}
}

/**
 * @brief Enumerated material slots. Each maps to one fixed shader property
 * name, or to the transform of the target for scale and rotation.
 */
type MaterialSlot int

const (
	// terrain
	SlotDisplacementIntensity MaterialSlot = iota
	SlotTexture01
	SlotTexture02
	SlotTexture03
	SlotTexture04
	SlotColor01
	SlotColor02
	SlotColor03
	SlotColor04
	SlotTilingTexture01
	SlotTilingTexture02
	SlotTilingTexture03
	SlotTilingTexture04
	SlotSmoothnessTexture01
	SlotSmoothnessTexture02
	SlotSmoothnessTexture03
	SlotSmoothnessTexture04
	SlotTexture02Height
	SlotTexture03Height
	SlotTexture04Height
	SlotTextureSeparationSmoothness
	SlotHeightMap
	SlotNormalMap
	SlotRiversMap
	// atmosphere
	SlotAtmosphereMainColor
	SlotAtmosphereHorizonColor
	SlotAtmosphereRadius
	SlotAtmosphereDensity
	SlotAtmosphereDensityPower
	SlotAtmospherePlanetVisibility
	SlotAtmosphereLightingRadius
	// ocean
	SlotOceanColor
	SlotOceanScale
	SlotOceanTexture
	SlotOceanNormalTexture
	SlotOceanTextureTiling
	SlotOceanSmoothness
	SlotOceanMetalness
	SlotOceanHeightVariation
	SlotOceanHeightNoiseScale
	SlotOceanSeed
	SlotOceanMovementSpeed
	// rings
	SlotRingsScale
	SlotRingsRotation
	SlotRingsWidth
	SlotRingsColor
	SlotRingsTexture
	slotCount
)

var materialSlotNames = [slotCount]string{
	SlotDisplacementIntensity:       "_DisplacementIntensity",
	SlotTexture01:                   "_Texture01",
	SlotTexture02:                   "_Texture02",
	SlotTexture03:                   "_Texture03",
	SlotTexture04:                   "_Texture04",
	SlotColor01:                     "_Color01",
	SlotColor02:                     "_Color02",
	SlotColor03:                     "_Color03",
	SlotColor04:                     "_Color04",
	SlotTilingTexture01:             "_TillingTexture01",
	SlotTilingTexture02:             "_TillingTexture02",
	SlotTilingTexture03:             "_TillingTexture03",
	SlotTilingTexture04:             "_TillingTexture04",
	SlotSmoothnessTexture01:         "_SmoothnessTexture01",
	SlotSmoothnessTexture02:         "_SmoothnessTexture02",
	SlotSmoothnessTexture03:         "_SmoothnessTexture03",
	SlotSmoothnessTexture04:         "_SmoothnessTexture04",
	SlotTexture02Height:             "_Texture02Height",
	SlotTexture03Height:             "_Texture03Height",
	SlotTexture04Height:             "_Texture04Height",
	SlotTextureSeparationSmoothness: "_TextureSeparationSmoothness",
	SlotHeightMap:                   "_HeightMap",
	SlotNormalMap:                   "_NormalMap",
	SlotRiversMap:                   "_RiversMap",
	SlotAtmosphereMainColor:         "_BaseColor",
	SlotAtmosphereHorizonColor:      "_HorizonColor",
	SlotAtmosphereRadius:            "_Radius",
	SlotAtmosphereDensity:           "_Density",
	SlotAtmosphereDensityPower:      "_DensityPower",
	SlotAtmospherePlanetVisibility:  "_PlanetVisibility",
	SlotAtmosphereLightingRadius:    "_LightingRadius",
	SlotOceanColor:                  "_Color",
	SlotOceanScale:                  "localScale",
	SlotOceanTexture:                "_BaseColor",
	SlotOceanNormalTexture:          "_Normal",
	SlotOceanTextureTiling:          "_WaterTextureTilling",
	SlotOceanSmoothness:             "_Smoothness",
	SlotOceanMetalness:              "_Metalness",
	SlotOceanHeightVariation:        "_OceanHeightVariation",
	SlotOceanHeightNoiseScale:       "_HeightNoiseScale",
	SlotOceanSeed:                   "_Seed",
	SlotOceanMovementSpeed:          "_WaterMovementSpeed",
	SlotRingsScale:                  "localScale",
	SlotRingsRotation:               "rotation",
	SlotRingsWidth:                  "_Width",
	SlotRingsColor:                  "_Color",
	SlotRingsTexture:                "_MainTex",
}

// PropertyName returns the shader property the slot writes.
func (s MaterialSlot) PropertyName() string {
	if s < 0 || s >= slotCount {
		return fmt.Sprintf("MaterialSlot(%d)", int(s))
	}
	return materialSlotNames[s]
}

func (s MaterialSlot) String() string { return s.PropertyName() }

type MaterialValueKind int

const (
	MaterialValueFloat MaterialValueKind = iota
	MaterialValueVector
	MaterialValueColour
	MaterialValueTexture
)

/**
 * @brief One typed property write on a material. Only the field matching
 * Kind is meaningful.
 */
type MaterialBinding struct {
	Target  MaterialTarget
	Slot    MaterialSlot
	Kind    MaterialValueKind
	Float   float32
	Vector  math.Vec4
	Texture string
}
