package metadata

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/planetforge/engine/containers"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
)

const (
	TerrainLayerCount int = 4
	/** @brief Highest face resolution accepted for a planet. */
	MaxPlanetResolution uint32 = 250
	/** @brief Largest river source grid accepted, in cells per side. */
	MaxRiverGridSize int = 1024
	/** @brief Highest octave count accepted by the height kernel. */
	MaxOctaveCount int32 = 16
	/** @brief Smallest atmosphere radius relative to the planet size. */
	MinAtmosphereRadius float32 = 0
)

/**
 * @brief Everything authored for one planet. A single owned value: it is
 * loaded, applied to the planet and saved explicitly.
 */
type PlanetData struct {
	Name            string                    `toml:"name"`
	Shape           ShapeParameters           `toml:"shape"`
	Terrain         TerrainParameters         `toml:"terrain"`
	TerrainMaterial TerrainMaterialParameters `toml:"terrain_material"`
	Atmosphere      AtmosphereParameters      `toml:"atmosphere"`
	Ocean           OceanParameters           `toml:"ocean"`
	Rings           RingsParameters           `toml:"rings"`
	Rivers          RiverParameters           `toml:"rivers"`
}

type ShapeParameters struct {
	/** @brief World-space radius of the planet. */
	Size float32 `toml:"size"`
	/** @brief Subdivisions per cube face edge. */
	Resolution uint32 `toml:"resolution"`
}

type TerrainParameters struct {
	Seed             int32           `toml:"seed"`
	MountainsHeight  float32         `toml:"mountains_height"`
	HeightRemap      math.Curve      `toml:"height_remap"`
	NoiseScale       float32         `toml:"noise_scale"`
	OctaveCount      int32           `toml:"octave_count"`
	NoiseGain        float32         `toml:"noise_gain"`
	NoiseLacunarity  float32         `toml:"noise_lacunarity"`
	DetailsIntensity float32         `toml:"details_intensity"`
	NoiseType        NoiseType       `toml:"noise_type"`
	VoronoiDistance  VoronoiDistance `toml:"voronoi_distance"`
	VoronoiResult    VoronoiResult   `toml:"voronoi_result"`
	NormalIntensity  float32         `toml:"normal_intensity"`
	NormalLimitation float32         `toml:"normal_limitation"`
	AOIntensity      float32         `toml:"ao_intensity"`
	Position         math.Vec3       `toml:"position"`
	/** @brief Width and height of the generated textures, a multiple of 8. */
	TextureResolution uint32 `toml:"texture_resolution"`
}

type TerrainLayer struct {
	Texture    string    `toml:"texture"`
	Colour     math.Vec4 `toml:"colour"`
	Tiling     float32   `toml:"tiling"`
	Smoothness float32   `toml:"smoothness"`
	/** @brief Normalised height where the layer starts. Ignored for the first layer. */
	Height float32 `toml:"height"`
}

type TerrainMaterialParameters struct {
	Layers               []TerrainLayer `toml:"layers"`
	SeparationSmoothness float32        `toml:"separation_smoothness"`
}

type AtmosphereParameters struct {
	Enabled                  bool      `toml:"enabled"`
	MainColour               math.Vec4 `toml:"main_colour"`
	HorizonColour            math.Vec4 `toml:"horizon_colour"`
	Radius                   float32   `toml:"radius"`
	Density                  float32   `toml:"density"`
	EdgeSmoothness           float32   `toml:"edge_smoothness"`
	LightingDistance         float32   `toml:"lighting_distance"`
	PlanetVisibilityModifier float32   `toml:"planet_visibility_modifier"`
}

type OceanParameters struct {
	Enabled                  bool      `toml:"enabled"`
	Height                   float32   `toml:"height"`
	Colour                   math.Vec4 `toml:"colour"`
	Texture                  string    `toml:"texture"`
	NormalTexture            string    `toml:"normal_texture"`
	TextureTiling            float32   `toml:"texture_tiling"`
	Smoothness               float32   `toml:"smoothness"`
	Metalness                float32   `toml:"metalness"`
	HeightVariationIntensity float32   `toml:"height_variation_intensity"`
	HeightVariationFrequency float32   `toml:"height_variation_frequency"`
	HeightVariationSeed      float32   `toml:"height_variation_seed"`
	MovementSpeed            float32   `toml:"movement_speed"`
}

type RingsParameters struct {
	Enabled bool    `toml:"enabled"`
	Size    float32 `toml:"size"`
	/** @brief Euler angles in degrees. */
	Rotation math.Vec3 `toml:"rotation"`
	Width    float32   `toml:"width"`
	Colour   math.Vec4 `toml:"colour"`
	Texture  string    `toml:"texture"`
}

type RiverParameters struct {
	GridSize int                   `toml:"grid_size"`
	Sources  []containers.GridCell `toml:"sources"`
}

// NewDefaultPlanetData returns the values carried by the reference assets.
func NewDefaultPlanetData() *PlanetData {
	white := math.NewVec4(1, 1, 1, 1)
	layers := make([]TerrainLayer, TerrainLayerCount)
	for i := range layers {
		layers[i] = TerrainLayer{
			Colour:     white,
			Tiling:     1.0,
			Smoothness: 0.0,
			Height:     float32(i) / float32(TerrainLayerCount),
		}
	}

	return &PlanetData{
		Name: "Planet",
		Shape: ShapeParameters{
			Size:       1.0,
			Resolution: 5,
		},
		Terrain: TerrainParameters{
			Seed:              0,
			MountainsHeight:   100.0,
			HeightRemap:       math.NewLinearCurve(0, 0, 1, 1),
			NoiseScale:        300.0,
			OctaveCount:       10,
			NoiseGain:         2.0,
			NoiseLacunarity:   0.5,
			DetailsIntensity:  1.0,
			NoiseType:         NoiseTypeVoronoi,
			VoronoiDistance:   VoronoiDistanceEuclidean,
			VoronoiResult:     VoronoiResultAverage,
			NormalIntensity:   10.0,
			NormalLimitation:  1.0,
			AOIntensity:       0.0,
			Position:          math.NewVec3Zero(),
			TextureResolution: DefaultTextureResolution,
		},
		TerrainMaterial: TerrainMaterialParameters{
			Layers:               layers,
			SeparationSmoothness: 0.0,
		},
		Atmosphere: AtmosphereParameters{
			Enabled:                  false,
			MainColour:               math.NewVec4(0.35, 0.6, 1.0, 1.0),
			HorizonColour:            math.NewVec4(0.8, 0.9, 1.0, 1.0),
			Radius:                   0.2,
			Density:                  1.0,
			EdgeSmoothness:           1.0,
			LightingDistance:         1.0,
			PlanetVisibilityModifier: 1.0,
		},
		Ocean: OceanParameters{
			Enabled:       false,
			Height:        0.0,
			Colour:        math.NewVec4(0.05, 0.25, 0.5, 1.0),
			TextureTiling: 1.0,
			Smoothness:    0.5,
			Metalness:     0.0,
		},
		Rings: RingsParameters{
			Enabled:  false,
			Size:     1.0,
			Rotation: math.NewVec3Zero(),
			Width:    1.0,
			Colour:   white,
		},
		Rivers: RiverParameters{
			GridSize: DefaultRiverGridSize,
			Sources:  []containers.GridCell{},
		},
	}
}

// Clone returns a deep copy.
func (pd *PlanetData) Clone() *PlanetData {
	c := *pd
	c.Terrain.HeightRemap = math.NewCurve(pd.Terrain.HeightRemap.Keys...)
	c.TerrainMaterial.Layers = append([]TerrainLayer(nil), pd.TerrainMaterial.Layers...)
	c.Rivers.Sources = append([]containers.GridCell(nil), pd.Rivers.Sources...)
	return &c
}

// KernelParams maps the terrain section onto the kernel parameter set. The
// details intensity scales the normal intensity.
func (tp *TerrainParameters) KernelParams(riverGridSize int) *KernelParams {
	return &KernelParams{
		Seed:             tp.Seed,
		NoiseScale:       tp.NoiseScale,
		OctaveCount:      tp.OctaveCount,
		NoiseGain:        tp.NoiseGain,
		NoiseLacunarity:  tp.NoiseLacunarity,
		NormalIntensity:  tp.NormalIntensity * tp.DetailsIntensity,
		NormalLimitation: tp.NormalLimitation,
		AOIntensity:      tp.AOIntensity,
		Position:         tp.Position,
		NoiseType:        tp.NoiseType,
		VoronoiDistance:  tp.VoronoiDistance,
		VoronoiResult:    tp.VoronoiResult,
		RiverGridSize:    uint32(riverGridSize),
	}
}

/**
 * @brief Checks the value ranges of every section. All problems are reported
 * together, wrapped in core.ErrInvalidPlanetData.
 */
func (pd *PlanetData) Validate() error {
	var problems []error
	fail := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if pd.Shape.Size <= 0 {
		fail("shape.size must be > 0, got %v", pd.Shape.Size)
	}
	if pd.Shape.Resolution == 0 || pd.Shape.Resolution > MaxPlanetResolution {
		fail("shape.resolution must be in [1, %d], got %d", MaxPlanetResolution, pd.Shape.Resolution)
	}

	t := &pd.Terrain
	if t.TextureResolution == 0 || t.TextureResolution%KernelGroupSize != 0 {
		fail("terrain.texture_resolution must be a positive multiple of %d, got %d", KernelGroupSize, t.TextureResolution)
	}
	if t.NoiseScale <= 0 {
		fail("terrain.noise_scale must be > 0, got %v", t.NoiseScale)
	}
	if t.OctaveCount < 1 || t.OctaveCount > MaxOctaveCount {
		fail("terrain.octave_count must be in [1, %d], got %d", MaxOctaveCount, t.OctaveCount)
	}
	if t.NoiseGain < 1 || t.NoiseGain > 3 {
		fail("terrain.noise_gain must be in [1, 3], got %v", t.NoiseGain)
	}
	if t.NoiseLacunarity < 0.1 || t.NoiseLacunarity > 0.9 {
		fail("terrain.noise_lacunarity must be in [0.1, 0.9], got %v", t.NoiseLacunarity)
	}
	if t.MountainsHeight < 0 {
		fail("terrain.mountains_height must be >= 0, got %v", t.MountainsHeight)
	}
	if t.NormalLimitation <= 0 {
		fail("terrain.normal_limitation must be > 0, got %v", t.NormalLimitation)
	}
	if t.AOIntensity < 0 {
		fail("terrain.ao_intensity must be >= 0, got %v", t.AOIntensity)
	}
	if t.NoiseType < NoiseTypePerlin || t.NoiseType > NoiseTypeVoronoi {
		fail("terrain.noise_type is invalid: %d", int(t.NoiseType))
	}
	if t.VoronoiDistance < VoronoiDistanceEuclideanSquare || t.VoronoiDistance > VoronoiDistanceChebyshev {
		fail("terrain.voronoi_distance is invalid: %d", int(t.VoronoiDistance))
	}
	if t.VoronoiResult < VoronoiResultClosest || t.VoronoiResult > VoronoiResultAverage {
		fail("terrain.voronoi_result is invalid: %d", int(t.VoronoiResult))
	}
	if err := t.HeightRemap.Validate(); err != nil {
		fail("terrain.height_remap: %v", err)
	}

	if len(pd.TerrainMaterial.Layers) != TerrainLayerCount {
		fail("terrain_material.layers must hold %d layers, got %d", TerrainLayerCount, len(pd.TerrainMaterial.Layers))
	}
	for i, l := range pd.TerrainMaterial.Layers {
		if !isColour(l.Colour) {
			fail("terrain_material.layers[%d].colour must be in [0, 1]", i)
		}
		if l.Height < 0 || l.Height > 1 {
			fail("terrain_material.layers[%d].height must be in [0, 1], got %v", i, l.Height)
		}
	}

	a := &pd.Atmosphere
	if a.Radius < MinAtmosphereRadius {
		fail("atmosphere.radius must be >= %v, got %v", MinAtmosphereRadius, a.Radius)
	}
	if !isColour(a.MainColour) || !isColour(a.HorizonColour) {
		fail("atmosphere colours must be in [0, 1]")
	}

	o := &pd.Ocean
	if !isColour(o.Colour) {
		fail("ocean.colour must be in [0, 1]")
	}
	if o.Smoothness < 0 || o.Smoothness > 1 || o.Metalness < 0 || o.Metalness > 1 {
		fail("ocean smoothness and metalness must be in [0, 1]")
	}

	r := &pd.Rings
	if r.Size < 0 || r.Width < 0 {
		fail("rings size and width must be >= 0")
	}
	if !isColour(r.Colour) {
		fail("rings.colour must be in [0, 1]")
	}

	if pd.Rivers.GridSize <= 0 || pd.Rivers.GridSize > MaxRiverGridSize {
		fail("rivers.grid_size must be in [1, %d], got %d", MaxRiverGridSize, pd.Rivers.GridSize)
	} else if _, err := containers.NewCellSetFromCells(pd.Rivers.GridSize, pd.Rivers.Sources); err != nil {
		fail("rivers.sources: %v", err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidPlanetData, errors.Join(problems...))
	}
	return nil
}

func isColour(c math.Vec4) bool {
	for _, v := range [4]float32{c.X, c.Y, c.Z, c.W} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}
