package loaders

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/planetforge/engine/containers"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlanet() *metadata.PlanetData {
	pd := metadata.NewDefaultPlanetData()
	pd.Name = "Kepler"
	pd.Shape.Size = 2.5
	pd.Terrain.Seed = 1234
	pd.Terrain.NoiseType = metadata.NoiseTypePerlin
	pd.Terrain.VoronoiResult = metadata.VoronoiResultDifference
	pd.Terrain.HeightRemap = math.NewCurve(
		math.Keyframe{Time: 0, Value: 0},
		math.Keyframe{Time: 0.4, Value: 0.1, InTangent: 0.5, OutTangent: 0.5},
		math.Keyframe{Time: 1, Value: 1},
	)
	pd.TerrainMaterial.Layers[2].Texture = "grass.png"
	pd.Ocean.Enabled = true
	pd.Ocean.Height = 0.05
	pd.Rivers.Sources = []containers.GridCell{{X: 3, Y: 4}, {X: 10, Y: 60}}
	return pd
}

func TestPlanetDataRoundTrip(t *testing.T) {
	pd := testPlanet()

	var buf bytes.Buffer
	require.NoError(t, EncodePlanetData(&buf, pd))
	assert.Contains(t, buf.String(), "perlin")

	decoded, err := DecodePlanetData(&buf)
	require.NoError(t, err)
	assert.Equal(t, pd, decoded)
}

func TestDecodePlanetDataKeepsDefaults(t *testing.T) {
	doc := `
name = "Small"

[shape]
size = 4.0

[terrain]
octave_count = 3
noise_type = "voronoi"
voronoi_distance = "chebyshev"

[[terrain.height_remap.keys]]
time = 1.0
value = 0.5

[[terrain.height_remap.keys]]
time = 0.0
value = 0.0
`
	pd, err := DecodePlanetData(strings.NewReader(doc))
	require.NoError(t, err)

	defaults := metadata.NewDefaultPlanetData()
	assert.Equal(t, "Small", pd.Name)
	assert.Equal(t, float32(4), pd.Shape.Size)
	assert.Equal(t, defaults.Shape.Resolution, pd.Shape.Resolution)
	assert.Equal(t, int32(3), pd.Terrain.OctaveCount)
	assert.Equal(t, metadata.VoronoiDistanceChebyshev, pd.Terrain.VoronoiDistance)
	assert.Equal(t, defaults.TerrainMaterial.Layers, pd.TerrainMaterial.Layers)
	assert.Equal(t, defaults.Rivers.GridSize, pd.Rivers.GridSize)

	// keys are sorted on load
	require.Len(t, pd.Terrain.HeightRemap.Keys, 2)
	assert.Equal(t, float32(0), pd.Terrain.HeightRemap.Keys[0].Time)
}

func TestDecodePlanetDataRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "[shape]\nsize = 1.0\nradius = 3.0\n",
		"wrong type":       "[shape]\nsize = \"big\"\n",
		"unknown enum":     "[terrain]\nnoise_type = \"simplex\"\n",
		"invalid range":    "[terrain]\noctave_count = 0\n",
		"source off grid":  "[rivers]\ngrid_size = 4\nsources = [{x = 4, y = 0}]\n",
		"three layers":     "[[terrain_material.layers]]\n[[terrain_material.layers]]\n[[terrain_material.layers]]\n",
		"broken toml":      "[shape\n",
		"bad texture size": "[terrain]\ntexture_resolution = 1000\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePlanetData(strings.NewReader(doc))
			assert.ErrorIs(t, err, core.ErrInvalidPlanetData)
		})
	}
}

func TestSaveAndLoadPlanetData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planets", "kepler.toml")
	pd := testPlanet()

	require.NoError(t, SavePlanetData(path, pd))
	loaded, err := LoadPlanetData(path)
	require.NoError(t, err)
	assert.Equal(t, pd, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	res, err := (&PlanetDataLoader{}).Load(path, metadata.ResourceTypePlanetData, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kepler", res.Name)
	assert.Equal(t, metadata.ResourceTypePlanetData, res.Type)
	assert.Positive(t, res.DataSize)
}

func TestSavePlanetDataRefusesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	pd := testPlanet()
	pd.Shape.Resolution = 0

	assert.ErrorIs(t, SavePlanetData(path, pd), core.ErrInvalidPlanetData)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadPlanetDataMissingFile(t *testing.T) {
	_, err := LoadPlanetData(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
