package systems

import (
	"image"
	"testing"

	"github.com/spaghettifunk/planetforge/engine/containers"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/compute/cpu"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerrain(t *testing.T) *TerrainTextureSystem {
	t.Helper()
	backend, err := cpu.New(2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Shutdown() })
	return NewTerrainTextureSystem(backend)
}

func testTerrainParameters() metadata.TerrainParameters {
	tp := metadata.NewDefaultPlanetData().Terrain
	tp.OctaveCount = 3
	tp.TextureResolution = 32
	return tp
}

func TestTerrainTextureRequiresInitialize(t *testing.T) {
	tts := newTestTerrain(t)
	sources, err := containers.NewCellSet(8)
	require.NoError(t, err)

	assert.ErrorIs(t, tts.GenerateHeight(testTerrainParameters()), core.ErrTerrainNotInitialized)
	assert.ErrorIs(t, tts.UpdateRiverSources(sources), core.ErrTerrainNotInitialized)
	assert.ErrorIs(t, tts.FlowRivers(1), core.ErrTerrainNotInitialized)
	_, err = tts.HeightMap()
	assert.ErrorIs(t, err, core.ErrTerrainNotInitialized)
	_, err = tts.NormalMap()
	assert.ErrorIs(t, err, core.ErrTerrainNotInitialized)
	_, err = tts.RiversMap()
	assert.ErrorIs(t, err, core.ErrTerrainNotInitialized)
}

func TestTerrainTextureInitializeValidates(t *testing.T) {
	tts := newTestTerrain(t)
	assert.ErrorIs(t, tts.Initialize(0, 8), core.ErrInvalidResolution)
	assert.ErrorIs(t, tts.Initialize(30, 8), core.ErrInvalidResolution)
	assert.Error(t, tts.Initialize(32, 0))
	assert.Error(t, tts.Initialize(32, metadata.MaxRiverGridSize+1))
	assert.Equal(t, TerrainTextureStateUninitialized, tts.State())
}

func TestTerrainTextureLifecycle(t *testing.T) {
	tts := newTestTerrain(t)
	require.NoError(t, tts.Initialize(32, 8))
	assert.Equal(t, TerrainTextureStateInitialized, tts.State())

	require.NoError(t, tts.Release())
	assert.Equal(t, TerrainTextureStateReleased, tts.State())
	require.NoError(t, tts.Release())
	assert.ErrorIs(t, tts.FlowRivers(1), core.ErrTerrainNotInitialized)

	require.NoError(t, tts.Initialize(64, 16))
	assert.Equal(t, uint32(64), tts.Resolution())
	assert.Equal(t, 16, tts.GridSize())

	// initializing twice reallocates
	require.NoError(t, tts.Initialize(32, 8))
	assert.Equal(t, uint32(32), tts.Resolution())
	require.NoError(t, tts.Release())
}

func TestTerrainTextureGenerate(t *testing.T) {
	tts := newTestTerrain(t)
	require.NoError(t, tts.Initialize(32, 8))
	defer tts.Release()

	require.NoError(t, tts.GenerateHeight(testTerrainParameters()))
	assert.Equal(t, uint64(1), tts.DispatchCount(metadata.KernelHeight))
	assert.Equal(t, uint64(1), tts.DispatchCount(metadata.KernelNormal))
	assert.Contains(t, tts.Metrics(), "CSMain")

	height, err := tts.HeightMap()
	require.NoError(t, err)
	assert.Equal(t, metadata.HeightMapName, height.Name)
	assert.Equal(t, uint8(1), height.ChannelCount)
	assert.Equal(t, metadata.TextureFilterModeLinear, height.Filter)
	assert.IsType(t, &image.Gray16{}, height.Image)
	assert.Equal(t, image.Rect(0, 0, 32, 32), height.Image.Bounds())

	normal, err := tts.NormalMap()
	require.NoError(t, err)
	assert.Equal(t, uint8(4), normal.ChannelCount)
	assert.IsType(t, &image.NRGBA64{}, normal.Image)

	rivers, err := tts.RiversMap()
	require.NoError(t, err)
	assert.Equal(t, metadata.TextureFilterModeNearest, rivers.Filter)
}

func TestTerrainTextureFlatRemap(t *testing.T) {
	tts := newTestTerrain(t)
	require.NoError(t, tts.Initialize(16, 8))
	defer tts.Release()

	params := testTerrainParameters()
	params.HeightRemap = math.NewCurve(math.Keyframe{Time: 0, Value: 0.25})
	require.NoError(t, tts.GenerateHeight(params))

	height, err := tts.HeightMap()
	require.NoError(t, err)
	gray := height.Image.(*image.Gray16)
	want := toUint16(0.25)
	for _, px := range [][2]int{{0, 0}, {7, 3}, {15, 15}} {
		assert.Equal(t, want, gray.Gray16At(px[0], px[1]).Y)
	}
}

func TestTerrainTextureRiverSources(t *testing.T) {
	tts := newTestTerrain(t)
	require.NoError(t, tts.Initialize(64, 8))
	defer tts.Release()

	wrongGrid, err := containers.NewCellSet(4)
	require.NoError(t, err)
	assert.Error(t, tts.UpdateRiverSources(wrongGrid))
	assert.ErrorIs(t, tts.UpdateRiverSources(nil), core.ErrMissingBinding)

	sources, err := containers.NewCellSetFromCells(8, []containers.GridCell{{X: 2, Y: 3}})
	require.NoError(t, err)
	require.NoError(t, tts.UpdateRiverSources(sources))

	rivers, err := tts.RiversMap()
	require.NoError(t, err)
	gray := rivers.Image.(*image.Gray16)
	assert.Equal(t, uint16(65535), gray.Gray16At(20, 28).Y)
	assert.Equal(t, uint16(0), gray.Gray16At(21, 28).Y)

	// clearing the sources clears the texture
	sources.Clear()
	require.NoError(t, tts.UpdateRiverSources(sources))
	rivers, err = tts.RiversMap()
	require.NoError(t, err)
	assert.Equal(t, uint16(0), rivers.Image.(*image.Gray16).Gray16At(20, 28).Y)
}

func TestTerrainTextureFlowRivers(t *testing.T) {
	tts := newTestTerrain(t)
	require.NoError(t, tts.Initialize(64, 8))
	defer tts.Release()

	require.NoError(t, tts.GenerateHeight(testTerrainParameters()))
	sources, err := containers.NewCellSetFromCells(8, []containers.GridCell{{X: 4, Y: 4}})
	require.NoError(t, err)
	require.NoError(t, tts.UpdateRiverSources(sources))

	require.NoError(t, tts.FlowRivers(5))
	assert.Equal(t, uint64(5), tts.DispatchCount(metadata.KernelRivers))
	require.NoError(t, tts.FlowRivers(0))

	rivers, err := tts.RiversMap()
	require.NoError(t, err)
	gray := rivers.Image.(*image.Gray16)
	wet := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if gray.Gray16At(x, y).Y > 0 {
				wet++
			}
		}
	}
	assert.Equal(t, uint16(65535), gray.Gray16At(36, 36).Y, "source stays wet")
	assert.GreaterOrEqual(t, wet, 1)
	assert.LessOrEqual(t, wet, 6)
}

// recordingBackend remembers the group counts of every dispatch.
type recordingBackend struct {
	*cpu.Backend
	sizes map[metadata.Kernel][]metadata.DispatchSize
}

func (rb *recordingBackend) Dispatch(kernel metadata.Kernel, bindings *metadata.KernelBindings, size metadata.DispatchSize) error {
	rb.sizes[kernel] = append(rb.sizes[kernel], size)
	return rb.Backend.Dispatch(kernel, bindings, size)
}

func TestTerrainTextureDispatchGroups(t *testing.T) {
	backend, err := cpu.New(2)
	require.NoError(t, err)
	defer backend.Shutdown()
	rb := &recordingBackend{Backend: backend, sizes: map[metadata.Kernel][]metadata.DispatchSize{}}

	tts := NewTerrainTextureSystem(rb)
	require.NoError(t, tts.Initialize(64, 8))
	defer tts.Release()

	sources, err := containers.NewCellSetFromCells(8, []containers.GridCell{{X: 1, Y: 1}})
	require.NoError(t, err)
	require.NoError(t, tts.GenerateHeight(testTerrainParameters()))
	require.NoError(t, tts.UpdateRiverSources(sources))
	require.NoError(t, tts.FlowRivers(2))

	want := metadata.DispatchSize{X: 8, Y: 8, Z: 1}
	assert.Equal(t, want, metadata.NewDispatchSize(64, 64))
	for _, kernel := range []metadata.Kernel{metadata.KernelHeight, metadata.KernelNormal, metadata.KernelRiverSources, metadata.KernelRivers} {
		require.NotEmpty(t, rb.sizes[kernel], "%s not dispatched", kernel)
		for _, size := range rb.sizes[kernel] {
			assert.Equal(t, want, size, "%s", kernel)
		}
	}
	assert.Len(t, rb.sizes[metadata.KernelRivers], 2)
}

func TestBuildHeightRemap(t *testing.T) {
	remap := BuildHeightRemap(math.NewLinearCurve(0, 0, 1, 1))
	require.Len(t, remap, metadata.HeightRemapSamples)
	assert.InDelta(t, 0.5, remap[128], 1e-5)
}
