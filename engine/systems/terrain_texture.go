package systems

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spaghettifunk/planetforge/engine/containers"
	"github.com/spaghettifunk/planetforge/engine/core"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/compute"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

type TerrainTextureState int

const (
	TerrainTextureStateUninitialized TerrainTextureState = iota
	TerrainTextureStateInitialized
	TerrainTextureStateReleased
)

func (s TerrainTextureState) String() string {
	switch s {
	case TerrainTextureStateInitialized:
		return "initialized"
	case TerrainTextureStateReleased:
		return "released"
	default:
		return "uninitialized"
	}
}

/**
 * @brief Drives the terrain texture kernel: height, normal and rivers
 * textures plus the buffers they are generated from. Every dispatch, upload
 * and read back requires the system to be initialized.
 */
type TerrainTextureSystem struct {
	backend compute.Backend
	state   TerrainTextureState

	resolution uint32
	gridSize   int

	heightRemap  *metadata.ComputeBuffer
	riverSources *metadata.ComputeBuffer
	heightMap    *metadata.RenderTexture
	normalMap    *metadata.RenderTexture
	riversMap    *metadata.RenderTexture

	// parameters of the last height dispatch
	params *metadata.KernelParams

	clock   *core.Clock
	metrics *core.DispatchMetrics
}

func NewTerrainTextureSystem(backend compute.Backend) *TerrainTextureSystem {
	return &TerrainTextureSystem{
		backend: backend,
		state:   TerrainTextureStateUninitialized,
		clock:   core.NewClock(),
		metrics: core.NewDispatchMetrics(),
	}
}

func (tts *TerrainTextureSystem) State() TerrainTextureState {
	return tts.state
}

func (tts *TerrainTextureSystem) Resolution() uint32 {
	return tts.resolution
}

func (tts *TerrainTextureSystem) GridSize() int {
	return tts.gridSize
}

/**
 * @brief Allocates the textures and buffers.
 * @param textureResolution Width and height of the textures, a positive multiple of 8.
 * @param gridSize The size of the river source grid.
 */
func (tts *TerrainTextureSystem) Initialize(textureResolution uint32, gridSize int) error {
	if tts.state == TerrainTextureStateInitialized {
		core.LogWarn("terrain texture system already initialized, reinitializing")
		return tts.Reinitialize(textureResolution, gridSize)
	}
	if textureResolution == 0 || textureResolution%metadata.KernelGroupSize != 0 {
		err := fmt.Errorf("texture resolution %d: %w", textureResolution, core.ErrInvalidResolution)
		core.LogError(err.Error())
		return err
	}
	if gridSize <= 0 || gridSize > metadata.MaxRiverGridSize {
		err := fmt.Errorf("river grid size must be in [1, %d], got %d", metadata.MaxRiverGridSize, gridSize)
		core.LogError(err.Error())
		return err
	}

	if err := tts.allocate(textureResolution, gridSize); err != nil {
		core.LogError("failed to allocate terrain textures: %s", err)
		tts.releaseResources()
		return err
	}

	tts.resolution = textureResolution
	tts.gridSize = gridSize
	tts.state = TerrainTextureStateInitialized
	core.LogDebug("terrain texture system initialized: %dx%d textures, %d river grid", textureResolution, textureResolution, gridSize)
	return nil
}

func (tts *TerrainTextureSystem) allocate(resolution uint32, gridSize int) error {
	var err error
	if tts.heightRemap, err = tts.backend.BufferCreate("HeightRemap", uint32(metadata.HeightRemapSamples)); err != nil {
		return err
	}
	if tts.riverSources, err = tts.backend.BufferCreate("RiverSources", uint32(gridSize*gridSize)); err != nil {
		return err
	}
	if tts.heightMap, err = tts.backend.TextureCreate(&metadata.RenderTextureConfig{
		Name:   metadata.HeightMapName,
		Width:  resolution,
		Height: resolution,
		Format: metadata.TextureFormatR16,
		Filter: metadata.TextureFilterModeLinear,
	}); err != nil {
		return err
	}
	if tts.normalMap, err = tts.backend.TextureCreate(&metadata.RenderTextureConfig{
		Name:   metadata.NormalMapName,
		Width:  resolution,
		Height: resolution,
		Format: metadata.TextureFormatRGBAHalf,
		Filter: metadata.TextureFilterModeLinear,
	}); err != nil {
		return err
	}
	if tts.riversMap, err = tts.backend.TextureCreate(&metadata.RenderTextureConfig{
		Name:   metadata.RiversMapName,
		Width:  resolution,
		Height: resolution,
		Format: metadata.TextureFormatR16,
		Filter: metadata.TextureFilterModeNearest,
	}); err != nil {
		return err
	}
	return nil
}

// Reinitialize releases every resource and allocates them again.
func (tts *TerrainTextureSystem) Reinitialize(textureResolution uint32, gridSize int) error {
	if err := tts.Release(); err != nil {
		return err
	}
	return tts.Initialize(textureResolution, gridSize)
}

/**
 * @brief Releases every allocated resource. Calling it more than once, or on
 * a system that was never initialized, does nothing.
 */
func (tts *TerrainTextureSystem) Release() error {
	if tts.state != TerrainTextureStateInitialized {
		return nil
	}
	err := tts.releaseResources()
	tts.state = TerrainTextureStateReleased
	tts.params = nil
	return err
}

// releaseResources destroys every non-nil handle and clears it. The first
// error is returned, the remaining handles are still released.
func (tts *TerrainTextureSystem) releaseResources() error {
	var firstErr error
	keep := func(err error) {
		if err != nil {
			core.LogError(err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if tts.heightRemap != nil {
		keep(tts.backend.BufferDestroy(tts.heightRemap))
		tts.heightRemap = nil
	}
	if tts.riverSources != nil {
		keep(tts.backend.BufferDestroy(tts.riverSources))
		tts.riverSources = nil
	}
	if tts.heightMap != nil {
		keep(tts.backend.TextureDestroy(tts.heightMap))
		tts.heightMap = nil
	}
	if tts.normalMap != nil {
		keep(tts.backend.TextureDestroy(tts.normalMap))
		tts.normalMap = nil
	}
	if tts.riversMap != nil {
		keep(tts.backend.TextureDestroy(tts.riversMap))
		tts.riversMap = nil
	}
	return firstErr
}

func (tts *TerrainTextureSystem) ensureInitialized(op string) error {
	if tts.state != TerrainTextureStateInitialized {
		err := fmt.Errorf("%s (state %s): %w", op, tts.state, core.ErrTerrainNotInitialized)
		core.LogError(err.Error())
		return err
	}
	return nil
}

/**
 * @brief Uploads the height remap table sampled from the curve and runs the
 * height and normal kernels.
 */
func (tts *TerrainTextureSystem) GenerateHeight(params metadata.TerrainParameters) error {
	if err := tts.ensureInitialized("generate height"); err != nil {
		return err
	}

	remap := BuildHeightRemap(params.HeightRemap)
	if err := tts.backend.BufferWrite(tts.heightRemap, remap); err != nil {
		core.LogError("failed to upload the height remap: %s", err)
		return err
	}

	tts.params = params.KernelParams(tts.gridSize)
	bindings := &metadata.KernelBindings{
		Params:       tts.params,
		HeightRemap:  tts.heightRemap,
		HeightOutput: tts.heightMap,
	}
	if err := tts.dispatch(metadata.KernelHeight, bindings); err != nil {
		return err
	}

	bindings = &metadata.KernelBindings{
		Params:       tts.params,
		HeightInput:  tts.heightMap,
		NormalOutput: tts.normalMap,
	}
	return tts.dispatch(metadata.KernelNormal, bindings)
}

// BuildHeightRemap samples the curve at t = i/256 for i in [0, 256).
func BuildHeightRemap(curve math.Curve) []float32 {
	return curve.Sample(metadata.HeightRemapSamples)
}

/**
 * @brief Uploads the source mask and runs the kernel that clears the rivers
 * texture and stamps the sources.
 */
func (tts *TerrainTextureSystem) UpdateRiverSources(sources *containers.CellSet) error {
	if err := tts.ensureInitialized("update river sources"); err != nil {
		return err
	}
	if sources == nil {
		err := fmt.Errorf("update river sources: source set: %w", core.ErrMissingBinding)
		core.LogError(err.Error())
		return err
	}
	if sources.GridSize() != tts.gridSize {
		err := fmt.Errorf("river source grid is %d, system grid is %d", sources.GridSize(), tts.gridSize)
		core.LogError(err.Error())
		return err
	}

	if err := tts.backend.BufferWrite(tts.riverSources, sources.BuildMask()); err != nil {
		core.LogError("failed to upload the river sources: %s", err)
		return err
	}

	bindings := &metadata.KernelBindings{
		Params:       &metadata.KernelParams{RiverGridSize: uint32(tts.gridSize)},
		RiverSources: tts.riverSources,
		RiversMap:    tts.riversMap,
	}
	return tts.dispatch(metadata.KernelRiverSources, bindings)
}

// FlowRivers runs the flow kernel steps times over the current height texture.
func (tts *TerrainTextureSystem) FlowRivers(steps int) error {
	if err := tts.ensureInitialized("flow rivers"); err != nil {
		return err
	}
	bindings := &metadata.KernelBindings{
		HeightInput: tts.heightMap,
		RiversMap:   tts.riversMap,
	}
	for i := 0; i < steps; i++ {
		if err := tts.dispatch(metadata.KernelRivers, bindings); err != nil {
			return err
		}
	}
	return nil
}

func (tts *TerrainTextureSystem) dispatch(kernel metadata.Kernel, bindings *metadata.KernelBindings) error {
	size := metadata.NewDispatchSize(tts.resolution, tts.resolution)

	tts.clock.Start()
	err := tts.backend.Dispatch(kernel, bindings, size)
	tts.clock.Stop()
	if err != nil {
		core.LogError("dispatch of %s failed: %s", kernel, err)
		return err
	}

	tts.metrics.Record(kernel.String(), tts.clock.Elapsed())
	core.LogDebug("dispatched %s (%dx%dx%d groups) in %s", kernel, size.X, size.Y, size.Z, tts.clock.Elapsed())
	return nil
}

// HeightMap reads the height texture back as a Gray16 image.
func (tts *TerrainTextureSystem) HeightMap() (*metadata.Texture, error) {
	return tts.readBack("read height map", tts.heightMap)
}

// NormalMap reads the normal texture back as an NRGBA64 image, alpha holds
// the ambient occlusion.
func (tts *TerrainTextureSystem) NormalMap() (*metadata.Texture, error) {
	return tts.readBack("read normal map", tts.normalMap)
}

// RiversMap reads the rivers texture back as a Gray16 image.
func (tts *TerrainTextureSystem) RiversMap() (*metadata.Texture, error) {
	return tts.readBack("read rivers map", tts.riversMap)
}

func (tts *TerrainTextureSystem) readBack(op string, rt *metadata.RenderTexture) (*metadata.Texture, error) {
	if err := tts.ensureInitialized(op); err != nil {
		return nil, err
	}
	pixels, err := tts.backend.TextureRead(rt)
	if err != nil {
		core.LogError("%s: %s", op, err)
		return nil, err
	}

	w, h := int(rt.Width), int(rt.Height)
	channels := int(rt.Format.Channels())
	bounds := image.Rect(0, 0, w, h)

	var img image.Image
	switch rt.Format {
	case metadata.TextureFormatRGBAHalf:
		rgba := image.NewNRGBA64(bounds)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				p := pixels[(x+y*w)*channels:]
				rgba.SetNRGBA64(x, y, color.NRGBA64{
					R: toUint16(p[0]),
					G: toUint16(p[1]),
					B: toUint16(p[2]),
					A: toUint16(p[3]),
				})
			}
		}
		img = rgba
	default:
		gray := image.NewGray16(bounds)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				gray.SetGray16(x, y, color.Gray16{Y: toUint16(pixels[(x+y*w)*channels])})
			}
		}
		img = gray
	}

	return &metadata.Texture{
		Name:         rt.Name,
		Width:        rt.Width,
		Height:       rt.Height,
		ChannelCount: uint8(channels),
		Filter:       rt.Filter,
		Image:        img,
	}, nil
}

func toUint16(v float32) uint16 {
	return uint16(math.Clamp(v, 0, 1)*65535 + 0.5)
}

// Metrics returns the average dispatch time in milliseconds per kernel.
func (tts *TerrainTextureSystem) Metrics() map[string]float64 {
	out := make(map[string]float64, 4)
	for _, k := range []metadata.Kernel{metadata.KernelHeight, metadata.KernelNormal, metadata.KernelRiverSources, metadata.KernelRivers} {
		if tts.metrics.Count(k.String()) > 0 {
			out[k.String()] = tts.metrics.AverageMS(k.String())
		}
	}
	return out
}

// DispatchCount returns how many times kernel has been dispatched.
func (tts *TerrainTextureSystem) DispatchCount(kernel metadata.Kernel) uint64 {
	return tts.metrics.Count(kernel.String())
}
