package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/planetforge/engine/math"
)

const (
	/** @brief Threads per workgroup along x and y. */
	KernelGroupSize uint32 = 8
	/** @brief Number of samples of the height remap lookup table. */
	HeightRemapSamples int = 256
	/** @brief Default size of the river source grid. */
	DefaultRiverGridSize int = 64
)

/**
 * @brief The entry points of the terrain texture kernel.
 */
type Kernel int

const (
	/** @brief Fractal noise into the height texture. */
	KernelHeight Kernel = iota
	/** @brief Normal and ambient occlusion from the height texture. */
	KernelNormal
	/** @brief Clears the rivers texture and stamps the river sources. */
	KernelRiverSources
	/** @brief Moves river water one step downhill. */
	KernelRivers
)

func (k Kernel) String() string {
	switch k {
	case KernelHeight:
		return "CSMain"
	case KernelNormal:
		return "CSNormal"
	case KernelRiverSources:
		return "CSRiversSources"
	case KernelRivers:
		return "CSRivers"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

/**
 * @brief Workgroup counts of a dispatch.
 */
type DispatchSize struct {
	X, Y, Z uint32
}

// NewDispatchSize covers a width x height texture with 8x8 workgroups.
func NewDispatchSize(width, height uint32) DispatchSize {
	return DispatchSize{
		X: width / KernelGroupSize,
		Y: height / KernelGroupSize,
		Z: 1,
	}
}

/**
 * @brief A linear buffer of float32 living on the compute backend.
 */
type ComputeBuffer struct {
	ID    uint32
	Name  string
	Count uint32
	/** @brief Backend specific data. */
	InternalData interface{}
}

type NoiseType int

const (
	NoiseTypePerlin NoiseType = iota
	NoiseTypeVoronoi
)

type VoronoiDistance int

const (
	VoronoiDistanceEuclideanSquare VoronoiDistance = iota
	VoronoiDistanceEuclidean
	VoronoiDistanceManhattan
	VoronoiDistanceChebyshev
)

type VoronoiResult int

const (
	VoronoiResultClosest VoronoiResult = iota
	VoronoiResultSecondClosest
	VoronoiResultDifference
	VoronoiResultAverage
)

var (
	noiseTypeNames       = []string{"perlin", "voronoi"}
	voronoiDistanceNames = []string{"euclidean_square", "euclidean", "manhattan", "chebyshev"}
	voronoiResultNames   = []string{"closest", "second_closest", "difference", "average"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("invalid(%d)", v)
	}
	return names[v]
}

func enumParse(names []string, kind string, text []byte) (int, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q, expected one of %s", kind, s, strings.Join(names, ", "))
}

func (n NoiseType) String() string { return enumName(noiseTypeNames, int(n)) }

func (n NoiseType) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *NoiseType) UnmarshalText(text []byte) error {
	v, err := enumParse(noiseTypeNames, "noise type", text)
	*n = NoiseType(v)
	return err
}

func (d VoronoiDistance) String() string { return enumName(voronoiDistanceNames, int(d)) }

func (d VoronoiDistance) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *VoronoiDistance) UnmarshalText(text []byte) error {
	v, err := enumParse(voronoiDistanceNames, "voronoi distance", text)
	*d = VoronoiDistance(v)
	return err
}

func (r VoronoiResult) String() string { return enumName(voronoiResultNames, int(r)) }

func (r VoronoiResult) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *VoronoiResult) UnmarshalText(text []byte) error {
	v, err := enumParse(voronoiResultNames, "voronoi result", text)
	*r = VoronoiResult(v)
	return err
}

/**
 * @brief The scalar and vector parameter set of the terrain kernel. Mapped
 * once from TerrainParameters before each height dispatch.
 */
type KernelParams struct {
	Seed             int32
	NoiseScale       float32
	OctaveCount      int32
	NoiseGain        float32
	NoiseLacunarity  float32
	NormalIntensity  float32
	NormalLimitation float32
	AOIntensity      float32
	Position         math.Vec3
	NoiseType        NoiseType
	VoronoiDistance  VoronoiDistance
	VoronoiResult    VoronoiResult
	RiverGridSize    uint32
}

/**
 * @brief Resources bound to a dispatch. Each kernel reads the fields it needs:
 *  - CSMain: Params, HeightRemap, HeightOutput
 *  - CSNormal: Params, HeightInput, NormalOutput
 *  - CSRiversSources: Params, RiverSources, RiversMap
 *  - CSRivers: HeightInput, RiversMap
 */
type KernelBindings struct {
	Params       *KernelParams
	HeightRemap  *ComputeBuffer
	RiverSources *ComputeBuffer
	HeightOutput *RenderTexture
	HeightInput  *RenderTexture
	NormalOutput *RenderTexture
	RiversMap    *RenderTexture
}
