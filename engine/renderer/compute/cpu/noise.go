package cpu

import (
	mt "math"

	"github.com/ojrac/opensimplex-go"
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

// heightSampler evaluates the fractal noise of one height dispatch.
type heightSampler struct {
	params  *metadata.KernelParams
	simplex opensimplex.Noise
	seed    int64
}

func newHeightSampler(params *metadata.KernelParams) *heightSampler {
	return &heightSampler{
		params:  params,
		simplex: opensimplex.New(int64(params.Seed)),
		seed:    int64(params.Seed),
	}
}

// sample returns the normalised fractal noise at p, in [0, 1].
func (hs *heightSampler) sample(p math.Vec3) float32 {
	var (
		sum       float64
		norm      float64
		amplitude = 1.0
		frequency = 1.0
	)
	for o := int32(0); o < hs.params.OctaveCount; o++ {
		sum += hs.noise(float64(p.X)*frequency, float64(p.Y)*frequency, float64(p.Z)*frequency) * amplitude
		norm += amplitude
		frequency *= float64(hs.params.NoiseGain)
		amplitude *= float64(hs.params.NoiseLacunarity)
	}
	if norm == 0 {
		return 0
	}
	return math.Clamp(float32(sum/norm), 0, 1)
}

func (hs *heightSampler) noise(x, y, z float64) float64 {
	switch hs.params.NoiseType {
	case metadata.NoiseTypeVoronoi:
		return voronoi(x, y, z, hs.seed, hs.params.VoronoiDistance, hs.params.VoronoiResult)
	default:
		// opensimplex is in [-1, 1]
		return (hs.simplex.Eval3(x, y, z) + 1) * 0.5
	}
}

// voronoi is cellular noise with one jittered feature point per unit cell.
// The result is clamped to [0, 1].
func voronoi(x, y, z float64, seed int64, distance metadata.VoronoiDistance, result metadata.VoronoiResult) float64 {
	cx := int64(mt.Floor(x))
	cy := int64(mt.Floor(y))
	cz := int64(mt.Floor(z))

	f1, f2 := mt.MaxFloat64, mt.MaxFloat64
	for dz := int64(-1); dz <= 1; dz++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dx := int64(-1); dx <= 1; dx++ {
				px, py, pz := featurePoint(cx+dx, cy+dy, cz+dz, seed)
				d := cellDistance(px-x, py-y, pz-z, distance)
				if d < f1 {
					f1, f2 = d, f1
				} else if d < f2 {
					f2 = d
				}
			}
		}
	}

	var v float64
	switch result {
	case metadata.VoronoiResultClosest:
		v = f1
	case metadata.VoronoiResultSecondClosest:
		v = f2
	case metadata.VoronoiResultDifference:
		v = f2 - f1
	default:
		v = (f1 + f2) * 0.5
	}
	return math.Clamp(v, 0, 1)
}

func cellDistance(dx, dy, dz float64, distance metadata.VoronoiDistance) float64 {
	switch distance {
	case metadata.VoronoiDistanceEuclideanSquare:
		return dx*dx + dy*dy + dz*dz
	case metadata.VoronoiDistanceManhattan:
		return mt.Abs(dx) + mt.Abs(dy) + mt.Abs(dz)
	case metadata.VoronoiDistanceChebyshev:
		return max(mt.Abs(dx), mt.Abs(dy), mt.Abs(dz))
	default:
		return mt.Sqrt(dx*dx + dy*dy + dz*dz)
	}
}

// featurePoint returns the jittered feature point of cell (x, y, z).
func featurePoint(x, y, z int64, seed int64) (float64, float64, float64) {
	h := hash3(x, y, z, seed)
	const mask = 1<<21 - 1
	jx := float64(h&mask) / mask
	jy := float64((h>>21)&mask) / mask
	jz := float64((h>>42)&mask) / mask
	return float64(x) + jx, float64(y) + jy, float64(z) + jz
}

// hash3 is a SplitMix64 style integer hash of a lattice coordinate.
func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}
