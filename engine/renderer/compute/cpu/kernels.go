package cpu

import (
	"github.com/spaghettifunk/planetforge/engine/math"
	"github.com/spaghettifunk/planetforge/engine/renderer/metadata"
)

// dispatchContext holds the resolved bindings of one dispatch.
type dispatchContext struct {
	params    *metadata.KernelParams
	remap     []float32
	sources   []float32
	heightOut *texture
	heightIn  *texture
	normalOut *texture
	rivers    *texture
	// rivers texture as it was before a CSRivers dispatch
	riversPrev []float32
	sampler    *heightSampler
}

// kernelFunc runs one thread of a kernel for pixel (x, y).
type kernelFunc func(ctx *dispatchContext, x, y int)

var kernels = map[metadata.Kernel]kernelFunc{
	metadata.KernelHeight:       heightKernel,
	metadata.KernelNormal:       normalKernel,
	metadata.KernelRiverSources: riverSourcesKernel,
	metadata.KernelRivers:       riversKernel,
}

// heightKernel writes remapped fractal noise sampled on the unit sphere.
// The texture is an equirectangular projection: x is longitude, y latitude.
func heightKernel(ctx *dispatchContext, x, y int) {
	out := ctx.heightOut
	u := (float32(x) + 0.5) / float32(out.width)
	v := (float32(y) + 0.5) / float32(out.height)
	longitude := u*2*math.K_PI - math.K_PI
	latitude := math.K_HALF_PI - v*math.K_PI

	dir := math.NewVec3FromSpherical(longitude, latitude)
	p := dir.MulScalar(ctx.params.NoiseScale / 100).Add(ctx.params.Position)

	h := ctx.sampler.sample(p)
	idx := math.Clamp(int(h*float32(len(ctx.remap))), 0, len(ctx.remap)-1)
	out.set(x, y, 0, ctx.remap[idx])
}

// normalKernel derives a tangent space normal and ambient occlusion from the
// height texture with central differences.
func normalKernel(ctx *dispatchContext, x, y int) {
	in := ctx.heightIn
	p := ctx.params

	dx := (in.sample(x+1, y) - in.sample(x-1, y)) * p.NormalIntensity
	dy := (in.sample(x, y+1) - in.sample(x, y-1)) * p.NormalIntensity
	dx = math.Clamp(dx, -p.NormalLimitation, p.NormalLimitation)
	dy = math.Clamp(dy, -p.NormalLimitation, p.NormalLimitation)
	n := math.NewVec3(-dx, -dy, 1).Normalized()

	// occlusion grows with the neighbours standing above the pixel
	centre := in.sample(x, y)
	var occlusion float32
	for _, o := range neighbourOffsets {
		if d := in.sample(x+o[0], y+o[1]) - centre; d > 0 {
			occlusion += d
		}
	}
	ao := math.Clamp(1-occlusion*p.AOIntensity, 0, 1)

	out := ctx.normalOut
	out.set(x, y, 0, n.X*0.5+0.5)
	out.set(x, y, 1, n.Y*0.5+0.5)
	out.set(x, y, 2, n.Z*0.5+0.5)
	out.set(x, y, 3, ao)
}

// riverSourcesKernel clears the rivers texture and writes 1.0 at the centre
// pixel of every active source cell.
func riverSourcesKernel(ctx *dispatchContext, x, y int) {
	out := ctx.rivers
	grid := int(ctx.params.RiverGridSize)

	var v float32
	if cx, ok := cellCentredAt(x, out.width, grid); ok {
		if cy, ok := cellCentredAt(y, out.height, grid); ok && ctx.sources[cx+cy*grid] == 1.0 {
			v = 1.0
		}
	}
	out.set(x, y, 0, v)
}

// cellCentre returns the pixel at the centre of cell c of a grid laid over
// size pixels.
func cellCentre(c, size, grid int) int {
	return (c*size + size/2) / grid
}

// cellCentredAt returns the cell whose centre pixel is px, if any.
func cellCentredAt(px, size, grid int) (int, bool) {
	lo := max(px*grid/size-1, 0)
	hi := min((px+1)*grid/size, grid-1)
	for c := lo; c <= hi; c++ {
		if cellCentre(c, size, grid) == px {
			return c, true
		}
	}
	return 0, false
}

var neighbourOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// riversKernel moves water one pixel downhill. Every river pixel flows into
// its lowest strictly lower neighbour, and river pixels stay wet.
func riversKernel(ctx *dispatchContext, x, y int) {
	rivers := ctx.rivers
	if ctx.riversPrev[rivers.index(x, y, 0)] > 0 {
		rivers.set(x, y, 0, 1.0)
		return
	}

	var v float32
	for _, o := range neighbourOffsets {
		nx, ny := x+o[0], y+o[1]
		if ny < 0 || ny >= rivers.height {
			continue
		}
		nx = wrap(nx, rivers.width)
		if ctx.riversPrev[rivers.index(nx, ny, 0)] <= 0 {
			continue
		}
		if tx, ty, ok := flowTarget(ctx.heightIn, nx, ny); ok && tx == x && ty == y {
			v = 1.0
			break
		}
	}
	rivers.set(x, y, 0, v)
}

// flowTarget returns the lowest neighbour strictly below (x, y). Ties keep the
// first neighbour in scan order.
func flowTarget(height *texture, x, y int) (int, int, bool) {
	lowest := height.sample(x, y)
	tx, ty, found := 0, 0, false
	for _, o := range neighbourOffsets {
		nx, ny := x+o[0], y+o[1]
		if ny < 0 || ny >= height.height {
			continue
		}
		nx = wrap(nx, height.width)
		if h := height.sample(nx, ny); h < lowest {
			lowest, tx, ty, found = h, nx, ny, true
		}
	}
	return tx, ty, found
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
