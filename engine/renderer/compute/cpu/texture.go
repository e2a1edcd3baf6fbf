package cpu

import "github.com/spaghettifunk/planetforge/engine/math"

// texture is the backing store of a RenderTexture.
type texture struct {
	width    int
	height   int
	channels int
	pixels   []float32
}

func newTexture(width, height, channels int) *texture {
	return &texture{
		width:    width,
		height:   height,
		channels: channels,
		pixels:   make([]float32, width*height*channels),
	}
}

func (t *texture) index(x, y, c int) int {
	return (x+y*t.width)*t.channels + c
}

func (t *texture) set(x, y, c int, v float32) {
	t.pixels[t.index(x, y, c)] = v
}

// sample reads channel 0, wrapping horizontally and clamping vertically.
func (t *texture) sample(x, y int) float32 {
	x = wrap(x, t.width)
	y = math.Clamp(y, 0, t.height-1)
	return t.pixels[t.index(x, y, 0)]
}
