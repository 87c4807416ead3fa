package render

import "image/color"

// Gradient is the colour cycle spread over the iteration range,
// one band between each pair of neighbouring colours.
var Gradient = [6]color.RGBA{
	{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}, // red
	{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}, // yellow
	{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}, // green
	{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}, // cyan
	{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF}, // blue
	{R: 0x80, G: 0x00, B: 0x80, A: 0xFF}, // purple
}

const bands = len(Gradient) - 1

var interior = color.RGBA{A: 0xFF}

// Colorize maps an iteration count to a colour.
//
// The range [iterStart, n] is split into five bands of equal width, each
// interpolating linearly between two Gradient colours. Points that reached the
// bound are black. Counts below iterStart are clamped to the first colour.
// When iterStart == n every escaping point gets the first colour.
func Colorize(iterations, n, iterStart int) color.RGBA {
	if iterations >= n {
		return interior
	}
	f := float64(n-iterStart) / float64(bands)
	v := float64(iterations - iterStart)
	if f <= 0 || v <= 0 {
		return Gradient[0]
	}
	band := int(v / f)
	if band >= bands {
		return interior
	}
	t := (v - float64(band)*f) / f
	return lerp(Gradient[band], Gradient[band+1], t)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}
