package render

import "github.com/marben/fract"

// SkipRegion is an axis-aligned box lying inside the Mandelbrot set.
// X0 < X1 and Y1 < Y0: Y0 is the top edge, as the plane is scanned top to bottom.
type SkipRegion struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Contains reports whether p lies strictly inside s.
func (s SkipRegion) Contains(p fract.Point) bool {
	return s.X0 < p.Re && p.Re < s.X1 && s.Y1 < p.Im && p.Im < s.Y0
}

// Center of s.
func (s SkipRegion) Center() fract.Point {
	return fract.Point{Re: (s.X0 + s.X1) / 2, Im: (s.Y0 + s.Y1) / 2}
}

// SkipRegions are boxes inscribed in the main cardioid and the period-2 bulb.
// They are tested before the closed-form checks, being cheaper.
var SkipRegions = []SkipRegion{
	{X0: -0.5, Y0: 0.4, X1: 0.2, Y1: -0.4},
	{X0: -0.68, Y0: 0.2, X1: -0.5, Y1: -0.2},
	{X0: -1.17, Y0: 0.17, X1: -0.83, Y1: -0.17},
}

// IsKnownInterior reports whether p is known to belong to the Mandelbrot set
// without iterating. False negatives are expected, false positives never.
// It only makes sense in Mandelbrot mode.
func IsKnownInterior(p fract.Point) bool {
	for _, s := range SkipRegions {
		if s.Contains(p) {
			return true
		}
	}
	return inCardioid(p) || inPeriod2Bulb(p)
}

// inCardioid tests membership of the main cardioid:
// q(q + (x - 1/4)) < y^2 / 4 with q = (x - 1/4)^2 + y^2.
func inCardioid(p fract.Point) bool {
	x := p.Re - 0.25
	y2 := p.Im * p.Im
	q := x*x + y2
	return q*(q+x) < y2/4
}

// inPeriod2Bulb tests membership of the disc of radius 1/4 centred on -1.
func inPeriod2Bulb(p fract.Point) bool {
	x := p.Re + 1
	return x*x+p.Im*p.Im < 1.0/16
}
