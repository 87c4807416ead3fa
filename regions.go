package fract

import (
	"slices"
	"strings"
)

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Plane converts r to a viewport with its top-left corner at (Xmin, Ymax).
func (r Region) Plane() PlaneRect {
	return PlaneRect{X: r.Xmin, Y: r.Ymax, W: r.Xmax - r.Xmin, H: r.Ymax - r.Ymin}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Whole set
	Overview = Region{
		Xmin: -2.0,
		Xmax: 0.5,
		Ymin: -1.0,
		Ymax: 1.0,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: 0.25,
		Xmax: 0.35,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var regionsByName = map[string]Region{
	"overview":   Overview,
	"seahorse":   SeahorseValley,
	"elephant":   ElephantValley,
	"minibrot":   SpiralMinibrot,
	"triple":     TripleSpiral,
	"minispiral": MinibrotInMiniSpiral,
}

// LookupRegion finds a landmark by its short name, ignoring case.
func LookupRegion(name string) (Region, bool) {
	r, ok := regionsByName[strings.ToLower(name)]
	return r, ok
}

// RegionNames lists the names accepted by LookupRegion, sorted.
func RegionNames() []string {
	names := make([]string, 0, len(regionsByName))
	for n := range regionsByName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
