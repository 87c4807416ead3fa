package fract

import "fmt"

// Iteration bound limits offered to interactive callers.
const (
	MinIterations     = 0
	MaxIterations     = 1000
	DefaultIterations = 100
)

// DefaultPlane shows the whole Mandelbrot set.
var DefaultPlane = PlaneRect{X: -2.0, Y: 1.0, W: 2.5, H: 2.0}

// PlaneRect is the viewport on the complex plane.
// (X, Y) is the top-left corner; the imaginary axis decreases downwards.
type PlaneRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r PlaneRect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.W, r.H)
}

// PixelSize is the plane distance between two neighbouring pixels of an image width pixels wide.
func (r PlaneRect) PixelSize(width int) float64 {
	return r.W / float64(width)
}

// At maps pixel (px, py) of an image width pixels wide onto the plane.
// Pixels are square, so H does not take part in the mapping.
func (r PlaneRect) At(px, py, width int) Point {
	s := r.PixelSize(width)
	return Point{Re: r.X + float64(px)*s, Im: r.Y - float64(py)*s}
}

// ZoomCircle returns the square viewport enclosing the circle with centre
// (cx, cy) and radius r, given in pixels of an image basis pixels wide.
func (r PlaneRect) ZoomCircle(cx, cy, radius float64, basis int) PlaneRect {
	if radius <= 0 || basis <= 0 {
		return r
	}
	f := r.W / float64(basis)
	return PlaneRect{
		X: r.X + (cx-radius)*f,
		Y: r.Y - (cy-radius)*f,
		W: radius * 2 * f,
		H: radius * 2 * f,
	}
}

func (r PlaneRect) validate() error {
	if !finite(r.X, r.Y, r.W, r.H) {
		return fmt.Errorf("%w: non-finite plane %s", ErrInvalidRequest, r)
	}
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: empty plane %s", ErrInvalidRequest, r)
	}
	return nil
}
