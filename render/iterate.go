package render

import "github.com/marben/fract"

// Iterate applies z = z*z + c starting from z0, at most n times.
// It returns the index of the iteration after which |z|^2 first exceeds 4,
// or n if that never happens.
//
// Mandelbrot mode iterates from the origin with c being the point under test,
// Julia mode iterates from the point under test with a fixed c.
func Iterate(z0, c fract.Point, n int) int {
	re, im := z0.Re, z0.Im
	for i := 0; i < n; i++ {
		re, im = re*re-im*im+c.Re, 2*re*im+c.Im
		if re*re+im*im > 4 {
			return i
		}
	}
	return max(n, 0)
}
