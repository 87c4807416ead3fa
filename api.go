package fract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidRequest is wrapped by every validation failure of a Request.
var ErrInvalidRequest = errors.New("invalid render request")

// Point is a point of the complex plane.
type Point struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// Request describes a single render.
// Julia selects Julia mode when non-nil, Mandelbrot mode otherwise.
type Request struct {
	Seq       uint64
	Image     *image.RGBA // pre-allocated, owned by the renderer until Result is returned
	Plane     PlaneRect
	MaxIter   int
	IterStart int
	Julia     *Point
}

// Validate reports whether r can be rendered.
// Requests with an empty image are always valid.
func (r Request) Validate() error {
	if r.Image == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidRequest)
	}
	if r.MaxIter < 0 {
		return fmt.Errorf("%w: negative iteration bound %d", ErrInvalidRequest, r.MaxIter)
	}
	if r.IterStart < 0 || r.IterStart > r.MaxIter {
		return fmt.Errorf("%w: iter_start %d outside [0, %d]", ErrInvalidRequest, r.IterStart, r.MaxIter)
	}
	b := r.Image.Bounds()
	if b.Empty() {
		return nil
	}
	if r.Image.Stride < 4*b.Dx() {
		return fmt.Errorf("%w: stride %d shorter than a %d pixel row", ErrInvalidRequest, r.Image.Stride, b.Dx())
	}
	if len(r.Image.Pix) < r.Image.PixOffset(b.Max.X-1, b.Max.Y-1)+4 {
		return fmt.Errorf("%w: pixel buffer too small for %dx%d", ErrInvalidRequest, b.Dx(), b.Dy())
	}
	if err := r.Plane.validate(); err != nil {
		return err
	}
	if r.Julia != nil && !finite(r.Julia.Re, r.Julia.Im) {
		return fmt.Errorf("%w: non-finite julia constant %v", ErrInvalidRequest, *r.Julia)
	}
	return nil
}

// Result is the outcome of a finished render.
type Result struct {
	Seq           uint64
	Image         *image.RGBA
	MinIterations int
}

// Status of a Message.
type Status string

const (
	StatusBusy     Status = "busy"
	StatusFinished Status = "finished"
	StatusError    Status = "error"
)

// Message is a notification emitted while rendering.
// Image and MinIterations are set only when Status is StatusFinished.
type Message struct {
	Status        Status
	Seq           uint64
	Progress      float64
	Image         *image.RGBA
	MinIterations int
}

// Reporter receives the notifications of a render.
// It is called from a single goroutine, in emission order.
type Reporter func(Message)

type Renderer interface {
	Render(ctx context.Context, req Request, report Reporter) (Result, error)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
