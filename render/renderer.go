package render

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/marben/fract"
	"golang.org/x/sync/errgroup"
)

// RendererImpl renders escape-time fractals on the local CPUs.
// Rows are distributed among workers; each row is written by exactly one worker.
type RendererImpl struct {
	opts options
}

var _ fract.Renderer = (*RendererImpl)(nil)

func NewRenderer(opts ...Option) *RendererImpl {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RendererImpl{opts: o}
}

// Workers returns the number of goroutines used per render.
func (r *RendererImpl) Workers() int {
	return r.opts.workers
}

// Render fills req.Image and returns it together with the smallest iteration
// count of all pixels.
//
// report, if not nil, receives busy messages with strictly increasing progress
// and then exactly one finished message. Once ctx is done no further message
// is sent and Render returns the context's cause.
func (r *RendererImpl) Render(ctx context.Context, req fract.Request, report fract.Reporter) (fract.Result, error) {
	if report == nil {
		report = func(fract.Message) {}
	}
	if err := req.Validate(); err != nil {
		return fract.Result{}, err
	}

	log := Logger().With("seq", req.Seq)
	bounds := req.Image.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	res := fract.Result{Seq: req.Seq, Image: req.Image, MinIterations: req.MaxIter}

	if width == 0 || height == 0 {
		report(finished(res))
		return res, nil
	}

	start := time.Now()
	log.Debug("render started", "width", width, "height", height, "plane", req.Plane, "n", req.MaxIter, "julia", req.Julia != nil)

	workers := min(r.opts.workers, height)
	g, gctx := errgroup.WithContext(ctx)
	rowsDone := make(chan int, height)
	mins := make([]int, workers)

	var next atomic.Int64
	for w := range workers {
		g.Go(func() error {
			local := req.MaxIter
			for {
				if gctx.Err() != nil {
					return context.Cause(gctx)
				}
				y := int(next.Add(1) - 1)
				if y >= height {
					break
				}
				local = min(local, renderRow(req, y))
				rowsDone <- y
			}
			mins[w] = local
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(rowsDone)
	}()

	step := r.opts.progressStep
	var rows int
	var last float64
	for range rowsDone {
		rows++
		if ctx.Err() != nil {
			continue
		}
		cur := float64(rows*width) / float64(width*height)
		if cur-last > step && rows < height {
			report(fract.Message{Status: fract.StatusBusy, Seq: req.Seq, Progress: cur})
			last = cur
		}
	}

	if err := <-waitErr; err != nil {
		log.Debug("render cancelled", "rows", rows, "err", err)
		return fract.Result{}, err
	}
	if ctx.Err() != nil {
		log.Debug("render cancelled", "rows", rows, "err", context.Cause(ctx))
		return fract.Result{}, context.Cause(ctx)
	}

	for _, m := range mins {
		res.MinIterations = min(res.MinIterations, m)
	}
	log.Debug("render finished", "min_iterations", res.MinIterations, "elapsed", time.Since(start))
	report(finished(res))
	return res, nil
}

func finished(res fract.Result) fract.Message {
	return fract.Message{
		Status:        fract.StatusFinished,
		Seq:           res.Seq,
		Progress:      1,
		Image:         res.Image,
		MinIterations: res.MinIterations,
	}
}

// renderRow computes and colours row y of req.Image and returns the smallest
// iteration count found in it.
func renderRow(req fract.Request, y int) int {
	img := req.Image
	b := img.Bounds()
	width := b.Dx()
	n := req.MaxIter
	rowMin := n

	i := img.PixOffset(b.Min.X, b.Min.Y+y)
	for x := range width {
		m := Escape(req, req.Plane.At(x, y, width))
		rowMin = min(rowMin, m)

		c := Colorize(m, n, req.IterStart)
		p := img.Pix[i : i+4 : i+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		i += 4
	}
	return rowMin
}

// Escape returns the iteration count of plane point p under req's mode.
func Escape(req fract.Request, p fract.Point) int {
	if req.MaxIter == 0 {
		return 0
	}
	if req.Julia != nil {
		return Iterate(p, *req.Julia, req.MaxIter)
	}
	if IsKnownInterior(p) {
		return req.MaxIter
	}
	return Iterate(fract.Point{}, p, req.MaxIter)
}

// Render renders req with a renderer using every CPU.
func Render(ctx context.Context, req fract.Request, report fract.Reporter) (fract.Result, error) {
	return NewRenderer().Render(ctx, req, report)
}

// NewImage allocates the buffer for a width×height render.
func NewImage(width, height int) (*image.RGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative image size %dx%d", fract.ErrInvalidRequest, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}
