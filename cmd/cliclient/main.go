// cliclient renders a fractal, either locally or on a fract server, and saves it as a PNG or TIFF file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/marben/fract"
	"github.com/marben/fract/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	server    string
	local     bool
	workers   int
	region    string
	x, y, w   float64
	width     int
	height    int
	n         int
	iterStart int
	julia     string
	zoom      string
	refine    int
	out       string
	label     bool
}

func main() {
	log.Printf("Starting CLI client...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	var cfg config
	flag.StringVar(&cfg.server, "server", "ws://localhost:8080/ws", "render server websocket url")
	flag.BoolVar(&cfg.local, "local", false, "render on this machine instead of the server")
	flag.IntVar(&cfg.workers, "workers", 0, "goroutines for local rendering (0 = GOMAXPROCS)")
	flag.StringVar(&cfg.region, "region", "overview", "landmark region: "+strings.Join(fract.RegionNames(), ", "))
	flag.Float64Var(&cfg.x, "x", 0, "left edge of the viewport, overrides -region when -w is set")
	flag.Float64Var(&cfg.y, "y", 0, "top edge of the viewport")
	flag.Float64Var(&cfg.w, "w", 0, "width of the viewport")
	flag.IntVar(&cfg.width, "width", 800, "image width in pixels")
	flag.IntVar(&cfg.height, "height", 640, "image height in pixels")
	flag.IntVar(&cfg.n, "n", fract.DefaultIterations, "iteration bound")
	flag.IntVar(&cfg.iterStart, "iter-start", 0, "iteration count mapped to the first colour")
	flag.StringVar(&cfg.julia, "julia", "", "julia constant as re,im; empty renders the Mandelbrot set")
	flag.StringVar(&cfg.zoom, "zoom", "", "zoom into the circle cx,cy,r given in pixels of the output image")
	flag.IntVar(&cfg.refine, "refine", 1, "render passes, each starting colours at the previous minimum")
	flag.StringVar(&cfg.out, "out", "fract.png", "output file, .png or .tiff")
	flag.BoolVar(&cfg.label, "label", false, "draw render statistics into the image")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req, err := cfg.request()
	if err != nil {
		return err
	}

	var renderer fract.Renderer
	if cfg.local {
		renderer = render.NewRenderer(render.WithWorkers(cfg.workers))
	} else {
		log.Printf("Connecting to render server at %s...", cfg.server)
		rr, err := dialRenderer(ctx, cfg.server)
		if err != nil {
			return err
		}
		defer rr.Close()
		renderer = rr
	}

	res, elapsed, err := refine(ctx, renderer, req, cfg.refine)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	summary := p.Sprintf("%dx%d, %d pixels, n=%d, min=%d, %v", cfg.width, cfg.height, cfg.width*cfg.height, cfg.n, res.MinIterations, elapsed.Round(time.Millisecond))
	log.Print(summary)
	if cfg.label {
		drawLabel(res.Image, summary)
	}

	log.Printf("Saving rendered image to %q...", cfg.out)
	if err := saveImage(res.Image, cfg.out); err != nil {
		return err
	}
	log.Printf("Fully rendered image saved to %q", cfg.out)
	return nil
}

// request builds the first render request from the configuration.
func (cfg config) request() (fract.Request, error) {
	var plane fract.PlaneRect
	if cfg.w > 0 {
		plane = fract.PlaneRect{X: cfg.x, Y: cfg.y, W: cfg.w}
	} else {
		r, ok := fract.LookupRegion(cfg.region)
		if !ok {
			return fract.Request{}, fmt.Errorf("unknown region %q", cfg.region)
		}
		plane = r.Plane()
	}
	if cfg.zoom != "" {
		v, err := parseFloats(cfg.zoom, 3)
		if err != nil {
			return fract.Request{}, fmt.Errorf("-zoom: %w", err)
		}
		plane = plane.ZoomCircle(v[0], v[1], v[2], cfg.width)
	}
	if cfg.width > 0 {
		plane.H = plane.W * float64(cfg.height) / float64(cfg.width)
	}

	img, err := render.NewImage(cfg.width, cfg.height)
	if err != nil {
		return fract.Request{}, err
	}
	req := fract.Request{
		Seq:       1,
		Image:     img,
		Plane:     plane,
		MaxIter:   cfg.n,
		IterStart: cfg.iterStart,
	}
	if cfg.julia != "" {
		c, err := parsePoint(cfg.julia)
		if err != nil {
			return fract.Request{}, fmt.Errorf("-julia: %w", err)
		}
		req.Julia = &c
	}
	return req, req.Validate()
}

// refine renders req passes times, feeding the minimum iteration count of
// each pass back as the colour start of the next one.
func refine(ctx context.Context, renderer fract.Renderer, req fract.Request, passes int) (fract.Result, time.Duration, error) {
	if passes < 1 {
		return fract.Result{}, 0, errors.New("at least one render pass is needed")
	}

	var res fract.Result
	var elapsed time.Duration
	for pass := range passes {
		start := time.Now()
		var err error
		res, err = renderer.Render(ctx, req, logProgress)
		if err != nil {
			return fract.Result{}, 0, fmt.Errorf("render pass %d: %w", pass+1, err)
		}
		elapsed = time.Since(start)
		req.Seq++
		req.IterStart = res.MinIterations
	}
	return res, elapsed, nil
}

func logProgress(m fract.Message) {
	switch m.Status {
	case fract.StatusBusy:
		log.Printf("render %d: %3.0f%%", m.Seq, m.Progress*100)
	case fract.StatusFinished:
		log.Printf("render %d: finished, min iterations %d", m.Seq, m.MinIterations)
	}
}

// parsePoint parses "re,im".
func parsePoint(s string) (fract.Point, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return fract.Point{}, err
	}
	return fract.Point{Re: v[0], Im: v[1]}, nil
}

// parseFloats parses exactly n comma separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma separated numbers", s, n)
	}
	v := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}
