package render

import "runtime"

// DefaultProgressStep is the least progress increase worth reporting.
const DefaultProgressStep = 0.05

// Option configures a Renderer.
type Option func(*options)

type options struct {
	workers      int
	progressStep float64
}

func defaultOptions() options {
	return options{
		workers:      runtime.GOMAXPROCS(0),
		progressStep: DefaultProgressStep,
	}
}

// WithWorkers sets the number of goroutines rendering rows.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithProgressStep sets the hysteresis of progress notifications: a busy
// message is emitted once progress grew by more than step since the last one.
func WithProgressStep(step float64) Option {
	return func(o *options) {
		if step >= 0 {
			o.progressStep = step
		}
	}
}
