package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/marben/fract"
)

// activeSessions counts connected clients, for logging only.
var activeSessions atomic.Int64

// renderSession serves render commands of a single websocket connection.
// Every new command hard-cancels the render in flight; messages of a
// superseded render are never written.
type renderSession struct {
	conn     *websocket.Conn
	renderer fract.Renderer

	mu     sync.Mutex // guards gen, cancel and writes to conn
	gen    uint64
	cancel context.CancelFunc

	wg sync.WaitGroup
}

func newRenderSession(conn *websocket.Conn, renderer fract.Renderer) *renderSession {
	return &renderSession{conn: conn, renderer: renderer}
}

// serve reads commands until the connection fails or ctx is done.
func (s *renderSession) serve(ctx context.Context) error {
	log.Printf("sessions: %d", activeSessions.Add(1))
	defer func() { log.Printf("sessions: %d", activeSessions.Add(-1)) }()
	defer s.stop()

	for {
		var cmd fract.RenderCommand
		if err := wsjson.Read(ctx, s.conn, &cmd); err != nil {
			return fmt.Errorf("wsjson.Read: %w", err)
		}
		s.start(ctx, cmd)
	}
}

// start supersedes the current render with cmd.
func (s *renderSession) start(ctx context.Context, cmd fract.RenderCommand) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	req, err := cmd.Request()
	if err != nil {
		log.Printf("render %d rejected: %v", cmd.Seq, err)
		s.send(ctx, gen, fract.ErrorMessage(cmd.Seq, err))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		// writes use the session context: cancelling a write closes the connection
		res, err := s.renderer.Render(rctx, req, func(m fract.Message) {
			s.send(ctx, gen, fract.EncodeMessage(m))
		})
		switch {
		case errors.Is(err, context.Canceled):
			log.Printf("render %d superseded", cmd.Seq)
		case err != nil:
			log.Printf("render %d failed: %v", cmd.Seq, err)
			s.send(ctx, gen, fract.ErrorMessage(cmd.Seq, err))
		default:
			log.Printf("render %d finished: %dx%d, min iterations %d", cmd.Seq, cmd.Width, cmd.Height, res.MinIterations)
		}
	}()
}

// send writes msg unless the render of generation gen was superseded.
func (s *renderSession) send(ctx context.Context, gen uint64, msg fract.WireMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	if err := wsjson.Write(ctx, s.conn, msg); err != nil {
		log.Printf("wsjson.Write: %v", err)
	}
}

// stop cancels the render in flight and waits for it to return.
func (s *renderSession) stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.mu.Unlock()

	s.wg.Wait()
}
