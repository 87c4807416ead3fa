package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/marben/fract/render"
)

// main is the entry point for the fractal render server.
// Clients send render commands over a websocket and receive progress and the finished image.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "http listen address")
	workers := flag.Int("workers", 0, "goroutines per render (0 = GOMAXPROCS)")
	verbose := flag.Bool("v", false, "log every render")
	flag.Parse()

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	renderer := render.NewRenderer(render.WithWorkers(*workers))
	httpServer, err := webServer(*addr, renderer)
	if err != nil {
		return fmt.Errorf("webServer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on http://localhost%s, %d workers per render", *addr, renderer.Workers())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}
