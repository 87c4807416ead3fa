package main

import (
	"context"
	"fmt"
	"image"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/marben/fract"
	"golang.org/x/image/draw"
)

// remoteRenderer renders on a fract server over a websocket connection.
type remoteRenderer struct {
	conn *websocket.Conn
}

var _ fract.Renderer = (*remoteRenderer)(nil)

func dialRenderer(ctx context.Context, url string) (*remoteRenderer, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %s: %w", url, err)
	}
	// finished messages carry the whole image
	c.SetReadLimit(8 * fract.MaxCommandPixels)
	return &remoteRenderer{conn: c}, nil
}

func (r *remoteRenderer) Close() error {
	return r.conn.Close(websocket.StatusNormalClosure, "")
}

// Render sends req to the server and forwards its messages to report until
// the render finishes. The received pixels are copied into req.Image.
func (r *remoteRenderer) Render(ctx context.Context, req fract.Request, report fract.Reporter) (fract.Result, error) {
	if report == nil {
		report = func(fract.Message) {}
	}
	if err := req.Validate(); err != nil {
		return fract.Result{}, err
	}

	b := req.Image.Bounds()
	cmd := fract.RenderCommand{
		Seq:       req.Seq,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Rect:      req.Plane,
		N:         req.MaxIter,
		IterStart: req.IterStart,
		Julia:     req.Julia,
	}
	if err := wsjson.Write(ctx, r.conn, cmd); err != nil {
		return fract.Result{}, fmt.Errorf("wsjson.Write: %w", err)
	}

	for {
		var w fract.WireMessage
		if err := wsjson.Read(ctx, r.conn, &w); err != nil {
			return fract.Result{}, fmt.Errorf("wsjson.Read: %w", err)
		}
		if w.Seq != req.Seq {
			continue
		}
		m, err := w.Decode()
		if err != nil {
			return fract.Result{}, err
		}
		if m.Status == fract.StatusBusy {
			report(m)
			continue
		}

		if m.Image.Bounds().Size() != b.Size() {
			return fract.Result{}, fmt.Errorf("server returned %v image, want %v", m.Image.Bounds().Size(), b.Size())
		}
		draw.Draw(req.Image, b, m.Image, image.Point{}, draw.Src)
		m.Image = req.Image
		report(m)
		return fract.Result{Seq: req.Seq, Image: req.Image, MinIterations: m.MinIterations}, nil
	}
}
