package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/marben/fract"
	"github.com/marben/fract/render"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := webServer("", render.NewRenderer())
	if err != nil {
		t.Fatalf("webServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("websocket.Dial: %v", err)
	}
	c.SetReadLimit(1 << 26)
	t.Cleanup(func() { c.CloseNow() })
	return c
}

func readMessage(t *testing.T, ctx context.Context, c *websocket.Conn) fract.WireMessage {
	t.Helper()
	var m fract.WireMessage
	if err := wsjson.Read(ctx, c, &m); err != nil {
		t.Fatalf("wsjson.Read: %v", err)
	}
	return m
}

func TestSession_Render(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c := dial(t, ctx, newTestServer(t))

	cmd := fract.RenderCommand{Seq: 1, Width: 40, Height: 200, Rect: fract.DefaultPlane, N: 50}
	if err := wsjson.Write(ctx, c, cmd); err != nil {
		t.Fatalf("wsjson.Write: %v", err)
	}

	var last float64
	for {
		w := readMessage(t, ctx, c)
		if w.Seq != 1 {
			t.Fatalf("message for seq %d", w.Seq)
		}
		m, err := w.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if m.Status == fract.StatusBusy {
			if m.Progress <= last {
				t.Errorf("progress %v after %v", m.Progress, last)
			}
			last = m.Progress
			continue
		}
		if b := m.Image.Bounds(); b.Dx() != 40 || b.Dy() != 200 {
			t.Errorf("image bounds = %v", b)
		}
		if m.MinIterations < 0 || m.MinIterations > 50 {
			t.Errorf("MinIterations = %d", m.MinIterations)
		}
		return
	}
}

func TestSession_Supersede(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	c := dial(t, ctx, newTestServer(t))

	slow := fract.RenderCommand{Seq: 1, Width: 1000, Height: 1000, Rect: fract.SeahorseValley.Plane(), N: 1000}
	fast := fract.RenderCommand{Seq: 2, Width: 10, Height: 10, Rect: fract.DefaultPlane, N: 10}
	for _, cmd := range []fract.RenderCommand{slow, fast} {
		if err := wsjson.Write(ctx, c, cmd); err != nil {
			t.Fatalf("wsjson.Write: %v", err)
		}
	}

	var seenFast bool
	for {
		m := readMessage(t, ctx, c)
		switch m.Seq {
		case 1:
			if seenFast {
				t.Fatalf("message %q of superseded render after its successor", m.Status)
			}
		case 2:
			seenFast = true
			if m.Status == fract.StatusFinished {
				return
			}
		default:
			t.Fatalf("message for unknown seq %d", m.Seq)
		}
	}
}

func TestSession_InvalidCommand(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c := dial(t, ctx, newTestServer(t))

	bad := fract.RenderCommand{Seq: 5, Width: 4, Height: 4, Rect: fract.PlaneRect{W: -1, H: 1}, N: 10}
	if err := wsjson.Write(ctx, c, bad); err != nil {
		t.Fatalf("wsjson.Write: %v", err)
	}
	m := readMessage(t, ctx, c)
	if m.Status != fract.StatusError || m.Seq != 5 || m.Error == "" {
		t.Errorf("message = %+v, want error for seq 5", m)
	}

	// the session survives a rejected command
	good := fract.RenderCommand{Seq: 6, Width: 2, Height: 2, Rect: fract.DefaultPlane, N: 10}
	if err := wsjson.Write(ctx, c, good); err != nil {
		t.Fatalf("wsjson.Write: %v", err)
	}
	for {
		m := readMessage(t, ctx, c)
		if m.Seq != 6 || m.Status == fract.StatusError {
			t.Fatalf("message = %+v, want progress of seq 6", m)
		}
		if m.Status == fract.StatusFinished {
			return
		}
	}
}

func TestRegionsHandler(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/regions")
	if err != nil {
		t.Fatalf("http.Get: %v", err)
	}
	defer resp.Body.Close()

	var regions map[string]fract.PlaneRect
	if err := json.NewDecoder(resp.Body).Decode(&regions); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, want := regions["seahorse"], fract.SeahorseValley.Plane(); got != want {
		t.Errorf("seahorse = %s, want %s", got, want)
	}
}

func TestStaticIndex(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("http.Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
