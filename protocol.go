package fract

import (
	"fmt"
	"image"
)

// MaxCommandPixels bounds the image size a RenderCommand may ask for.
const MaxCommandPixels = 4096 * 4096

// RenderCommand is the JSON form of a Request sent by clients.
type RenderCommand struct {
	Seq       uint64    `json:"seq"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Rect      PlaneRect `json:"rect"`
	N         int       `json:"n"`
	IterStart int       `json:"iter_start,omitempty"`
	Julia     *Point    `json:"julia,omitempty"`
}

// Request allocates the image buffer and builds a validated Request.
func (c RenderCommand) Request() (Request, error) {
	if c.Width < 0 || c.Height < 0 {
		return Request{}, fmt.Errorf("%w: negative image size %dx%d", ErrInvalidRequest, c.Width, c.Height)
	}
	if c.Width*c.Height > MaxCommandPixels || c.Width > MaxCommandPixels || c.Height > MaxCommandPixels {
		return Request{}, fmt.Errorf("%w: image %dx%d exceeds %d pixels", ErrInvalidRequest, c.Width, c.Height, MaxCommandPixels)
	}
	req := Request{
		Seq:       c.Seq,
		Image:     image.NewRGBA(image.Rect(0, 0, c.Width, c.Height)),
		Plane:     c.Rect,
		MaxIter:   c.N,
		IterStart: c.IterStart,
		Julia:     c.Julia,
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// WireMessage is the JSON form of a Message.
// Image carries the raw RGBA pixels, row-major, top row first.
type WireMessage struct {
	Status        Status  `json:"status"`
	Seq           uint64  `json:"seq"`
	Progress      float64 `json:"progress"`
	Width         int     `json:"width,omitempty"`
	Height        int     `json:"height,omitempty"`
	MinIterations int     `json:"min_iterations"`
	Image         []byte  `json:"image,omitempty"`
	Error         string  `json:"error,omitempty"`
}

func EncodeMessage(m Message) WireMessage {
	w := WireMessage{
		Status:   m.Status,
		Seq:      m.Seq,
		Progress: m.Progress,
	}
	if m.Status == StatusFinished && m.Image != nil {
		w.Width = m.Image.Rect.Dx()
		w.Height = m.Image.Rect.Dy()
		w.MinIterations = m.MinIterations
		w.Image = packedPix(m.Image)
	}
	return w
}

// ErrorMessage reports a rejected command.
func ErrorMessage(seq uint64, err error) WireMessage {
	return WireMessage{Status: StatusError, Seq: seq, Error: err.Error()}
}

// Decode converts w back into a Message.
func (w WireMessage) Decode() (Message, error) {
	m := Message{
		Status:        w.Status,
		Seq:           w.Seq,
		Progress:      w.Progress,
		MinIterations: w.MinIterations,
	}
	switch w.Status {
	case StatusBusy:
		return m, nil
	case StatusFinished:
		if w.Width < 0 || w.Height < 0 || len(w.Image) != 4*w.Width*w.Height {
			return Message{}, fmt.Errorf("finished message: %d bytes for %dx%d image", len(w.Image), w.Width, w.Height)
		}
		m.Image = &image.RGBA{
			Pix:    w.Image,
			Stride: 4 * w.Width,
			Rect:   image.Rect(0, 0, w.Width, w.Height),
		}
		return m, nil
	case StatusError:
		return Message{}, fmt.Errorf("render %d rejected: %s", w.Seq, w.Error)
	default:
		return Message{}, fmt.Errorf("unknown message status %q", w.Status)
	}
}

// packedPix returns the pixels of img without stride padding.
func packedPix(img *image.RGBA) []byte {
	b := img.Rect
	rowLen := 4 * b.Dx()
	if img.Stride == rowLen {
		start := img.PixOffset(b.Min.X, b.Min.Y)
		return img.Pix[start : start+rowLen*b.Dy()]
	}
	out := make([]byte, 0, rowLen*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[i:i+rowLen]...)
	}
	return out
}
