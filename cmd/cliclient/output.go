package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
)

// drawLabel writes text into the top-left corner of img on a dark strip.
func drawLabel(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	strip := image.Rect(b.Min.X, b.Min.Y, b.Min.X+len(text)*face.Advance+8, b.Min.Y+face.Height+6).Intersect(b)
	for y := strip.Min.Y; y < strip.Max.Y; y++ {
		for x := strip.Min.X; x < strip.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 0xFF})
		}
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(b.Min.X+4, b.Min.Y+3+face.Ascent),
	}
	d.DrawString(text)
}

// saveImage encodes img as PNG or TIFF depending on the file extension.
func saveImage(img image.Image, filename string) (err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var encode func(*os.File) error
	switch ext {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := encode(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", ext, err)
	}
	return nil
}
