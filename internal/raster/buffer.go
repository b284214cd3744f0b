// Package raster holds the in-memory pixel buffer and the fixed catalog of
// transforms that operate on it.
//
// A Buffer is never modified by a transform: every transform returns a new
// buffer and callers replace the reference they hold.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// Supported channel counts.
const (
	Gray  = 1
	Color = 3
)

// Buffer is a row-major grid of 8-bit samples.
//
// Three-channel samples are interleaved in blue, green, red order. The
// sample for channel c of the pixel at (x, y) is
// Pix[(y*Width+x)*Channels+c].
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New allocates a zeroed buffer.
func New(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "new", "dimensions must be positive, got %dx%d", width, height)
	}
	if channels != Gray && channels != Color {
		return nil, imgerr.New(imgerr.ErrShape, "new", "unsupported channel count %d", channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Validate checks the buffer invariant len(Pix) == Width*Height*Channels.
func (b *Buffer) Validate() error {
	if b == nil {
		return imgerr.New(imgerr.ErrNotLoaded, "validate", "nil buffer")
	}
	if b.Channels != Gray && b.Channels != Color {
		return imgerr.New(imgerr.ErrShape, "validate", "unsupported channel count %d", b.Channels)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return imgerr.New(imgerr.ErrShape, "validate", "empty buffer %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return imgerr.New(imgerr.ErrShape, "validate", "sample count %d, want %d", len(b.Pix), want)
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// Equal reports whether both buffers have the same shape and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels &&
		bytes.Equal(b.Pix, o.Pix)
}

// At returns the samples of the pixel at (x, y).
func (b *Buffer) At(x, y int) []uint8 {
	i := (y*b.Width + x) * b.Channels
	return b.Pix[i : i+b.Channels : i+b.Channels]
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%dx%dx%d", b.Width, b.Height, b.Channels)
}

// FromImage converts a decoded image into a three-channel buffer. Alpha is
// discarded and gray sources are expanded to three identical channels.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, imgerr.New(imgerr.ErrDecode, "convert", "nil image")
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, imgerr.New(imgerr.ErrDecode, "convert", "empty image")
	}

	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(src, src.Rect, img, bounds.Min, draw.Src)
	}
	return fromNRGBA(src, Color), nil
}

// fromNRGBA copies an NRGBA image into a buffer with the given channel
// count. For one channel the red sample is taken.
func fromNRGBA(src *image.NRGBA, channels int) *Buffer {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := &Buffer{Width: w, Height: h, Channels: channels, Pix: make([]uint8, w*h*channels)}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst.Pix[y*w*channels : (y+1)*w*channels]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4 : x*4+4]
			if channels == Gray {
				out[x] = s[0]
				continue
			}
			d := out[x*3 : x*3+3 : x*3+3]
			d[0], d[1], d[2] = s[2], s[1], s[0]
		}
	}
	return dst
}

// nrgba renders the buffer as an opaque NRGBA image. One-channel buffers
// are replicated into red, green and blue.
func (b *Buffer) nrgba() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		in := b.Pix[y*b.Width*b.Channels : (y+1)*b.Width*b.Channels]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			d := out[x*4 : x*4+4 : x*4+4]
			if b.Channels == Gray {
				v := in[x]
				d[0], d[1], d[2] = v, v, v
			} else {
				s := in[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = s[2], s[1], s[0]
			}
			d[3] = 0xff
		}
	}
	return dst
}

// Image returns the buffer as an image for encoding: *image.Gray for one
// channel, *image.NRGBA for three.
func (b *Buffer) Image() image.Image {
	if b.Channels == Gray {
		g := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
		copy(g.Pix, b.Pix)
		return g
	}
	return b.nrgba()
}
