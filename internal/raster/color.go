package raster

import (
	"image/color"
	"math"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/disintegration/imaging"
)

// sepiaMatrix mixes the (blue, green, red) sample vector of a pixel:
// out[i] = sum_j sepiaMatrix[i][j] * in[j].
var sepiaMatrix = [3][3]float64{
	{0.272, 0.534, 0.131},
	{0.349, 0.686, 0.168},
	{0.393, 0.769, 0.189},
}

// Grayscale converts a three-channel buffer to one channel using
// round(0.299R + 0.587G + 0.114B). A one-channel buffer is returned as is.
func Grayscale(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	switch b.Channels {
	case Gray:
		return b, nil
	case Color:
		return fromNRGBA(imaging.Grayscale(b.nrgba()), Gray), nil
	default:
		return nil, imgerr.New(imgerr.ErrShape, "grayscale", "unsupported channel count %d", b.Channels)
	}
}

// Promote expands a one-channel buffer to three identical channels. A
// three-channel buffer is returned as is.
func Promote(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Channels == Color {
		return b, nil
	}
	return fromNRGBA(b.nrgba(), Color), nil
}

// Sepia applies the sepia colour-mixing matrix to every pixel. One-channel
// input is promoted to three channels first. Components are clamped to
// [0,255] and truncated.
func Sepia(b *Buffer) (*Buffer, error) {
	src, err := Promote(b)
	if err != nil {
		return nil, err
	}
	out := imaging.AdjustFunc(src.nrgba(), func(c color.NRGBA) color.NRGBA {
		in := [3]float64{float64(c.B), float64(c.G), float64(c.R)}
		var mixed [3]uint8
		for i, row := range sepiaMatrix {
			mixed[i] = truncate(row[0]*in[0] + row[1]*in[1] + row[2]*in[2])
		}
		return color.NRGBA{R: mixed[2], G: mixed[1], B: mixed[0], A: c.A}
	})
	return fromNRGBA(out, Color), nil
}

func truncate(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v)))
}
