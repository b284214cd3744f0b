package raster

import (
	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/disintegration/imaging"
)

// sharpenKernel is applied as-is, without normalization. Its weights sum
// to one, so flat regions are left unchanged.
var sharpenKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// MaxBlurRadius bounds the blur window size.
const MaxBlurRadius = MaxDimension

// Blur averages every sample over a radius x radius window, per channel.
//
// The window spans offsets -radius/2 .. radius-1-radius/2 around the pixel,
// so odd sizes are centered and even sizes lean towards the top-left.
// Coordinates outside the buffer are clamped to the nearest edge pixel and
// averages are rounded half up. The cost does not depend on radius.
func Blur(b *Buffer, radius int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if radius < 1 || radius > MaxBlurRadius {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "blur",
			"radius must be between 1 and %d, got %d", MaxBlurRadius, radius)
	}
	if radius == 1 {
		return b.Clone(), nil
	}

	lo := -(radius / 2)
	hi := radius - 1 - radius/2
	w, h, c := b.Width, b.Height, b.Channels
	prefix := make([]int, max(w, h)+1)

	// The clamped box sum is separable: sum rows first, then columns.
	rows := make([]int, len(b.Pix))
	for y := 0; y < h; y++ {
		for ch := 0; ch < c; ch++ {
			at := func(x int) int { return (y*w+x)*c + ch }
			for x := 0; x < w; x++ {
				prefix[x+1] = prefix[x] + int(b.Pix[at(x)])
			}
			first, last := int(b.Pix[at(0)]), int(b.Pix[at(w-1)])
			for x := 0; x < w; x++ {
				rows[at(x)] = clampedWindowSum(prefix, first, last, w, x+lo, x+hi)
			}
		}
	}

	area := radius * radius
	dst := &Buffer{Width: w, Height: h, Channels: c, Pix: make([]uint8, len(b.Pix))}
	for x := 0; x < w; x++ {
		for ch := 0; ch < c; ch++ {
			at := func(y int) int { return (y*w+x)*c + ch }
			for y := 0; y < h; y++ {
				prefix[y+1] = prefix[y] + rows[at(y)]
			}
			first, last := rows[at(0)], rows[at(h-1)]
			for y := 0; y < h; y++ {
				sum := clampedWindowSum(prefix, first, last, h, y+lo, y+hi)
				dst.Pix[at(y)] = uint8((sum + area/2) / area)
			}
		}
	}
	return dst, nil
}

// clampedWindowSum returns the sum of s[clamp(i)] for i in [a, b], where
// s has n elements, prefix[i] is the sum of s[:i] and first and last are
// s[0] and s[n-1].
func clampedWindowSum(prefix []int, first, last, n, a, b int) int {
	sum := 0
	if a < 0 {
		sum += (min(b, -1) - a + 1) * first
	}
	if b >= n {
		sum += (b - max(a, n) + 1) * last
	}
	if from, to := max(a, 0), min(b, n-1); from <= to {
		sum += prefix[to+1] - prefix[from]
	}
	return sum
}

// Sharpen convolves every channel with the fixed 3x3 kernel
// [[-1,-1,-1],[-1,9,-1],[-1,-1,-1]]. Edges are clamped and results are
// clamped to [0,255].
func Sharpen(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := imaging.Convolve3x3(b.nrgba(), sharpenKernel, nil)
	return fromNRGBA(out, b.Channels), nil
}
