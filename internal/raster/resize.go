package raster

import (
	"math"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/disintegration/imaging"
)

// MaxDimension bounds the width and height a resize may produce.
const MaxDimension = 1 << 16

// ResizeToPixels resamples the buffer to exactly w x h pixels using
// nearest-neighbour sampling.
func ResizeToPixels(b *Buffer, w, h int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "resize-pixel",
			"target size must be positive, got %dx%d", w, h)
	}
	if w > MaxDimension || h > MaxDimension {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "resize-pixel",
			"target size %dx%d exceeds %d", w, h, MaxDimension)
	}
	if w == b.Width && h == b.Height {
		return b.Clone(), nil
	}
	return fromNRGBA(imaging.Resize(b.nrgba(), w, h, imaging.NearestNeighbor), b.Channels), nil
}

// ResizeByRatio scales width by fx and height by fy. The target size is
// round(Width*fx) x round(Height*fy), never less than one pixel.
func ResizeByRatio(b *Buffer, fx, fy float64) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if !positiveFinite(fx) || !positiveFinite(fy) {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "resize-ratio",
			"ratios must be positive, got %g,%g", fx, fy)
	}
	w := scaledDimension(b.Width, fx)
	h := scaledDimension(b.Height, fy)
	if w > MaxDimension || h > MaxDimension {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "resize-ratio",
			"target size %dx%d exceeds %d", w, h, MaxDimension)
	}
	return ResizeToPixels(b, w, h)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func scaledDimension(n int, f float64) int {
	v := math.Round(float64(n) * f)
	if v > MaxDimension {
		return MaxDimension + 1
	}
	return max(1, int(v))
}
