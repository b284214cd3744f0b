package ops

import (
	"fmt"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/MeKo-Tech/imgproc/internal/raster"
)

// Apply runs a single operation and returns the new buffer. The input is
// never modified.
func Apply(b *raster.Buffer, op Operation) (*raster.Buffer, error) {
	if b == nil {
		return nil, imgerr.New(imgerr.ErrNotLoaded, op.Kind.String(), "no image")
	}

	switch op.Kind {
	case Rotate90:
		return raster.Rotate90CW(b)
	case Rotate180:
		return raster.Rotate180(b)
	case FlipX:
		return raster.FlipX(b)
	case FlipY:
		return raster.FlipY(b)
	case FlipXY:
		return raster.FlipXY(b)
	case Blur:
		return raster.Blur(b, op.Radius)
	case Sharpen:
		return raster.Sharpen(b)
	case Grayscale:
		return raster.Grayscale(b)
	case Sepia:
		return raster.Sepia(b)
	case Crop:
		return raster.Crop(b, op.X, op.Y, op.W, op.H)
	case ResizePixel:
		return raster.ResizeToPixels(b, op.W, op.H)
	case ResizeRatio:
		return raster.ResizeByRatio(b, op.FX, op.FY)
	default:
		return nil, imgerr.New(imgerr.ErrUnknownOperation, "apply", "%s", op.Kind)
	}
}

// ApplyAll runs the request in order. It stops at the first failure and
// reports which step failed; the input is left untouched either way.
func ApplyAll(b *raster.Buffer, req Request) (*raster.Buffer, error) {
	cur := b
	for i, op := range req {
		next, err := Apply(cur, op)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, op, err)
		}
		cur = next
	}
	return cur, nil
}
