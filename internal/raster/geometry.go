package raster

import (
	"image"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/disintegration/imaging"
)

// Rotate90CW rotates the buffer 90 degrees clockwise. Width and height are
// swapped: the pixel at new (x, y) is the old pixel at column y, row
// Height-1-x.
func Rotate90CW(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	// imaging rotates counter-clockwise; 270 CCW is 90 CW.
	return fromNRGBA(imaging.Rotate270(b.nrgba()), b.Channels), nil
}

// Rotate180 maps the pixel at (x, y) to (Width-1-x, Height-1-y).
func Rotate180(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return fromNRGBA(imaging.Rotate180(b.nrgba()), b.Channels), nil
}

// FlipX mirrors the buffer across its horizontal axis (row order reversed).
func FlipX(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return fromNRGBA(imaging.FlipV(b.nrgba()), b.Channels), nil
}

// FlipY mirrors the buffer across its vertical axis (column order reversed).
func FlipY(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return fromNRGBA(imaging.FlipH(b.nrgba()), b.Channels), nil
}

// FlipXY reverses both row and column order. It is implemented as two
// independent reversals rather than as a rotation.
func FlipXY(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return fromNRGBA(imaging.FlipH(imaging.FlipV(b.nrgba())), b.Channels), nil
}

// Crop returns the w x h region whose top-left corner is (x, y). The
// region must be non-empty and lie inside the buffer.
func Crop(b *Buffer, x, y, w, h int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, imgerr.New(imgerr.ErrInvalidRegion, "crop",
			"region %dx%d has zero area", w, h)
	}
	// compare against the remaining extent, x+w may overflow
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height || w > b.Width-x || h > b.Height-y {
		return nil, imgerr.New(imgerr.ErrInvalidRegion, "crop",
			"region %dx%d at (%d,%d) outside image bounds %dx%d", w, h, x, y, b.Width, b.Height)
	}
	return fromNRGBA(imaging.Crop(b.nrgba(), image.Rect(x, y, x+w, y+h)), b.Channels), nil
}
