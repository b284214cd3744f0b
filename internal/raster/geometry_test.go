package raster

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transform func(*Buffer) (*Buffer, error)

func applyN(t *testing.T, b *Buffer, f transform, n int) *Buffer {
	t.Helper()
	out := b
	for i := 0; i < n; i++ {
		var err error
		out, err = f(out)
		require.NoError(t, err)
	}
	return out
}

func TestGeometry_RoundTrips(t *testing.T) {
	shapes := []struct{ w, h, c int }{
		{1, 1, Gray},
		{5, 3, Gray},
		{3, 5, Color},
		{4, 4, Color},
	}
	cases := []struct {
		name string
		f    transform
		n    int
	}{
		{"flipx twice", FlipX, 2},
		{"flipy twice", FlipY, 2},
		{"flipxy twice", FlipXY, 2},
		{"rotate180 twice", Rotate180, 2},
		{"rotate90 four times", Rotate90CW, 4},
	}

	for _, s := range shapes {
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := patterned(t, s.w, s.h, s.c)
				orig := b.Clone()
				out := applyN(t, b, tc.f, tc.n)
				assert.True(t, orig.Equal(out), "%s on %s", tc.name, orig)
				assert.True(t, orig.Equal(b), "input must not be mutated")
			})
		}
	}
}

func TestRotate90CW(t *testing.T) {
	b := grayFrom(t, 3, 2,
		1, 2, 3,
		4, 5, 6,
	)
	out, err := Rotate90CW(b)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 3, out.Height)
	assert.Equal(t, []uint8{
		4, 1,
		5, 2,
		6, 3,
	}, out.Pix)
}

func TestRotate90CW_KeepsChannels(t *testing.T) {
	b := patterned(t, 3, 2, Color)
	out, err := Rotate90CW(b)
	require.NoError(t, err)

	assert.Equal(t, Color, out.Channels)
	// Old bottom-left pixel becomes new top-left.
	assert.Equal(t, b.At(0, 1), out.At(0, 0))
	// Old top-left pixel becomes new top-right.
	assert.Equal(t, b.At(0, 0), out.At(1, 0))
}

func TestFlips(t *testing.T) {
	b := grayFrom(t, 3, 2,
		1, 2, 3,
		4, 5, 6,
	)

	x, err := FlipX(b)
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 5, 6, 1, 2, 3}, x.Pix)

	y, err := FlipY(b)
	require.NoError(t, err)
	assert.Equal(t, []uint8{3, 2, 1, 6, 5, 4}, y.Pix)

	xy, err := FlipXY(b)
	require.NoError(t, err)
	assert.Equal(t, []uint8{6, 5, 4, 3, 2, 1}, xy.Pix)
}

func TestFlipY_PreservesSampleOrder(t *testing.T) {
	b := &Buffer{Width: 2, Height: 1, Channels: Color, Pix: []uint8{1, 2, 3, 4, 5, 6}}
	out, err := FlipY(b)
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 5, 6, 1, 2, 3}, out.Pix)
}

func TestFlipXY_MatchesRotate180(t *testing.T) {
	for _, s := range []struct{ w, h int }{{4, 4}, {5, 2}, {2, 7}} {
		b := patterned(t, s.w, s.h, Color)

		flipped, err := FlipXY(b)
		require.NoError(t, err)
		rotated, err := Rotate180(b)
		require.NoError(t, err)

		assert.True(t, flipped.Equal(rotated), "%dx%d", s.w, s.h)
	}
}

func TestCrop(t *testing.T) {
	b := patterned(t, 6, 4, Color)

	full, err := Crop(b, 0, 0, b.Width, b.Height)
	require.NoError(t, err)
	assert.True(t, b.Equal(full))

	part, err := Crop(b, 2, 1, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, part.Width)
	assert.Equal(t, 2, part.Height)
	assert.Equal(t, Color, part.Channels)
	assert.Equal(t, b.At(2, 1), part.At(0, 0))
	assert.Equal(t, b.At(4, 2), part.At(2, 1))
}

func TestCrop_GrayKeepsChannels(t *testing.T) {
	b := grayFrom(t, 3, 2,
		1, 2, 3,
		4, 5, 6,
	)
	out, err := Crop(b, 1, 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, Gray, out.Channels)
	assert.Equal(t, []uint8{2, 3, 5, 6}, out.Pix)
}

func TestCrop_InvalidRegion(t *testing.T) {
	b := patterned(t, 20, 20, Color)
	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"zero height", 10, 10, 5, 0},
		{"zero width", 10, 10, 0, 5},
		{"negative width", 10, 10, -2, 5},
		{"negative x", -1, 0, 5, 5},
		{"negative y", 0, -1, 5, 5},
		{"too wide", 16, 0, 5, 5},
		{"too tall", 0, 16, 5, 5},
		{"outside", 20, 20, 1, 1},
		{"width overflows", 1, 0, math.MaxInt, 2},
		{"height overflows", 0, 1, 2, math.MaxInt},
		{"both overflow", 19, 19, math.MaxInt, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Crop(b, tt.x, tt.y, tt.w, tt.h)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, imgerr.ErrInvalidRegion)
		})
	}
}

func TestGeometry_RejectsInvalidBuffer(t *testing.T) {
	bad := &Buffer{Width: 2, Height: 2, Channels: Color, Pix: make([]uint8, 5)}
	for name, f := range map[string]transform{
		"rotate90":  Rotate90CW,
		"rotate180": Rotate180,
		"flipx":     FlipX,
		"flipy":     FlipY,
		"flipxy":    FlipXY,
	} {
		_, err := f(bad)
		assert.ErrorIs(t, err, imgerr.ErrShape, name)
	}
}
