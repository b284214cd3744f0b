package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patterned returns a buffer whose samples are all distinct modulo 256 for
// small sizes, so that any misplaced sample shows up in comparisons.
func patterned(t *testing.T, w, h, c int) *Buffer {
	t.Helper()
	b, err := New(w, h, c)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = uint8(i*7 + 3)
	}
	return b
}

func grayFrom(t *testing.T, w, h int, pix ...uint8) *Buffer {
	t.Helper()
	require.Len(t, pix, w*h)
	return &Buffer{Width: w, Height: h, Channels: Gray, Pix: pix}
}

func TestNew(t *testing.T) {
	b, err := New(4, 3, Color)
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width)
	assert.Equal(t, 3, b.Height)
	assert.Equal(t, Color, b.Channels)
	assert.Len(t, b.Pix, 36)
	assert.Equal(t, "4x3x3", b.String())
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		w, h, c int
		kind    error
	}{
		{"zero width", 0, 3, Gray, imgerr.ErrInvalidParameter},
		{"negative height", 3, -1, Gray, imgerr.ErrInvalidParameter},
		{"two channels", 3, 3, 2, imgerr.ErrShape},
		{"four channels", 3, 3, 4, imgerr.ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.w, tt.h, tt.c)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestValidate(t *testing.T) {
	var nilBuf *Buffer
	assert.ErrorIs(t, nilBuf.Validate(), imgerr.ErrNotLoaded)

	short := &Buffer{Width: 2, Height: 2, Channels: Gray, Pix: make([]uint8, 3)}
	assert.ErrorIs(t, short.Validate(), imgerr.ErrShape)

	odd := &Buffer{Width: 2, Height: 2, Channels: 2, Pix: make([]uint8, 8)}
	assert.ErrorIs(t, odd.Validate(), imgerr.ErrShape)

	assert.NoError(t, patterned(t, 2, 2, Color).Validate())
}

func TestCloneIsIndependent(t *testing.T) {
	b := patterned(t, 3, 2, Color)
	c := b.Clone()
	require.True(t, b.Equal(c))

	c.Pix[0]++
	assert.False(t, b.Equal(c))
}

func TestEqual(t *testing.T) {
	a := patterned(t, 2, 3, Gray)
	b := patterned(t, 3, 2, Gray)
	assert.False(t, a.Equal(b), "same samples, different shape")

	var nilBuf *Buffer
	assert.True(t, nilBuf.Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestFromImage_ChannelOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	b, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, Color, b.Channels)
	assert.Equal(t, []uint8{30, 20, 10, 60, 50, 40}, b.Pix)
}

func TestFromImage_GrayBecomesColor(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{1, 2, 3, 4}

	b, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, Color, b.Channels)
	assert.Equal(t, []uint8{1, 1, 1}, b.At(0, 0))
	assert.Equal(t, []uint8{4, 4, 4}, b.At(1, 1))
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.Set(6, 5, color.NRGBA{R: 4, G: 5, B: 6, A: 255})

	b, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Width)
	assert.Equal(t, 1, b.Height)
	assert.Equal(t, []uint8{3, 2, 1, 6, 5, 4}, b.Pix)
}

func TestFromImage_Invalid(t *testing.T) {
	_, err := FromImage(nil)
	assert.ErrorIs(t, err, imgerr.ErrDecode)

	_, err = FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, imgerr.ErrDecode)
}

func TestImage_RoundTrip(t *testing.T) {
	colorBuf := patterned(t, 4, 3, Color)
	img := colorBuf.Image()
	require.IsType(t, &image.NRGBA{}, img)

	back, err := FromImage(img)
	require.NoError(t, err)
	assert.True(t, colorBuf.Equal(back))

	grayBuf := patterned(t, 4, 3, Gray)
	g, ok := grayBuf.Image().(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, grayBuf.Pix, g.Pix)
}
