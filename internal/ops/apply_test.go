package ops

import (
	"testing"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/MeKo-Tech/imgproc/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buffer(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	b, err := raster.New(w, h, raster.Color)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 13)
	}
	return b
}

func TestApply_EveryKind(t *testing.T) {
	b := buffer(t, 100, 50)
	tests := []struct {
		op       Operation
		w, h, ch int
	}{
		{Operation{Kind: Rotate90}, 50, 100, 3},
		{Operation{Kind: Rotate180}, 100, 50, 3},
		{Operation{Kind: FlipX}, 100, 50, 3},
		{Operation{Kind: FlipY}, 100, 50, 3},
		{Operation{Kind: FlipXY}, 100, 50, 3},
		{NewBlur(3), 100, 50, 3},
		{Operation{Kind: Sharpen}, 100, 50, 3},
		{Operation{Kind: Grayscale}, 100, 50, 1},
		{Operation{Kind: Sepia}, 100, 50, 3},
		{NewCrop(10, 10, 20, 5), 20, 5, 3},
		{NewResizePixel(30, 40), 30, 40, 3},
		{NewResizeRatio(0.5, 0.5), 50, 25, 3},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			out, err := Apply(b, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.w, out.Width)
			assert.Equal(t, tt.h, out.Height)
			assert.Equal(t, tt.ch, out.Channels)
			assert.NoError(t, out.Validate())
		})
	}
}

func TestApply_Errors(t *testing.T) {
	b := buffer(t, 20, 20)

	_, err := Apply(b, Operation{})
	assert.ErrorIs(t, err, imgerr.ErrUnknownOperation)

	_, err = Apply(b, NewBlur(0))
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)

	_, err = Apply(b, NewCrop(10, 10, 5, 0))
	assert.ErrorIs(t, err, imgerr.ErrInvalidRegion)

	_, err = Apply(nil, Operation{Kind: Sepia})
	assert.ErrorIs(t, err, imgerr.ErrNotLoaded)
}

func TestApplyAll_RotateThenGrayscale(t *testing.T) {
	b := buffer(t, 100, 50)
	orig := b.Clone()

	out, err := ApplyAll(b, Request{{Kind: Rotate90}, {Kind: Grayscale}})
	require.NoError(t, err)
	assert.Equal(t, 50, out.Width)
	assert.Equal(t, 100, out.Height)
	assert.Equal(t, raster.Gray, out.Channels)
	assert.True(t, orig.Equal(b))
}

func TestApplyAll_OrderMatters(t *testing.T) {
	b := buffer(t, 40, 20)

	cropFirst, err := ApplyAll(b, Request{NewCrop(0, 0, 10, 10), {Kind: Rotate90}})
	require.NoError(t, err)
	rotateFirst, err := ApplyAll(b, Request{{Kind: Rotate90}, NewCrop(0, 0, 10, 10)})
	require.NoError(t, err)

	assert.False(t, cropFirst.Equal(rotateFirst))
}

func TestApplyAll_StopsAtFirstFailure(t *testing.T) {
	b := buffer(t, 20, 20)
	out, err := ApplyAll(b, Request{{Kind: Rotate90}, NewCrop(10, 10, 5, 0), {Kind: Sepia}})
	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, imgerr.ErrInvalidRegion)
	assert.Contains(t, err.Error(), "step 2")
}

func TestApplyAll_EmptyRequestReturnsInput(t *testing.T) {
	b := buffer(t, 4, 4)
	out, err := ApplyAll(b, nil)
	require.NoError(t, err)
	assert.Same(t, b, out)
}

func TestApply_ParsedCropOverflow(t *testing.T) {
	op, err := Parse("crop:1,0,9223372036854775807,2")
	require.NoError(t, err)

	out, err := Apply(buffer(t, 4, 4), op)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, imgerr.ErrInvalidRegion)
}

func TestApply_ParsedHugeBlur(t *testing.T) {
	op, err := Parse("blur:100000000")
	require.NoError(t, err)

	_, err = Apply(buffer(t, 4, 4), op)
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)
}
