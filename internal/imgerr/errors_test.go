package imgerr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesKind(t *testing.T) {
	err := Wrap(ErrDecode, "load", "a.png", os.ErrNotExist)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrEncode)
	assert.Equal(t, "load: decode error (a.png): file does not exist", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(ErrWrite, "save", "x.png", nil))
}

func TestNewFormatsCause(t *testing.T) {
	err := New(ErrInvalidParameter, "blur", "radius must be >= 1, got %d", 0)

	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, "blur: invalid parameter: radius must be >= 1, got 0", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "Error"},
		{"bare sentinel", ErrShape, "ShapeError"},
		{"typed", New(ErrInvalidRegion, "crop", "out of bounds"), "InvalidRegion"},
		{"wrapped", fmt.Errorf("operation 2: %w", New(ErrUnknownOperation, "apply", "x")), "UnknownOperation"},
		{"outermost wins", Wrap(ErrWrite, "save", "", New(ErrEncode, "encode", "bad")), "WriteError"},
		{"not loaded", Wrap(ErrNotLoaded, "save", "", errors.New("no buffer")), "NotLoaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
