package main

import (
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/imgproc/internal/imageio"
	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSampleImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	written, err := writeSampleImages(dir)
	require.NoError(t, err)
	assert.Len(t, written, len(sampleImages)*len(sampleFormats))

	for _, path := range written {
		meta, err := imageio.Probe(path)
		require.NoError(t, err, path)
		assert.Positive(t, meta.Width)
	}

	meta, err := imageio.Probe(filepath.Join(dir, "gray.png"))
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Channels)

	meta, err = imageio.Probe(filepath.Join(dir, "landscape.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []int{320, 240, 3}, []int{meta.Width, meta.Height, meta.Channels})
}

func TestWriteSampleRecipes(t *testing.T) {
	dir := t.TempDir()

	written, err := writeSampleRecipes(dir)
	require.NoError(t, err)
	assert.Len(t, written, len(sampleRecipes))

	for name, want := range sampleRecipes {
		got, err := ops.LoadRecipe(filepath.Join(dir, name+".yaml"))
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestSampleRecipesApplyToPhoto(t *testing.T) {
	dir := t.TempDir()
	written, err := writeSampleImages(dir)
	require.NoError(t, err)
	require.NotEmpty(t, written)

	src, _, err := imageio.Load(filepath.Join(dir, "photo.png"))
	require.NoError(t, err)
	for name, req := range sampleRecipes {
		_, err := ops.ApplyAll(src, req)
		assert.NoError(t, err, name)
	}
}
