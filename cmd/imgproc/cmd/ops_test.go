package cmd

import (
	"testing"

	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsCommandListsCatalog(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "ops")
	require.NoError(t, err)

	assert.Contains(t, out, "OPERATION")
	for _, spec := range ops.Catalog() {
		assert.Contains(t, out, spec.Name)
	}
	assert.Contains(t, out, "crop:X,Y,W,H")
	assert.Contains(t, out, "resize-ratio:FX,FY")
}

func TestOpsCommandRejectsArgs(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "ops", "extra")
	assert.Error(t, err)
}
