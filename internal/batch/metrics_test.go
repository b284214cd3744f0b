package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/MeKo-Tech/imgproc/internal/ops"
)

func TestMetrics_RecordFile(t *testing.T) {
	m := NewMetrics()
	req := ops.Request{{Kind: ops.Rotate90}, {Kind: ops.Grayscale}, {Kind: ops.Rotate90}}

	m.RecordFile(FileResult{Width: 10, Height: 10, Duration: time.Millisecond}, req)
	m.RecordFile(FileResult{Err: imgerr.New(imgerr.ErrDecode, "load", "bad")}, req)

	assert.InDelta(t, 1, testutil.ToFloat64(m.filesTotal.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.filesTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.errorsTotal.WithLabelValues("DecodeError")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.operationsTotal.WithLabelValues("rotate90")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operationsTotal.WithLabelValues("grayscale")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFile(FileResult{}, nil)
		m.RecordBatch(&Result{})
	})
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordBatch(&Result{Duration: 2 * time.Second})

	path := filepath.Join(t.TempDir(), "imgproc.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "imgproc_batch_duration_seconds 2")
}
