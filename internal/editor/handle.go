// Package editor holds the editable state of one image: the current buffer
// and the path it was loaded from.
package editor

import (
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/imgproc/internal/imageio"
	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/MeKo-Tech/imgproc/internal/raster"
)

// Handle is an image being edited. The zero value is an empty handle; every
// operation other than Upload and Replace fails with ErrNotLoaded until an
// image is present. A Handle is safe for concurrent use, although a batch
// gives each file its own handle.
type Handle struct {
	mu     sync.RWMutex
	buf    *raster.Buffer
	source string
	opts   imageio.Options
	logger *slog.Logger
}

// Option configures a Handle.
type Option func(*Handle)

// WithEncodeOptions sets the options used by Save.
func WithEncodeOptions(o imageio.Options) Option {
	return func(h *Handle) { h.opts = o }
}

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handle) { h.logger = l }
}

// New returns an empty handle.
func New(opts ...Option) *Handle {
	h := &Handle{logger: slog.Default()}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Open decodes path into a new handle.
func Open(path string, opts ...Option) (*Handle, error) {
	h := New(opts...)
	if err := h.Upload(path); err != nil {
		return nil, err
	}
	return h, nil
}

// Upload decodes path and makes it the current image and source. Path and
// image are swapped together: on failure the handle keeps its previous
// state.
func (h *Handle) Upload(path string) error {
	buf, meta, err := imageio.Load(path)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.buf, h.source = buf, path
	h.mu.Unlock()

	h.log().Debug("image loaded", "file", path, "width", meta.Width, "height", meta.Height, "bytes", meta.SizeBytes)
	return nil
}

// Replace makes b the current image. The source path is kept.
func (h *Handle) Replace(b *raster.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	h.buf = b
	h.mu.Unlock()
	return nil
}

// Buffer returns the current image. The buffer must be treated as read-only.
func (h *Handle) Buffer() (*raster.Buffer, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.buf == nil {
		return nil, imgerr.New(imgerr.ErrNotLoaded, "buffer", "no image loaded")
	}
	return h.buf, nil
}

// Source returns the path of the last successful Upload.
func (h *Handle) Source() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.source
}

// Loaded reports whether an image is present.
func (h *Handle) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.buf != nil
}

// Apply runs one operation on the current image and replaces it with the
// result. On failure the current image is unchanged.
func (h *Handle) Apply(op ops.Operation) error {
	return h.ApplyAll(ops.Request{op})
}

// ApplyAll runs the operations in order. It stops at the first failure and
// the current image is only replaced when every step succeeds.
func (h *Handle) ApplyAll(req ops.Request) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.buf == nil {
		return imgerr.New(imgerr.ErrNotLoaded, "apply", "no image loaded")
	}
	out, err := ops.ApplyAll(h.buf, req)
	if err != nil {
		return err
	}
	h.buf = out
	return nil
}

// Save writes the current image to dest, or back to the source path when
// dest is empty, creating parent directories as needed. The write is
// atomic: dest either keeps its old content or holds the complete new
// image.
func (h *Handle) Save(dest string) error {
	h.mu.RLock()
	buf, source := h.buf, h.source
	h.mu.RUnlock()
	if buf == nil {
		return imgerr.New(imgerr.ErrNotLoaded, "save", "no image loaded")
	}
	if dest == "" {
		dest = source
	}
	if dest == "" {
		return imgerr.New(imgerr.ErrWrite, "save", "no destination and no source path")
	}
	if err := imageio.Save(dest, buf, h.opts); err != nil {
		return err
	}
	h.log().Debug("image saved", "file", dest, "size", buf.String())
	return nil
}

func (h *Handle) log() *slog.Logger {
	if h.logger == nil {
		return slog.Default()
	}
	return h.logger
}
