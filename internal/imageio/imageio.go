// Package imageio reads image files into raster buffers and writes buffers
// back to disk in the format named by the destination extension.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/MeKo-Tech/imgproc/internal/raster"
)

// DefaultJPEGQuality matches the quality most photo tools default to.
const DefaultJPEGQuality = 95

// InputExtensions lists the extensions accepted for loading.
var InputExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// IsSupported reports whether path has a loadable image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range InputExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// CanEncode reports whether a buffer can be written to path.
func CanEncode(path string) bool {
	_, err := imaging.FormatFromFilename(path)
	return err == nil
}

// Metadata describes an image file without its pixels.
type Metadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
	Channels  int // 1 for gray encodings, 3 otherwise
}

// Decode reads an encoded image. EXIF orientation is applied and the result
// always has three channels.
func Decode(r io.Reader) (*raster.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, imgerr.Wrap(imgerr.ErrDecode, "decode", "", err)
	}
	return raster.FromImage(img)
}

// Load reads and decodes the file at path.
func Load(path string) (*raster.Buffer, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, imgerr.New(imgerr.ErrDecode, "load", "empty path")
	}

	f, err := os.Open(path) //nolint:gosec // G304: reading user-provided image path is expected
	if err != nil {
		return nil, Metadata{}, imgerr.Wrap(imgerr.ErrDecode, "load", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Debug("close image file", "file", path, "error", cerr)
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, Metadata{}, imgerr.Wrap(imgerr.ErrDecode, "load", path, err)
	}
	if fi.IsDir() {
		return nil, Metadata{}, imgerr.New(imgerr.ErrDecode, "load", "%s is a directory", path)
	}

	buf, err := Decode(f)
	if err != nil {
		var e *imgerr.Error
		if errors.As(err, &e) {
			e.Path = path
		}
		return nil, Metadata{}, err
	}

	format, _ := imaging.FormatFromFilename(path)
	return buf, Metadata{
		Path:      path,
		Format:    strings.ToLower(format.String()),
		SizeBytes: fi.Size(),
		Width:     buf.Width,
		Height:    buf.Height,
		Channels:  buf.Channels,
	}, nil
}

// Probe reads the header of the file at path. Unlike Load it reports the
// channel count of the encoding, so gray files report one channel.
func Probe(path string) (Metadata, error) {
	f, err := os.Open(path) //nolint:gosec // G304: reading user-provided image path is expected
	if err != nil {
		return Metadata{}, imgerr.Wrap(imgerr.ErrDecode, "probe", path, err)
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return Metadata{}, imgerr.Wrap(imgerr.ErrDecode, "probe", path, err)
	}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Metadata{}, imgerr.Wrap(imgerr.ErrDecode, "probe", path, err)
	}

	channels := raster.Color
	switch cfg.ColorModel {
	case color.GrayModel, color.Gray16Model:
		channels = raster.Gray
	}
	return Metadata{
		Path:      path,
		Format:    format,
		SizeBytes: fi.Size(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Channels:  channels,
	}, nil
}

// Options control encoding.
type Options struct {
	JPEGQuality int // 1..100, DefaultJPEGQuality when zero
}

func (o Options) encodeOptions() []imaging.EncodeOption {
	q := o.JPEGQuality
	if q == 0 {
		q = DefaultJPEGQuality
	}
	return []imaging.EncodeOption{imaging.JPEGQuality(q)}
}

// encodeImage is replaced in tests to inject encoder failures.
var encodeImage = imaging.Encode

// Encode writes b to w in the format implied by name's extension.
func Encode(w io.Writer, name string, b *raster.Buffer, opts Options) error {
	if err := b.Validate(); err != nil {
		return err
	}
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return imgerr.Wrap(imgerr.ErrEncode, "encode", name, err)
	}
	if err := encodeImage(w, b.Image(), format, opts.encodeOptions()...); err != nil {
		return imgerr.Wrap(imgerr.ErrEncode, "encode", name, err)
	}
	return nil
}

// Save encodes b into path. The data goes to a temporary file in the
// destination directory which is renamed over path only after a complete
// write, so a failed save never leaves a partial file at path. Missing
// parent directories are created.
func Save(path string, b *raster.Buffer, opts Options) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if !CanEncode(path) {
		return imgerr.New(imgerr.ErrEncode, "save", "unsupported output format %q", filepath.Ext(path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return imgerr.Wrap(imgerr.ErrWrite, "save", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return imgerr.Wrap(imgerr.ErrWrite, "save", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := Encode(tmp, path, b, opts); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return imgerr.Wrap(imgerr.ErrWrite, "save", path, err)
	}
	if err := tmp.Close(); err != nil {
		return imgerr.Wrap(imgerr.ErrWrite, "save", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return imgerr.Wrap(imgerr.ErrWrite, "save", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return imgerr.Wrap(imgerr.ErrWrite, "save", path, fmt.Errorf("rename: %w", err))
	}
	committed = true
	return nil
}
