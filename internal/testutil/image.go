package testutil

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

// Common test image sizes.
var (
	TinySize  = ImageSize{16, 8}
	SmallSize = ImageSize{100, 50}
	PhotoSize = ImageSize{320, 240}
)

// ImageConfig describes a synthetic test image: a horizontal red and a
// vertical green gradient over a constant blue, with an optional label
// drawn in the top-left corner so that rotations and flips are visible.
type ImageConfig struct {
	Size  ImageSize
	Blue  uint8
	Label string
	Gray  bool // write a single-channel image
}

// DefaultImageConfig returns a labelled SmallSize image.
func DefaultImageConfig() ImageConfig {
	return ImageConfig{Size: SmallSize, Blue: 64, Label: "TL"}
}

// GenerateImage renders the configured image.
func GenerateImage(config ImageConfig) image.Image {
	w, h := config.Size.Width, config.Size.Height
	img := imaging.New(w, h, color.NRGBA{B: config.Blue, A: 0xff})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: config.Blue,
				A: 0xff,
			})
		}
	}

	if config.Label != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.White),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(1, basicfont.Face7x13.Ascent+1),
		}
		d.DrawString(config.Label)
	}

	if config.Gray {
		gray := image.NewGray(img.Rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				gray.Set(x, y, img.At(x, y))
			}
		}
		return gray
	}
	return img
}

// WriteImage generates an image and saves it as dir/name, the format
// following the extension. It returns the full path.
func WriteImage(t *testing.T, dir, name string, config ImageConfig) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, imaging.Save(GenerateImage(config), path), "failed to write %s", path)
	return path
}

// WriteSizedImage writes an unlabelled image of the given size.
func WriteSizedImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	return WriteImage(t, dir, name, ImageConfig{Size: ImageSize{width, height}, Blue: 64})
}

// ImageInfo reads the header of an image file and returns its size and
// channel count (1 for gray encodings, 3 otherwise).
func ImageInfo(t *testing.T, path string) (width, height, channels int) {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // G304: test file with controlled path
	require.NoError(t, err, "failed to open %s", path)
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err, "failed to decode %s", path)

	channels = 3
	if cfg.ColorModel == color.GrayModel || cfg.ColorModel == color.Gray16Model {
		channels = 1
	}
	return cfg.Width, cfg.Height, channels
}

// LoadImage decodes an image file.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err, "failed to open image %s", path)
	return img
}
