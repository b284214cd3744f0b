package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/MeKo-Tech/imgproc/internal/testutil"
	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"
)

// sampleFormats are the encodable extensions written for every sample.
var sampleFormats = []string{".png", ".jpg", ".bmp", ".gif", ".tiff"}

// sampleImages are the generated sources.
var sampleImages = []struct {
	name   string
	config testutil.ImageConfig
}{
	{"tiny", testutil.ImageConfig{Size: testutil.TinySize, Blue: 64}},
	{"photo", testutil.ImageConfig{Size: testutil.SmallSize, Blue: 64, Label: "TL"}},
	{"landscape", testutil.ImageConfig{Size: testutil.PhotoSize, Blue: 128, Label: "TOP LEFT"}},
	{"gray", testutil.ImageConfig{Size: testutil.SmallSize, Label: "TL", Gray: true}},
}

// sampleRecipes are written as YAML recipes usable with "imgproc edit --recipe".
var sampleRecipes = map[string]ops.Request{
	"thumbnail": {ops.NewResizeRatio(0.25, 0.25), {Kind: ops.Sharpen}},
	"portrait":  {{Kind: ops.Rotate90}, {Kind: ops.Grayscale}},
	"vintage":   {ops.NewBlur(3), {Kind: ops.Sepia}},
	"mirror":    {{Kind: ops.FlipY}, ops.NewCrop(0, 0, 50, 50)},
}

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		generateImages  = flag.Bool("images", true, "Generate synthetic sample images")
		generateRecipes = flag.Bool("recipes", true, "Generate sample recipes")
		outDir          = flag.String("out", "testdata", "Output directory, relative to the project root")
		help            = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate sample images and recipes for imgproc.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                   # Generate everything\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -recipes=false    # Generate only images\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	root, err := testutil.GetProjectRoot()
	if err != nil {
		slog.Error("Failed to find project root", "error", err)
		os.Exit(1)
	}
	dir := filepath.Join(root, *outDir)

	if *generateImages {
		written, err := writeSampleImages(filepath.Join(dir, "images"))
		if err != nil {
			slog.Error("Failed to generate sample images", "error", err)
			os.Exit(1)
		}
		slog.Info("Generated sample images", "count", len(written))
	}

	if *generateRecipes {
		written, err := writeSampleRecipes(filepath.Join(dir, "recipes"))
		if err != nil {
			slog.Error("Failed to generate sample recipes", "error", err)
			os.Exit(1)
		}
		slog.Info("Generated sample recipes", "count", len(written))
	}
}

// writeSampleImages writes every sample in every format into dir and
// returns the written paths.
func writeSampleImages(dir string) ([]string, error) {
	if err := testutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	var written []string
	for _, sample := range sampleImages {
		img := testutil.GenerateImage(sample.config)
		for _, ext := range sampleFormats {
			path := filepath.Join(dir, sample.name+ext)
			if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
				return written, fmt.Errorf("failed to save %s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// writeSampleRecipes writes one YAML recipe per entry of sampleRecipes.
func writeSampleRecipes(dir string) ([]string, error) {
	if err := testutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create recipes directory: %w", err)
	}

	var written []string
	for name, req := range sampleRecipes {
		data, err := yaml.Marshal(ops.Recipe{Operations: req})
		if err != nil {
			return written, fmt.Errorf("failed to encode recipe %s: %w", name, err)
		}
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return written, fmt.Errorf("failed to write recipe %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
