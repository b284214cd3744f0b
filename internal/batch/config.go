package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MeKo-Tech/imgproc/internal/imageio"
	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/MeKo-Tech/imgproc/internal/outpath"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DefaultIncludePatterns match every loadable image extension in lower and
// upper case.
var DefaultIncludePatterns = extensionPatterns(imageio.InputExtensions)

func extensionPatterns(exts []string) []string {
	patterns := make([]string, 0, 2*len(exts))
	for _, ext := range exts {
		patterns = append(patterns, "*"+ext)
	}
	for _, ext := range exts {
		patterns = append(patterns, "*"+strings.ToUpper(ext))
	}
	return patterns
}

// Config holds all configuration for batch processing.
type Config struct {
	// Edit settings
	Operations ops.Request
	Output     outpath.Spec
	Encode     imageio.Options

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress and report settings
	ShowProgress     bool
	Quiet            bool
	ShowStats        bool
	ProgressInterval time.Duration
	Format           string
	ReportFile       string

	// Progress overrides the callback chosen by ShowProgress.
	Progress ProgressCallback
	Metrics  *Metrics
	Logger   *slog.Logger
}

// DefaultConfig returns the sequential, overwrite-in-place configuration.
func DefaultConfig() *Config {
	return &Config{
		Output:           outpath.Classify("", ""),
		Encode:           imageio.Options{JPEGQuality: imageio.DefaultJPEGQuality},
		Workers:          1,
		IncludePatterns:  append([]string(nil), DefaultIncludePatterns...),
		ProgressInterval: 100 * time.Millisecond,
		Format:           FormatText,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("batch config is nil")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Format {
	case "", FormatText, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("unsupported report format %q (want text, json or csv)", c.Format)
	}
	if q := c.Encode.JPEGQuality; q < 0 || q > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100, got %d", q)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress interval must not be negative, got %v", c.ProgressInterval)
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
