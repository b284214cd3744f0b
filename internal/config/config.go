package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MeKo-Tech/imgproc/internal/batch"
	"github.com/MeKo-Tech/imgproc/internal/imageio"
	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/MeKo-Tech/imgproc/internal/outpath"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
	validReports    = []string{batch.FormatText, batch.FormatJSON, batch.FormatCSV}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:   "info",
		LogFormat:  "json",
		Verbose:    false,
		Operations: []string{},
		Output: OutputConfig{
			Suffix:       outpath.DefaultSuffix,
			JPEGQuality:  imageio.DefaultJPEGQuality,
			ReportFormat: batch.FormatText,
		},
		Batch: BatchConfig{
			Workers: 1,
			Include: slices.Clone(batch.DefaultIncludePatterns),
			Exclude: []string{},
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log_level %q: must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log_format %q: must be one of %v", c.LogFormat, validLogFormats))
	}
	if _, err := ops.ParseRequest(c.Operations); err != nil {
		errs = append(errs, fmt.Errorf("invalid operations: %w", err))
	}
	if c.Output.Suffix == "" {
		errs = append(errs, errors.New("output.suffix must not be empty"))
	}
	if q := c.Output.JPEGQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("output.jpeg_quality must be between 1 and 100, got %d", q))
	}
	if !slices.Contains(validReports, c.Output.ReportFormat) {
		errs = append(errs, fmt.Errorf("invalid output.report_format %q: must be one of %v", c.Output.ReportFormat, validReports))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers))
	}

	return errors.Join(errs...)
}

// Request returns the configured operations. A recipe file takes
// precedence over the inline list.
func (c *Config) Request() (ops.Request, error) {
	if c.Recipe != "" {
		return ops.LoadRecipe(c.Recipe)
	}
	return ops.ParseRequest(c.Operations)
}

// ToBatchConfig converts the configuration into batch settings. The
// request is passed separately since the command line may override it.
func (c *Config) ToBatchConfig(req ops.Request) *batch.Config {
	bc := batch.DefaultConfig()
	bc.Operations = req
	bc.Output = outpath.Classify(c.Output.Path, c.Output.Suffix)
	bc.Encode = imageio.Options{JPEGQuality: c.Output.JPEGQuality}
	bc.Workers = c.Batch.Workers
	bc.Recursive = c.Batch.Recursive
	bc.IncludePatterns = slices.Clone(c.Batch.Include)
	bc.ExcludePatterns = slices.Clone(c.Batch.Exclude)
	bc.ShowProgress = c.Batch.Progress
	bc.ShowStats = c.Batch.Stats
	bc.Format = c.Output.ReportFormat
	bc.ReportFile = c.Output.ReportFile
	if c.Metrics.File != "" {
		bc.Metrics = batch.NewMetrics()
	}
	return bc
}
