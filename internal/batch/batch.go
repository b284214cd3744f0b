// Package batch applies one edit request to many image files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FileResult is the outcome for one input file.
type FileResult struct {
	Source      string
	Destination string
	Width       int
	Height      int
	Channels    int
	Duration    time.Duration
	Err         error
}

// OK reports whether the file was written.
func (f FileResult) OK() bool { return f.Err == nil }

// Result holds the result of batch processing.
type Result struct {
	Files       []FileResult
	Duration    time.Duration
	WorkerCount int
}

// Succeeded returns the number of files written.
func (r *Result) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if f.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be edited.
func (r *Result) Failed() int {
	return len(r.Files) - r.Succeeded()
}

// Err summarizes per-file failures, or returns nil when every file was
// written.
func (r *Result) Err() error {
	if failed := r.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(r.Files))
	}
	return nil
}

// ProcessBatch edits every file named by inputs. A failure on one file is
// recorded in its FileResult and never stops the others. Configuration
// problems, such as a single output file for several inputs, are reported
// before any file is touched.
//
// When ctx is cancelled no further files are started; files not started
// carry the context error and ProcessBatch returns it alongside the
// partial result.
func ProcessBatch(ctx context.Context, inputs []string, config *Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	files, err := DiscoverFiles(inputs, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	plan, err := config.Output.Plan(files)
	if err != nil {
		return nil, err
	}

	log := config.logger()
	log.Info("batch started",
		"files", len(files),
		"workers", config.Workers,
		"operations", config.Operations.String(),
		"output", config.Output.Mode.String())

	progress := newProgress(config)

	startTime := time.Now()
	results := runWorkers(ctx, files, plan, config, progress)
	duration := time.Since(startTime)

	res := &Result{Files: results, Duration: duration, WorkerCount: config.Workers}
	config.Metrics.RecordBatch(res)
	log.Info("batch finished",
		"ok", res.Succeeded(),
		"failed", res.Failed(),
		"duration", duration.Round(time.Millisecond))

	return res, ctx.Err()
}
