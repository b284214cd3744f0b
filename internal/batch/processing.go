package batch

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/imgproc/internal/editor"
	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// job is one file handed to a worker.
type job struct {
	index int
	path  string
}

// runWorkers processes files on config.Workers goroutines and returns the
// results in input order. Each file gets its own editor handle; the request
// and config are shared read-only.
func runWorkers(ctx context.Context, files []string, plan map[string]string, config *Config, progress ProgressCallback) []FileResult {
	results := make([]FileResult, len(files))
	started := make([]bool, len(files))

	progress.OnStart(len(files))
	defer progress.OnComplete()

	jobs := make(chan job)
	done := make(chan int, len(files))

	workers := min(config.Workers, len(files))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = processFile(j.path, plan[j.path], config)
				done <- j.index
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, f := range files {
			select {
			case <-ctx.Done():
				return
			default:
			}
			select {
			case jobs <- job{index: i, path: f}:
				started[i] = true
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for i := range done {
		completed++
		if err := results[i].Err; err != nil {
			progress.OnError(i, results[i].Source, err)
		}
		progress.OnProgress(completed, len(files))
	}

	// The feeder has exited once every worker is done, so started is
	// safe to read here.
	for i := range files {
		if !started[i] {
			results[i] = FileResult{Source: files[i], Destination: plan[files[i]], Err: ctx.Err()}
		}
	}
	return results
}

// processFile loads, edits and saves one file.
func processFile(path, dest string, config *Config) (res FileResult) {
	start := time.Now()
	res = FileResult{Source: path, Destination: dest}
	log := config.logger().With("file", path)

	defer func() {
		res.Duration = time.Since(start)
		config.Metrics.RecordFile(res, config.Operations)
		if res.Err != nil {
			log.Error("file failed", "kind", imgerr.KindOf(res.Err), "error", res.Err)
			return
		}
		log.Debug("file written",
			"output", res.Destination,
			"width", res.Width,
			"height", res.Height,
			"channels", res.Channels,
			"duration", res.Duration.Round(time.Microsecond))
	}()

	log.Debug("file started", "operations", len(config.Operations))

	h, err := editor.Open(path, editor.WithEncodeOptions(config.Encode), editor.WithLogger(log))
	if err != nil {
		res.Err = err
		return res
	}
	if res.Err = h.ApplyAll(config.Operations); res.Err != nil {
		return res
	}

	buf, err := h.Buffer()
	if err != nil {
		res.Err = err
		return res
	}
	res.Width, res.Height, res.Channels = buf.Width, buf.Height, buf.Channels

	dest, err = config.Output.Resolve(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Destination = dest
	res.Err = h.Save(dest)
	return res
}
