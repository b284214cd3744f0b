package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressCallback receives batch progress. Calls are made from a single
// goroutine.
type ProgressCallback interface {
	// OnStart is called once with the number of files.
	OnStart(total int)
	// OnProgress is called after each finished file.
	OnProgress(done, total int)
	// OnError is called for each failed file before its OnProgress call.
	OnError(index int, file string, err error)
	// OnComplete is called once when no more files will finish.
	OnComplete()
}

// newProgress builds the callback selected by the config: a console bar
// for ShowProgress and a log reporter when the logger is at debug level.
func newProgress(config *Config) ProgressCallback {
	if config.Progress != nil {
		return config.Progress
	}
	if config.Quiet {
		return noopProgress{}
	}

	var callbacks MultiProgress
	if config.ShowProgress {
		callbacks = append(callbacks,
			NewConsoleProgress(os.Stderr, "Editing: ").WithUpdateInterval(config.ProgressInterval))
	}
	if log := config.logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		callbacks = append(callbacks, NewLogProgress(log, 0))
	}

	switch len(callbacks) {
	case 0:
		return noopProgress{}
	case 1:
		return callbacks[0]
	default:
		return callbacks
	}
}

type noopProgress struct{}

func (noopProgress) OnStart(int)                {}
func (noopProgress) OnProgress(int, int)        {}
func (noopProgress) OnError(int, string, error) {}
func (noopProgress) OnComplete()                {}

// ConsoleProgress draws a progress bar with rate and ETA.
type ConsoleProgress struct {
	mu             sync.Mutex
	w              io.Writer
	prefix         string
	width          int
	updateInterval time.Duration
	start          time.Time
	lastDraw       time.Time
	failed         int
}

// NewConsoleProgress returns a console progress bar writing to w.
func NewConsoleProgress(w io.Writer, prefix string) *ConsoleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleProgress{
		w:              w,
		prefix:         prefix,
		width:          40,
		updateInterval: 100 * time.Millisecond,
	}
}

// WithWidth sets the bar width in cells.
func (c *ConsoleProgress) WithWidth(width int) *ConsoleProgress {
	if width > 0 {
		c.width = width
	}
	return c
}

// WithUpdateInterval limits how often the bar is redrawn.
func (c *ConsoleProgress) WithUpdateInterval(d time.Duration) *ConsoleProgress {
	c.updateInterval = d
	return c
}

func (c *ConsoleProgress) OnStart(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
	c.lastDraw = time.Time{}
	c.failed = 0
	_, _ = fmt.Fprintf(c.w, "%s0/%d\n", c.prefix, total)
}

func (c *ConsoleProgress) OnProgress(done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if done < total && now.Sub(c.lastDraw) < c.updateInterval {
		return
	}
	c.lastDraw = now
	c.draw(done, total, now)
}

func (c *ConsoleProgress) OnError(_ int, file string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed++
	_, _ = fmt.Fprintf(c.w, "\r%s%s: %v\n", c.prefix, file, err)
}

func (c *ConsoleProgress) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "\n%sfinished in %v, %d failed\n",
		c.prefix, time.Since(c.start).Round(time.Millisecond), c.failed)
}

func (c *ConsoleProgress) draw(done, total int, now time.Time) {
	if total <= 0 {
		return
	}
	filled := c.width * done / total
	bar := strings.Repeat("#", filled) + strings.Repeat("-", c.width-filled)
	line := fmt.Sprintf("\r%s[%s] %d/%d (%.1f%%)", c.prefix, bar, done, total, 100*float64(done)/float64(total))

	if elapsed := now.Sub(c.start); elapsed > 0 && done > 0 {
		line += fmt.Sprintf(" %.1f/s", float64(done)/elapsed.Seconds())
		if done < total {
			eta := time.Duration(float64(elapsed) * float64(total-done) / float64(done))
			line += fmt.Sprintf(" ETA %v", eta.Round(time.Second))
		}
	}
	_, _ = fmt.Fprint(c.w, line)
}

// LogProgress reports progress through slog at debug level every interval
// files.
type LogProgress struct {
	logger   *slog.Logger
	interval int
	start    time.Time
	last     int
}

// NewLogProgress returns a slog based progress reporter.
func NewLogProgress(logger *slog.Logger, interval int) *LogProgress {
	if logger == nil {
		logger = slog.Default()
	}
	if interval < 1 {
		interval = 10
	}
	return &LogProgress{logger: logger, interval: interval}
}

func (l *LogProgress) OnStart(total int) {
	l.start = time.Now()
	l.last = 0
	l.logger.Debug("progress started", "total", total)
}

func (l *LogProgress) OnProgress(done, total int) {
	if done-l.last < l.interval && done != total {
		return
	}
	l.last = done
	l.logger.Debug("progress",
		"done", done,
		"total", total,
		"elapsed", time.Since(l.start).Round(time.Millisecond))
}

func (l *LogProgress) OnError(index int, file string, err error) {
	l.logger.Debug("progress error", "index", index, "file", file, "error", err)
}

func (l *LogProgress) OnComplete() {
	l.logger.Debug("progress completed", "elapsed", time.Since(l.start).Round(time.Millisecond))
}

// MultiProgress fans progress out to several callbacks.
type MultiProgress []ProgressCallback

func (m MultiProgress) OnStart(total int) {
	for _, cb := range m {
		cb.OnStart(total)
	}
}

func (m MultiProgress) OnProgress(done, total int) {
	for _, cb := range m {
		cb.OnProgress(done, total)
	}
}

func (m MultiProgress) OnError(index int, file string, err error) {
	for _, cb := range m {
		cb.OnError(index, file, err)
	}
}

func (m MultiProgress) OnComplete() {
	for _, cb := range m {
		cb.OnComplete()
	}
}
