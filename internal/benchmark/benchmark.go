// Package benchmark measures the cost of edit operations on in-memory
// buffers.
package benchmark

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/MeKo-Tech/imgproc/internal/raster"
)

// Timer provides simple timing utilities for benchmarking.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new timer with the given name.
func NewTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

func (t *Timer) String() string {
	return fmt.Sprintf("%s: %v", t.name, t.duration)
}

// MemoryStats holds memory usage statistics.
type MemoryStats struct {
	AllocBytes      uint64  // Currently allocated bytes
	TotalAllocBytes uint64  // Total allocated bytes (cumulative)
	Mallocs         uint64  // Cumulative count of heap objects allocated
	NumGC           uint32  // Number of GC runs
	GCCPUFraction   float64 // Fraction of CPU time spent in GC
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		Mallocs:         m.Mallocs,
		NumGC:           m.NumGC,
		GCCPUFraction:   m.GCCPUFraction,
	}
}

func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, GC: %d (%.2f%% CPU)",
		m.AllocBytes/1024,
		m.TotalAllocBytes/1024,
		m.NumGC,
		m.GCCPUFraction*100)
}

// Result holds the outcome of one benchmark.
type Result struct {
	Name         string
	Duration     time.Duration
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Iterations   int
	Error        error
}

// Average returns the mean duration of one iteration.
func (r Result) Average() time.Duration {
	if r.Iterations <= 0 {
		return 0
	}
	return r.Duration / time.Duration(r.Iterations)
}

// AllocatedPerOp returns the bytes allocated per iteration. TotalAlloc is
// cumulative, so the difference is never negative.
func (r Result) AllocatedPerOp() uint64 {
	if r.Iterations <= 0 {
		return 0
	}
	return (r.MemoryAfter.TotalAllocBytes - r.MemoryBefore.TotalAllocBytes) / uint64(r.Iterations)
}

func (r Result) String() string {
	if r.Error != nil {
		return fmt.Sprintf("%s: ERROR - %v", r.Name, r.Error)
	}
	return fmt.Sprintf("%s: %d iterations, avg: %v, total: %v, alloc: %d KB/op",
		r.Name, r.Iterations, r.Average(), r.Duration, r.AllocatedPerOp()/1024)
}

// Benchmark is a named function measured by a Suite.
type Benchmark struct {
	Name string
	Func func() error
}

// Suite manages multiple benchmarks.
type Suite struct {
	benchmarks []Benchmark
	results    []Result
	mu         sync.Mutex
}

// NewSuite creates an empty suite.
func NewSuite() *Suite {
	return &Suite{
		benchmarks: make([]Benchmark, 0),
		results:    make([]Result, 0),
	}
}

// Add adds a benchmark to the suite.
func (s *Suite) Add(name string, fn func() error) {
	s.benchmarks = append(s.benchmarks, Benchmark{Name: name, Func: fn})
}

// Run runs a single benchmark with the specified number of iterations.
func (s *Suite) Run(name string, iterations int) Result {
	for _, b := range s.benchmarks {
		if b.Name == name {
			return runBenchmark(b, iterations)
		}
	}
	return Result{
		Name:  name,
		Error: fmt.Errorf("benchmark '%s' not found", name),
	}
}

// RunAll runs every benchmark in insertion order.
func (s *Suite) RunAll(iterations int) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = make([]Result, 0, len(s.benchmarks))
	for _, b := range s.benchmarks {
		s.results = append(s.results, runBenchmark(b, iterations))
	}
	return s.results
}

// Results returns the results of the last RunAll.
func (s *Suite) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

func runBenchmark(b Benchmark, iterations int) Result {
	// Force garbage collection before measuring
	runtime.GC()
	memBefore := GetMemoryStats()

	timer := NewTimer(b.Name)
	var err error
	done := 0
	for range iterations {
		if err = b.Func(); err != nil {
			break
		}
		done++
	}
	duration := timer.Stop()

	return Result{
		Name:         b.Name,
		Duration:     duration,
		MemoryBefore: memBefore,
		MemoryAfter:  GetMemoryStats(),
		Iterations:   done,
		Error:        err,
	}
}

// WriteResults prints the results as an aligned table.
func WriteResults(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "OPERATION\tITERATIONS\tAVG\tTOTAL\tALLOC/OP")
	for _, r := range results {
		if r.Error != nil {
			_, _ = fmt.Fprintf(tw, "%s\t%d\tERROR\t\t%v\n", r.Name, r.Iterations, r.Error)
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%d KB\n",
			r.Name, r.Iterations, r.Average(), r.Duration.Round(time.Microsecond), r.AllocatedPerOp()/1024)
	}
	return tw.Flush()
}

// OperationSuite builds one benchmark per operation, each applying the
// operation to src. src is never modified.
func OperationSuite(src *raster.Buffer, req ops.Request) *Suite {
	s := NewSuite()
	for _, op := range req {
		s.Add(op.String(), func() error {
			_, err := ops.Apply(src, op)
			return err
		})
	}
	return s
}

// DefaultOperations returns one representative operation per catalog entry
// sized for a width x height source.
func DefaultOperations(width, height int) ops.Request {
	return ops.Request{
		{Kind: ops.Rotate90},
		{Kind: ops.Rotate180},
		{Kind: ops.FlipX},
		{Kind: ops.FlipY},
		{Kind: ops.FlipXY},
		ops.NewBlur(5),
		{Kind: ops.Sharpen},
		{Kind: ops.Grayscale},
		{Kind: ops.Sepia},
		ops.NewCrop(width/4, height/4, max(width/2, 1), max(height/2, 1)),
		ops.NewResizePixel(max(width/2, 1), max(height/2, 1)),
		ops.NewResizeRatio(2, 2),
	}
}

// SyntheticBuffer returns a three-channel gradient buffer.
func SyntheticBuffer(width, height int) (*raster.Buffer, error) {
	b, err := raster.New(width, height, raster.Color)
	if err != nil {
		return nil, err
	}
	for y := range height {
		for x := range width {
			px := b.At(x, y)
			px[0] = uint8((x + y) % 256)
			px[1] = uint8(y * 255 / max(height-1, 1))
			px[2] = uint8(x * 255 / max(width-1, 1))
		}
	}
	return b, nil
}
