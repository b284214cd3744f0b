package batch

import (
	"io"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// Stats summarizes a batch.
type Stats struct {
	Total            int
	Succeeded        int
	Failed           int
	Workers          int
	TotalDuration    time.Duration
	AveragePerFile   time.Duration
	ThroughputPerSec float64
	PixelsWritten    int64
	FailuresByKind   map[string]int
}

// Stats computes batch statistics.
func (r *Result) Stats() Stats {
	s := Stats{
		Total:          len(r.Files),
		Workers:        r.WorkerCount,
		TotalDuration:  r.Duration,
		FailuresByKind: make(map[string]int),
	}
	var busy time.Duration
	for _, f := range r.Files {
		busy += f.Duration
		if f.Err != nil {
			s.Failed++
			s.FailuresByKind[imgerr.KindOf(f.Err)]++
			continue
		}
		s.Succeeded++
		s.PixelsWritten += int64(f.Width) * int64(f.Height)
	}
	if s.Total > 0 {
		s.AveragePerFile = busy / time.Duration(s.Total)
	}
	if secs := r.Duration.Seconds(); secs > 0 {
		s.ThroughputPerSec = float64(s.Total) / secs
	}
	return s
}

// PrintStats prints processing statistics with grouped digits.
func (r *Result) PrintStats(w io.Writer, quiet bool) {
	if quiet {
		return
	}
	s := r.Stats()
	p := message.NewPrinter(language.English)

	_, _ = p.Fprintf(w, "\nProcessing Statistics:\n")
	_, _ = p.Fprintf(w, "  Total files: %d\n", s.Total)
	_, _ = p.Fprintf(w, "  Written: %d\n", s.Succeeded)
	_, _ = p.Fprintf(w, "  Failed: %d\n", s.Failed)
	kinds := make([]string, 0, len(s.FailuresByKind))
	for k := range s.FailuresByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		_, _ = p.Fprintf(w, "    %s: %d\n", k, s.FailuresByKind[k])
	}
	_, _ = p.Fprintf(w, "  Workers: %d\n", s.Workers)
	_, _ = p.Fprintf(w, "  Pixels written: %d\n", s.PixelsWritten)
	_, _ = p.Fprintf(w, "  Duration: %v\n", s.TotalDuration.Round(time.Millisecond))
	_, _ = p.Fprintf(w, "  Avg per file: %v\n", s.AveragePerFile.Round(time.Millisecond))
	_, _ = p.Fprintf(w, "  Throughput: %.1f files/sec\n", s.ThroughputPerSec)
}
