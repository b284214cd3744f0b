package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// fileReport is the serialized form of a FileResult.
type fileReport struct {
	File       string  `json:"file"`
	Output     string  `json:"output,omitempty"`
	Status     string  `json:"status"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	ErrorKind  string  `json:"error_kind,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func newFileReport(f FileResult) fileReport {
	r := fileReport{
		File:       f.Source,
		Output:     f.Destination,
		Status:     "ok",
		DurationMS: float64(f.Duration.Microseconds()) / 1000,
	}
	if f.Err != nil {
		r.Status = "failed"
		r.Output = ""
		r.ErrorKind = imgerr.KindOf(f.Err)
		r.Error = f.Err.Error()
		return r
	}
	r.Width, r.Height, r.Channels = f.Width, f.Height, f.Channels
	return r
}

// FormatResults renders the per-file report as text, json or csv.
func (r *Result) FormatResults(format string) (string, error) {
	switch format {
	case FormatJSON:
		return r.formatJSON()
	case FormatCSV:
		return r.formatCSV()
	case FormatText, "":
		return r.formatText(), nil
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
}

func (r *Result) formatJSON() (string, error) {
	out := struct {
		Files      []fileReport `json:"files"`
		Total      int          `json:"total"`
		Succeeded  int          `json:"succeeded"`
		Failed     int          `json:"failed"`
		Workers    int          `json:"workers"`
		DurationMS int64        `json:"duration_ms"`
	}{
		Files:      make([]fileReport, len(r.Files)),
		Total:      len(r.Files),
		Succeeded:  r.Succeeded(),
		Failed:     r.Failed(),
		Workers:    r.WorkerCount,
		DurationMS: r.Duration.Milliseconds(),
	}
	for i, f := range r.Files {
		out.Files[i] = newFileReport(f)
	}

	bts, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts) + "\n", nil
}

func (r *Result) formatCSV() (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	rows := [][]string{{"file", "output", "status", "width", "height", "channels", "duration_ms", "error_kind", "error"}}
	for _, f := range r.Files {
		rep := newFileReport(f)
		rows = append(rows, []string{
			rep.File,
			rep.Output,
			rep.Status,
			strconv.Itoa(rep.Width),
			strconv.Itoa(rep.Height),
			strconv.Itoa(rep.Channels),
			strconv.FormatFloat(rep.DurationMS, 'f', 3, 64),
			rep.ErrorKind,
			rep.Error,
		})
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}
	return output.String(), nil
}

func (r *Result) formatText() string {
	var output strings.Builder
	for _, f := range r.Files {
		if f.Err != nil {
			fmt.Fprintf(&output, "FAIL %s: [%s] %v\n", f.Source, imgerr.KindOf(f.Err), f.Err)
			continue
		}
		fmt.Fprintf(&output, "OK   %s -> %s (%dx%d, %d ch, %v)\n",
			f.Source, f.Destination, f.Width, f.Height, f.Channels, f.Duration.Round(time.Millisecond))
	}
	return output.String()
}

// SaveResults writes the report to outputFile, or to w when outputFile is
// empty.
func (r *Result) SaveResults(w io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile == "" {
		_, err := io.WriteString(w, output)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(w, "Report written to %s\n", outputFile)
	}
	return nil
}
