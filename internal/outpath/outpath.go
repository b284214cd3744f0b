// Package outpath maps source files to destination paths according to the
// requested output spec.
package outpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// DefaultSuffix is appended to the base name in directory mode.
const DefaultSuffix = "_edited"

// Mode says how a Spec maps sources to destinations.
type Mode int

const (
	// Overwrite writes every result back to its source.
	Overwrite Mode = iota
	// Directory writes {dir}/{base}{suffix}{ext}.
	Directory
	// File writes to a single fixed path.
	File
)

func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Spec is a classified output request.
type Spec struct {
	Mode   Mode
	Path   string
	Suffix string
}

// Classify interprets a raw output value. An empty value means overwrite.
// A value that names an existing directory or ends with a path separator
// selects directory mode; anything else is a file path.
func Classify(output, suffix string) Spec {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if output == "" {
		return Spec{Mode: Overwrite, Suffix: suffix}
	}
	if strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/") {
		return Spec{Mode: Directory, Path: output, Suffix: suffix}
	}
	if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		return Spec{Mode: Directory, Path: output, Suffix: suffix}
	}
	return Spec{Mode: File, Path: output, Suffix: suffix}
}

// Destination returns the destination for source without touching the
// filesystem.
func (s Spec) Destination(source string) string {
	switch s.Mode {
	case Directory:
		base := filepath.Base(source)
		ext := filepath.Ext(base)
		return filepath.Join(s.Path, strings.TrimSuffix(base, ext)+s.Suffix+ext)
	case File:
		return s.Path
	default:
		return source
	}
}

// Resolve returns the destination for source and creates the directory it
// will be written into.
func (s Spec) Resolve(source string) (string, error) {
	dest := s.Destination(source)
	dir := filepath.Dir(dest)
	if s.Mode == Directory {
		dir = s.Path
	}
	if s.Mode != Overwrite {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", imgerr.Wrap(imgerr.ErrWrite, "resolve", dir, err)
		}
	}
	return dest, nil
}

// Plan checks the spec against the whole input list before any file is
// processed. A file spec cannot serve more than one input, no two inputs
// may share a destination, and no destination may be another input.
func (s Spec) Plan(inputs []string) (map[string]string, error) {
	if s.Mode == File && len(inputs) > 1 {
		return nil, imgerr.New(imgerr.ErrInvalidParameter, "plan",
			"output %q is a file but %d inputs were given; use a directory", s.Path, len(inputs))
	}

	sources := make(map[string]string, len(inputs))
	for _, in := range inputs {
		sources[cleanAbs(in)] = in
	}

	plan := make(map[string]string, len(inputs))
	owner := make(map[string]string, len(inputs))
	for _, in := range inputs {
		dest := cleanAbs(s.Destination(in))
		if prev, ok := owner[dest]; ok && cleanAbs(prev) != cleanAbs(in) {
			return nil, imgerr.New(imgerr.ErrInvalidParameter, "plan",
				"%s and %s would both be written to %s", prev, in, dest)
		}
		if other, ok := sources[dest]; ok && dest != cleanAbs(in) {
			return nil, imgerr.New(imgerr.ErrInvalidParameter, "plan",
				"writing %s would overwrite input %s", in, other)
		}
		owner[dest] = in
		plan[in] = s.Destination(in)
	}
	return plan, nil
}

// cleanAbs normalizes a path for comparison.
func cleanAbs(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
