// Package ops describes the requested edit operations and dispatches them to
// the raster transform catalog.
//
// An Operation is a closed variant: a Kind plus the typed parameters that
// kind uses. A Request is the ordered list of operations replayed against
// every image of a batch.
package ops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// Kind enumerates the catalog.
type Kind int

const (
	Invalid Kind = iota
	Rotate90
	Rotate180
	FlipX
	FlipY
	FlipXY
	Blur
	Sharpen
	Grayscale
	Sepia
	Crop
	ResizePixel
	ResizeRatio
)

// Spec documents one catalog entry.
type Spec struct {
	Kind        Kind
	Name        string
	Params      string // parameter syntax, empty when the operation takes none
	Description string
}

var catalog = []Spec{
	{Rotate90, "rotate90", "", "rotate 90 degrees clockwise"},
	{Rotate180, "rotate180", "", "rotate 180 degrees"},
	{FlipX, "flipx", "", "flip on the x axis (reverse row order)"},
	{FlipY, "flipy", "", "flip on the y axis (reverse column order)"},
	{FlipXY, "flipxy", "", "flip on both axes"},
	{Blur, "blur", "N", "box blur with an N x N window"},
	{Sharpen, "sharpen", "", "sharpen with a 3x3 kernel"},
	{Grayscale, "grayscale", "", "convert to a single luminance channel"},
	{Sepia, "sepia", "", "apply a sepia tone"},
	{Crop, "crop", "X,Y,W,H", "keep the W x H region at X,Y"},
	{ResizePixel, "resize-pixel", "W,H", "resize to W x H pixels"},
	{ResizeRatio, "resize-ratio", "FX,FY", "scale width by FX and height by FY"},
}

// Catalog returns the documented operations in display order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}

func (k Kind) String() string {
	for _, s := range catalog {
		if s.Kind == k {
			return s.Name
		}
	}
	return "invalid(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind looks up an operation name. Names are case-insensitive and
// "rotate90cw" is accepted as an alias of "rotate90".
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "rotate90cw" {
		return Rotate90, true
	}
	for _, s := range catalog {
		if s.Name == name {
			return s.Kind, true
		}
	}
	return Invalid, false
}

// Operation is one requested edit. Only the fields used by Kind are set.
type Operation struct {
	Kind   Kind
	Radius int     // Blur
	X, Y   int     // Crop origin
	W, H   int     // Crop size, ResizePixel target
	FX, FY float64 // ResizeRatio factors
}

// Constructors for parameterized operations.

func NewBlur(radius int) Operation           { return Operation{Kind: Blur, Radius: radius} }
func NewCrop(x, y, w, h int) Operation       { return Operation{Kind: Crop, X: x, Y: y, W: w, H: h} }
func NewResizePixel(w, h int) Operation      { return Operation{Kind: ResizePixel, W: w, H: h} }
func NewResizeRatio(fx, fy float64) Operation { return Operation{Kind: ResizeRatio, FX: fx, FY: fy} }

// String renders the operation in the token form accepted by Parse.
func (o Operation) String() string {
	switch o.Kind {
	case Blur:
		return fmt.Sprintf("blur:%d", o.Radius)
	case Crop:
		return fmt.Sprintf("crop:%d,%d,%d,%d", o.X, o.Y, o.W, o.H)
	case ResizePixel:
		return fmt.Sprintf("resize-pixel:%d,%d", o.W, o.H)
	case ResizeRatio:
		return "resize-ratio:" + formatFloat(o.FX) + "," + formatFloat(o.FY)
	default:
		return o.Kind.String()
	}
}

// Parse reads a token of the form NAME or NAME:P1,P2,... Unknown names fail
// with ErrUnknownOperation and malformed parameters with
// ErrInvalidParameter. Parameter ranges are checked when the operation is
// applied, since crop bounds depend on the image.
func Parse(token string) (Operation, error) {
	name, args, hasArgs := strings.Cut(strings.TrimSpace(token), ":")
	kind, ok := ParseKind(name)
	if !ok {
		return Operation{}, imgerr.New(imgerr.ErrUnknownOperation, "parse", "%q", name)
	}

	var params []string
	if hasArgs {
		for _, p := range strings.Split(args, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}

	switch kind {
	case Blur:
		v, err := parseInts(kind, params, 1)
		if err != nil {
			return Operation{}, err
		}
		return NewBlur(v[0]), nil
	case Crop:
		v, err := parseInts(kind, params, 4)
		if err != nil {
			return Operation{}, err
		}
		return NewCrop(v[0], v[1], v[2], v[3]), nil
	case ResizePixel:
		v, err := parseInts(kind, params, 2)
		if err != nil {
			return Operation{}, err
		}
		return NewResizePixel(v[0], v[1]), nil
	case ResizeRatio:
		v, err := parseFloats(kind, params, 2)
		if err != nil {
			return Operation{}, err
		}
		return NewResizeRatio(v[0], v[1]), nil
	default:
		if hasArgs {
			return Operation{}, imgerr.New(imgerr.ErrInvalidParameter, kind.String(), "takes no parameters, got %q", args)
		}
		return Operation{Kind: kind}, nil
	}
}

func parseInts(kind Kind, params []string, n int) ([]int, error) {
	if len(params) != n {
		return nil, arityError(kind, n, len(params))
	}
	out := make([]int, n)
	for i, p := range params {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, imgerr.Wrap(imgerr.ErrInvalidParameter, kind.String(), "", fmt.Errorf("parameter %d: %w", i+1, err))
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(kind Kind, params []string, n int) ([]float64, error) {
	if len(params) != n {
		return nil, arityError(kind, n, len(params))
	}
	out := make([]float64, n)
	for i, p := range params {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, imgerr.Wrap(imgerr.ErrInvalidParameter, kind.String(), "", fmt.Errorf("parameter %d: %w", i+1, err))
		}
		out[i] = v
	}
	return out, nil
}

func arityError(kind Kind, want, got int) error {
	return imgerr.New(imgerr.ErrInvalidParameter, kind.String(), "expected %d parameter(s), got %d", want, got)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Request is an ordered list of operations. Order is preserved exactly;
// duplicates are kept.
type Request []Operation

// ParseRequest parses tokens in order.
func ParseRequest(tokens []string) (Request, error) {
	req := make(Request, 0, len(tokens))
	for i, tok := range tokens {
		op, err := Parse(tok)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		req = append(req, op)
	}
	return req, nil
}

// Strings returns the token form of every operation.
func (r Request) Strings() []string {
	out := make([]string, len(r))
	for i, op := range r {
		out[i] = op.String()
	}
	return out
}

func (r Request) String() string {
	return strings.Join(r.Strings(), " ")
}
