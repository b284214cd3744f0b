package cmd

import (
	"strconv"

	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/spf13/pflag"
)

// shorthands for the most used operations.
var opShorthands = map[string]string{
	"flipx":     "x",
	"flipy":     "y",
	"blur":      "b",
	"grayscale": "g",
}

// opFlag appends an operation token to a shared list every time its flag
// is given, so operations keep the order they have on the command line.
type opFlag struct {
	name  string // catalog name, empty for --op
	param string // parameter syntax, empty for switches
	list  *[]string
}

func (f *opFlag) Set(v string) error {
	switch {
	case f.name == "":
		*f.list = append(*f.list, v)
	case f.param == "":
		on, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		if on {
			*f.list = append(*f.list, f.name)
		}
	default:
		*f.list = append(*f.list, f.name+":"+v)
	}
	return nil
}

func (f *opFlag) String() string { return "" }

func (f *opFlag) Type() string {
	switch {
	case f.name == "":
		return "TOKEN"
	case f.param == "":
		return "bool"
	default:
		return f.param
	}
}

// addOperationFlags registers --op and one flag per catalog entry on fs.
// All of them append to list.
func addOperationFlags(fs *pflag.FlagSet, list *[]string) {
	fs.Var(&opFlag{list: list}, "op", "operation token such as rotate90 or blur:5 (repeatable)")

	for _, spec := range ops.Catalog() {
		f := fs.VarPF(&opFlag{name: spec.Name, param: spec.Params, list: list},
			spec.Name, opShorthands[spec.Name], spec.Description)
		if spec.Params == "" {
			f.NoOptDefVal = "true"
		}
	}
}
