package ops

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
)

// Recipe is a saved request. In YAML every operation is either a token
// string or a single-key mapping from name to parameters:
//
//	operations:
//	  - rotate90
//	  - blur: 5
//	  - crop: [10, 10, 200, 100]
//	  - resize-ratio: "0.5,0.5"
type Recipe struct {
	Operations Request `yaml:"operations"`
}

// UnmarshalYAML accepts the token and mapping forms described on Recipe.
func (o *Operation) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		op, err := Parse(node.Value)
		if err != nil {
			return err
		}
		*o = op
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return imgerr.New(imgerr.ErrInvalidParameter, "recipe",
				"line %d: operation mapping must have exactly one key", node.Line)
		}
		name, value := node.Content[0].Value, node.Content[1]

		var params []string
		switch value.Kind {
		case yaml.ScalarNode:
			params = []string{value.Value}
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return imgerr.New(imgerr.ErrInvalidParameter, "recipe",
						"line %d: parameters of %q must be scalars", item.Line, name)
				}
				params = append(params, item.Value)
			}
		default:
			return imgerr.New(imgerr.ErrInvalidParameter, "recipe",
				"line %d: unsupported parameters for %q", value.Line, name)
		}

		op, err := Parse(name + ":" + strings.Join(params, ","))
		if err != nil {
			return err
		}
		*o = op
		return nil

	default:
		return imgerr.New(imgerr.ErrInvalidParameter, "recipe", "line %d: unexpected operation node", node.Line)
	}
}

// MarshalYAML writes the token form.
func (o Operation) MarshalYAML() (any, error) {
	return o.String(), nil
}

// LoadRecipe reads a YAML recipe file.
func LoadRecipe(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return ParseRecipe(data)
}

// ParseRecipe decodes recipe YAML.
func ParseRecipe(data []byte) (Request, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	return r.Operations, nil
}
