package modal

import (
	"math/rand"
	"regexp"

	"emperror.dev/errors"
	"gopkg.in/yaml.v3"
)

// Text is a string that may be given as a list of candidates in config,
// in which case one is picked at random every time a modal is built.
type Text []string

// UnmarshalYAML accepts either a scalar or a sequence of scalars.
func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*t = Text{value.Value}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*t = s
		return nil
	}
	return errors.Errorf("line %d: expected a string or a list of strings", value.Line)
}

// MarshalYAML writes a single candidate as a plain string.
func (t Text) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}
	return []string(t), nil
}

// resolve picks a candidate. An empty Text resolves to "".
func (t Text) resolve(rng *rand.Rand) string {
	switch len(t) {
	case 0:
		return ""
	case 1:
		return t[0]
	}

	if rng == nil {
		return t[rand.Intn(len(t))]
	}
	return t[rng.Intn(len(t))]
}

// Config is a declarative modal.
type Config struct {
	Title    Text   `yaml:"Title"`
	CustomID string `yaml:"CustomID"`

	// Rows maps row slots 1 through 5 to the components in that row.
	Rows map[int][]Component `yaml:"Rows"`
}

// Component describes a single modal component. Only text inputs exist for now.
type Component struct {
	Type     string `yaml:"Type"`
	CustomID string `yaml:"CustomID"`

	Style        string `yaml:"Style,omitempty"`
	Label        Text   `yaml:"Label,omitempty"`
	Required     bool   `yaml:"Required,omitempty"`
	DefaultValue Text   `yaml:"DefaultValue,omitempty"`
	Placeholder  Text   `yaml:"Placeholder,omitempty"`
	MinLength    int    `yaml:"MinLength,omitempty"`
	MaxLength    int    `yaml:"MaxLength,omitempty"`
}

// Variable replaces every match of SearchFor with ReplaceWith, formatted with fmt.Sprint.
type Variable struct {
	SearchFor   *regexp.Regexp
	ReplaceWith any
}

// Settings is the input to Setup.
type Settings struct {
	Config    Config
	Variables []Variable

	// Rand is used to pick between Text candidates. If nil, the math/rand global source is used.
	Rand *rand.Rand
}
