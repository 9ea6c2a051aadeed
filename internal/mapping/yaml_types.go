package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts a single destination name or a list of them. An
// empty scalar yields an empty list, blank list items are rejected.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	var values []string

	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			values = []string{str}
		}

	case yaml.SequenceNode:
		if err := node.Decode(&values); err != nil {
			return err
		}

		if slices.Contains(values, "") {
			return fmt.Errorf("line %d: empty name in list", node.Line)
		}

	default:
		return fmt.Errorf("line %d: expected a name or a list of names", node.Line)
	}

	*s = StringOrArray(values)
	if *s == nil {
		*s = StringOrArray{}
	}

	return nil
}

// MarshalYAML writes a single name as a scalar.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty reports whether no value is listed.
func (s StringOrArray) IsEmpty() bool {
	return len(s) == 0
}

// Contains reports whether str is listed.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}
