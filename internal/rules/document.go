// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Document is the on-disk rule set. JSON documents decode too, since JSON
// is a subset of YAML.
type Document struct {
	// DropNodes lists predicates whose triples are removed unconditionally.
	DropNodes []string `yaml:"drop_nodes" validate:"dive,required"`

	AllowRelations AllowRelations `yaml:"allow_relations"`

	// SubstituteAttributeValue maps a relation to the rewrites applied, in
	// order, to its literal values.
	SubstituteAttributeValue map[string][]Substitution `yaml:"substitute_attribute_value" validate:"dive,dive"`

	// DefaultAttributeValue replaces values that a rewrite chain empties.
	// Required whenever SubstituteAttributeValue is set.
	DefaultAttributeValue *string `yaml:"default_attribute_value"`
}

// AllowRelations lists the relations that survive filtering.
type AllowRelations struct {
	Global    []string            `yaml:"global" validate:"dive,required"`
	X         []string            `yaml:"x" validate:"dive,required"`
	E         []string            `yaml:"e" validate:"dive,required"`
	Predicate map[string][]string `yaml:"predicate" validate:"dive,dive,required"`
}

// Substitution is one pattern/replacement pair. In a document it is written
// either as a two-element list or as a mapping with pattern and replacement
// keys.
type Substitution struct {
	Pattern     string `yaml:"pattern" validate:"required"`
	Replacement string `yaml:"replacement"`
}

// UnmarshalYAML accepts both [pattern, replacement] and
// {pattern: ..., replacement: ...}.
func (s *Substitution) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: substitution needs [pattern, replacement], got %d elements", value.Line, len(pair))
		}
		s.Pattern, s.Replacement = pair[0], pair[1]
		return nil
	case yaml.MappingNode:
		type plain Substitution
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*s = Substitution(p)
		return nil
	default:
		return fmt.Errorf("line %d: substitution must be a list or a mapping", value.Line)
	}
}
