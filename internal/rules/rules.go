// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules loads and compiles the declarative rule set that drives
// triple filtering and attribute substitution.
//
// A rule set is loaded once per run and is read-only afterwards; a *Set is
// safe to share between goroutines. A nil *Set behaves as an empty rule set.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/go-playground/validator"
	"go.yaml.in/yaml/v3"
)

// ErrInvalidRules wraps every problem found while loading a rule set.
var ErrInvalidRules = errors.New("invalid rule set")

// Variable sorts that have their own allow lists.
const (
	SortIndividual = "x"
	SortEvent      = "e"
)

var validate = validator.New()

type labelSet map[string]bool

func newLabelSet(labels []string) labelSet {
	s := make(labelSet, len(labels))
	for _, l := range labels {
		s[l] = true
	}
	return s
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// Set is a compiled, immutable rule set.
type Set struct {
	dropNodes  labelSet
	global     labelSet
	sorts      map[string]labelSet
	predicates map[string]labelSet

	rewrites     map[string][]rewrite
	defaultValue string
}

// Load reads and compiles the rule set at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule set: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes, validates, and compiles a rule set document. An empty
// document yields an empty Set.
func Parse(data []byte) (*Set, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return Compile(doc)
}

// Compile validates doc and builds a Set from it.
func Compile(doc Document) (*Set, error) {
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	s := &Set{
		dropNodes: newLabelSet(doc.DropNodes),
		global:    newLabelSet(doc.AllowRelations.Global),
		sorts: map[string]labelSet{
			SortIndividual: newLabelSet(doc.AllowRelations.X),
			SortEvent:      newLabelSet(doc.AllowRelations.E),
		},
		predicates: make(map[string]labelSet, len(doc.AllowRelations.Predicate)),
		rewrites:   make(map[string][]rewrite, len(doc.SubstituteAttributeValue)),
	}
	for pred, rels := range doc.AllowRelations.Predicate {
		if pred == "" {
			return nil, fmt.Errorf("%w: allow_relations.predicate has an empty predicate key", ErrInvalidRules)
		}
		s.predicates[pred] = newLabelSet(rels)
	}

	if len(doc.SubstituteAttributeValue) > 0 {
		if doc.DefaultAttributeValue == nil || *doc.DefaultAttributeValue == "" {
			return nil, fmt.Errorf("%w: substitute_attribute_value requires a non-empty default_attribute_value", ErrInvalidRules)
		}
		s.defaultValue = *doc.DefaultAttributeValue
	}
	for rel, subs := range doc.SubstituteAttributeValue {
		if rel == "" {
			return nil, fmt.Errorf("%w: substitute_attribute_value has an empty relation key", ErrInvalidRules)
		}
		chain := make([]rewrite, 0, len(subs))
		for i, sub := range subs {
			re, err := regexp.Compile(sub.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: %s rule %d: %v", ErrInvalidRules, rel, i, err)
			}
			repl, err := translateReplacement(sub.Replacement, re)
			if err != nil {
				return nil, fmt.Errorf("%w: %s rule %d: %v", ErrInvalidRules, rel, i, err)
			}
			chain = append(chain, rewrite{re: re, repl: repl})
		}
		s.rewrites[rel] = chain
	}

	return s, nil
}

// Empty reports whether the set neither filters nor substitutes.
func (s *Set) Empty() bool {
	return !s.Filters() && !s.Substitutes()
}

// Filters reports whether any drop or allow rule is configured.
func (s *Set) Filters() bool {
	return s != nil && (len(s.dropNodes) > 0 || s.RestrictsRelations())
}

// RestrictsRelations reports whether any allow list is configured. Without
// one, every relation is allowed and only drop_nodes removes triples.
func (s *Set) RestrictsRelations() bool {
	if s == nil {
		return false
	}
	if len(s.global) > 0 || len(s.predicates) > 0 {
		return true
	}
	for _, rels := range s.sorts {
		if len(rels) > 0 {
			return true
		}
	}
	return false
}

// Substitutes reports whether any attribute rewrite is configured.
func (s *Set) Substitutes() bool {
	return s != nil && len(s.rewrites) > 0
}

// DropsPredicate reports whether nodes with predicate pred are dropped.
func (s *Set) DropsPredicate(pred string) bool {
	return s != nil && s.dropNodes[pred]
}

// AllowsGlobal reports whether rel is allowed for every node.
func (s *Set) AllowsGlobal(rel string) bool {
	return s != nil && s.global[rel]
}

// AllowsForSort reports whether rel is allowed for nodes of the given
// variable sort. Only the "x" and "e" sorts have allow lists.
func (s *Set) AllowsForSort(varSort, rel string) bool {
	return s != nil && s.sorts[varSort][rel]
}

// AllowsForPredicate reports whether rel is allowed for nodes carrying pred.
func (s *Set) AllowsForPredicate(pred, rel string) bool {
	return s != nil && s.predicates[pred][rel]
}

// Rewrite applies the rewrite chain for rel to value. Each rule operates on
// the previous rule's output. An emptied value becomes the default value.
// ok is false when rel has no rewrites, in which case value is returned
// unchanged.
func (s *Set) Rewrite(rel, value string) (out string, ok bool) {
	if s == nil {
		return value, false
	}
	chain, ok := s.rewrites[rel]
	if !ok {
		return value, false
	}
	out = value
	for _, rw := range chain {
		out = rw.re.ReplaceAllString(out, rw.repl)
	}
	if out == "" {
		out = s.defaultValue
	}
	return out, true
}

// DefaultValue returns the configured default attribute value.
func (s *Set) DefaultValue() string {
	if s == nil {
		return ""
	}
	return s.defaultValue
}

// Summary counts the rules in a set, for reporting.
type Summary struct {
	DropNodes        int
	GlobalRelations  int
	SortRelations    map[string]int
	PredicateScopes  int
	RewriteRelations []string
}

// Summarize returns a Summary of s.
func (s *Set) Summarize() Summary {
	sum := Summary{SortRelations: map[string]int{}}
	if s == nil {
		return sum
	}
	sum.DropNodes = len(s.dropNodes)
	sum.GlobalRelations = len(s.global)
	for srt, rels := range s.sorts {
		sum.SortRelations[srt] = len(rels)
	}
	sum.PredicateScopes = len(s.predicates)
	for rel := range s.rewrites {
		sum.RewriteRelations = append(sum.RewriteRelations, rel)
	}
	sort.Strings(sum.RewriteRelations)
	return sum
}
