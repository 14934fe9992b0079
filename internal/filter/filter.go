// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter removes triples according to a rule set and re-checks the
// graph's top after removal.
package filter

import (
	"github.com/pdiddy/mrs-penman/internal/rules"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

// Apply returns the triples of g that the rule set keeps, with the top
// resolved against the survivors. Without filtering rules g is returned as
// is. Neither g nor rs is modified.
func Apply(g types.TripleGraph, rs *rules.Set) types.TripleGraph {
	if !rs.Filters() {
		return g
	}

	kept := make([]types.Triple, 0, len(g.Triples))
	for _, t := range g.Triples {
		if Keep(t, g.Nodes[t.Source], rs) {
			kept = append(kept, t)
		}
	}

	out := g.WithTriples(kept)
	out.Top = ResolveTop(g.Top, kept)
	return out
}

// Keep decides a single triple given its source node's predicate and sort.
// A dropped predicate excludes the triple whatever the allow lists say.
func Keep(t types.Triple, src types.NodeInfo, rs *rules.Set) bool {
	if rs.DropsPredicate(src.Predicate) {
		return false
	}
	if !rs.RestrictsRelations() {
		return true
	}

	rel := t.Relation
	switch {
	case rs.AllowsGlobal(rel):
		return true
	case src.Sort == rules.SortIndividual && rs.AllowsForSort(rules.SortIndividual, rel):
		return true
	case src.Sort == rules.SortEvent && rs.AllowsForSort(rules.SortEvent, rel):
		return true
	default:
		return rs.AllowsForPredicate(src.Predicate, rel)
	}
}
