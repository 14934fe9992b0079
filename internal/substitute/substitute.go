// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package substitute rewrites literal attribute values using the ordered
// pattern/replacement rules of a rule set.
package substitute

import (
	"github.com/pdiddy/mrs-penman/internal/rules"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

// Apply returns a copy of g in which every attribute triple whose relation
// has rewrite rules carries its rewritten value. Relational triples, the
// set of triples, and the top are unchanged.
func Apply(g types.TripleGraph, rs *rules.Set) types.TripleGraph {
	if !rs.Substitutes() {
		return g
	}

	out := make([]types.Triple, len(g.Triples))
	for i, t := range g.Triples {
		if t.IsAttribute() {
			if v, ok := rs.Rewrite(t.Relation, t.Target); ok {
				t.Target = v
			}
		}
		out[i] = t
	}
	return g.WithTriples(out)
}
