// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a semantic dependency graph into the canonical
// triple form consumed by the filter, substitution, and encoding stages.
//
// The triple scheme is fixed. For each node, in input order:
//
//	(id, predicate, PRED)
//	(id, lnk, "<from:to>")     only with Options.Lnk
//	(id, carg, CARG)           when the node has a constant argument
//	(id, cvarsort, SORT)       only with Options.Properties
//	(id, key, value)           one per property, only with Options.Properties
//
// followed by one relational triple per edge, in input order.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// Structural errors. They are caller errors and are not recovered here.
var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrEmptyNodeID   = errors.New("empty node id")
)

// inverseSuffix marks a relation written from the dependent's side.
const inverseSuffix = "-of"

// Options select the optional triples produced for each node.
type Options struct {
	// Properties includes cvarsort and the variable properties.
	Properties bool
	// Lnk includes surface alignment spans.
	Lnk bool
}

type tripleKey struct {
	source, relation, target string
	kind                     types.TripleKind
}

// builder accumulates triples as a set in first-insertion order.
type builder struct {
	triples []types.Triple
	seen    map[tripleKey]bool
}

func (b *builder) add(t types.Triple) {
	k := tripleKey{t.Source, t.Relation, t.Target, t.Kind}
	if b.seen[k] {
		return
	}
	b.seen[k] = true
	b.triples = append(b.triples, t)
}

// Normalize converts g into a TripleGraph. The output depends only on g and
// opts, so repeated calls produce identical triples in identical order.
func Normalize(g types.Graph, opts Options) (types.TripleGraph, error) {
	index := make(types.NodeIndex, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return types.TripleGraph{}, ErrEmptyNodeID
		}
		if _, dup := index[n.ID]; dup {
			return types.TripleGraph{}, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		index[n.ID] = types.NodeInfo{Predicate: n.Predicate, Sort: n.VarSort()}
	}

	if g.Top != "" {
		if _, ok := index[g.Top]; !ok {
			return types.TripleGraph{}, fmt.Errorf("top %s: %w", g.Top, ErrUnknownNode)
		}
	}

	b := &builder{seen: make(map[tripleKey]bool)}
	for _, n := range g.Nodes {
		nodeTriples(b, n, opts)
	}

	for i, e := range g.Edges {
		t, err := edgeTriple(e, index)
		if err != nil {
			return types.TripleGraph{}, fmt.Errorf("edge %d: %w", i, err)
		}
		b.add(t)
	}

	return types.TripleGraph{Top: g.Top, Triples: b.triples, Nodes: index}, nil
}

func nodeTriples(b *builder, n types.Node, opts Options) {
	attr := func(rel, val string, quoted bool) {
		b.add(types.Triple{
			Source:   n.ID,
			Relation: rel,
			Target:   val,
			Kind:     types.Attribute,
			Quoted:   quoted,
		})
	}

	attr(types.RelInstance, n.Predicate, false)
	if opts.Lnk && n.Lnk != nil {
		attr(types.RelLnk, fmt.Sprintf("<%d:%d>", n.Lnk.From, n.Lnk.To), true)
	}
	if n.Carg != "" {
		attr(types.RelCarg, n.Carg, true)
	}
	if opts.Properties {
		if sort := n.VarSort(); sort != "" {
			attr(types.RelCvarsort, sort, false)
		}
		for _, p := range n.Properties {
			attr(strings.ToLower(p.Key), p.Value, false)
		}
	}
}

// edgeTriple builds the relational triple for e, turning an inverse
// relation ("ARG1-of") back into its forward direction.
func edgeTriple(e types.Edge, index types.NodeIndex) (types.Triple, error) {
	src, tgt, rel := e.Source, e.Target, e.Relation()
	if strings.HasSuffix(rel, inverseSuffix) && len(rel) > len(inverseSuffix) {
		rel = strings.TrimSuffix(rel, inverseSuffix)
		src, tgt = tgt, src
	}
	if _, ok := index[src]; !ok {
		return types.Triple{}, fmt.Errorf("source %s: %w", src, ErrUnknownNode)
	}
	if _, ok := index[tgt]; !ok {
		return types.Triple{}, fmt.Errorf("target %s: %w", tgt, ErrUnknownNode)
	}
	return types.Triple{Source: src, Relation: rel, Target: tgt, Kind: types.Relational}, nil
}
