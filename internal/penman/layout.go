// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package penman

import (
	"strings"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// Node is one spelled-out node of the laid-out tree.
type Node struct {
	ID string
	// Concept is the node's predicate; HasConcept is false when the
	// instance triple was filtered away.
	Concept    string
	HasConcept bool
	Branches   []Branch
}

// Branch is a placed triple. Child is set when the branch spells out the
// node it leads to; attribute branches and re-entrancies have no Child.
type Branch struct {
	Triple types.Triple
	Child  *Node
}

// Role returns the relation as written, with "-of" for inverted triples.
func (b Branch) Role() string {
	if b.Triple.Inverted {
		return b.Triple.Relation + "-of"
	}
	return b.Triple.Relation
}

// Ref returns the id of the node at the far end of a relational branch.
func (b Branch) Ref() string {
	if b.Triple.Inverted {
		return b.Triple.Source
	}
	return b.Triple.Target
}

// Triples returns every placed triple in depth-first order, instance
// triples included. Inverted reflects how each triple was placed.
func (n *Node) Triples() []types.Triple {
	var out []types.Triple
	var walk func(*Node)
	walk = func(n *Node) {
		if n.HasConcept {
			out = append(out, types.Triple{
				Source: n.ID, Relation: types.RelInstance, Target: n.Concept, Kind: types.Attribute,
			})
		}
		for _, b := range n.Branches {
			out = append(out, b.Triple)
			if b.Child != nil {
				walk(b.Child)
			}
		}
	}
	walk(n)
	return out
}

// layoutWalker holds the spanning-tree state while a layout is computed.
type layoutWalker struct {
	triples  []types.Triple
	nodes    []string         // node ids in first-appearance order
	outgoing map[string][]int // relational triple indices by source
	inTree   map[string]bool
	treeEdge []bool // triple spells out the node it leads to
	inverted []bool // tree edge placed from its target
}

func newLayoutWalker(ts []types.Triple) *layoutWalker {
	w := &layoutWalker{
		triples:  ts,
		outgoing: make(map[string][]int),
		inTree:   make(map[string]bool),
		treeEdge: make([]bool, len(ts)),
		inverted: make([]bool, len(ts)),
	}
	seen := make(map[string]bool)
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			w.nodes = append(w.nodes, id)
		}
	}
	for i, t := range ts {
		addNode(t.Source)
		if t.Kind == types.Relational {
			addNode(t.Target)
			w.outgoing[t.Source] = append(w.outgoing[t.Source], i)
		}
	}
	return w
}

// Layout arranges the triples of g into a tree rooted at g.Top, or at the
// source of the first triple when g has no top.
//
// Nodes are first spanned along forward relations, depth-first in triple
// order. Nodes still outside the tree are then attached through a relation
// pointing into the tree, which is placed inverted (":ROLE-of"). A node is
// spelled out once; every other mention is a re-entrancy. Triple sets that
// do not form one connected graph fail with ReasonDisconnected.
func Layout(g types.TripleGraph) (*Node, *Failure) {
	if len(g.Triples) == 0 {
		return nil, &Failure{Reason: ReasonEmpty, Detail: "no triples"}
	}

	w := newLayoutWalker(g.Triples)

	top := g.Top
	if top == "" {
		top = g.Triples[0].Source
	}
	if !w.known(top) {
		return nil, &Failure{Reason: ReasonUnknownTop, Detail: "top " + top + " is not in the graph"}
	}

	w.span(top)
	for changed := true; changed; {
		changed = false
		for i, t := range w.triples {
			if t.Kind == types.Relational && w.inTree[t.Target] && !w.inTree[t.Source] {
				w.treeEdge[i], w.inverted[i] = true, true
				w.span(t.Source)
				changed = true
			}
		}
	}

	var missing []string
	for _, id := range w.nodes {
		if !w.inTree[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &Failure{
			Reason: ReasonDisconnected,
			Detail: "not reachable from " + top + ": " + strings.Join(missing, " "),
		}
	}

	return w.build(top, w.owned()), nil
}

func (w *layoutWalker) known(id string) bool {
	for _, n := range w.nodes {
		if n == id {
			return true
		}
	}
	return false
}

// span adds id to the tree and follows its forward relations.
func (w *layoutWalker) span(id string) {
	w.inTree[id] = true
	for _, i := range w.outgoing[id] {
		tgt := w.triples[i].Target
		if !w.inTree[tgt] {
			w.treeEdge[i] = true
			w.span(tgt)
		}
	}
}

// owned groups triple indices by the node they are written under: the
// target for inverted tree edges, the source for everything else.
func (w *layoutWalker) owned() map[string][]int {
	owned := make(map[string][]int, len(w.nodes))
	for i, t := range w.triples {
		owner := t.Source
		if w.inverted[i] {
			owner = t.Target
		}
		owned[owner] = append(owned[owner], i)
	}
	return owned
}

func (w *layoutWalker) build(id string, owned map[string][]int) *Node {
	n := &Node{ID: id}
	concept := -1
	for _, i := range owned[id] {
		t := w.triples[i]
		if t.Kind == types.Attribute && t.Relation == types.RelInstance {
			concept = i
			n.Concept, n.HasConcept = t.Target, true
			break
		}
	}

	for _, i := range owned[id] {
		if i == concept {
			continue
		}
		t := w.triples[i]
		b := Branch{Triple: t}
		switch {
		case w.inverted[i]:
			b.Triple.Inverted = true
			b.Child = w.build(t.Source, owned)
		case w.treeEdge[i]:
			b.Child = w.build(t.Target, owned)
		}
		n.Branches = append(n.Branches, b)
	}
	return n
}
