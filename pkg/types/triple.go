// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Relations with fixed meaning in the triple scheme.
const (
	// RelInstance carries the node's predicate; it becomes the concept
	// after the slash in the serialized node.
	RelInstance = "predicate"
	RelLnk      = "lnk"
	RelCarg     = "carg"
	RelCvarsort = "cvarsort"
)

// TripleKind tags a triple as linking two nodes or carrying a literal.
type TripleKind int

const (
	// Relational triples link a source node to a target node.
	Relational TripleKind = iota
	// Attribute triples carry a literal target value.
	Attribute
)

// String returns the kind name.
func (k TripleKind) String() string {
	switch k {
	case Relational:
		return "relational"
	case Attribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Triple is the canonical (source, relation, target) unit shared by every
// pipeline stage.
type Triple struct {
	Source   string
	Relation string
	// Target is a node id for Relational triples and the literal value for
	// Attribute triples.
	Target string
	Kind   TripleKind
	// Quoted marks string constants, which serialize inside double quotes.
	Quoted bool
	// Inverted is set by the encoder when the triple is placed from its
	// target's side (":ROLE-of").
	Inverted bool
}

// IsAttribute reports whether the triple carries a literal value.
func (t Triple) IsAttribute() bool { return t.Kind == Attribute }

// NodeInfo is the per-node data that filter rules are keyed on.
type NodeInfo struct {
	Predicate string
	Sort      string
}

// NodeIndex maps node ids to their predicate and sort. It is computed once
// per graph by the normalizer.
type NodeIndex map[string]NodeInfo

// TripleGraph is a graph in triple form: the designated top (empty for a
// rootless graph), the triples in insertion order, and the node index.
// Stages return new TripleGraphs and never modify the one they are given.
type TripleGraph struct {
	Top     string
	Triples []Triple
	Nodes   NodeIndex
}

// WithTriples returns a copy of g carrying ts.
func (g TripleGraph) WithTriples(ts []Triple) TripleGraph {
	return TripleGraph{Top: g.Top, Triples: ts, Nodes: g.Nodes}
}
