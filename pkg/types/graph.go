// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Lnk is a character span linking a node to the surface string.
type Lnk struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Property is one variable property of a node (e.g. PERS=3, TENSE=past).
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Node is a predicate node of a semantic dependency graph.
type Node struct {
	// ID identifies the node within its graph (e.g. "10001").
	ID string `json:"id" yaml:"id"`

	// Predicate is the predicate label (e.g. "_dog_n_1", "udef_q").
	Predicate string `json:"predicate" yaml:"predicate"`

	// Variable is the intrinsic variable (e.g. "x4", "e2").
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`

	// Sort is the single-character variable sort. When empty it is taken
	// from the leading letter of Variable.
	Sort string `json:"sort,omitempty" yaml:"sort,omitempty"`

	// Carg is the constant argument of named entities and numbers.
	Carg string `json:"carg,omitempty" yaml:"carg,omitempty"`

	// Lnk is the surface alignment, if the producer supplied one.
	Lnk *Lnk `json:"lnk,omitempty" yaml:"lnk,omitempty"`

	// Properties are the variable properties in producer order.
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// VarSort returns the node's variable sort.
func (n Node) VarSort() string {
	if n.Sort != "" {
		return n.Sort
	}
	v := strings.TrimLeft(n.Variable, " ")
	if v == "" {
		return ""
	}
	return v[:1]
}

// Edge is a labelled link between two nodes. The relation name is
// Role-Post (e.g. "ARG1-NEQ"), or Role alone when Post is empty.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Role   string `json:"role" yaml:"role"`
	Post   string `json:"post,omitempty" yaml:"post,omitempty"`
	Target string `json:"target" yaml:"target"`
}

// Relation returns the relation name used for the edge's triple.
func (e Edge) Relation() string {
	if e.Post == "" {
		return e.Role
	}
	return e.Role + "-" + e.Post
}

// Graph is a semantic dependency graph as delivered by a producer.
type Graph struct {
	// Top is the id of the designated top node; empty for none.
	Top   string `json:"top,omitempty" yaml:"top,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Item is one corpus entry: an identifier, its source text, and its
// candidate graphs in rank order.
type Item struct {
	ID     string  `json:"id" yaml:"id"`
	Input  string  `json:"input" yaml:"input"`
	Graphs []Graph `json:"graphs,omitempty" yaml:"graphs,omitempty"`
}
