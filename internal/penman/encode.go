// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package penman serializes triple graphs into PENMAN notation.
//
// Encoding has two steps: Layout arranges the triples into a tree rooted at
// the top, and Format writes that tree as indented text. The same triples
// always produce the same text.
//
//	(10002 / _sleep_v_1
//	  :ARG1-NEQ (10001 / named
//	    :carg "Kim"
//	    :RSTR-H-of (10000 / proper_q)))
package penman

import (
	"strings"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// Options control formatting.
type Options struct {
	// Indent is the number of spaces per nesting level; zero means
	// DefaultIndent.
	Indent int
	// Compact writes the whole graph on one line.
	Compact bool
}

// Encode lays out and formats g.
func Encode(g types.TripleGraph, opts Options) Result {
	root, fail := Layout(g)
	if fail != nil {
		return Result{Failure: fail}
	}
	return Result{Text: Format(root, opts)}
}

// Format writes a laid-out tree as PENMAN text.
func Format(root *Node, opts Options) string {
	indent := opts.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	var b strings.Builder
	writeNode(&b, root, 1, indent, opts.Compact)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth, indent int, compact bool) {
	b.WriteByte('(')
	b.WriteString(n.ID)
	if n.HasConcept {
		b.WriteString(" / ")
		b.WriteString(atom(n.Concept, false))
	}
	for _, br := range n.Branches {
		if compact {
			b.WriteByte(' ')
		} else {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", depth*indent))
		}
		b.WriteByte(':')
		b.WriteString(br.Role())
		b.WriteByte(' ')
		switch {
		case br.Child != nil && (br.Child.HasConcept || len(br.Child.Branches) > 0):
			writeNode(b, br.Child, depth+1, indent, compact)
		case br.Child != nil:
			// A node with nothing left to say is written as its id.
			b.WriteString(br.Child.ID)
		case br.Triple.IsAttribute():
			b.WriteString(atom(br.Triple.Target, br.Triple.Quoted))
		default:
			b.WriteString(br.Ref())
		}
	}
	b.WriteByte(')')
}

// atom renders a literal. Values that would not read back as a single
// symbol are quoted even when not marked as string constants.
func atom(v string, quoted bool) string {
	if !quoted && v != "" && !strings.ContainsAny(v, " \t\n\r()\":/~^") {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
