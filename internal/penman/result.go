// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package penman

import "fmt"

// Placeholder is written in place of a graph that could not be encoded.
const Placeholder = "()"

// Reason names why a triple set could not be encoded.
type Reason string

const (
	ReasonEmpty        Reason = "empty-graph"
	ReasonUnknownTop   Reason = "unknown-top"
	ReasonDisconnected Reason = "disconnected"
	// ReasonMalformed is used by callers for graphs rejected before
	// encoding (dangling edges, duplicate ids).
	ReasonMalformed Reason = "malformed-graph"
)

// Failure is the failure branch of a Result.
type Failure struct {
	Reason Reason
	Detail string
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Detail)
}

// Result is either the serialized graph (Failure == nil) or a Failure.
type Result struct {
	Text    string
	Failure *Failure
}

// OK reports whether encoding succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Output returns the text to print: the graph, or Placeholder on failure.
func (r Result) Output() string {
	if r.Failure != nil {
		return Placeholder
	}
	return r.Text
}

// Failed builds a failed Result.
func Failed(reason Reason, format string, args ...any) Result {
	return Result{Failure: &Failure{Reason: reason, Detail: fmt.Sprintf(format, args...)}}
}
