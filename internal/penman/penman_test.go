// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package penman

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

func inst(id, pred string) types.Triple {
	return types.Triple{Source: id, Relation: types.RelInstance, Target: pred, Kind: types.Attribute}
}

func rel(src, r, tgt string) types.Triple {
	return types.Triple{Source: src, Relation: r, Target: tgt, Kind: types.Relational}
}

func carg(id, v string) types.Triple {
	return types.Triple{Source: id, Relation: types.RelCarg, Target: v, Kind: types.Attribute, Quoted: true}
}

func kimSleeps() types.TripleGraph {
	return types.TripleGraph{
		Top: "10002",
		Triples: []types.Triple{
			inst("10000", "proper_q"),
			inst("10001", "named"),
			carg("10001", "Kim"),
			inst("10002", "_sleep_v_1"),
			rel("10000", "RSTR-H", "10001"),
			rel("10002", "ARG1-NEQ", "10001"),
		},
	}
}

// theDogWantsToBark has a re-entrant dog shared by want and bark.
func theDogWantsToBark() types.TripleGraph {
	return types.TripleGraph{
		Top: "3",
		Triples: []types.Triple{
			inst("1", "_the_q"),
			inst("2", "_dog_n_1"),
			inst("3", "_want_v_1"),
			inst("4", "_bark_v_1"),
			rel("1", "RSTR-H", "2"),
			rel("3", "ARG1-NEQ", "2"),
			rel("3", "ARG2-H", "4"),
			rel("4", "ARG1-NEQ", "2"),
		},
	}
}

func TestEncode_Inversion(t *testing.T) {
	got := Encode(kimSleeps(), Options{})
	require.True(t, got.OK(), "failure: %v", got.Failure)

	want := `(10002 / _sleep_v_1
  :ARG1-NEQ (10001 / named
    :carg "Kim"
    :RSTR-H-of (10000 / proper_q)))`
	assert.Equal(t, want, got.Text)
}

func TestEncode_Reentrancy(t *testing.T) {
	got := Encode(theDogWantsToBark(), Options{})
	require.True(t, got.OK(), "failure: %v", got.Failure)

	want := `(3 / _want_v_1
  :ARG1-NEQ (2 / _dog_n_1
    :RSTR-H-of (1 / _the_q))
  :ARG2-H (4 / _bark_v_1
    :ARG1-NEQ 2))`
	assert.Equal(t, want, got.Text)
}

func TestEncode_Indent(t *testing.T) {
	got := Encode(theDogWantsToBark(), Options{Indent: 4})
	require.True(t, got.OK())
	assert.Contains(t, got.Text, "\n    :ARG1-NEQ (2 / _dog_n_1\n        :RSTR-H-of")

	got = Encode(kimSleeps(), Options{Compact: true})
	require.True(t, got.OK())
	assert.Equal(t, `(10002 / _sleep_v_1 :ARG1-NEQ (10001 / named :carg "Kim" :RSTR-H-of (10000 / proper_q)))`, got.Text)
}

func TestEncode_Deterministic(t *testing.T) {
	first := Encode(theDogWantsToBark(), Options{})
	require.True(t, first.OK())
	for i := 0; i < 50; i++ {
		again := Encode(theDogWantsToBark(), Options{})
		require.Equal(t, first.Text, again.Text)
	}
}

func TestEncode_Rootless(t *testing.T) {
	g := kimSleeps()
	g.Top = ""
	got := Encode(g, Options{})
	require.True(t, got.OK(), "failure: %v", got.Failure)

	// Without a top the layout starts at the first triple's source.
	want := `(10000 / proper_q
  :RSTR-H (10001 / named
    :carg "Kim"
    :ARG1-NEQ-of (10002 / _sleep_v_1)))`
	assert.Equal(t, want, got.Text)
}

func TestEncode_Failures(t *testing.T) {
	tests := []struct {
		name  string
		graph types.TripleGraph
		want  Reason
	}{
		{
			name:  "no triples",
			graph: types.TripleGraph{Top: "1"},
			want:  ReasonEmpty,
		},
		{
			name:  "top not in graph",
			graph: types.TripleGraph{Top: "9", Triples: []types.Triple{inst("1", "a")}},
			want:  ReasonUnknownTop,
		},
		{
			name: "two components",
			graph: types.TripleGraph{Top: "1", Triples: []types.Triple{
				inst("1", "a"), inst("2", "b"), inst("3", "c"),
				rel("1", "ARG1-NEQ", "2"),
			}},
			want: ReasonDisconnected,
		},
		{
			name: "rootless and disconnected",
			graph: types.TripleGraph{Triples: []types.Triple{
				inst("1", "a"), inst("2", "b"),
			}},
			want: ReasonDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.graph, Options{})
			require.False(t, got.OK())
			assert.Equal(t, tt.want, got.Failure.Reason)
			assert.Equal(t, Placeholder, got.Output())
			assert.Empty(t, got.Text)
		})
	}
}

func TestEncode_DisconnectedDetail(t *testing.T) {
	g := types.TripleGraph{Top: "1", Triples: []types.Triple{
		inst("1", "a"), inst("2", "b"), inst("3", "c"), rel("2", "ARG1-NEQ", "3"),
	}}
	got := Encode(g, Options{})
	require.False(t, got.OK())
	assert.Equal(t, "disconnected: not reachable from 1: 2 3", got.Failure.Error())
}

func TestEncode_BareTargetAndSelfLoop(t *testing.T) {
	g := types.TripleGraph{Top: "n1", Triples: []types.Triple{
		rel("n1", "ARG1", "n2"),
		rel("n1", "MOD", "n1"),
	}}
	got := Encode(g, Options{Compact: true})
	require.True(t, got.OK(), "failure: %v", got.Failure)
	assert.Equal(t, "(n1 :ARG1 n2 :MOD n1)", got.Text)
}

func TestLayout_InvertedFlags(t *testing.T) {
	root, fail := Layout(kimSleeps())
	require.Nil(t, fail)

	placed := root.Triples()
	require.Len(t, placed, 6)
	for _, tr := range placed {
		wantInverted := tr.Relation == "RSTR-H"
		assert.Equal(t, wantInverted, tr.Inverted, "%+v", tr)
	}
}

func TestAtom(t *testing.T) {
	tests := []struct {
		in     string
		quoted bool
		want   string
	}{
		{in: "_dog_n_1", want: "_dog_n_1"},
		{in: "Kim", quoted: true, want: `"Kim"`},
		{in: "", want: `""`},
		{in: "New York", want: `"New York"`},
		{in: `say "hi"`, quoted: true, want: `"say \"hi\""`},
		{in: `a\b`, quoted: true, want: `"a\\b"`},
		{in: "<0:3>", quoted: true, want: `"<0:3>"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, atom(tt.in, tt.quoted), "input %q", tt.in)
	}
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{Reason: ReasonEmpty}
	assert.Equal(t, "empty-graph", f.Error())

	r := Failed(ReasonMalformed, "edge %d: unknown node", 2)
	assert.False(t, r.OK())
	assert.Equal(t, "malformed-graph: edge 2: unknown node", r.Failure.Error())
}
