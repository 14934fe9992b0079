// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// kimSleeps is the graph for "Kim sleeps."
func kimSleeps() types.Graph {
	return types.Graph{
		Top: "10002",
		Nodes: []types.Node{
			{ID: "10000", Predicate: "proper_q", Variable: "x3", Lnk: &types.Lnk{From: 0, To: 3}},
			{ID: "10001", Predicate: "named", Variable: "x3", Carg: "Kim", Lnk: &types.Lnk{From: 0, To: 3},
				Properties: []types.Property{{Key: "PERS", Value: "3"}, {Key: "NUM", Value: "sg"}}},
			{ID: "10002", Predicate: "_sleep_v_1", Variable: "e2", Lnk: &types.Lnk{From: 4, To: 11},
				Properties: []types.Property{{Key: "TENSE", Value: "pres"}}},
		},
		Edges: []types.Edge{
			{Source: "10000", Role: "RSTR", Post: "H", Target: "10001"},
			{Source: "10002", Role: "ARG1", Post: "NEQ", Target: "10001"},
		},
	}
}

func attr(src, rel, val string) types.Triple {
	return types.Triple{Source: src, Relation: rel, Target: val, Kind: types.Attribute}
}

func quoted(src, rel, val string) types.Triple {
	t := attr(src, rel, val)
	t.Quoted = true
	return t
}

func link(src, rel, tgt string) types.Triple {
	return types.Triple{Source: src, Relation: rel, Target: tgt, Kind: types.Relational}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []types.Triple
	}{
		{
			name: "predicates carg and links only",
			want: []types.Triple{
				attr("10000", "predicate", "proper_q"),
				attr("10001", "predicate", "named"),
				quoted("10001", "carg", "Kim"),
				attr("10002", "predicate", "_sleep_v_1"),
				link("10000", "RSTR-H", "10001"),
				link("10002", "ARG1-NEQ", "10001"),
			},
		},
		{
			name: "with properties",
			opts: Options{Properties: true},
			want: []types.Triple{
				attr("10000", "predicate", "proper_q"),
				attr("10000", "cvarsort", "x"),
				attr("10001", "predicate", "named"),
				quoted("10001", "carg", "Kim"),
				attr("10001", "cvarsort", "x"),
				attr("10001", "pers", "3"),
				attr("10001", "num", "sg"),
				attr("10002", "predicate", "_sleep_v_1"),
				attr("10002", "cvarsort", "e"),
				attr("10002", "tense", "pres"),
				link("10000", "RSTR-H", "10001"),
				link("10002", "ARG1-NEQ", "10001"),
			},
		},
		{
			name: "with lnk",
			opts: Options{Lnk: true},
			want: []types.Triple{
				attr("10000", "predicate", "proper_q"),
				quoted("10000", "lnk", "<0:3>"),
				attr("10001", "predicate", "named"),
				quoted("10001", "lnk", "<0:3>"),
				quoted("10001", "carg", "Kim"),
				attr("10002", "predicate", "_sleep_v_1"),
				quoted("10002", "lnk", "<4:11>"),
				link("10000", "RSTR-H", "10001"),
				link("10002", "ARG1-NEQ", "10001"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(kimSleeps(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, "10002", got.Top)
			assert.Equal(t, tt.want, got.Triples)
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	opts := Options{Properties: true, Lnk: true}
	first, err := Normalize(kimSleeps(), opts)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Normalize(kimSleeps(), opts)
		require.NoError(t, err)
		require.Equal(t, first.Triples, again.Triples)
	}
}

func TestNormalize_NodeIndex(t *testing.T) {
	got, err := Normalize(kimSleeps(), Options{})
	require.NoError(t, err)
	assert.Equal(t, types.NodeIndex{
		"10000": {Predicate: "proper_q", Sort: "x"},
		"10001": {Predicate: "named", Sort: "x"},
		"10002": {Predicate: "_sleep_v_1", Sort: "e"},
	}, got.Nodes)
}

func TestNormalize_InverseRelation(t *testing.T) {
	g := types.Graph{
		Nodes: []types.Node{
			{ID: "1", Predicate: "_big_a_1", Variable: "e1"},
			{ID: "2", Predicate: "_dog_n_1", Variable: "x2"},
		},
		Edges: []types.Edge{{Source: "2", Role: "ARG1", Post: "EQ-of", Target: "1"}},
	}
	got, err := Normalize(g, Options{})
	require.NoError(t, err)
	assert.Equal(t, link("1", "ARG1-EQ", "2"), got.Triples[2])
}

func TestNormalize_CollapsesDuplicates(t *testing.T) {
	g := types.Graph{
		Nodes: []types.Node{
			{ID: "1", Predicate: "a", Variable: "e1"},
			{ID: "2", Predicate: "b", Variable: "x2"},
		},
		Edges: []types.Edge{
			{Source: "1", Role: "ARG1", Post: "NEQ", Target: "2"},
			{Source: "1", Role: "ARG1", Post: "NEQ", Target: "2"},
		},
	}
	got, err := Normalize(g, Options{})
	require.NoError(t, err)
	assert.Len(t, got.Triples, 3)
}

func TestNormalize_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		graph   types.Graph
		wantErr error
	}{
		{
			name: "dangling edge target",
			graph: types.Graph{
				Nodes: []types.Node{{ID: "1", Predicate: "a"}},
				Edges: []types.Edge{{Source: "1", Role: "ARG1", Target: "9"}},
			},
			wantErr: ErrUnknownNode,
		},
		{
			name: "dangling edge source",
			graph: types.Graph{
				Nodes: []types.Node{{ID: "1", Predicate: "a"}},
				Edges: []types.Edge{{Source: "9", Role: "ARG1", Target: "1"}},
			},
			wantErr: ErrUnknownNode,
		},
		{
			name:    "unknown top",
			graph:   types.Graph{Top: "7", Nodes: []types.Node{{ID: "1", Predicate: "a"}}},
			wantErr: ErrUnknownNode,
		},
		{
			name:    "duplicate node",
			graph:   types.Graph{Nodes: []types.Node{{ID: "1", Predicate: "a"}, {ID: "1", Predicate: "b"}}},
			wantErr: ErrDuplicateNode,
		},
		{
			name:    "empty node id",
			graph:   types.Graph{Nodes: []types.Node{{Predicate: "a"}}},
			wantErr: ErrEmptyNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.graph, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
