// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

const twoItems = `{"id": 1, "input": "Kim sleeps.", "graphs": [{"top": "10002", "nodes": [{"id": "10001", "predicate": "named", "variable": "x3", "carg": "Kim"}, {"id": "10002", "predicate": "_sleep_v_1", "variable": "e2"}], "edges": [{"source": "10002", "role": "ARG1", "post": "NEQ", "target": "10001"}]}]}

{"id": "b-2", "input": "Nothing."}
`

func TestJSONLines(t *testing.T) {
	r := NewJSONLines(strings.NewReader(twoItems))

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Kim sleeps.", first.Input)
	require.Len(t, first.Graphs, 1)
	g := first.Graphs[0]
	assert.Equal(t, "10002", g.Top)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "Kim", g.Nodes[0].Carg)
	assert.Equal(t, "x", g.Nodes[0].VarSort())
	assert.Equal(t, "ARG1-NEQ", g.Edges[0].Relation())

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b-2", second.ID)
	assert.Empty(t, second.Graphs)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONLines_BadLine(t *testing.T) {
	r := NewJSONLines(strings.NewReader("\n{not json}\n"))
	_, err := r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

type fakeParser struct {
	graphs map[string][]types.Graph
	errs   map[string]error
	calls  []string
}

func (f *fakeParser) Parse(_ context.Context, sentence string) ([]types.Graph, error) {
	f.calls = append(f.calls, sentence)
	if err := f.errs[sentence]; err != nil {
		return nil, err
	}
	return f.graphs[sentence], nil
}

func TestSentences(t *testing.T) {
	kim := types.Graph{Top: "1", Nodes: []types.Node{{ID: "1", Predicate: "named", Carg: "Kim"}}}
	p := &fakeParser{
		graphs: map[string][]types.Graph{"Kim.": {kim}},
		errs:   map[string]error{"Garbled sentence": errors.New("no parse")},
	}
	var diag bytes.Buffer
	r := NewSentences(context.Background(), strings.NewReader("Kim.\n\nGarbled sentence\r\n"), p, log.New(&diag))

	var items []types.Item
	for {
		it, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		items = append(items, it)
	}

	require.Len(t, items, 3)
	assert.Equal(t, types.Item{ID: "0", Input: "Kim.", Graphs: []types.Graph{kim}}, items[0])
	assert.Equal(t, types.Item{ID: "1", Input: ""}, items[1])
	assert.Equal(t, types.Item{ID: "2", Input: "Garbled sentence"}, items[2])

	assert.Equal(t, []string{"Kim.", "Garbled sentence"}, p.calls, "blank lines are not parsed")
	assert.Contains(t, diag.String(), "parsing failed")
	assert.Contains(t, diag.String(), "no parse")
}
