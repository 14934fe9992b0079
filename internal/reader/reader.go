// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reader provides item sources for batch conversion: JSON lines of
// already-parsed items, and raw sentences handed to an external parser.
package reader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// maxLineSize bounds a single input line; parsed graphs for long sentences
// can be large.
const maxLineSize = 16 * 1024 * 1024

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// JSONLines reads one JSON item per line:
//
//	{"id": 1, "input": "Kim sleeps.", "graphs": [{"top": "10002", "nodes": [...], "edges": [...]}]}
//
// Blank lines are skipped. The id may be a string or a number.
type JSONLines struct {
	sc   *bufio.Scanner
	line int
}

// NewJSONLines returns a JSONLines reader over r.
func NewJSONLines(r io.Reader) *JSONLines {
	return &JSONLines{sc: newScanner(r)}
}

type jsonItem struct {
	ID     any           `json:"id"`
	Input  string        `json:"input"`
	Graphs []types.Graph `json:"graphs"`
}

// Next returns the next item, or io.EOF.
func (j *JSONLines) Next() (types.Item, error) {
	for j.sc.Scan() {
		j.line++
		data := bytes.TrimSpace(j.sc.Bytes())
		if len(data) == 0 {
			continue
		}

		var raw jsonItem
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return types.Item{}, fmt.Errorf("line %d: %w", j.line, err)
		}
		id := ""
		if raw.ID != nil {
			id = fmt.Sprint(raw.ID)
		}
		return types.Item{ID: id, Input: raw.Input, Graphs: raw.Graphs}, nil
	}
	if err := j.sc.Err(); err != nil {
		return types.Item{}, fmt.Errorf("line %d: %w", j.line+1, err)
	}
	return types.Item{}, io.EOF
}

// Parser turns a sentence into its candidate graphs.
type Parser interface {
	Parse(ctx context.Context, sentence string) ([]types.Graph, error)
}

// Sentences reads one sentence per line and parses each with a Parser.
// Item ids are zero-based line numbers. Blank lines and sentences the parser
// fails on yield items without graphs; parser failures are logged.
type Sentences struct {
	ctx    context.Context
	sc     *bufio.Scanner
	parser Parser
	logger *log.Logger
	line   int
}

// NewSentences returns a Sentences reader over r. logger may be nil.
func NewSentences(ctx context.Context, r io.Reader, p Parser, logger *log.Logger) *Sentences {
	return &Sentences{ctx: ctx, sc: newScanner(r), parser: p, logger: logger}
}

// Next returns the next item, or io.EOF.
func (s *Sentences) Next() (types.Item, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return types.Item{}, err
		}
		return types.Item{}, io.EOF
	}

	id := strconv.Itoa(s.line)
	s.line++
	snt := strings.TrimRight(s.sc.Text(), "\r")
	item := types.Item{ID: id, Input: snt}
	if strings.TrimSpace(snt) == "" {
		return item, nil
	}

	graphs, err := s.parser.Parse(s.ctx, snt)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("parsing failed", "id", id, "input", snt, "err", err)
		}
		return item, nil
	}
	item.Graphs = graphs
	return item, nil
}
