// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs semantic graphs through normalization, filtering,
// top resolution, attribute substitution, and PENMAN encoding, and drives
// that pipeline over batches of items.
package pipeline

import (
	"github.com/pdiddy/mrs-penman/internal/filter"
	"github.com/pdiddy/mrs-penman/internal/normalize"
	"github.com/pdiddy/mrs-penman/internal/penman"
	"github.com/pdiddy/mrs-penman/internal/rules"
	"github.com/pdiddy/mrs-penman/internal/substitute"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

// Pipeline is the immutable per-run configuration of the conversion. One
// value is shared by every item of a batch; Run does not modify it, so it
// may be used from several goroutines.
type Pipeline struct {
	Rules     *rules.Set
	Normalize normalize.Options
	Encode    penman.Options
}

// New builds a Pipeline from the convert configuration and a loaded rule
// set (nil for none).
func New(rs *rules.Set, cfg types.ConvertConfig) *Pipeline {
	return &Pipeline{
		Rules: rs,
		Normalize: normalize.Options{
			Properties: cfg.Properties,
			Lnk:        cfg.Lnk,
		},
		Encode: penman.Options{Indent: cfg.Indent, Compact: cfg.Compact},
	}
}

// Triples runs the stages up to, but not including, encoding.
func (p *Pipeline) Triples(g types.Graph) (types.TripleGraph, error) {
	tg, err := normalize.Normalize(g, p.Normalize)
	if err != nil {
		return types.TripleGraph{}, err
	}
	tg = filter.Apply(tg, p.Rules)
	tg = substitute.Apply(tg, p.Rules)
	return tg, nil
}

// Run converts one graph. A malformed graph yields a failed Result with
// ReasonMalformed rather than an error.
func (p *Pipeline) Run(g types.Graph) penman.Result {
	tg, err := p.Triples(g)
	if err != nil {
		return penman.Failed(penman.ReasonMalformed, "%v", err)
	}
	return penman.Encode(tg, p.Encode)
}
