// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/mrs-penman/internal/penman"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

// DefaultMaxResults is the number of graphs converted per item when the
// caller does not set a limit.
const DefaultMaxResults = 1

// ItemSource yields items one at a time. Next returns io.EOF after the last
// item.
type ItemSource interface {
	Next() (types.Item, error)
}

// ResultSink receives every converted graph, e.g. to persist it.
type ResultSink interface {
	SaveResult(ctx context.Context, itemID string, index int, res penman.Result) error
}

// Summary holds the outcome of a batch run.
type Summary struct {
	Items   int
	Graphs  int
	Encoded int
	Failed  int
}

// HasFailures reports whether any graph failed to encode.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Batch converts every item of a source and writes the results.
type Batch struct {
	Pipeline *Pipeline

	// MaxResults caps the graphs converted per item (default 1).
	MaxResults int

	// Out receives item headers and PENMAN blocks.
	Out io.Writer

	// Logger receives one error line per failed graph. Nil discards them.
	Logger *log.Logger

	// Sink, if set, is given every result after it is written to Out.
	Sink ResultSink
}

// Run processes src to exhaustion. A graph that cannot be encoded is
// written as penman.Placeholder and logged; the run continues. Errors from
// src, Out, or Sink, and context cancellation, stop the run.
func (b *Batch) Run(ctx context.Context, src ItemSource) (Summary, error) {
	var sum Summary
	limit := b.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	for {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		item, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("reading item %d: %w", sum.Items+1, err)
		}
		sum.Items++

		if err := b.item(ctx, item, limit, &sum); err != nil {
			return sum, err
		}
	}

	if b.Logger != nil {
		b.Logger.Info("batch done",
			"items", sum.Items, "graphs", sum.Graphs, "encoded", sum.Encoded, "failed", sum.Failed)
	}
	return sum, nil
}

func (b *Batch) item(ctx context.Context, item types.Item, limit int, sum *Summary) error {
	if _, err := fmt.Fprintf(b.Out, "# ::id %s\n# ::snt %s\n", item.ID, item.Input); err != nil {
		return fmt.Errorf("writing item %s: %w", item.ID, err)
	}

	graphs := item.Graphs
	if len(graphs) > limit {
		graphs = graphs[:limit]
	}
	for i, g := range graphs {
		res := b.Pipeline.Run(g)
		sum.Graphs++
		if res.OK() {
			sum.Encoded++
		} else {
			sum.Failed++
			if b.Logger != nil {
				b.Logger.Error("encoding failed",
					"id", item.ID, "result", i, "reason", res.Failure.Reason, "detail", res.Failure.Detail)
			}
		}

		if _, err := fmt.Fprintln(b.Out, res.Output()); err != nil {
			return fmt.Errorf("writing item %s: %w", item.ID, err)
		}
		if b.Sink != nil {
			if err := b.Sink.SaveResult(ctx, item.ID, i, res); err != nil {
				return fmt.Errorf("saving item %s result %d: %w", item.ID, i, err)
			}
		}
	}

	if _, err := fmt.Fprintln(b.Out); err != nil {
		return fmt.Errorf("writing item %s: %w", item.ID, err)
	}
	return nil
}
