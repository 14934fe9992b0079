// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"io"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// sliceSource serves items from memory.
type sliceSource struct {
	items []types.Item
	next  int
}

// Items returns an ItemSource over the given items.
func Items(items ...types.Item) ItemSource {
	return &sliceSource{items: items}
}

func (s *sliceSource) Next() (types.Item, error) {
	if s.next >= len(s.items) {
		return types.Item{}, io.EOF
	}
	it := s.items[s.next]
	s.next++
	return it, nil
}
