// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import "github.com/pdiddy/mrs-penman/pkg/types"

// ResolveTop returns top if some triple still has it as its source, and ""
// (a rootless graph) otherwise. No other node is promoted to top.
func ResolveTop(top string, ts []types.Triple) string {
	if top == "" {
		return ""
	}
	for _, t := range ts {
		if t.Source == top {
			return top
		}
	}
	return ""
}
