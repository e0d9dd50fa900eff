// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import "github.com/pdiddy/expertise-profiler/pkg/types"

// Merge adds each delta's weight to dst, inserting keywords that are absent,
// and returns dst. A nil dst is allocated. Merging is commutative and
// associative: the result does not depend on the order of deltas.
func Merge(dst map[string]float64, deltas []types.WeightedKeyword) map[string]float64 {
	if dst == nil {
		dst = make(map[string]float64, len(deltas))
	}
	for _, d := range deltas {
		if d.Keyword == "" {
			continue
		}
		dst[d.Keyword] += d.Weight
	}
	return dst
}
