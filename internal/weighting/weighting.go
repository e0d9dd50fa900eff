// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weighting scores keyword occurrences by publication age and
// taxonomic distance.
package weighting

import (
	"strings"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// Linear is a linear decay clamped to a floor: Slope*d + Intercept while
// d <= Cutoff, Floor beyond it.
type Linear struct {
	Slope     float64
	Intercept float64
	Cutoff    int
	Floor     float64
}

// At evaluates the decay at d.
func (l Linear) At(d int) float64 {
	if d <= l.Cutoff {
		return l.Slope*float64(d) + l.Intercept
	}
	return l.Floor
}

var (
	// DefaultRecency decays over fifty years of publication age.
	DefaultRecency = Linear{Slope: -0.09, Intercept: 5, Cutoff: 50, Floor: 0.5}

	// DefaultDistance decays over ten broader-concept hops.
	DefaultDistance = Linear{Slope: -0.45, Intercept: 5, Cutoff: 10, Floor: 0.5}
)

// Weighter combines the recency and distance terms by addition.
type Weighter struct {
	Recency  Linear
	Distance Linear
}

// Default returns the weighter with the default constants.
func Default() Weighter {
	return Weighter{Recency: DefaultRecency, Distance: DefaultDistance}
}

// FromConfig builds a Weighter, using the defaults for unset decays.
func FromConfig(cfg types.WeightingConfig) Weighter {
	w := Default()
	if !cfg.Recency.IsZero() {
		w.Recency = linearFrom(cfg.Recency)
	}
	if !cfg.Distance.IsZero() {
		w.Distance = linearFrom(cfg.Distance)
	}
	return w
}

func linearFrom(d types.DecayConfig) Linear {
	return Linear{Slope: d.Slope, Intercept: d.Intercept, Cutoff: d.Cutoff, Floor: d.Floor}
}

// Weight scores one occurrence. timeDiffYears is the current year minus the
// publication year; negative values (future-dated records) are not clamped
// and score above the zero-age baseline.
func (w Weighter) Weight(timeDiffYears, ontologyDistance int) float64 {
	return w.Recency.At(timeDiffYears) + w.Distance.At(ontologyDistance)
}

// Expand weights every element of an ancestor chain. chain[0] is the
// extracted phrase itself (distance 0); chain[i] is i hops away. Labels are
// lower-cased so they merge with extracted phrases.
func (w Weighter) Expand(chain []string, timeDiffYears int) []types.WeightedKeyword {
	if len(chain) == 0 {
		return nil
	}
	source := chain[0]
	out := make([]types.WeightedKeyword, 0, len(chain))
	for dist, label := range chain {
		kw := strings.ToLower(strings.Join(strings.Fields(label), " "))
		if kw == "" {
			continue
		}
		out = append(out, types.WeightedKeyword{
			Keyword:  kw,
			Weight:   w.Weight(timeDiffYears, dist),
			Distance: dist,
			Source:   source,
		})
	}
	return out
}
