// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores profiles against a query keyword set.
//
// Ranking is pure: it reads keyword mappings and never touches storage.
// A profile qualifies when at least one query keyword appears in its
// mapping; its score is the sum of the weights of all matching keywords.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// Rank scores profiles against keywords and returns the matches ordered by
// descending score, ties broken by ascending profile ID. Duplicate keywords
// count once. An empty keyword set yields an empty result.
func Rank(keywords []string, profiles []types.Profile) []types.ScoredProfile {
	terms := sortedTerms(keywords)
	results := []types.ScoredProfile{}
	if len(terms) == 0 {
		return results
	}

	weights := make([]float64, 0, len(terms))
	for _, p := range profiles {
		weights = weights[:0]
		for _, k := range terms {
			if w, ok := p.Keywords[k]; ok {
				weights = append(weights, w)
			}
		}
		if len(weights) > 0 {
			results = append(results, types.ScoredProfile{Profile: p, Score: sum(weights)})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Profile.ID < results[j].Profile.ID
	})
	return results
}

// KeyFunc maps a field value to the keys it is indexed under. Query
// keywords are compared against these keys, so a KeyFunc that runs the
// value through the query analyzer lets lemmatized keywords match.
type KeyFunc func(value string) []string

// FilterByFields narrows profiles when the query names a person or an
// organizational unit. For each of first name, last name, department,
// faculty and campus: if any query keyword is a key known to index, only
// profiles whose field has one of those keys are kept. Fields the query
// does not mention do not filter. Profile fields are keyed with keys, which
// must match the function the index was built with; nil keys a value by
// its lower-cased, space-collapsed form.
func FilterByFields(profiles []types.Profile, keywords []string, index types.FieldIndex, keys KeyFunc) []types.Profile {
	if keys == nil {
		keys = Normalize
	}
	memo := map[string][]string{}
	keysOf := func(v string) []string {
		got, ok := memo[v]
		if !ok {
			got = keys(v)
			memo[v] = got
		}
		return got
	}

	filters := []struct {
		known map[string]bool
		field func(types.Profile) string
	}{
		{index.FirstNames, func(p types.Profile) string { return p.Name.First }},
		{index.LastNames, func(p types.Profile) string { return p.Name.Last }},
		{index.Departments, func(p types.Profile) string { return p.Department }},
		{index.Faculties, func(p types.Profile) string { return p.Faculty }},
		{index.Campuses, func(p types.Profile) string { return p.Campus }},
	}

	set := toSet(keywords)
	out := profiles
	for _, f := range filters {
		wanted := map[string]bool{}
		for k := range set {
			if f.known[k] {
				wanted[k] = true
			}
		}
		if len(wanted) == 0 {
			continue
		}

		kept := make([]types.Profile, 0, len(out))
		for _, p := range out {
			for _, k := range keysOf(f.field(p)) {
				if wanted[k] {
					kept = append(kept, p)
					break
				}
			}
		}
		out = kept
	}
	return out
}

// Paginate returns the 1-based page of results and the total count. Pages
// past the end are empty; a non-positive size returns everything.
func Paginate(results []types.ScoredProfile, page, size int) ([]types.ScoredProfile, int) {
	total := len(results)
	if size <= 0 {
		return results, total
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return []types.ScoredProfile{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return results[start:end], total
}

func toSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		if k != "" {
			set[k] = true
		}
	}
	return set
}

// sum adds weights smallest first, so the same multiset of weights always
// yields the same float regardless of which keywords carried them.
func sum(weights []float64) float64 {
	sort.Float64s(weights)
	var total float64
	for _, w := range weights {
		total += w
	}
	return total
}

// sortedTerms returns the distinct non-empty keywords in ascending order.
func sortedTerms(keywords []string) []string {
	set := toSet(keywords)
	terms := make([]string, 0, len(set))
	for k := range set {
		terms = append(terms, k)
	}
	sort.Strings(terms)
	return terms
}

// Normalize is the default KeyFunc: the lower-cased, space-collapsed value,
// or no key for a blank value.
func Normalize(value string) []string {
	v := strings.ToLower(strings.Join(strings.Fields(value), " "))
	if v == "" {
		return nil
	}
	return []string{v}
}

// IndexKeys rebuilds every set of index under keys. Each raw value
// contributes all of its keys; nil keys returns index unchanged.
func IndexKeys(index types.FieldIndex, keys KeyFunc) types.FieldIndex {
	if keys == nil {
		return index
	}
	rekey := func(known map[string]bool) map[string]bool {
		out := make(map[string]bool, len(known))
		for v := range known {
			for _, k := range keys(v) {
				out[k] = true
			}
		}
		return out
	}
	return types.FieldIndex{
		FirstNames:  rekey(index.FirstNames),
		LastNames:   rekey(index.LastNames),
		Departments: rekey(index.Departments),
		Faculties:   rekey(index.Faculties),
		Campuses:    rekey(index.Campuses),
	}
}
