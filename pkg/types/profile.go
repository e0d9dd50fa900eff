// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the expertise pipeline:
// author and profile records, publications, weighted keywords, ranked results
// and the configuration structs each stage reads.
package types

import (
	"sort"
	"strings"
)

// Name holds the components of a person's name.
type Name struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	First    string `json:"first" yaml:"first"`
	Last     string `json:"last" yaml:"last"`
	Initials string `json:"initials,omitempty" yaml:"initials,omitempty"`
	Alias    string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// String renders the name as "Title First Last", skipping empty parts.
func (n Name) String() string {
	var parts []string
	for _, p := range []string{n.Title, n.First, n.Last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(n.Alias)
	}
	return strings.Join(parts, " ")
}

// AuthorRecord carries the identity and organizational fields of a
// publication author. It is the input to profile get-or-create.
type AuthorRecord struct {
	Name Name `json:"name" yaml:"name"`

	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	Faculty    string `json:"faculty,omitempty" yaml:"faculty,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
	Campus     string `json:"campus,omitempty" yaml:"campus,omitempty"`
	Building   string `json:"building,omitempty" yaml:"building,omitempty"`
	Room       string `json:"room,omitempty" yaml:"room,omitempty"`
	Website    string `json:"website,omitempty" yaml:"website,omitempty"`
}

// Identity returns the unique key used to resolve an author to a profile.
// It is the lower-cased, whitespace-collapsed "first last". When the first
// name is missing the initials stand in for it; when both name parts are
// missing the alias is used. An empty identity means the record cannot be
// resolved.
func (a AuthorRecord) Identity() string {
	first := a.Name.First
	if strings.TrimSpace(first) == "" {
		first = a.Name.Initials
	}
	key := normalizeIdentity(first + " " + a.Name.Last)
	if key == "" {
		key = normalizeIdentity(a.Name.Alias)
	}
	return key
}

// Validate reports whether the record has enough fields for identity
// resolution.
func (a AuthorRecord) Validate() error {
	if a.Identity() == "" {
		return &MissingFieldError{Field: "name"}
	}
	return nil
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// MissingFieldError reports a required field absent from an input record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// PublicationRef is the short form of a publication attached to a profile.
type PublicationRef struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Date  string `json:"date" yaml:"date"`
}

// Profile is the accumulating expertise record for one person.
type Profile struct {
	// ID is the store-assigned identifier.
	ID int64 `json:"id" yaml:"id"`

	// Identity is the unique resolution key, see AuthorRecord.Identity.
	Identity string `json:"identity" yaml:"identity"`

	AuthorRecord `yaml:",inline"`

	// Keywords maps keyword phrase to accumulated weight.
	Keywords map[string]float64 `json:"keywords" yaml:"keywords"`

	// Publications lists the publications the person authored, oldest first.
	Publications []PublicationRef `json:"publications,omitempty" yaml:"publications,omitempty"`
}

// KeywordWeight pairs a keyword with its accumulated weight.
type KeywordWeight struct {
	Keyword string  `json:"keyword" yaml:"keyword"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// TopKeywords returns up to n keywords ordered by descending weight, ties
// broken by keyword. A non-positive n returns all keywords.
func (p Profile) TopKeywords(n int) []KeywordWeight {
	out := make([]KeywordWeight, 0, len(p.Keywords))
	for k, w := range p.Keywords {
		out = append(out, KeywordWeight{Keyword: k, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Keyword < out[j].Keyword
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ScoredProfile is a ranking result.
type ScoredProfile struct {
	Profile Profile `json:"profile" yaml:"profile"`
	Score   float64 `json:"score" yaml:"score"`
}

// FieldIndex is an immutable snapshot of the organizational and name values
// known to the store. Values are lower-cased. The ranking engine uses it to
// detect query words that name a person or a department.
type FieldIndex struct {
	FirstNames  map[string]bool
	LastNames   map[string]bool
	Departments map[string]bool
	Faculties   map[string]bool
	Campuses    map[string]bool
}
