// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Publication is a submitted paper. Publications are append-only: once their
// keyword contribution is merged into author profiles it is never retracted.
type Publication struct {
	// ID is the store-assigned identifier; zero before the publication is stored.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the optional paper abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Date is the publication date in "YYYY" or "YYYY-MM-DD" form. Only the
	// year is used for weighting.
	Date string `json:"date" yaml:"date"`

	// Authors lists the paper authors in source order.
	Authors []AuthorRecord `json:"authors" yaml:"authors"`
}

// Year parses the leading four-digit year of Date.
func (p Publication) Year() (int, error) {
	return ParseYear(p.Date)
}

// ParseYear extracts the year from a "YYYY[-MM-DD]" date string.
func ParseYear(date string) (int, error) {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0, fmt.Errorf("date %q: want YYYY or YYYY-MM-DD", date)
	}
	if len(date) > 4 && date[4] != '-' {
		return 0, fmt.Errorf("date %q: want YYYY or YYYY-MM-DD", date)
	}
	for i := 0; i < 4; i++ {
		if date[i] < '0' || date[i] > '9' {
			return 0, fmt.Errorf("date %q: year is not numeric", date)
		}
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, fmt.Errorf("date %q: year is not numeric", date)
	}
	return year, nil
}

// WeightedKeyword is one weighted contribution produced while processing a
// publication. It is merged into a profile's keyword mapping and never
// stored on its own.
type WeightedKeyword struct {
	// Keyword is the phrase receiving the weight.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Weight is the importance of this occurrence.
	Weight float64 `json:"weight" yaml:"weight"`

	// Distance is the number of broader-concept hops from Source to Keyword.
	Distance int `json:"distance" yaml:"distance"`

	// Source is the extracted phrase the keyword was expanded from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}
