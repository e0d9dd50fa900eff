// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest fetches publications from bibliographic APIs and maps them
// to ingestable records. Two sources are supported: OpenAlex, which carries
// author affiliations, and arXiv, which carries full abstracts.
package harvest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// Source names accepted by New.
const (
	SourceOpenAlex = "openalex"
	SourceArxiv    = "arxiv"
)

const (
	defaultMaxResults = 50
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "expertise-profiler/0.1"
)

// Query selects the works to harvest. At least one of AuthorID, Author or
// Search must be set.
type Query struct {
	// AuthorID is an OpenAlex author ID such as "A5023888391". Ignored by arXiv.
	AuthorID string

	// Author is an author name. Used by arXiv, which has no author IDs.
	Author string

	// Search is free text matched against titles and abstracts.
	Search string

	// Since keeps works published on or after this date.
	Since time.Time

	// MaxResults caps the number of works returned. Zero uses the
	// configured default.
	MaxResults int
}

// Harvester fetches publications matching a query.
type Harvester interface {
	Works(ctx context.Context, q Query) ([]types.Publication, error)
}

// New returns the harvester for cfg.Source. An empty source selects OpenAlex.
func New(cfg types.HarvestConfig) (Harvester, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", SourceOpenAlex:
		return NewOpenAlex(cfg), nil
	case SourceArxiv:
		return NewArxiv(cfg), nil
	default:
		return nil, fmt.Errorf("unknown harvest source %q (want %s or %s)", cfg.Source, SourceOpenAlex, SourceArxiv)
	}
}

func withDefaults(cfg types.HarvestConfig) types.HarvestConfig {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return cfg
}

// splitName splits a display name into first and last name. The last word
// is the family name and everything before it the given name. A single
// word becomes the alias.
func splitName(display string) types.Name {
	words := strings.Fields(display)
	switch len(words) {
	case 0:
		return types.Name{}
	case 1:
		return types.Name{Alias: words[0]}
	default:
		return types.Name{
			First: strings.Join(words[:len(words)-1], " "),
			Last:  words[len(words)-1],
		}
	}
}
