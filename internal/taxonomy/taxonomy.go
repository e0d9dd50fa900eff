// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy holds a read-only concept graph and expands phrases into
// their chain of broader concepts.
//
// A Taxonomy is built once and never mutated, so it can be shared by any
// number of goroutines without locking. Each concept has one preferred
// label, optional alternate labels and at most one broader concept.
package taxonomy

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultMaxDepth caps broader-edge traversal.
const DefaultMaxDepth = 64

// ErrInvalidConcept reports a concept that cannot be added to the graph.
var ErrInvalidConcept = errors.New("invalid concept")

// Concept is one node of the taxonomy.
type Concept struct {
	ID        string   `json:"id" yaml:"id"`
	PrefLabel string   `json:"pref_label" yaml:"pref_label"`
	AltLabels []string `json:"alt_labels,omitempty" yaml:"alt_labels,omitempty"`
	Broader   string   `json:"broader,omitempty" yaml:"broader,omitempty"`
}

// Taxonomy is an immutable concept graph.
type Taxonomy struct {
	concepts map[string]Concept
	byPref   map[string]string
	byAlt    map[string]string
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Taxonomy.
type Option func(*Taxonomy)

// WithMaxDepth sets the traversal cap. Non-positive values keep the default.
func WithMaxDepth(depth int) Option {
	return func(t *Taxonomy) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used to report data errors.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Taxonomy) {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
	}
}

// New builds a taxonomy from concepts. Concept IDs and preferred labels
// must be non-empty and IDs unique. When two concepts share a label the
// first one wins.
func New(concepts []Concept, opts ...Option) (*Taxonomy, error) {
	t := &Taxonomy{
		concepts: make(map[string]Concept, len(concepts)),
		byPref:   make(map[string]string, len(concepts)),
		byAlt:    make(map[string]string),
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, c := range concepts {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: empty id (label %q)", ErrInvalidConcept, c.PrefLabel)
		}
		if strings.TrimSpace(c.PrefLabel) == "" {
			return nil, fmt.Errorf("%w: %s has no preferred label", ErrInvalidConcept, c.ID)
		}
		if _, dup := t.concepts[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidConcept, c.ID)
		}
		c.AltLabels = append([]string(nil), c.AltLabels...)
		t.concepts[c.ID] = c

		if key := normalizeLabel(c.PrefLabel); t.byPref[key] == "" {
			t.byPref[key] = c.ID
		}
		for _, alt := range c.AltLabels {
			if key := normalizeLabel(alt); key != "" && t.byAlt[key] == "" {
				t.byAlt[key] = c.ID
			}
		}
	}
	return t, nil
}

// Empty returns a taxonomy with no concepts. Every lookup misses.
func Empty() *Taxonomy {
	t, _ := New(nil)
	return t
}

// Len returns the number of concepts.
func (t *Taxonomy) Len() int {
	return len(t.concepts)
}

// Resolve finds the concept for a label, matching preferred labels first
// and alternate labels second, ignoring case and repeated whitespace.
func (t *Taxonomy) Resolve(label string) (Concept, bool) {
	key := normalizeLabel(label)
	if key == "" {
		return Concept{}, false
	}
	id, ok := t.byPref[key]
	if !ok {
		id, ok = t.byAlt[key]
	}
	if !ok {
		return Concept{}, false
	}
	c, ok := t.concepts[id]
	return c, ok
}

// Concept returns the concept with the given ID.
func (t *Taxonomy) Concept(id string) (Concept, bool) {
	c, ok := t.concepts[id]
	return c, ok
}

// FindSuperclasses returns label followed by the preferred labels of its
// broader concepts, nearest first. An unresolvable label yields just
// [label]. A broader chain that revisits a concept or exceeds the depth cap
// is malformed data: it is logged and treated as unresolvable.
func (t *Taxonomy) FindSuperclasses(label string) []string {
	chain := []string{label}

	c, ok := t.Resolve(label)
	if !ok {
		return chain
	}

	seen := map[string]bool{c.ID: true}
	for c.Broader != "" {
		parent, ok := t.concepts[c.Broader]
		if !ok {
			t.logger.Warn("taxonomy: dangling broader reference",
				"concept", c.ID, "broader", c.Broader)
			break
		}
		if seen[parent.ID] {
			t.logger.Error("taxonomy: broader cycle, ignoring ancestors",
				"label", label, "concept", parent.ID)
			return []string{label}
		}
		if len(chain) > t.maxDepth {
			t.logger.Error("taxonomy: broader chain exceeds depth cap, ignoring ancestors",
				"label", label, "max_depth", t.maxDepth)
			return []string{label}
		}
		seen[parent.ID] = true
		chain = append(chain, parent.PrefLabel)
		c = parent
	}
	return chain
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
