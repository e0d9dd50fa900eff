// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expertise wires the analyzer, taxonomy expander, weighting and
// profile store into the two pipeline operations: updating author profiles
// from a publication and searching profiles with free text.
package expertise

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pdiddy/expertise-profiler/internal/rank"
	"github.com/pdiddy/expertise-profiler/internal/weighting"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

const (
	defaultWorkers      = 4
	defaultIndexRefresh = 5 * time.Minute
)

// Extractor turns text into keyword phrases.
type Extractor interface {
	ExtractKeywords(text string) []string
}

// Expander returns a phrase followed by its broader concepts, nearest first.
type Expander interface {
	FindSuperclasses(label string) []string
}

// ProfileStore is the storage the engine reads and writes.
type ProfileStore interface {
	AddPublication(ctx context.Context, pub types.Publication, deltas []types.WeightedKeyword) (types.Publication, error)
	Candidates(ctx context.Context, keywords []string) ([]types.Profile, error)
	FieldIndex(ctx context.Context) (types.FieldIndex, error)
}

// Engine runs the profiling pipeline. It is safe for concurrent use.
type Engine struct {
	extractor Extractor
	expander  Expander
	weighter  weighting.Weighter
	store     ProfileStore

	clock        func() time.Time
	logger       *slog.Logger
	workers      int
	fieldFilter  bool
	indexRefresh time.Duration

	mu      sync.Mutex
	index   *types.FieldIndex
	indexAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used to age publications.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithWorkers sets the pool size used by IngestBatch.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFieldFilter enables query-field detection in Search. The field index
// is rebuilt from the store when older than refresh; a non-positive refresh
// rebuilds it on every search.
func WithFieldFilter(refresh time.Duration) Option {
	return func(e *Engine) {
		e.fieldFilter = true
		e.indexRefresh = refresh
	}
}

// New creates an Engine.
func New(extractor Extractor, expander Expander, weighter weighting.Weighter, store ProfileStore, opts ...Option) *Engine {
	e := &Engine{
		extractor:    extractor,
		expander:     expander,
		weighter:     weighter,
		store:        store,
		clock:        time.Now,
		logger:       slog.Default(),
		workers:      defaultWorkers,
		indexRefresh: defaultIndexRefresh,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deltas computes the weighted keyword contributions of one publication.
// Keywords come from the title and then the abstract; each is expanded
// through the taxonomy and weighted by its distance and the publication's
// age in years.
func (e *Engine) Deltas(pub types.Publication) ([]types.WeightedKeyword, error) {
	year, err := pub.Year()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	timeDiff := e.clock().Year() - year

	keywords := e.extractor.ExtractKeywords(pub.Title)
	if pub.Abstract != "" {
		keywords = append(keywords, e.extractor.ExtractKeywords(pub.Abstract)...)
	}

	var deltas []types.WeightedKeyword
	for _, kw := range keywords {
		chain := e.expander.FindSuperclasses(kw)
		if len(chain) == 1 {
			e.logger.Debug("keyword not in taxonomy", "keyword", kw)
		}
		deltas = append(deltas, e.weighter.Expand(chain, timeDiff)...)
	}
	return deltas, nil
}

// validate checks the fields every publication needs before any work is
// done for it.
func validate(pub types.Publication) error {
	if _, err := pub.Year(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if len(pub.Authors) == 0 {
		return ErrNoAuthors
	}
	for i, a := range pub.Authors {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: author %d: %v", ErrInvalidAuthor, i, err)
		}
	}
	return nil
}

func (e *Engine) prepare(pub types.Publication) ([]types.WeightedKeyword, error) {
	if err := validate(pub); err != nil {
		return nil, err
	}
	return e.Deltas(pub)
}

// UpdateProfiles merges the keyword contributions of pub into the profile of
// every author, creating profiles as needed. Malformed input fails the call
// and nothing is stored.
func (e *Engine) UpdateProfiles(ctx context.Context, pub types.Publication) (types.Publication, error) {
	deltas, err := e.prepare(pub)
	if err != nil {
		return types.Publication{}, err
	}
	return e.apply(ctx, pub, deltas)
}

func (e *Engine) apply(ctx context.Context, pub types.Publication, deltas []types.WeightedKeyword) (types.Publication, error) {
	stored, err := e.store.AddPublication(ctx, pub, deltas)
	if err != nil {
		return types.Publication{}, fmt.Errorf("storing publication %q: %w", pub.Title, err)
	}
	e.invalidateIndex()
	e.logger.Debug("publication merged",
		"id", stored.ID, "authors", len(pub.Authors), "deltas", len(deltas))
	return stored, nil
}

// Search ranks profiles against the keywords extracted from query. A query
// that yields no keywords returns an empty result without touching the
// store.
func (e *Engine) Search(ctx context.Context, query string) ([]types.ScoredProfile, error) {
	keywords := e.extractor.ExtractKeywords(query)
	if len(keywords) == 0 {
		return []types.ScoredProfile{}, nil
	}

	candidates, err := e.store.Candidates(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	if e.fieldFilter {
		idx, err := e.fieldIndex(ctx)
		if err != nil {
			return nil, err
		}
		candidates = rank.FilterByFields(candidates, keywords, idx, e.fieldKeys)
	}
	return rank.Rank(keywords, candidates), nil
}

func (e *Engine) fieldIndex(ctx context.Context) (types.FieldIndex, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if e.index != nil && e.indexRefresh > 0 && now.Sub(e.indexAt) < e.indexRefresh {
		return *e.index, nil
	}
	raw, err := e.store.FieldIndex(ctx)
	if err != nil {
		return types.FieldIndex{}, fmt.Errorf("building field index: %w", err)
	}
	idx := rank.IndexKeys(raw, e.fieldKeys)
	e.index = &idx
	e.indexAt = now
	return idx, nil
}

// fieldKeys keys a name or organizational value by the phrases the
// analyzer extracts from it, so "Jones" and the query word "jones" meet
// after lemmatization.
func (e *Engine) fieldKeys(value string) []string {
	return e.extractor.ExtractKeywords(value)
}

func (e *Engine) invalidateIndex() {
	e.mu.Lock()
	e.index = nil
	e.mu.Unlock()
}
