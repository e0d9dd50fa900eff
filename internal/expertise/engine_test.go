// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expertise

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/expertise-profiler/internal/analyze"
	"github.com/pdiddy/expertise-profiler/internal/profile"
	"github.com/pdiddy/expertise-profiler/internal/taxonomy"
	"github.com/pdiddy/expertise-profiler/internal/weighting"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// --- test helpers ---

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testStore(t *testing.T) *profile.Store {
	t.Helper()
	store, err := profile.NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Concept{
		{ID: "10002950", PrefLabel: "Mathematics of computing"},
		{ID: "10003624", PrefLabel: "Discrete mathematics", Broader: "10002950"},
		{ID: "10003633", PrefLabel: "Graph theory", Broader: "10003624"},
	}, taxonomy.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	return tax
}

func newEngine(t *testing.T, store ProfileStore, tax Expander, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return New(analyze.New(), tax, weighting.Default(), store, opts...)
}

func author(first, last string) types.AuthorRecord {
	return types.AuthorRecord{Name: types.Name{First: first, Last: last}}
}

// countingStore records calls made through the ProfileStore interface.
type countingStore struct {
	ProfileStore
	candidates int
	fieldIndex int
}

func (c *countingStore) Candidates(ctx context.Context, keywords []string) ([]types.Profile, error) {
	c.candidates++
	return c.ProfileStore.Candidates(ctx, keywords)
}

func (c *countingStore) FieldIndex(ctx context.Context) (types.FieldIndex, error) {
	c.fieldIndex++
	return c.ProfileStore.FieldIndex(ctx)
}

// --- UpdateProfiles / Search ---

func TestPorcupineAccumulates(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	e := newEngine(t, store, taxonomy.Empty())

	jane := author("Jane", "Doe")
	_, err := e.UpdateProfiles(ctx, types.Publication{
		Title: "porcupine, fluctuations", Date: "2024-03-01", Authors: []types.AuthorRecord{jane},
	})
	require.NoError(t, err)
	_, err = e.UpdateProfiles(ctx, types.Publication{
		Title: "porcupine, gravitational waves", Date: "2023", Authors: []types.AuthorRecord{jane},
	})
	require.NoError(t, err)

	p, err := store.Lookup(ctx, jane)
	require.NoError(t, err)

	w := weighting.Default()
	assert.InDelta(t, w.Weight(0, 0)+w.Weight(1, 0), p.Keywords["porcupine"], 1e-9)
	assert.InDelta(t, 19.91, p.Keywords["porcupine"], 1e-9)
	assert.InDelta(t, 10, p.Keywords["fluctuation"], 1e-9)
	assert.InDelta(t, 9.91, p.Keywords["gravitational wave"], 1e-9)
	assert.Len(t, p.Keywords, 3)
	assert.Len(t, p.Publications, 2)

	results, err := e.Search(ctx, "Porcupines")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, p.ID, results[0].Profile.ID)
	assert.InDelta(t, 19.91, results[0].Score, 1e-9)
}

func TestUpdateProfilesResolutionMiss(t *testing.T) {
	e := newEngine(t, testStore(t), testTaxonomy(t))

	deltas, err := e.Deltas(types.Publication{Title: "porcupine", Date: "2024"})
	require.NoError(t, err)
	assert.Equal(t, []types.WeightedKeyword{
		{Keyword: "porcupine", Weight: 10, Distance: 0, Source: "porcupine"},
	}, deltas)
}

func TestUpdateProfilesExpandsTaxonomy(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	e := newEngine(t, store, testTaxonomy(t))

	_, err := e.UpdateProfiles(ctx, types.Publication{
		Title: "Graph theory", Date: "2024", Authors: []types.AuthorRecord{author("Ada", "Lovelace")},
	})
	require.NoError(t, err)

	p, err := store.Lookup(ctx, author("Ada", "Lovelace"))
	require.NoError(t, err)
	assert.InDelta(t, 10, p.Keywords["graph theory"], 1e-9)
	assert.InDelta(t, 9.55, p.Keywords["discrete mathematics"], 1e-9)
	assert.InDelta(t, 9.1, p.Keywords["mathematics of computing"], 1e-9)

	results, err := e.Search(ctx, "discrete mathematics")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 9.55, results[0].Score, 1e-9)
}

func TestDeltasAbstract(t *testing.T) {
	e := newEngine(t, testStore(t), taxonomy.Empty())

	deltas, err := e.Deltas(types.Publication{
		Title: "porcupine", Abstract: "We observed fluctuations.", Date: "2020",
	})
	require.NoError(t, err)
	var keywords []string
	for _, d := range deltas {
		keywords = append(keywords, d.Keyword)
		assert.InDelta(t, weighting.Default().Weight(4, 0), d.Weight, 1e-9)
	}
	assert.Equal(t, []string{"porcupine", "fluctuation"}, keywords)
}

func TestDeltasFutureDated(t *testing.T) {
	e := newEngine(t, testStore(t), taxonomy.Empty())
	deltas, err := e.Deltas(types.Publication{Title: "porcupine", Date: "2026"})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.InDelta(t, 5.18+5, deltas[0].Weight, 1e-9)
}

func TestUpdateProfilesInvalidInput(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	e := newEngine(t, store, taxonomy.Empty())

	tests := []struct {
		name string
		pub  types.Publication
		want error
	}{
		{"unparseable date", types.Publication{Title: "x", Date: "last year", Authors: []types.AuthorRecord{author("A", "B")}}, ErrInvalidDate},
		{"empty date", types.Publication{Title: "x", Authors: []types.AuthorRecord{author("A", "B")}}, ErrInvalidDate},
		{"no authors", types.Publication{Title: "x", Date: "2024"}, ErrNoAuthors},
		{"author without name", types.Publication{Title: "x", Date: "2024", Authors: []types.AuthorRecord{author("A", "B"), {Email: "x@y"}}}, ErrInvalidAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.UpdateProfiles(ctx, tt.pub)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	st, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.Stats{}, st, "nothing stored")
}

func TestSearchEmptyQuery(t *testing.T) {
	cs := &countingStore{ProfileStore: testStore(t)}
	e := newEngine(t, cs, taxonomy.Empty())

	for _, q := range []string{"", "   ", "the and of", "2024!"} {
		results, err := e.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Zero(t, cs.candidates)
}

func TestSearchRanking(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	e := newEngine(t, store, taxonomy.Empty())

	_, err := e.UpdateProfiles(ctx, types.Publication{
		Title: "argumentation", Date: "2024", Authors: []types.AuthorRecord{author("Jane", "Doe")},
	})
	require.NoError(t, err)
	_, err = e.UpdateProfiles(ctx, types.Publication{
		Title: "argumentation", Date: "2024", Authors: []types.AuthorRecord{author("Jane", "Doe")},
	})
	require.NoError(t, err)
	_, err = e.UpdateProfiles(ctx, types.Publication{
		Title: "argumentation", Date: "2024", Authors: []types.AuthorRecord{author("John", "Smith")},
	})
	require.NoError(t, err)
	_, err = e.UpdateProfiles(ctx, types.Publication{
		Title: "porcupine", Date: "2024", Authors: []types.AuthorRecord{author("Ada", "Lovelace")},
	})
	require.NoError(t, err)

	results, err := e.Search(ctx, "argumentation")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "jane doe", results[0].Profile.Identity)
	assert.InDelta(t, 20, results[0].Score, 1e-9)
	assert.Equal(t, "john smith", results[1].Profile.Identity)
	assert.InDelta(t, 10, results[1].Score, 1e-9)
}

func TestSearchFieldFilter(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{ProfileStore: testStore(t)}
	e := newEngine(t, cs, taxonomy.Empty(), WithFieldFilter(time.Hour))

	cs1 := author("Jane", "Doe")
	cs1.Department = "Computer Science"
	math := author("John", "Smith")
	math.Department = "Mathematics"
	for _, a := range []types.AuthorRecord{cs1, math} {
		_, err := e.UpdateProfiles(ctx, types.Publication{
			Title: "graph theory", Abstract: a.Department, Date: "2024", Authors: []types.AuthorRecord{a},
		})
		require.NoError(t, err)
	}

	results, err := e.Search(ctx, "graph theory")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = e.Search(ctx, "graph theory, mathematics")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "john smith", results[0].Profile.Identity)

	assert.Equal(t, 1, cs.fieldIndex, "index cached between searches")
}

func TestSearchFieldFilterLemmatizedNames(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, testStore(t), taxonomy.Empty(), WithFieldFilter(time.Hour))

	tom := author("Tom", "Jones")
	tom.Department = "Earth Sciences"
	john := author("John", "Smith")
	john.Department = "Mathematics"
	for _, a := range []types.AuthorRecord{tom, john} {
		_, err := e.UpdateProfiles(ctx, types.Publication{
			Title: "argumentation", Date: "2024", Authors: []types.AuthorRecord{a},
		})
		require.NoError(t, err)
	}

	for _, query := range []string{"jones, argumentation", "earth sciences, argumentation"} {
		results, err := e.Search(ctx, query)
		require.NoError(t, err)
		require.Len(t, results, 1, query)
		assert.Equal(t, "tom jones", results[0].Profile.Identity, query)
	}

	results, err := e.Search(ctx, "smith, argumentation")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "john smith", results[0].Profile.Identity)
}

// --- IngestBatch ---

func TestIngestBatch(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	e := newEngine(t, store, taxonomy.Empty(), WithWorkers(3))

	jane := author("Jane", "Doe")
	pubs := []types.Publication{
		{Title: "porcupine, fluctuations", Date: "2024", Authors: []types.AuthorRecord{jane}},
		{Title: "broken", Date: "someday", Authors: []types.AuthorRecord{jane}},
		{Title: "porcupine, gravitational waves", Date: "2023", Authors: []types.AuthorRecord{jane}},
		{Title: "orphan", Date: "2024"},
	}
	for i := 0; i < 20; i++ {
		pubs = append(pubs, types.Publication{
			Title: "argumentation", Date: "2024", Authors: []types.AuthorRecord{author("John", "Smith")},
		})
	}

	var out bytes.Buffer
	summary, err := e.IngestBatch(ctx, pubs, &out)
	require.NoError(t, err)
	assert.Equal(t, 22, summary.Ingested)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 24, summary.Total())
	assert.Contains(t, out.String(), `failed   "broken"`)
	assert.Contains(t, out.String(), "ingested: 22, failed: 2")

	p, err := store.Lookup(ctx, jane)
	require.NoError(t, err)
	assert.InDelta(t, 19.91, p.Keywords["porcupine"], 1e-9)

	john, err := store.Lookup(ctx, author("John", "Smith"))
	require.NoError(t, err)
	assert.InDelta(t, 200, john.Keywords["argumentation"], 1e-9)
}

func TestIngestBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newEngine(t, testStore(t), taxonomy.Empty())
	_, err := e.IngestBatch(ctx, []types.Publication{
		{Title: "porcupine", Date: "2024", Authors: []types.AuthorRecord{author("Jane", "Doe")}},
	}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
}
