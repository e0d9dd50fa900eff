// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/expertise-profiler/internal/httputil"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const pageOne = `{
  "meta": {"count": 3, "per_page": 2, "next_cursor": "abc"},
  "results": [
    {
      "id": "https://openalex.org/W1",
      "title": "Porcupine fluctuations",
      "publication_date": "2023-04-01",
      "publication_year": 2023,
      "abstract_inverted_index": {"quill": [1], "Porcupine": [0], "dynamics": [2]},
      "authorships": [
        {"author": {"id": "https://openalex.org/A1", "display_name": "Jane Q. Doe", "orcid": "https://orcid.org/0000-0001"},
         "institutions": [{"display_name": "University of Example"}]},
        {"author": {"id": "https://openalex.org/A2", "display_name": ""}}
      ]
    },
    {
      "id": "https://openalex.org/W2",
      "title": "",
      "publication_year": 2022,
      "authorships": [{"author": {"display_name": "John Smith"}}]
    }
  ]
}`

const pageTwo = `{
  "meta": {"count": 3, "per_page": 2, "next_cursor": null},
  "results": [
    {
      "id": "https://openalex.org/W3",
      "title": "Gravitational waves",
      "publication_year": 2021,
      "authorships": [{"author": {"display_name": "Plato"}}]
    }
  ]
}`

// fakeOpenAlex serves pageOne for cursor "*" and pageTwo for "abc".
func fakeOpenAlex(t *testing.T) (*httptest.Server, *[]url.Values) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []url.Values
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Query())
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "*":
			fmt.Fprint(w, pageOne)
		case "abc":
			fmt.Fprint(w, pageTwo)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(ts.Close)

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	t.Cleanup(func() { openAlexWorksBase = old })
	return ts, &seen
}

func TestWorks(t *testing.T) {
	_, seen := fakeOpenAlex(t)

	h := NewOpenAlex(types.HarvestConfig{Email: "me@example.com"})
	pubs, err := h.Works(context.Background(), Query{
		AuthorID: "https://openalex.org/A1",
		Since:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, pubs, 2)
	assert.Equal(t, types.Publication{
		Title:    "Porcupine fluctuations",
		Abstract: "Porcupine quill dynamics",
		Date:     "2023-04-01",
		Authors: []types.AuthorRecord{{
			Name:    types.Name{First: "Jane Q.", Last: "Doe"},
			Faculty: "University of Example",
			Website: "https://orcid.org/0000-0001",
		}},
	}, pubs[0])
	assert.Equal(t, "2021", pubs[1].Date)
	assert.Equal(t, "plato", pubs[1].Authors[0].Identity())

	require.Len(t, *seen, 2)
	first := (*seen)[0]
	assert.Equal(t, "author.id:A1,from_publication_date:2020-01-01", first.Get("filter"))
	assert.Equal(t, "me@example.com", first.Get("mailto"))
	assert.Equal(t, "50", first.Get("per_page"))
	assert.Equal(t, "abc", (*seen)[1].Get("cursor"))
}

func TestWorksMaxResults(t *testing.T) {
	_, seen := fakeOpenAlex(t)

	h := NewOpenAlex(types.HarvestConfig{})
	pubs, err := h.Works(context.Background(), Query{Search: "porcupine", MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "Porcupine fluctuations", pubs[0].Title)
	assert.Len(t, *seen, 1, "no second page once the limit is reached")
	assert.Equal(t, "porcupine", (*seen)[0].Get("search"))
}

func TestWorksErrors(t *testing.T) {
	h := NewOpenAlex(types.HarvestConfig{MaxRetries: 1})

	_, err := h.Works(context.Background(), Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty OpenAlex query")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	_, err = h.Works(context.Background(), Query{Search: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"nil", nil, ""},
		{"ordered by position", map[string][]int{"world": {1}, "hello": {0}}, "hello world"},
		{"repeated word", map[string][]int{"the": {0, 2}, "cat": {1}, "hat": {3}}, "the cat the hat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructAbstract(tt.index))
		})
	}
}

func TestAuthorKey(t *testing.T) {
	assert.Equal(t, "A5023888391", authorKey("A5023888391"))
	assert.Equal(t, "A5023888391", authorKey(" https://openalex.org/A5023888391 "))
}
