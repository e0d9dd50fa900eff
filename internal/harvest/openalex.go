// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/expertise-profiler/internal/httputil"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

const maxPerPage = 200

// OpenAlex harvests works from the OpenAlex API.
type OpenAlex struct {
	client *http.Client
	cfg    types.HarvestConfig
}

// NewOpenAlex creates a harvester. Unset config fields take defaults.
func NewOpenAlex(cfg types.HarvestConfig) *OpenAlex {
	cfg = withDefaults(cfg)
	return &OpenAlex{client: &http.Client{Timeout: cfg.Timeout}, cfg: cfg}
}

// Works fetches works matching q, following result cursors until
// MaxResults works have been collected or the results run out. Works
// without a title or without named authors are skipped.
func (o *OpenAlex) Works(ctx context.Context, q Query) ([]types.Publication, error) {
	if q.AuthorID == "" && strings.TrimSpace(q.Search) == "" {
		return nil, fmt.Errorf("empty OpenAlex query: set an author ID or search text")
	}
	limit := q.MaxResults
	if limit <= 0 {
		limit = o.cfg.MaxResults
	}

	var pubs []types.Publication
	cursor := "*"
	for cursor != "" && len(pubs) < limit {
		page, err := o.fetch(ctx, q, cursor, min(limit-len(pubs), maxPerPage))
		if err != nil {
			return nil, err
		}
		for _, w := range page.Results {
			if pub, ok := toPublication(w); ok && len(pubs) < limit {
				pubs = append(pubs, pub)
			}
		}
		if len(page.Results) == 0 {
			break
		}
		cursor = page.Meta.NextCursor
	}
	return pubs, nil
}

func (o *OpenAlex) fetch(ctx context.Context, q Query, cursor string, perPage int) (*openAlexResponse, error) {
	params := url.Values{
		"per_page": {strconv.Itoa(perPage)},
		"cursor":   {cursor},
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}

	var filters []string
	if q.AuthorID != "" {
		filters = append(filters, "author.id:"+authorKey(q.AuthorID))
	}
	if !q.Since.IsZero() {
		filters = append(filters, "from_publication_date:"+q.Since.Format("2006-01-02"))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}
	if o.cfg.Email != "" {
		params.Set("mailto", o.cfg.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexWorksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", o.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, o.client, req, o.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return &oar, nil
}

// authorKey accepts a bare ID or a full https://openalex.org/ URL.
func authorKey(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	return id
}

func toPublication(w openAlexWork) (types.Publication, bool) {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return types.Publication{}, false
	}

	pub := types.Publication{
		Title:    title,
		Abstract: reconstructAbstract(w.AbstractInvertedIndex),
	}
	switch {
	case w.PublicationDate != "":
		pub.Date = w.PublicationDate
	case w.PublicationYear > 0:
		pub.Date = strconv.Itoa(w.PublicationYear)
	default:
		return types.Publication{}, false
	}

	for _, a := range w.Authorships {
		rec := authorRecord(a)
		if rec.Identity() != "" {
			pub.Authors = append(pub.Authors, rec)
		}
	}
	if len(pub.Authors) == 0 {
		return types.Publication{}, false
	}
	return pub, true
}

func authorRecord(a openAlexAuthorship) types.AuthorRecord {
	rec := types.AuthorRecord{Name: splitName(a.Author.DisplayName)}
	if len(a.Institutions) > 0 {
		rec.Faculty = a.Institutions[0].DisplayName
	}
	if a.Author.ORCID != "" {
		rec.Website = a.Author.ORCID
	}
	return rec
}

// reconstructAbstract rebuilds plain text from OpenAlex's
// abstract_inverted_index, which maps each word to its positions.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count      int    `json:"count"`
	PerPage    int    `json:"per_page"`
	NextCursor string `json:"next_cursor"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author       openAlexAuthor        `json:"author"`
	Institutions []openAlexInstitution `json:"institutions"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
}
