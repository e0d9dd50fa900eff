// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/expertise-profiler/internal/httputil"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const arxivPageSize = 100

// Arxiv harvests preprints from the arXiv API.
type Arxiv struct {
	client *http.Client
	cfg    types.HarvestConfig
}

// NewArxiv creates an arXiv harvester. Unset config fields take defaults.
func NewArxiv(cfg types.HarvestConfig) *Arxiv {
	cfg = withDefaults(cfg)
	return &Arxiv{client: &http.Client{Timeout: cfg.Timeout}, cfg: cfg}
}

// Works pages through arXiv results newest first until MaxResults entries
// are collected, the results run out or entries fall before q.Since.
func (a *Arxiv) Works(ctx context.Context, q Query) ([]types.Publication, error) {
	search := buildArxivQuery(q)
	if search == "" {
		return nil, fmt.Errorf("empty arXiv query: set an author or search text")
	}
	limit := q.MaxResults
	if limit <= 0 {
		limit = a.cfg.MaxResults
	}

	var pubs []types.Publication
	for start := 0; len(pubs) < limit; start += arxivPageSize {
		feed, err := a.fetch(ctx, search, start, arxivPageSize)
		if err != nil {
			return nil, err
		}
		for _, entry := range feed.Entries {
			pub, published, ok := entry.publication()
			if !ok {
				continue
			}
			if !q.Since.IsZero() && published.Before(q.Since) {
				return pubs, nil
			}
			if len(pubs) < limit {
				pubs = append(pubs, pub)
			}
		}
		if len(feed.Entries) < arxivPageSize {
			break
		}
	}
	return pubs, nil
}

func (a *Arxiv) fetch(ctx context.Context, search string, start, size int) (*arxivFeed, error) {
	params := url.Values{
		"search_query": {search},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(size)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.client, req, a.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// buildArxivQuery joins the author and free-text clauses with AND.
func buildArxivQuery(q Query) string {
	var parts []string
	if author := strings.Join(strings.Fields(q.Author), " "); author != "" {
		parts = append(parts, fmt.Sprintf("au:%q", author))
	}
	if text := strings.Fields(q.Search); len(text) > 0 {
		parts = append(parts, "all:"+strings.Join(text, " AND all:"))
	}
	return strings.Join(parts, " AND ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"http://arxiv.org/schemas/atom affiliation"`
}

// publication maps an entry to a publication. Titles and abstracts in the
// feed are hard-wrapped, so runs of whitespace are collapsed.
func (e arxivEntry) publication() (types.Publication, time.Time, bool) {
	title := collapse(e.Title)
	published, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published))
	if title == "" || err != nil {
		return types.Publication{}, time.Time{}, false
	}

	pub := types.Publication{
		Title:    title,
		Abstract: collapse(e.Summary),
		Date:     published.Format("2006-01-02"),
	}
	for _, a := range e.Authors {
		rec := types.AuthorRecord{
			Name:    splitName(a.Name),
			Faculty: strings.TrimSpace(a.Affiliation),
		}
		if rec.Identity() != "" {
			pub.Authors = append(pub.Authors, rec)
		}
	}
	if len(pub.Authors) == 0 {
		return types.Publication{}, time.Time{}, false
	}
	return pub, published, true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
