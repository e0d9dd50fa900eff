// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expertise

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form as
// exported by reference managers and read by Pandoc. JSON and YAML share
// the same field names.
type CSLItem struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Title    string    `json:"title" yaml:"title"`
	Author   []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	Abstract string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Issued   *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate is a CSL date. Only the first date-parts entry is read; Raw is
// the fallback some exporters use instead.
type CSLDate struct {
	DateParts [][]int `json:"date-parts,omitempty" yaml:"date-parts,omitempty"`
	Raw       string  `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// String renders the date as YYYY, YYYY-MM-DD or the raw value.
func (d *CSLDate) String() string {
	if d == nil {
		return ""
	}
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return strings.TrimSpace(d.Raw)
	}
	p := d.DateParts[0]
	if len(p) < 3 {
		return strconv.Itoa(p[0])
	}
	return fmt.Sprintf("%04d-%02d-%02d", p[0], p[1], p[2])
}

// isCSL reports whether a mapping node looks like a CSL item rather than a
// native publication: CSL uses "author" and "issued" where the native
// layout uses "authors" and "date".
func isCSL(m *yaml.Node) bool {
	return m.Kind == yaml.MappingNode && (hasKey(m, "author") || hasKey(m, "issued"))
}

func decodeCSL(n *yaml.Node) ([]types.Publication, error) {
	var items []CSLItem
	if n.Kind == yaml.MappingNode {
		var item CSLItem
		if err := n.Decode(&item); err != nil {
			return nil, fmt.Errorf("decoding CSL item: %w", err)
		}
		items = []CSLItem{item}
	} else if err := n.Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding CSL items: %w", err)
	}

	pubs := make([]types.Publication, len(items))
	for i, item := range items {
		pubs[i] = item.Publication()
	}
	return pubs, nil
}

// Publication converts the item. Literal names become aliases unless they
// split into given and family parts.
func (c CSLItem) Publication() types.Publication {
	pub := types.Publication{
		Title:    strings.TrimSpace(c.Title),
		Abstract: strings.TrimSpace(c.Abstract),
		Date:     c.Issued.String(),
	}
	for _, a := range c.Author {
		rec := types.AuthorRecord{Name: types.Name{
			First: strings.TrimSpace(a.Given),
			Last:  strings.TrimSpace(a.Family),
		}}
		if rec.Name.First == "" && rec.Name.Last == "" {
			rec.Name = literalName(a.Literal)
		}
		pub.Authors = append(pub.Authors, rec)
	}
	return pub
}

func literalName(s string) types.Name {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, " ")
	if idx < 0 {
		return types.Name{Alias: s}
	}
	return types.Name{First: strings.TrimSpace(s[:idx]), Last: s[idx+1:]}
}

// ToCSL converts a publication to a CSL item of type article.
func ToCSL(pub types.Publication) CSLItem {
	item := CSLItem{
		Type:     "article",
		Title:    pub.Title,
		Abstract: pub.Abstract,
	}
	if pub.ID != 0 {
		item.ID = strconv.FormatInt(pub.ID, 10)
	}
	for _, a := range pub.Authors {
		switch {
		case a.Name.Last != "":
			item.Author = append(item.Author, CSLName{Family: a.Name.Last, Given: a.Name.First})
		default:
			item.Author = append(item.Author, CSLName{Literal: a.Name.String()})
		}
	}

	if year, err := pub.Year(); err == nil {
		parts := []int{year}
		date := strings.TrimSpace(pub.Date)
		if len(date) == len("2006-01-02") {
			m, errM := strconv.Atoi(date[5:7])
			d, errD := strconv.Atoi(date[8:10])
			if errM == nil && errD == nil {
				parts = append(parts, m, d)
			}
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}
	return item
}

// EncodeCSL writes publications as a CSL-YAML list to w.
func EncodeCSL(w io.Writer, pubs []types.Publication) error {
	items := make([]CSLItem, len(pubs))
	for i, p := range pubs {
		items[i] = ToCSL(p)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("writing CSL: %w", err)
	}
	return enc.Close()
}
