// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// ExportEntry holds one profile for export. Keywords are ordered by
// descending weight so diffs between exports stay readable.
type ExportEntry struct {
	ID           int64                  `json:"id" yaml:"id"`
	Identity     string                 `json:"identity" yaml:"identity"`
	Name         string                 `json:"name" yaml:"name"`
	Email        string                 `json:"email,omitempty" yaml:"email,omitempty"`
	Faculty      string                 `json:"faculty,omitempty" yaml:"faculty,omitempty"`
	Department   string                 `json:"department,omitempty" yaml:"department,omitempty"`
	Campus       string                 `json:"campus,omitempty" yaml:"campus,omitempty"`
	Keywords     []types.KeywordWeight  `json:"keywords" yaml:"keywords"`
	Publications []types.PublicationRef `json:"publications,omitempty" yaml:"publications,omitempty"`
}

const exportLimit = 1000000

// ExportYAML writes every profile to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every profile to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	profiles, _, err := s.List(ctx, ListOptions{Limit: exportLimit})
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(profiles))
	for i, p := range profiles {
		refs, err := s.publicationRefs(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		entries[i] = ExportEntry{
			ID:           p.ID,
			Identity:     p.Identity,
			Name:         p.Name.String(),
			Email:        p.Email,
			Faculty:      p.Faculty,
			Department:   p.Department,
			Campus:       p.Campus,
			Keywords:     p.TopKeywords(0),
			Publications: refs,
		}
	}
	return entries, nil
}
