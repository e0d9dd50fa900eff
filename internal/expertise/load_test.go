// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expertise

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

func TestDecodePublications(t *testing.T) {
	jane := types.AuthorRecord{Name: types.Name{First: "Jane", Last: "Doe"}, Department: "Physics"}

	tests := []struct {
		name  string
		input string
		want  []types.Publication
	}{
		{
			name: "publication file",
			input: `publications:
  - title: porcupine, fluctuations
    date: "2024"
    authors:
      - name: {first: Jane, last: Doe}
        department: Physics
`,
			want: []types.Publication{{Title: "porcupine, fluctuations", Date: "2024", Authors: []types.AuthorRecord{jane}}},
		},
		{
			name: "bare list",
			input: `- title: a
  date: "2020-01-02"
- title: b
  date: "2021"
`,
			want: []types.Publication{{Title: "a", Date: "2020-01-02"}, {Title: "b", Date: "2021"}},
		},
		{
			name:  "single json publication",
			input: `{"title": "porcupine", "abstract": "quills", "date": "2023", "authors": [{"name": {"first": "Jane", "last": "Doe"}, "department": "Physics"}]}`,
			want:  []types.Publication{{Title: "porcupine", Abstract: "quills", Date: "2023", Authors: []types.AuthorRecord{jane}}},
		},
		{name: "empty", input: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePublications(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePublicationsMalformed(t *testing.T) {
	_, err := DecodePublications(strings.NewReader("title: [unclosed"))
	require.Error(t, err)

	_, err = DecodePublications(strings.NewReader("just a string"))
	require.Error(t, err)
}

func TestLoadPublications(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("- {title: second, date: \"2021\"}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[{"title": "first", "date": "2020"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.yml"), []byte("title: third\ndate: \"2022\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	pubs, err := LoadPublications([]string{dir})
	require.NoError(t, err)
	titles := make([]string, len(pubs))
	for i, p := range pubs {
		titles[i] = p.Title
	}
	assert.Equal(t, []string{"first", "second", "third"}, titles)

	_, err = LoadPublications([]string{filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
}
