// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expertise

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// PublicationFile is the document layout written by the harvester and read
// by ingest:
//
//	publications:
//	  - title: Porcupine fluctuations
//	    date: "2024-03-01"
//	    authors:
//	      - name: {first: Jane, last: Doe}
type PublicationFile struct {
	Publications []types.Publication `json:"publications" yaml:"publications"`
}

// DecodePublications reads publications from YAML or JSON. The document may
// be a PublicationFile, a bare list of publications or a single
// publication. CSL bibliographies (a list of items, a single item or a
// Pandoc "references" mapping) are recognized and converted. An empty
// document yields no publications.
func DecodePublications(r io.Reader) ([]types.Publication, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing publications: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		if len(root.Content) > 0 && isCSL(root.Content[0]) {
			return decodeCSL(root)
		}
		var pubs []types.Publication
		if err := root.Decode(&pubs); err != nil {
			return nil, fmt.Errorf("decoding publication list: %w", err)
		}
		return pubs, nil
	case yaml.MappingNode:
		if refs := value(root, "references"); refs != nil {
			return decodeCSL(refs)
		}
		if isCSL(root) {
			return decodeCSL(root)
		}
		if hasKey(root, "publications") {
			var f PublicationFile
			if err := root.Decode(&f); err != nil {
				return nil, fmt.Errorf("decoding publication file: %w", err)
			}
			return f.Publications, nil
		}
		var pub types.Publication
		if err := root.Decode(&pub); err != nil {
			return nil, fmt.Errorf("decoding publication: %w", err)
		}
		return []types.Publication{pub}, nil
	default:
		return nil, fmt.Errorf("parsing publications: unexpected document kind")
	}
}

func hasKey(m *yaml.Node, key string) bool {
	return value(m, key) != nil
}

// value returns the node mapped to key in m, or nil.
func value(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// LoadPublications reads publications from files and directories.
// Directories are walked for .yaml, .yml and .json files in lexical order.
func LoadPublications(paths []string) ([]types.Publication, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPublicationFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	sort.Strings(files)

	var pubs []types.Publication
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		got, err := DecodePublications(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		pubs = append(pubs, got...)
	}
	return pubs, nil
}

func isPublicationFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
