// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Load reads a taxonomy file. The format is chosen by extension: .yaml and
// .yml hold a concept list, .xml and .rdf hold SKOS RDF/XML.
func Load(path string, opts ...Option) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening taxonomy %s: %w", path, err)
	}
	defer f.Close()

	var concepts []Concept
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		concepts, err = DecodeYAML(f)
	case ".xml", ".rdf":
		concepts, err = DecodeSKOS(f)
	default:
		return nil, fmt.Errorf("unsupported taxonomy format %q: use .yaml, .yml, .xml or .rdf", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}
	return New(concepts, opts...)
}

// yamlDocument is the on-disk YAML layout:
//
//	concepts:
//	  - id: "10002950"
//	    pref_label: Mathematics of computing
//	  - id: "10002951"
//	    pref_label: Discrete mathematics
//	    broader: "10002950"
type yamlDocument struct {
	Concepts []Concept `yaml:"concepts"`
}

// DecodeYAML parses a YAML concept list.
func DecodeYAML(r io.Reader) ([]Concept, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return doc.Concepts, nil
}

const skosNS = "http://www.w3.org/2004/02/skos/core#"

type rdfDocument struct {
	XMLName      xml.Name      `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# RDF"`
	Concepts     []skosConcept `xml:"http://www.w3.org/2004/02/skos/core# Concept"`
	Descriptions []skosConcept `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# Description"`
}

type skosConcept struct {
	About      string      `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
	Types      []rdfRef    `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# type"`
	PrefLabels []skosLabel `xml:"http://www.w3.org/2004/02/skos/core# prefLabel"`
	AltLabels  []skosLabel `xml:"http://www.w3.org/2004/02/skos/core# altLabel"`
	Broader    []rdfRef    `xml:"http://www.w3.org/2004/02/skos/core# broader"`
}

type skosLabel struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

type rdfRef struct {
	Resource string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
}

// DecodeSKOS parses SKOS concepts from RDF/XML, such as the ACM Computing
// Classification System. Both skos:Concept elements and rdf:Description
// elements typed as skos:Concept are read. Only the first skos:broader of a
// concept is kept. Concept IDs are the fragment of rdf:about when present.
func DecodeSKOS(r io.Reader) ([]Concept, error) {
	var doc rdfDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing RDF/XML: %w", err)
	}

	var concepts []Concept
	add := func(sc skosConcept) {
		label := pickLabel(sc.PrefLabels)
		if sc.About == "" || label == "" {
			return
		}
		c := Concept{ID: conceptKey(sc.About), PrefLabel: label}
		for _, alt := range sc.AltLabels {
			if v := strings.TrimSpace(alt.Value); v != "" {
				c.AltLabels = append(c.AltLabels, v)
			}
		}
		if len(sc.Broader) > 0 {
			c.Broader = conceptKey(sc.Broader[0].Resource)
		}
		concepts = append(concepts, c)
	}

	for _, sc := range doc.Concepts {
		add(sc)
	}
	for _, sc := range doc.Descriptions {
		if isConceptType(sc.Types) {
			add(sc)
		}
	}
	return concepts, nil
}

// pickLabel prefers an English label, then an untagged one, then the first.
func pickLabel(labels []skosLabel) string {
	best := ""
	for _, l := range labels {
		v := strings.TrimSpace(l.Value)
		if v == "" {
			continue
		}
		lang := strings.ToLower(l.Lang)
		if lang == "en" || strings.HasPrefix(lang, "en-") {
			return v
		}
		if best == "" || lang == "" {
			best = v
		}
	}
	return best
}

func isConceptType(refs []rdfRef) bool {
	for _, r := range refs {
		if r.Resource == skosNS+"Concept" {
			return true
		}
	}
	return false
}

// conceptKey reduces a URI reference to its fragment so that "#10002951"
// and "http://example.org/ccs#10002951" name the same concept.
func conceptKey(uri string) string {
	uri = strings.TrimSpace(uri)
	if i := strings.LastIndexByte(uri, '#'); i >= 0 && i < len(uri)-1 {
		return uri[i+1:]
	}
	return uri
}
