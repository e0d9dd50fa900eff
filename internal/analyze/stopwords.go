// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

//go:embed data/stopwords.txt
var defaultStopwords string

// Stopwords is a read-only set of phrases to drop.
type Stopwords map[string]bool

// DefaultStopwords returns the built-in stopword list.
func DefaultStopwords() Stopwords {
	sw, _ := ParseStopwords(strings.NewReader(defaultStopwords))
	return sw
}

// LoadStopwords reads a stopword file: one phrase per line, blank lines and
// lines starting with '#' ignored.
func LoadStopwords(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopwords %s: %w", path, err)
	}
	defer f.Close()
	sw, err := ParseStopwords(f)
	if err != nil {
		return nil, fmt.Errorf("reading stopwords %s: %w", path, err)
	}
	return sw, nil
}

// ParseStopwords reads a stopword list from r.
func ParseStopwords(r io.Reader) (Stopwords, error) {
	sw := make(Stopwords)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sw[strings.ToLower(line)] = true
	}
	return sw, sc.Err()
}

// Forbidden reports whether a phrase contains a disqualifying rune: any
// punctuation, symbol or digit, or one of the extra characters.
type Forbidden struct {
	extra string
}

// NewForbidden builds a filter with additional forbidden characters.
func NewForbidden(extra string) Forbidden {
	return Forbidden{extra: extra}
}

// Contains reports whether phrase has a forbidden rune.
func (f Forbidden) Contains(phrase string) bool {
	return strings.IndexFunc(phrase, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r) ||
			strings.ContainsRune(f.extra, r)
	}) >= 0
}
