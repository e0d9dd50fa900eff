// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// joiners may appear inside a word token when surrounded by word runes,
// e.g. "multi-agent", "o'brien", "c++".
const joiners = "-'+"

// Tokenize splits text into lower-cased tokens. Words are maximal runs of
// letters and digits, optionally joined by '-', '\'' or '+'. Every other
// non-space rune becomes a single-rune token so chunk boundaries survive.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = cases.Lower(language.Und).String(norm.NFC.String(text))

	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		tokens = append(tokens, word.String())
		word.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case isWordRune(r):
			word.WriteRune(r)
		case strings.ContainsRune(joiners, r) && word.Len() > 0:
			if r == '+' || (i+1 < len(runes) && isWordRune(runes[i+1])) {
				word.WriteRune(r)
				continue
			}
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
