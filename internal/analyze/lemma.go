// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"strings"

	"github.com/gedex/inflector"
)

// Lemmatizer reduces a phrase to its base form.
type Lemmatizer interface {
	Lemmatize(phrase string) string
}

// NounLemmatizer singularizes a phrase as a single unit. Only the trailing
// word changes, so "gravitational waves" becomes "gravitational wave" while
// "systems biology" is left alone.
type NounLemmatizer struct{}

// Lemmatize implements Lemmatizer.
func (NounLemmatizer) Lemmatize(phrase string) string {
	if phrase == "" {
		return phrase
	}
	head, last := splitLast(phrase)

	if base, ok := irregularPlurals[last]; ok {
		return head + base
	}
	if lexicon[last] == TagNoun || !isPlural(last) {
		return phrase
	}
	// Words ending in "ves" mostly just drop the "s" (waves, curves,
	// archives); the f-stem exceptions are listed in irregularPlurals.
	if strings.HasSuffix(last, "ves") {
		return head + strings.TrimSuffix(last, "s")
	}
	return inflector.Singularize(phrase)
}

func splitLast(phrase string) (head, last string) {
	i := strings.LastIndexByte(phrase, ' ')
	if i < 0 {
		return "", phrase
	}
	return phrase[:i+1], phrase[i+1:]
}

var irregularPlurals = map[string]string{
	"people":    "person",
	"children":  "child",
	"men":       "man",
	"women":     "woman",
	"criteria":  "criterion",
	"phenomena": "phenomenon",
	"mice":      "mouse",
	"geese":     "goose",
	"teeth":     "tooth",
	"feet":      "foot",
	"indices":   "index",
	"matrices":  "matrix",
	"vertices":  "vertex",
	"leaves":    "leaf",
	"wolves":    "wolf",
	"lives":     "life",
	"knives":    "knife",
	"halves":    "half",
	"shelves":   "shelf",
	"selves":    "self",
}
