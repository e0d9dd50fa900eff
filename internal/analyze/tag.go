// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"strings"
	"unicode"
)

// Tag is a coarse part-of-speech label. The names follow the Penn Treebank
// tags the chunk grammar is written against.
type Tag string

const (
	TagNoun        Tag = "NN"
	TagPluralNoun  Tag = "NNS"
	TagAdjective   Tag = "JJ"
	TagComparative Tag = "JJR"
	TagGerund      Tag = "VBG"
	TagPastVerb    Tag = "VBD"
	TagVerb        Tag = "VB"
	TagNumber      Tag = "CD"
	TagPunct       Tag = "PUNCT"
	TagOther       Tag = "X"
)

// Tagger assigns a tag to every token.
type Tagger interface {
	Tag(tokens []string) []Tag
}

// LexiconTagger tags tokens with closed-class and open-class word lists,
// falling back to suffix rules. It is deterministic and holds no mutable
// state, so one instance can be shared.
type LexiconTagger struct{}

// Tag implements Tagger.
func (LexiconTagger) Tag(tokens []string) []Tag {
	tags := make([]Tag, len(tokens))
	for i, tok := range tokens {
		tags[i] = tagWord(tok)
	}
	return tags
}

func tagWord(w string) Tag {
	if w == "" {
		return TagOther
	}
	if !hasLetter(w) {
		if hasDigit(w) {
			return TagNumber
		}
		return TagPunct
	}
	if hasDigit(w) {
		return TagNumber
	}
	if t, ok := lexicon[w]; ok {
		return t
	}

	switch {
	case strings.HasSuffix(w, "ing"):
		if len(w) <= 5 {
			return TagNoun
		}
		return TagGerund
	case strings.HasSuffix(w, "ed"):
		if len(w) <= 4 || strings.HasSuffix(w, "eed") {
			return TagNoun
		}
		return TagPastVerb
	case strings.HasSuffix(w, "ly") && len(w) > 4:
		return TagOther
	}

	for _, sfx := range adjectiveSuffixes {
		if strings.HasSuffix(w, sfx) && len(w) > len(sfx)+2 {
			return TagAdjective
		}
	}

	if isPlural(w) {
		return TagPluralNoun
	}
	return TagNoun
}

var adjectiveSuffixes = []string{"al", "ic", "ive", "ous", "able", "ible", "ful", "less", "ian"}

// isPlural reports whether w looks like a regular English plural noun.
func isPlural(w string) bool {
	if !strings.HasSuffix(w, "s") || len(w) < 3 {
		return false
	}
	for _, sfx := range []string{"ss", "us", "is", "'s"} {
		if strings.HasSuffix(w, sfx) {
			return false
		}
	}
	return true
}

func hasLetter(w string) bool {
	return strings.IndexFunc(w, unicode.IsLetter) >= 0
}

func hasDigit(w string) bool {
	return strings.IndexFunc(w, unicode.IsDigit) >= 0
}

// lexicon overrides the suffix rules.
var lexicon = buildLexicon()

func buildLexicon() map[string]Tag {
	m := make(map[string]Tag)
	add := func(t Tag, words string) {
		for _, w := range strings.Fields(words) {
			m[w] = t
		}
	}

	add(TagOther, `a an the this that these those and or but nor of in on at for with
		without by from to into onto over under between among through via about against
		during before after above below as than is are was were be been being has have
		had do does did can could may might must shall should will would it its we our
		us they their them he she his her i you your not no yes very also which who whom
		whose what when where why how all any some each every both either neither such
		there here so then thus toward towards within upon per vs versus one two three
		four five six seven eight nine ten first second third more most less least
		only just even still yet if else while whereas however therefore hence else
		other another same own many much few several up down out off again further
		once too s`)

	add(TagComparative, `better worse smarter faster larger smaller greater higher lower
		deeper stronger weaker simpler easier harder longer shorter newer older wider
		broader richer cheaper safer tighter lighter heavier`)

	add(TagAdjective, `new novel large small big good bad high low deep fast efficient
		robust abstract open free general main key recent current different various
		important significant common complex simple modern early late hybrid smart
		quantum human social global local private public secure formal neural dynamic
		preliminary sparse dense random distributed parallel concurrent real online
		offline adaptive intelligent autonomous multi non`)

	add(TagVerb, `show shows propose proposes present presents improve improves reduce
		reduces enable enables provide provides make makes use uses describe describes
		investigate investigates achieve achieves allow allows demonstrate demonstrates
		introduce introduces explore explores consider considers analyse analyses
		analyze analyzes evaluate evaluates extend extends apply applies
		support supports develop develops compare compares combine combines define
		defines identify identifies outperform outperforms yield yields require requires`)

	// Nouns that the suffix rules would mistag.
	add(TagNoun, `learning computing processing reasoning engineering mining modeling
		modelling programming planning scheduling training understanding clustering
		parsing rendering testing networking imaging sensing encoding signaling tracking
		routing caching indexing ranking matching filtering hashing sampling forecasting
		marketing banking accounting nursing teaching writing meaning setting thing string
		signal interval animal proposal journal manual material potential capital
		hospital logic topic music clinic graphic arithmetic rhetoric epidemic traffic
		archive objective detective executive initiative alternative perspective directive
		derivative incentive narrative representative motive data information
		physics mathematics statistics economics linguistics robotics genomics informatics
		ethics electronics politics analysis synthesis hypothesis thesis basis diagnosis
		prognosis crisis axis census corpus virus campus status bus focus consensus
		news series species speed need seed feed`)

	add(TagPluralNoun, `people children men women criteria phenomena mice geese teeth feet
		indices matrices vertices`)

	return m
}
