// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import "strings"

// element is one position of a chunk pattern. A repeated element matches
// one or more consecutive tokens with the same tag.
type element struct {
	tag    Tag
	repeat bool
}

// Pattern is a sequence of tag elements matched against contiguous tokens.
type Pattern []element

func seq(tags ...Tag) Pattern {
	p := make(Pattern, len(tags))
	for i, t := range tags {
		p[i] = element{tag: t}
	}
	return p
}

func run(tag Tag) Pattern {
	return Pattern{{tag: tag, repeat: true}}
}

// Grammar is an ordered list of patterns, most specific first.
type Grammar []Pattern

// DefaultGrammar groups noun-phrase-like fragments.
var DefaultGrammar = Grammar{
	seq(TagAdjective, TagNoun, TagPluralNoun),
	seq(TagComparative, TagPluralNoun),
	seq(TagAdjective, TagPluralNoun),
	seq(TagNoun, TagPluralNoun),
	seq(TagAdjective, TagNoun),
	run(TagNoun),
	run(TagPluralNoun),
}

// match returns the number of tags matched by p starting at tags[0], or 0.
func (p Pattern) match(tags []Tag) int {
	n := 0
	for _, el := range p {
		if n >= len(tags) || tags[n] != el.tag {
			return 0
		}
		n++
		if el.repeat {
			for n < len(tags) && tags[n] == el.tag {
				n++
			}
		}
	}
	return n
}

// Chunk groups tokens into phrases. At each position the first pattern that
// matches wins and its tokens are consumed; tokens no pattern matches are
// dropped. Phrases are the chunk tokens joined by single spaces, in source
// order.
func (g Grammar) Chunk(tokens []string, tags []Tag) []string {
	var phrases []string
	for i := 0; i < len(tokens) && i < len(tags); {
		n := 0
		for _, p := range g {
			if n = p.match(tags[i:]); n > 0 {
				break
			}
		}
		if n == 0 {
			i++
			continue
		}
		phrases = append(phrases, strings.Join(tokens[i:i+n], " "))
		i += n
	}
	return phrases
}
