// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze turns raw text into candidate keyword phrases.
//
// The pipeline is: tokenize and lower-case, tag parts of speech, chunk with
// an ordered noun-phrase grammar, join, lemmatize the joined phrase, then drop
// stopwords and phrases with forbidden characters. An Analyzer is immutable
// after construction and safe for concurrent use.
package analyze

import (
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// Analyzer extracts keyword phrases from text.
type Analyzer struct {
	tagger     Tagger
	grammar    Grammar
	lemmatizer Lemmatizer
	stopwords  Stopwords
	forbidden  Forbidden
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTagger replaces the default lexicon tagger.
func WithTagger(t Tagger) Option {
	return func(a *Analyzer) { a.tagger = t }
}

// WithGrammar replaces the default chunk grammar.
func WithGrammar(g Grammar) Option {
	return func(a *Analyzer) { a.grammar = g }
}

// WithLemmatizer replaces the default noun lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(a *Analyzer) { a.lemmatizer = l }
}

// WithStopwords replaces the built-in stopword list.
func WithStopwords(sw Stopwords) Option {
	return func(a *Analyzer) { a.stopwords = sw }
}

// WithForbiddenChars adds characters that disqualify a phrase.
func WithForbiddenChars(chars string) Option {
	return func(a *Analyzer) { a.forbidden = NewForbidden(chars) }
}

// New returns an Analyzer with the default tagger, grammar, lemmatizer and
// stopwords unless overridden.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		tagger:     LexiconTagger{},
		grammar:    DefaultGrammar,
		lemmatizer: NounLemmatizer{},
		stopwords:  DefaultStopwords(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromConfig builds an Analyzer from configuration.
func FromConfig(cfg types.AnalyzerConfig) (*Analyzer, error) {
	opts := []Option{WithForbiddenChars(cfg.ForbiddenChars)}
	if cfg.StopwordsFile != "" {
		sw, err := LoadStopwords(cfg.StopwordsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithStopwords(sw))
	}
	return New(opts...), nil
}

// ExtractKeywords returns the keyword phrases of text in source order.
// Repeated phrases are kept; each occurrence counts during weighting.
func (a *Analyzer) ExtractKeywords(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return []string{}
	}
	tags := a.tagger.Tag(tokens)
	chunks := a.grammar.Chunk(tokens, tags)

	keywords := make([]string, 0, len(chunks))
	for _, c := range chunks {
		phrase := a.lemmatizer.Lemmatize(c)
		if phrase == "" || a.stopwords[phrase] || a.forbidden.Contains(phrase) {
			continue
		}
		keywords = append(keywords, phrase)
	}
	return keywords
}

// KeywordSet returns the distinct keywords of text.
func (a *Analyzer) KeywordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, k := range a.ExtractKeywords(text) {
		set[k] = true
	}
	return set
}
