// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

func TestExtractKeywords(t *testing.T) {
	a := New()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   \n\t", []string{}},
		{"plural lemmatized", "porcupines", []string{"porcupine"}},
		{"comma separates chunks", "porcupine, fluctuations", []string{"porcupine", "fluctuation"}},
		{"adjective plural noun", "porcupine, gravitational waves", []string{"porcupine", "gravitational wave"}},
		{"duplicates kept", "Argumentation and argumentation", []string{"argumentation", "argumentation"}},
		{"adjective noun plural noun", "quantitative argumentation debates", []string{"quantitative argumentation debate"}},
		{"comparative without plural is dropped", "Smarter electricity and argumentation theory", []string{"electricity", "argumentation theory"}},
		{"comparative plural", "smarter grids", []string{"smarter grid"}},
		{"stopword dropped", "The approach", []string{}},
		{"hyphenated phrase dropped", "multi-agent systems", []string{}},
		{"function words dropped", "of the and with", []string{}},
		{"upper case folded", "PORCUPINE", []string{"porcupine"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ExtractKeywords(tt.text))
		})
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	a := New()
	text := "Abstract argumentation for case-based reasoning and quantitative argumentation debates"
	first := a.ExtractKeywords(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.ExtractKeywords(text))
	}
}

func TestKeywordSetCollapsesDuplicates(t *testing.T) {
	a := New()
	set := a.KeywordSet("argumentation, argumentation, porcupines")
	assert.Equal(t, map[string]bool{"argumentation": true, "porcupine": true}, set)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"lower-cases", "Graph Theory", []string{"graph", "theory"}},
		{"keeps inner hyphens", "Multi-Agent decision-making, with privacy!",
			[]string{"multi-agent", "decision-making", ",", "with", "privacy", "!"}},
		{"trailing plus kept", "ABA+: assumption-based", []string{"aba+", ":", "assumption-based"}},
		{"dangling hyphen split", "pre- and post", []string{"pre", "-", "and", "post"}},
		{"digits stay in words", "covid19 in 2020", []string{"covid19", "in", "2020"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestLexiconTagger(t *testing.T) {
	tests := []struct {
		word string
		want Tag
	}{
		{"porcupine", TagNoun},
		{"porcupines", TagPluralNoun},
		{"gravitational", TagAdjective},
		{"quantitative", TagAdjective},
		{"smarter", TagComparative},
		{"learning", TagNoun},
		{"computing", TagNoun},
		{"preserving", TagGerund},
		{"preserved", TagPastVerb},
		{"the", TagOther},
		{"analysis", TagNoun},
		{"class", TagNoun},
		{"children", TagPluralNoun},
		{"2016", TagNumber},
		{",", TagPunct},
		{"quickly", TagOther},
	}
	tagger := LexiconTagger{}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, []Tag{tt.want}, tagger.Tag([]string{tt.word}))
		})
	}
}

func TestGrammarChunk(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		tags   []Tag
		want   []string
	}{
		{
			name:   "most specific pattern wins",
			tokens: []string{"deep", "neural", "networks"},
			tags:   []Tag{TagAdjective, TagNoun, TagPluralNoun},
			want:   []string{"deep neural networks"},
		},
		{
			name:   "noun run",
			tokens: []string{"breast", "cancer", "radiation"},
			tags:   []Tag{TagNoun, TagNoun, TagNoun},
			want:   []string{"breast cancer radiation"},
		},
		{
			name:   "unmatched tokens dropped",
			tokens: []string{"we", "study", "graphs"},
			tags:   []Tag{TagOther, TagVerb, TagPluralNoun},
			want:   []string{"graphs"},
		},
		{
			name:   "adjective alone dropped",
			tokens: []string{"novel", ",", "trees"},
			tags:   []Tag{TagAdjective, TagPunct, TagPluralNoun},
			want:   []string{"trees"},
		},
		{
			name:   "mismatched lengths stop early",
			tokens: []string{"trees", "graphs"},
			tags:   []Tag{TagPluralNoun},
			want:   []string{"trees"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultGrammar.Chunk(tt.tokens, tt.tags))
		})
	}
}

func TestNounLemmatizer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"porcupines", "porcupine"},
		{"porcupine", "porcupine"},
		{"gravitational waves", "gravitational wave"},
		{"children", "child"},
		{"social networks", "social network"},
		{"big data", "big data"},
		{"complexity analysis", "complexity analysis"},
		{"", ""},
	}
	l := NounLemmatizer{}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Lemmatize(tt.in))
		})
	}
}

func TestForbidden(t *testing.T) {
	f := NewForbidden("~")
	assert.True(t, f.Contains("multi-agent system"))
	assert.True(t, f.Contains("covid19"))
	assert.True(t, f.Contains("aba+"))
	assert.True(t, f.Contains("a~b"))
	assert.False(t, f.Contains("graph theory"))
}

func TestFromConfigStopwordsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nporcupine\n\nTheory\n"), 0o644))

	a, err := FromConfig(types.AnalyzerConfig{StopwordsFile: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"fluctuation"}, a.ExtractKeywords("porcupine, fluctuations, theory"))
	// The built-in list is replaced, not extended.
	assert.Equal(t, []string{"approach"}, a.ExtractKeywords("approach"))
}

func TestFromConfigMissingStopwordsFile(t *testing.T) {
	_, err := FromConfig(types.AnalyzerConfig{StopwordsFile: filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "opening stopwords"))
}

func TestDefaultStopwords(t *testing.T) {
	sw := DefaultStopwords()
	assert.True(t, sw["approach"])
	assert.False(t, sw["# phrases that carry no expertise signal on their own."])
}
