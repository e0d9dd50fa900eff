package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "expertise-profiler/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AnalyzerConfig holds settings for the text analyzer.
type AnalyzerConfig struct {
	// StopwordsFile is a newline-separated list of phrases to drop. Empty
	// uses the built-in list.
	StopwordsFile string `json:"stopwords_file,omitempty" yaml:"stopwords_file,omitempty"`

	// ForbiddenChars are extra characters that disqualify a phrase, on top of
	// punctuation, symbols and digits.
	ForbiddenChars string `json:"forbidden_chars,omitempty" yaml:"forbidden_chars,omitempty"`
}

// TaxonomyConfig holds settings for the concept taxonomy.
type TaxonomyConfig struct {
	// Path is the taxonomy file (.yaml, .yml, .xml or .rdf). Empty disables
	// expansion.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// MaxDepth caps broader-edge traversal (default 64).
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
}

// DecayConfig describes a linear decay clamped to a floor past a cutoff.
// Zero-valued configs fall back to the stage defaults.
type DecayConfig struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	Cutoff    int     `json:"cutoff" yaml:"cutoff"`
	Floor     float64 `json:"floor" yaml:"floor"`
}

// IsZero reports whether no field was set.
func (d DecayConfig) IsZero() bool {
	return d == DecayConfig{}
}

// WeightingConfig holds the recency and taxonomic distance decay settings.
type WeightingConfig struct {
	Recency  DecayConfig `json:"recency" yaml:"recency"`
	Distance DecayConfig `json:"distance" yaml:"distance"`
}

// StoreConfig holds settings for the profile store.
type StoreConfig struct {
	// DataDir contains the SQLite database (expertise.db) and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// PageSize is the default page size for listings (default 20).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// IngestConfig holds settings for batch ingestion.
type IngestConfig struct {
	// Workers is the size of the analysis worker pool (default NumCPU).
	Workers int `json:"workers" yaml:"workers"`
}

// SearchConfig holds settings for query ranking.
type SearchConfig struct {
	// PageSize is the default result page size (default 10).
	PageSize int `json:"page_size" yaml:"page_size"`

	// FieldFilter enables narrowing results by query words that name a
	// known person, department, faculty or campus.
	FieldFilter bool `json:"field_filter" yaml:"field_filter"`

	// FieldIndexRefresh is how long a field index snapshot is reused (default 5m).
	FieldIndexRefresh time.Duration `json:"field_index_refresh" yaml:"field_index_refresh"`
}

// HarvestConfig holds settings for fetching publications.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Source selects the API: "openalex" (default) or "arxiv".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Email is sent as the OpenAlex mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// MaxResults caps the number of works fetched per run (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries is the number of retries on rate limiting or transient server errors (default 4).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Config groups all stage configurations.
type Config struct {
	Analyzer  AnalyzerConfig  `json:"analyzer" yaml:"analyzer"`
	Taxonomy  TaxonomyConfig  `json:"taxonomy" yaml:"taxonomy"`
	Weighting WeightingConfig `json:"weighting" yaml:"weighting"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Harvest   HarvestConfig   `json:"harvest" yaml:"harvest"`
}
