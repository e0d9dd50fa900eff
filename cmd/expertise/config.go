// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/analyze"
	"github.com/pdiddy/expertise-profiler/internal/expertise"
	"github.com/pdiddy/expertise-profiler/internal/profile"
	"github.com/pdiddy/expertise-profiler/internal/secrets"
	"github.com/pdiddy/expertise-profiler/internal/taxonomy"
	"github.com/pdiddy/expertise-profiler/internal/weighting"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("taxonomy.max_depth", taxonomy.DefaultMaxDepth)

	for key, d := range map[string]weighting.Linear{
		"recency":  weighting.DefaultRecency,
		"distance": weighting.DefaultDistance,
	} {
		v.SetDefault("weighting."+key+".slope", d.Slope)
		v.SetDefault("weighting."+key+".intercept", d.Intercept)
		v.SetDefault("weighting."+key+".cutoff", d.Cutoff)
		v.SetDefault("weighting."+key+".floor", d.Floor)
	}

	v.SetDefault("ingest.workers", runtime.NumCPU())
	v.SetDefault("search.page_size", 10)
	v.SetDefault("search.field_filter", false)
	v.SetDefault("search.field_index_refresh", 5*time.Minute)
	v.SetDefault("harvest.source", "openalex")
	v.SetDefault("harvest.user_agent", "expertise-profiler/"+version)
	v.SetDefault("harvest.timeout", 30*time.Second)
	v.SetDefault("harvest.max_retries", 4)
	v.SetDefault("harvest.max_results", 50)
}

// loadConfig reads the effective configuration from v.
func loadConfig(v *viper.Viper) types.Config {
	decay := func(key string) types.DecayConfig {
		return types.DecayConfig{
			Slope:     v.GetFloat64("weighting." + key + ".slope"),
			Intercept: v.GetFloat64("weighting." + key + ".intercept"),
			Cutoff:    v.GetInt("weighting." + key + ".cutoff"),
			Floor:     v.GetFloat64("weighting." + key + ".floor"),
		}
	}

	return types.Config{
		Analyzer: types.AnalyzerConfig{
			StopwordsFile:  v.GetString("analyzer.stopwords_file"),
			ForbiddenChars: v.GetString("analyzer.forbidden_chars"),
		},
		Taxonomy: types.TaxonomyConfig{
			Path:     v.GetString("taxonomy.path"),
			MaxDepth: v.GetInt("taxonomy.max_depth"),
		},
		Weighting: types.WeightingConfig{
			Recency:  decay("recency"),
			Distance: decay("distance"),
		},
		Store: types.StoreConfig{
			DataDir:  v.GetString("data_dir"),
			PageSize: v.GetInt("search.page_size"),
		},
		Ingest: types.IngestConfig{
			Workers: v.GetInt("ingest.workers"),
		},
		Search: types.SearchConfig{
			PageSize:          v.GetInt("search.page_size"),
			FieldFilter:       v.GetBool("search.field_filter"),
			FieldIndexRefresh: v.GetDuration("search.field_index_refresh"),
		},
		Harvest: types.HarvestConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("harvest.timeout"),
				UserAgent: v.GetString("harvest.user_agent"),
			},
			Source:     v.GetString("harvest.source"),
			Email:      v.GetString("harvest.email"),
			MaxResults: v.GetInt("harvest.max_results"),
			MaxRetries: v.GetInt("harvest.max_retries"),
		},
	}
}

// secretDefault returns value if set, otherwise the named secret.
func secretDefault(key, value string) string {
	if value != "" {
		return value
	}
	if v, ok := loadedSecrets.Lookup(key); ok {
		return v
	}
	return ""
}

func openStore(cfg types.Config) (*profile.Store, error) {
	return profile.NewStore(cfg.Store)
}

func loadTaxonomy(cfg types.TaxonomyConfig) (*taxonomy.Taxonomy, error) {
	if cfg.Path == "" {
		slog.Info("no taxonomy configured, keywords are not expanded")
		return taxonomy.Empty(), nil
	}
	tax, err := taxonomy.Load(cfg.Path,
		taxonomy.WithMaxDepth(cfg.MaxDepth),
		taxonomy.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	slog.Info("taxonomy loaded", "path", cfg.Path, "concepts", tax.Len())
	return tax, nil
}

// newEngine builds the pipeline from configuration around an open store.
func newEngine(cfg types.Config, store *profile.Store) (*expertise.Engine, error) {
	an, err := analyze.FromConfig(cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("configuring analyzer: %w", err)
	}
	tax, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return nil, err
	}

	opts := []expertise.Option{
		expertise.WithLogger(slog.Default()),
		expertise.WithWorkers(cfg.Ingest.Workers),
	}
	if cfg.Search.FieldFilter {
		opts = append(opts, expertise.WithFieldFilter(cfg.Search.FieldIndexRefresh))
	}
	return expertise.New(an, tax, weighting.FromConfig(cfg.Weighting), store, opts...), nil
}

func openAlexEmail(cfg types.HarvestConfig) string {
	return secretDefault(secrets.OpenAlexEmail, cfg.Email)
}
