// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/expertise-profiler/internal/taxonomy"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := loadConfig(v)

	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, taxonomy.DefaultMaxDepth, cfg.Taxonomy.MaxDepth)
	assert.Equal(t, types.DecayConfig{Slope: -0.09, Intercept: 5, Cutoff: 50, Floor: 0.5}, cfg.Weighting.Recency)
	assert.Equal(t, types.DecayConfig{Slope: -0.45, Intercept: 5, Cutoff: 10, Floor: 0.5}, cfg.Weighting.Distance)
	assert.Equal(t, runtime.NumCPU(), cfg.Ingest.Workers)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.False(t, cfg.Search.FieldFilter)
	assert.Equal(t, 5*time.Minute, cfg.Search.FieldIndexRefresh)
	assert.Equal(t, "openalex", cfg.Harvest.Source)
	assert.Equal(t, 30*time.Second, cfg.Harvest.Timeout)
	assert.Equal(t, 4, cfg.Harvest.MaxRetries)
	assert.Equal(t, 50, cfg.Harvest.MaxResults)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("EXPERTISE_SEARCH_PAGE_SIZE", "3")
	t.Setenv("EXPERTISE_WEIGHTING_RECENCY_CUTOFF", "20")
	t.Setenv("EXPERTISE_HARVEST_SOURCE", "arxiv")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("EXPERTISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	cfg := loadConfig(v)

	assert.Equal(t, 3, cfg.Search.PageSize)
	assert.Equal(t, 20, cfg.Weighting.Recency.Cutoff)
	assert.Equal(t, "arxiv", cfg.Harvest.Source)
}

func TestParseKeywordWeight(t *testing.T) {
	tests := []struct {
		arg     string
		keyword string
		weight  float64
		wantErr bool
	}{
		{"graph theory=2.5", "graph theory", 2.5, false},
		{"porcupine", "porcupine", manualKeywordWeight, false},
		{"quills= 7", "quills", 7, false},
		{"quills=lots", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			kw, w, err := parseKeywordWeight(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.keyword, kw)
			assert.Equal(t, tt.weight, w)
		})
	}
}

func TestEngineFromConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("data_dir", t.TempDir())
	cfg := loadConfig(v)

	store, err := openStore(cfg)
	require.NoError(t, err)
	defer store.Close()

	engine, err := newEngine(cfg, store)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = engine.UpdateProfiles(ctx, types.Publication{
		Title: "porcupine, fluctuations",
		Date:  "2020",
		Authors: []types.AuthorRecord{
			{Name: types.Name{First: "Jane", Last: "Doe"}},
			{Name: types.Name{Alias: "Plato"}},
		},
	})
	require.NoError(t, err)

	p, err := resolveProfile(ctx, store, []string{"Jane", "Doe"})
	require.NoError(t, err)
	assert.Contains(t, p.Keywords, "porcupine")

	byID, err := resolveProfile(ctx, store, []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, byID.ID)

	plato, err := resolveProfile(ctx, store, []string{"plato"})
	require.NoError(t, err)
	assert.Equal(t, "plato", plato.Identity)

	results, err := engine.Search(ctx, "porcupine")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
