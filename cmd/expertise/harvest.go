// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/expertise-profiler/internal/expertise"
	"github.com/pdiddy/expertise-profiler/internal/harvest"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch publications from OpenAlex or arXiv",
	Long: `Harvest fetches works from OpenAlex (by author ID or free-text search) or
arXiv (by author name or free-text search) and writes them as a file that
ingest can read: the native publications layout, or a CSL-YAML
bibliography with --format csl. With --ingest the works are merged into
profiles directly.

Set harvest.email or .secrets/openalex-email to use the OpenAlex polite pool.`,
	RunE: runHarvest,
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	authorID, _ := cmd.Flags().GetString("author")
	authorName, _ := cmd.Flags().GetString("author-name")
	search, _ := cmd.Flags().GetString("search")
	since, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("max-results")
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "csl" {
		return fmt.Errorf("unknown format %q (want yaml or csl)", format)
	}

	q := harvest.Query{AuthorID: authorID, Author: authorName, Search: search, MaxResults: limit}
	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return fmt.Errorf("invalid --since %q: want YYYY-MM-DD", since)
		}
		q.Since = t
	}

	hcfg := cfg.Harvest
	hcfg.Email = openAlexEmail(hcfg)
	ctx := context.Background()
	h, err := harvest.New(hcfg)
	if err != nil {
		return err
	}
	pubs, err := h.Works(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "fetched %d publication(s)\n", len(pubs))

	if doIngest, _ := cmd.Flags().GetBool("ingest"); doIngest {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		engine, err := newEngine(cfg, store)
		if err != nil {
			return err
		}
		summary, err := engine.IngestBatch(ctx, pubs, os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d publication(s) failed ingestion", summary.Failed)
		}
		return nil
	}

	var w io.Writer = os.Stdout
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	if format == "csl" {
		return expertise.EncodeCSL(w, pubs)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(expertise.PublicationFile{Publications: pubs}); err != nil {
		return fmt.Errorf("writing publications: %w", err)
	}
	return enc.Close()
}

func init() {
	harvestCmd.Flags().String("author", "", "OpenAlex author ID (e.g. A5023888391)")
	harvestCmd.Flags().String("author-name", "", "author name (arXiv)")
	harvestCmd.Flags().String("source", "", "publication source: openalex or arxiv (default: harvest.source)")
	harvestCmd.Flags().String("format", "yaml", "output format: yaml or csl")
	harvestCmd.Flags().String("search", "", "free-text search over titles and abstracts")
	harvestCmd.Flags().String("since", "", "only works published on or after this date (YYYY-MM-DD)")
	harvestCmd.Flags().Int("max-results", 0, "maximum works to fetch (default: harvest.max_results)")
	harvestCmd.Flags().StringP("output", "o", "", "write the publications file here instead of stdout")
	harvestCmd.Flags().Bool("ingest", false, "merge the fetched works into profiles instead of writing them")

	viper.BindPFlag("harvest.source", harvestCmd.Flags().Lookup("source"))

	rootCmd.AddCommand(harvestCmd)
}
