// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/expertise"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or directories...]",
	Short: "Merge publications into author expertise profiles",
	Long: `Ingest reads publications from YAML or JSON files (a publications: list, a
bare list, a single publication or a CSL bibliography as exported by
reference managers) and merges their weighted keywords into
the profile of every author. Directories are walked for .yaml, .yml and .json
files. Profiles are created on first sight of an author.

A publication with an unparseable date or an author without a name is
reported and skipped; nothing from it is stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	pubs, err := expertise.LoadPublications(args)
	if err != nil {
		return err
	}
	if len(pubs) == 0 {
		fmt.Println("No publications found.")
		return nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := newEngine(cfg, store)
	if err != nil {
		return err
	}

	summary, err := engine.IngestBatch(context.Background(), pubs, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d publication(s) failed ingestion", summary.Failed)
	}
	return nil
}

func init() {
	ingestCmd.Flags().Int("workers", 0, "analysis worker pool size (default: number of CPUs)")
	viper.BindPFlag("ingest.workers", ingestCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(ingestCmd)
}
