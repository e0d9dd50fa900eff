// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/analyze"
	"github.com/pdiddy/expertise-profiler/internal/expertise"
	"github.com/pdiddy/expertise-profiler/internal/weighting"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Show the keyword phrases extracted from text",
	Long: `Extract runs the text analyzer on its arguments and prints one keyword
phrase per line in source order. With --weights it also expands each phrase
through the taxonomy and prints the weighted contributions a publication of
that text would add to its authors' profiles. Nothing is stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	text := strings.Join(args, " ")

	an, err := analyze.FromConfig(cfg.Analyzer)
	if err != nil {
		return err
	}
	if withWeights, _ := cmd.Flags().GetBool("weights"); !withWeights {
		for _, kw := range an.ExtractKeywords(text) {
			fmt.Println(kw)
		}
		return nil
	}

	tax, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}
	// Deltas never touches the store.
	engine := expertise.New(an, tax, weighting.FromConfig(cfg.Weighting), nil)

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	deltas, err := engine.Deltas(types.Publication{Title: text, Date: strconv.Itoa(year)})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(deltas)
	}
	fmt.Fprintf(os.Stdout, "%-8s  %-4s  %-32s  %s\n", "Weight", "Dist", "Keyword", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, d := range deltas {
		fmt.Fprintf(os.Stdout, "%-8.2f  %-4d  %-32s  %s\n", d.Weight, d.Distance, truncate(d.Keyword, 32), d.Source)
	}
	return nil
}

func init() {
	extractCmd.Flags().Bool("weights", false, "expand and weight the extracted phrases")
	extractCmd.Flags().Int("year", 0, "publication year used for recency weighting (default: this year)")
	extractCmd.Flags().Bool("json", false, "output weighted keywords as JSON")

	rootCmd.AddCommand(extractCmd)
}
