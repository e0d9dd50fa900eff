// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the concept taxonomy",
}

var taxonomyExpandCmd = &cobra.Command{
	Use:   "expand <label>",
	Short: "Print a label and its broader concepts, nearest first",
	Long: `Expand resolves a label against the configured taxonomy (preferred labels
first, then alternate labels, ignoring case) and prints the chain of broader
concepts with the distance of each. An unknown label prints only itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaxonomyExpand,
}

func runTaxonomyExpand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	if cfg.Taxonomy.Path == "" {
		return fmt.Errorf("no taxonomy configured: set taxonomy.path or pass --taxonomy")
	}
	tax, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}

	label := strings.Join(args, " ")
	chain := tax.FindSuperclasses(label)
	for dist, l := range chain {
		fmt.Printf("%2d  %s\n", dist, l)
	}
	if len(chain) == 1 {
		if _, ok := tax.Resolve(label); !ok {
			fmt.Println("(not in taxonomy)")
		}
	}
	return nil
}

func init() {
	taxonomyCmd.AddCommand(taxonomyExpandCmd)
	rootCmd.AddCommand(taxonomyCmd)
}
