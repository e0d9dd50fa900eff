// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Curate keywords across all profiles",
}

var keywordsDeleteCmd = &cobra.Command{
	Use:   "delete <keyword>...",
	Short: "Remove keywords from every profile",
	Long: `Delete removes the given keyword phrases from every profile. Use it for
extraction noise that should not count as expertise. Later ingests can add
the phrases again; add them to the stopwords file to keep them out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeywordsDelete,
}

func runKeywordsDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DeleteKeywords(context.Background(), args...)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d keyword mapping(s)\n", n)
	return nil
}

func init() {
	keywordsCmd.AddCommand(keywordsDeleteCmd)
	rootCmd.AddCommand(keywordsCmd)
}
