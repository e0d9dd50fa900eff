// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/profile"
)

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "Inspect ingested publications",
}

var publicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested publications in ingestion order",
	RunE:  runPublicationsList,
}

func runPublicationsList(cmd *cobra.Command, args []string) error {
	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	pubs, total, err := store.ListPublications(context.Background(), profile.ListOptions{Offset: (page - 1) * size, Limit: size})
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Println("No publications.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-50s  %s\n", "ID", "Date", "Title", "Authors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, p := range pubs {
		names := make([]string, len(p.Authors))
		for i, a := range p.Authors {
			names[i] = a.Name.String()
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-10s  %-50s  %s\n", p.ID, p.Date, truncate(p.Title, 50), strings.Join(names, ", "))
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d publications\n", len(pubs), total)
	return nil
}

var publicationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a publication with its authors",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublicationsShow,
}

func runPublicationsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid publication id %q", args[0])
	}

	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	pub, err := store.GetPublication(context.Background(), id)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pub)
	}

	fmt.Printf("%s (id %d, %s)\n", pub.Title, pub.ID, pub.Date)
	for _, a := range pub.Authors {
		fmt.Printf("  - %s\n", a.Name.String())
	}
	if pub.Abstract != "" {
		fmt.Printf("\n%s\n", pub.Abstract)
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print profile store counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(loadConfig(viper.GetViper()))
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Data dir:     %s\n", store.DataDir())
		fmt.Printf("Profiles:     %d\n", st.Profiles)
		fmt.Printf("Publications: %d\n", st.Publications)
		fmt.Printf("Keywords:     %d\n", st.Keywords)
		return nil
	},
}

func init() {
	publicationsListCmd.Flags().Int("page", 1, "page (1-based)")
	publicationsListCmd.Flags().Int("page-size", 20, "publications per page")
	publicationsShowCmd.Flags().Bool("json", false, "output as JSON")

	publicationsCmd.AddCommand(publicationsListCmd, publicationsShowCmd)
	rootCmd.AddCommand(publicationsCmd, statsCmd)
}
