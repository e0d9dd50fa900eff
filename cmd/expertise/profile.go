// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/profile"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and curate expertise profiles",
}

// --- show subcommand ---

var profileShowCmd = &cobra.Command{
	Use:   "show <id | first last>",
	Short: "Show a profile with its keywords and publications",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProfileShow,
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := resolveProfile(context.Background(), store, args)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	limit, _ := cmd.Flags().GetInt("keywords")
	fmt.Printf("%s (id %d)\n", p.Name.String(), p.ID)
	for _, f := range []struct{ label, value string }{
		{"Email", p.Email}, {"Faculty", p.Faculty}, {"Department", p.Department},
		{"Campus", p.Campus}, {"Building", p.Building}, {"Room", p.Room}, {"Website", p.Website},
	} {
		if f.value != "" {
			fmt.Printf("  %-11s %s\n", f.label+":", f.value)
		}
	}

	fmt.Printf("\nKeywords (%d):\n", len(p.Keywords))
	for _, kw := range p.TopKeywords(limit) {
		fmt.Printf("  %8.2f  %s\n", kw.Weight, kw.Keyword)
	}
	fmt.Printf("\nPublications (%d):\n", len(p.Publications))
	for _, pub := range p.Publications {
		fmt.Printf("  %-10s  %s\n", pub.Date, pub.Title)
	}
	return nil
}

// resolveProfile accepts a numeric ID or a name.
func resolveProfile(ctx context.Context, store *profile.Store, args []string) (types.Profile, error) {
	if len(args) == 1 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
			return store.Get(ctx, id)
		}
	}
	words := strings.Fields(strings.Join(args, " "))
	rec := types.AuthorRecord{}
	if len(words) == 1 {
		rec.Name.Alias = words[0]
	} else {
		rec.Name.First = strings.Join(words[:len(words)-1], " ")
		rec.Name.Last = words[len(words)-1]
	}
	return store.Lookup(ctx, rec)
}

// --- list subcommand ---

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE:  runProfileList,
}

func runProfileList(cmd *cobra.Command, args []string) error {
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

	profiles, total, err := store.List(context.Background(), profile.ListOptions{Offset: (page - 1) * size, Limit: size})
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Println("No profiles.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-28s  %-24s  %-8s  %s\n", "ID", "Name", "Department", "Keywords", "Top keywords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, p := range profiles {
		fmt.Fprintf(os.Stdout, "%-6d  %-28s  %-24s  %-8d  %s\n",
			p.ID, truncate(p.Name.String(), 28), truncate(p.Department, 24),
			len(p.Keywords), keywordList(p.TopKeywords(topKeywords)))
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d profiles\n", len(profiles), total)
	return nil
}

// --- add-keywords subcommand ---

var profileAddKeywordsCmd = &cobra.Command{
	Use:   "add-keywords <id> <keyword=weight>...",
	Short: "Set keyword weights on a profile",
	Long: `Add-keywords sets each keyword to the given weight on one profile, replacing
any accumulated weight. A keyword given without "=weight" gets weight 10, the
weight of a fresh, exact keyword occurrence.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runProfileAddKeywords,
}

const manualKeywordWeight = 10

func runProfileAddKeywords(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid profile id %q", args[0])
	}

	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	for _, arg := range args[1:] {
		keyword, weight, err := parseKeywordWeight(arg)
		if err != nil {
			return err
		}
		if err := store.SetKeyword(ctx, id, keyword, weight); err != nil {
			return err
		}
		fmt.Printf("set %q = %.2f on profile %d\n", keyword, weight, id)
	}
	return nil
}

func parseKeywordWeight(arg string) (string, float64, error) {
	keyword, raw, found := strings.Cut(arg, "=")
	if !found {
		return arg, manualKeywordWeight, nil
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid weight in %q: %w", arg, err)
	}
	return keyword, weight, nil
}

// --- remove-keywords subcommand ---

var profileRemoveKeywordsCmd = &cobra.Command{
	Use:   "remove-keywords <id> <keyword>...",
	Short: "Remove keywords from one profile",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runProfileRemoveKeywords,
}

func runProfileRemoveKeywords(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid profile id %q", args[0])
	}

	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.RemoveKeywords(context.Background(), id, args[1:]...)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d keyword(s) from profile %d\n", n, id)
	return nil
}

// --- export subcommand ---

var profileExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all profiles to YAML or JSON",
	RunE:  runProfileExport,
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	ctx := context.Background()
	switch format {
	case "yaml", "":
		err = store.ExportYAML(ctx, w)
	case "json":
		err = store.ExportJSON(ctx, w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}

func init() {
	profileShowCmd.Flags().Int("keywords", 20, "number of keywords to show (0 = all)")
	profileShowCmd.Flags().Bool("json", false, "output the profile as JSON")

	profileListCmd.Flags().Int("page", 1, "page (1-based)")
	profileListCmd.Flags().Int("page-size", 20, "profiles per page")

	profileExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	profileExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileAddKeywordsCmd)
	profileCmd.AddCommand(profileRemoveKeywordsCmd)
	profileCmd.AddCommand(profileExportCmd)

	rootCmd.AddCommand(profileCmd)
}
