// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/rank"
	"github.com/pdiddy/expertise-profiler/pkg/types"
)

const topKeywords = 5

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank expertise profiles against a free-text query",
	Long: `Search extracts keyword phrases from the query and ranks every profile that
holds at least one of them by the summed weight of the matching keywords.
A query with no extractable keywords returns no results.

With search.field_filter enabled, query phrases that name a known first name,
last name, department, faculty or campus narrow the results to profiles with
that value.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// searchPage is the JSON projection of one result page.
type searchPage struct {
	Query   string         `json:"query"`
	Page    int            `json:"page"`
	Total   int            `json:"total"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email,omitempty"`
	Faculty     string                `json:"faculty,omitempty"`
	Department  string                `json:"department,omitempty"`
	Campus      string                `json:"campus,omitempty"`
	Score       float64               `json:"score"`
	TopKeywords []types.KeywordWeight `json:"top_keywords"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	query := strings.Join(args, " ")
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")
	if size <= 0 {
		size = cfg.Search.PageSize
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

	results, err := engine.Search(context.Background(), query)
	if err != nil {
		return err
	}
	paged, total := rank.Paginate(results, page, size)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		out := searchPage{Query: query, Page: page, Total: total, Results: make([]searchResult, len(paged))}
		for i, r := range paged {
			p := r.Profile
			out.Results[i] = searchResult{
				ID: p.ID, Name: p.Name.String(), Email: p.Email,
				Faculty: p.Faculty, Department: p.Department, Campus: p.Campus,
				Score: r.Score, TopKeywords: p.TopKeywords(topKeywords),
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if total == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-28s  %-24s  %s\n", "Rank", "Score", "Name", "Department", "Top keywords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	offset := (max(page, 1) - 1) * size
	for i, r := range paged {
		fmt.Fprintf(os.Stdout, "%-4d  %-8.2f  %-28s  %-24s  %s\n",
			offset+i+1, r.Score, truncate(r.Profile.Name.String(), 28),
			truncate(r.Profile.Department, 24), keywordList(r.Profile.TopKeywords(topKeywords)))
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d results\n", len(paged), total)
	return nil
}

func keywordList(kws []types.KeywordWeight) string {
	parts := make([]string, len(kws))
	for i, k := range kws {
		parts[i] = k.Keyword
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	searchCmd.Flags().Int("page", 1, "result page (1-based)")
	searchCmd.Flags().Int("page-size", 0, "results per page (default: search.page_size)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("field-filter", false, "narrow results by names and departments in the query")
	viper.BindPFlag("search.field_filter", searchCmd.Flags().Lookup("field-filter"))

	rootCmd.AddCommand(searchCmd)
}
