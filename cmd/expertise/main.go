// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the expertise CLI: it ingests
// publications into author expertise profiles and ranks profiles against
// free-text queries.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/expertise-profiler/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// logFile is closed when the command finishes.
var logFile io.Closer

var rootCmd = &cobra.Command{
	Use:   "expertise",
	Short: "Build and search expertise profiles from publications",
	Long: `expertise builds an expertise profile for every author of the publications
it ingests. Keyword phrases are extracted from titles and abstracts, expanded
through a concept taxonomy and weighted by publication age and taxonomic
distance. Search ranks profiles by the summed weight of the keywords a query
shares with them.

Configuration is read from expertise.yaml in the working directory or
~/.config/expertise/, and from EXPERTISE_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./expertise.yaml or ~/.config/expertise/expertise.yaml)")
	pf.String("data-dir", "", "directory holding the profile database (default: data)")
	pf.String("taxonomy", "", "taxonomy file (.yaml, .yml, .xml or .rdf)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.String("log-file", "", "write logs to this file instead of stderr")

	viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("taxonomy.path", pf.Lookup("taxonomy"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("expertise")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "expertise"))
		}
	}

	viper.SetEnvPrefix("EXPERTISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs the default slog handler from --log-level and
// --log-file.
func setupLogging(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --log-level %q: use debug, info, warn or error", levelName)
	}

	var w io.Writer = os.Stderr
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		w = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
