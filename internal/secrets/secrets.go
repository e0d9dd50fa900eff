// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files.
// The file name is the key and the trimmed file contents are the value, so
// .secrets/openalex-email holds the contact address sent to OpenAlex.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// OpenAlexEmail is the key for the OpenAlex polite-pool contact address.
const OpenAlexEmail = "openalex-email"

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable files are logged and skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := Secrets{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("secrets: skipping unreadable file", "name", name, "err", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Lookup returns the value for key, falling back to the environment
// variable EXPERTISE_<KEY> with dashes turned into underscores.
func (s Secrets) Lookup(key string) (string, bool) {
	if v, ok := s[key]; ok {
		return v, true
	}
	env := "EXPERTISE_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, true
	}
	return "", false
}
