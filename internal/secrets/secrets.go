// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files,
// one secret per file: the filename is the key and the trimmed contents are
// the value. Values never pass through flags or the environment, so they
// stay out of shell history and process listings.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key files the pipeline reads.
const (
	KeyBackendAPI    = "backend_api_key"
	KeyOpenAlexEmail = "openalex_email"
)

// Store maps secret keys to their values.
type Store map[string]string

// BackendAPIKey returns the inference backend's bearer token, or "".
func (s Store) BackendAPIKey() string { return s[KeyBackendAPI] }

// OpenAlexEmail returns the polite-pool contact address, or "".
func (s Store) OpenAlexEmail() string { return s[KeyOpenAlexEmail] }

// Keys returns the loaded key names, sorted. Values are never listed.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty Store; an unreadable file warns on stderr and is skipped;
// blank files are ignored.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	loaded := Store{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		value, err := readSecret(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value != "" {
			loaded[name] = value
		}
	}
	return loaded, nil
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
