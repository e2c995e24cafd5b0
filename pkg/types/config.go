// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ptm-survey/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the retry budget for transient HTTP failures (default 10).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// InitConfig holds settings for the init stage.
type InitConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MinYear is the first search year, lower-bounded at 1999 (default 2015).
	MinYear int `json:"min_year" yaml:"min_year"`

	// MaxYear is the last search year, upper-bounded at the current year
	// (default 2024).
	MaxYear int `json:"max_year" yaml:"max_year"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	DBPath string `json:"db_path" yaml:"db_path"`

	// Journal selects the megajournal adapter (default bmj).
	Journal Megajournal `json:"journal" yaml:"journal"`

	// LegacyEndpoints switches the BMJ and FrontiersIn adapters to their
	// older search URL templates.
	LegacyEndpoints bool `json:"legacy_endpoints" yaml:"legacy_endpoints"`
}

// OpenAlexConfig holds settings for the openalex enrichment stage.
type OpenAlexConfig struct {
	HTTPConfig `yaml:",inline"`

	DBPath string `json:"db_path" yaml:"db_path"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email" yaml:"email"`
}

// JATSConfig holds settings for the full-text acquisition stage.
type JATSConfig struct {
	HTTPConfig `yaml:",inline"`

	DBPath string `json:"db_path" yaml:"db_path"`

	// ArchivePath is the PLOS bulk archive zip. Required when the selected
	// articles include PLOS DOIs.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`
}

// PandocConfig holds settings for the XML-to-Markdown conversion stage.
type PandocConfig struct {
	HTTPConfig `yaml:",inline"`

	DBPath string `json:"db_path" yaml:"db_path"`

	// ConverterURI is the pandoc server endpoint (default http://localhost:3030).
	ConverterURI string `json:"converter_uri" yaml:"converter_uri"`
}

// AnalyzeBackend identifies the LLM inference backend.
type AnalyzeBackend string

const (
	BackendALCF   AnalyzeBackend = "alcf"
	BackendOllama AnalyzeBackend = "ollama"
)

// AnalyzeConfig holds settings for the LLM inference stage.
type AnalyzeConfig struct {
	HTTPConfig `yaml:",inline"`

	DBPath string `json:"db_path" yaml:"db_path"`

	// Backend selects the inference backend: alcf or ollama.
	Backend AnalyzeBackend `json:"backend" yaml:"backend"`

	// Endpoint overrides the backend's chat-completions base URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey is the bearer token for the backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the model identifier sent with each request.
	Model string `json:"model" yaml:"model"`

	// PromptTag selects the system prompt (default uses_dl).
	PromptTag string `json:"prompt_tag" yaml:"prompt_tag"`

	// Index and Stride shard the DOI set: the stage consumes every
	// Stride-th document starting at Index.
	Index  int `json:"index" yaml:"index"`
	Stride int `json:"stride" yaml:"stride"`

	// Reprocess re-runs documents that already have a response row.
	Reprocess bool `json:"reprocess" yaml:"reprocess"`
}

// LoggingConfig holds the zerolog setup.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// Format is the output format: json or console.
	Format string `json:"format" yaml:"format"`
}
