// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared record and configuration types exchanged
// between pipeline stages through the store.
package types

import "time"

// Megajournal identifies a journal search adapter.
type Megajournal string

const (
	JournalBMJ         Megajournal = "bmj"
	JournalF1000       Megajournal = "f1000"
	JournalFrontiersIn Megajournal = "frontiersin"
	JournalPLOS        Megajournal = "plos"
	JournalNature      Megajournal = "nature"
)

// Journals lists the megajournals accepted by the search stage, in the order
// they are documented. The first entry is the default.
var Journals = []Megajournal{JournalBMJ, JournalF1000, JournalFrontiersIn, JournalPLOS}

// Search is one persisted search request/response pair. Identity is the
// (megajournal, keyword, year, page) tuple; _id is assigned by the store.
type Search struct {
	ID          int64
	Timestamp   time.Time
	Megajournal Megajournal
	Keyword     string
	Year        int
	Page        int
	URL         string
	Status      int
	Body        string
}

// Article is one discovered article. DOI is stored in canonical bare form
// (no https://doi.org/ prefix) and is unique across the articles table.
// SearchID links the article back to the search that first discovered it.
type Article struct {
	ID          int64
	DOI         string
	Title       string
	Megajournal Megajournal
	Journal     string
	SearchID    int64
}

// OpenAlexRecord is one enrichment result for a DOI. Topic0..Topic2 hold up
// to three field display names in the order OpenAlex returned them; missing
// positions are empty strings stored as NULL. JSONData is the opaque full
// work record.
type OpenAlexRecord struct {
	ID           int64
	Timestamp    time.Time
	DOI          string
	CitedByCount int
	IsOA         bool
	OAURL        string
	Topic0       string
	Topic1       string
	Topic2       string
	JSONData     string
}

// FullText is one acquired JATS document.
type FullText struct {
	ID  int64
	DOI string
	XML string
}

// MarkdownDoc is the Markdown form of one article.
type MarkdownDoc struct {
	ID       int64
	DOI      string
	Markdown string
}

// Prompt is one seeded system prompt. Tag is the stable key used by the
// analyze stage; JSONDump is the prompt's structured self-description.
type Prompt struct {
	ID       int64
	Tag      string
	Text     string
	JSONDump string
}

// AnalysisRow is one raw LLM response for a (DOI, prompt tag) pair. After
// the normalize stage, ModelResponse holds the canonical JSON shape for the
// tag instead of the raw model output.
type AnalysisRow struct {
	ID            int64
	DOI           string
	PromptTag     string
	ModelResponse string
	Reasoning     string
	Seconds       float64
}
