// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists every pipeline stage's input and output in a single
// SQLite database. Each table carries an auto-incremented _id plus a unique
// index on its natural identity, so appends rebase past the current maximum
// and re-runs insert zero duplicate rows.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ptm-survey/internal/prompts"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// Store manages the pipeline SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and creates any missing tables.
// The schema is never migrated; a schema change is a new table name.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the engine handle for callers that need raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS _years (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			year INTEGER NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS _search_keywords (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS _llm_prompts (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			tag TEXT NOT NULL UNIQUE,
			prompt TEXT NOT NULL,
			json_dump TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS _openalex_natural_science_fields (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			field TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			megajournal TEXT NOT NULL,
			keyword TEXT NOT NULL,
			year INTEGER NOT NULL,
			page INTEGER NOT NULL,
			url TEXT NOT NULL,
			status INTEGER NOT NULL,
			body TEXT NOT NULL,
			UNIQUE(megajournal, keyword, year, page)
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT NOT NULL UNIQUE,
			title TEXT,
			megajournal TEXT NOT NULL,
			journal TEXT,
			search_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS openalex (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			doi TEXT NOT NULL,
			cited_by_count INTEGER NOT NULL,
			is_oa INTEGER NOT NULL,
			oa_url TEXT,
			topic_0 TEXT,
			topic_1 TEXT,
			topic_2 TEXT,
			json_data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS natural_science_article_dois (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS jats (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT NOT NULL UNIQUE,
			xml TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS markdown (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT NOT NULL UNIQUE,
			markdown TEXT NOT NULL
		)`,
	}

	for _, tag := range prompts.Tags() {
		statements = append(statements, fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s_analysis (
				_id INTEGER PRIMARY KEY AUTOINCREMENT,
				doi TEXT NOT NULL UNIQUE,
				prompt_tag TEXT NOT NULL,
				model_response TEXT NOT NULL,
				reasoning TEXT NOT NULL,
				seconds REAL NOT NULL
			)`, tag))
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// knownTables guards LastID against arbitrary table names.
func knownTables() map[string]bool {
	tables := map[string]bool{
		"_years": true, "_search_keywords": true, "_llm_prompts": true,
		"_openalex_natural_science_fields": true,
		"searches":                         true,
		"articles":                         true,
		"openalex":                         true,
		"natural_science_article_dois":     true,
		"jats":                             true,
		"markdown":                         true,
	}
	for _, tag := range prompts.Tags() {
		tables[tag+"_analysis"] = true
	}
	return tables
}

// LastID returns the maximum _id in the named table, or 0 when empty.
func (s *Store) LastID(table string) (int64, error) {
	if !knownTables()[table] {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var id sql.NullInt64
	err := s.db.QueryRow(fmt.Sprintf(`SELECT MAX(_id) FROM %s`, table)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("reading last id of %s: %w", table, err)
	}
	if !id.Valid {
		return 0, nil
	}
	return id.Int64, nil
}

// AnalysisTable returns the table name holding responses for a prompt tag.
func AnalysisTable(tag string) string {
	return tag + "_analysis"
}

// --- searches ---

// AppendSearches inserts search rows, skipping pairs already present. Rows
// are written in (megajournal, keyword, year, page) order. A 2xx row
// replaces a previously persisted failure for the same page, so a resumed
// crawl can repair transient errors; a 2xx row already present is never
// overwritten. Returns the number of rows actually inserted.
func (s *Store) AppendSearches(ctx context.Context, rows []types.Search) (int, error) {
	sorted := make([]types.Search, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Megajournal != b.Megajournal {
			return a.Megajournal < b.Megajournal
		}
		if a.Keyword != b.Keyword {
			return a.Keyword < b.Keyword
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Page < b.Page
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO searches (timestamp, megajournal, keyword, year, page, url, status, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	evict, err := tx.PrepareContext(ctx,
		`DELETE FROM searches WHERE megajournal = ? AND keyword = ? AND year = ? AND page = ?
		 AND (status < 200 OR status > 299)`)
	if err != nil {
		return 0, fmt.Errorf("preparing failed-row eviction: %w", err)
	}
	defer evict.Close()

	inserted := 0
	for _, r := range sorted {
		if r.Status >= 200 && r.Status <= 299 {
			if _, err := evict.ExecContext(ctx,
				string(r.Megajournal), r.Keyword, r.Year, r.Page); err != nil {
				return inserted, fmt.Errorf("evicting failed search %s/%q/%d/%d: %w",
					r.Megajournal, r.Keyword, r.Year, r.Page, err)
			}
		}
		res, err := stmt.ExecContext(ctx,
			r.Timestamp.UTC().Format(time.RFC3339), string(r.Megajournal),
			r.Keyword, r.Year, r.Page, r.URL, r.Status, r.Body)
		if err != nil {
			return inserted, fmt.Errorf("inserting search %s/%q/%d/%d: %w",
				r.Megajournal, r.Keyword, r.Year, r.Page, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, tx.Commit()
}

// HasSearch reports whether a (megajournal, keyword, year, page) row with a
// 2xx status exists. Rows persisted for failed fetches do not count, so a
// resumed crawl retries them.
func (s *Store) HasSearch(ctx context.Context, journal types.Megajournal, keyword string, year, page int) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM searches WHERE megajournal = ? AND keyword = ? AND year = ? AND page = ?
		 AND status >= 200 AND status <= 299`,
		string(journal), keyword, year, page).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking search row: %w", err)
	}
	return n > 0, nil
}

// ListSearches returns all search rows for one megajournal in _id order.
func (s *Store) ListSearches(ctx context.Context, journal types.Megajournal) ([]types.Search, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT _id, timestamp, megajournal, keyword, year, page, url, status, body
		 FROM searches WHERE megajournal = ? ORDER BY _id`, string(journal))
	if err != nil {
		return nil, fmt.Errorf("listing searches: %w", err)
	}
	defer rows.Close()

	var out []types.Search
	for rows.Next() {
		var r types.Search
		var ts, mj string
		if err := rows.Scan(&r.ID, &ts, &mj, &r.Keyword, &r.Year, &r.Page, &r.URL, &r.Status, &r.Body); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		r.Megajournal = types.Megajournal(mj)
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- articles ---

// AppendArticles inserts article rows, keeping the first row per DOI.
// Returns the number of rows actually inserted.
func (s *Store) AppendArticles(ctx context.Context, rows []types.Article) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO articles (doi, title, megajournal, journal, search_id)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range rows {
		res, err := stmt.ExecContext(ctx, a.DOI, a.Title, string(a.Megajournal), a.Journal, a.SearchID)
		if err != nil {
			return inserted, fmt.Errorf("inserting article %s: %w", a.DOI, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, tx.Commit()
}

// ListArticles returns all article rows in _id order.
func (s *Store) ListArticles(ctx context.Context) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT _id, doi, title, megajournal, journal, search_id FROM articles ORDER BY _id`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var out []types.Article
	for rows.Next() {
		var a types.Article
		var mj string
		var title, journal sql.NullString
		var searchID sql.NullInt64
		if err := rows.Scan(&a.ID, &a.DOI, &title, &mj, &journal, &searchID); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		a.Title = title.String
		a.Journal = journal.String
		a.SearchID = searchID.Int64
		a.Megajournal = types.Megajournal(mj)
		out = append(out, a)
	}
	return out, rows.Err()
}

// DOIsMissingOpenAlex returns the sorted article DOIs with no openalex row.
func (s *Store) DOIsMissingOpenAlex(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doi FROM articles WHERE doi NOT IN (SELECT doi FROM openalex) ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("listing unenriched DOIs: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// --- openalex ---

// AppendOpenAlex appends enrichment rows in DOI-sorted order. The table is
// append-only: later batches never mutate earlier rows.
func (s *Store) AppendOpenAlex(ctx context.Context, rows []types.OpenAlexRecord) error {
	sorted := make([]types.OpenAlexRecord, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DOI < sorted[j].DOI })

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO openalex (timestamp, doi, cited_by_count, is_oa, oa_url, topic_0, topic_1, topic_2, json_data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range sorted {
		_, err := stmt.ExecContext(ctx,
			r.Timestamp.UTC().Format(time.RFC3339), r.DOI, r.CitedByCount,
			boolToInt(r.IsOA), nullable(r.OAURL),
			nullable(r.Topic0), nullable(r.Topic1), nullable(r.Topic2), r.JSONData)
		if err != nil {
			return fmt.Errorf("inserting openalex row %s: %w", r.DOI, err)
		}
	}
	return tx.Commit()
}

// ListOpenAlex returns the latest openalex row per DOI, in DOI order.
func (s *Store) ListOpenAlex(ctx context.Context) ([]types.OpenAlexRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT _id, timestamp, doi, cited_by_count, is_oa, oa_url, topic_0, topic_1, topic_2, json_data
		 FROM openalex
		 WHERE _id IN (SELECT MAX(_id) FROM openalex GROUP BY doi)
		 ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("listing openalex rows: %w", err)
	}
	defer rows.Close()

	var out []types.OpenAlexRecord
	for rows.Next() {
		var r types.OpenAlexRecord
		var ts string
		var isOA int
		var oaURL, t0, t1, t2 sql.NullString
		if err := rows.Scan(&r.ID, &ts, &r.DOI, &r.CitedByCount, &isOA, &oaURL, &t0, &t1, &t2, &r.JSONData); err != nil {
			return nil, fmt.Errorf("scanning openalex row: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		r.IsOA = isOA != 0
		r.OAURL = oaURL.String
		r.Topic0, r.Topic1, r.Topic2 = t0.String, t1.String, t2.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- natural science DOIs ---

// RebuildNaturalScience makes the natural_science_article_dois table the
// exact image of the qualifying DOI set: missing DOIs are appended in sorted
// order and rows that no longer qualify are removed. When the set is
// unchanged no rows are touched.
func (s *Store) RebuildNaturalScience(ctx context.Context, dois []string) (added, removed int, err error) {
	want := make(map[string]bool, len(dois))
	for _, d := range dois {
		want[d] = true
	}

	current, err := s.ListNaturalScienceDOIs(ctx)
	if err != nil {
		return 0, 0, err
	}
	have := make(map[string]bool, len(current))
	for _, d := range current {
		have[d] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range current {
		if !want[d] {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM natural_science_article_dois WHERE doi = ?`, d); err != nil {
				return added, removed, fmt.Errorf("removing %s: %w", d, err)
			}
			removed++
		}
	}

	sorted := make([]string, len(dois))
	copy(sorted, dois)
	sort.Strings(sorted)
	for _, d := range sorted {
		if have[d] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO natural_science_article_dois (doi) VALUES (?)`, d); err != nil {
			return added, removed, fmt.Errorf("inserting %s: %w", d, err)
		}
		added++
	}
	return added, removed, tx.Commit()
}

// ListNaturalScienceDOIs returns the qualifying DOIs in sorted order.
func (s *Store) ListNaturalScienceDOIs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doi FROM natural_science_article_dois ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("listing natural science DOIs: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// --- jats / markdown ---

// FullTextCandidate is one natural-science article still missing its JATS row.
type FullTextCandidate struct {
	DOI         string
	Megajournal types.Megajournal
	OAURL       string
}

// ListFullTextCandidates returns the natural-science DOIs without a jats
// row, joined with their megajournal and latest open-access URL, sorted by DOI.
func (s *Store) ListFullTextCandidates(ctx context.Context) ([]FullTextCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT n.doi, a.megajournal, COALESCE(o.oa_url, '')
		 FROM natural_science_article_dois n
		 JOIN articles a ON a.doi = n.doi
		 LEFT JOIN openalex o ON o._id = (SELECT MAX(_id) FROM openalex WHERE doi = n.doi)
		 WHERE n.doi NOT IN (SELECT doi FROM jats)
		 ORDER BY n.doi`)
	if err != nil {
		return nil, fmt.Errorf("listing full-text candidates: %w", err)
	}
	defer rows.Close()

	var out []FullTextCandidate
	for rows.Next() {
		var c FullTextCandidate
		var mj string
		if err := rows.Scan(&c.DOI, &mj, &c.OAURL); err != nil {
			return nil, fmt.Errorf("scanning candidate row: %w", err)
		}
		c.Megajournal = types.Megajournal(mj)
		out = append(out, c)
	}
	return out, rows.Err()
}

// AppendJATS inserts JATS rows in DOI-sorted order, skipping present DOIs.
func (s *Store) AppendJATS(ctx context.Context, rows []types.FullText) (int, error) {
	sorted := make([]types.FullText, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DOI < sorted[j].DOI })

	inserted := 0
	for _, r := range sorted {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO jats (doi, xml) VALUES (?, ?)`, r.DOI, r.XML)
		if err != nil {
			return inserted, fmt.Errorf("inserting jats row %s: %w", r.DOI, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// ListJATSMissingMarkdown returns the JATS rows without a markdown row,
// sorted by DOI.
func (s *Store) ListJATSMissingMarkdown(ctx context.Context) ([]types.FullText, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT _id, doi, xml FROM jats WHERE doi NOT IN (SELECT doi FROM markdown) ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("listing unconverted jats rows: %w", err)
	}
	defer rows.Close()

	var out []types.FullText
	for rows.Next() {
		var r types.FullText
		if err := rows.Scan(&r.ID, &r.DOI, &r.XML); err != nil {
			return nil, fmt.Errorf("scanning jats row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AppendMarkdown inserts Markdown rows in DOI-sorted order, skipping
// present DOIs.
func (s *Store) AppendMarkdown(ctx context.Context, rows []types.MarkdownDoc) (int, error) {
	sorted := make([]types.MarkdownDoc, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DOI < sorted[j].DOI })

	inserted := 0
	for _, r := range sorted {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO markdown (doi, markdown) VALUES (?, ?)`, r.DOI, r.Markdown)
		if err != nil {
			return inserted, fmt.Errorf("inserting markdown row %s: %w", r.DOI, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// ListMarkdown returns all markdown rows sorted by DOI.
func (s *Store) ListMarkdown(ctx context.Context) ([]types.MarkdownDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT _id, doi, markdown FROM markdown ORDER BY doi`)
	if err != nil {
		return nil, fmt.Errorf("listing markdown rows: %w", err)
	}
	defer rows.Close()

	var out []types.MarkdownDoc
	for rows.Next() {
		var r types.MarkdownDoc
		if err := rows.Scan(&r.ID, &r.DOI, &r.Markdown); err != nil {
			return nil, fmt.Errorf("scanning markdown row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- analysis ---

// HasAnalysis reports whether a response row exists for (tag, doi).
func (s *Store) HasAnalysis(ctx context.Context, tag, doi string) (bool, error) {
	table := AnalysisTable(tag)
	if !knownTables()[table] {
		return false, fmt.Errorf("unknown prompt tag %q", tag)
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE doi = ?`, table), doi).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking analysis row: %w", err)
	}
	return n > 0, nil
}

// AppendAnalysis inserts one response row. Present DOIs are skipped.
func (s *Store) AppendAnalysis(ctx context.Context, row types.AnalysisRow) error {
	table := AnalysisTable(row.PromptTag)
	if !knownTables()[table] {
		return fmt.Errorf("unknown prompt tag %q", row.PromptTag)
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT OR IGNORE INTO %s (doi, prompt_tag, model_response, reasoning, seconds)
		 VALUES (?, ?, ?, ?, ?)`, table),
		row.DOI, row.PromptTag, row.ModelResponse, row.Reasoning, row.Seconds)
	if err != nil {
		return fmt.Errorf("inserting analysis row %s/%s: %w", row.PromptTag, row.DOI, err)
	}
	return nil
}

// DeleteAnalysis removes the response row for (tag, doi). Used by the
// analyze stage's explicit reprocess mode.
func (s *Store) DeleteAnalysis(ctx context.Context, tag, doi string) error {
	table := AnalysisTable(tag)
	if !knownTables()[table] {
		return fmt.Errorf("unknown prompt tag %q", tag)
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE doi = ?`, table), doi)
	if err != nil {
		return fmt.Errorf("deleting analysis row %s/%s: %w", tag, doi, err)
	}
	return nil
}

// ListAnalysis returns all response rows for a tag, sorted by DOI.
func (s *Store) ListAnalysis(ctx context.Context, tag string) ([]types.AnalysisRow, error) {
	table := AnalysisTable(tag)
	if !knownTables()[table] {
		return nil, fmt.Errorf("unknown prompt tag %q", tag)
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT _id, doi, prompt_tag, model_response, reasoning, seconds FROM %s ORDER BY doi`, table))
	if err != nil {
		return nil, fmt.Errorf("listing analysis rows: %w", err)
	}
	defer rows.Close()

	var out []types.AnalysisRow
	for rows.Next() {
		var r types.AnalysisRow
		if err := rows.Scan(&r.ID, &r.DOI, &r.PromptTag, &r.ModelResponse, &r.Reasoning, &r.Seconds); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateAnalysisResponse rewrites the model_response column of one row.
// This is the single sanctioned in-place update in the schema, reserved for
// the normalize stage's re-derivation.
func (s *Store) UpdateAnalysisResponse(ctx context.Context, tag string, id int64, response string) error {
	table := AnalysisTable(tag)
	if !knownTables()[table] {
		return fmt.Errorf("unknown prompt tag %q", tag)
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET model_response = ? WHERE _id = ?`, table), response, id)
	if err != nil {
		return fmt.Errorf("updating analysis row %d: %w", id, err)
	}
	return nil
}

// --- helpers ---

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
