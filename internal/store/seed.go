// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

// Keywords is the canonical search phrase set seeded at init. The strings
// themselves are the keys; adapters quote them per their query encoding.
var Keywords = []string{
	"deep learning",
	"deep neural network",
	"convolutional neural network",
	"recurrent neural network",
	"transformer model",
	"pre-trained model",
	"transfer learning",
}

// NaturalScienceFields is the closed set of OpenAlex field display names
// that count as natural science. Membership is case-sensitive exact match.
var NaturalScienceFields = []string{
	"Agricultural and Biological Sciences",
	"Biochemistry, Genetics and Molecular Biology",
	"Chemistry",
	"Earth and Planetary Sciences",
	"Environmental Science",
	"Immunology and Microbiology",
	"Neuroscience",
	"Physics and Astronomy",
}

// SeedInit populates the constant tables: _years over [minYear, maxYear],
// the keyword set, the natural-science field set, and the prompt catalog.
// Re-running init appends nothing; every insert is keyed on its natural
// identity.
func (s *Store) SeedInit(ctx context.Context, minYear, maxYear int, catalog []types.Prompt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for year := minYear; year <= maxYear; year++ {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO _years (year) VALUES (?)`, year); err != nil {
			return fmt.Errorf("seeding year %d: %w", year, err)
		}
	}

	for _, kw := range Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO _search_keywords (keyword) VALUES (?)`, kw); err != nil {
			return fmt.Errorf("seeding keyword %q: %w", kw, err)
		}
	}

	for _, field := range NaturalScienceFields {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO _openalex_natural_science_fields (field) VALUES (?)`, field); err != nil {
			return fmt.Errorf("seeding field %q: %w", field, err)
		}
	}

	for _, p := range catalog {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO _llm_prompts (tag, prompt, json_dump) VALUES (?, ?, ?)`,
			p.Tag, p.Text, p.JSONDump); err != nil {
			return fmt.Errorf("seeding prompt %q: %w", p.Tag, err)
		}
	}

	return tx.Commit()
}

// Years returns the seeded year set in ascending order.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year FROM _years ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("listing years: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scanning year: %w", err)
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// SearchKeywords returns the seeded keyword set in seed order.
func (s *Store) SearchKeywords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword FROM _search_keywords ORDER BY _id`)
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// FieldSet returns the seeded natural-science field names as a set.
func (s *Store) FieldSet(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT field FROM _openalex_natural_science_fields`)
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	defer rows.Close()

	fields, err := scanStrings(rows)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set, nil
}

// PromptByTag returns the seeded prompt for a tag.
func (s *Store) PromptByTag(ctx context.Context, tag string) (types.Prompt, error) {
	var p types.Prompt
	err := s.db.QueryRowContext(ctx,
		`SELECT _id, tag, prompt, json_dump FROM _llm_prompts WHERE tag = ?`, tag).
		Scan(&p.ID, &p.Tag, &p.Text, &p.JSONDump)
	if err != nil {
		return types.Prompt{}, fmt.Errorf("reading prompt %q: %w", tag, err)
	}
	return p, nil
}

// ListPrompts returns all seeded prompts in seed order.
func (s *Store) ListPrompts(ctx context.Context) ([]types.Prompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT _id, tag, prompt, json_dump FROM _llm_prompts ORDER BY _id`)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	defer rows.Close()

	var out []types.Prompt
	for rows.Next() {
		var p types.Prompt
		if err := rows.Scan(&p.ID, &p.Tag, &p.Text, &p.JSONDump); err != nil {
			return nil, fmt.Errorf("scanning prompt row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
