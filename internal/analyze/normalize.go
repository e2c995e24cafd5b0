// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/ptm-survey/internal/prompts"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

// BoolAnswer is the canonical shape for the boolean prompts.
type BoolAnswer struct {
	Result bool    `json:"result"`
	Prose  *string `json:"prose"`
}

// ModelAnswer is one item of the canonical array shapes. Form, Classification,
// and Step are populated per prompt tag; unused fields are omitted.
type ModelAnswer struct {
	Model          string `json:"model"`
	Form           string `json:"form,omitempty"`
	Classification string `json:"classification,omitempty"`
	Step           string `json:"step,omitempty"`
	Prose          string `json:"prose"`
}

// reuseClassifications is the closed set of values accepted for the
// classification field of identify_ptm_reuse items.
var reuseClassifications = map[string]bool{
	"conceptual_reuse": true,
	"adaptation_reuse": true,
	"deployment_reuse": true,
}

// modelAliases folds known name variants together for aggregation. The
// stored canonical form keeps the model's own spelling; aliases only affect
// CanonicalModelName comparisons.
var modelAliases = map[string]string{
	"deeploc 1.0": "deeploc",
	"deeploc2":    "deeploc",
	"alphafold2":  "alphafold",
	"alphafold 2": "alphafold",
	"esm-2":       "esm2",
	"resnet-50":   "resnet50",
	"bert-base":   "bert",
}

// Normalize coerces one raw model response into the canonical JSON shape
// for the tag. It never fails: unparseable input becomes the tag's empty
// shape. The function is idempotent, so re-normalizing an already
// normalized row returns it unchanged.
func Normalize(tag, raw string) string {
	cleaned := stripFences(raw)
	if isBoolTag(tag) {
		return normalizeBool(cleaned)
	}
	return normalizeArray(tag, cleaned)
}

func isBoolTag(tag string) bool {
	return tag == prompts.TagUsesDL || tag == prompts.TagUsesPTMs
}

// EmptyShape returns the canonical shape recorded when a response cannot
// be parsed.
func EmptyShape(tag string) string {
	if isBoolTag(tag) {
		return `{"result":false,"prose":null}`
	}
	return `[]`
}

func normalizeBool(cleaned string) string {
	var answer BoolAnswer
	if err := json.Unmarshal([]byte(cleaned), &answer); err != nil {
		return EmptyShape(prompts.TagUsesDL)
	}
	if answer.Prose != nil && strings.TrimSpace(*answer.Prose) == "" {
		answer.Prose = nil
	}
	out, err := json.Marshal(answer)
	if err != nil {
		return EmptyShape(prompts.TagUsesDL)
	}
	return string(out)
}

func normalizeArray(tag, cleaned string) string {
	var items []ModelAnswer
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		// Some models wrap the array in an object with a single key.
		items = unwrapArray(cleaned)
		if items == nil {
			return EmptyShape(tag)
		}
	}

	kept := make([]ModelAnswer, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Model)
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		if tag == prompts.TagIdentifyPTMReuse && !reuseClassifications[item.Classification] {
			continue
		}
		kept = append(kept, item)
	}

	out, err := json.Marshal(kept)
	if err != nil {
		return EmptyShape(tag)
	}
	return string(out)
}

// unwrapArray handles responses shaped {"<key>": [ ... ]} with one key.
func unwrapArray(cleaned string) []ModelAnswer {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil || len(wrapper) != 1 {
		return nil
	}
	for _, raw := range wrapper {
		var items []ModelAnswer
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		return items
	}
	return nil
}

// stripFences removes a surrounding Markdown code fence, with or without a
// language tag, and trims whitespace.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if newline := strings.IndexByte(s, '\n'); newline >= 0 {
		// Drop the language tag line, e.g. ```json.
		if strings.TrimSpace(s[:newline]) != "" && !strings.ContainsAny(s[:newline], "{[") {
			s = s[newline+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// CanonicalModelName lowercases a model name and folds known aliases, for
// aggregation across papers. The stored rows are not rewritten with it.
func CanonicalModelName(name string) string {
	folded := strings.ToLower(strings.TrimSpace(name))
	if canonical, known := modelAliases[folded]; known {
		return canonical
	}
	return folded
}

// AnalysisStore is the slice of the store the normalize pass needs.
type AnalysisStore interface {
	ListAnalysis(ctx context.Context, tag string) ([]types.AnalysisRow, error)
	UpdateAnalysisResponse(ctx context.Context, tag string, id int64, response string) error
}

// NormalizeAll rewrites every raw response under the given tags into its
// canonical shape, in place. Rows already in canonical form are left
// untouched, which makes repeated runs no-ops.
func NormalizeAll(ctx context.Context, st AnalysisStore, tags []string, log zerolog.Logger) (updated, unchanged int, err error) {
	for _, tag := range tags {
		rows, err := st.ListAnalysis(ctx, tag)
		if err != nil {
			return updated, unchanged, err
		}
		for _, row := range rows {
			canonical := Normalize(tag, row.ModelResponse)
			if canonical == row.ModelResponse {
				unchanged++
				continue
			}
			if err := st.UpdateAnalysisResponse(ctx, tag, row.ID, canonical); err != nil {
				return updated, unchanged, err
			}
			updated++
		}
		log.Info().Str("tag", tag).Int("rows", len(rows)).Msg("normalized")
	}
	return updated, unchanged, nil
}
