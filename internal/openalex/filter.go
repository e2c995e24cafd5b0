// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"sort"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

// NaturalScience selects the DOIs whose record is cited at least once and
// carries at least two topic fields from the seeded natural-science set.
// Membership is case-sensitive exact match on the display names as the
// metadata service returned them. The result is sorted; given the same
// records and field set the output is identical.
func NaturalScience(records []types.OpenAlexRecord, fields map[string]bool) []string {
	var out []string
	for _, r := range records {
		if r.CitedByCount <= 0 {
			continue
		}
		matches := 0
		for _, topic := range []string{r.Topic0, r.Topic1, r.Topic2} {
			if topic != "" && fields[topic] {
				matches++
			}
		}
		if matches >= 2 {
			out = append(out, r.DOI)
		}
	}
	sort.Strings(out)
	return out
}
