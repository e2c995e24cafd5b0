// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/ptm-survey/pkg/types"
)

func TestNaturalScience(t *testing.T) {
	fields := map[string]bool{
		"Chemistry":    true,
		"Neuroscience": true,
	}

	records := []types.OpenAlexRecord{
		// Uncited, even with two matching fields.
		{DOI: "10.1/uncited", CitedByCount: 0, Topic0: "Chemistry", Topic1: "Neuroscience"},
		// Cited with two matching fields: selected.
		{DOI: "10.1/selected", CitedByCount: 5, Topic0: "Chemistry", Topic1: "Neuroscience"},
		// Cited but only one matching field.
		{DOI: "10.1/onefield", CitedByCount: 5, Topic0: "Chemistry", Topic1: "Literature"},
	}

	assert.Equal(t, []string{"10.1/selected"}, NaturalScience(records, fields))
}

func TestNaturalScienceMatchIsCaseSensitive(t *testing.T) {
	fields := map[string]bool{"Chemistry": true, "Neuroscience": true}
	records := []types.OpenAlexRecord{
		{DOI: "10.1/a", CitedByCount: 1, Topic0: "chemistry", Topic1: "neuroscience"},
	}
	assert.Empty(t, NaturalScience(records, fields))
}

func TestNaturalScienceOutputIsSorted(t *testing.T) {
	fields := map[string]bool{"Chemistry": true, "Physics and Astronomy": true}
	records := []types.OpenAlexRecord{
		{DOI: "10.1/z", CitedByCount: 1, Topic0: "Chemistry", Topic2: "Physics and Astronomy"},
		{DOI: "10.1/a", CitedByCount: 2, Topic1: "Physics and Astronomy", Topic2: "Chemistry"},
	}
	assert.Equal(t, []string{"10.1/a", "10.1/z"}, NaturalScience(records, fields))
}
