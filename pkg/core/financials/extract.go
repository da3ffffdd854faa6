package financials

import (
	"sort"
	"strings"

	"equity_analyst/pkg/core/edgar"
)

// Entry bounds cap memory and processing, not correctness: ten fiscal years
// and three years of quarters are more history than any assumption here uses.
const (
	maxAnnualEntries    = 10
	maxQuarterlyEntries = 12
)

// Extraction holds the raw annual and quarterly entries for one concept,
// both sorted by end date descending. Empty (no tag matched) is a valid
// result, not an error; the caller decides whether the concept is optional.
type Extraction struct {
	Tag       string
	Unit      string
	Annual    []edgar.FactEntry
	Quarterly []edgar.FactEntry
}

// Empty reports whether no candidate tag produced any data.
func (e Extraction) Empty() bool {
	return len(e.Annual) == 0 && len(e.Quarterly) == 0
}

// ExtractMetric pulls a financial concept out of the companyfacts tree,
// trying tag aliases in order and stopping at the first tag with data
// (first-match-wins fallback). If the requested unit is absent for a tag,
// the first available unit key is used instead; unit mismatch alone never
// fails an extraction.
func ExtractMetric(facts *edgar.CompanyFacts, tags []string, unit string) Extraction {
	for _, tag := range tags {
		concept, ok := facts.Concept(tag)
		if !ok || len(concept.Units) == 0 {
			continue
		}

		entries, actualUnit := entriesForUnit(concept, unit)
		annual, quarterly := splitByPeriodType(entries)
		if len(annual) == 0 && len(quarterly) == 0 {
			continue
		}

		sortByEndDesc(annual)
		sortByEndDesc(quarterly)
		annual = dedupeByEnd(annual)
		quarterly = dedupeByEnd(quarterly)

		if len(annual) > maxAnnualEntries {
			annual = annual[:maxAnnualEntries]
		}
		if len(quarterly) > maxQuarterlyEntries {
			quarterly = quarterly[:maxQuarterlyEntries]
		}

		return Extraction{Tag: tag, Unit: actualUnit, Annual: annual, Quarterly: quarterly}
	}
	return Extraction{}
}

// entriesForUnit prefers the requested unit and falls back to the first
// available unit key (sorted, so the fallback is deterministic).
func entriesForUnit(concept edgar.ConceptFacts, unit string) ([]edgar.FactEntry, string) {
	if entries, ok := concept.Units[unit]; ok && len(entries) > 0 {
		return entries, unit
	}
	keys := make([]string, 0, len(concept.Units))
	for k := range concept.Units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(concept.Units[k]) > 0 {
			return concept.Units[k], k
		}
	}
	return nil, unit
}

// splitByPeriodType buckets entries into annual (FY periods reported on a
// 10-K or its amendment) and quarterly (Q1..Q4) sets. Everything else is
// discarded.
func splitByPeriodType(entries []edgar.FactEntry) (annual, quarterly []edgar.FactEntry) {
	for _, entry := range entries {
		switch entry.FP {
		case "FY":
			if strings.HasPrefix(entry.Form, "10-K") {
				annual = append(annual, entry)
			}
		case "Q1", "Q2", "Q3", "Q4":
			quarterly = append(quarterly, entry)
		}
	}
	return annual, quarterly
}

func sortByEndDesc(entries []edgar.FactEntry) {
	// ISO dates compare correctly as strings
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].End > entries[j].End
	})
}

// dedupeByEnd drops repeated reportings of the same period end (restatements
// in later filings), keeping the first entry after the descending sort.
func dedupeByEnd(entries []edgar.FactEntry) []edgar.FactEntry {
	if len(entries) < 2 {
		return entries
	}
	out := entries[:1]
	for _, entry := range entries[1:] {
		if entry.End != out[len(out)-1].End {
			out = append(out, entry)
		}
	}
	return out
}
