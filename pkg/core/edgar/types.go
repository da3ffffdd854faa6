// Package edgar provides SEC EDGAR API integration: company lookup,
// filing submissions, and the XBRL companyfacts dataset.
// API Documentation: https://www.sec.gov/developer
package edgar

import (
	"encoding/json"
)

// =============================================================================
// COMPANYFACTS DATA TYPES
// =============================================================================

// FactEntry is a single dated XBRL fact from the companyfacts API.
// "val" is the reported number; "fp" is the fiscal period code ("FY",
// "Q1".."Q4"); "form" is the filing type ("10-K", "10-Q", amendments).
type FactEntry struct {
	Start string  `json:"start,omitempty"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn,omitempty"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed,omitempty"`
	Frame string  `json:"frame,omitempty"`
}

// ConceptFacts holds all reported entries for one XBRL tag, keyed by unit
// ("USD", "shares", "USD/shares", ...).
type ConceptFacts struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Units       map[string][]FactEntry `json:"units"`
}

// CompanyFacts is the top-level companyfacts response:
// facts -> taxonomy ("us-gaap", "dei") -> tag -> units -> entries.
type CompanyFacts struct {
	CIK        json.Number                        `json:"cik"`
	EntityName string                             `json:"entityName"`
	Facts      map[string]map[string]ConceptFacts `json:"facts"`
}

// conceptTaxonomies is the lookup order for tags. Most financial concepts
// live under us-gaap; entity-level facts (shares outstanding) under dei.
var conceptTaxonomies = []string{"us-gaap", "dei"}

// Concept returns the facts for a tag, searching us-gaap then dei.
func (cf *CompanyFacts) Concept(tag string) (ConceptFacts, bool) {
	for _, tax := range conceptTaxonomies {
		if tags, ok := cf.Facts[tax]; ok {
			if concept, ok := tags[tag]; ok {
				return concept, true
			}
		}
	}
	return ConceptFacts{}, false
}

// =============================================================================
// SUBMISSIONS DATA TYPES
// =============================================================================

// Submissions is the subset of the submissions API response we consume.
// Filing attributes come back as parallel arrays.
type Submissions struct {
	CIK     json.Number `json:"cik"`
	Name    string      `json:"name"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings holds parallel arrays of recent filing attributes.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
}

// FilingDates carries the latest annual and quarterly filing dates for a
// filer, empty when no matching filing exists.
type FilingDates struct {
	Latest10K string `json:"latest_10k_date"`
	Latest10Q string `json:"latest_10q_date"`
}

// LatestFilingDates scans the recent filings for the newest 10-K and 10-Q.
// Amendments (10-K/A, 10-Q/A) count toward their base form.
func (s *Submissions) LatestFilingDates() FilingDates {
	var dates FilingDates
	recent := s.Filings.Recent
	for i := range recent.Form {
		if i >= len(recent.FilingDate) {
			break
		}
		form := recent.Form[i]
		date := recent.FilingDate[i]
		switch {
		case form == "10-K" || form == "10-K/A":
			if date > dates.Latest10K {
				dates.Latest10K = date
			}
		case form == "10-Q" || form == "10-Q/A":
			if date > dates.Latest10Q {
				dates.Latest10Q = date
			}
		}
	}
	return dates
}
