package valuation

import (
	"equity_analyst/pkg/core/financials"
)

// Years of annual history required before a ratio is derived from filings
// rather than defaulted.
const costHistoryYears = 3

// CostStructure holds the forecast cost ratios, each applied uniformly as a
// percentage of revenue across the horizon. The provenance flags feed
// confidence labeling only.
type CostStructure struct {
	CogsExDaPct float64
	SgaPct      float64
	DaPct       float64
	SbcPct      float64
	CapexPct    float64
	NwcPct      float64

	FromOperatingHistory bool // COGS/SG&A backed out of filed operating margin
	CapexFromHistory     bool // capex ratio from filed capex history
}

// EstimateCostStructure derives the forecast cost ratios from historical
// revenue and, when available, operating income and capex series.
//
// With >=3 years of operating income the implied COGS+SG&A share is backed
// out of the 3-year average operating margin and split 60/40 between COGS
// and SG&A. D&A and SBC keep their defaults regardless: filings rarely
// expose them cleanly enough, a deliberate documented approximation. NWC is
// always the fixed default.
func EstimateCostStructure(revenue, operatingIncome, capex *financials.MetricSeries, d Defaults) CostStructure {
	cs := CostStructure{
		CogsExDaPct: d.CogsExDaPct,
		SgaPct:      d.SgaPct,
		DaPct:       d.DaPct,
		SbcPct:      d.SbcPct,
		CapexPct:    d.CapexPct,
		NwcPct:      d.NwcPct,
	}

	if margins := annualRatios(operatingIncome, revenue); len(margins) >= costHistoryYears {
		avgMargin := mean(margins[:costHistoryYears])
		combined := 1 - avgMargin - cs.DaPct
		cs.CogsExDaPct = combined * d.CogsShareOfCombined
		cs.SgaPct = combined * (1 - d.CogsShareOfCombined)
		cs.FromOperatingHistory = true
	}

	if ratios := annualRatios(capex, revenue); len(ratios) >= costHistoryYears {
		cs.CapexPct = mean(ratios[:costHistoryYears])
		cs.CapexFromHistory = true
	}

	return cs
}

// annualRatios pairs a numerator series against revenue on matching annual
// periods, most-recent-first.
func annualRatios(numerator, revenue *financials.MetricSeries) []float64 {
	if numerator == nil || revenue == nil {
		return nil
	}
	periods, values := numerator.AnnualPoints()
	var ratios []float64
	for i, p := range periods {
		rev, ok := revenue.ValueForPeriod(p)
		if !ok || rev == 0 {
			continue
		}
		ratios = append(ratios, values[i]/rev)
	}
	return ratios
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
