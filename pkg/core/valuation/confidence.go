package valuation

// Provenance records how each assumption was derived during one engine run.
// It is the sole input to confidence labeling.
type Provenance struct {
	BaseFromTTM    bool // base revenue from TTM sum
	BaseFromAnnual bool // base revenue from latest annual filing
	GrowthYears    int  // CAGR span used: 3, 2, or 0 (defaulted)

	CostFromOperatingHistory bool
	CapexFromHistory         bool

	SharesFiled bool
	DebtFiled   bool
	CashFiled   bool
}

// LabelAssumptions maps provenance to the per-assumption confidence labels.
// WACC sub-components and terminal growth are always LOW: they are policy
// defaults, never filed values.
func LabelAssumptions(p Provenance) map[string]Confidence {
	labels := map[string]Confidence{
		"da_pct":  ConfidenceLow,
		"sbc_pct": ConfidenceLow,
		"nwc_pct": ConfidenceLow,

		"wacc":                 ConfidenceLow,
		"risk_free_rate":       ConfidenceLow,
		"equity_risk_premium":  ConfidenceLow,
		"beta":                 ConfidenceLow,
		"cost_of_debt":         ConfidenceLow,
		"debt_to_equity_ratio": ConfidenceLow,
		"tax_rate":             ConfidenceLow,
		"terminal_growth":      ConfidenceLow,
	}

	labels["base_revenue"] = ConfidenceLow
	if p.BaseFromTTM || p.BaseFromAnnual {
		labels["base_revenue"] = ConfidenceHigh
	}

	switch p.GrowthYears {
	case 3:
		labels["revenue_growth"] = ConfidenceHigh
	case 2:
		labels["revenue_growth"] = ConfidenceMed
	default:
		labels["revenue_growth"] = ConfidenceLow
	}

	costLabel := ConfidenceLow
	if p.CostFromOperatingHistory {
		costLabel = ConfidenceMed
	}
	labels["cogs_pct"] = costLabel
	labels["sga_pct"] = costLabel

	labels["capex_pct"] = ConfidenceLow
	if p.CapexFromHistory {
		labels["capex_pct"] = ConfidenceHigh
	}

	labels["shares_out"] = ConfidenceLow
	if p.SharesFiled {
		labels["shares_out"] = ConfidenceHigh
	}

	switch {
	case p.DebtFiled && p.CashFiled:
		labels["net_debt"] = ConfidenceHigh
	case p.DebtFiled || p.CashFiled:
		labels["net_debt"] = ConfidenceMed
	default:
		labels["net_debt"] = ConfidenceLow
	}

	return labels
}
