package valuation

import "testing"

func TestLabelAssumptionsAllFiled(t *testing.T) {
	labels := LabelAssumptions(Provenance{
		BaseFromTTM:              true,
		GrowthYears:              3,
		CostFromOperatingHistory: true,
		CapexFromHistory:         true,
		SharesFiled:              true,
		DebtFiled:                true,
		CashFiled:                true,
	})

	want := map[string]Confidence{
		"base_revenue":   ConfidenceHigh,
		"revenue_growth": ConfidenceHigh,
		"cogs_pct":       ConfidenceMed,
		"sga_pct":        ConfidenceMed,
		"capex_pct":      ConfidenceHigh,
		"shares_out":     ConfidenceHigh,
		"net_debt":       ConfidenceHigh,
	}
	for key, c := range want {
		if labels[key] != c {
			t.Errorf("%s = %s, want %s", key, labels[key], c)
		}
	}
}

func TestLabelAssumptionsAllDefaulted(t *testing.T) {
	labels := LabelAssumptions(Provenance{})

	for _, key := range []string{
		"base_revenue", "revenue_growth", "cogs_pct", "sga_pct",
		"capex_pct", "shares_out", "net_debt",
	} {
		if labels[key] != ConfidenceLow {
			t.Errorf("%s = %s, want LOW when nothing is filed", key, labels[key])
		}
	}
}

func TestLabelAssumptionsPolicyRatesAlwaysLow(t *testing.T) {
	// Filed data never upgrades policy rates
	labels := LabelAssumptions(Provenance{
		BaseFromTTM: true, GrowthYears: 3, SharesFiled: true, DebtFiled: true, CashFiled: true,
	})
	for _, key := range []string{
		"wacc", "risk_free_rate", "equity_risk_premium", "beta",
		"cost_of_debt", "debt_to_equity_ratio", "tax_rate", "terminal_growth",
		"da_pct", "sbc_pct", "nwc_pct",
	} {
		if labels[key] != ConfidenceLow {
			t.Errorf("%s = %s, want LOW always", key, labels[key])
		}
	}
}

func TestLabelAssumptionsPartialDerivations(t *testing.T) {
	labels := LabelAssumptions(Provenance{GrowthYears: 2, DebtFiled: true})

	if labels["revenue_growth"] != ConfidenceMed {
		t.Errorf("2-year CAGR should label MED, got %s", labels["revenue_growth"])
	}
	if labels["net_debt"] != ConfidenceMed {
		t.Errorf("one of debt/cash filed should label MED, got %s", labels["net_debt"])
	}
	if labels["base_revenue"] != ConfidenceLow {
		t.Errorf("defaulted base should label LOW, got %s", labels["base_revenue"])
	}
}
