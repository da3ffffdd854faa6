package config

import (
	"fmt"
	"os"

	"equity_analyst/pkg/core/valuation"

	"github.com/hjson/hjson-go/v4"
)

// Overrides lets an analyst pin individual assumptions for a run. The file
// format is HJSON so override files can carry inline commentary next to the
// numbers; absent fields leave the policy untouched.
type Overrides struct {
	TerminalGrowthRate *float64 `json:"terminal_growth_rate"`
	TaxRate            *float64 `json:"tax_rate"`
	RiskFreeRate       *float64 `json:"risk_free_rate"`
	EquityRiskPremium  *float64 `json:"equity_risk_premium"`
	Beta               *float64 `json:"beta"`
	CostOfDebt         *float64 `json:"cost_of_debt"`
	DebtToEquityRatio  *float64 `json:"debt_to_equity_ratio"`
	CapexPct           *float64 `json:"capex_pct"`
	NwcPct             *float64 `json:"nwc_pct"`
}

// LoadOverrides parses an analyst override file. An empty path yields no
// overrides.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return &Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}
	var o Overrides
	if err := hjson.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}
	return &o, nil
}

// Apply overlays the pinned values onto a policy.
func (o *Overrides) Apply(d *valuation.Defaults) {
	setIf := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&d.TerminalGrowthRate, o.TerminalGrowthRate)
	setIf(&d.TaxRate, o.TaxRate)
	setIf(&d.RiskFreeRate, o.RiskFreeRate)
	setIf(&d.EquityRiskPremium, o.EquityRiskPremium)
	setIf(&d.Beta, o.Beta)
	setIf(&d.CostOfDebt, o.CostOfDebt)
	setIf(&d.DebtToEquityRatio, o.DebtToEquityRatio)
	setIf(&d.CapexPct, o.CapexPct)
	setIf(&d.NwcPct, o.NwcPct)
}
