package valuation

// Defaults collects every heuristic constant of the valuation policy in one
// injectable, auditable structure: fallback cost ratios, fade parameters,
// WACC build-up components, and capital-item defaults. Tests and config
// files override individual fields; the engine never reads inline constants.
type Defaults struct {
	// Cost structure fallbacks (% of revenue)
	CogsExDaPct float64 `yaml:"cogs_ex_da_pct"`
	SgaPct      float64 `yaml:"sga_pct"`
	DaPct       float64 `yaml:"da_pct"`
	SbcPct      float64 `yaml:"sbc_pct"`
	CapexPct    float64 `yaml:"capex_pct"`
	NwcPct      float64 `yaml:"nwc_pct"`

	// Share of the implied COGS+SG&A block attributed to COGS when backed
	// out of historical operating margin (the remainder goes to SG&A)
	CogsShareOfCombined float64 `yaml:"cogs_share_of_combined"`

	// Growth policy
	RevenueGrowth      float64 `yaml:"revenue_growth"`
	TerminalGrowthRate float64 `yaml:"terminal_growth_rate"`

	// Fade policy per risk profile
	AggressiveFadeK     float64 `yaml:"aggressive_fade_k"`
	ModerateMidFraction float64 `yaml:"moderate_mid_fraction"`
	ModerateSplitYears  int     `yaml:"moderate_split_years"`

	// WACC build-up components (policy, never filed)
	RiskFreeRate      float64 `yaml:"risk_free_rate"`
	EquityRiskPremium float64 `yaml:"equity_risk_premium"`
	Beta              float64 `yaml:"beta"`
	CostOfDebt        float64 `yaml:"cost_of_debt"`
	DebtToEquityRatio float64 `yaml:"debt_to_equity_ratio"`
	TaxRate           float64 `yaml:"tax_rate"`

	// Capital items
	DefaultSharesOut float64 `yaml:"default_shares_out"`
}

// StandardDefaults returns the documented baseline policy.
func StandardDefaults() Defaults {
	return Defaults{
		CogsExDaPct:         0.65,
		SgaPct:              0.20,
		DaPct:               0.03,
		SbcPct:              0.02,
		CapexPct:            0.05,
		NwcPct:              0.10,
		CogsShareOfCombined: 0.60,

		RevenueGrowth:      0.05,
		TerminalGrowthRate: 0.025,

		AggressiveFadeK:     0.3,
		ModerateMidFraction: 0.6,
		ModerateSplitYears:  2,

		RiskFreeRate:      0.04,
		EquityRiskPremium: 0.06,
		Beta:              1.0,
		CostOfDebt:        0.05,
		DebtToEquityRatio: 0.3,
		TaxRate:           0.21,

		DefaultSharesOut: 1_000_000_000,
	}
}
