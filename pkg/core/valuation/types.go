// Package valuation implements the DCF projection engine: fade schedules,
// cost-structure estimation, WACC build-up, year-by-year operating forecast,
// terminal value, and the WACC x terminal-growth sensitivity surface.
package valuation

import (
	"encoding/json"
	"fmt"
)

// Confidence labels the provenance of an assumption: derived directly from
// filed data (HIGH), partially derived (MED), or a policy default (LOW).
// Pure presentation metadata; never alters a computed value.
type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceMed  Confidence = "MED"
	ConfidenceLow  Confidence = "LOW"
)

// Risk profiles select the fade shape for revenue growth.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)

// Fade method identifiers.
const (
	FadeLinear      = "linear"
	FadeExponential = "exp"
	FadePiecewise   = "piecewise"
)

// TerminalGordon is the only supported terminal-value method.
const TerminalGordon = "gordon"

// DcfAssumptions itemizes every DCF model input, per forecast year where
// applicable. Built once per run; immutable. The cost ratios are constant
// per year in the base design but structurally per-year to allow future
// variation.
type DcfAssumptions struct {
	HorizonYears    int      `json:"horizon_years"`
	ForecastYears   []string `json:"forecast_years"`
	BaseYear        string   `json:"base_year"`
	BaseYearRevenue float64  `json:"base_year_revenue"`

	RevenueGrowthRates []float64 `json:"revenue_growth_rates"`

	CogsExDaPctRev []float64 `json:"cogs_ex_da_pct_rev"`
	SgaPctRev      []float64 `json:"sga_pct_rev"`
	DaPctRev       []float64 `json:"da_pct_rev"`
	SbcPctRev      []float64 `json:"sbc_pct_rev"`
	CapexPctRev    []float64 `json:"capex_pct_rev"`
	NwcPctRev      []float64 `json:"nwc_pct_rev"`

	TerminalMethod     string  `json:"terminal_method"`
	TerminalGrowthRate float64 `json:"terminal_growth_rate"`
	WACC               float64 `json:"wacc"`
	TaxRate            float64 `json:"tax_rate"`

	SharesOut float64 `json:"shares_out"`
	NetDebt   float64 `json:"net_debt"`

	// WACC build-up components, carried for the workbook's WACC tab
	RiskFreeRate      float64 `json:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium"`
	Beta              float64 `json:"beta"`
	CostOfDebt        float64 `json:"cost_of_debt"`
	DebtToEquityRatio float64 `json:"debt_to_equity_ratio"`

	Confidence map[string]Confidence `json:"confidence"`
	FadeMethod string                `json:"fade_method"`
}

// OperatingForecast is one forecast year's full income-statement-to-cash-flow
// build. Invariants: ebit = revenue - cogs_ex_da - sga - da;
// nopat = ebit - taxes; ufcf = nopat + da + sbc - delta_nwc - capex;
// discount_factor = 1/(1+wacc)^year_index (1-based).
type OperatingForecast struct {
	Year           string  `json:"year"`
	Revenue        float64 `json:"revenue"`
	CogsExDa       float64 `json:"cogs_ex_da"`
	Sga            float64 `json:"sga"`
	Da             float64 `json:"da"`
	Ebit           float64 `json:"ebit"`
	Taxes          float64 `json:"taxes"`
	Nopat          float64 `json:"nopat"`
	DaAddback      float64 `json:"da_addback"`
	SbcAddback     float64 `json:"sbc_addback"`
	DeltaNwc       float64 `json:"delta_nwc"`
	Capex          float64 `json:"capex"`
	UnleveredFcf   float64 `json:"unlevered_fcf"`
	DiscountFactor float64 `json:"discount_factor"`
	PvUfcf         float64 `json:"pv_ufcf"`
}

// SensitivityTable is the typed 2-D sensitivity surface: axis value lists
// plus a dense grid of fair values per share, FairValues[i][j] for WACC i
// and terminal growth j. String keys exist only at the serialization
// boundary, avoiding float-string key mismatches internally.
type SensitivityTable struct {
	WACCs           []float64
	TerminalGrowths []float64
	FairValues      [][]float64
}

// RateKey formats a rate for stable round-trip lookup in the string-keyed
// external form.
func RateKey(rate float64) string {
	return fmt.Sprintf("%.3f", rate)
}

// StringMap serializes the table into the nested string-keyed form consumed
// by the memo and workbook writers: wacc key -> terminal growth key -> fair
// value per share.
func (t SensitivityTable) StringMap() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(t.WACCs))
	for i, w := range t.WACCs {
		row := make(map[string]float64, len(t.TerminalGrowths))
		for j, g := range t.TerminalGrowths {
			row[RateKey(g)] = t.FairValues[i][j]
		}
		out[RateKey(w)] = row
	}
	return out
}

// MarshalJSON emits the external string-keyed form.
func (t SensitivityTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.StringMap())
}

// DcfResults holds the valuation outputs. Deterministic: recomputing from
// identical inputs yields identical results.
type DcfResults struct {
	FairValuePerShare    float64             `json:"fair_value_per_share"`
	TotalEnterpriseValue float64             `json:"total_enterprise_value"`
	EquityValue          float64             `json:"equity_value"`
	PresentValues        map[string]float64  `json:"present_values"`
	TerminalValue        float64             `json:"terminal_value"`
	PvTerminalValue      float64             `json:"pv_terminal_value"`
	OperatingForecast    []OperatingForecast `json:"operating_forecast"`
	Sensitivity          SensitivityTable    `json:"sensitivity"`
}

// TerminalValueKey is the present_values entry for the terminal value.
const TerminalValueKey = "Terminal Value"

// ValuationOutput pairs assumptions and results, with a top-level mirror of
// the sensitivity surface in external string-keyed form. Produced and owned
// by the engine for one run; read-only downstream.
type ValuationOutput struct {
	Assumptions DcfAssumptions                `json:"assumptions"`
	Results     DcfResults                    `json:"results"`
	Sensitivity map[string]map[string]float64 `json:"sensitivity"`
}
