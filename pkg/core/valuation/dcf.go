package valuation

import (
	"fmt"
	"math"
	"strconv"

	"equity_analyst/pkg/core/financials"
)

// InvalidValuationInputsError indicates inputs the DCF cannot be computed
// from: non-positive base revenue or share count, or a discount rate at or
// below terminal growth. Unrecoverable; surfaced to the run.
type InvalidValuationInputsError struct {
	Reason string
}

func (e *InvalidValuationInputsError) Error() string {
	return "invalid valuation inputs: " + e.Reason
}

// Engine is the DCF orchestrator: it selects the base year, derives growth
// and cost assumptions from a FinancialSummary, builds the operating
// forecast, and assembles the full ValuationOutput.
type Engine struct {
	Risk           string
	HorizonYears   int
	TerminalMethod string
	Defaults       Defaults
}

// NewEngine creates an engine for a risk profile and horizon with the given
// policy defaults.
func NewEngine(risk string, horizonYears int, defaults Defaults) *Engine {
	if horizonYears < 1 {
		horizonYears = 5
	}
	return &Engine{
		Risk:           risk,
		HorizonYears:   horizonYears,
		TerminalMethod: TerminalGordon,
		Defaults:       defaults,
	}
}

// Valuate runs the full DCF against a normalized FinancialSummary. All
// failure conditions are hard stops; no partial output is produced.
func (e *Engine) Valuate(summary *financials.FinancialSummary) (*ValuationOutput, error) {
	d := e.Defaults
	revenue := summary.Metric(financials.MetricRevenue)
	if revenue == nil || len(revenue.Values) == 0 {
		return nil, &financials.MissingMandatoryDataError{Ticker: summary.Ticker, Metric: financials.MetricRevenue}
	}

	var prov Provenance

	// 1. Base revenue: TTM > latest annual > latest combined entry
	baseRevenue := e.selectBaseRevenue(summary, revenue, &prov)
	if baseRevenue <= 0 {
		return nil, &InvalidValuationInputsError{
			Reason: fmt.Sprintf("base revenue must be positive, got %.2f", baseRevenue),
		}
	}

	// 2. Historical growth: 3-year CAGR > 2-year CAGR > default
	startGrowth, growthYears := historicalGrowth(revenue, d.RevenueGrowth)
	prov.GrowthYears = growthYears

	// 3+4. Fade schedule by risk profile, clamped to terminal growth
	fadeMethod, growthRates := e.fadeGrowth(startGrowth, d.TerminalGrowthRate)

	// 5. Cost structure
	costs := EstimateCostStructure(
		revenue,
		summary.Metric(financials.MetricOperatingIncome),
		summary.Metric(financials.MetricCapex),
		d,
	)
	prov.CostFromOperatingHistory = costs.FromOperatingHistory
	prov.CapexFromHistory = costs.CapexFromHistory

	// 6. Capital items
	sharesOut := e.sharesOutstanding(summary, &prov)
	netDebt := e.netDebt(summary, &prov)

	wacc := CalculateWACC(WACCInput{
		RiskFreeRate:      d.RiskFreeRate,
		EquityRiskPremium: d.EquityRiskPremium,
		Beta:              d.Beta,
		PreTaxCostOfDebt:  d.CostOfDebt,
		TaxRate:           d.TaxRate,
		DebtToEquityRatio: d.DebtToEquityRatio,
	}).WACC

	if wacc <= d.TerminalGrowthRate {
		return nil, &InvalidValuationInputsError{
			Reason: fmt.Sprintf("wacc %.4f must exceed terminal growth %.4f", wacc, d.TerminalGrowthRate),
		}
	}
	if sharesOut <= 0 {
		return nil, &InvalidValuationInputsError{
			Reason: fmt.Sprintf("shares outstanding must be positive, got %.0f", sharesOut),
		}
	}

	baseYear := baseYearLabel(summary)
	assumptions := DcfAssumptions{
		HorizonYears:       e.HorizonYears,
		ForecastYears:      forecastYearLabels(baseYear, e.HorizonYears),
		BaseYear:           baseYear,
		BaseYearRevenue:    baseRevenue,
		RevenueGrowthRates: growthRates,
		CogsExDaPctRev:     repeat(costs.CogsExDaPct, e.HorizonYears),
		SgaPctRev:          repeat(costs.SgaPct, e.HorizonYears),
		DaPctRev:           repeat(costs.DaPct, e.HorizonYears),
		SbcPctRev:          repeat(costs.SbcPct, e.HorizonYears),
		CapexPctRev:        repeat(costs.CapexPct, e.HorizonYears),
		NwcPctRev:          repeat(costs.NwcPct, e.HorizonYears),
		TerminalMethod:     e.TerminalMethod,
		TerminalGrowthRate: d.TerminalGrowthRate,
		WACC:               wacc,
		TaxRate:            d.TaxRate,
		SharesOut:          sharesOut,
		NetDebt:            netDebt,
		RiskFreeRate:       d.RiskFreeRate,
		EquityRiskPremium:  d.EquityRiskPremium,
		Beta:               d.Beta,
		CostOfDebt:         d.CostOfDebt,
		DebtToEquityRatio:  d.DebtToEquityRatio,
		Confidence:         LabelAssumptions(prov),
		FadeMethod:         fadeMethod,
	}

	results, err := ComputeDCF(assumptions)
	if err != nil {
		return nil, err
	}

	return &ValuationOutput{
		Assumptions: assumptions,
		Results:     *results,
		Sensitivity: results.Sensitivity.StringMap(),
	}, nil
}

// ComputeDCF builds the operating forecast, terminal value, valuation
// roll-up, and sensitivity surface from an explicit assumption set.
// Deterministic: identical assumptions yield identical results.
func ComputeDCF(a DcfAssumptions) (*DcfResults, error) {
	if a.BaseYearRevenue <= 0 {
		return nil, &InvalidValuationInputsError{
			Reason: fmt.Sprintf("base revenue must be positive, got %.2f", a.BaseYearRevenue),
		}
	}
	if a.WACC <= a.TerminalGrowthRate {
		return nil, &InvalidValuationInputsError{
			Reason: fmt.Sprintf("wacc %.4f must exceed terminal growth %.4f", a.WACC, a.TerminalGrowthRate),
		}
	}
	if a.SharesOut <= 0 {
		return nil, &InvalidValuationInputsError{
			Reason: fmt.Sprintf("shares outstanding must be positive, got %.0f", a.SharesOut),
		}
	}
	for name, vector := range map[string][]float64{
		"revenue_growth_rates": a.RevenueGrowthRates,
		"cogs_ex_da_pct_rev":   a.CogsExDaPctRev,
		"sga_pct_rev":          a.SgaPctRev,
		"da_pct_rev":           a.DaPctRev,
		"sbc_pct_rev":          a.SbcPctRev,
		"capex_pct_rev":        a.CapexPctRev,
		"nwc_pct_rev":          a.NwcPctRev,
	} {
		if len(vector) != a.HorizonYears {
			return nil, &InvalidValuationInputsError{
				Reason: fmt.Sprintf("%s has %d entries for a %d-year horizon", name, len(vector), a.HorizonYears),
			}
		}
	}

	forecast := BuildForecast(a)

	presentValues := make(map[string]float64, len(forecast)+1)
	var pvSum float64
	for _, year := range forecast {
		pvSum += year.PvUfcf
		presentValues[year.Year] = year.PvUfcf
	}

	// Terminal value (Gordon growth) on the final forecast year's UFCF
	finalUfcf := forecast[len(forecast)-1].UnleveredFcf
	terminalValue := finalUfcf * (1 + a.TerminalGrowthRate) / (a.WACC - a.TerminalGrowthRate)
	pvTerminal := terminalValue / math.Pow(1+a.WACC, float64(a.HorizonYears))
	presentValues[TerminalValueKey] = pvTerminal

	enterpriseValue := pvSum + pvTerminal
	equityValue := enterpriseValue - a.NetDebt
	fairValue := equityValue / a.SharesOut

	sensitivity := BuildSensitivity(forecast, a.WACC, a.TerminalGrowthRate, a.SharesOut, a.NetDebt)

	return &DcfResults{
		FairValuePerShare:    fairValue,
		TotalEnterpriseValue: enterpriseValue,
		EquityValue:          equityValue,
		PresentValues:        presentValues,
		TerminalValue:        terminalValue,
		PvTerminalValue:      pvTerminal,
		OperatingForecast:    forecast,
		Sensitivity:          sensitivity,
	}, nil
}

// BuildForecast iterates the forecast years in order, compounding revenue by
// each year's growth rate and applying the cost ratios down to discounted
// unlevered free cash flow.
func BuildForecast(a DcfAssumptions) []OperatingForecast {
	forecast := make([]OperatingForecast, 0, a.HorizonYears)
	prevRevenue := a.BaseYearRevenue
	prevNwc := a.BaseYearRevenue * a.NwcPctRev[0]

	for i := 0; i < a.HorizonYears; i++ {
		revenue := prevRevenue * (1 + a.RevenueGrowthRates[i])
		cogs := revenue * a.CogsExDaPctRev[i]
		sga := revenue * a.SgaPctRev[i]
		da := revenue * a.DaPctRev[i]
		ebit := revenue - cogs - sga - da
		taxes := ebit * a.TaxRate
		nopat := ebit - taxes

		sbc := revenue * a.SbcPctRev[i]
		nwc := revenue * a.NwcPctRev[i]
		deltaNwc := nwc - prevNwc
		capex := revenue * a.CapexPctRev[i]
		ufcf := nopat + da + sbc - deltaNwc - capex

		// 1-based year index
		discount := 1 / math.Pow(1+a.WACC, float64(i+1))

		yearLabel := fmt.Sprintf("Year %d", i+1)
		if i < len(a.ForecastYears) {
			yearLabel = a.ForecastYears[i]
		}
		forecast = append(forecast, OperatingForecast{
			Year:           yearLabel,
			Revenue:        revenue,
			CogsExDa:       cogs,
			Sga:            sga,
			Da:             da,
			Ebit:           ebit,
			Taxes:          taxes,
			Nopat:          nopat,
			DaAddback:      da,
			SbcAddback:     sbc,
			DeltaNwc:       deltaNwc,
			Capex:          capex,
			UnleveredFcf:   ufcf,
			DiscountFactor: discount,
			PvUfcf:         ufcf * discount,
		})

		prevRevenue = revenue
		prevNwc = nwc
	}
	return forecast
}

// selectBaseRevenue prefers the TTM sum when a TTM period exists and at
// least four quarterly revenue points are available, then the latest annual
// value, then the most recent entry of the combined series.
func (e *Engine) selectBaseRevenue(summary *financials.FinancialSummary, revenue *financials.MetricSeries, prov *Provenance) float64 {
	if summary.TTMPeriod != "" {
		quarterly := revenue.QuarterlyValues()
		if len(quarterly) >= 4 {
			var sum float64
			for _, v := range quarterly[:4] {
				sum += v
			}
			prov.BaseFromTTM = true
			return sum
		}
	}
	if v, ok := revenue.LatestAnnual(); ok {
		prov.BaseFromAnnual = true
		return v
	}
	v, _ := revenue.Latest()
	return v
}

// historicalGrowth computes the revenue CAGR from annual points: 3-year with
// at least four points, 2-year with three, else the policy default.
func historicalGrowth(revenue *financials.MetricSeries, defaultRate float64) (rate float64, years int) {
	annual := revenue.AnnualValues()
	switch {
	case len(annual) >= 4:
		return cagr(annual[0], annual[3], 3), 3
	case len(annual) >= 3:
		return cagr(annual[0], annual[2], 2), 2
	default:
		return defaultRate, 0
	}
}

// cagr is (recent/old)^(1/n) - 1, guarded to 0 when the older value is
// non-positive.
func cagr(recent, old float64, years int) float64 {
	if old <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(recent/old, 1/float64(years)) - 1
}

// fadeGrowth maps the risk profile to a fade shape and clamps every year to
// at least the terminal growth rate: the explicit window never implies
// deceleration below the long-run assumption. The mapping is a policy
// decision, not derived from data.
func (e *Engine) fadeGrowth(startGrowth, terminalGrowth float64) (string, []float64) {
	d := e.Defaults
	var method string
	var params FadeParams
	switch e.Risk {
	case RiskAggressive:
		method = FadeExponential
		params.K = d.AggressiveFadeK
	case RiskConservative:
		method = FadeLinear
	default:
		method = FadePiecewise
		mid := startGrowth * d.ModerateMidFraction
		params.Mid = &mid
		params.Split = d.ModerateSplitYears
	}

	rates := FadeSchedule(method, startGrowth, terminalGrowth, e.HorizonYears, params)
	for i, r := range rates {
		if r < terminalGrowth {
			rates[i] = terminalGrowth
		}
	}
	return method, rates
}

// sharesOutstanding takes the latest filed share count, inferring the unit
// scale of the raw number: issuers report this tag in millions, thousands,
// or absolute counts.
func (e *Engine) sharesOutstanding(summary *financials.FinancialSummary, prov *Provenance) float64 {
	if shares := summary.Metric(financials.MetricShares); shares != nil {
		if raw, ok := shares.Latest(); ok && raw > 0 {
			prov.SharesFiled = true
			return normalizeShareCount(raw)
		}
	}
	return e.Defaults.DefaultSharesOut
}

// normalizeShareCount applies the unit-inference heuristic: <1000 is read as
// millions, <1,000,000 as thousands, otherwise as an absolute count.
func normalizeShareCount(raw float64) float64 {
	switch {
	case raw < 1_000:
		return raw * 1e6
	case raw < 1_000_000:
		return raw * 1e3
	default:
		return raw
	}
}

// netDebt is latest total debt minus latest cash, floored at 0.
func (e *Engine) netDebt(summary *financials.FinancialSummary, prov *Provenance) float64 {
	var debt, cash float64
	if series := summary.Metric(financials.MetricTotalDebt); series != nil {
		if v, ok := series.Latest(); ok {
			debt = v
			prov.DebtFiled = true
		}
	}
	if series := summary.Metric(financials.MetricCash); series != nil {
		if v, ok := series.Latest(); ok {
			cash = v
			prov.CashFiled = true
		}
	}
	if net := debt - cash; net > 0 {
		return net
	}
	return 0
}

// baseYearLabel is the latest annual period when one exists, else the year
// of the most recent period.
func baseYearLabel(summary *financials.FinancialSummary) string {
	if len(summary.AnnualPeriods) > 0 {
		return summary.AnnualPeriods[0]
	}
	if len(summary.Periods) > 0 {
		p := summary.Periods[0]
		if len(p) >= 4 {
			return p[:4]
		}
	}
	return ""
}

// forecastYearLabels generates horizon year labels following the base year.
func forecastYearLabels(baseYear string, horizon int) []string {
	base, err := strconv.Atoi(baseYear)
	labels := make([]string, horizon)
	for i := 0; i < horizon; i++ {
		if err != nil {
			labels[i] = fmt.Sprintf("Year %d", i+1)
			continue
		}
		labels[i] = strconv.Itoa(base + i + 1)
	}
	return labels
}

// repeat expands a constant ratio into the per-year vector the assumption
// model carries.
func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
