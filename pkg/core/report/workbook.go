package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"equity_analyst/pkg/core/valuation"
)

// WriteWorkbook emits the valuation model as CSV sections: headline results,
// assumptions, per-year inputs, the operating forecast, and the sensitivity
// grid. Sections are separated by blank rows so the file opens cleanly in a
// spreadsheet.
func WriteWorkbook(w io.Writer, ticker string, out *valuation.ValuationOutput) error {
	if out == nil {
		return fmt.Errorf("workbook requires valuation output")
	}
	cw := csv.NewWriter(w)
	ww := &workbookWriter{cw: cw}

	a := out.Assumptions
	r := out.Results

	pvSum := r.TotalEnterpriseValue - r.PvTerminalValue
	ww.rows(
		[]string{"section", "results"},
		[]string{"ticker", ticker},
		[]string{"fair_value_per_share", fmtFloat(r.FairValuePerShare)},
		[]string{"total_enterprise_value", fmtFloat(r.TotalEnterpriseValue)},
		[]string{"equity_value", fmtFloat(r.EquityValue)},
		[]string{"pv_forecast_ufcf", fmtFloat(pvSum)},
		[]string{"terminal_value", fmtFloat(r.TerminalValue)},
		[]string{"pv_terminal_value", fmtFloat(r.PvTerminalValue)},
		nil,
		[]string{"section", "assumptions"},
		[]string{"base_year", a.BaseYear},
		[]string{"base_year_revenue", fmtFloat(a.BaseYearRevenue)},
		[]string{"horizon_years", strconv.Itoa(a.HorizonYears)},
		[]string{"fade_method", a.FadeMethod},
		[]string{"terminal_method", a.TerminalMethod},
		[]string{"terminal_growth_rate", fmtFloat(a.TerminalGrowthRate)},
		[]string{"wacc", fmtFloat(a.WACC)},
		[]string{"tax_rate", fmtFloat(a.TaxRate)},
		[]string{"shares_out", fmtFloat(a.SharesOut)},
		[]string{"net_debt", fmtFloat(a.NetDebt)},
		[]string{"risk_free_rate", fmtFloat(a.RiskFreeRate)},
		[]string{"equity_risk_premium", fmtFloat(a.EquityRiskPremium)},
		[]string{"beta", fmtFloat(a.Beta)},
		[]string{"cost_of_debt", fmtFloat(a.CostOfDebt)},
		[]string{"debt_to_equity_ratio", fmtFloat(a.DebtToEquityRatio)},
		nil,
		[]string{"section", "per_year_inputs"},
		append([]string{"input"}, a.ForecastYears...),
		vectorRow("revenue_growth_rate", a.RevenueGrowthRates),
		vectorRow("cogs_ex_da_pct_rev", a.CogsExDaPctRev),
		vectorRow("sga_pct_rev", a.SgaPctRev),
		vectorRow("da_pct_rev", a.DaPctRev),
		vectorRow("sbc_pct_rev", a.SbcPctRev),
		vectorRow("capex_pct_rev", a.CapexPctRev),
		vectorRow("nwc_pct_rev", a.NwcPctRev),
	)

	ww.forecast(r.OperatingForecast)
	ww.sensitivity(out.Sensitivity)
	if ww.err != nil {
		return ww.err
	}

	cw.Flush()
	return cw.Error()
}

type workbookWriter struct {
	cw  *csv.Writer
	err error
}

func (w *workbookWriter) row(record []string) {
	if w.err != nil {
		return
	}
	if len(record) == 0 {
		record = []string{""}
	}
	if err := w.cw.Write(record); err != nil {
		w.err = fmt.Errorf("failed to write workbook row: %w", err)
	}
}

func (w *workbookWriter) rows(records ...[]string) {
	for _, r := range records {
		w.row(r)
	}
}

func (w *workbookWriter) forecast(forecast []valuation.OperatingForecast) {
	w.rows(nil, []string{"section", "forecast"})

	header := []string{"line_item"}
	for _, year := range forecast {
		header = append(header, year.Year)
	}
	w.row(header)

	lines := []struct {
		name string
		get  func(valuation.OperatingForecast) float64
	}{
		{"revenue", func(f valuation.OperatingForecast) float64 { return f.Revenue }},
		{"cogs_ex_da", func(f valuation.OperatingForecast) float64 { return f.CogsExDa }},
		{"sga", func(f valuation.OperatingForecast) float64 { return f.Sga }},
		{"da", func(f valuation.OperatingForecast) float64 { return f.Da }},
		{"ebit", func(f valuation.OperatingForecast) float64 { return f.Ebit }},
		{"taxes", func(f valuation.OperatingForecast) float64 { return f.Taxes }},
		{"nopat", func(f valuation.OperatingForecast) float64 { return f.Nopat }},
		{"da_addback", func(f valuation.OperatingForecast) float64 { return f.DaAddback }},
		{"sbc_addback", func(f valuation.OperatingForecast) float64 { return f.SbcAddback }},
		{"delta_nwc", func(f valuation.OperatingForecast) float64 { return f.DeltaNwc }},
		{"capex", func(f valuation.OperatingForecast) float64 { return f.Capex }},
		{"unlevered_fcf", func(f valuation.OperatingForecast) float64 { return f.UnleveredFcf }},
		{"discount_factor", func(f valuation.OperatingForecast) float64 { return f.DiscountFactor }},
		{"pv_ufcf", func(f valuation.OperatingForecast) float64 { return f.PvUfcf }},
	}
	for _, line := range lines {
		row := []string{line.name}
		for _, year := range forecast {
			row = append(row, fmtFloat(line.get(year)))
		}
		w.row(row)
	}
}

func (w *workbookWriter) sensitivity(grid map[string]map[string]float64) {
	w.rows(nil, []string{"section", "sensitivity"})

	waccKeys := sortedKeys(grid)
	var growthKeys []string
	if len(waccKeys) > 0 {
		growthKeys = sortedKeys(grid[waccKeys[0]])
	}
	w.row(append([]string{"wacc\\terminal_growth"}, growthKeys...))
	for _, wk := range waccKeys {
		row := []string{wk}
		for _, g := range growthKeys {
			row = append(row, fmtFloat(grid[wk][g]))
		}
		w.row(row)
	}
}

func vectorRow(name string, values []float64) []string {
	row := []string{name}
	for _, v := range values {
		row = append(row, fmtFloat(v))
	}
	return row
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
