// Package financials normalizes heterogeneous SEC XBRL filings into clean
// per-ticker time series: one MetricSeries per tracked concept, canonical
// period labels, and a validated FinancialSummary.
package financials

import "strings"

// Canonical metric names. Revenue is mandatory; everything else degrades
// gracefully when absent.
const (
	MetricRevenue         = "Revenue"
	MetricOperatingIncome = "Operating Income"
	MetricNetIncome       = "Net Income"
	MetricCapex           = "Capital Expenditures"
	MetricCFO             = "Cash Flow from Operations"
	MetricDA              = "Depreciation & Amortization"
	MetricShares          = "Shares Outstanding"
	MetricTotalDebt       = "Total Debt"
	MetricCash            = "Cash"
)

// MetricSeries is one named financial line item over time, most-recent-first.
// values and periods are parallel and equal-length; quarterly periods are
// distinguished by the "-Q" substring convention.
type MetricSeries struct {
	MetricName string    `json:"metric_name"`
	Values     []float64 `json:"values"`
	Periods    []string  `json:"periods"`
	Unit       string    `json:"unit"`
}

// Latest returns the most recent value of the series.
func (m *MetricSeries) Latest() (float64, bool) {
	if m == nil || len(m.Values) == 0 {
		return 0, false
	}
	return m.Values[0], true
}

// LatestAnnual returns the most recent annual (non-quarterly) value.
func (m *MetricSeries) LatestAnnual() (float64, bool) {
	if m == nil {
		return 0, false
	}
	for i, p := range m.Periods {
		if !IsQuarterPeriod(p) {
			return m.Values[i], true
		}
	}
	return 0, false
}

// AnnualValues returns annual values in series order (most-recent-first).
func (m *MetricSeries) AnnualValues() []float64 {
	if m == nil {
		return nil
	}
	var out []float64
	for i, p := range m.Periods {
		if !IsQuarterPeriod(p) {
			out = append(out, m.Values[i])
		}
	}
	return out
}

// AnnualPoints returns annual (period, value) pairs in series order.
func (m *MetricSeries) AnnualPoints() (periods []string, values []float64) {
	if m == nil {
		return nil, nil
	}
	for i, p := range m.Periods {
		if !IsQuarterPeriod(p) {
			periods = append(periods, p)
			values = append(values, m.Values[i])
		}
	}
	return periods, values
}

// QuarterlyValues returns quarterly values in series order (most-recent-first).
func (m *MetricSeries) QuarterlyValues() []float64 {
	if m == nil {
		return nil
	}
	var out []float64
	for i, p := range m.Periods {
		if IsQuarterPeriod(p) {
			out = append(out, m.Values[i])
		}
	}
	return out
}

// ValueForPeriod looks up the value reported for a canonical period label.
func (m *MetricSeries) ValueForPeriod(period string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	for i, p := range m.Periods {
		if p == period {
			return m.Values[i], true
		}
	}
	return 0, false
}

// IsQuarterPeriod reports whether a canonical period label is quarterly.
// Downstream consumers split series on this substring test rather than a
// separate type tag.
func IsQuarterPeriod(period string) bool {
	return strings.Contains(period, "-Q")
}

// FinancialSummary is the normalized result for one ticker: one MetricSeries
// per recognized concept (revenue first), the deduplicated period sets, and
// provenance metadata. Built once per run; immutable thereafter.
type FinancialSummary struct {
	Ticker           string            `json:"ticker"`
	Metrics          []MetricSeries    `json:"metrics"`
	Periods          []string          `json:"periods"`
	AnnualPeriods    []string          `json:"annual_periods"`
	QuarterlyPeriods []string          `json:"quarterly_periods"`
	TTMPeriod        string            `json:"ttm_period,omitempty"`
	Metadata         map[string]string `json:"metadata"`
}

// Metric returns the series for a canonical metric name, nil when the
// concept was absent from the filings.
func (s *FinancialSummary) Metric(name string) *MetricSeries {
	for i := range s.Metrics {
		if s.Metrics[i].MetricName == name {
			return &s.Metrics[i]
		}
	}
	return nil
}
