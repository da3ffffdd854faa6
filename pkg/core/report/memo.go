// Package report renders analysis output into human-readable artifacts:
// a markdown valuation memo (with an HTML rendering) and a CSV workbook.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"

	"equity_analyst/pkg/core/financials"
	"equity_analyst/pkg/core/news"
	"equity_analyst/pkg/core/valuation"
)

// MemoInput carries everything the memo template needs.
type MemoInput struct {
	Ticker       string
	EntityName   string
	Risk         string
	RunDate      time.Time
	Summary      *financials.FinancialSummary
	Output       *valuation.ValuationOutput
	CurrentPrice float64 // 0 when price lookup failed
	Headlines    []news.Headline
}

const memoTemplate = `# Valuation Memo: {{.Ticker}}

**Entity:** {{.EntityName}}
**Date:** {{.RunDate.Format "2006-01-02"}}
**Risk profile:** {{.Risk}} | **Horizon:** {{.Horizon}} years | **Terminal method:** {{.Terminal}}

## Verdict

Fair value per share: **${{printf "%.2f" .FairValue}}**
{{- if gt .CurrentPrice 0.0}}
Current price: ${{printf "%.2f" .CurrentPrice}} ({{.UpsideLabel}}: {{printf "%+.1f" .UpsidePct}}%)
{{- end}}

| Metric | Value |
|---|---|
| Enterprise value | ${{printf "%.0f" .EnterpriseValueM}}M |
| Equity value | ${{printf "%.0f" .EquityValueM}}M |
| PV of forecast UFCF | ${{printf "%.0f" .PvUfcfSumM}}M |
| PV of terminal value | ${{printf "%.0f" .PvTerminalM}}M |
| Net debt | ${{printf "%.0f" .NetDebtM}}M |
| WACC | {{printf "%.2f" .WaccPct}}% |
| Terminal growth | {{printf "%.2f" .TerminalGrowthPct}}% |

## Key Assumptions

| Assumption | Value | Confidence |
|---|---|---|
| Base revenue ({{.BaseYear}}) | ${{printf "%.0f" .BaseRevenueM}}M | {{.Conf "base_revenue"}} |
| Year 1 revenue growth | {{printf "%.1f" .Year1GrowthPct}}% | {{.Conf "revenue_growth"}} |
| COGS % of revenue | {{printf "%.1f" .CogsPct}}% | {{.Conf "cogs_pct"}} |
| SG&A % of revenue | {{printf "%.1f" .SgaPct}}% | {{.Conf "sga_pct"}} |
| Capex % of revenue | {{printf "%.1f" .CapexPct}}% | {{.Conf "capex_pct"}} |
| Shares outstanding | {{printf "%.0f" .SharesM}}M | {{.Conf "shares_out"}} |
| Net debt | ${{printf "%.0f" .NetDebtM}}M | {{.Conf "net_debt"}} |

Growth fade: {{.FadeMethod}}.

## Forecast

| Year | Revenue ($M) | EBIT ($M) | UFCF ($M) | PV UFCF ($M) |
|---|---|---|---|---|
{{- range .ForecastRows}}
| {{.Year}} | {{printf "%.0f" .Revenue}} | {{printf "%.0f" .Ebit}} | {{printf "%.0f" .Ufcf}} | {{printf "%.0f" .Pv}} |
{{- end}}

## Sensitivity (fair value per share)

WACC down the rows, terminal growth across the columns.

| WACC \ g | {{range .GrowthCols}}{{.}} | {{end}}
|---|{{range .GrowthCols}}---|{{end}}
{{- range .SensitivityRows}}
| {{.Wacc}} | {{range .Values}}{{.}} | {{end}}
{{- end}}
{{- if .Headlines}}

## Recent Headlines

{{- range .Headlines}}
- [{{.Title}}]({{.URL}})
{{- end}}
{{- end}}

## Data Provenance

- Source: {{.Source}}
- CIK: {{.CIK}}
- Periods covered: {{.PeriodCount}} ({{.AnnualCount}} annual, {{.QuarterlyCount}} quarterly)
{{- if .TTMPeriod}}
- Trailing twelve months: {{.TTMPeriod}}
{{- end}}
`

type forecastRow struct {
	Year    string
	Revenue float64
	Ebit    float64
	Ufcf    float64
	Pv      float64
}

type sensitivityRow struct {
	Wacc   string
	Values []string
}

type memoData struct {
	MemoInput
	Horizon           int
	Terminal          string
	FadeMethod        string
	FairValue         float64
	UpsidePct         float64
	UpsideLabel       string
	EnterpriseValueM  float64
	EquityValueM      float64
	PvUfcfSumM        float64
	PvTerminalM       float64
	NetDebtM          float64
	WaccPct           float64
	TerminalGrowthPct float64
	BaseYear          string
	BaseRevenueM      float64
	Year1GrowthPct    float64
	CogsPct           float64
	SgaPct            float64
	CapexPct          float64
	SharesM           float64
	ForecastRows      []forecastRow
	GrowthCols        []string
	SensitivityRows   []sensitivityRow
	Source            string
	CIK               string
	PeriodCount       int
	AnnualCount       int
	QuarterlyCount    int
	TTMPeriod         string
}

// Conf looks up the confidence label for an assumption, defaulting to LOW.
func (d memoData) Conf(name string) string {
	if c, ok := d.Output.Assumptions.Confidence[name]; ok {
		return string(c)
	}
	return string(valuation.ConfidenceLow)
}

// RenderMemo produces the markdown memo for a completed analysis.
func RenderMemo(in MemoInput) (string, error) {
	if in.Output == nil || in.Summary == nil {
		return "", fmt.Errorf("memo requires both financials and valuation output")
	}

	a := in.Output.Assumptions
	r := in.Output.Results
	data := memoData{
		MemoInput:         in,
		Horizon:           a.HorizonYears,
		Terminal:          a.TerminalMethod,
		FadeMethod:        a.FadeMethod,
		FairValue:         r.FairValuePerShare,
		EnterpriseValueM:  r.TotalEnterpriseValue / 1e6,
		EquityValueM:      r.EquityValue / 1e6,
		PvUfcfSumM:        (r.TotalEnterpriseValue - r.PvTerminalValue) / 1e6,
		PvTerminalM:       r.PvTerminalValue / 1e6,
		NetDebtM:          a.NetDebt / 1e6,
		WaccPct:           a.WACC * 100,
		TerminalGrowthPct: a.TerminalGrowthRate * 100,
		BaseYear:          a.BaseYear,
		BaseRevenueM:      a.BaseYearRevenue / 1e6,
		SharesM:           a.SharesOut / 1e6,
		Source:            in.Summary.Metadata["source"],
		CIK:               in.Summary.Metadata["cik"],
		PeriodCount:       len(in.Summary.Periods),
		AnnualCount:       len(in.Summary.AnnualPeriods),
		QuarterlyCount:    len(in.Summary.QuarterlyPeriods),
		TTMPeriod:         in.Summary.TTMPeriod,
	}
	if len(a.RevenueGrowthRates) > 0 {
		data.Year1GrowthPct = a.RevenueGrowthRates[0] * 100
	}
	if len(a.CogsExDaPctRev) > 0 {
		data.CogsPct = a.CogsExDaPctRev[0] * 100
	}
	if len(a.SgaPctRev) > 0 {
		data.SgaPct = a.SgaPctRev[0] * 100
	}
	if len(a.CapexPctRev) > 0 {
		data.CapexPct = a.CapexPctRev[0] * 100
	}
	if in.CurrentPrice > 0 {
		data.UpsidePct = (r.FairValuePerShare/in.CurrentPrice - 1) * 100
		data.UpsideLabel = "Upside"
		if data.UpsidePct < 0 {
			data.UpsideLabel = "Downside"
		}
	}

	for _, year := range r.OperatingForecast {
		data.ForecastRows = append(data.ForecastRows, forecastRow{
			Year:    year.Year,
			Revenue: year.Revenue / 1e6,
			Ebit:    year.Ebit / 1e6,
			Ufcf:    year.UnleveredFcf / 1e6,
			Pv:      year.PvUfcf / 1e6,
		})
	}

	data.GrowthCols, data.SensitivityRows = sensitivityGrid(in.Output.Sensitivity)

	tmpl, err := template.New("memo").Parse(memoTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse memo template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render memo: %w", err)
	}
	return buf.String(), nil
}

// RenderHTML converts the markdown memo to a standalone HTML document.
func RenderHTML(markdown string) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("failed to convert memo to HTML: %w", err)
	}
	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	doc.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto;padding:0 1em}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>\n")
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}

func sensitivityGrid(grid map[string]map[string]float64) ([]string, []sensitivityRow) {
	waccKeys := sortedKeys(grid)
	var growthKeys []string
	if len(waccKeys) > 0 {
		growthKeys = sortedKeys(grid[waccKeys[0]])
	}

	var rows []sensitivityRow
	for _, w := range waccKeys {
		row := sensitivityRow{Wacc: w}
		for _, g := range growthKeys {
			row.Values = append(row.Values, fmt.Sprintf("%.2f", grid[w][g]))
		}
		rows = append(rows, row)
	}
	return growthKeys, rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
