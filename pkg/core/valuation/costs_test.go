package valuation

import (
	"strconv"
	"testing"

	"equity_analyst/pkg/core/financials"
)

func annualSeries(name string, values ...float64) *financials.MetricSeries {
	s := &financials.MetricSeries{MetricName: name, Unit: "USD"}
	year := 2024
	for _, v := range values {
		s.Values = append(s.Values, v)
		s.Periods = append(s.Periods, strconv.Itoa(year))
		year--
	}
	return s
}

func TestEstimateCostStructureDefaults(t *testing.T) {
	d := StandardDefaults()
	cs := EstimateCostStructure(annualSeries(financials.MetricRevenue, 1000, 900, 800), nil, nil, d)

	if cs.CogsExDaPct != d.CogsExDaPct || cs.SgaPct != d.SgaPct {
		t.Errorf("without history the defaults must hold: %+v", cs)
	}
	if cs.FromOperatingHistory || cs.CapexFromHistory {
		t.Error("provenance flags must be false without history")
	}
	if cs.NwcPct != d.NwcPct || cs.DaPct != d.DaPct || cs.SbcPct != d.SbcPct {
		t.Errorf("fixed ratios changed unexpectedly: %+v", cs)
	}
}

func TestEstimateCostStructureFromOperatingMargin(t *testing.T) {
	d := StandardDefaults()
	revenue := annualSeries(financials.MetricRevenue, 1000, 1000, 1000)
	// 15% operating margin every year
	opInc := annualSeries(financials.MetricOperatingIncome, 150, 150, 150)

	cs := EstimateCostStructure(revenue, opInc, nil, d)
	if !cs.FromOperatingHistory {
		t.Fatal("expected margin-derived cost structure")
	}
	// combined = 1 - 0.15 - 0.03 = 0.82, split 60/40
	if !approxEqual(cs.CogsExDaPct, 0.82*0.60) {
		t.Errorf("CogsExDaPct = %v, want %v", cs.CogsExDaPct, 0.82*0.60)
	}
	if !approxEqual(cs.SgaPct, 0.82*0.40) {
		t.Errorf("SgaPct = %v, want %v", cs.SgaPct, 0.82*0.40)
	}
}

func TestEstimateCostStructureCapexFromHistory(t *testing.T) {
	d := StandardDefaults()
	revenue := annualSeries(financials.MetricRevenue, 1000, 1000, 1000)
	capex := annualSeries(financials.MetricCapex, 40, 60, 50)

	cs := EstimateCostStructure(revenue, nil, capex, d)
	if !cs.CapexFromHistory {
		t.Fatal("expected capex ratio from history")
	}
	if !approxEqual(cs.CapexPct, 0.05) {
		t.Errorf("CapexPct = %v, want 0.05", cs.CapexPct)
	}
}

func TestEstimateCostStructureRequiresThreeYears(t *testing.T) {
	d := StandardDefaults()
	revenue := annualSeries(financials.MetricRevenue, 1000, 1000)
	opInc := annualSeries(financials.MetricOperatingIncome, 150, 150)

	cs := EstimateCostStructure(revenue, opInc, nil, d)
	if cs.FromOperatingHistory {
		t.Error("two years of history must not trigger the margin backout")
	}
}
