package valuation

import "math"

// Grid offsets around the base rates: WACC +/-1% and +/-2%, terminal growth
// +/-0.5% and +/-1%.
var (
	waccOffsets   = []float64{-0.02, -0.01, 0, 0.01, 0.02}
	growthOffsets = []float64{-0.01, -0.005, 0, 0.005, 0.01}
)

// BuildSensitivity recomputes fair value per share across the WACC x
// terminal-growth grid without re-running the operating forecast: the cost
// structure and revenue projections are held fixed, and only the terminal
// value step is re-evaluated per cell.
//
// The explicit-period PV sum is reused unchanged across WACC rows rather
// than re-discounted at each row's rate, matching the single-point result
// at the center cell. Cells where wacc <= growth are emitted as 0 to avoid
// division degeneracy.
func BuildSensitivity(forecast []OperatingForecast, baseWACC, baseGrowth, sharesOut, netDebt float64) SensitivityTable {
	table := SensitivityTable{
		WACCs:           make([]float64, len(waccOffsets)),
		TerminalGrowths: make([]float64, len(growthOffsets)),
		FairValues:      make([][]float64, len(waccOffsets)),
	}
	for i, off := range waccOffsets {
		table.WACCs[i] = baseWACC + off
	}
	for j, off := range growthOffsets {
		table.TerminalGrowths[j] = baseGrowth + off
	}

	var pvSum, finalUfcf float64
	for _, year := range forecast {
		pvSum += year.PvUfcf
	}
	if n := len(forecast); n > 0 {
		finalUfcf = forecast[n-1].UnleveredFcf
	}
	horizon := len(forecast)

	for i, wacc := range table.WACCs {
		row := make([]float64, len(table.TerminalGrowths))
		for j, growth := range table.TerminalGrowths {
			if wacc <= growth || sharesOut <= 0 {
				row[j] = 0
				continue
			}
			terminal := finalUfcf * (1 + growth) / (wacc - growth)
			pvTerminal := terminal / math.Pow(1+wacc, float64(horizon))
			equity := pvSum + pvTerminal - netDebt
			row[j] = equity / sharesOut
		}
		table.FairValues[i] = row
	}
	return table
}
