package financials

import (
	"strconv"

	"equity_analyst/pkg/core/edgar"
)

// AnnualLabel maps an end-of-period date ("2024-09-28") to its canonical
// annual label ("2024").
func AnnualLabel(endDate string) string {
	if len(endDate) < 4 {
		return endDate
	}
	return endDate[:4]
}

// QuarterLabel maps an end-of-period date to its canonical quarterly label,
// e.g. "2024-03-31" -> "2024-Q1". The quarter is derived from the calendar
// month of the period end, not the filer's fiscal quarter number; filers with
// non-calendar fiscal years get calendar-month quarter labels. Known,
// accepted simplification.
func QuarterLabel(endDate string) string {
	if len(endDate) < 7 {
		return endDate
	}
	year := endDate[:4]
	month, err := strconv.Atoi(endDate[5:7])
	if err != nil || month < 1 || month > 12 {
		return endDate
	}
	quarter := (month-1)/3 + 1
	return year + "-Q" + strconv.Itoa(quarter)
}

// PeriodLabel picks the canonical label for a raw entry based on its fiscal
// period code.
func PeriodLabel(entry edgar.FactEntry) string {
	if entry.FP == "FY" {
		return AnnualLabel(entry.End)
	}
	return QuarterLabel(entry.End)
}

// TTM sums the four most recent quarterly entries (already sorted descending
// by end date). Returns false when fewer than four quarters exist, in which
// case no TTM is produced and base-year selection falls back to the latest
// annual value.
func TTM(quarterly []edgar.FactEntry) (float64, bool) {
	if len(quarterly) < 4 {
		return 0, false
	}
	var sum float64
	for _, entry := range quarterly[:4] {
		sum += entry.Val
	}
	return sum, true
}

// TTMLabel builds the TTM period identifier from the most recent quarterly
// period label, e.g. "TTM-2024-Q3".
func TTMLabel(latestQuarter string) string {
	return "TTM-" + latestQuarter
}
