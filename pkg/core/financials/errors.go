package financials

import "fmt"

// MissingMandatoryDataError indicates that a mandatory concept (revenue) was
// absent entirely from the filings. Unrecoverable for the run.
type MissingMandatoryDataError struct {
	Ticker string
	Metric string
}

func (e *MissingMandatoryDataError) Error() string {
	return fmt.Sprintf("%s data missing for %s - cannot proceed without %s",
		e.Metric, e.Ticker, e.Metric)
}

// InsufficientHistoryError indicates too few distinct periods across all
// extracted metrics to support a credible CAGR and TTM. Unrecoverable for
// this ticker; carries the actual vs required counts for diagnosis.
type InsufficientHistoryError struct {
	AnnualCount    int
	QuarterlyCount int
	MinAnnual      int
	MinQuarterly   int
}

func (e *InsufficientHistoryError) Error() string {
	if e.AnnualCount < e.MinAnnual {
		return fmt.Sprintf("insufficient annual data: %d periods (need at least %d)",
			e.AnnualCount, e.MinAnnual)
	}
	return fmt.Sprintf("insufficient quarterly data: %d periods (need at least %d)",
		e.QuarterlyCount, e.MinQuarterly)
}
