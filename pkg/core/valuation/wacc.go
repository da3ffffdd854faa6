package valuation

// WACCInput parameters for the cost-of-capital build-up.
type WACCInput struct {
	RiskFreeRate      float64
	EquityRiskPremium float64
	Beta              float64
	PreTaxCostOfDebt  float64
	TaxRate           float64
	DebtToEquityRatio float64
}

// WACCResult holds the calculated rates.
type WACCResult struct {
	CostOfEquity float64
	CostOfDebt   float64 // after-tax
	WACC         float64
	WeightDebt   float64
	WeightEquity float64
}

// CalculateWACC computes the Weighted Average Cost of Capital using CAPM.
func CalculateWACC(input WACCInput) WACCResult {
	// Cost of Equity (CAPM): Ke = Rf + Beta * ERP
	ke := input.RiskFreeRate + input.Beta*input.EquityRiskPremium

	// Cost of Debt (after-tax): Kd = PreTaxKd * (1 - t)
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	// Weights from D/E: Wd = (D/E)/(1 + D/E), We = 1/(1 + D/E)
	wd := input.DebtToEquityRatio / (1 + input.DebtToEquityRatio)
	we := 1.0 / (1 + input.DebtToEquityRatio)

	return WACCResult{
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         ke*we + kd*wd,
		WeightDebt:   wd,
		WeightEquity: we,
	}
}
