package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"equity_analyst/pkg/core/financials"
	"equity_analyst/pkg/core/news"
	"equity_analyst/pkg/core/report"
	"equity_analyst/pkg/core/store"
	"equity_analyst/pkg/core/valuation"
)

// Analyzer produces a normalized FinancialSummary for a ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*financials.FinancialSummary, error)
}

// PriceSource returns the latest traded price for a ticker.
type PriceSource interface {
	CurrentPrice(ctx context.Context, ticker string) (float64, error)
}

// HeadlineSource returns recent headlines for a ticker.
type HeadlineSource interface {
	RecentHeadlines(ctx context.Context, ticker string) ([]news.Headline, error)
}

// RunStore persists a completed run.
type RunStore interface {
	Save(ctx context.Context, record *store.RunRecord) error
}

// Orchestrator wires the stages of one analysis run. Financials and valuation
// are mandatory; price, headlines, and database persistence are best-effort.
type Orchestrator struct {
	analyzer  Analyzer
	engine    *valuation.Engine
	prices    PriceSource    // nil disables price lookup
	headlines HeadlineSource // nil disables news
	repo      RunStore       // nil disables persistence
	log       *zap.SugaredLogger
}

// NewOrchestrator creates an orchestrator. prices, headlines, and repo may be
// nil to skip the corresponding stage.
func NewOrchestrator(analyzer Analyzer, engine *valuation.Engine, prices PriceSource, headlines HeadlineSource, repo RunStore, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		analyzer:  analyzer,
		engine:    engine,
		prices:    prices,
		headlines: headlines,
		repo:      repo,
		log:       log,
	}
}

// RunResult summarizes a completed run for the caller.
type RunResult struct {
	RunID             string
	Dir               string
	FairValuePerShare float64
	CurrentPrice      float64
	Artifacts         []string
}

// Run executes the full pipeline for one ticker, writing all artifacts into
// the run directory. A normalization or valuation failure aborts the run;
// enrichment failures are logged and skipped.
func (o *Orchestrator) Run(ctx context.Context, rc *RunContext) (*RunResult, error) {
	start := time.Now()
	o.log.Infow("starting analysis run", "ticker", rc.Ticker, "run_id", rc.RunID)

	summary, err := o.analyzer.Analyze(ctx, rc.Ticker)
	if err != nil {
		return nil, fmt.Errorf("financial normalization failed: %w", err)
	}
	o.log.Infow("financials normalized",
		"ticker", rc.Ticker,
		"annual_periods", len(summary.AnnualPeriods),
		"quarterly_periods", len(summary.QuarterlyPeriods),
		"ttm", summary.TTMPeriod,
	)

	output, err := o.engine.Valuate(summary)
	if err != nil {
		return nil, fmt.Errorf("valuation failed: %w", err)
	}
	o.log.Infow("valuation complete",
		"ticker", rc.Ticker,
		"fair_value_per_share", output.Results.FairValuePerShare,
		"wacc", output.Assumptions.WACC,
	)

	price := o.fetchPrice(ctx, rc.Ticker)
	headlines := o.fetchHeadlines(ctx, rc.Ticker)

	artifacts := NewArtifactWriter(rc)
	if err := artifacts.WriteJSON("financial_summary.json", summary); err != nil {
		return nil, err
	}
	if err := artifacts.WriteJSON("valuation.json", output); err != nil {
		return nil, err
	}
	if len(headlines) > 0 {
		if err := artifacts.WriteJSON("headlines.json", headlines); err != nil {
			return nil, err
		}
	}

	memoInput := report.MemoInput{
		Ticker:       rc.Ticker,
		EntityName:   summary.Metadata["entity_name"],
		Risk:         o.engine.Risk,
		RunDate:      rc.Started,
		Summary:      summary,
		Output:       output,
		CurrentPrice: price,
		Headlines:    headlines,
	}
	memo, err := report.RenderMemo(memoInput)
	if err != nil {
		return nil, fmt.Errorf("memo rendering failed: %w", err)
	}
	if err := artifacts.WriteBytes("memo.md", []byte(memo)); err != nil {
		return nil, err
	}
	html, err := report.RenderHTML(memo)
	if err != nil {
		return nil, fmt.Errorf("HTML rendering failed: %w", err)
	}
	if err := artifacts.WriteBytes("memo.html", []byte(html)); err != nil {
		return nil, err
	}

	var workbook bytes.Buffer
	if err := report.WriteWorkbook(&workbook, rc.Ticker, output); err != nil {
		return nil, fmt.Errorf("workbook rendering failed: %w", err)
	}
	if err := artifacts.WriteBytes("workbook.csv", workbook.Bytes()); err != nil {
		return nil, err
	}

	if err := artifacts.WriteManifest(); err != nil {
		return nil, err
	}

	o.persist(ctx, rc, summary, output)

	o.log.Infow("analysis run complete",
		"ticker", rc.Ticker,
		"run_id", rc.RunID,
		"dir", rc.Dir,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return &RunResult{
		RunID:             rc.RunID,
		Dir:               rc.Dir,
		FairValuePerShare: output.Results.FairValuePerShare,
		CurrentPrice:      price,
		Artifacts:         artifacts.ArtifactNames(),
	}, nil
}

func (o *Orchestrator) fetchPrice(ctx context.Context, ticker string) float64 {
	if o.prices == nil {
		return 0
	}
	price, err := o.prices.CurrentPrice(ctx, ticker)
	if err != nil {
		o.log.Warnw("price lookup failed, memo omits market comparison", "ticker", ticker, "error", err)
		return 0
	}
	o.log.Infow("price fetched", "ticker", ticker, "price", price)
	return price
}

func (o *Orchestrator) fetchHeadlines(ctx context.Context, ticker string) []news.Headline {
	if o.headlines == nil {
		return nil
	}
	headlines, err := o.headlines.RecentHeadlines(ctx, ticker)
	if err != nil {
		o.log.Warnw("headline scrape failed, memo omits news", "ticker", ticker, "error", err)
		return nil
	}
	return headlines
}

func (o *Orchestrator) persist(ctx context.Context, rc *RunContext, summary *financials.FinancialSummary, output *valuation.ValuationOutput) {
	if o.repo == nil {
		return
	}
	record := &store.RunRecord{
		RunID:     rc.RunID,
		Summary:   summary,
		Valuation: output,
	}
	if err := o.repo.Save(ctx, record); err != nil {
		o.log.Warnw("database persistence failed, artifacts remain on disk", "ticker", rc.Ticker, "error", err)
		return
	}
	o.log.Infow("run persisted", "ticker", rc.Ticker)
}
