package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"equity_analyst/pkg/core/financials"
	"equity_analyst/pkg/core/valuation"
)

// RunRepo stores the outputs of one analysis run keyed by ticker.
type RunRepo struct{}

// NewRunRepo creates a new repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// RunRecord is the JSONB payload persisted per ticker: the normalized
// financials and the valuation output, plus run identity.
type RunRecord struct {
	RunID     string                       `json:"run_id"`
	Summary   *financials.FinancialSummary `json:"financial_summary"`
	Valuation *valuation.ValuationOutput   `json:"valuation"`
}

// Save upserts the run for its ticker, replacing any earlier run.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS valuation_runs (
//   ticker TEXT PRIMARY KEY,
//   cik TEXT,
//   run_id TEXT,
//   run_json JSONB,
//   updated_at TIMESTAMPTZ
// );
func (r *RunRepo) Save(ctx context.Context, record *RunRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if record.Summary == nil {
		return fmt.Errorf("run record has no financial summary")
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	query := `
		INSERT INTO valuation_runs (ticker, cik, run_id, run_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker)
		DO UPDATE SET
			cik = EXCLUDED.cik,
			run_id = EXCLUDED.run_id,
			run_json = EXCLUDED.run_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query,
		record.Summary.Ticker,
		record.Summary.Metadata["cik"],
		record.RunID,
		jsonData,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves the stored run for a ticker.
func (r *RunRepo) Load(ctx context.Context, ticker string) (*RunRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT run_json FROM valuation_runs WHERE ticker = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, ticker).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no run found for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}
