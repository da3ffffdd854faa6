// Package pipeline orchestrates one analysis run end to end: fetch, normalize,
// value, enrich, render, persist. Each run is isolated in its own directory.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunContext identifies one analysis run and owns its output directory.
type RunContext struct {
	RunID   string
	Ticker  string
	Started time.Time
	Dir     string
}

// NewRunContext allocates a run ID and creates the run directory under
// outputDir, named <date>_<TICKER>_<short id>.
func NewRunContext(outputDir, ticker string) (*RunContext, error) {
	id := uuid.NewString()
	started := time.Now()
	name := fmt.Sprintf("%s_%s_%s",
		started.Format("2006-01-02"),
		strings.ToUpper(ticker),
		id[:8],
	)
	dir := filepath.Join(outputDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &RunContext{
		RunID:   id,
		Ticker:  strings.ToUpper(ticker),
		Started: started,
		Dir:     dir,
	}, nil
}

// Path resolves a file name inside the run directory.
func (rc *RunContext) Path(name string) string {
	return filepath.Join(rc.Dir, name)
}
