// Command analyst runs a DCF valuation for a ticker from SEC XBRL data.
//
// Usage:
//
//	analyst analyze AAPL [flags]
//	analyst clear-cache
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"equity_analyst/pkg/core/config"
	"equity_analyst/pkg/core/edgar"
	"equity_analyst/pkg/core/financials"
	"equity_analyst/pkg/core/logging"
	"equity_analyst/pkg/core/news"
	"equity_analyst/pkg/core/pipeline"
	"equity_analyst/pkg/core/pricing"
	"equity_analyst/pkg/core/store"
	"equity_analyst/pkg/core/valuation"
)

func main() {
	// Load environment variables
	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		if err := runAnalyze(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "clear-cache":
		if err := runClearCache(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  analyst analyze TICKER [--risk moderate] [--horizon 5y] [--terminal gordon]")
	fmt.Fprintln(os.Stderr, "                         [--defaults file.yaml] [--overrides file.hjson]")
	fmt.Fprintln(os.Stderr, "                         [--output-dir runs] [--no-price] [--no-news]")
	fmt.Fprintln(os.Stderr, "  analyst clear-cache")
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	risk := fs.String("risk", valuation.RiskModerate, "risk profile: conservative, moderate, aggressive")
	horizon := fs.String("horizon", "5y", "forecast horizon, e.g. 5 or 5y")
	terminal := fs.String("terminal", valuation.TerminalGordon, "terminal value method")
	defaultsPath := fs.String("defaults", "", "YAML file overriding the standard valuation policy")
	overridesPath := fs.String("overrides", "", "HJSON file with per-run analyst overrides")
	outputDir := fs.String("output-dir", "", "run output directory (default from OUTPUT_DIR or runs)")
	noPrice := fs.Bool("no-price", false, "skip the market price lookup")
	noNews := fs.Bool("no-news", false, "skip the headline scrape")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		return fmt.Errorf("analyze requires exactly one ticker")
	}
	ticker := strings.ToUpper(fs.Arg(0))

	horizonYears, err := parseHorizon(*horizon)
	if err != nil {
		return err
	}
	if *terminal != valuation.TerminalGordon {
		return fmt.Errorf("unsupported terminal method %q", *terminal)
	}

	cfg := config.Load()
	if *outputDir == "" {
		*outputDir = cfg.OutputDir
	}

	defaults, err := config.LoadDefaults(*defaultsPath)
	if err != nil {
		return err
	}
	if *overridesPath != "" {
		overrides, err := config.LoadOverrides(*overridesPath)
		if err != nil {
			return err
		}
		overrides.Apply(&defaults)
	}

	rc, err := pipeline.NewRunContext(*outputDir, ticker)
	if err != nil {
		return err
	}
	log, err := logging.New(rc.Dir)
	if err != nil {
		return err
	}
	defer log.Sync()

	userAgent := cfg.SECUserAgent
	if userAgent == "" {
		userAgent = edgar.DefaultUserAgent
		log.Warnw("SEC_USER_AGENT not set, using default; set it to identify your traffic to the SEC")
	}

	cache := edgar.NewFileCache()
	if cfg.CacheDir != "" {
		cache = edgar.NewFileCacheWithDir(cfg.CacheDir)
	}
	client := edgar.NewClient(userAgent, cache)
	normalizer := financials.NewNormalizer(client, client)
	engine := valuation.NewEngine(*risk, horizonYears, defaults)

	var prices pipeline.PriceSource
	if !*noPrice {
		prices = pricing.NewClient()
	}
	var headlines pipeline.HeadlineSource
	if !*noNews {
		headlines = news.NewScraper()
	}

	ctx := context.Background()
	var repo pipeline.RunStore
	if cfg.DatabaseURL != "" {
		if err := store.InitDB(ctx); err != nil {
			log.Warnw("database init failed, persistence disabled", "error", err)
		} else {
			defer store.Close()
			repo = store.NewRunRepo()
		}
	}

	orch := pipeline.NewOrchestrator(normalizer, engine, prices, headlines, repo, log)
	result, err := orch.Run(ctx, rc)
	if err != nil {
		return err
	}

	fmt.Printf("Fair value per share: $%.2f\n", result.FairValuePerShare)
	if result.CurrentPrice > 0 {
		fmt.Printf("Current price:        $%.2f\n", result.CurrentPrice)
	}
	fmt.Printf("Artifacts in %s:\n", result.Dir)
	for _, name := range result.Artifacts {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runClearCache() error {
	cfg := config.Load()
	cache := edgar.NewFileCache()
	if cfg.CacheDir != "" {
		cache = edgar.NewFileCacheWithDir(cfg.CacheDir)
	}
	if err := cache.ClearCache(); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}

// parseHorizon accepts "5" or "5y".
func parseHorizon(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(s)), "y")
	years, err := strconv.Atoi(s)
	if err != nil || years < 1 {
		return 0, fmt.Errorf("invalid horizon %q: expected a positive year count like 5 or 5y", s)
	}
	return years, nil
}
