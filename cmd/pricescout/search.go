package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/database"
	"github.com/pricescout/pricescout/internal/engine"
	"github.com/pricescout/pricescout/internal/log"
	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/money"
	"github.com/pricescout/pricescout/internal/provider"
	"github.com/pricescout/pricescout/internal/report"
	"github.com/pricescout/pricescout/internal/scraper"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search configured sources for product offers",
		Long: `Search queries every configured source site in parallel, normalizes
the collected offers into a single currency, merges duplicate listings
and prints the results ranked by relevance, reliability, and price.

Examples:
  # Search all US sources
  pricescout search "iPhone 16 Pro"

  # Search German sources, prices in euro
  pricescout search --country DE --currency EUR "thinkpad x1 carbon"

  # Only ask specific sources
  pricescout search --include amazon,bestbuy "sony wh-1000xm5"

  # JSON report written to a file
  pricescout search --json -o report.json "airpods pro"

Configuration file (.pricescout) example:
  sites:
    - name: amazon
      searchUrl: "https://www.amazon.com/s?k={query}"
      currency: USD
      countries:
        US: 1
      selectors:
        offer: "div.s-result-item"
        name: "span.a-text-normal"
        price: "span.a-offscreen"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	// Search scope flags
	cmd.Flags().StringP("country", "C", "US",
		"ISO 3166-1 country code to search in")
	cmd.Flags().IntP("max-results", "n", config.DefaultMaxResults,
		"Maximum number of results to return (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Total wall-clock budget for the search")
	cmd.Flags().StringP("currency", "u", config.DefaultTargetCurrency,
		"ISO 4217 currency code to normalize prices to")
	cmd.Flags().StringSliceP("include", "i", nil,
		"Only query these sources (comma-separated names)")
	cmd.Flags().StringSliceP("exclude", "x", nil,
		"Skip these sources (comma-separated names)")

	// Tuning flags
	cmd.Flags().IntP("concurrency", "b", config.DefaultMaxConcurrent,
		"Maximum number of sources queried at once")
	cmd.Flags().Float64("threshold", config.DefaultDuplicateThreshold,
		"Name-similarity threshold for merging duplicate offers (0..1]")
	cmd.Flags().Float64("price-variance", config.DefaultPriceVariance,
		"Relative price gap that makes similarly named offers suspect [0..1)")
	cmd.Flags().Duration("delay", config.DefaultRateLimitDelay,
		"Politeness delay between requests to the same site")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pricescout in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this search in the history database")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runSearch(ctx, cfg, logger, cmd, args[0])
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxResults, err = cmd.Flags().GetInt("max-results")
	if err != nil {
		return nil, err
	}

	cfg.TargetCurrency, err = cmd.Flags().GetString("currency")
	if err != nil {
		return nil, err
	}
	cfg.TargetCurrency = strings.ToUpper(strings.TrimSpace(cfg.TargetCurrency))

	cfg.MaxConcurrent, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.DuplicateThreshold, err = cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return nil, err
	}

	cfg.PriceVariance, err = cmd.Flags().GetFloat64("price-variance")
	if err != nil {
		return nil, err
	}

	cfg.RateLimitDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site definitions from the config file.
	// An explicitly given path that doesn't exist is an error; the
	// default lookup falling through to nothing is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.File = &config.File{
			Reliability: make(map[string]float64),
			Rates:       make(map[string]float64),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noSave
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// The redacting handler keeps API keys from site headers out of logs.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return log.NewRedactLogger(os.Stderr, level)
}

// runSearch executes the search.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger, cmd *cobra.Command, query string) error {
	if len(cfg.File.Sites) == 0 {
		return errors.New("no sources configured (run 'pricescout init' to create a starter .pricescout file)")
	}

	include, err := cmd.Flags().GetStringSlice("include")
	if err != nil {
		return err
	}
	exclude, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return err
	}

	logger.Info("starting search",
		"query", query,
		"sources", len(cfg.File.Sites),
		"maxConcurrent", cfg.MaxConcurrent,
		"saveHistory", cfg.SaveHistory,
	)

	registry := buildRegistry(cfg, logger)
	converter := money.NewRateTable(cfg.File.Rates)

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMaxConcurrent(cfg.MaxConcurrent),
		engine.WithDuplicateThreshold(cfg.DuplicateThreshold),
		engine.WithPriceVariance(cfg.PriceVariance),
	}
	if len(cfg.File.Reliability) > 0 {
		engineOpts = append(engineOpts, engine.WithReliability(cfg.File.Reliability))
	}
	eng := engine.New(registry, converter, engineOpts...)

	country, err := cmd.Flags().GetString("country")
	if err != nil {
		return err
	}

	req := model.SearchRequest{
		Query:          query,
		Country:        strings.ToUpper(strings.TrimSpace(country)),
		MaxResults:     cfg.MaxResults,
		Timeout:        cfg.Timeout,
		TargetCurrency: cfg.TargetCurrency,
		IncludeSources: include,
		ExcludeSources: exclude,
	}

	resp, err := eng.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if err := outputReport(cfg, resp); err != nil {
		return err
	}

	if cfg.SaveHistory {
		if err := saveSearch(ctx, cfg, resp, logger); err != nil {
			// History is best effort; a broken database must not eat
			// results already printed.
			logger.Error("failed to save search history", "error", err)
		}
	}

	return nil
}

// buildRegistry turns the configured sites into registered providers.
func buildRegistry(cfg *config.Config, logger *slog.Logger) *provider.Registry {
	client := &http.Client{Timeout: cfg.Timeout}

	registry := provider.NewRegistry(provider.WithRegistryLogger(logger))
	for _, site := range cfg.File.Sites {
		registry.Register(scraper.NewSite(site, client,
			scraper.WithUserAgent(cfg.UserAgent),
			scraper.WithMaxBodySize(cfg.MaxBodySize),
			scraper.WithRateLimitDelay(cfg.RateLimitDelay),
			scraper.WithSiteLogger(logger),
		))
	}
	return registry
}

// outputReport writes the search response in the requested format.
func outputReport(cfg *config.Config, resp *model.SearchResponse) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(resp)
	return err
}

// saveSearch records the search in the history database.
func saveSearch(ctx context.Context, cfg *config.Config, resp *model.SearchResponse, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	id, err := db.SaveSearch(ctx, resp)
	if err != nil {
		return err
	}

	logger.Info("search saved to history", "id", id, "dir", cfg.DBDir)
	return nil
}
