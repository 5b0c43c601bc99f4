package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of typical retail sites and the defaults the
// search engine was tuned with; all of them can be overridden via CLI flags.
const (
	// DefaultMaxConcurrent bounds simultaneous in-flight provider fetches.
	// Ten keeps total search latency low without hammering the local
	// network or tripping per-IP rate limits on the sources.
	DefaultMaxConcurrent = 10

	// DefaultTimeout is the total wall-clock budget for one search.
	// The budget is divided evenly across the selected providers, so a
	// search over six providers gives each one ten seconds.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxResults caps the response size. 0 means unlimited.
	DefaultMaxResults = 50

	// DefaultTargetCurrency is the currency offers are normalized to.
	DefaultTargetCurrency = "USD"

	// DefaultDuplicateThreshold is the minimum name similarity for two
	// offers to be considered the same product. 0.85 keeps color and
	// storage variants apart while still merging retailer title noise.
	DefaultDuplicateThreshold = 0.85

	// DefaultPriceVariance is the relative price gap above which two
	// similarly named offers are treated with suspicion: the duplicate
	// threshold is raised by 0.05 when the gap exceeds this bound.
	DefaultPriceVariance = 0.15

	// DefaultRateLimitDelay is the politeness delay between requests to
	// the same site during scraping.
	DefaultRateLimitDelay = 2 * time.Second

	// DefaultUserAgent identifies pricescout in HTTP requests.
	DefaultUserAgent = "pricescout/1.0 (+https://github.com/pricescout/pricescout)"

	// DefaultMaxBodySize limits the response body size read from a
	// source page. 5MB covers any realistic search results page while
	// preventing memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "pricescout"
)

// Config holds all configuration options for pricescout.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// MaxConcurrent is the maximum number of provider fetches in flight
	// at once. A new provider starts only when a slot frees.
	MaxConcurrent int

	// Timeout is the total wall-clock budget for one search.
	Timeout time.Duration

	// MaxResults caps the number of offers in the response. 0 = unlimited.
	MaxResults int

	// TargetCurrency is the ISO 4217 code to normalize prices to.
	TargetCurrency string

	// DuplicateThreshold is the name-similarity threshold for merging
	// two offers into one duplicate group.
	DuplicateThreshold float64

	// PriceVariance is the relative price gap that raises the duplicate
	// threshold (and gates group membership during clustering).
	PriceVariance float64

	// RateLimitDelay is the per-site delay between scraper requests.
	RateLimitDelay time.Duration

	// UserAgent is the User-Agent header sent with scraper requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pricescout in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// File holds the loaded configuration file contents (site
	// definitions, reliability overrides, currency rates).
	File *File

	// JSONReport enables JSON output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory for the SQLite search history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveHistory indicates whether searches are recorded in the
	// history database.
	SaveHistory bool
}

// NewConfig creates a Config with default values.
// Many defaults are non-zero, so relying on zero values would be wrong;
// this constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxConcurrent:      DefaultMaxConcurrent,
		Timeout:            DefaultTimeout,
		MaxResults:         DefaultMaxResults,
		TargetCurrency:     DefaultTargetCurrency,
		DuplicateThreshold: DefaultDuplicateThreshold,
		PriceVariance:      DefaultPriceVariance,
		RateLimitDelay:     DefaultRateLimitDelay,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
		SaveHistory:        true,
	}
}

// XDGDataDir returns the XDG data directory for pricescout.
// On Linux: ~/.local/share/pricescout
// On macOS: ~/Library/Application Support/pricescout
// On Windows: %LOCALAPPDATA%\pricescout
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pricescout.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found; fixing one error often makes
// later ones irrelevant, so collecting all of them isn't worth it.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxConcurrent <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxResults < 0 {
		return ErrInvalidMaxResults
	}
	if c.DuplicateThreshold <= 0 || c.DuplicateThreshold > 1 {
		return ErrInvalidThreshold
	}
	if c.PriceVariance < 0 || c.PriceVariance >= 1 {
		return ErrInvalidPriceVariance
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
