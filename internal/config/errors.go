package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: package-level sentinel errors rather than new error
// instances in Validate(). Callers can use errors.Is() for programmatic
// handling while still getting human-readable messages.
var (
	// ErrInvalidTimeout is returned when the search timeout is not positive.
	// A zero or negative budget would cancel every provider immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency bound is not
	// positive. Zero in-flight slots would mean no provider ever runs.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxResults is returned when the result cap is negative.
	// Use 0 for an unlimited result set.
	ErrInvalidMaxResults = errors.New("invalid max results: must be non-negative (0 = unlimited)")

	// ErrInvalidThreshold is returned when the duplicate threshold falls
	// outside (0, 1]. Similarity scores live in [0,1], so anything else
	// would merge everything or nothing.
	ErrInvalidThreshold = errors.New("invalid duplicate threshold: must be in (0, 1]")

	// ErrInvalidPriceVariance is returned when the price variance bound
	// falls outside [0, 1).
	ErrInvalidPriceVariance = errors.New("invalid price variance: must be in [0, 1)")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
