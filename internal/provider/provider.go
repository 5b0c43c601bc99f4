package provider

import (
	"context"

	"github.com/pricescout/pricescout/internal/model"
)

// UnsupportedPriority is the sentinel returned by Priority for countries
// a provider does not support. Any real priority is far below it, so an
// unsupported provider always sorts last if it slips past the Supports
// filter.
const UnsupportedPriority = 999

// Provider is a single external offer source.
//
// Design decision: an interface rather than a concrete type because:
//  1. Sources differ wildly (scraped HTML, JSON APIs, test fakes)
//  2. The engine can treat all sources uniformly
//  3. Tests substitute deterministic fakes without network access
//
// A provider must not block indefinitely: the engine enforces a
// per-call timeout through the context regardless of provider behavior,
// but well-behaved implementations honor cancellation promptly.
type Provider interface {
	// Name returns the provider's source name (e.g. "amazon").
	// Names are matched case-insensitively by include/exclude filters
	// and key the ranker's reliability table.
	Name() string

	// Supports reports whether the provider can answer queries for the
	// given ISO 3166-1 alpha-2 country code.
	Supports(country string) bool

	// Priority returns the provider's rank for the given country;
	// lower is higher priority. Unsupported countries return
	// UnsupportedPriority.
	Priority(country string) int

	// Fetch searches the source and returns zero or more raw offers.
	// There is no ordering guarantee among returned offers. A failure
	// is reported by error; partial results from a failed call are
	// discarded by the engine.
	Fetch(ctx context.Context, query, country string) ([]model.RawOffer, error)
}
