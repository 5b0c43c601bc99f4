package model

import (
	"errors"
	"strings"
	"time"
)

// Default search request values.
const (
	// DefaultMaxResults caps the number of offers returned by a search.
	// 0 is interpreted as unlimited, so the default is a sane positive cap.
	DefaultMaxResults = 50

	// DefaultTimeout is the total wall-clock budget for one search.
	// The budget is divided evenly across the selected providers.
	DefaultTimeout = 60 * time.Second

	// DefaultTargetCurrency is the currency offers are normalized to
	// when the request doesn't specify one.
	DefaultTargetCurrency = "USD"
)

// ErrEmptyQuery is returned when a search request carries no query text.
// This is the only request-level failure a caller can observe; provider
// and per-offer failures are absorbed by the engine.
var ErrEmptyQuery = errors.New("search query must not be empty")

// SearchRequest describes one logical product search.
// It is immutable once submitted to the engine.
type SearchRequest struct {
	// Query is the product search text.
	Query string `json:"query"`

	// Country is the ISO 3166-1 alpha-2 country code (e.g. "US", "IN").
	// Providers declare which countries they support; unsupported
	// providers are skipped for the request.
	Country string `json:"country"`

	// MaxResults limits the response size. 0 means unlimited.
	MaxResults int `json:"maxResults"`

	// Timeout is the total search budget. Each selected provider gets
	// Timeout / len(selected) of it.
	Timeout time.Duration `json:"timeout"`

	// TargetCurrency is the ISO 4217 code to normalize prices to.
	TargetCurrency string `json:"targetCurrency"`

	// IncludeSources restricts the search to the named providers
	// (case-insensitive). Empty means all supporting providers.
	IncludeSources []string `json:"includeSources,omitempty"`

	// ExcludeSources removes the named providers (case-insensitive)
	// after IncludeSources filtering.
	ExcludeSources []string `json:"excludeSources,omitempty"`
}

// NewSearchRequest creates a SearchRequest with default limits for the
// given query and country.
func NewSearchRequest(query, country string) SearchRequest {
	return SearchRequest{
		Query:          query,
		Country:        strings.ToUpper(country),
		MaxResults:     DefaultMaxResults,
		Timeout:        DefaultTimeout,
		TargetCurrency: DefaultTargetCurrency,
	}
}

// Validate checks the request for structural problems.
// An empty query is the only invalid state: a country with zero matching
// providers is valid and yields an empty response.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
