// Package model defines the core data types for price search.
//
// The types in this package flow through the whole search pipeline:
// providers produce RawOffer values, normalization wraps them into
// NormalizedOffer, and response assembly flattens the survivors into
// ResultItem dictionaries inside a SearchResponse.
//
// All types here are plain data with no behavior beyond construction
// and conversion helpers, which keeps them safe to hand between
// goroutines once created.
package model
