// Package pipeline turns the raw offers collected from providers into
// the ranked result set of a search.
//
// The transformation runs as an ordered chain of steps over a shared
// State: price normalization, query similarity scoring, duplicate
// clustering, and ranking. Steps implement the Step interface and are
// executed sequentially by a Pipeline, which honors context
// cancellation between steps.
package pipeline
