// Package dedup clusters normalized offers into duplicate groups and
// selects one representative offer per group.
//
// Clustering is a greedy single pass in arrival order: an offer joins
// the first existing group containing a member it is both name-similar
// and price-similar to, otherwise it opens a new group. The pass is
// O(N²) in the offer count, which is fine for the tens of offers a
// single query produces.
package dedup
