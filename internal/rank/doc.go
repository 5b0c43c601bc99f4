// Package rank assigns a composite [0,1] score to every surviving
// offer and produces the final total order of the search response.
//
// The score combines query relevance, source reliability, availability,
// rating, review volume and shipping cost with fixed weights. Ordering
// is score-descending with the normalized price as tie-break, and each
// offer's rank is its unique 1-based position in that order.
package rank
