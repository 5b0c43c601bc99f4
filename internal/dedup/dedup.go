package dedup

import (
	"encoding/hex"
	"log/slog"
	"math"

	"golang.org/x/crypto/sha3"

	"github.com/pricescout/pricescout/internal/match"
	"github.com/pricescout/pricescout/internal/model"
)

// groupIDLength is the number of hex characters in a duplicate group id.
// Eight characters of a SHA3-256 digest are plenty for the handful of
// groups a single search produces, and keep the id readable in logs.
const groupIDLength = 8

// Deduplicator clusters offers into duplicate groups.
type Deduplicator struct {
	// threshold is the minimum name similarity for group membership.
	threshold float64

	// priceVariance bounds the relative price gap allowed inside a
	// group: membership additionally requires
	// 1 - |a-b|/max(a,b) > 1 - priceVariance.
	priceVariance float64

	logger *slog.Logger
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deduplicator) {
		d.logger = logger
	}
}

// New creates a Deduplicator with the given thresholds.
func New(threshold, priceVariance float64, opts ...Option) *Deduplicator {
	d := &Deduplicator{
		threshold:     threshold,
		priceVariance: priceVariance,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Deduplicate clusters offers and returns one representative per group.
//
// Every input offer is assigned the DuplicateGroupID of its group, so
// the input set is partitioned: each offer belongs to exactly one group
// and groups are disjoint. The returned slice holds the representatives
// in group-creation order.
func (d *Deduplicator) Deduplicate(offers []*model.NormalizedOffer) []*model.NormalizedOffer {
	if len(offers) <= 1 {
		for _, offer := range offers {
			offer.DuplicateGroupID = groupID(offer.Raw.ProductName)
		}
		return offers
	}

	var groups [][]*model.NormalizedOffer

	for _, offer := range offers {
		joined := false

	scan:
		for i, group := range groups {
			for _, member := range group {
				if d.sameProduct(offer, member) {
					groups[i] = append(groups[i], offer)
					joined = true
					break scan
				}
			}
		}

		if !joined {
			groups = append(groups, []*model.NormalizedOffer{offer})
		}
	}

	deduplicated := make([]*model.NormalizedOffer, 0, len(groups))
	for _, group := range groups {
		rep := representative(group)
		id := groupID(rep.Raw.ProductName)
		for _, member := range group {
			member.DuplicateGroupID = id
		}
		deduplicated = append(deduplicated, rep)
	}

	d.logger.Debug("deduplication complete",
		"input_offers", len(offers),
		"groups", len(groups),
	)

	return deduplicated
}

// sameProduct reports whether two offers pass both the name-similarity
// and price-similarity gates for shared group membership.
func (d *Deduplicator) sameProduct(a, b *model.NormalizedOffer) bool {
	similarity := match.Similarity(a.Raw.ProductName, b.Raw.ProductName, "")
	if similarity < d.threshold {
		return false
	}

	maxPrice := math.Max(a.NormalizedPrice, b.NormalizedPrice)
	if maxPrice <= 0 {
		// Both prices unknown; the name gate already passed.
		return true
	}
	priceSimilarity := 1 - math.Abs(a.NormalizedPrice-b.NormalizedPrice)/maxPrice

	return priceSimilarity > 1-d.priceVariance
}

// representative selects the offer that speaks for a group: highest
// similarity to the query, ties broken by lowest normalized price.
func representative(group []*model.NormalizedOffer) *model.NormalizedOffer {
	best := group[0]
	for _, offer := range group[1:] {
		if offer.SimilarityScore > best.SimilarityScore {
			best = offer
			continue
		}
		if offer.SimilarityScore == best.SimilarityScore && offer.NormalizedPrice < best.NormalizedPrice {
			best = offer
		}
	}
	return best
}

// groupID derives a short stable id from a product name for
// traceability across log lines and stored searches.
func groupID(productName string) string {
	sum := sha3.Sum256([]byte(productName))
	return hex.EncodeToString(sum[:])[:groupIDLength]
}
