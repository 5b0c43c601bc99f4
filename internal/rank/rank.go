package rank

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/money"
)

// Score weights. They sum to at most 1.0 before the shipping
// adjustment, and the final score is clamped to [0,1].
const (
	weightSimilarity  = 0.40
	weightReliability = 0.20
	weightRating      = 0.10
	weightReviews     = 0.10

	bonusInStock = 0.15
	bonusLimited = 0.10

	shippingBonus      = 0.05
	shippingPenaltyCap = 0.05

	// defaultReliability is used for sources absent from the
	// reliability table.
	defaultReliability = 0.6
)

// defaultReliabilities score well-known retailers. User configuration
// overrides or extends this table.
var defaultReliabilities = map[string]float64{
	"amazon":  0.9,
	"apple":   0.95,
	"bestbuy": 0.85,
	"walmart": 0.8,
	"target":  0.75,
	"ebay":    0.7,
}

// Ranker scores and orders normalized offers.
type Ranker struct {
	reliability map[string]float64
	logger      *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) {
		r.logger = logger
	}
}

// WithReliability merges source reliability scores over the built-in
// table. Keys are matched case-insensitively against offer sources.
func WithReliability(table map[string]float64) Option {
	return func(r *Ranker) {
		for name, score := range table {
			r.reliability[strings.ToLower(name)] = score
		}
	}
}

// New creates a Ranker with the built-in reliability table.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		reliability: make(map[string]float64, len(defaultReliabilities)),
	}
	for name, score := range defaultReliabilities {
		r.reliability[name] = score
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

type scoredOffer struct {
	offer *model.NormalizedOffer
	score float64
}

// Rank scores every offer, orders the slice by score descending with
// the normalized price ascending as tie-break, and assigns each offer
// its 1-based position as FinalRank. Ranks are unique: score ties are
// already broken by price, so equal scores still get distinct ranks.
// The input slice is modified in place and returned.
func (r *Ranker) Rank(offers []*model.NormalizedOffer) []*model.NormalizedOffer {
	scored := make([]scoredOffer, 0, len(offers))
	for _, offer := range offers {
		scored = append(scored, scoredOffer{offer: offer, score: r.Score(offer)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].offer.NormalizedPrice < scored[j].offer.NormalizedPrice
	})

	for i := range scored {
		scored[i].offer.FinalRank = i + 1
		offers[i] = scored[i].offer
	}

	if len(offers) != 0 {
		r.logger.Debug("ranked offers",
			slog.Int("count", len(offers)),
			slog.Float64("top_score", scored[0].score))
	}
	return offers
}

// Score computes the composite [0,1] score for a single offer.
func (r *Ranker) Score(offer *model.NormalizedOffer) float64 {
	score := offer.SimilarityScore * weightSimilarity
	score += r.sourceReliability(offer.Raw.Source) * weightReliability
	score += availabilityBonus(offer.Raw.Availability)

	if offer.Raw.Rating != nil {
		score += math.Min(*offer.Raw.Rating/5.0, 1.0) * weightRating
	}
	if offer.Raw.ReviewsCount != nil && *offer.Raw.ReviewsCount > 0 {
		volume := math.Log10(float64(*offer.Raw.ReviewsCount)+1) / 4.0
		score += math.Min(volume, 1.0) * weightReviews
	}

	score += r.shippingAdjustment(offer)

	return math.Min(math.Max(score, 0.0), 1.0)
}

func (r *Ranker) sourceReliability(source string) float64 {
	if score, ok := r.reliability[strings.ToLower(source)]; ok {
		return score
	}
	return defaultReliability
}

func availabilityBonus(availability string) float64 {
	lowered := strings.ToLower(availability)
	switch {
	case strings.Contains(lowered, "in stock"), strings.Contains(lowered, "available"):
		return bonusInStock
	case strings.Contains(lowered, "limited"):
		return bonusLimited
	default:
		return 0.0
	}
}

// shippingAdjustment rewards free shipping and penalizes shipping cost
// proportionally to the offer price, capped at shippingPenaltyCap. An
// unparseable shipping string leaves the score untouched.
func (r *Ranker) shippingAdjustment(offer *model.NormalizedOffer) float64 {
	text := strings.TrimSpace(offer.Raw.ShippingCost)
	if text == "" {
		return 0.0
	}
	if strings.Contains(strings.ToLower(text), "free") {
		return shippingBonus
	}

	amount, _, err := money.ParsePrice(text)
	if errors.Is(err, money.ErrNonPositiveAmount) {
		return shippingBonus
	}
	if err != nil || offer.NormalizedPrice <= 0 {
		return 0.0
	}
	return -math.Min(shippingPenaltyCap*amount/offer.NormalizedPrice, shippingPenaltyCap)
}
