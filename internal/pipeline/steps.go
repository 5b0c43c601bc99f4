package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/dedup"
	"github.com/pricescout/pricescout/internal/match"
	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/money"
	"github.com/pricescout/pricescout/internal/rank"
)

// NormalizeStep parses each raw offer's price text and converts the
// amount to the target currency.
//
// Offers whose price cannot be parsed are dropped and counted; a
// failed currency conversion keeps the offer in its source currency
// instead of discarding it. Normalization degrades per offer, never
// for the whole batch.
type NormalizeStep struct {
	converter money.Converter
	logger    *slog.Logger
}

// NormalizeStepOption configures a NormalizeStep.
type NormalizeStepOption func(*NormalizeStep)

// WithNormalizeLogger sets a custom logger for the normalize step.
func WithNormalizeLogger(logger *slog.Logger) NormalizeStepOption {
	return func(s *NormalizeStep) {
		s.logger = logger
	}
}

// NewNormalizeStep creates a price normalization step.
func NewNormalizeStep(converter money.Converter, opts ...NormalizeStepOption) *NormalizeStep {
	s := &NormalizeStep{
		converter: converter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do parses and converts every raw offer into state.Offers.
func (s *NormalizeStep) Do(_ context.Context, state *State) error {
	state.Offers = make([]*model.NormalizedOffer, 0, len(state.Raw))

	for i := range state.Raw {
		raw := &state.Raw[i]

		amount, code, err := money.ParsePrice(raw.Price)
		if err != nil {
			state.DroppedUnparseable++
			s.logger.Debug("dropping offer with unparseable price",
				slog.String("price", raw.Price),
				slog.String("source", raw.Source),
				slog.Any("error", err))
			continue
		}

		// Currency fallback order: price text, the offer's declared
		// currency, then the request's target currency.
		if code == "" {
			code = strings.ToUpper(strings.TrimSpace(raw.Currency))
		}
		if code == "" {
			code = state.TargetCurrency
		}

		if code != state.TargetCurrency {
			converted, err := s.converter.Convert(amount, code, state.TargetCurrency)
			if err != nil {
				state.ConversionFallbacks++
				s.logger.Debug("keeping offer in source currency",
					slog.String("from", code),
					slog.String("to", state.TargetCurrency),
					slog.Any("error", err))
			} else {
				amount = converted
				code = state.TargetCurrency
			}
		}

		state.Offers = append(state.Offers, &model.NormalizedOffer{
			Raw:                *raw,
			NormalizedPrice:    amount,
			NormalizedCurrency: code,
		})
	}

	s.logger.Debug("normalized offers",
		slog.Int("kept", len(state.Offers)),
		slog.Int("dropped", state.DroppedUnparseable))
	return nil
}

// SimilarityStep scores each offer's relevance to the search query.
type SimilarityStep struct {
	logger *slog.Logger
}

// SimilarityStepOption configures a SimilarityStep.
type SimilarityStepOption func(*SimilarityStep)

// WithSimilarityLogger sets a custom logger for the similarity step.
func WithSimilarityLogger(logger *slog.Logger) SimilarityStepOption {
	return func(s *SimilarityStep) {
		s.logger = logger
	}
}

// NewSimilarityStep creates a query relevance scoring step.
func NewSimilarityStep(opts ...SimilarityStepOption) *SimilarityStep {
	s := &SimilarityStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SimilarityStep) Name() string {
	return "similarity"
}

// Do assigns a [0,1] query relevance score to every offer.
func (s *SimilarityStep) Do(_ context.Context, state *State) error {
	for _, offer := range state.Offers {
		offer.SimilarityScore = match.QueryScore(offer.Raw.ProductName, state.Query)
	}
	return nil
}

// DedupStep clusters offers into duplicate groups and keeps one
// representative per group.
type DedupStep struct {
	deduplicator *dedup.Deduplicator
	logger       *slog.Logger
}

// DedupStepOption configures a DedupStep.
type DedupStepOption func(*DedupStep)

// WithDedupLogger sets a custom logger for the dedup step.
func WithDedupLogger(logger *slog.Logger) DedupStepOption {
	return func(s *DedupStep) {
		s.logger = logger
	}
}

// NewDedupStep creates a duplicate clustering step.
func NewDedupStep(threshold, priceVariance float64, opts ...DedupStepOption) *DedupStep {
	s := &DedupStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deduplicator = dedup.New(threshold, priceVariance, dedup.WithLogger(s.logger))
	return s
}

// Name returns the step name.
func (s *DedupStep) Name() string {
	return "dedup"
}

// Do replaces state.Offers with one representative per duplicate group.
func (s *DedupStep) Do(_ context.Context, state *State) error {
	before := len(state.Offers)
	state.Offers = s.deduplicator.Deduplicate(state.Offers)
	state.MergedDuplicates += before - len(state.Offers)
	return nil
}

// RankStep scores and orders the surviving offers.
type RankStep struct {
	ranker *rank.Ranker
}

// NewRankStep creates the final scoring and ordering step.
// Options are forwarded to the underlying Ranker.
func NewRankStep(opts ...rank.Option) *RankStep {
	return &RankStep{
		ranker: rank.New(opts...),
	}
}

// Name returns the step name.
func (s *RankStep) Name() string {
	return "rank"
}

// Do orders state.Offers by composite score and assigns final ranks.
func (s *RankStep) Do(_ context.Context, state *State) error {
	state.Offers = s.ranker.Rank(state.Offers)
	return nil
}

// DefaultConfig holds configuration for the default pipeline.
type DefaultConfig struct {
	// DuplicateThreshold is the name-similarity bound for clustering.
	DuplicateThreshold float64

	// PriceVariance is the relative price gap tolerated inside a
	// duplicate group.
	PriceVariance float64

	// Reliability overrides or extends the ranker's source table.
	Reliability map[string]float64
}

// DefaultOption configures a DefaultConfig.
type DefaultOption func(*DefaultConfig)

// WithDuplicateThreshold sets the duplicate similarity threshold.
func WithDuplicateThreshold(threshold float64) DefaultOption {
	return func(c *DefaultConfig) {
		c.DuplicateThreshold = threshold
	}
}

// WithPriceVariance sets the tolerated relative price gap.
func WithPriceVariance(variance float64) DefaultOption {
	return func(c *DefaultConfig) {
		c.PriceVariance = variance
	}
}

// WithReliabilityTable sets source reliability overrides for ranking.
func WithReliabilityTable(table map[string]float64) DefaultOption {
	return func(c *DefaultConfig) {
		c.Reliability = table
	}
}

// DefaultPipeline wires the standard normalize, similarity, dedup and
// rank chain. Most callers want exactly this sequence; the options
// exist for threshold tuning and reliability overrides.
func DefaultPipeline(converter money.Converter, pipelineOpts []Option, configOpts ...DefaultOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultConfig{
		DuplicateThreshold: config.DefaultDuplicateThreshold,
		PriceVariance:      config.DefaultPriceVariance,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	rankOpts := []rank.Option{rank.WithLogger(p.logger)}
	if len(cfg.Reliability) > 0 {
		rankOpts = append(rankOpts, rank.WithReliability(cfg.Reliability))
	}

	p.AddSteps(
		NewNormalizeStep(converter, WithNormalizeLogger(p.logger)),
		NewSimilarityStep(WithSimilarityLogger(p.logger)),
		NewDedupStep(cfg.DuplicateThreshold, cfg.PriceVariance, WithDedupLogger(p.logger)),
		NewRankStep(rankOpts...),
	)

	return p
}
