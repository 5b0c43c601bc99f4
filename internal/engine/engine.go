package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/money"
	"github.com/pricescout/pricescout/internal/pipeline"
	"github.com/pricescout/pricescout/internal/provider"
)

// Engine runs searches against the registered providers.
type Engine struct {
	registry  *provider.Registry
	converter money.Converter
	pipeline  *pipeline.Pipeline

	// maxConcurrent bounds the number of provider fetches in flight.
	maxConcurrent int

	logger *slog.Logger

	// pipeline tuning, applied when the default pipeline is built.
	duplicateThreshold float64
	priceVariance      float64
	reliability        map[string]float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxConcurrent bounds simultaneous provider fetches.
// Values below 1 are ignored.
func WithMaxConcurrent(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = n
		}
	}
}

// WithDuplicateThreshold sets the name-similarity bound for duplicate
// clustering.
func WithDuplicateThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.duplicateThreshold = threshold
	}
}

// WithPriceVariance sets the relative price gap tolerated inside a
// duplicate group.
func WithPriceVariance(variance float64) Option {
	return func(e *Engine) {
		e.priceVariance = variance
	}
}

// WithReliability merges source reliability scores over the ranker's
// built-in table.
func WithReliability(table map[string]float64) Option {
	return func(e *Engine) {
		e.reliability = table
	}
}

// WithPipeline replaces the default processing pipeline entirely.
// The tuning options above are ignored when a pipeline is injected.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) {
		e.pipeline = p
	}
}

// New creates an Engine over the given registry and currency converter.
func New(registry *provider.Registry, converter money.Converter, opts ...Option) *Engine {
	e := &Engine{
		registry:           registry,
		converter:          converter,
		maxConcurrent:      config.DefaultMaxConcurrent,
		duplicateThreshold: config.DefaultDuplicateThreshold,
		priceVariance:      config.DefaultPriceVariance,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.pipeline == nil {
		e.pipeline = pipeline.DefaultPipeline(
			e.converter,
			[]pipeline.Option{pipeline.WithLogger(e.logger)},
			pipeline.WithDuplicateThreshold(e.duplicateThreshold),
			pipeline.WithPriceVariance(e.priceVariance),
			pipeline.WithReliabilityTable(e.reliability),
		)
	}

	return e
}

// Search runs one product search: select providers, fetch concurrently,
// process, rank, truncate.
//
// Individual provider timeouts and faults are absorbed; they cost the
// search that provider's offers and its entry in SourcesUsed, nothing
// more. The returned error is non-nil only for an invalid request or a
// cancelled context.
func (e *Engine) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Timeout <= 0 {
		req.Timeout = model.DefaultTimeout
	}
	if req.TargetCurrency == "" {
		// Guarantees every normalized offer carries a currency even
		// when neither price text nor source config declares one.
		req.TargetCurrency = model.DefaultTargetCurrency
	}

	start := time.Now()

	selected := e.selectProviders(req)
	e.logger.Info("starting search",
		slog.String("query", req.Query),
		slog.String("country", req.Country),
		slog.Int("providers", len(selected)))

	// Zero eligible providers is a valid, empty search.
	if len(selected) == 0 {
		return e.assemble(req, nil, nil, start), nil
	}

	offers, sources := e.fetchAll(ctx, req, selected)

	state := &pipeline.State{
		Query:          req.Query,
		TargetCurrency: req.TargetCurrency,
		Raw:            offers,
	}
	if err := e.pipeline.Execute(ctx, state); err != nil {
		return nil, err
	}

	results := state.Offers
	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	e.logger.Info("search complete",
		slog.String("query", req.Query),
		slog.Int("raw_offers", len(offers)),
		slog.Int("results", len(results)),
		slog.Int("dropped_unparseable", state.DroppedUnparseable),
		slog.Int("merged_duplicates", state.MergedDuplicates),
		slog.Duration("elapsed", time.Since(start)))

	return e.assemble(req, results, sources, start), nil
}

// selectProviders applies the country, include and exclude filters and
// sorts the survivors by priority. The sort is stable so providers
// sharing a priority keep registration order.
func (e *Engine) selectProviders(req model.SearchRequest) []provider.Provider {
	selected := e.registry.ForCountry(req.Country)

	if len(req.IncludeSources) > 0 {
		include := nameSet(req.IncludeSources)
		selected = filterProviders(selected, func(p provider.Provider) bool {
			return include[strings.ToLower(p.Name())]
		})
	}
	if len(req.ExcludeSources) > 0 {
		exclude := nameSet(req.ExcludeSources)
		selected = filterProviders(selected, func(p provider.Provider) bool {
			return !exclude[strings.ToLower(p.Name())]
		})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority(req.Country) < selected[j].Priority(req.Country)
	})
	return selected
}

// fetchAll dispatches the selected providers concurrently, bounded to
// maxConcurrent in flight, each under an even slice of the request's
// timeout budget.
//
// Goroutines always return nil to the group: a failed provider must
// never cancel its siblings.
func (e *Engine) fetchAll(ctx context.Context, req model.SearchRequest, selected []provider.Provider) ([]model.RawOffer, []string) {
	perTimeout := req.Timeout / time.Duration(max(1, len(selected)))

	var (
		mu      sync.Mutex
		offers  []model.RawOffer
		sources []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)

	for _, p := range selected {
		p := p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			fetchCtx, cancel := context.WithTimeout(gctx, perTimeout)
			defer cancel()

			fetched, err := p.Fetch(fetchCtx, req.Query, req.Country)
			if err != nil {
				e.logger.Warn("provider failed",
					slog.String("provider", p.Name()),
					slog.Any("error", err))
				return nil
			}

			mu.Lock()
			offers = append(offers, fetched...)
			sources = append(sources, p.Name())
			mu.Unlock()

			e.logger.Debug("provider returned",
				slog.String("provider", p.Name()),
				slog.Int("offers", len(fetched)))
			return nil
		})
	}

	// Goroutines never return errors, so Wait only synchronizes.
	_ = g.Wait() //nolint:errcheck

	sort.Strings(sources)
	return offers, sources
}

// assemble builds the final response from ranked offers.
func (e *Engine) assemble(req model.SearchRequest, offers []*model.NormalizedOffer, sources []string, start time.Time) *model.SearchResponse {
	results := make([]model.ResultItem, 0, len(offers))
	for _, offer := range offers {
		results = append(results, model.NewResultItem(offer))
	}
	if sources == nil {
		sources = []string{}
	}

	return &model.SearchResponse{
		Results:      results,
		TotalResults: len(results),
		SearchTime:   time.Since(start).Seconds(),
		SourcesUsed:  sources,
		Query:        req.Query,
		Country:      req.Country,
		Timestamp:    time.Now(),
	}
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return set
}

func filterProviders(providers []provider.Provider, keep func(provider.Provider) bool) []provider.Provider {
	out := providers[:0]
	for _, p := range providers {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
