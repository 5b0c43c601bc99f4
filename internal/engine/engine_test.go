package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/money"
	"github.com/pricescout/pricescout/internal/provider"
)

// fakeProvider is a configurable Provider for engine tests.
type fakeProvider struct {
	name      string
	priority  int
	countries []string
	offers    []model.RawOffer
	err       error
	delay     time.Duration
	onFetch   func(name string)
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Supports(country string) bool {
	if len(f.countries) == 0 {
		return true
	}
	for _, c := range f.countries {
		if c == country {
			return true
		}
	}
	return false
}

func (f *fakeProvider) Priority(country string) int {
	if !f.Supports(country) {
		return provider.UnsupportedPriority
	}
	return f.priority
}

func (f *fakeProvider) Fetch(ctx context.Context, _, _ string) ([]model.RawOffer, error) {
	if f.onFetch != nil {
		f.onFetch(f.name)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func offer(name, price, source string) model.RawOffer {
	return model.RawOffer{
		ProductName: name,
		Price:       price,
		Source:      source,
	}
}

func newTestEngine(t *testing.T, providers ...*fakeProvider) *Engine {
	t.Helper()

	registry := provider.NewRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return New(registry, money.NewRateTable(nil))
}

func TestEngineSearch(t *testing.T) {
	t.Parallel()

	t.Run("empty query is the only request error", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t)
		_, err := e.Search(context.Background(), model.NewSearchRequest("   ", "US"))

		if !errors.Is(err, model.ErrEmptyQuery) {
			t.Errorf("expected ErrEmptyQuery, got %v", err)
		}
	})

	t.Run("zero providers yields an empty valid response", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, &fakeProvider{name: "amazon", countries: []string{"US"}})

		resp, err := e.Search(context.Background(), model.NewSearchRequest("iPhone 16 Pro", "JP"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TotalResults != 0 {
			t.Errorf("TotalResults = %d, want 0", resp.TotalResults)
		}
		if resp.SourcesUsed == nil || len(resp.SourcesUsed) != 0 {
			t.Errorf("SourcesUsed = %v, want empty", resp.SourcesUsed)
		}
		if resp.Query != "iPhone 16 Pro" || resp.Country != "JP" {
			t.Errorf("response echo wrong: query %q country %q", resp.Query, resp.Country)
		}
	})

	t.Run("collects offers from all providers", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t,
			&fakeProvider{
				name:   "amazon",
				offers: []model.RawOffer{offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon")},
			},
			&fakeProvider{
				name:   "bestbuy",
				offers: []model.RawOffer{offer("Samsung Galaxy S24 Ultra 256GB", "$1,199.99", "bestbuy")},
			},
		)

		resp, err := e.Search(context.Background(), model.NewSearchRequest("iPhone 16 Pro", "US"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TotalResults != 2 {
			t.Fatalf("TotalResults = %d, want 2", resp.TotalResults)
		}
		wantSources := []string{"amazon", "bestbuy"}
		if len(resp.SourcesUsed) != 2 {
			t.Fatalf("SourcesUsed = %v, want %v", resp.SourcesUsed, wantSources)
		}
		for i, want := range wantSources {
			if resp.SourcesUsed[i] != want {
				t.Errorf("SourcesUsed[%d] = %q, want %q", i, resp.SourcesUsed[i], want)
			}
		}
	})

	t.Run("provider fault is absorbed", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t,
			&fakeProvider{
				name:   "amazon",
				offers: []model.RawOffer{offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon")},
			},
			&fakeProvider{name: "flaky", err: errors.New("boom")},
		)

		resp, err := e.Search(context.Background(), model.NewSearchRequest("iPhone 16 Pro", "US"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TotalResults != 1 {
			t.Errorf("TotalResults = %d, want 1", resp.TotalResults)
		}
		if len(resp.SourcesUsed) != 1 || resp.SourcesUsed[0] != "amazon" {
			t.Errorf("SourcesUsed = %v, want [amazon]", resp.SourcesUsed)
		}
	})

	t.Run("slow provider times out without cancelling siblings", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t,
			&fakeProvider{
				name:   "amazon",
				offers: []model.RawOffer{offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon")},
			},
			&fakeProvider{
				name:   "sloth",
				delay:  5 * time.Second,
				offers: []model.RawOffer{offer("Apple iPhone 16 Pro 128GB", "$899.00", "sloth")},
			},
		)

		req := model.NewSearchRequest("iPhone 16 Pro", "US")
		req.Timeout = 200 * time.Millisecond // 100ms per provider

		resp, err := e.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TotalResults != 1 {
			t.Errorf("TotalResults = %d, want 1", resp.TotalResults)
		}
		if len(resp.SourcesUsed) != 1 || resp.SourcesUsed[0] != "amazon" {
			t.Errorf("SourcesUsed = %v, want [amazon]", resp.SourcesUsed)
		}
	})

	t.Run("include and exclude filters are case-insensitive", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t,
			&fakeProvider{
				name:   "amazon",
				offers: []model.RawOffer{offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon")},
			},
			&fakeProvider{
				name:   "ebay",
				offers: []model.RawOffer{offer("Samsung Galaxy S24 Ultra 256GB", "$1,199.99", "ebay")},
			},
			&fakeProvider{
				name:   "walmart",
				offers: []model.RawOffer{offer("Google Pixel 9 Pro 256GB", "$899.00", "walmart")},
			},
		)

		req := model.NewSearchRequest("phone", "US")
		req.IncludeSources = []string{"AMAZON", "Ebay"}
		req.ExcludeSources = []string{"eBay"}

		resp, err := e.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.SourcesUsed) != 1 || resp.SourcesUsed[0] != "amazon" {
			t.Errorf("SourcesUsed = %v, want [amazon]", resp.SourcesUsed)
		}
	})

	t.Run("providers dispatch in priority order", func(t *testing.T) {
		t.Parallel()

		var (
			mu    sync.Mutex
			calls []string
		)
		record := func(name string) {
			mu.Lock()
			calls = append(calls, name)
			mu.Unlock()
		}

		registry := provider.NewRegistry()
		registry.Register(&fakeProvider{name: "third", priority: 9, onFetch: record})
		registry.Register(&fakeProvider{name: "first", priority: 1, onFetch: record})
		registry.Register(&fakeProvider{name: "second", priority: 5, onFetch: record})

		// Serial dispatch makes the call order observable.
		e := New(registry, money.NewRateTable(nil), WithMaxConcurrent(1))

		if _, err := e.Search(context.Background(), model.NewSearchRequest("phone", "US")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(calls) != len(want) {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
		for i := range want {
			if calls[i] != want[i] {
				t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
			}
		}
	})

	t.Run("truncates to max results", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, &fakeProvider{
			name: "amazon",
			offers: []model.RawOffer{
				offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon"),
				offer("Samsung Galaxy S24 Ultra 256GB", "$1,199.99", "amazon"),
				offer("Google Pixel 9 Pro 256GB", "$899.00", "amazon"),
			},
		})

		req := model.NewSearchRequest("phone", "US")
		req.MaxResults = 2

		resp, err := e.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TotalResults != 2 {
			t.Errorf("TotalResults = %d, want 2", resp.TotalResults)
		}
	})

	t.Run("ranks are a 1..K permutation", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, &fakeProvider{
			name: "amazon",
			offers: []model.RawOffer{
				offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon"),
				offer("Samsung Galaxy S24 Ultra 256GB", "$1,199.99", "amazon"),
				offer("Google Pixel 9 Pro 256GB", "$899.00", "amazon"),
			},
		})

		resp, err := e.Search(context.Background(), model.NewSearchRequest("iPhone 16 Pro", "US"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Results) == 0 {
			t.Fatal("expected results")
		}
		// Ranks must be exactly the position in the response: unique,
		// consecutive, starting at 1.
		for i, item := range resp.Results {
			if item.Rank != i+1 {
				t.Errorf("result %d: rank %d, want %d", i, item.Rank, i+1)
			}
		}
	})

	t.Run("defaults target currency", func(t *testing.T) {
		t.Parallel()

		// A bare price with no symbol and no provider currency would
		// otherwise flow through normalization without a code.
		e := newTestEngine(t, &fakeProvider{
			name: "amazon",
			offers: []model.RawOffer{
				offer("Apple iPhone 16 Pro 128GB", "999.00", "amazon"),
			},
		})

		// Built by hand instead of NewSearchRequest, so TargetCurrency
		// and Timeout are zero values.
		resp, err := e.Search(context.Background(), model.SearchRequest{
			Query:   "iPhone 16 Pro",
			Country: "US",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Results) == 0 {
			t.Fatal("expected results")
		}
		for i, item := range resp.Results {
			if item.Currency != "USD" {
				t.Errorf("result %d: currency %q, want USD", i, item.Currency)
			}
		}
	})

	t.Run("reports elapsed search time", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine(t, &fakeProvider{
			name:   "amazon",
			offers: []model.RawOffer{offer("Apple iPhone 16 Pro 128GB", "$999.00", "amazon")},
		})

		resp, err := e.Search(context.Background(), model.NewSearchRequest("iPhone 16 Pro", "US"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.SearchTime < 0 {
			t.Errorf("SearchTime = %v, want >= 0", resp.SearchTime)
		}
		if resp.Timestamp.IsZero() {
			t.Error("Timestamp should be set")
		}
	})
}
