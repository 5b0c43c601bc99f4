package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/provider"
)

// queryPlaceholder is the literal replaced with the escaped query text
// in a site's search URL template.
const queryPlaceholder = "{query}"

// ratingPattern pulls the leading numeric value out of rating text
// like "4.5 out of 5 stars".
var ratingPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Site scrapes one configured retail site. It implements
// provider.Provider, so the engine treats scraped sites and any other
// offer source uniformly.
type Site struct {
	cfg    config.SiteConfig
	client *http.Client

	userAgent   string
	maxBodySize int64
	delay       time.Duration

	// lastFetch enforces the per-site rate limit across searches.
	mu        sync.Mutex
	lastFetch time.Time

	logger *slog.Logger
}

// SiteOption configures a Site.
type SiteOption func(*Site)

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(userAgent string) SiteOption {
	return func(s *Site) {
		s.userAgent = userAgent
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(size int64) SiteOption {
	return func(s *Site) {
		s.maxBodySize = size
	}
}

// WithRateLimitDelay sets the minimum interval between requests to
// this site.
func WithRateLimitDelay(delay time.Duration) SiteOption {
	return func(s *Site) {
		s.delay = delay
	}
}

// WithSiteLogger sets a custom logger for the site.
func WithSiteLogger(logger *slog.Logger) SiteOption {
	return func(s *Site) {
		s.logger = logger
	}
}

// NewSite creates a provider for one configured site.
func NewSite(cfg config.SiteConfig, client *http.Client, opts ...SiteOption) *Site {
	s := &Site{
		cfg:         cfg,
		client:      client,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		delay:       config.DefaultRateLimitDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Name returns the configured site name.
func (s *Site) Name() string {
	return s.cfg.Name
}

// Supports reports whether the site serves the given country.
func (s *Site) Supports(country string) bool {
	_, ok := s.cfg.Countries[country]
	return ok
}

// Priority returns the site's configured priority for a country, or
// the unsupported sentinel.
func (s *Site) Priority(country string) int {
	if priority, ok := s.cfg.Countries[country]; ok {
		return priority
	}
	return provider.UnsupportedPriority
}

// Fetch retrieves the site's search results page for the query and
// extracts raw offers using the configured selectors.
func (s *Site) Fetch(ctx context.Context, query, _ string) ([]model.RawOffer, error) {
	if err := s.waitRateLimit(ctx); err != nil {
		return nil, err
	}

	searchURL := strings.ReplaceAll(s.cfg.SearchURL, queryPlaceholder, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", s.cfg.Name, err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.cfg.Name, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.cfg.Name, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", s.cfg.Name, err)
	}

	offers := s.extractOffers(doc, searchURL)
	s.logger.Debug("scraped search results",
		slog.String("site", s.cfg.Name),
		slog.Int("offers", len(offers)))
	return offers, nil
}

// waitRateLimit blocks until the per-site minimum interval has passed
// since the previous fetch.
func (s *Site) waitRateLimit(ctx context.Context) error {
	s.mu.Lock()
	now := time.Now()
	next := s.lastFetch.Add(s.delay)
	if next.Before(now) {
		next = now
	}
	wait := next.Sub(now)
	s.lastFetch = next
	s.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// extractOffers pulls one RawOffer out of each container element
// matching the offer selector. Containers without a product name or
// price text are skipped.
func (s *Site) extractOffers(doc *html.Node, pageURL string) []model.RawOffer {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	sel := s.cfg.Selectors
	containers := findAll(doc, parseSelector(sel.Offer))
	scrapedAt := time.Now()

	offers := make([]model.RawOffer, 0, len(containers))
	for _, container := range containers {
		name := selectText(container, sel.Name)
		price := selectText(container, sel.Price)
		if name == "" || price == "" {
			continue
		}

		offer := model.RawOffer{
			ProductName:  name,
			Price:        price,
			Currency:     s.cfg.Currency,
			Availability: selectText(container, sel.Availability),
			Source:       s.cfg.Name,
			ScrapedAt:    scrapedAt,
		}

		offer.Link = s.extractLink(container, base)
		if img := selectNode(container, sel.Image, "img"); img != nil {
			offer.ImageURL = resolveURL(base, getAttr(img, "src"))
		}
		if text := selectText(container, sel.Rating); text != "" {
			if raw := ratingPattern.FindString(text); raw != "" {
				if rating, err := strconv.ParseFloat(raw, 64); err == nil {
					offer.Rating = &rating
				}
			}
		}

		offers = append(offers, offer)
	}
	return offers
}

// extractLink finds the listing URL inside a container: the configured
// link selector if set, otherwise the first anchor.
func (s *Site) extractLink(container *html.Node, base *url.URL) string {
	anchor := selectNode(container, s.cfg.Selectors.Link, "a")
	if anchor == nil {
		return ""
	}
	if anchor.Data != "a" {
		// Selector matched a wrapper; take the anchor inside it.
		if inner := findFirst(anchor, selector{tag: "a"}); inner != nil {
			anchor = inner
		}
	}
	return resolveURL(base, getAttr(anchor, "href"))
}

// selectText returns the collapsed text of the first node matching the
// expression, or "" when the expression is empty or nothing matches.
func selectText(container *html.Node, expr string) string {
	sel := parseSelector(expr)
	if sel.isZero() {
		return ""
	}
	if n := findFirst(container, sel); n != nil {
		return textContent(n)
	}
	return ""
}

// selectNode returns the first node matching the expression, falling
// back to the given tag when the expression is empty.
func selectNode(container *html.Node, expr, fallbackTag string) *html.Node {
	sel := parseSelector(expr)
	if sel.isZero() {
		sel = selector{tag: fallbackTag}
	}
	return findFirst(container, sel)
}

// resolveURL resolves a possibly relative href against the page URL.
func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
