package model

import (
	"strconv"
	"time"
)

// ResultItem is one ranked offer in the final response, flattened into
// the wire field set consumers expect. Price carries the normalized
// numeric amount rendered as text; the original scraped string stays in
// the offer it was built from.
type ResultItem struct {
	Link            string            `json:"link"`
	Price           string            `json:"price"`
	Currency        string            `json:"currency"`
	ProductName     string            `json:"productName"`
	Availability    string            `json:"availability"`
	Rating          *float64          `json:"rating"`
	ReviewsCount    *int              `json:"reviewsCount"`
	Seller          string            `json:"seller,omitempty"`
	ShippingCost    string            `json:"shippingCost,omitempty"`
	DeliveryTime    string            `json:"deliveryTime,omitempty"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	Specifications  map[string]string `json:"specifications,omitempty"`
	ConfidenceScore float64           `json:"confidenceScore"`
	Source          string            `json:"source"`
	ScrapedAt       time.Time         `json:"scrapedAt"`
	SimilarityScore float64           `json:"similarityScore"`
	Rank            int               `json:"rank"`
}

// NewResultItem flattens a ranked NormalizedOffer into a ResultItem.
// The normalized price is rendered with two decimal places; trailing
// ".00" is kept so the field parses consistently on the consumer side.
func NewResultItem(offer *NormalizedOffer) ResultItem {
	return ResultItem{
		Link:            offer.Raw.Link,
		Price:           strconv.FormatFloat(offer.NormalizedPrice, 'f', 2, 64),
		Currency:        offer.NormalizedCurrency,
		ProductName:     offer.Raw.ProductName,
		Availability:    offer.Raw.Availability,
		Rating:          offer.Raw.Rating,
		ReviewsCount:    offer.Raw.ReviewsCount,
		Seller:          offer.Raw.Seller,
		ShippingCost:    offer.Raw.ShippingCost,
		DeliveryTime:    offer.Raw.DeliveryTime,
		ImageURL:        offer.Raw.ImageURL,
		Specifications:  offer.Raw.Specifications,
		ConfidenceScore: offer.Raw.ConfidenceScore,
		Source:          offer.Raw.Source,
		ScrapedAt:       offer.Raw.ScrapedAt,
		SimilarityScore: offer.SimilarityScore,
		Rank:            offer.FinalRank,
	}
}

// SearchResponse is the result of one search: the ranked offers plus
// metadata about how the search went.
type SearchResponse struct {
	// Results are the surviving offers ordered by rank (1 first).
	Results []ResultItem `json:"results"`

	// TotalResults is len(Results).
	TotalResults int `json:"totalResults"`

	// SearchTime is the elapsed wall-clock time in seconds.
	SearchTime float64 `json:"searchTime"`

	// SourcesUsed names the providers that returned successfully.
	// Providers that timed out or failed are excluded even if other
	// providers succeeded.
	SourcesUsed []string `json:"sourcesUsed"`

	// Query is the original query text.
	Query string `json:"query"`

	// Country is the requested country code.
	Country string `json:"country"`

	// Timestamp is when the response was assembled.
	Timestamp time.Time `json:"timestamp"`
}
