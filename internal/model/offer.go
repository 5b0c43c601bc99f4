package model

import "time"

// RawOffer is one candidate product listing returned by a single provider
// for one query. It is produced exactly once by a provider call and never
// mutated afterward; every downstream stage works on wrappers or copies.
//
// Design decision: Price and ShippingCost stay free-text strings here
// because providers scrape wildly inconsistent representations ("$1,299.99",
// "1.299,00 €", "Rs. 79,900"). Parsing happens once, in the normalization
// step, so a provider never needs to understand currency formats.
type RawOffer struct {
	// Link is the URL of the product listing.
	Link string `json:"link"`

	// Price is the price as scraped, free text.
	Price string `json:"price"`

	// Currency is the ISO 4217 code declared by the provider.
	// May be empty when the source page doesn't state one.
	Currency string `json:"currency,omitempty"`

	// ProductName is the listing title as scraped.
	ProductName string `json:"productName"`

	// Availability is the stock status text (e.g. "In Stock", "Limited Stock").
	Availability string `json:"availability"`

	// Rating is the product rating on a 0-5 scale, nil when absent.
	Rating *float64 `json:"rating,omitempty"`

	// ReviewsCount is the number of reviews, nil when absent.
	ReviewsCount *int `json:"reviewsCount,omitempty"`

	// Seller is the merchant name, empty when the source doesn't expose it.
	Seller string `json:"seller,omitempty"`

	// ShippingCost is the shipping price as scraped, free text.
	// Empty when unknown; "0" or "Free" style values mean free shipping.
	ShippingCost string `json:"shippingCost,omitempty"`

	// DeliveryTime is the estimated delivery text (e.g. "2-3 days").
	DeliveryTime string `json:"deliveryTime,omitempty"`

	// ImageURL is the product image URL.
	ImageURL string `json:"imageUrl,omitempty"`

	// Specifications holds structured spec key/values when the source
	// exposes them.
	Specifications map[string]string `json:"specifications,omitempty"`

	// ConfidenceScore is the provider's own confidence in the extraction,
	// in [0,1]. Defaults to 1.0 for providers that don't estimate it.
	ConfidenceScore float64 `json:"confidenceScore"`

	// Source is the provider name that produced this offer.
	Source string `json:"source"`

	// ScrapedAt is when the offer was fetched.
	ScrapedAt time.Time `json:"scrapedAt"`
}

// NormalizedOffer wraps a RawOffer with the values computed by the
// normalization, scoring, deduplication and ranking stages.
type NormalizedOffer struct {
	// Raw is the original offer as returned by the provider.
	Raw RawOffer

	// NormalizedPrice is the parsed numeric price, always >= 0.
	NormalizedPrice float64

	// NormalizedCurrency is the ISO 4217 code the price is expressed in.
	// This is the request's target currency unless conversion failed,
	// in which case it is the offer's source currency. Never empty.
	NormalizedCurrency string

	// SimilarityScore is the offer's relevance to the query, in [0,1].
	SimilarityScore float64

	// DuplicateGroupID identifies the duplicate group this offer was
	// clustered into. Assigned during deduplication.
	DuplicateGroupID string

	// FinalRank is the 1-based position in the ranked response.
	// Assigned during ranking; dense and unique across the result set.
	FinalRank int
}
