package match

import "math"

// Similarity component weights. They sum to 1.0, and every component is
// in [0,1], so the weighted sum stays in [0,1] without clamping.
const (
	weightFuzzy          = 0.30
	weightBrand          = 0.25
	weightModel          = 0.20
	weightStorage        = 0.10
	weightColor          = 0.05
	weightQueryRelevance = 0.10
)

// thresholdPenalty is added to the duplicate threshold when two offers'
// prices diverge beyond the variance bound: a large price gap makes
// "same product" less likely even with near-identical names.
const thresholdPenalty = 0.05

// Similarity computes the weighted similarity of two product names in
// the context of the original query. The result is always in [0,1].
//
// Components and weights follow the duplicate-detection model:
// token-order-insensitive string similarity (0.30), brand match (0.25),
// model match (0.20), storage match (0.10), color match (0.05) and
// query relevance (0.10).
func Similarity(name1, name2, query string) float64 {
	f1 := ExtractFeatures(name1, query)
	f2 := ExtractFeatures(name2, query)

	score := TokenSortRatio(name1, name2) * weightFuzzy
	score += compareBrands(f1.Brand, f2.Brand) * weightBrand
	score += compareModels(f1.Model, f2.Model) * weightModel
	score += compareStorage(f1.Storage, f2.Storage) * weightStorage
	score += compareColors(f1.Color, f2.Color) * weightColor
	score += queryRelevance(name1, name2, query) * weightQueryRelevance

	return score
}

// QueryScore measures how relevant a single product name is to the
// query, in [0,1]. This drives representative selection within a
// duplicate group and the relevance share of the final ranking score.
//
// The blend leans on the token ratios (0.4 each) with a smaller partial
// component (0.2), so word order and retailer decoration don't tank the
// score while completely unrelated titles still land near zero.
func QueryScore(productName, query string) float64 {
	if Clean(productName) == "" || Clean(query) == "" {
		return 0
	}

	return TokenSortRatio(productName, query)*0.4 +
		TokenSetRatio(productName, query)*0.4 +
		PartialRatio(productName, query)*0.2
}

// IsDuplicate decides whether two offers describe the same product.
// The name-similarity threshold is raised by thresholdPenalty when the
// relative price gap exceeds priceVariance.
func IsDuplicate(name1, name2 string, price1, price2, threshold, priceVariance float64) bool {
	similarity := Similarity(name1, name2, "")

	if price1 > 0 && price2 > 0 {
		gap := math.Abs(price1-price2) / math.Max(price1, price2)
		if gap > priceVariance {
			threshold += thresholdPenalty
		}
	}

	return similarity >= threshold
}

// compareBrands scores brand agreement: 1.0 both equal, 0.0 both
// present but different, 0.5 when either is unknown.
func compareBrands(brand1, brand2 string) float64 {
	if brand1 == "" || brand2 == "" {
		return 0.5
	}
	if brand1 == brand2 {
		return 1.0
	}
	return 0.0
}

// compareModels scores model agreement via fuzzy ratio, with 0.5 when
// either model is unknown.
func compareModels(model1, model2 string) float64 {
	if model1 == "" || model2 == "" {
		return 0.5
	}
	return Ratio(model1, model2)
}

// compareStorage scores capacity agreement. Known-but-different storage
// scores a low 0.3, not 0.0: storage variants of the same line are
// still closely related listings.
func compareStorage(storage1, storage2 string) float64 {
	if storage1 == "" || storage2 == "" {
		return 0.5
	}
	if storage1 == storage2 {
		return 1.0
	}
	return 0.3
}

// compareColors scores color agreement. Colors matter least: retailers
// disagree constantly on finish naming, so unknown scores 0.8 and a
// mismatch still scores 0.6.
func compareColors(color1, color2 string) float64 {
	if color1 == "" || color2 == "" {
		return 0.8
	}
	if color1 == color2 {
		return 1.0
	}
	return 0.6
}

// queryRelevance averages the partial-match ratio of the query against
// both names. With no query context it returns the neutral 0.5.
func queryRelevance(name1, name2, query string) float64 {
	if Clean(query) == "" {
		return 0.5
	}
	return (PartialRatio(query, name1) + PartialRatio(query, name2)) / 2
}
