package model

// FeatureSet holds the structured attributes extracted from a product
// name (plus the query for context). All fields are optional: an empty
// string means the attribute could not be determined. FeatureSets are
// derived on demand and never persisted.
type FeatureSet struct {
	// Brand is the detected manufacturer (e.g. "apple", "samsung").
	Brand string

	// Model is the detected model designation (e.g. "16 pro").
	Model string

	// Storage is the detected capacity, normalized like "128GB".
	Storage string

	// Color is the detected color word, lowercased.
	Color string

	// Category is the product category (e.g. "smartphone", "laptop").
	Category string

	// KeySpecs are short spec strings in extraction order
	// (e.g. "8GB RAM", "48MP", `6.1"`).
	KeySpecs []string
}
