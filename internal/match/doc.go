// Package match scores how alike two product names are.
//
// It has three layers: fuzzy string ratios (token-order-insensitive
// variants of normalized edit distance), structured feature extraction
// (brand, model, storage, color, category pulled out of title text via
// ordered pattern tables), and the weighted similarity score that
// combines both to drive duplicate detection and query relevance.
//
// The pattern tables are data, not structure: supporting a new brand or
// model family means appending a row, never changing the extraction
// logic.
package match
