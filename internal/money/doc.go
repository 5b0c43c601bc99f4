// Package money parses free-text prices into canonical (amount,
// currency) pairs and converts amounts between currencies.
//
// Sources report prices in every imaginable shape: "$1,299.99",
// "1.299,00 €", "Rs. 79,900", "GBP 899". ParsePrice turns all of them
// into a positive float64 plus an ISO 4217 code when one can be
// inferred. Conversion is behind the Converter interface so the engine
// can be tested with deterministic fakes; the RateTable implementation
// uses a static USD-pivot table that the config file can override.
package money
