// Package main provides the entry point for the pricescout CLI.
//
// pricescout searches configured retail sites for product offers,
// normalizes prices into a single currency, merges duplicate listings,
// and ranks the results by relevance and price.
//
// Usage:
//
//	pricescout search "iPhone 16 Pro"
//	pricescout search --country DE --currency EUR "thinkpad x1"
//
// See --help for all available options.
package main

// main is the entry point for pricescout.
func main() {
	Execute()
}
