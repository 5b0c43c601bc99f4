// Package scraper turns site configurations into offer providers.
//
// Each configured site names a search URL template and a set of
// tag.class selectors; the scraper fetches the search results page,
// walks the HTML tree, and extracts one raw offer per matching
// container element. Adding a source is a configuration change, not a
// code change.
//
// Requests are rate limited per site and response bodies are capped to
// keep a misbehaving site from exhausting memory.
package scraper
