// Package provider defines the contract between the search engine and
// the data sources it fans out to.
//
// A provider is a named external source capable of answering a product
// query for specific countries. Concrete implementations (the HTML site
// scraper, test fakes) are registered in a typed Registry at startup;
// there is no runtime reflection or dynamic loading involved.
package provider
