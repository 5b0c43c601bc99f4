package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pricescout"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// SiteConfig describes one scrapeable source site.
// The scraper turns each SiteConfig into a provider; adding a source is
// a config change, not a code change.
type SiteConfig struct {
	// Name is the provider name (e.g. "amazon"). Used for source
	// filtering, reliability lookup and the sources_used response field.
	Name string `yaml:"name"`

	// SearchURL is the search results URL template. The literal
	// "{query}" is replaced with the URL-escaped query text.
	SearchURL string `yaml:"searchUrl"`

	// Currency is the ISO 4217 code the site lists prices in.
	// Used as fallback when the price text itself carries no currency.
	Currency string `yaml:"currency,omitempty"`

	// Countries maps supported country codes to the site's priority for
	// that country (lower = higher priority). A country absent from the
	// map is unsupported.
	Countries map[string]int `yaml:"countries"`

	// Selectors configures HTML extraction for this site.
	Selectors SelectorConfig `yaml:"selectors"`

	// Headers are extra HTTP headers for requests to this site
	// (e.g. an API key for sources that require one).
	Headers map[string]string `yaml:"headers,omitempty"`
}

// SelectorConfig holds the tag.class selectors used to pull offers out
// of a search results page. Each selector is "tag.class", ".class"
// (any tag) or "tag" (any class).
type SelectorConfig struct {
	// Offer matches one offer container element.
	Offer string `yaml:"offer"`

	// Name matches the product title inside an offer container.
	Name string `yaml:"name"`

	// Price matches the price text inside an offer container.
	Price string `yaml:"price"`

	// Link matches the anchor pointing at the listing. Optional; when
	// empty the first anchor inside the container is used.
	Link string `yaml:"link,omitempty"`

	// Image matches the product image. Optional.
	Image string `yaml:"image,omitempty"`

	// Availability matches stock status text. Optional.
	Availability string `yaml:"availability,omitempty"`

	// Rating matches the rating text (e.g. "4.5 out of 5"). Optional.
	Rating string `yaml:"rating,omitempty"`
}

// File represents the structure of the .pricescout configuration file.
type File struct {
	// Sites lists the scrapeable sources in registration order.
	// Order matters: provider priority ties are broken by it.
	Sites []SiteConfig `yaml:"sites,omitempty"`

	// Reliability maps lowercased source names to trust scores in [0,1]
	// used by the ranker. Sources absent from the map (and from the
	// built-in defaults) score 0.6.
	Reliability map[string]float64 `yaml:"reliability,omitempty"`

	// Rates maps ISO 4217 codes to units-per-USD conversion rates,
	// overriding or extending the built-in rate table.
	Rates map[string]float64 `yaml:"rates,omitempty"`
}

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this based on whether the path was explicitly given.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Reliability == nil {
		cf.Reliability = make(map[string]float64)
	}
	if cf.Rates == nil {
		cf.Rates = make(map[string]float64)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in order:
// 1. If configPath is specified, use it directly
// 2. Look for .pricescout in the current directory
// 3. Look for .pricescout in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
