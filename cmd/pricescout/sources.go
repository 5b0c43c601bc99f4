package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/spf13/cobra"
)

// NewSourcesCmd creates the sources command.
func NewSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured source sites",
		Long: `Sources lists every site defined in the .pricescout configuration
file together with its currency and the countries it serves.

Examples:
  # List sources from the default config file
  pricescout sources

  # List sources from a specific config file
  pricescout sources -c myconfig.yaml

  # Only sources serving Germany
  pricescout sources --country DE`,
		RunE: runSourcesCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pricescout in current or home directory)")
	cmd.Flags().StringP("country", "C", "",
		"Only list sources serving this country code")

	return cmd
}

// runSourcesCmd executes the sources command.
func runSourcesCmd(cmd *cobra.Command, _ []string) error {
	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	configPath := config.FindConfigFile(configFlag)
	if configPath == "" {
		if configFlag != "" {
			return fmt.Errorf("configuration file not found: %s", configFlag)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No configuration file found. Run 'pricescout init' to create one.")
		return nil
	}

	cf, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	country, err := cmd.Flags().GetString("country")
	if err != nil {
		return err
	}
	country = strings.ToUpper(strings.TrimSpace(country))

	sites := cf.Sites
	if country != "" {
		sites = sites[:0:0]
		for _, site := range cf.Sites {
			if _, ok := site.Countries[country]; ok {
				sites = append(sites, site)
			}
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sources configured in %s:\n\n", configPath)

	if len(sites) == 0 {
		fmt.Fprintln(out, "  (none)")
		return nil
	}

	for _, site := range sites {
		currency := site.Currency
		if currency == "" {
			currency = "auto"
		}
		fmt.Fprintf(out, "  %-12s currency: %-4s  countries: %s\n",
			site.Name, currency, formatCountries(site.Countries))
		fmt.Fprintf(out, "  %-12s %s\n", "", site.SearchURL)
	}

	fmt.Fprintf(out, "\n%d source(s)\n", len(sites))
	return nil
}

// formatCountries renders the country/priority map in stable order.
func formatCountries(countries map[string]int) string {
	if len(countries) == 0 {
		return "(none)"
	}

	codes := make([]string, 0, len(countries))
	for code := range countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s(%d)", code, countries[code]))
	}
	return strings.Join(parts, " ")
}
