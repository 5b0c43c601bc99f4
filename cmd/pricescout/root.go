// Package main provides the entry point for the pricescout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pricescout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricescout",
		Short: "Search retail sites for the best product prices",
		Long: `pricescout searches configured retail sites for product offers,
normalizes prices into a single target currency, merges duplicate
listings across sources, and ranks the results by relevance, source
reliability, and price.

Sources are defined in a .pricescout configuration file; run
"pricescout init" to create a starter file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewSourcesCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
