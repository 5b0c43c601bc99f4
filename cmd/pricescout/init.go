package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/pricescout.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".pricescout"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new pricescout configuration file",
		Long: `Init creates a new .pricescout configuration file in the current directory.

The generated file includes:
- Ready-to-edit site definitions with CSS-style selectors
- Commented examples for sources requiring API key headers
- Optional reliability and currency rate overrides

Examples:
  # Create .pricescout in current directory
  pricescout init

  # Create config file at a specific path
  pricescout init -o myconfig.yaml

  # Force overwrite existing file
  pricescout init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/pricescout.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure sources:")
	fmt.Fprintln(out, "  - Search URL templates with the {query} placeholder")
	fmt.Fprintln(out, "  - HTML selectors for offer, name and price extraction")
	fmt.Fprintln(out, "  - Per-country priorities and reliability scores")

	return nil
}
