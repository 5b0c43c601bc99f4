package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved searches",
		Long: `History lists searches recorded in the local database and shows the
offers a past search returned.

Examples:
  # List the most recent searches
  pricescout history list

  # Show the offers of search #3
  pricescout history show 3`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

// newHistoryListCmd creates the history list subcommand.
func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved searches, most recent first",
		RunE:  runHistoryListCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of searches to list (0 = all)")

	return cmd
}

// runHistoryListCmd executes the history list subcommand.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	records, err := db.ListSearches(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list searches: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No saved searches.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-20s %-8s %-8s %-30s %s\n",
		"ID", "Date", "Country", "Results", "Query", "Sources")
	for _, record := range records {
		fmt.Fprintf(out, "%-5d %-20s %-8s %-8d %-30s %s\n",
			record.ID,
			record.CreatedAt.Format("2006-01-02 15:04:05"),
			record.Country,
			record.TotalResults,
			truncateQuery(record.Query, 30),
			strings.Join(record.SourcesUsed, ","),
		)
	}

	return nil
}

// newHistoryShowCmd creates the history show subcommand.
func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the offers a saved search returned",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
}

// runHistoryShowCmd executes the history show subcommand.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid search id %q", args[0])
	}

	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	record, err := db.GetSearch(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load search: %w", err)
	}
	if record == nil {
		return fmt.Errorf("no saved search with id %d", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Search #%d\n", record.ID)
	fmt.Fprintf(out, "  Query:   %s\n", record.Query)
	fmt.Fprintf(out, "  Country: %s\n", record.Country)
	fmt.Fprintf(out, "  Date:    %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Sources: %s\n", strings.Join(record.SourcesUsed, ", "))
	fmt.Fprintf(out, "  Time:    %.2fs\n\n", record.SearchTime)

	if len(record.Offers) == 0 {
		fmt.Fprintln(out, "No offers were found.")
		return nil
	}

	for _, offer := range record.Offers {
		fmt.Fprintf(out, "  %2d. %s\n", offer.Rank, offer.ProductName)
		fmt.Fprintf(out, "      %s %s  [%s]\n", offer.Price, offer.Currency, offer.Source)
		if offer.Link != "" {
			fmt.Fprintf(out, "      %s\n", offer.Link)
		}
	}

	return nil
}

// openHistory opens the history database in read-write mode without
// creating it; browsing history should never create an empty database.
func openHistory() (*database.HistoryDB, error) {
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("no search history found (searches are recorded automatically unless --no-save is used): %w", err)
	}
	return db, nil
}

// truncateQuery shortens a query for the list view.
func truncateQuery(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
