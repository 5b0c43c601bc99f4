package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pricescout/pricescout/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
//
// Design decision: plain ASCII formatting rather than ANSI colors, so
// the output pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables per-offer detail lines (link, seller, shipping).
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the response as a text report.
func (w *SimpleWriter) Write(resp *model.SearchResponse) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, resp)
	w.writeResults(&sb, resp)
	w.writeFooter(&sb, resp)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, resp *model.SearchResponse) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PRICE SEARCH RESULTS\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Query:       %s\n", resp.Query))
	sb.WriteString(fmt.Sprintf("Country:     %s\n", resp.Country))
	sb.WriteString(fmt.Sprintf("Date:        %s\n", resp.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Search Time: %.2fs\n", resp.SearchTime))

	if len(resp.SourcesUsed) == 0 {
		sb.WriteString("Sources:     none\n")
	} else {
		sb.WriteString(fmt.Sprintf("Sources:     %s\n", strings.Join(resp.SourcesUsed, ", ")))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeResults(sb *strings.Builder, resp *model.SearchResponse) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("RESULTS (%d)\n", resp.TotalResults))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(resp.Results) == 0 {
		sb.WriteString("  No offers found\n\n")
		return
	}

	for _, item := range resp.Results {
		sb.WriteString(fmt.Sprintf("  %2d. %s\n", item.Rank, item.ProductName))
		sb.WriteString(fmt.Sprintf("      %s %s  [%s]", item.Price, item.Currency, item.Source))
		if item.Availability != "" {
			sb.WriteString("  " + item.Availability)
		}
		sb.WriteString("\n")

		if item.Rating != nil {
			sb.WriteString(fmt.Sprintf("      Rating: %.1f/5", *item.Rating))
			if item.ReviewsCount != nil {
				sb.WriteString(fmt.Sprintf(" (%s reviews)", strconv.Itoa(*item.ReviewsCount)))
			}
			sb.WriteString("\n")
		}

		if w.verbose {
			if item.Link != "" {
				sb.WriteString(fmt.Sprintf("      Link: %s\n", item.Link))
			}
			if item.Seller != "" {
				sb.WriteString(fmt.Sprintf("      Seller: %s\n", item.Seller))
			}
			if item.ShippingCost != "" {
				sb.WriteString(fmt.Sprintf("      Shipping: %s\n", item.ShippingCost))
			}
			sb.WriteString(fmt.Sprintf("      Relevance: %.2f\n", item.SimilarityScore))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder, resp *model.SearchResponse) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d offers from %d sources\n", resp.TotalResults, len(resp.SourcesUsed)))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
