package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pricescout/pricescout/internal/model"
)

// MarkdownWriter outputs responses in Markdown format for
// documentation and sharing.
//
// Design decision: the nao1215/markdown library gives type-safe tables,
// GitHub-flavored alerts and mermaid charts without string templating.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the response as a Markdown report.
func (w *MarkdownWriter) Write(resp *model.SearchResponse) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, resp)
	w.writeResults(md, resp)
	w.writeSources(md, resp)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the search summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, resp *model.SearchResponse) {
	md.H1("Price Search Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Query", "`" + resp.Query + "`"},
			{"Country", resp.Country},
			{"Date", resp.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Search Time", fmt.Sprintf("%.2fs", resp.SearchTime)},
			{"Results", strconv.Itoa(resp.TotalResults)},
			{"Sources", strconv.Itoa(len(resp.SourcesUsed))},
		},
	})
	md.PlainText("")

	if resp.TotalResults == 0 {
		md.Note("No offers found for this query.")
		md.PlainText("")
	}
}

// writeResults writes the ranked offer table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, resp *model.SearchResponse) {
	if len(resp.Results) == 0 {
		return
	}

	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, len(resp.Results))
	for i, item := range resp.Results {
		name := truncateString(item.ProductName, 60)
		if item.Link != "" {
			name = "[" + name + "](" + item.Link + ")"
		}

		rating := "-"
		if item.Rating != nil {
			rating = fmt.Sprintf("%.1f", *item.Rating)
		}
		availability := item.Availability
		if availability == "" {
			availability = "-"
		}

		rows[i] = []string{
			strconv.Itoa(item.Rank),
			name,
			item.Price + " " + item.Currency,
			item.Source,
			availability,
			rating,
			fmt.Sprintf("%.2f", item.SimilarityScore),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Product", "Price", "Source", "Availability", "Rating", "Relevance"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSources writes the per-source offer distribution as a mermaid
// pie chart.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, resp *model.SearchResponse) {
	if len(resp.Results) == 0 {
		return
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, item := range resp.Results {
		if _, seen := counts[item.Source]; !seen {
			order = append(order, item.Source)
		}
		counts[item.Source]++
	}

	md.H2("Offers per Source")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Offer Source Distribution"),
		piechart.WithShowData(true),
	)

	title := cases.Title(language.English)
	for _, source := range order {
		chart.LabelAndIntValue(title.String(source), uint64(counts[source])) //nolint:gosec // Count is non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pricescout](https://github.com/pricescout/pricescout)*")
}
