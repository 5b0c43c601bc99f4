package report

import (
	"io"

	"github.com/pricescout/pricescout/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a search response in a specific format.
//
// Design decision: an interface rather than format functions so the
// CLI can compose terminal, file and multi-destination output with the
// same API.
type Writer interface {
	// Write renders the response to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(resp *model.SearchResponse) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// Useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the response to all configured Writers.
// Returns the total bytes written; stops on the first error.
func (m *MultiWriter) Write(resp *model.SearchResponse) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(resp)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
