package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pricescout/pricescout/internal/model"
)

func sampleResponse(t *testing.T) *model.SearchResponse {
	t.Helper()

	rating := 4.5
	reviews := 1200

	return &model.SearchResponse{
		Results: []model.ResultItem{
			{
				Link:            "https://amazon.com/dp/B0ABC123",
				Price:           "999.00",
				Currency:        "USD",
				ProductName:     "Apple iPhone 16 Pro 128GB - Natural Titanium",
				Availability:    "In Stock",
				Rating:          &rating,
				ReviewsCount:    &reviews,
				Source:          "amazon",
				SimilarityScore: 0.95,
				Rank:            1,
			},
			{
				Price:           "989.00",
				Currency:        "USD",
				ProductName:     "iPhone 16 Pro 128GB Natural Titanium (Unlocked)",
				Source:          "ebay",
				SimilarityScore: 0.88,
				Rank:            2,
			},
		},
		TotalResults: 2,
		SearchTime:   1.42,
		SourcesUsed:  []string{"amazon", "ebay"},
		Query:        "iPhone 16 Pro",
		Country:      "US",
		Timestamp:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func emptyResponse(t *testing.T) *model.SearchResponse {
	t.Helper()

	return &model.SearchResponse{
		SourcesUsed: []string{},
		Query:       "unobtainium",
		Country:     "US",
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(sampleResponse(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"iPhone 16 Pro",
			"Apple iPhone 16 Pro 128GB - Natural Titanium",
			"999.00 USD",
			"[amazon]",
			"Rating: 4.5/5",
			"amazon, ebay",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		// Link only appears in verbose mode.
		if strings.Contains(out, "https://amazon.com") {
			t.Error("link should not appear without verbose")
		}
	})

	t.Run("verbose adds detail lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleResponse(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Link: https://amazon.com/dp/B0ABC123") {
			t.Error("verbose output missing link")
		}
		if !strings.Contains(out, "Relevance: 0.95") {
			t.Error("verbose output missing relevance")
		}
	})

	t.Run("empty response", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(emptyResponse(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "No offers found") {
			t.Error("output missing empty-result notice")
		}
		if !strings.Contains(out, "Sources:     none") {
			t.Error("output missing empty sources line")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleResponse(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.SearchResponse
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.TotalResults != 2 {
			t.Errorf("TotalResults = %d, want 2", decoded.TotalResults)
		}
		if decoded.Results[0].Rank != 1 {
			t.Errorf("Results[0].Rank = %d, want 1", decoded.Results[0].Rank)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleResponse(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"results\"") {
			t.Error("expected indented output")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders results and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleResponse(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Price Search Report",
			"## Results",
			"| Rank |",
			"[Apple iPhone 16 Pro 128GB - Natural Titanium](https://amazon.com/dp/B0ABC123)",
			"```mermaid",
			"pie",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("empty response shows a note", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(emptyResponse(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "No offers found") {
			t.Error("output missing empty-result note")
		}
		if strings.Contains(out, "## Results") {
			t.Error("results section should be omitted when empty")
		}
	})
}

// failingWriter always errors, for MultiWriter error propagation tests.
type failingWriter struct{}

func (failingWriter) Write(_ *model.SearchResponse) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all destinations", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		total, err := mw.Write(sampleResponse(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both destinations to receive output")
		}
		if total != a.Len()+b.Len() {
			t.Errorf("total = %d, want %d", total, a.Len()+b.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))

		if _, err := mw.Write(sampleResponse(t)); err == nil {
			t.Error("expected error from failing writer")
		}
		if buf.Len() != 0 {
			t.Error("second writer should not have been reached")
		}
	})
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string unchanged", input: "abc", maxLen: 10, want: "abc"},
		{name: "long string truncated", input: "abcdefghij", maxLen: 7, want: "abcd..."},
		{name: "tiny limit", input: "abcdef", maxLen: 2, want: "ab"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
