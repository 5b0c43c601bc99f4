package money

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

// Price parsing errors.
var (
	// ErrNoAmount is returned when no numeric amount can be found in
	// the price text. Offers with unparseable prices are dropped by the
	// normalization step; this is a per-offer data-quality loss, not a
	// search failure.
	ErrNoAmount = errors.New("no numeric amount in price text")

	// ErrNonPositiveAmount is returned when the parsed amount is zero
	// or negative. Zero prices are always scrape artifacts and would
	// poison the price-similarity math downstream.
	ErrNonPositiveAmount = errors.New("parsed amount is not positive")
)

// symbolTable maps currency symbols and textual prefixes to ISO 4217
// codes. Evaluated in order: multi-character symbols must come before
// the single characters they contain (e.g. "R$" before "$").
var symbolTable = []struct {
	symbol string
	code   string
}{
	{"R$", "BRL"},
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"US$", "USD"},
	{"Rs.", "INR"},
	{"Rs", "INR"},
	{"$", "USD"},
	{"£", "GBP"},
	{"€", "EUR"},
	{"₹", "INR"},
	{"¥", "JPY"},
	{"₩", "KRW"},
	{"zł", "PLN"},
	{"kr", "SEK"},
}

// isoCodePattern matches a standalone three-letter currency code.
var isoCodePattern = regexp.MustCompile(`\b([A-Z]{3})\b`)

// amountPattern matches the first number-looking run in price text,
// including thousands separators in both conventions.
var amountPattern = regexp.MustCompile(`\d+(?:[.,\s]\d+)*`)

// ParsePrice parses free-text price into a numeric amount and an ISO
// 4217 currency code. The code is empty when none can be inferred from
// the text; callers fall back to the offer's declared currency and then
// to the request's target currency.
func ParsePrice(text string) (float64, string, error) {
	code := inferCurrency(text)

	raw := amountPattern.FindString(text)
	if raw == "" {
		return 0, "", ErrNoAmount
	}

	amount, err := parseAmount(raw)
	if err != nil {
		return 0, "", err
	}
	if amount <= 0 {
		return 0, "", ErrNonPositiveAmount
	}

	return amount, code, nil
}

// inferCurrency extracts a currency code from price text, first by
// symbol, then by embedded ISO code. Returns "" when nothing matches.
func inferCurrency(text string) string {
	for _, entry := range symbolTable {
		if strings.Contains(text, entry.symbol) {
			return entry.code
		}
	}

	for _, match := range isoCodePattern.FindAllString(text, -1) {
		if ValidCode(match) {
			return match
		}
	}

	return ""
}

// ValidCode reports whether code is a well-formed ISO 4217 currency code.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// parseAmount converts a raw digit run with optional separators into a
// float. It has to disambiguate "1,299.99" (US), "1.299,00" (EU) and
// "79,900" (thousands only).
func parseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(raw, " ", "")

	lastDot := strings.LastIndex(raw, ".")
	lastComma := strings.LastIndex(raw, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the later one is the decimal separator.
		if lastDot > lastComma {
			raw = strings.ReplaceAll(raw, ",", "")
		} else {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		}
	case lastComma >= 0:
		// Comma only: decimal if it looks like cents ("899,99"),
		// thousands otherwise ("79,900" or "1,299,000").
		if strings.Count(raw, ",") == 1 && len(raw)-lastComma-1 == 2 {
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case lastDot >= 0:
		// Dot only: same heuristic. "1.299" with three trailing digits
		// is a European thousands separator, "999.99" is a decimal.
		if strings.Count(raw, ".") == 1 && len(raw)-lastDot-1 != 3 {
			break // decimal, leave as-is
		}
		if len(raw)-lastDot-1 == 3 && lastDot <= 3 {
			raw = strings.ReplaceAll(raw, ".", "")
		} else if strings.Count(raw, ".") > 1 {
			raw = strings.ReplaceAll(raw, ".", "")
		}
	}

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrNoAmount
	}
	return amount, nil
}
