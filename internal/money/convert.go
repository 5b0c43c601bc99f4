package money

import (
	"fmt"
	"strings"
)

// Converter converts an amount between two currencies.
// The engine depends on this interface rather than a concrete rate
// source, so tests can substitute deterministic fakes and conversion
// failures can be simulated.
type Converter interface {
	// Convert returns amount expressed in the "to" currency.
	// Both codes are ISO 4217. Converting a currency to itself must
	// return the amount unchanged.
	Convert(amount float64, from, to string) (float64, error)
}

// defaultRates is the built-in USD-pivot rate table: units of the keyed
// currency per one USD. These are coarse reference values, not live
// market rates; the config file can override any of them.
var defaultRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"INR": 83.2,
	"JPY": 149.5,
	"CNY": 7.24,
	"CAD": 1.36,
	"AUD": 1.52,
	"BRL": 5.05,
	"KRW": 1330.0,
	"SEK": 10.5,
	"PLN": 4.0,
	"CHF": 0.88,
	"SGD": 1.34,
	"AED": 3.67,
}

// RateTable is a static-rate Converter with USD as pivot currency.
type RateTable struct {
	rates map[string]float64
}

// NewRateTable creates a RateTable from the built-in default rates,
// with overrides applied on top. Override keys are ISO 4217 codes,
// values are units per USD.
func NewRateTable(overrides map[string]float64) *RateTable {
	rates := make(map[string]float64, len(defaultRates)+len(overrides))
	for code, rate := range defaultRates {
		rates[code] = rate
	}
	for code, rate := range overrides {
		if rate > 0 {
			rates[strings.ToUpper(code)] = rate
		}
	}
	return &RateTable{rates: rates}
}

// Convert converts amount from one currency to another through the USD
// pivot. Unknown codes return an error; the caller keeps the original
// amount and reports the offer in its source currency instead.
func (t *RateTable) Convert(amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return amount, nil
	}

	fromRate, ok := t.rates[from]
	if !ok {
		return 0, fmt.Errorf("no conversion rate for currency %q", from)
	}
	toRate, ok := t.rates[to]
	if !ok {
		return 0, fmt.Errorf("no conversion rate for currency %q", to)
	}

	return amount / fromRate * toRate, nil
}
