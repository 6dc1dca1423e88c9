// Package pricing computes the suggested sale price from cost, profit
// margin and tax burden. Stateless: nothing here is persisted.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Price returns cost / (1 - (margin% + tax%) / 100) rounded to two
// decimals. Inputs are raw form strings: cost tolerates a decimal comma,
// and any unparseable number defaults to 0.
//
// The result is undefined (ok=false) when cost <= 0, and also when
// margin% + tax% >= 100: the denominator would be zero or negative and
// the formula would yield an infinite or negative price.
func Price(cost, marginPct, taxPct string) (decimal.Decimal, bool) {
	c := parseNumber(strings.Replace(cost, ",", ".", 1))
	if c <= 0 {
		return decimal.Decimal{}, false
	}

	load := parseNumber(marginPct) + parseNumber(taxPct)
	if load >= 100 {
		return decimal.Decimal{}, false
	}

	denom := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(load).Div(decimal.NewFromInt(100)))
	return decimal.NewFromFloat(c).Div(denom).Round(2), true
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a usable form input,
	// and decimal cannot represent them.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
