package domain

import "github.com/shopspring/decimal"

// Money amounts (product cost, wallet balance, cart totals) are
// shopspring decimals. They go over the wire as JSON numbers, the shape
// API clients add up directly; decoding accepts numbers and strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
