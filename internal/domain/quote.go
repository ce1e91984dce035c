package domain

import "github.com/shopspring/decimal"

type SwapMode string

const (
	SwapModeExactIn  SwapMode = "ExactIn"
	SwapModeExactOut SwapMode = "ExactOut"
)

// ConversionResult is the outcome of folding the curve over a path.
type ConversionResult struct {
	Amount   Quantity
	Slippage decimal.Decimal
}

type HopQuote struct {
	Pool      Pool
	AmountIn  Quantity
	AmountOut Quantity
	Slippage  decimal.Decimal
}

// Quote is a priced conversion along a resolved path.
type Quote struct {
	Mode      SwapMode
	From      string
	To        string
	AmountIn  Quantity
	AmountOut Quantity
	Slippage  decimal.Decimal
	Path      []string
	Hops      []HopQuote
}

// Pools returns the pools traversed, in source-to-destination order.
func (q *Quote) Pools() []Pool {
	pools := make([]Pool, len(q.Hops))
	for i, h := range q.Hops {
		pools[i] = h.Pool
	}
	return pools
}
