package router

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/relay-router/internal/domain"
)

// ReturnHop prices selling amountIn through pool: curve return, then fee.
func ReturnHop(pool domain.Pool, amountIn domain.Quantity, magnitude uint) (*domain.HopQuote, error) {
	from, to, err := pool.Oriented(amountIn.Symbol())
	if err != nil {
		return nil, err
	}
	res, err := CalculateReturn(from.Quantity, to.Quantity, amountIn)
	if err != nil {
		return nil, err
	}
	out, err := ApplyFee(res.Amount, pool.Fee, magnitude)
	if err != nil {
		return nil, err
	}
	return &domain.HopQuote{Pool: pool, AmountIn: amountIn, AmountOut: out, Slippage: res.Slippage}, nil
}

// CostHop prices buying amountOut from pool: curve cost, then the fee is
// added on top.
func CostHop(pool domain.Pool, amountOut domain.Quantity, magnitude uint) (*domain.HopQuote, error) {
	to, from, err := pool.Oriented(amountOut.Symbol())
	if err != nil {
		return nil, err
	}
	res, err := CalculateCost(from.Quantity, to.Quantity, amountOut)
	if err != nil {
		return nil, err
	}
	in, err := RemoveFee(res.Amount, pool.Fee, magnitude)
	if err != nil {
		return nil, err
	}
	return &domain.HopQuote{Pool: pool, AmountIn: in, AmountOut: amountOut, Slippage: res.Slippage}, nil
}

// FindReturn folds ReturnHop over path from left to right and reports the
// largest slippage seen on any hop.
func FindReturn(amountIn domain.Quantity, path []domain.Pool) (*domain.ConversionResult, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	running := amountIn
	worst := decimal.Zero
	for i, pool := range path {
		hop, err := ReturnHop(pool, running, DefaultHopMagnitude)
		if err != nil {
			return nil, fmt.Errorf("hop %d via %s: %w", i, pool.Key(), err)
		}
		running = hop.AmountOut
		worst = decimal.Max(worst, hop.Slippage)
	}
	return &domain.ConversionResult{Amount: running, Slippage: worst}, nil
}

// FindCost walks path backwards from the desired output, since each hop's
// cost is the next hop's required output.
func FindCost(amountOut domain.Quantity, path []domain.Pool) (*domain.ConversionResult, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}

	running := amountOut
	worst := decimal.Zero
	for i := len(path) - 1; i >= 0; i-- {
		hop, err := CostHop(path[i], running, DefaultHopMagnitude)
		if err != nil {
			return nil, fmt.Errorf("hop %d via %s: %w", i, path[i].Key(), err)
		}
		running = hop.AmountIn
		worst = decimal.Max(worst, hop.Slippage)
	}
	return &domain.ConversionResult{Amount: running, Slippage: worst}, nil
}
