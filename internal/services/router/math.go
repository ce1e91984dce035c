package router

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/relay-router/internal/domain"
)

// DefaultHopMagnitude is the fee exponent used by the multi-hop accumulator.
// Each relay hop is charged as two traversals of the pool's fee. Chopped routes
// are priced on their unchopped pools with the same exponent; whether other
// chop structures call for a different one is unverified.
const DefaultHopMagnitude uint = 2

// CurveResult is the output of a single bonding-curve evaluation.
type CurveResult struct {
	Amount   domain.Quantity
	Slippage decimal.Decimal
}

// CalculateReturn prices selling amountIn into the pool holding reserves from
// and to. The reward is rounded toward zero at every step and truncated to
// the precision of to, so it never exceeds the exact curve value.
//
//	reward   = amountIn / (from + amountIn) * to
//	slippage = amountIn / from
func CalculateReturn(from, to, amountIn domain.Quantity) (*CurveResult, error) {
	if err := checkReserves(from, to); err != nil {
		return nil, err
	}
	if !amountIn.Symbol().Matches(from.Symbol()) {
		return nil, fmt.Errorf("%w: amount %s against reserve %s", ErrSymbolMismatch, amountIn, from)
	}
	if amountIn.Amount().GreaterThanOrEqual(from.Amount()) {
		return nil, fmt.Errorf("%w: amount %s, reserve %s", ErrExceedsReserve, amountIn, from)
	}

	ctx := roundDown
	in := amountIn.Amount()
	share := ctx.div(in, ctx.add(from.Amount(), in))
	reward := ctx.mul(share, to.Amount())

	q, err := domain.NewQuantity(reward.RoundDown(int32(to.Symbol().Precision)), to.Symbol())
	if err != nil {
		return nil, err
	}
	return &CurveResult{Amount: q, Slippage: ctx.div(in, from.Amount())}, nil
}

// CalculateCost prices buying amountOut of to. The continuous cost is
// computed rounding up at every step and is then truncated to the precision
// of from. Both roundings are part of the settlement contract and must not
// be unified with CalculateReturn.
//
//	cost     = from / (1 - amountOut/to) - from
//	slippage = amountOut / to
func CalculateCost(from, to, amountOut domain.Quantity) (*CurveResult, error) {
	if err := checkReserves(from, to); err != nil {
		return nil, err
	}
	if !amountOut.Symbol().Matches(to.Symbol()) {
		return nil, fmt.Errorf("%w: amount %s against reserve %s", ErrSymbolMismatch, amountOut, to)
	}
	if amountOut.Amount().GreaterThanOrEqual(to.Amount()) {
		return nil, fmt.Errorf("%w: amount %s, reserve %s", ErrExceedsReserve, amountOut, to)
	}

	ctx := roundUp
	out := amountOut.Amount()
	ratio := ctx.div(out, to.Amount())
	cost := ctx.sub(ctx.div(from.Amount(), ctx.sub(one, ratio)), from.Amount())
	if cost.IsNegative() {
		cost = decimal.Zero
	}

	q, err := domain.NewQuantity(cost.RoundDown(int32(from.Symbol().Precision)), from.Symbol())
	if err != nil {
		return nil, err
	}
	return &CurveResult{Amount: q, Slippage: ratio}, nil
}

// ApplyFee deducts the fee from a payout:
//
//	fee = q * (1 - (1 - rate)^magnitude)
//
// The fee is rounded down in the working context and the net amount is
// truncated to the token precision.
func ApplyFee(q domain.Quantity, rate decimal.Decimal, magnitude uint) (domain.Quantity, error) {
	if err := checkFee(rate); err != nil {
		return domain.Quantity{}, err
	}
	if rate.IsZero() || magnitude == 0 {
		return q, nil
	}

	ctx := roundDown
	complement := ctx.pow(ctx.sub(one, rate), magnitude)
	fee := ctx.mul(q.Amount(), ctx.sub(one, complement))
	net := ctx.sub(q.Amount(), fee)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return domain.NewQuantity(net.RoundDown(int32(q.Symbol().Precision)), q.Symbol())
}

// RemoveFee grosses up a cost so that the fee is paid on top of it:
//
//	gross = q / (1 - rate)^magnitude
//
// The complement is rounded down and the quotient rounded up, then the result
// is ceiled to the token precision so the payer is never under-charged.
func RemoveFee(q domain.Quantity, rate decimal.Decimal, magnitude uint) (domain.Quantity, error) {
	if err := checkFee(rate); err != nil {
		return domain.Quantity{}, err
	}
	if rate.IsZero() || magnitude == 0 {
		return q, nil
	}

	complement := roundDown.pow(roundDown.sub(one, rate), magnitude)
	gross := roundUp.div(q.Amount(), complement)
	return domain.NewQuantity(gross.RoundUp(int32(q.Symbol().Precision)), q.Symbol())
}

func checkReserves(from, to domain.Quantity) error {
	if !from.IsPositive() || !to.IsPositive() {
		return fmt.Errorf("%w: %s / %s", ErrZeroOrNegativeReserve, from, to)
	}
	return nil
}

func checkFee(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: %s", ErrInvalidFee, rate.String())
	}
	return nil
}
