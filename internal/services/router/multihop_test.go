package router

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/relay-router/internal/domain"
)

func twoHopPath() []domain.Pool {
	return []domain.Pool{
		relay("ab", "0.003", "100.0000 A", "100.0000 B"),
		relay("bc", "0.005", "100.0000 B", "200.0000 C"),
	}
}

func TestFindReturnTwoHops(t *testing.T) {
	path := twoHopPath()

	res, err := FindReturn(qty("10.0000 A"), path)
	require.NoError(t, err)
	assert.Equal(t, "16.4096 C", res.Amount.String())
	assertDecimal(t, "0.1", res.Slippage)

	// same as applying curve then fee hop by hop
	running := qty("10.0000 A")
	var slippages []decimal.Decimal
	for _, p := range path {
		from, to, err := p.Oriented(running.Symbol())
		require.NoError(t, err)
		curve, err := CalculateReturn(from.Quantity, to.Quantity, running)
		require.NoError(t, err)
		running, err = ApplyFee(curve.Amount, p.Fee, DefaultHopMagnitude)
		require.NoError(t, err)
		slippages = append(slippages, curve.Slippage)
	}
	assert.Equal(t, running.String(), res.Amount.String())
	assert.True(t, res.Slippage.Equal(decimal.Max(slippages[0], slippages[1:]...)))
	for _, s := range slippages {
		assert.True(t, res.Slippage.GreaterThanOrEqual(s))
	}
}

func TestFindReturnOrientsReserves(t *testing.T) {
	forward := []domain.Pool{relay("ab", "0.003", "100.0000 A", "100.0000 B")}
	flipped := []domain.Pool{relay("ab", "0.003", "100.0000 B", "100.0000 A")}

	a, err := FindReturn(qty("10.0000 A"), forward)
	require.NoError(t, err)
	b, err := FindReturn(qty("10.0000 A"), flipped)
	require.NoError(t, err)
	assert.Equal(t, a.Amount.String(), b.Amount.String())
}

func TestFindReturnErrors(t *testing.T) {
	_, err := FindReturn(qty("10.0000 A"), nil)
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = FindReturn(qty("10.0000 Q"), twoHopPath())
	assert.ErrorIs(t, err, ErrSymbolMismatch)

	_, err = FindReturn(qty("100.0000 A"), twoHopPath())
	assert.ErrorIs(t, err, ErrExceedsReserve)
}

func TestFindCostTwoHops(t *testing.T) {
	res, err := FindCost(qty("10.0000 C"), twoHopPath())
	require.NoError(t, err)
	assert.Equal(t, "5.6485 A", res.Amount.String())
	assertDecimal(t, "0.053162", res.Slippage)

	_, err = FindCost(qty("10.0000 C"), nil)
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = FindCost(qty("200.0000 C"), twoHopPath())
	assert.ErrorIs(t, err, ErrExceedsReserve)
}

// FindCost is CalculateCost then RemoveFee applied from the last hop back.
func TestFindCostIsReverseFold(t *testing.T) {
	path := twoHopPath()
	for _, want := range []string{"0.5000 C", "10.0000 C", "42.4242 C"} {
		res, err := FindCost(qty(want), path)
		require.NoError(t, err)

		running := qty(want)
		for i := len(path) - 1; i >= 0; i-- {
			to, from, err := path[i].Oriented(running.Symbol())
			require.NoError(t, err)
			curve, err := CalculateCost(from.Quantity, to.Quantity, running)
			require.NoError(t, err)
			running, err = RemoveFee(curve.Amount, path[i].Fee, DefaultHopMagnitude)
			require.NoError(t, err)
		}
		assert.Equal(t, running.String(), res.Amount.String())
		assert.Equal(t, "A", res.Amount.Symbol().Code)
	}
}

// Cost truncates after computing in the round-up context, so paying the quoted
// cost can return slightly less than was asked for.
func TestFindCostUnderQuotes(t *testing.T) {
	path := twoHopPath()
	cost, err := FindCost(qty("10.0000 C"), path)
	require.NoError(t, err)

	back, err := FindReturn(cost.Amount, path)
	require.NoError(t, err)
	assert.True(t, back.Amount.Amount().LessThan(decimal.NewFromInt(10)), back.Amount.String())
	assert.True(t, back.Amount.Amount().GreaterThan(decimal.RequireFromString("9.99")), back.Amount.String())
}
