package domain

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStr   string
		wantPrec  uint8
		wantError error
	}{
		{name: "four decimals", input: "10.0000 BNT", wantStr: "10.0000 BNT", wantPrec: 4},
		{name: "integer", input: "42 TKN", wantStr: "42 TKN", wantPrec: 0},
		{name: "eight decimals", input: "0.00000001 BTC", wantStr: "0.00000001 BTC", wantPrec: 8},
		{name: "missing symbol", input: "10.0000", wantError: ErrInvalidAmount},
		{name: "negative", input: "-1.0 EOS", wantError: ErrNegativeAmount},
		{name: "garbage", input: "abc EOS", wantError: ErrInvalidAmount},
		{name: "bad code", input: "1.0 E,OS", wantError: ErrInvalidSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuantity(tt.input)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, q.String())
			assert.Equal(t, tt.wantPrec, q.Symbol().Precision)
		})
	}
}

func TestNewQuantityTruncates(t *testing.T) {
	sym := Symbol{Code: "B", Precision: 4}
	q, err := NewQuantity(decimal.RequireFromString("9.09090909"), sym)
	require.NoError(t, err)
	assert.Equal(t, "9.0909 B", q.String())
}

func TestQuantitySymbolGuard(t *testing.T) {
	a := MustParseQuantity("1.0000 A")
	b := MustParseQuantity("1.0000 B")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrSymbolMismatch)
	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrSymbolMismatch)
	_, err = a.Cmp(b)
	assert.ErrorIs(t, err, ErrSymbolMismatch)

	lower := MustParseQuantity("2.0000 a")
	sum, err := a.Add(lower)
	require.NoError(t, err)
	assert.Equal(t, "3.0000 A", sum.String())
}

func TestQuantitySubNeverNegative(t *testing.T) {
	a := MustParseQuantity("1.0000 A")
	b := MustParseQuantity("2.0000 A")
	_, err := a.Sub(b)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestQuantityUnits(t *testing.T) {
	q := MustParseQuantity("12.3456 EOS")
	units, err := q.Units()
	require.NoError(t, err)
	assert.Equal(t, "123456", units.Dec())

	back := QuantityFromUnits(uint256.NewInt(123456), q.Symbol())
	cmp, err := back.Cmp(q)
	require.NoError(t, err)
	assert.Zero(t, cmp)
	assert.Equal(t, q.String(), back.String())
}

func TestSymbolRoundTrip(t *testing.T) {
	sym, err := ParseSymbol("4,EOS")
	require.NoError(t, err)
	assert.Equal(t, Symbol{Code: "EOS", Precision: 4}, sym)
	assert.Equal(t, "4,EOS", sym.String())

	_, err = ParseSymbol("EOS")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	_, err = ParseSymbol("19,EOS")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestQuantityTextEncoding(t *testing.T) {
	var q Quantity
	require.NoError(t, q.UnmarshalText([]byte("100.0000 BNT")))
	text, err := q.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "100.0000 BNT", string(text))
}
