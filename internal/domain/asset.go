package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// MaxPrecision bounds the number of decimal places a symbol can carry.
const MaxPrecision = 18

// Symbol is a token code together with its on-chain precision, e.g. "4,EOS".
type Symbol struct {
	Code      string
	Precision uint8
}

func NewSymbol(code string, precision uint8) (Symbol, error) {
	if code == "" || strings.ContainsAny(code, " ,:-") {
		return Symbol{}, fmt.Errorf("%w: code %q", ErrInvalidSymbol, code)
	}
	if precision > MaxPrecision {
		return Symbol{}, fmt.Errorf("%w: precision %d exceeds %d", ErrInvalidSymbol, precision, MaxPrecision)
	}
	return Symbol{Code: code, Precision: precision}, nil
}

// ParseSymbol parses the "precision,CODE" form.
func ParseSymbol(s string) (Symbol, error) {
	prec, code, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	p, err := strconv.ParseUint(prec, 10, 8)
	if err != nil {
		return Symbol{}, fmt.Errorf("%w: precision in %q: %v", ErrInvalidSymbol, s, err)
	}
	return NewSymbol(code, uint8(p))
}

func (s Symbol) String() string {
	return strconv.Itoa(int(s.Precision)) + "," + s.Code
}

// Matches reports whether both symbols carry the same code, ignoring case.
func (s Symbol) Matches(other Symbol) bool {
	return strings.EqualFold(s.Code, other.Code)
}

func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Symbol) UnmarshalText(b []byte) error {
	parsed, err := ParseSymbol(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Quantity is a non-negative fixed-point amount of a symbol. The amount never
// carries more decimal places than the symbol's precision.
type Quantity struct {
	amount decimal.Decimal
	symbol Symbol
}

// NewQuantity truncates amount toward zero to the symbol's precision.
func NewQuantity(amount decimal.Decimal, symbol Symbol) (Quantity, error) {
	if amount.IsNegative() {
		return Quantity{}, fmt.Errorf("%w: %s %s", ErrNegativeAmount, amount.String(), symbol.Code)
	}
	return Quantity{amount: amount.Truncate(int32(symbol.Precision)), symbol: symbol}, nil
}

// ParseQuantity parses the asset form "10.0000 BNT". The precision is the
// number of fractional digits written.
func ParseQuantity(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	precision := 0
	if _, frac, ok := strings.Cut(fields[0], "."); ok {
		precision = len(frac)
	}
	if precision > MaxPrecision {
		return Quantity{}, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, MaxPrecision)
	}
	symbol, err := NewSymbol(fields[1], uint8(precision))
	if err != nil {
		return Quantity{}, err
	}
	return ParseAmount(fields[0], symbol)
}

// ParseAmount parses a bare decimal amount for a known symbol.
func ParseAmount(amount string, symbol Symbol) (Quantity, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, amount, err)
	}
	return NewQuantity(d, symbol)
}

// MustParseQuantity is ParseQuantity that panics, for fixtures.
func MustParseQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

// QuantityFromUnits builds a quantity from its integer count of smallest units.
func QuantityFromUnits(units *uint256.Int, symbol Symbol) Quantity {
	return Quantity{
		amount: decimal.NewFromBigInt(units.ToBig(), -int32(symbol.Precision)),
		symbol: symbol,
	}
}

func (q Quantity) Amount() decimal.Decimal { return q.amount }
func (q Quantity) Symbol() Symbol          { return q.symbol }
func (q Quantity) IsZero() bool            { return q.amount.IsZero() }
func (q Quantity) IsPositive() bool        { return q.amount.IsPositive() }

// WithAmount returns a quantity of the same symbol holding amount.
func (q Quantity) WithAmount(amount decimal.Decimal) (Quantity, error) {
	return NewQuantity(amount, q.symbol)
}

// Units returns the amount as an integer count of smallest units.
func (q Quantity) Units() (*uint256.Int, error) {
	units, overflow := uint256.FromBig(q.amount.Shift(int32(q.symbol.Precision)).BigInt())
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrUnitsOverflow, q.String())
	}
	return units, nil
}

// AmountString renders the amount with exactly precision decimal places.
func (q Quantity) AmountString() string {
	return q.amount.StringFixed(int32(q.symbol.Precision))
}

func (q Quantity) String() string {
	return q.AmountString() + " " + q.symbol.Code
}

func (q Quantity) Cmp(other Quantity) (int, error) {
	if !q.symbol.Matches(other.symbol) {
		return 0, fmt.Errorf("%w: %s vs %s", ErrSymbolMismatch, q.symbol.Code, other.symbol.Code)
	}
	return q.amount.Cmp(other.amount), nil
}

func (q Quantity) Add(other Quantity) (Quantity, error) {
	if !q.symbol.Matches(other.symbol) {
		return Quantity{}, fmt.Errorf("%w: %s + %s", ErrSymbolMismatch, q.symbol.Code, other.symbol.Code)
	}
	return NewQuantity(q.amount.Add(other.amount), q.symbol)
}

func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if !q.symbol.Matches(other.symbol) {
		return Quantity{}, fmt.Errorf("%w: %s - %s", ErrSymbolMismatch, q.symbol.Code, other.symbol.Code)
	}
	return NewQuantity(q.amount.Sub(other.amount), q.symbol)
}

func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalText(b []byte) error {
	parsed, err := ParseQuantity(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
