package router

import (
	"github.com/shopspring/decimal"
)

// WorkingDigits is the number of significant digits kept by every curve
// operation.
const WorkingDigits = 15

// guardDigits are carried by division before the directed rounding is applied.
const guardDigits = 4

var (
	one = decimal.NewFromInt(1)

	roundDown = workingContext{digits: WorkingDigits}
	roundUp   = workingContext{digits: WorkingDigits, up: true}
)

// workingContext performs decimal arithmetic rounded to a fixed number of
// significant digits after every operation, always in one direction. For the
// non-negative values the curve deals in, up is a ceiling and down a floor.
type workingContext struct {
	digits int32
	up     bool
}

func (c workingContext) round(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	places := c.digits - magnitude(d)
	if c.up {
		return d.RoundUp(places)
	}
	return d.RoundDown(places)
}

func (c workingContext) add(a, b decimal.Decimal) decimal.Decimal {
	return c.round(a.Add(b))
}

func (c workingContext) sub(a, b decimal.Decimal) decimal.Decimal {
	return c.round(a.Sub(b))
}

func (c workingContext) mul(a, b decimal.Decimal) decimal.Decimal {
	return c.round(a.Mul(b))
}

// div panics on a zero divisor; callers guard reserves first.
func (c workingContext) div(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return a
	}
	places := c.digits + guardDigits - (magnitude(a) - magnitude(b))
	q, r := a.QuoRem(b, places)
	if c.up && !r.IsZero() {
		q = q.Add(decimal.New(1, -places))
	}
	return c.round(q)
}

func (c workingContext) pow(base decimal.Decimal, exp uint) decimal.Decimal {
	result := one
	for i := uint(0); i < exp; i++ {
		result = c.mul(result, base)
	}
	return result
}

// magnitude is the number of digits left of the decimal point, which is zero
// or negative for values below one.
func magnitude(d decimal.Decimal) int32 {
	coef := d.Coefficient()
	return int32(len(coef.Abs(coef).Text(10))) + d.Exponent()
}
