package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWorkingContextDirectedRounding checks that every operation rounds to
// fifteen significant digits in the context's direction.
func TestWorkingContextDirectedRounding(t *testing.T) {
	tests := []struct {
		name     string
		op       func(workingContext) string
		wantDown string
		wantUp   string
	}{
		{
			name:     "one third",
			op:       func(c workingContext) string { return c.div(dec("1"), dec("3")).String() },
			wantDown: "0.333333333333333",
			wantUp:   "0.333333333333334",
		},
		{
			name:     "two thirds",
			op:       func(c workingContext) string { return c.div(dec("2"), dec("3")).String() },
			wantDown: "0.666666666666666",
			wantUp:   "0.666666666666667",
		},
		{
			name:     "exact division",
			op:       func(c workingContext) string { return c.div(dec("10"), dec("100")).String() },
			wantDown: "0.1",
			wantUp:   "0.1",
		},
		{
			name:     "large quotient",
			op:       func(c workingContext) string { return c.div(dec("1000000000000000000"), dec("7")).String() },
			wantDown: "142857142857142000",
			wantUp:   "142857142857143000",
		},
		{
			name:     "tiny quotient",
			op:       func(c workingContext) string { return c.div(dec("1"), dec("700000000000000000000")).String() },
			wantDown: "0.00000000000000000000142857142857142",
			wantUp:   "0.00000000000000000000142857142857143",
		},
		{
			name:     "product",
			op:       func(c workingContext) string { return c.mul(dec("1.23456789012345"), dec("9.87654321098765")).String() },
			wantDown: "12.1932631137021",
			wantUp:   "12.1932631137022",
		},
		{
			name:     "sum",
			op:       func(c workingContext) string { return c.add(dec("99999999999999.9"), dec("0.05")).String() },
			wantDown: "99999999999999.9",
			wantUp:   "100000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDown, tt.op(roundDown))
			assert.Equal(t, tt.wantUp, tt.op(roundUp))
		})
	}
}

func TestWorkingContextPow(t *testing.T) {
	assert.Equal(t, "0.994009", roundDown.pow(dec("0.997"), 2).String())
	assert.Equal(t, "1", roundDown.pow(dec("0.997"), 0).String())
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, int32(3), magnitude(dec("110")))
	assert.Equal(t, int32(2), magnitude(dec("10.0000")))
	assert.Equal(t, int32(-1), magnitude(dec("0.0909")))
	assert.Equal(t, int32(15), magnitude(dec("999999999999999")))
}
