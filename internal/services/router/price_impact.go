package router

import (
	"math"

	"github.com/shopspring/decimal"
)

// Price impact thresholds in basis points (bps)
const (
	PriceImpactLow      uint16 = 100  // 1%
	PriceImpactModerate uint16 = 300  // 3%
	PriceImpactHigh     uint16 = 500  // 5%
	PriceImpactExtreme  uint16 = 1000 // 10%
)

type PriceImpactSeverity string

const (
	SeverityNone     PriceImpactSeverity = "none"
	SeverityLow      PriceImpactSeverity = "low"
	SeverityModerate PriceImpactSeverity = "moderate"
	SeverityHigh     PriceImpactSeverity = "high"
	SeverityExtreme  PriceImpactSeverity = "extreme"
)

var bpsDenom = decimal.NewFromInt(10_000)

// SlippageBps converts a slippage ratio to basis points, rounding up and
// capping at the uint16 range.
func SlippageBps(slippage decimal.Decimal) uint16 {
	if !slippage.IsPositive() {
		return 0
	}
	bps := slippage.Mul(bpsDenom).RoundCeil(0)
	if bps.GreaterThan(decimal.NewFromInt(math.MaxUint16)) {
		return math.MaxUint16
	}
	return uint16(bps.IntPart())
}

func GetPriceImpactSeverity(priceImpactBps uint16) PriceImpactSeverity {
	switch {
	case priceImpactBps < PriceImpactLow:
		return SeverityNone
	case priceImpactBps < PriceImpactModerate:
		return SeverityLow
	case priceImpactBps < PriceImpactHigh:
		return SeverityModerate
	case priceImpactBps < PriceImpactExtreme:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

// GetPriceImpactWarning returns a user-facing warning for the impact, or an
// empty string when there is nothing to warn about.
func GetPriceImpactWarning(priceImpactBps uint16) string {
	switch GetPriceImpactSeverity(priceImpactBps) {
	case SeverityLow:
		return "Low price impact"
	case SeverityModerate:
		return "Moderate price impact - consider reducing trade size"
	case SeverityHigh:
		return "High price impact - you may receive significantly less tokens"
	case SeverityExtreme:
		return "EXTREME price impact - this trade will severely impact the market price"
	default:
		return ""
	}
}
