package router

import (
	"strings"

	"github.com/hxuan190/relay-router/internal/domain"
)

const issuer = "issuer"

func tokenID(code string) string {
	return domain.TokenID(issuer, code)
}

// relay builds a simple pool between two reserves given as asset strings,
// e.g. relay("r1", "0.003", "100.0000 A", "100.0000 B").
func relay(contract, fee, a, b string) domain.Pool {
	qa, qb := qty(a), qty(b)
	smart := strings.ToUpper(qa.Symbol().Code + qb.Symbol().Code)
	return domain.Pool{
		Type:     domain.PoolTypeSimple,
		Contract: contract,
		Reserves: [2]domain.Reserve{
			{Contract: issuer, Quantity: qa},
			{Contract: issuer, Quantity: qb},
		},
		SmartToken: domain.Token{Contract: contract, Symbol: domain.Symbol{Code: smart, Precision: 4}},
		Fee:        dec(fee),
	}
}
