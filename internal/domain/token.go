package domain

import "strings"

// Token identifies an asset by its issuing contract and symbol.
type Token struct {
	Contract string `json:"contract"`
	Symbol   Symbol `json:"symbol"`
}

// ID returns the token identifier "contract-CODE".
func (t Token) ID() string {
	return TokenID(t.Contract, t.Symbol.Code)
}

func TokenID(contract, code string) string {
	return contract + "-" + code
}

// SameTokenID compares token identifiers case-insensitively.
func SameTokenID(a, b string) bool {
	return strings.EqualFold(a, b)
}
