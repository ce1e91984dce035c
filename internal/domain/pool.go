package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PoolType uint8

const (
	// PoolTypeSimple is a legacy relay contract holding a single pair.
	PoolTypeSimple PoolType = iota
	// PoolTypeComposite is a multi-reserve contract; each pair inside it is
	// addressed by its smart token symbol.
	PoolTypeComposite
)

func (p PoolType) String() string {
	switch p {
	case PoolTypeSimple:
		return "simple"
	case PoolTypeComposite:
		return "composite"
	default:
		return "UNKNOWN"
	}
}

func ParsePoolType(s string) (PoolType, error) {
	switch strings.ToLower(s) {
	case "simple":
		return PoolTypeSimple, nil
	case "composite":
		return PoolTypeComposite, nil
	default:
		return 0, fmt.Errorf("%w: unknown pool type %q", ErrInvalidPool, s)
	}
}

func (p PoolType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PoolType) UnmarshalText(b []byte) error {
	t, err := ParsePoolType(string(b))
	if err != nil {
		return err
	}
	*p = t
	return nil
}

// Reserve is one side of a pool's balance.
type Reserve struct {
	Contract string   `json:"contract"`
	Quantity Quantity `json:"quantity"`
}

func (r Reserve) Token() Token {
	return Token{Contract: r.Contract, Symbol: r.Quantity.Symbol()}
}

// Pool is a two-reserve relay with a bonding curve between its reserves and a
// smart token representing a share of both.
type Pool struct {
	Type       PoolType        `json:"type"`
	Contract   string          `json:"contract"`
	Reserves   [2]Reserve      `json:"reserves"`
	SmartToken Token           `json:"smartToken"`
	Fee        decimal.Decimal `json:"fee"`
}

// PoolKey is the case-folded identity of a pool.
type PoolKey struct {
	Contract    string
	SmartSymbol string
}

func (k PoolKey) String() string {
	return k.Contract + ":" + k.SmartSymbol
}

func (p Pool) Key() PoolKey {
	return PoolKey{
		Contract:    strings.ToLower(p.Contract),
		SmartSymbol: strings.ToLower(p.SmartToken.Symbol.Code),
	}
}

// TokenIDs returns the identifiers of the two reserve tokens.
func (p Pool) TokenIDs() []string {
	return []string{p.Reserves[0].Token().ID(), p.Reserves[1].Token().ID()}
}

// HasToken reports whether id names one of the reserve tokens.
func (p Pool) HasToken(id string) bool {
	return SameTokenID(p.Reserves[0].Token().ID(), id) || SameTokenID(p.Reserves[1].Token().ID(), id)
}

// ReserveFor returns the reserve holding symbol.
func (p Pool) ReserveFor(symbol Symbol) (Reserve, bool) {
	for _, r := range p.Reserves {
		if r.Quantity.Symbol().Matches(symbol) {
			return r, true
		}
	}
	return Reserve{}, false
}

// Oriented returns the reserves ordered so that from holds symbol.
func (p Pool) Oriented(symbol Symbol) (from, to Reserve, err error) {
	switch {
	case p.Reserves[0].Quantity.Symbol().Matches(symbol):
		return p.Reserves[0], p.Reserves[1], nil
	case p.Reserves[1].Quantity.Symbol().Matches(symbol):
		return p.Reserves[1], p.Reserves[0], nil
	default:
		return Reserve{}, Reserve{}, fmt.Errorf("%w: %s not held by pool %s", ErrSymbolMismatch, symbol.Code, p.Key())
	}
}

// Counterpart returns the reserve on the other side of symbol.
func (p Pool) Counterpart(symbol Symbol) (Reserve, error) {
	_, to, err := p.Oriented(symbol)
	return to, err
}

func (p Pool) Validate() error {
	switch p.Type {
	case PoolTypeSimple, PoolTypeComposite:
	default:
		return fmt.Errorf("%w: unknown type %d", ErrInvalidPool, p.Type)
	}
	if p.Contract == "" {
		return fmt.Errorf("%w: empty contract", ErrInvalidPool)
	}
	if p.SmartToken.Symbol.Code == "" {
		return fmt.Errorf("%w: %s has no smart token", ErrInvalidPool, p.Contract)
	}
	if p.Reserves[0].Quantity.Symbol().Matches(p.Reserves[1].Quantity.Symbol()) {
		return fmt.Errorf("%w: %s reserves share symbol %s", ErrInvalidPool, p.Key(), p.Reserves[0].Quantity.Symbol().Code)
	}
	if p.Fee.IsNegative() || p.Fee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s fee %s outside [0,1)", ErrInvalidPool, p.Key(), p.Fee.String())
	}
	return nil
}

func (p Pool) String() string {
	return fmt.Sprintf("%s(%s %s/%s)", p.Type, p.Key(), p.Reserves[0].Quantity.Symbol().Code, p.Reserves[1].Quantity.Symbol().Code)
}
