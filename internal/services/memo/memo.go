// Package memo composes the conversion instruction consumed by the settlement
// layer. The layout is a wire contract:
//
//	{version},{contract}[:{share}] {symbol} ...,{minReturn},{destination}[,{affiliate},{percent}]
package memo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/relay-router/internal/domain"
)

const DefaultVersion uint = 1

var ErrInvalidMemo = errors.New("invalid memo")

var bpsDenom = decimal.NewFromInt(10_000)

// Hop is one conversion step: the relay to trade through and the symbol
// received from it. PoolShareSymbol is set only for composite relays.
type Hop struct {
	Contract        string
	PoolShareSymbol string
	Symbol          string
}

func (h Hop) String() string {
	if h.PoolShareSymbol != "" {
		return h.Contract + ":" + h.PoolShareSymbol + " " + h.Symbol
	}
	return h.Contract + " " + h.Symbol
}

type options struct {
	version   uint
	affiliate string
	percent   string
}

type Option func(*options)

func WithVersion(v uint) Option {
	return func(o *options) {
		if v != 0 {
			o.version = v
		}
	}
}

func WithAffiliate(account, percent string) Option {
	return func(o *options) {
		o.affiliate = account
		o.percent = percent
	}
}

// Compose renders hops, the minimum acceptable return and the receiving
// account into a memo.
func Compose(hops []Hop, minReturn, destination string, opts ...Option) (string, error) {
	o := options{version: DefaultVersion}
	for _, opt := range opts {
		opt(&o)
	}

	if len(hops) == 0 {
		return "", fmt.Errorf("%w: no hops", ErrInvalidMemo)
	}
	if err := checkField("min return", minReturn); err != nil {
		return "", err
	}
	if err := checkField("destination", destination); err != nil {
		return "", err
	}
	if (o.affiliate == "") != (o.percent == "") {
		return "", fmt.Errorf("%w: affiliate %q needs a percent and vice versa", ErrInvalidMemo, o.affiliate)
	}

	rendered := make([]string, len(hops))
	for i, h := range hops {
		if err := checkField("hop contract", h.Contract); err != nil {
			return "", err
		}
		if err := checkField("hop symbol", h.Symbol); err != nil {
			return "", err
		}
		rendered[i] = h.String()
	}

	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(o.version), 10))
	b.WriteByte(',')
	b.WriteString(strings.Join(rendered, " "))
	b.WriteByte(',')
	b.WriteString(minReturn)
	b.WriteByte(',')
	b.WriteString(destination)
	if o.affiliate != "" {
		if err := checkField("affiliate", o.affiliate); err != nil {
			return "", err
		}
		if err := checkField("affiliate percent", o.percent); err != nil {
			return "", err
		}
		b.WriteByte(',')
		b.WriteString(o.affiliate)
		b.WriteByte(',')
		b.WriteString(o.percent)
	}
	return b.String(), nil
}

// HopsFromPath converts a resolved pool path, entered with from, into memo hops.
func HopsFromPath(from domain.Symbol, pools []domain.Pool) ([]Hop, error) {
	hops := make([]Hop, 0, len(pools))
	running := from
	for _, p := range pools {
		to, err := p.Counterpart(running)
		if err != nil {
			return nil, err
		}
		code := to.Quantity.Symbol().Code

		switch p.Type {
		case domain.PoolTypeSimple:
			hops = append(hops, Hop{Contract: p.Contract, Symbol: code})
		case domain.PoolTypeComposite:
			hops = append(hops, Hop{Contract: p.Contract, PoolShareSymbol: p.SmartToken.Symbol.Code, Symbol: code})
		default:
			return nil, fmt.Errorf("%w: pool %s has unknown type %d", ErrInvalidMemo, p.Key(), p.Type)
		}
		running = to.Quantity.Symbol()
	}
	return hops, nil
}

// MinReturn discounts q by slippageBps, truncating to the token precision.
func MinReturn(q domain.Quantity, slippageBps uint16) (domain.Quantity, error) {
	if slippageBps > 10_000 {
		return domain.Quantity{}, fmt.Errorf("%w: slippage %d bps", ErrInvalidMemo, slippageBps)
	}
	keep := bpsDenom.Sub(decimal.NewFromInt(int64(slippageBps)))
	return q.WithAmount(q.Amount().Mul(keep).Shift(-4))
}

func checkField(name, v string) error {
	if v == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidMemo, name)
	}
	if strings.ContainsAny(v, ", ") {
		return fmt.Errorf("%w: %s %q contains a delimiter", ErrInvalidMemo, name, v)
	}
	return nil
}
