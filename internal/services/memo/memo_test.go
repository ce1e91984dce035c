package memo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/relay-router/internal/domain"
)

func pool(typ domain.PoolType, contract, smart, a, b string) domain.Pool {
	return domain.Pool{
		Type:     typ,
		Contract: contract,
		Reserves: [2]domain.Reserve{
			{Contract: "issuer", Quantity: domain.MustParseQuantity(a)},
			{Contract: "issuer", Quantity: domain.MustParseQuantity(b)},
		},
		SmartToken: domain.Token{Contract: contract, Symbol: domain.Symbol{Code: smart, Precision: 4}},
		Fee:        decimal.RequireFromString("0.002"),
	}
}

func TestCompose(t *testing.T) {
	hops := []Hop{
		{Contract: "bancorc11111", Symbol: "BNT"},
		{Contract: "bancorcnvrtr", PoolShareSymbol: "BNTEOS", Symbol: "EOS"},
	}

	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{
			name: "defaults",
			want: "1,bancorc11111 BNT bancorcnvrtr:BNTEOS EOS,1.2345,alice",
		},
		{
			name: "version",
			opts: []Option{WithVersion(2)},
			want: "2,bancorc11111 BNT bancorcnvrtr:BNTEOS EOS,1.2345,alice",
		},
		{
			name: "zero version keeps default",
			opts: []Option{WithVersion(0)},
			want: "1,bancorc11111 BNT bancorcnvrtr:BNTEOS EOS,1.2345,alice",
		},
		{
			name: "affiliate",
			opts: []Option{WithAffiliate("affiliate123", "0.5")},
			want: "1,bancorc11111 BNT bancorcnvrtr:BNTEOS EOS,1.2345,alice,affiliate123,0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(hops, "1.2345", "alice", tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeRejectsBadInput(t *testing.T) {
	hop := []Hop{{Contract: "relay", Symbol: "EOS"}}

	tests := []struct {
		name        string
		hops        []Hop
		minReturn   string
		destination string
		opts        []Option
	}{
		{name: "no hops", minReturn: "1", destination: "alice"},
		{name: "no min return", hops: hop, destination: "alice"},
		{name: "no destination", hops: hop, minReturn: "1"},
		{name: "comma in destination", hops: hop, minReturn: "1", destination: "al,ice"},
		{name: "space in hop", hops: []Hop{{Contract: "re lay", Symbol: "EOS"}}, minReturn: "1", destination: "alice"},
		{name: "affiliate without percent", hops: hop, minReturn: "1", destination: "alice", opts: []Option{WithAffiliate("bob", "")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.hops, tt.minReturn, tt.destination, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidMemo)
		})
	}
}

func TestHopsFromPath(t *testing.T) {
	pools := []domain.Pool{
		pool(domain.PoolTypeSimple, "relayab", "AB", "100.0000 A", "100.0000 B"),
		pool(domain.PoolTypeComposite, "multirelay", "BC", "100.0000 C", "100.0000 B"),
	}

	hops, err := HopsFromPath(domain.Symbol{Code: "A", Precision: 4}, pools)
	require.NoError(t, err)
	assert.Equal(t, []Hop{
		{Contract: "relayab", Symbol: "B"},
		{Contract: "multirelay", PoolShareSymbol: "BC", Symbol: "C"},
	}, hops)

	memo, err := Compose(hops, "16.4096", "alice")
	require.NoError(t, err)
	assert.Equal(t, "1,relayab B multirelay:BC C,16.4096,alice", memo)

	_, err = HopsFromPath(domain.Symbol{Code: "Z", Precision: 4}, pools)
	assert.ErrorIs(t, err, domain.ErrSymbolMismatch)

	bad := pools[0]
	bad.Type = domain.PoolType(7)
	_, err = HopsFromPath(domain.Symbol{Code: "A", Precision: 4}, []domain.Pool{bad})
	assert.ErrorIs(t, err, ErrInvalidMemo)
}

func TestMinReturn(t *testing.T) {
	tests := []struct {
		amount string
		bps    uint16
		want   string
	}{
		{"16.4096 C", 50, "16.3275 C"},
		{"16.4096 C", 0, "16.4096 C"},
		{"100.0000 C", 10_000, "0.0000 C"},
		{"0.0001 C", 1, "0.0000 C"},
		{"1.000000000000000060 WEI", 1, "0.999900000000000059 WEI"},
		{"0.000000000000000001 WEI", 5_000, "0.000000000000000000 WEI"},
	}
	for _, tt := range tests {
		got, err := MinReturn(domain.MustParseQuantity(tt.amount), tt.bps)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), tt.amount)
	}

	_, err := MinReturn(domain.MustParseQuantity("1.0000 C"), 10_001)
	assert.ErrorIs(t, err, ErrInvalidMemo)
}
