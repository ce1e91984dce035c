package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/relay-router/internal/domain"
)

const sample = `
pools:
  - contract: bancorc11144
    smart_token: {contract: smarttokens, symbol: "4,BNTEOS"}
    fee: "0.002"
    reserves:
      - {contract: eosio.token, quantity: "1000.0000 EOS"}
      - {contract: bntbntbntbnt, quantity: "500.0000000000 BNT"}
  - type: composite
    contract: bancorcnvrtr
    smart_token: {symbol: "4,BNTUSD"}
    reserves:
      - {contract: bntbntbntbnt, quantity: "10.0000000000 BNT"}
      - {contract: usdbtoken, quantity: "20.0000 USDB"}
`

func TestParse(t *testing.T) {
	pools, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, pools, 2)

	first := pools[0]
	assert.Equal(t, domain.PoolTypeSimple, first.Type)
	assert.Equal(t, "smarttokens", first.SmartToken.Contract)
	assert.Equal(t, "0.002", first.Fee.String())
	assert.Equal(t, "eosio.token-EOS", first.Reserves[0].Token().ID())
	assert.Equal(t, uint8(10), first.Reserves[1].Quantity.Symbol().Precision)

	second := pools[1]
	assert.Equal(t, domain.PoolTypeComposite, second.Type)
	assert.Equal(t, "bancorcnvrtr", second.SmartToken.Contract, "smart token contract defaults to the pool contract")
	assert.True(t, second.Fee.IsZero())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "pools: []", ErrEmptySeed},
		{"one reserve", `
pools:
  - contract: x
    smart_token: {symbol: "4,XY"}
    reserves:
      - {contract: a, quantity: "1.0000 X"}
`, domain.ErrInvalidPool},
		{"fee out of range", `
pools:
  - contract: x
    fee: "1"
    smart_token: {symbol: "4,XY"}
    reserves:
      - {contract: a, quantity: "1.0000 X"}
      - {contract: b, quantity: "1.0000 Y"}
`, domain.ErrInvalidPool},
		{"unknown type", `
pools:
  - type: weighted
    contract: x
    smart_token: {symbol: "4,XY"}
    reserves:
      - {contract: a, quantity: "1.0000 X"}
      - {contract: b, quantity: "1.0000 Y"}
`, domain.ErrInvalidPool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("pools: [unterminated"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	pools, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, pools, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
