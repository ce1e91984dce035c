package persistence

import (
	"path/filepath"
	"testing"

	"github.com/boltdb/bolt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/relay-router/internal/domain"
)

func relay(contract, a, b string) domain.Pool {
	qa := domain.MustParseQuantity(a)
	qb := domain.MustParseQuantity(b)
	return domain.Pool{
		Type:     domain.PoolTypeComposite,
		Contract: contract,
		Reserves: [2]domain.Reserve{
			{Contract: "issuer", Quantity: qa},
			{Contract: "eosio.token", Quantity: qb},
		},
		SmartToken: domain.Token{
			Contract: "smarttokens",
			Symbol:   domain.Symbol{Code: qa.Symbol().Code + qb.Symbol().Code, Precision: 4},
		},
		Fee: decimal.RequireFromString("0.0025"),
	}
}

func openStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "nested", "pools.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorageRoundTripKeepsOrder(t *testing.T) {
	s := openStorage(t)

	c := relay("relayc", "12.3456789 C", "0.0001 EOS")
	a := relay("relaya", "100.0000 A", "250.5000 EOS")
	require.NoError(t, s.SavePoolBatch([]domain.Pool{c, a}, nil))

	// Resaving an existing pool keeps its position.
	c.Reserves[0].Quantity = domain.MustParseQuantity("1.0000000 C")
	require.NoError(t, s.SavePoolBatch([]domain.Pool{c}, nil))

	pools, err := s.LoadAllPools()
	require.NoError(t, err)
	require.Len(t, pools, 2)

	assert.Equal(t, "relayc", pools[0].Contract)
	assert.Equal(t, "1.0000000 C", pools[0].Reserves[0].Quantity.String())
	assert.Equal(t, "0.0001 EOS", pools[0].Reserves[1].Quantity.String())
	assert.Equal(t, "relaya", pools[1].Contract)
	assert.Equal(t, domain.PoolTypeComposite, pools[1].Type)
	assert.Equal(t, "eosio.token", pools[1].Reserves[1].Contract)
	assert.True(t, pools[1].Fee.Equal(decimal.RequireFromString("0.0025")))
	assert.Equal(t, a.SmartToken, pools[1].SmartToken)

	n, err := s.GetPoolCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStorageRemove(t *testing.T) {
	s := openStorage(t)
	a := relay("relaya", "100.0000 A", "100.0000 EOS")
	b := relay("relayb", "100.0000 B", "100.0000 EOS")
	require.NoError(t, s.SavePoolBatch([]domain.Pool{a, b}, nil))

	require.NoError(t, s.SavePoolBatch(nil, []domain.PoolKey{a.Key()}))
	require.NoError(t, s.DeletePool(b.Key()))

	pools, err := s.LoadAllPools()
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestStorageSkipsCorruptRows(t *testing.T) {
	s := openStorage(t)
	require.NoError(t, s.SavePoolBatch([]domain.Pool{relay("relaya", "100.0000 A", "100.0000 EOS")}, nil))

	require.NoError(t, s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(PoolsBucket))
		if err := b.Put([]byte("junk:x"), []byte("{not json")); err != nil {
			return err
		}
		return b.Put([]byte("bad:units"), []byte(`{"seq":9,"type":"simple","contract":"bad","smartToken":{"contract":"bad","symbol":"4,XY"},"fee":"0","reserves":[{"contract":"i","symbol":"4,X","units":"-1"},{"contract":"i","symbol":"4,Y","units":"1"}]}`))
	}))

	pools, err := s.LoadAllPools()
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, "relaya", pools[0].Contract)
}

func TestStorageEmptyBatchIsNoop(t *testing.T) {
	s := openStorage(t)
	assert.NoError(t, s.SavePoolBatch(nil, nil))
}
