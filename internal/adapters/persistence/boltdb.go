package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/boltdb/bolt"
	"github.com/bytedance/sonic"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/relay-router/internal/domain"
)

const (
	PoolsBucket = "pools"

	DefaultDBPath = "./data/relay-router.db"
)

// StoredPool is the on-disk form of a pool. Reserve amounts are kept as
// integer unit counts so a reload never rounds.
type StoredPool struct {
	Seq         uint64          `json:"seq"`
	Type        string          `json:"type"`
	Contract    string          `json:"contract"`
	SmartToken  StoredToken     `json:"smartToken"`
	Fee         string          `json:"fee"`
	Reserves    []StoredReserve `json:"reserves"`
	UpdatedAtMs int64           `json:"updatedAtMs"`
}

type StoredToken struct {
	Contract string `json:"contract"`
	Symbol   string `json:"symbol"` // "4,EOS"
}

type StoredReserve struct {
	Contract string `json:"contract"`
	Symbol   string `json:"symbol"`
	Units    string `json:"units"`
}

type Storage struct {
	db     *bolt.DB
	dbPath string
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database dir: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(PoolsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("[poolStorage] opened database")

	return &Storage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePoolBatch writes pools and deletes removed keys in one transaction.
// A pool written for the first time gets the next bucket sequence, which
// LoadAllPools uses to restore insertion order.
func (s *Storage) SavePoolBatch(pools []domain.Pool, removed []domain.PoolKey) error {
	if len(pools) == 0 && len(removed) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(PoolsBucket))
		for _, key := range removed {
			if err := b.Delete([]byte(key.String())); err != nil {
				return fmt.Errorf("failed to delete pool %s: %w", key, err)
			}
		}
		for _, pool := range pools {
			key := []byte(pool.Key().String())

			var seq uint64
			if existing := b.Get(key); existing != nil {
				var prev StoredPool
				if err := sonic.Unmarshal(existing, &prev); err == nil {
					seq = prev.Seq
				}
			}
			if seq == 0 {
				next, err := b.NextSequence()
				if err != nil {
					return err
				}
				seq = next
			}

			stored, err := poolToStored(pool)
			if err != nil {
				return fmt.Errorf("failed to encode pool %s: %w", pool.Key(), err)
			}
			stored.Seq = seq
			stored.UpdatedAtMs = now

			data, err := sonic.Marshal(stored)
			if err != nil {
				return fmt.Errorf("failed to marshal pool %s: %w", pool.Key(), err)
			}
			if err := b.Put(key, data); err != nil {
				return fmt.Errorf("failed to put pool %s: %w", pool.Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(pools)).Int("removed", len(removed)).Msg("[poolStorage] FAILED to execute batch")
		return err
	}

	log.Info().Int("count", len(pools)).Int("removed", len(removed)).Msg("[poolStorage] saved pool batch")
	return nil
}

// LoadAllPools returns stored pools in the order they were first saved.
// Rows that fail to decode are logged and skipped.
func (s *Storage) LoadAllPools() ([]domain.Pool, error) {
	var stored []StoredPool
	total := 0
	unmarshalFailed := 0

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PoolsBucket)).ForEach(func(k, v []byte) error {
			total++
			var sp StoredPool
			if err := sonic.Unmarshal(v, &sp); err != nil {
				log.Error().Str("key", string(k)).Err(err).Msg("[poolStorage] failed to unmarshal pool, skipping")
				unmarshalFailed++
				return nil
			}
			stored = append(stored, sp)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	slices.SortStableFunc(stored, func(a, b StoredPool) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})

	pools := make([]domain.Pool, 0, len(stored))
	conversionFailed := 0
	for i := range stored {
		pool, err := storedToPool(&stored[i])
		if err != nil {
			log.Error().Str("contract", stored[i].Contract).Err(err).Msg("[poolStorage] failed to convert stored pool, skipping")
			conversionFailed++
			continue
		}
		pools = append(pools, pool)
	}

	if unmarshalFailed > 0 || conversionFailed > 0 {
		log.Error().
			Int("total_in_db", total).
			Int("loaded", len(pools)).
			Int("unmarshal_failed", unmarshalFailed).
			Int("conversion_failed", conversionFailed).
			Msg("[poolStorage] pool loading completed with errors")
	} else {
		log.Info().
			Int("total_in_db", total).
			Int("loaded", len(pools)).
			Msg("[poolStorage] pool loading completed successfully")
	}

	return pools, nil
}

func (s *Storage) DeletePool(key domain.PoolKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(PoolsBucket)).Delete([]byte(key.String()))
	})
}

func (s *Storage) GetPoolCount() (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(PoolsBucket)).Stats().KeyN
		return nil
	})
	return count, err
}

func poolToStored(pool domain.Pool) (*StoredPool, error) {
	stored := &StoredPool{
		Type:     pool.Type.String(),
		Contract: pool.Contract,
		SmartToken: StoredToken{
			Contract: pool.SmartToken.Contract,
			Symbol:   pool.SmartToken.Symbol.String(),
		},
		Fee:      pool.Fee.String(),
		Reserves: make([]StoredReserve, 0, len(pool.Reserves)),
	}
	for _, r := range pool.Reserves {
		units, err := r.Quantity.Units()
		if err != nil {
			return nil, err
		}
		stored.Reserves = append(stored.Reserves, StoredReserve{
			Contract: r.Contract,
			Symbol:   r.Quantity.Symbol().String(),
			Units:    units.Dec(),
		})
	}
	return stored, nil
}

func storedToPool(stored *StoredPool) (domain.Pool, error) {
	typ, err := domain.ParsePoolType(stored.Type)
	if err != nil {
		return domain.Pool{}, err
	}
	if len(stored.Reserves) != 2 {
		return domain.Pool{}, fmt.Errorf("%w: %d reserves", domain.ErrInvalidPool, len(stored.Reserves))
	}
	smart, err := domain.ParseSymbol(stored.SmartToken.Symbol)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("invalid smart token: %w", err)
	}
	fee, err := decimal.NewFromString(stored.Fee)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("invalid fee %q: %w", stored.Fee, err)
	}

	pool := domain.Pool{
		Type:       typ,
		Contract:   stored.Contract,
		SmartToken: domain.Token{Contract: stored.SmartToken.Contract, Symbol: smart},
		Fee:        fee,
	}
	for i, sr := range stored.Reserves {
		symbol, err := domain.ParseSymbol(sr.Symbol)
		if err != nil {
			return domain.Pool{}, fmt.Errorf("invalid reserve symbol: %w", err)
		}
		units, err := uint256.FromDecimal(sr.Units)
		if err != nil {
			return domain.Pool{}, fmt.Errorf("invalid reserve units %q: %w", sr.Units, err)
		}
		pool.Reserves[i] = domain.Reserve{
			Contract: sr.Contract,
			Quantity: domain.QuantityFromUnits(units, symbol),
		}
	}
	if err := pool.Validate(); err != nil {
		return domain.Pool{}, errors.Join(errors.New("stored pool failed validation"), err)
	}
	return pool, nil
}
