// Package seed reads a static pool list used to bootstrap the registry.
package seed

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/hxuan190/relay-router/internal/domain"
)

var ErrEmptySeed = errors.New("seed file lists no pools")

type File struct {
	Pools []Pool `yaml:"pools"`
}

type Pool struct {
	Type       string    `yaml:"type"`
	Contract   string    `yaml:"contract"`
	SmartToken Token     `yaml:"smart_token"`
	Fee        string    `yaml:"fee"`
	Reserves   []Reserve `yaml:"reserves"`
}

type Token struct {
	Contract string `yaml:"contract"`
	Symbol   string `yaml:"symbol"` // "4,BNTEOS"
}

type Reserve struct {
	Contract string `yaml:"contract"`
	Quantity string `yaml:"quantity"` // "1000.0000 EOS"
}

// LoadFile reads and converts a seed file. Any bad entry fails the whole file.
func LoadFile(path string) ([]domain.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]domain.Pool, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Pools) == 0 {
		return nil, ErrEmptySeed
	}

	pools := make([]domain.Pool, 0, len(f.Pools))
	for i, sp := range f.Pools {
		pool, err := sp.toDomain()
		if err != nil {
			return nil, fmt.Errorf("seed pool %d (%s): %w", i, sp.Contract, err)
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (sp Pool) toDomain() (domain.Pool, error) {
	typ := domain.PoolTypeSimple
	if sp.Type != "" {
		t, err := domain.ParsePoolType(sp.Type)
		if err != nil {
			return domain.Pool{}, err
		}
		typ = t
	}
	if len(sp.Reserves) != 2 {
		return domain.Pool{}, fmt.Errorf("%w: %d reserves", domain.ErrInvalidPool, len(sp.Reserves))
	}

	smart, err := domain.ParseSymbol(sp.SmartToken.Symbol)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("invalid smart token: %w", err)
	}
	fee := decimal.Zero
	if sp.Fee != "" {
		if fee, err = decimal.NewFromString(sp.Fee); err != nil {
			return domain.Pool{}, fmt.Errorf("%w: fee %q", domain.ErrInvalidPool, sp.Fee)
		}
	}
	smartContract := sp.SmartToken.Contract
	if smartContract == "" {
		smartContract = sp.Contract
	}

	pool := domain.Pool{
		Type:       typ,
		Contract:   sp.Contract,
		SmartToken: domain.Token{Contract: smartContract, Symbol: smart},
		Fee:        fee,
	}
	for i, r := range sp.Reserves {
		q, err := domain.ParseQuantity(r.Quantity)
		if err != nil {
			return domain.Pool{}, err
		}
		pool.Reserves[i] = domain.Reserve{Contract: r.Contract, Quantity: q}
	}
	if err := pool.Validate(); err != nil {
		return domain.Pool{}, err
	}
	return pool, nil
}
