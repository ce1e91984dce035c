package market

import (
	"fmt"

	"github.com/hxuan190/relay-router/internal/domain"
)

// PoolValidator decides whether a pool may enter the registry.
type PoolValidator interface {
	Validate(pool domain.Pool) error
	SupportsPoolType(poolType domain.PoolType) bool
}

// RelayValidator accepts well-formed relays whose reserves are both funded.
type RelayValidator struct{}

func NewRelayValidator() *RelayValidator {
	return &RelayValidator{}
}

func (v *RelayValidator) Validate(pool domain.Pool) error {
	if err := pool.Validate(); err != nil {
		return err
	}
	for _, r := range pool.Reserves {
		if !r.Quantity.IsPositive() {
			return fmt.Errorf("%w: %s reserve %s is empty", domain.ErrInvalidPool, pool.Key(), r.Quantity.Symbol().Code)
		}
		if r.Contract == "" {
			return fmt.Errorf("%w: %s reserve %s has no contract", domain.ErrInvalidPool, pool.Key(), r.Quantity.Symbol().Code)
		}
	}
	return nil
}

func (v *RelayValidator) SupportsPoolType(poolType domain.PoolType) bool {
	return poolType == domain.PoolTypeSimple || poolType == domain.PoolTypeComposite
}
