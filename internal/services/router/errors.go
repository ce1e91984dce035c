package router

import (
	"errors"
	"fmt"

	"github.com/hxuan190/relay-router/internal/domain"
)

var (
	// Graph
	ErrEmptyPoolSet = errors.New("empty pool set")

	// Path
	ErrUnknownToken = errors.New("unknown token")
	ErrNoRoute      = errors.New("no route")
	ErrSameToken    = errors.New("source and destination are the same token")
	ErrEmptyPath    = errors.New("empty path")

	// Curve
	ErrSymbolMismatch        = domain.ErrSymbolMismatch
	ErrExceedsReserve        = errors.New("amount exceeds reserve")
	ErrZeroOrNegativeReserve = errors.New("zero or negative reserve")
	ErrInvalidFee            = errors.New("fee outside [0,1)")
)

// UnknownTokenError names which side of a path query is missing from the graph.
type UnknownTokenError struct {
	Side    string
	TokenID string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("%s: %s token %s", ErrUnknownToken, e.Side, e.TokenID)
}

func (e *UnknownTokenError) Unwrap() error {
	return ErrUnknownToken
}
