package domain

import "errors"

var (
	ErrSymbolMismatch = errors.New("symbol mismatch")
	ErrNegativeAmount = errors.New("negative amount")
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrUnitsOverflow  = errors.New("amount overflows 256-bit units")
	ErrInvalidPool    = errors.New("invalid pool")
)
