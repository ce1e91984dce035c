package http

import (
	"context"
	"errors"

	"github.com/hxuan190/relay-router/internal/aggregator"
	"github.com/hxuan190/relay-router/internal/common"
	"github.com/hxuan190/relay-router/internal/domain"
	"github.com/hxuan190/relay-router/internal/services/router"
)

// toHTTPError maps engine errors onto HTTP statuses. Anything unrecognised is
// reported as an internal error without its message.
func toHTTPError(err error) *common.HttpError {
	var he *common.HttpError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, aggregator.ErrUnknownToken),
		errors.Is(err, aggregator.ErrNoRoute),
		errors.Is(err, aggregator.ErrPoolNotFound):
		return common.HTTPErrorNotFound(err.Error())
	case errors.Is(err, aggregator.ErrEmptyPoolSet):
		return common.HTTPErrorServiceUnavailable("no pools loaded")
	case errors.Is(err, router.ErrExceedsReserve),
		errors.Is(err, router.ErrZeroOrNegativeReserve):
		return common.HTTPErrorUnprocessable(err.Error())
	case errors.Is(err, router.ErrSameToken),
		errors.Is(err, router.ErrInvalidFee),
		errors.Is(err, domain.ErrSymbolMismatch),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, domain.ErrInvalidPool),
		errors.Is(err, domain.ErrUnitsOverflow),
		errors.Is(err, aggregator.ErrInvalidMemo),
		errors.Is(err, aggregator.ErrInvalidRequest):
		return common.HTTPErrorBadRequest(err.Error())
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return common.HTTPErrorServiceUnavailable("request cancelled")
	default:
		return common.HTTPErrorInternalError("")
	}
}
