// Package common provides shared utilities used across all features
package common

import (
	"fmt"
	"net/http"
)

// HttpError is an error ready to be written as an API response.
type HttpError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s %s", e.StatusCode, e.Code, e.Message)
}

// newHTTPError falls back to fallback when msg is empty.
func newHTTPError(status int, code, msg, fallback string) *HttpError {
	if msg == "" {
		msg = fallback
	}
	return &HttpError{StatusCode: status, Code: code, Message: msg}
}

func HTTPErrorBadRequest(msg string) *HttpError {
	return newHTTPError(http.StatusBadRequest, "BAD_REQUEST", msg, "Bad request")
}

func HTTPErrorUnauthorized(msg string) *HttpError {
	return newHTTPError(http.StatusUnauthorized, "UNAUTHORIZED", msg, "Unauthorized")
}

func HTTPErrorForbidden(msg string) *HttpError {
	return newHTTPError(http.StatusForbidden, "FORBIDDEN", msg, "Forbidden")
}

func HTTPErrorNotFound(msg string) *HttpError {
	return newHTTPError(http.StatusNotFound, "NOT_FOUND", msg, "Not found")
}

// HTTPErrorUnprocessable reports a well-formed request the pools cannot serve,
// such as an amount larger than a reserve.
func HTTPErrorUnprocessable(msg string) *HttpError {
	return newHTTPError(http.StatusUnprocessableEntity, "UNPROCESSABLE", msg, "Unprocessable request")
}

func HTTPErrorTooManyRequests(msg string) *HttpError {
	return newHTTPError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", msg, "Too many requests")
}

func HTTPErrorInternalError(msg string) *HttpError {
	return newHTTPError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", msg, "Internal server error")
}

func HTTPErrorServiceUnavailable(msg string) *HttpError {
	return newHTTPError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", msg, "Service unavailable")
}
