package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes returned to callers.
const (
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeValidation             = "VALIDATION_ERROR"
	CodeQuotaExceeded          = "QUOTA_EXCEEDED"
	CodeInvalidContent         = "INVALID_CONTENT"
	CodeNetworkTimeout         = "NETWORK_TIMEOUT"
	CodeUnknown                = "UNKNOWN"
	CodeNotFound               = "NOT_FOUND"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// ErrorID correlates the failure with support-facing logs; optional.
	ErrorID string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, CodeAuthenticationRequired, errors.New(msg))
}

func PermissionDenied(msg string) *Error {
	return New(http.StatusForbidden, CodePermissionDenied, errors.New(msg))
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, CodeNotFound, errors.New(msg))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeUnknown, err)
}

// StatusForCode maps a taxonomy code onto its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeAuthenticationRequired:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case CodeInvalidContent:
		return http.StatusUnprocessableEntity
	case CodeNetworkTimeout:
		return http.StatusGatewayTimeout
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *Error from err, wrapping anything else as UNKNOWN.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}
	return Internal(err)
}
