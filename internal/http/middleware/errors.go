package middleware

import "errors"

var (
	errMissingToken = errors.New("authentication required")
	errInvalidToken = errors.New("invalid or expired token")
	errPermission   = errors.New("admin access required")
)
