package common

import "errors"

var (
	// Record taxonomy. Repositories translate driver faults into these values,
	// services wrap them into a Fault, the HTTP layer maps them to status codes.
	ErrorNotFound      = errors.New("not found")
	ErrorInvalidID     = errors.New("invalid id")
	ErrorDuplicateName = errors.New("duplicate name")
	ErrorStorage       = errors.New("storage failure")
	ErrorNoMatch       = errors.New("no match")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// User errors.
	ErrorDuplicateEmail  = errors.New("duplicate email")
	ErrorInvalidPassword = errors.New("invalid password")

	// Auth errors.
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
