// Package common defines constants and sentinel errors shared by the
// FlashNest server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Session and credential errors.
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInactive           = errors.New("user not active")
	ErrInvalidCredentials = errors.New("invalid email/password")
	ErrWrongPassword      = errors.New("incorrect current password")
	ErrPasswordTooLong    = errors.New("password too long")

	// Signed token errors. The boundary reports both as an invalid token.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Data errors.
	ErrEmailExists     = errors.New("email already exists")
	ErrDuplicateCardID = errors.New("duplicate card id")
	ErrAlreadyActive   = errors.New("user already active")

	// Media errors.
	ErrInvalidMediaKind = errors.New("invalid media kind")
)
