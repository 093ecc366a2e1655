package common

import "time"

// SessionCookieName is the default cookie carrying the session token.
const SessionCookieName = "fc_authtoken"

// DefaultTokenValidity is the lifetime of session and single-use tokens
// unless configured otherwise.
const DefaultTokenValidity = 7 * 24 * time.Hour

// Pagination bounds for set listings.
const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)
