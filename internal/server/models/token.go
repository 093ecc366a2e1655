package models

import "time"

// Token is an issued single-use token (email verification or password
// reset) that has not been consumed yet.
type Token struct {
	ID        int64
	Token     string
	OwnerID   int64
	CreatedAt time.Time
}
