// Package models defines server-side data models persisted in the database.
package models

// User is an account. New accounts are inactive until the email address
// is verified.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	Active         bool
	Premium        bool
}
