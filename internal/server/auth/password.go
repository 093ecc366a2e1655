package auth

import (
	"errors"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// DefaultBcryptCost is used when the configured cost is out of bcrypt's range.
const DefaultBcryptCost = bcrypt.DefaultCost

// PasswordHasher hashes and verifies passwords with bcrypt. It is a plain
// value; construct one from configuration and pass it where needed.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password. Passwords longer than
// MaxPasswordBytes fail with common.ErrPasswordTooLong.
func (h PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash.
func (h PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
