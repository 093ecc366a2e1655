package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "pw1"},
		{name: "complex password", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode password", password: "光る-パスワード"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			if hash == tt.password {
				t.Fatal("hash must not equal the plaintext")
			}
			if !strings.HasPrefix(hash, "$2a$") {
				t.Fatalf("unexpected hash format: %q", hash)
			}
			if !hasher.Verify(tt.password, hash) {
				t.Fatal("Verify must accept the original password")
			}
			if hasher.Verify(tt.password+"x", hash) {
				t.Fatal("Verify must reject a different password")
			}
		})
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	a, err := hasher.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := hasher.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	if hasher.Verify("pw", "not-a-bcrypt-hash") {
		t.Fatal("Verify must reject a malformed hash")
	}
}

func TestNewPasswordHasher_OutOfRangeCost(t *testing.T) {
	for _, cost := range []int{0, 1, bcrypt.MaxCost + 1} {
		if got := NewPasswordHasher(cost).cost; got != DefaultBcryptCost {
			t.Fatalf("cost %d: got %d want %d", cost, got, DefaultBcryptCost)
		}
	}
	if got := NewPasswordHasher(bcrypt.MinCost).cost; got != bcrypt.MinCost {
		t.Fatalf("cost kept: got %d", got)
	}
}

func TestPasswordHasher_TooLong(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	if _, err := hasher.Hash(strings.Repeat("p", MaxPasswordBytes)); err != nil {
		t.Fatalf("Hash at the limit: %v", err)
	}

	_, err := hasher.Hash(strings.Repeat("p", MaxPasswordBytes+1))
	if !errors.Is(err, common.ErrPasswordTooLong) {
		t.Fatalf("got %v, want ErrPasswordTooLong", err)
	}

	// 24 three-byte runes are 72 bytes; one more rune crosses the limit.
	_, err = hasher.Hash(strings.Repeat("光", 25))
	if !errors.Is(err, common.ErrPasswordTooLong) {
		t.Fatalf("multi-byte: got %v, want ErrPasswordTooLong", err)
	}
}
