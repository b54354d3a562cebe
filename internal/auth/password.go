// Package auth turns sign-up passwords into the value that gets stored.
//
// Two encoders exist:
//   - Plain stores the password as given. This is the default and matches
//     how accounts have always been stored by this service.
//   - Bcrypt stores a salted bcrypt hash ($2a$<cost>$<salt><hash>). Enabled
//     with BOOKSHELF_SECURITY__HASH_PASSWORDS=true.
//
// Switching encoders does not rewrite existing rows.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// bcrypt ignores everything past 72 bytes; we reject instead of truncating.
const maxBcryptInput = 72

// PasswordEncoder produces the stored form of a password.
type PasswordEncoder interface {
	Encode(plaintext string) (string, error)
	Matches(stored, plaintext string) bool
}

// Plain stores passwords verbatim.
type Plain struct{}

func (Plain) Encode(plaintext string) (string, error) { return plaintext, nil }

func (Plain) Matches(stored, plaintext string) bool { return stored == plaintext }

// Bcrypt hashes passwords with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a Bcrypt encoder. A cost outside bcrypt's range falls
// back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Encode(plaintext string) (string, error) {
	if len(plaintext) > maxBcryptInput {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxBcryptInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Matches uses bcrypt's constant-time comparison.
func (b *Bcrypt) Matches(stored, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}

// NewEncoder picks the encoder for the given settings.
func NewEncoder(hash bool, cost int) PasswordEncoder {
	if hash {
		return NewBcrypt(cost)
	}
	return Plain{}
}
