package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)

// PasswordHasher abstracts credential hashing so the work factor can differ
// between production and tests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when the password matches the stored hash.
	Compare(hashedPassword, password string) error
}

type bcryptHasher struct {
	cost      int
	minLength int
}

// NewBcryptHasher returns a bcrypt-backed hasher. A cost outside bcrypt's
// supported range falls back to the library default.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost, minLength: minPasswordLength}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	if len(password) < b.minLength {
		return "", ErrPasswordTooShort
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return err
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}
