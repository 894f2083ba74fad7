package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct-horse"))
	assert.Error(t, hasher.Compare(hash, "wrong-horse"))
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("short")

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

// A cost outside bcrypt's range must not panic or weaken hashing; it falls
// back to the default.
func TestOutOfRangeCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(-1)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
