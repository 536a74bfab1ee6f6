package accounts_test

import (
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, hasher.ComparePasswordAndHash("secret123", hash))
	assert.ErrorIs(t, hasher.ComparePasswordAndHash("wrong", hash), accounts.ErrMismatchedHashAndPassword)
}

func TestBcryptHasherSaltsEveryHash(t *testing.T) {
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	h1, err := hasher.HashPassword("secret123")
	require.NoError(t, err)
	h2, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestBcryptHasherEmptyPassword(t *testing.T) {
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.HashPassword("")
	assert.ErrorIs(t, err, accounts.ErrNoEmptyString)
}

func TestBcryptHasherCostBounds(t *testing.T) {
	assert.Equal(t, accounts.DefaultPasswordCost, accounts.NewBcryptHasher(0).Cost())
	assert.Equal(t, accounts.DefaultPasswordCost, accounts.NewBcryptHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, accounts.NewBcryptHasher(12).Cost())
}

func TestRandomPasswordHash(t *testing.T) {
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	hash := accounts.RandomPasswordHash(hasher)
	require.NotEmpty(t, hash)
	assert.Error(t, hasher.ComparePasswordAndHash("", hash))
}
