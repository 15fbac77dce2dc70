package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("admin1234")
	require.NoError(t, err)
	assert.NotEqual(t, "admin1234", hashed)

	assert.NoError(t, h.Compare(hashed, "admin1234"))
	assert.ErrorIs(t, h.Compare(hashed, "wrong-password"), ErrPasswordMismatch)
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
