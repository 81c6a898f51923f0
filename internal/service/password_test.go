package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := newTestHasher()

	digest, err := h.Hash("abcdef")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdef", digest)
	assert.True(t, h.Verify("abcdef", digest))
	assert.False(t, h.Verify("abcdeg", digest))
}

func TestPasswordHasherSaltsEachDigest(t *testing.T) {
	h := newTestHasher()

	a, err := h.Hash("abcdef")
	require.NoError(t, err)
	b, err := h.Hash("abcdef")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasherMalformedDigestIsMismatch(t *testing.T) {
	assert.False(t, newTestHasher().Verify("abcdef", "not-a-bcrypt-digest"))
}

func TestPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}
