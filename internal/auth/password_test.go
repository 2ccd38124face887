package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			h, err := NewPasswordHasher(algorithm)
			require.NoError(t, err)

			hash, err := h.Hash("correct")
			require.NoError(t, err)
			assert.NotEqual(t, "correct", hash)

			ok, err := h.Verify("correct", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("wrong", hash)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestPasswordHasher_VerifiesOtherAlgorithms(t *testing.T) {
	argon, err := NewPasswordHasher(AlgorithmArgon2id)
	require.NoError(t, err)
	hash, err := argon.Hash("secret")
	require.NoError(t, err)

	bcryptHasher, err := NewPasswordHasher(AlgorithmBcrypt)
	require.NoError(t, err)
	ok, err := bcryptHasher.Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_PlainTextIsNotAccepted(t *testing.T) {
	h, err := NewPasswordHasher(AlgorithmBcrypt)
	require.NoError(t, err)

	ok, err := h.Verify("correct", "correct")
	assert.ErrorIs(t, err, ErrUnknownHashFormat)
	assert.False(t, ok)
}

func TestNewPasswordHasher_UnknownAlgorithm(t *testing.T) {
	_, err := NewPasswordHasher("md5")
	assert.Error(t, err)
}
