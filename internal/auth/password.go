package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

const (
	// AlgorithmBcrypt selects bcrypt for new hashes.
	AlgorithmBcrypt = "bcrypt"
	// AlgorithmArgon2id selects argon2id for new hashes.
	AlgorithmArgon2id = "argon2id"
)

// ErrUnknownHashFormat is returned when a stored hash matches no supported scheme.
var ErrUnknownHashFormat = errors.New("unknown password hash format")

// PasswordHasher hashes new passwords with one algorithm and verifies any supported one,
// so accounts can be migrated between algorithms without a flag day.
type PasswordHasher struct {
	algorithm string
	dummy     string
}

// NewPasswordHasher creates a hasher producing hashes with the given algorithm.
func NewPasswordHasher(algorithm string) (*PasswordHasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	case "":
		algorithm = AlgorithmBcrypt
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}

	h := &PasswordHasher{algorithm: algorithm}
	dummy, err := h.Hash("timing-equalizer")
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

// Hash returns an encoded one-way hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	switch h.algorithm {
	case AlgorithmArgon2id:
		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		return hash, nil
	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		return string(hash), nil
	}
}

// Verify reports whether password matches the encoded hash. Comparison is constant time.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		match, err := argon2id.ComparePasswordAndHash(password, encoded)
		if err != nil {
			return false, fmt.Errorf("compare argon2id hash: %w", err)
		}
		return match, nil
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("compare bcrypt hash: %w", err)
		}
		return true, nil
	default:
		return false, ErrUnknownHashFormat
	}
}

// Equalize spends the same work as a real verification. It is used when the
// account does not exist so that both login failures take comparable time.
func (h *PasswordHasher) Equalize(password string) {
	_, _ = h.Verify(password, h.dummy)
}
