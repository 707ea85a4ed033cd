package security

import (
	"github.com/matthewhartstonge/argon2"
	"github.com/rs/zerolog"
)

// PasswordHasher hashes and verifies passwords using argon2id. The hashing
// parameters are fixed at construction so every account gets the same
// guarantees; callers never supply their own cost settings.
type PasswordHasher struct {
	config argon2.Config
	logger *zerolog.Logger
}

// NewPasswordHasher creates a PasswordHasher with the library's recommended
// argon2id defaults. Each call to Hash uses a fresh random salt, so hashing
// the same password twice yields different digests.
func NewPasswordHasher(logger *zerolog.Logger) *PasswordHasher {
	return &PasswordHasher{
		config: argon2.DefaultConfig(),
		logger: logger,
	}
}

// Hash returns the encoded argon2id digest of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// Verify reports whether candidate matches the encoded digest. A malformed
// digest counts as a failed match rather than an error; the account simply
// cannot be authenticated against it.
func (h *PasswordHasher) Verify(encoded, candidate string) bool {
	ok, err := argon2.VerifyEncoded([]byte(candidate), []byte(encoded))
	if err != nil {
		h.logger.Error().Err(err).Msg("could not validate password")
		return false
	}

	return ok
}
