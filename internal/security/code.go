package security

import (
	"crypto/rand"
	"encoding/base64"
)

// codeBytes is the entropy per generated code. 16 bytes encode to 22
// URL-safe characters, enough to make online guessing infeasible.
const codeBytes = 16

// NewCode returns an opaque URL-safe token used as a verification or
// password reset code. Every call draws fresh randomness; codes carry no
// structure and no relationship to one another.
func NewCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
