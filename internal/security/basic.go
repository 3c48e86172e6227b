package security

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// BasicVerifier checks HTTP basic-auth credentials against values resolved
// from configuration at process start. When a bcrypt hash is configured it
// takes precedence over the plaintext password.
type BasicVerifier struct {
	username     string
	password     string
	passwordHash string
}

// NewBasicVerifier creates a new basic-auth verifier
func NewBasicVerifier(username, password, passwordHash string) *BasicVerifier {
	return &BasicVerifier{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
	}
}

// Verify reports whether the presented credentials are valid. Comparison is
// constant time so the response does not leak which part was wrong.
func (v *BasicVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1

	var passOK bool
	if v.passwordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	}

	return userOK && passOK
}
