package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes of input, so longer passwords are
// rejected outright instead of being silently truncated.
const maxPasswordBytes = 72

// PasswordHasher wraps bcrypt with the account password policy.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher at cost 12.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: 12}
}

// Hash derives a bcrypt hash of the password. Passwords over the bcrypt
// input limit return ErrPasswordTooLong.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the password matches the stored hash. Over-limit
// input can never match a hash this package produced.
func (h *PasswordHasher) Verify(password, hash string) bool {
	if len(password) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
