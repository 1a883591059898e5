package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed; changing it only affects newly hashed passwords.
const bcryptCost = 12

// HashPassword derives a one-way bcrypt digest from the plaintext.
// Called exactly once per password set or change; the plaintext is never
// stored or logged.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// bcrypt's comparison is constant-time with respect to the digest.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
