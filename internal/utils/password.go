package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckLegacyPasswordHash compares against the salted sha256 scheme used by
// records imported from the legacy store. Those records re-hash to bcrypt on
// the next password change.
func CheckLegacyPasswordHash(password, salt, hash string) bool {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:]) == hash
}
