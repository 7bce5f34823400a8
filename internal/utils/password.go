package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN hashes the card PIN with bcrypt using the default cost.
func HashPIN(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hashed), nil
}

// CheckPIN compares a plaintext PIN against its bcrypt hash.
func CheckPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
