package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashToken hashes the provider callback token for at-rest storage.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareToken checks a presented callback token against the stored hash.
func CompareToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
