package util

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest at the default work
// factor (10). Output differs on every call.
func HashPassword(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

// VerifyPassword reports whether plaintext matches the stored digest.
// A malformed hash or any internal failure counts as a mismatch, never
// as a match.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
