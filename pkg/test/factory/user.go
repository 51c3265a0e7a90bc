package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext behind every factory-built hash.
const DefaultPassword = "12345678"

func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	hasHash := false

	for _, data := range customData {
		if _, exists := data["PasswordHash"]; exists {
			hasHash = true
			break
		}
	}

	if !hasHash {
		hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)

		customData = append(customData, map[string]any{
			"PasswordHash": string(hash),
		})
	}

	return instance.Build(customData...)
}
