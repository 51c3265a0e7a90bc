package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int
	UUID         uuid.UUID
	Username     string `validate:"required,min=3,max=50"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns a copy with the password hash stripped. The hash never
// leaves the repository/auth layer.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
