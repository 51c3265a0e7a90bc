package port

import (
	"context"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
)

type UserRepository interface {
	// GetByUsername returns the user with the password hash stripped.
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	// GetByUsernameWithHash includes the password hash. Auth layer only.
	GetByUsernameWithHash(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}
