package port

import (
	"context"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
}
