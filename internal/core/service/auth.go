package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username y password son requeridos", domain.ErrInvalidInput)
	}

	if utf8.RuneCountInString(username) < 3 {
		return domain.User{}, fmt.Errorf("%w: el username debe tener al menos 3 caracteres", domain.ErrInvalidInput)
	}

	if utf8.RuneCountInString(password) < 6 {
		return domain.User{}, fmt.Errorf("%w: el password debe tener al menos 6 caracteres", domain.ErrInvalidInput)
	}

	// UX check only. The UNIQUE constraint on users.username is the real
	// guard, since check and insert are separate round-trips.
	oldUser, err := s.repo.GetByUsername(ctx, username)

	if err == nil && oldUser.Username != "" {
		return domain.User{}, domain.ErrUsernameTaken
	}

	hash, err := util.HashPassword(password)

	if err != nil {
		slog.Error("Auth#Register", "hash_password", err)
		return domain.User{}, fmt.Errorf("%w: error al crear el usuario", domain.ErrInternal)
	}

	now := time.Now()

	user := domain.User{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := s.repo.Create(ctx, user)

	if err != nil {
		slog.Error("Auth#Register", "create_user", err)
		return domain.User{}, fmt.Errorf("%w: error al crear el usuario", domain.ErrInternal)
	}

	return saved.Public(), nil
}

// Login resolves unknown-username and wrong-password to the exact same
// error so the response gives no username-enumeration signal.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username y password son requeridos", domain.ErrInvalidInput)
	}

	user, err := s.repo.GetByUsernameWithHash(ctx, username)

	if err != nil {
		slog.Error("Auth#Login", "get_by_username", err)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if !util.VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user.Public(), nil
}
