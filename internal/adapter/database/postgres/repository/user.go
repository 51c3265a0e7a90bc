package repository

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/postgres"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
)

type UserRepository struct {
	db *postgres.DB
}

func NewUserRepository(db *postgres.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("id", "uuid", "username", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"username": username}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var data domain.User

	err = ur.db.QueryRow(ctx, stmt, args...).Scan(
		&data.ID,
		&data.UUID,
		&data.Username,
		&data.CreatedAt,
		&data.UpdatedAt,
	)

	if err != nil {
		return domain.User{}, err
	}

	return data, nil
}

func (ur *UserRepository) GetByUsernameWithHash(ctx context.Context, username string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("id", "uuid", "username", "password_hash", "created_at", "updated_at").
		From("users").
		Where(sq.Eq{"username": username}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var data domain.User

	err = ur.db.QueryRow(ctx, stmt, args...).Scan(
		&data.ID,
		&data.UUID,
		&data.Username,
		&data.PasswordHash,
		&data.CreatedAt,
		&data.UpdatedAt,
	)

	if err != nil {
		return domain.User{}, err
	}

	return data, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "username", "password_hash", "created_at", "updated_at").
		Values(user.UUID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id, uuid, username, created_at, updated_at")

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var saved domain.User

	err = ur.db.QueryRow(ctx, stmt, args...).Scan(
		&saved.ID,
		&saved.UUID,
		&saved.Username,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)

	if err != nil {
		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	return saved, nil
}
