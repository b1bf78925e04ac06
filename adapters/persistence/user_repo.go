package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quangtran/folio-api/internal/domain/user"
	"github.com/quangtran/folio-api/pkg/apperror"
)

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, apperror.NewStorage("error when query user", err)
	}

	return u, nil
}

func (r *postgresUserRepo) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE username = $1`
	cmdTag, err := r.db.Exec(ctx, query, username, passwordHash)
	if err != nil {
		return apperror.NewStorage("failed to update password hash", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", username)
	}
	return nil
}
