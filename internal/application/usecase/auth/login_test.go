package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangtran/folio-api/internal/domain/user"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/auth"
	"github.com/quangtran/folio-api/pkg/logger"
)

type stubUserRepo struct {
	user    *user.User
	updated map[string]string
}

func (r *stubUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if r.user == nil || r.user.Username != username {
		return nil, apperror.NewNotFound("user", username)
	}
	return r.user, nil
}

func (r *stubUserRepo) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	if r.user == nil || r.user.Username != username {
		return apperror.NewNotFound("user", username)
	}
	if r.updated == nil {
		r.updated = make(map[string]string)
	}
	r.updated[username] = passwordHash
	r.user.PasswordHash = passwordHash
	return nil
}

func seededRepo(t *testing.T, username, password string) *stubUserRepo {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &stubUserRepo{user: &user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
	}}
}

func TestLogin_Success(t *testing.T) {
	repo := seededRepo(t, "admin", "s3cret-pass")
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	uc := NewLoginUseCase(repo, jwtSvc, logger.NewNop())

	out, err := uc.Execute(context.Background(), LoginInput{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, repo.user.ID, out.UserID)

	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, repo.user.ID, claims.OwnerID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := seededRepo(t, "admin", "s3cret-pass")
	uc := NewLoginUseCase(repo, auth.NewJWTService("test-secret", time.Hour), logger.NewNop())

	_, err := uc.Execute(context.Background(), LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUsernameReadsAsBadCredentials(t *testing.T) {
	repo := seededRepo(t, "admin", "s3cret-pass")
	uc := NewLoginUseCase(repo, auth.NewJWTService("test-secret", time.Hour), logger.NewNop())

	_, err := uc.Execute(context.Background(), LoginInput{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestChangePassword_RehashesAndStores(t *testing.T) {
	repo := seededRepo(t, "admin", "old-password")
	uc := NewChangePasswordUseCase(repo, logger.NewNop())

	err := uc.Execute(context.Background(), ChangePasswordInput{Username: "admin", NewPassword: "new-password"})
	require.NoError(t, err)

	stored := repo.updated["admin"]
	require.NotEmpty(t, stored)
	assert.NotEqual(t, "new-password", stored)
	assert.True(t, auth.CheckPasswordHash("new-password", stored))
}
