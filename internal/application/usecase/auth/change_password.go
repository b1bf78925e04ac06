package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/quangtran/folio-api/internal/domain/user"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/auth"
	"github.com/quangtran/folio-api/pkg/logger"
)

// ChangePasswordUseCase rehashes and stores a new password. Tokens issued
// before the change stay valid until they expire; the admin is expected to
// log in again.
type ChangePasswordUseCase struct {
	userRepo user.Repository
	logger   logger.Logger
}

func NewChangePasswordUseCase(repo user.Repository, log logger.Logger) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{userRepo: repo, logger: log}
}

type ChangePasswordInput struct {
	Username    string
	NewPassword string
}

func (uc *ChangePasswordUseCase) Execute(ctx context.Context, input ChangePasswordInput) error {
	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		uc.logger.Error("Failed to hash password", err, zap.String("username", input.Username))
		return apperror.NewInternal("failed to hash password", err)
	}

	if err := uc.userRepo.UpdatePasswordHash(ctx, input.Username, hash); err != nil {
		return err
	}

	uc.logger.Info("Password changed", zap.String("username", input.Username))
	return nil
}
