package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/user"
)

type GetCurrentUserUseCase struct {
	userRepo user.Repository
}

func NewGetCurrentUserUseCase(repo user.Repository) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{userRepo: repo}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return uc.userRepo.FindByID(ctx, userID)
}
