package auth

import (
	"context"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/pkg/apperror"
	"github.com/khoahotran/resume-builder/pkg/auth"
)

type LogoutUseCase struct {
	tokens service.TokenStore
}

func NewLogoutUseCase(tokens service.TokenStore) *LogoutUseCase {
	return &LogoutUseCase{tokens: tokens}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, claims *auth.CustomClaims) error {
	if claims == nil || claims.ID == "" {
		return apperror.NewUnauthorized("token has no id", nil)
	}
	ttl := claims.Remaining()
	if ttl == 0 {
		return nil
	}
	if err := uc.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperror.NewInternal("failed to revoke session", err)
	}
	return nil
}
