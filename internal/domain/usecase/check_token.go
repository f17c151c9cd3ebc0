package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type TokenService interface {
	ResolveActor(ctx context.Context, token string) (entity.Actor, error)
}

type checkTokenUsecase struct {
	tokenService TokenService
}

func NewCheckTokenUsecase(tokenService TokenService) *checkTokenUsecase {
	return &checkTokenUsecase{tokenService}
}

func (u *checkTokenUsecase) ResolveActor(ctx context.Context, token string) (entity.Actor, error) {
	return u.tokenService.ResolveActor(ctx, token)
}
