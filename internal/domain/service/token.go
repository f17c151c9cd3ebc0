package service

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/domain/usecase"
)

var _ usecase.TokenService = new(tokenService)

type TokenStorage interface {
	FindActor(ctx context.Context, token string) (entity.Actor, error)
}

type tokenService struct {
	storage TokenStorage
}

func NewTokenService(storage TokenStorage) *tokenService {
	return &tokenService{storage: storage}
}

func (service *tokenService) ResolveActor(ctx context.Context, token string) (entity.Actor, error) {
	return service.storage.FindActor(ctx, token)
}
