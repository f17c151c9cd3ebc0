package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type toggleStatusUsecase struct {
	placementService PlacementService
}

func NewToggleStatusUsecase(placementService PlacementService) *toggleStatusUsecase {
	return &toggleStatusUsecase{placementService}
}

func (u *toggleStatusUsecase) ToggleStatus(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error) {
	return u.placementService.ToggleStatus(ctx, id, actor)
}
