package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type deletePlacementUsecase struct {
	placementService PlacementService
}

func NewDeletePlacementUsecase(placementService PlacementService) *deletePlacementUsecase {
	return &deletePlacementUsecase{placementService}
}

func (u *deletePlacementUsecase) DeletePlacement(ctx context.Context, id string, actor entity.Actor) error {
	return u.placementService.DeletePlacement(ctx, id, actor)
}

func (u *deletePlacementUsecase) HardDeletePlacement(ctx context.Context, id string, actor entity.Actor) error {
	return u.placementService.HardDeletePlacement(ctx, id, actor)
}
