package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type updatePlacementUsecase struct {
	placementService PlacementService
}

func NewUpdatePlacementUsecase(placementService PlacementService) *updatePlacementUsecase {
	return &updatePlacementUsecase{placementService}
}

func (u *updatePlacementUsecase) UpdatePlacement(ctx context.Context, dto entity.UpdatePlacementDTO, actor entity.Actor) (entity.Placement, error) {
	return u.placementService.UpdatePlacement(ctx, dto, actor)
}
