package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type restorePlacementUsecase struct {
	placementService PlacementService
}

func NewRestorePlacementUsecase(placementService PlacementService) *restorePlacementUsecase {
	return &restorePlacementUsecase{placementService}
}

func (u *restorePlacementUsecase) RestorePlacement(ctx context.Context, id string) (entity.Placement, error) {
	return u.placementService.RestorePlacement(ctx, id)
}
