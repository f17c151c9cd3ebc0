package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type getPlacementUsecase struct {
	placementService PlacementService
}

func NewGetPlacementUsecase(placementService PlacementService) *getPlacementUsecase {
	return &getPlacementUsecase{placementService}
}

func (u *getPlacementUsecase) GetPlacement(ctx context.Context, id string, includeDeleted bool) (entity.Placement, error) {
	return u.placementService.GetPlacement(ctx, id, includeDeleted)
}
