package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type reorderPlacementsUsecase struct {
	placementService PlacementService
}

func NewReorderPlacementsUsecase(placementService PlacementService) *reorderPlacementsUsecase {
	return &reorderPlacementsUsecase{placementService}
}

func (u *reorderPlacementsUsecase) ReorderPlacements(ctx context.Context, dto entity.ReorderDTO, actor entity.Actor) error {
	return u.placementService.ReorderPlacements(ctx, dto, actor)
}
