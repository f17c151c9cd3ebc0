package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type listPlacementsUsecase struct {
	placementService PlacementService
}

func NewListPlacementsUsecase(placementService PlacementService) *listPlacementsUsecase {
	return &listPlacementsUsecase{placementService}
}

func (u *listPlacementsUsecase) GetPlacements(ctx context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error) {
	return u.placementService.GetPlacements(ctx, dto)
}
