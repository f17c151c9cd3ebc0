package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type getActivePlacementsUsecase struct {
	placementService PlacementService
}

func NewGetActivePlacementsUsecase(placementService PlacementService) *getActivePlacementsUsecase {
	return &getActivePlacementsUsecase{placementService}
}

func (u *getActivePlacementsUsecase) GetActivePlacements(ctx context.Context, dto entity.ActivePlacementsDTO) ([]entity.Placement, error) {
	return u.placementService.GetActivePlacements(ctx, dto)
}
