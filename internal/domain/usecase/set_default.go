package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type setDefaultUsecase struct {
	placementService PlacementService
}

func NewSetDefaultUsecase(placementService PlacementService) *setDefaultUsecase {
	return &setDefaultUsecase{placementService}
}

func (u *setDefaultUsecase) SetDefault(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error) {
	return u.placementService.SetDefault(ctx, id, actor)
}
