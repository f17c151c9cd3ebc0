package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type trackEngagementUsecase struct {
	placementService PlacementService
}

func NewTrackEngagementUsecase(placementService PlacementService) *trackEngagementUsecase {
	return &trackEngagementUsecase{placementService}
}

func (u *trackEngagementUsecase) IncrementView(ctx context.Context, id string) (entity.Placement, error) {
	return u.placementService.IncrementView(ctx, id)
}

func (u *trackEngagementUsecase) IncrementClick(ctx context.Context, id string) (entity.Placement, error) {
	return u.placementService.IncrementClick(ctx, id)
}
