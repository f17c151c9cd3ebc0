package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type getAnalyticsUsecase struct {
	placementService PlacementService
}

func NewGetAnalyticsUsecase(placementService PlacementService) *getAnalyticsUsecase {
	return &getAnalyticsUsecase{placementService}
}

func (u *getAnalyticsUsecase) GetAnalytics(ctx context.Context, filter entity.PlacementFilter) (entity.PlacementAnalytics, error) {
	return u.placementService.GetAnalytics(ctx, filter)
}
