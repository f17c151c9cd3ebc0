package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type bulkOperationUsecase struct {
	placementService PlacementService
}

func NewBulkOperationUsecase(placementService PlacementService) *bulkOperationUsecase {
	return &bulkOperationUsecase{placementService}
}

func (u *bulkOperationUsecase) BulkOperation(ctx context.Context, dto entity.BulkOperationDTO, actor entity.Actor) (entity.BulkResult, error) {
	return u.placementService.BulkOperation(ctx, dto, actor)
}
