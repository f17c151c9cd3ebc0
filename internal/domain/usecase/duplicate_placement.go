package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type duplicatePlacementUsecase struct {
	placementService PlacementService
}

func NewDuplicatePlacementUsecase(placementService PlacementService) *duplicatePlacementUsecase {
	return &duplicatePlacementUsecase{placementService}
}

func (u *duplicatePlacementUsecase) DuplicatePlacement(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error) {
	return u.placementService.DuplicatePlacement(ctx, id, actor)
}
