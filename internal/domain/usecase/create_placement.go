package usecase

import (
	"context"

	"github.com/evermart/placement_service/internal/domain/entity"
)

type PlacementService interface {
	CreatePlacement(ctx context.Context, dto entity.CreatePlacementDTO, actor entity.Actor) (entity.Placement, error)
	UpdatePlacement(ctx context.Context, dto entity.UpdatePlacementDTO, actor entity.Actor) (entity.Placement, error)
	ToggleStatus(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error)
	SetDefault(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error)
	DeletePlacement(ctx context.Context, id string, actor entity.Actor) error
	RestorePlacement(ctx context.Context, id string) (entity.Placement, error)
	HardDeletePlacement(ctx context.Context, id string, actor entity.Actor) error
	DuplicatePlacement(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error)
	ReorderPlacements(ctx context.Context, dto entity.ReorderDTO, actor entity.Actor) error
	BulkOperation(ctx context.Context, dto entity.BulkOperationDTO, actor entity.Actor) (entity.BulkResult, error)
	IncrementView(ctx context.Context, id string) (entity.Placement, error)
	IncrementClick(ctx context.Context, id string) (entity.Placement, error)
	GetPlacement(ctx context.Context, id string, includeDeleted bool) (entity.Placement, error)
	GetPlacements(ctx context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error)
	GetActivePlacements(ctx context.Context, dto entity.ActivePlacementsDTO) ([]entity.Placement, error)
	GetAnalytics(ctx context.Context, filter entity.PlacementFilter) (entity.PlacementAnalytics, error)
}

type createPlacementUsecase struct {
	placementService PlacementService
}

func NewCreatePlacementUsecase(placementService PlacementService) *createPlacementUsecase {
	return &createPlacementUsecase{placementService}
}

func (u *createPlacementUsecase) CreatePlacement(ctx context.Context, dto entity.CreatePlacementDTO, actor entity.Actor) (entity.Placement, error) {
	return u.placementService.CreatePlacement(ctx, dto, actor)
}
