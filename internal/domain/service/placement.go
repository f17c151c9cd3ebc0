package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/domain/usecase"
	"github.com/evermart/placement_service/internal/errors"
	"github.com/evermart/placement_service/internal/metrics"
	"github.com/google/uuid"
)

var _ usecase.PlacementService = new(placementService)

type PlacementStorage interface {
	Insert(ctx context.Context, p entity.Placement) (entity.Placement, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (entity.Placement, error)
	FindMany(ctx context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error)
	UpdateByID(ctx context.Context, dto entity.UpdatePlacementDTO, updatedBy string) (entity.Placement, error)
	UpdateMany(ctx context.Context, ids []string, dto entity.UpdatePlacementDTO, updatedBy string) (int64, error)
	IncrementCounters(ctx context.Context, id string, views, clicks int64) (entity.Placement, error)
	SetSortOrder(ctx context.Context, id string, sortOrder int, updatedBy string) (entity.Placement, error)
	SoftDelete(ctx context.Context, id, deletedBy string) (entity.Placement, error)
	Restore(ctx context.Context, id string) (entity.Placement, error)
	HardDelete(ctx context.Context, id string) error
	ClearScopeDefaults(ctx context.Context, scope entity.Scope, exceptID string) error
}

type PlacementCache interface {
	GetActive(ctx context.Context, scope entity.Scope) ([]entity.Placement, error)
	SetActive(ctx context.Context, scope entity.Scope, units []entity.Placement) error
	Invalidate(ctx context.Context, scope entity.Scope) error
	InvalidateAll(ctx context.Context) error
}

type placementService struct {
	storage PlacementStorage
	cache   PlacementCache
	media   MediaService
	now     func() time.Time
}

func NewPlacementService(storage PlacementStorage, cache PlacementCache, media MediaService) *placementService {
	return &placementService{
		storage: storage,
		cache:   cache,
		media:   media,
		now:     time.Now,
	}
}

// uploadIfRaw pushes a data-URI image to the media service and returns
// the storage key and URL. Anything that is not a data URI is treated
// as an already-stored key and resolved to its URL.
func (s *placementService) uploadIfRaw(ctx context.Context, kind entity.Kind, image string) (key, url string, uploaded bool, err error) {
	if !isDataURI(image) {
		return image, s.media.URL(image), false, nil
	}

	contentType, data, err := decodeDataURI(image)
	if err != nil {
		return "", "", false, err
	}

	key = mediaKey(kind, contentType, s.now())
	url, err = s.media.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", "", false, errors.WrapIntoDomainError(err, errors.ErrUpload, "uploading placement image")
	}

	return key, url, true, nil
}

func (s *placementService) dropBlob(ctx context.Context, key string) {
	if key == "" || isDataURI(key) {
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		slog.Error("error deleting media blob", "key", key, "error", err)
	}
}

func (s *placementService) invalidateScope(ctx context.Context, scope entity.Scope) {
	if err := s.cache.Invalidate(ctx, scope); err != nil {
		slog.Error("error invalidating placement cache", "scope", scope, "error", err)
	}
}

func (s *placementService) CreatePlacement(ctx context.Context, dto entity.CreatePlacementDTO, actor entity.Actor) (entity.Placement, error) {
	if err := validateCreate(dto); err != nil {
		return entity.Placement{}, err
	}

	if dto.Device == "" {
		dto.Device = entity.DeviceAll
	}
	if dto.Status == "" {
		dto.Status = entity.StatusDraft
	}
	if dto.DisplayType == "" {
		dto.DisplayType = entity.DisplayImage
	}

	now := s.now()
	p := entity.Placement{
		ID:   uuid.NewString(),
		Kind: dto.Kind,

		TitleLine1:     dto.TitleLine1,
		TitleLine2:     dto.TitleLine2,
		OfferText:      dto.OfferText,
		OfferHighlight: dto.OfferHighlight,
		ButtonText:     dto.ButtonText,
		ButtonLink:     dto.ButtonLink,

		VideoURL: dto.VideoURL,

		Device:       dto.Device,
		WhiteLabelID: dto.WhiteLabelID,
		DisplayType:  dto.DisplayType,
		Status:       dto.Status,
		IsDefault:    dto.IsDefault,
		Priority:     dto.Priority,
		SortOrder:    dto.SortOrder,

		IsScheduled: dto.IsScheduled,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,

		BackgroundColor:   dto.BackgroundColor,
		TextColor:         dto.TextColor,
		Animation:         dto.Animation,
		AnimationDuration: dto.AnimationDuration,
		AutoplayDelay:     dto.AutoplayDelay,

		IsABTest:     dto.IsABTest,
		ABTestGroup:  dto.ABTestGroup,
		ABTestWeight: dto.ABTestWeight,

		TargetAudience: dto.TargetAudience,
		TargetLocation: dto.TargetLocation,
		TargetDevice:   dto.TargetDevice,
		TargetTime:     dto.TargetTime,

		Tags:     dto.Tags,
		Category: dto.Category,

		Version:   1,
		CreatedBy: actor.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if p.Status == entity.StatusActive {
		p.IsPublished = true
		p.PublishedAt = &now
	}

	var uploadedKeys []string
	if dto.Image != "" {
		key, url, uploaded, err := s.uploadIfRaw(ctx, dto.Kind, dto.Image)
		if err != nil {
			return entity.Placement{}, err
		}
		p.Image, p.ImageURL = key, url
		if uploaded {
			uploadedKeys = append(uploadedKeys, key)
		}
	}
	if dto.MobileImage != "" {
		key, url, uploaded, err := s.uploadIfRaw(ctx, dto.Kind, dto.MobileImage)
		if err != nil {
			for _, k := range uploadedKeys {
				s.dropBlob(ctx, k)
			}
			return entity.Placement{}, err
		}
		p.MobileImage, p.MobileImageURL = key, url
		if uploaded {
			uploadedKeys = append(uploadedKeys, key)
		}
	}

	if p.IsDefault {
		if err := s.storage.ClearScopeDefaults(ctx, p.Scope(), ""); err != nil {
			return entity.Placement{}, err
		}
	}

	created, err := s.storage.Insert(ctx, p)
	if err != nil && errors.Code(err) == errors.ErrConflict {
		// another request grabbed the default flag between the clear
		// and the insert; clear the scope once more and retry
		if err := s.storage.ClearScopeDefaults(ctx, p.Scope(), ""); err != nil {
			return entity.Placement{}, err
		}
		created, err = s.storage.Insert(ctx, p)
	}
	if err != nil {
		for _, k := range uploadedKeys {
			s.dropBlob(ctx, k)
		}
		return entity.Placement{}, err
	}

	s.invalidateScope(ctx, created.Scope())

	return created, nil
}

func (s *placementService) UpdatePlacement(ctx context.Context, dto entity.UpdatePlacementDTO, actor entity.Actor) (entity.Placement, error) {
	current, err := s.storage.FindByID(ctx, dto.ID, false)
	if err != nil {
		return entity.Placement{}, err
	}

	if err := validateUpdate(current, dto); err != nil {
		return entity.Placement{}, err
	}

	// new blob is uploaded before the old one is removed, so a failed
	// upload never leaves the record pointing at a deleted blob
	var staleKeys []string
	if dto.Image != nil {
		key, url, uploaded, err := s.uploadIfRaw(ctx, current.Kind, *dto.Image)
		if err != nil {
			return entity.Placement{}, err
		}
		dto.Image, dto.ImageURL = &key, &url
		if uploaded {
			staleKeys = append(staleKeys, current.Image)
		}
	}
	if dto.MobileImage != nil {
		key, url, uploaded, err := s.uploadIfRaw(ctx, current.Kind, *dto.MobileImage)
		if err != nil {
			return entity.Placement{}, err
		}
		dto.MobileImage, dto.MobileImageURL = &key, &url
		if uploaded {
			staleKeys = append(staleKeys, current.MobileImage)
		}
	}

	scope := current.Scope()
	if dto.Device != nil {
		scope.Device = *dto.Device
	}
	if dto.WhiteLabelID != nil {
		scope.WhiteLabelID = *dto.WhiteLabelID
	}

	if dto.IsDefault != nil && *dto.IsDefault {
		if err := s.storage.ClearScopeDefaults(ctx, scope, current.ID); err != nil {
			return entity.Placement{}, err
		}
	}

	updated, err := s.storage.UpdateByID(ctx, dto, actor.Name)
	if err != nil && errors.Code(err) == errors.ErrConflict {
		if err := s.storage.ClearScopeDefaults(ctx, scope, current.ID); err != nil {
			return entity.Placement{}, err
		}
		updated, err = s.storage.UpdateByID(ctx, dto, actor.Name)
	}
	if err != nil {
		return entity.Placement{}, err
	}

	for _, k := range staleKeys {
		s.dropBlob(ctx, k)
	}

	s.invalidateScope(ctx, current.Scope())
	if scope != current.Scope() {
		s.invalidateScope(ctx, scope)
	}

	return updated, nil
}

func (s *placementService) ToggleStatus(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error) {
	current, err := s.storage.FindByID(ctx, id, false)
	if err != nil {
		return entity.Placement{}, err
	}

	var next entity.Status
	switch current.Status {
	case entity.StatusActive:
		next = entity.StatusInactive
	case entity.StatusInactive:
		next = entity.StatusActive
	default:
		return entity.Placement{}, errors.NewDomainError(
			errors.ErrValidation,
			"cannot toggle placement in status %q, assign a status explicitly", current.Status,
		)
	}

	updated, err := s.storage.UpdateByID(ctx, entity.UpdatePlacementDTO{ID: id, Status: &next}, actor.Name)
	if err != nil {
		return entity.Placement{}, err
	}

	s.invalidateScope(ctx, updated.Scope())

	return updated, nil
}

func (s *placementService) SetDefault(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error) {
	current, err := s.storage.FindByID(ctx, id, false)
	if err != nil {
		return entity.Placement{}, err
	}

	isDefault := true
	dto := entity.UpdatePlacementDTO{ID: id, IsDefault: &isDefault}

	if err := s.storage.ClearScopeDefaults(ctx, current.Scope(), id); err != nil {
		return entity.Placement{}, err
	}

	updated, err := s.storage.UpdateByID(ctx, dto, actor.Name)
	if err != nil && errors.Code(err) == errors.ErrConflict {
		if err := s.storage.ClearScopeDefaults(ctx, current.Scope(), id); err != nil {
			return entity.Placement{}, err
		}
		updated, err = s.storage.UpdateByID(ctx, dto, actor.Name)
	}
	if err != nil {
		return entity.Placement{}, err
	}

	s.invalidateScope(ctx, updated.Scope())

	return updated, nil
}

// DeletePlacement is a soft delete. The default flag is intentionally
// left in place: deleted units are excluded from scope resolution, and
// restore relies on the flag surviving the round trip.
func (s *placementService) DeletePlacement(ctx context.Context, id string, actor entity.Actor) error {
	deleted, err := s.storage.SoftDelete(ctx, id, actor.Name)
	if err != nil {
		return err
	}

	s.invalidateScope(ctx, deleted.Scope())

	return nil
}

// RestorePlacement clears the soft-delete markers. Restoring a unit that
// still carries the default flag fails with a conflict when the scope has
// picked up a new default in the meantime; the caller resolves which one
// wins and retries.
func (s *placementService) RestorePlacement(ctx context.Context, id string) (entity.Placement, error) {
	restored, err := s.storage.Restore(ctx, id)
	if err != nil {
		return entity.Placement{}, err
	}

	s.invalidateScope(ctx, restored.Scope())

	return restored, nil
}

// HardDeletePlacement physically removes the record and its blobs. Rare
// path, outside the normal soft-delete flow.
func (s *placementService) HardDeletePlacement(ctx context.Context, id string, actor entity.Actor) error {
	if !actor.IsAdmin {
		return errors.NewDomainError(errors.ErrForbidden, "hard delete requires an admin actor")
	}

	current, err := s.storage.FindByID(ctx, id, true)
	if err != nil {
		return err
	}

	if err := s.storage.HardDelete(ctx, id); err != nil {
		return err
	}

	s.dropBlob(ctx, current.Image)
	s.dropBlob(ctx, current.MobileImage)
	s.invalidateScope(ctx, current.Scope())

	return nil
}

func (s *placementService) DuplicatePlacement(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error) {
	src, err := s.storage.FindByID(ctx, id, false)
	if err != nil {
		return entity.Placement{}, err
	}

	now := s.now()
	dup := src
	dup.ID = uuid.NewString()
	dup.Status = entity.StatusDraft
	dup.IsDefault = false
	dup.Views = 0
	dup.Clicks = 0
	dup.CTR = 0
	dup.ConversionRate = 0
	dup.Revenue = 0
	dup.Version = 1
	dup.IsPublished = false
	dup.PublishedAt = nil
	dup.ApprovedBy = ""
	dup.ApprovedAt = nil
	dup.CreatedBy = actor.Name
	dup.UpdatedBy = ""
	dup.CreatedAt = now
	dup.UpdatedAt = now

	return s.storage.Insert(ctx, dup)
}

// ReorderPlacements assigns sort_order = position for each id, as a
// sequence of independent writes. A mid-sequence failure leaves the
// earlier assignments applied; their scopes are still invalidated so
// reads do not serve the stale ordering.
func (s *placementService) ReorderPlacements(ctx context.Context, dto entity.ReorderDTO, actor entity.Actor) error {
	scopes := make(map[entity.Scope]struct{})
	defer func() {
		for scope := range scopes {
			s.invalidateScope(ctx, scope)
		}
	}()

	for i, id := range dto.OrderedIDs {
		updated, err := s.storage.SetSortOrder(ctx, id, i, actor.Name)
		if err != nil {
			return err
		}
		scopes[updated.Scope()] = struct{}{}
	}

	return nil
}

func (s *placementService) BulkOperation(ctx context.Context, dto entity.BulkOperationDTO, actor entity.Actor) (entity.BulkResult, error) {
	if len(dto.IDs) == 0 {
		return entity.BulkResult{}, errors.NewDomainError(errors.ErrValidation, "no ids given")
	}

	result := entity.BulkResult{Requested: len(dto.IDs)}

	switch dto.Op {
	case entity.BulkActivate, entity.BulkDeactivate:
		status := entity.StatusActive
		if dto.Op == entity.BulkDeactivate {
			status = entity.StatusInactive
		}
		affected, err := s.storage.UpdateMany(ctx, dto.IDs, entity.UpdatePlacementDTO{Status: &status}, actor.Name)
		if err != nil {
			return entity.BulkResult{}, err
		}
		result.Affected = affected

	case entity.BulkUpdate:
		if dto.Patch == nil {
			return entity.BulkResult{}, errors.NewDomainError(errors.ErrValidation, "bulk update requires a patch")
		}
		if dto.Patch.IsDefault != nil && *dto.Patch.IsDefault {
			return entity.BulkResult{}, errors.NewDomainError(errors.ErrValidation, "default flag cannot be set in bulk")
		}
		// the scheduling triple is validated against each unit's current
		// state, which a shared patch cannot express
		if dto.Patch.IsScheduled != nil || dto.Patch.StartDate != nil || dto.Patch.EndDate != nil {
			return entity.BulkResult{}, errors.NewDomainError(errors.ErrValidation, "scheduling fields cannot be changed in bulk, update units individually")
		}
		if err := validatePatch(*dto.Patch); err != nil {
			return entity.BulkResult{}, err
		}
		affected, err := s.storage.UpdateMany(ctx, dto.IDs, *dto.Patch, actor.Name)
		if err != nil {
			return entity.BulkResult{}, err
		}
		result.Affected = affected

	case entity.BulkDelete:
		for _, id := range dto.IDs {
			if _, err := s.storage.SoftDelete(ctx, id, actor.Name); err != nil {
				if errors.Code(err) == errors.ErrNoDataFound {
					continue
				}
				return entity.BulkResult{}, err
			}
			result.Affected++
		}

	default:
		return entity.BulkResult{}, errors.NewDomainError(errors.ErrValidation, "unknown bulk op %q", dto.Op)
	}

	// batch writes cross unknown scopes, flush everything
	if err := s.cache.InvalidateAll(ctx); err != nil {
		slog.Error("error flushing placement cache", "error", err)
	}

	return result, nil
}

func (s *placementService) IncrementView(ctx context.Context, id string) (entity.Placement, error) {
	updated, err := s.storage.IncrementCounters(ctx, id, 1, 0)
	if err != nil {
		return entity.Placement{}, err
	}

	metrics.RecordView(string(updated.Kind))

	return updated, nil
}

func (s *placementService) IncrementClick(ctx context.Context, id string) (entity.Placement, error) {
	updated, err := s.storage.IncrementCounters(ctx, id, 0, 1)
	if err != nil {
		return entity.Placement{}, err
	}

	metrics.RecordClick(string(updated.Kind))

	return updated, nil
}

func (s *placementService) GetPlacement(ctx context.Context, id string, includeDeleted bool) (entity.Placement, error) {
	return s.storage.FindByID(ctx, id, includeDeleted)
}

func (s *placementService) GetPlacements(ctx context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error) {
	return s.storage.FindMany(ctx, dto)
}

// GetActivePlacements returns the units currently shown for a scope,
// evaluated lazily against the clock. Results are cached per scope.
func (s *placementService) GetActivePlacements(ctx context.Context, dto entity.ActivePlacementsDTO) ([]entity.Placement, error) {
	scope := entity.Scope{Kind: dto.Kind, Device: dto.Device, WhiteLabelID: dto.WhiteLabelID}

	cached, err := s.cache.GetActive(ctx, scope)
	if err == nil {
		slog.Debug("active placements found in cache", "scope", scope)
		return cached, nil
	}

	wl := dto.WhiteLabelID
	candidates, err := s.storage.FindMany(ctx, entity.ListPlacementsDTO{
		Filter: entity.PlacementFilter{
			Kind:         dto.Kind,
			Device:       dto.Device,
			DeviceOrAll:  true,
			WhiteLabelID: &wl,
			Statuses:     []entity.Status{entity.StatusActive, entity.StatusScheduled},
		},
		SortBy: "sort_order",
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]entity.Placement, 0, len(candidates))
	for _, p := range candidates {
		if IsCurrentlyActive(p, now) {
			active = append(active, p)
		}
	}

	if err := s.cache.SetActive(ctx, scope, active); err != nil {
		slog.Error("error caching active placements", "scope", scope, "error", err)
	}

	return active, nil
}

func (s *placementService) GetAnalytics(ctx context.Context, filter entity.PlacementFilter) (entity.PlacementAnalytics, error) {
	filter.IncludeDeleted = false

	units, err := s.storage.FindMany(ctx, entity.ListPlacementsDTO{Filter: filter})
	if err != nil {
		return entity.PlacementAnalytics{}, err
	}

	return Aggregate(units), nil
}
