package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/errors"
	"github.com/stretchr/testify/require"
)

// fakeStorage mimics the postgres adapter semantics in memory: version
// bumps, publish stamping, and the partial unique constraint on the
// default flag.
type fakeStorage struct {
	mu               sync.Mutex
	units            map[string]entity.Placement
	order            []string
	conflictOnInsert int // fail the next N default-carrying inserts
	conflictOnUpdate int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{units: make(map[string]entity.Placement)}
}

func (s *fakeStorage) hasOtherDefault(scope entity.Scope, exceptID string) bool {
	for _, u := range s.units {
		if u.ID != exceptID && !u.IsDeleted && u.IsDefault && u.Scope() == scope {
			return true
		}
	}
	return false
}

func (s *fakeStorage) Insert(_ context.Context, p entity.Placement) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.IsDefault {
		if s.conflictOnInsert > 0 {
			s.conflictOnInsert--
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "")
		}
		if s.hasOtherDefault(p.Scope(), p.ID) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "")
		}
	}

	s.units[p.ID] = p
	s.order = append(s.order, p.ID)
	return p, nil
}

func (s *fakeStorage) FindByID(_ context.Context, id string, includeDeleted bool) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok || (u.IsDeleted && !includeDeleted) {
		return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
	}
	return u, nil
}

func (s *fakeStorage) FindMany(_ context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := dto.Filter
	out := make([]entity.Placement, 0, len(s.units))
	for _, id := range s.order {
		u, ok := s.units[id]
		if !ok {
			continue
		}
		if u.IsDeleted && !f.IncludeDeleted {
			continue
		}
		if f.Kind != "" && u.Kind != f.Kind {
			continue
		}
		if f.Device != "" {
			if f.DeviceOrAll {
				if u.Device != f.Device && u.Device != entity.DeviceAll {
					continue
				}
			} else if u.Device != f.Device {
				continue
			}
		}
		if f.WhiteLabelID != nil && u.WhiteLabelID != *f.WhiteLabelID {
			continue
		}
		if f.Category != "" && u.Category != f.Category {
			continue
		}
		if f.IsDefault != nil && u.IsDefault != *f.IsDefault {
			continue
		}
		if len(f.Statuses) > 0 {
			matched := false
			for _, st := range f.Statuses {
				if u.Status == st {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, u)
	}

	if dto.SortBy == "sort_order" || dto.SortBy == "" {
		sort.SliceStable(out, func(i, j int) bool {
			if dto.SortDesc {
				return out[i].SortOrder > out[j].SortOrder
			}
			return out[i].SortOrder < out[j].SortOrder
		})
	}

	if dto.Offset > 0 && dto.Offset < len(out) {
		out = out[dto.Offset:]
	} else if dto.Offset >= len(out) && dto.Offset > 0 {
		out = nil
	}
	if dto.Limit > 0 && dto.Limit < len(out) {
		out = out[:dto.Limit]
	}

	return out, nil
}

func applyPatch(u *entity.Placement, dto entity.UpdatePlacementDTO, updatedBy string) {
	if dto.TitleLine1 != nil {
		u.TitleLine1 = *dto.TitleLine1
	}
	if dto.TitleLine2 != nil {
		u.TitleLine2 = *dto.TitleLine2
	}
	if dto.OfferText != nil {
		u.OfferText = *dto.OfferText
	}
	if dto.Image != nil {
		u.Image = *dto.Image
	}
	if dto.ImageURL != nil {
		u.ImageURL = *dto.ImageURL
	}
	if dto.MobileImage != nil {
		u.MobileImage = *dto.MobileImage
	}
	if dto.MobileImageURL != nil {
		u.MobileImageURL = *dto.MobileImageURL
	}
	if dto.Device != nil {
		u.Device = *dto.Device
	}
	if dto.WhiteLabelID != nil {
		u.WhiteLabelID = *dto.WhiteLabelID
	}
	if dto.Status != nil {
		u.Status = *dto.Status
		if *dto.Status == entity.StatusActive {
			u.IsPublished = true
			if u.PublishedAt == nil {
				now := time.Now()
				u.PublishedAt = &now
			}
		}
	}
	if dto.IsDefault != nil {
		u.IsDefault = *dto.IsDefault
	}
	if dto.Priority != nil {
		u.Priority = *dto.Priority
	}
	if dto.SortOrder != nil {
		u.SortOrder = *dto.SortOrder
	}
	if dto.IsScheduled != nil {
		u.IsScheduled = *dto.IsScheduled
	}
	if dto.StartDate != nil {
		u.StartDate = dto.StartDate
	}
	if dto.EndDate != nil {
		u.EndDate = dto.EndDate
	}
	if dto.Category != nil {
		u.Category = *dto.Category
	}
	u.UpdatedBy = updatedBy
	u.Version++
}

func (s *fakeStorage) UpdateByID(_ context.Context, dto entity.UpdatePlacementDTO, updatedBy string) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[dto.ID]
	if !ok || u.IsDeleted {
		return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
	}

	if dto.IsDefault != nil && *dto.IsDefault {
		if s.conflictOnUpdate > 0 {
			s.conflictOnUpdate--
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "")
		}
		if s.hasOtherDefault(u.Scope(), u.ID) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "")
		}
	}

	applyPatch(&u, dto, updatedBy)
	s.units[dto.ID] = u
	return u, nil
}

func (s *fakeStorage) UpdateMany(_ context.Context, ids []string, dto entity.UpdatePlacementDTO, updatedBy string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, id := range ids {
		u, ok := s.units[id]
		if !ok || u.IsDeleted {
			continue
		}
		applyPatch(&u, dto, updatedBy)
		s.units[id] = u
		affected++
	}
	return affected, nil
}

func (s *fakeStorage) IncrementCounters(_ context.Context, id string, views, clicks int64) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok || u.IsDeleted {
		return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
	}

	u.Views += views
	u.Clicks += clicks
	u.CTR = entity.DeriveCTR(u.Views, u.Clicks)
	u.Version++
	s.units[id] = u
	return u, nil
}

func (s *fakeStorage) SetSortOrder(_ context.Context, id string, sortOrder int, updatedBy string) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok || u.IsDeleted {
		return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
	}

	u.SortOrder = sortOrder
	u.UpdatedBy = updatedBy
	u.Version++
	s.units[id] = u
	return u, nil
}

func (s *fakeStorage) SoftDelete(_ context.Context, id, deletedBy string) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok || u.IsDeleted {
		return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
	}

	now := time.Now()
	u.IsDeleted = true
	u.DeletedAt = &now
	u.DeletedBy = deletedBy
	u.Version++
	s.units[id] = u
	return u, nil
}

func (s *fakeStorage) Restore(_ context.Context, id string) (entity.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.units[id]
	if !ok || !u.IsDeleted {
		return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
	}
	if u.IsDefault && s.hasOtherDefault(u.Scope(), u.ID) {
		return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "")
	}

	u.IsDeleted = false
	u.DeletedAt = nil
	u.DeletedBy = ""
	u.Version++
	s.units[id] = u
	return u, nil
}

func (s *fakeStorage) HardDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.units[id]; !ok {
		return errors.NewDomainError(errors.ErrNoDataFound, "")
	}
	delete(s.units, id)
	return nil
}

func (s *fakeStorage) ClearScopeDefaults(_ context.Context, scope entity.Scope, exceptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.units {
		if id != exceptID && !u.IsDeleted && u.IsDefault && u.Scope() == scope {
			u.IsDefault = false
			u.Version++
			s.units[id] = u
		}
	}
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[entity.Scope][]entity.Placement
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[entity.Scope][]entity.Placement)}
}

func (c *fakeCache) GetActive(_ context.Context, scope entity.Scope) ([]entity.Placement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	units, ok := c.entries[scope]
	if !ok {
		return nil, stdErrors.New("cache miss")
	}
	return units, nil
}

func (c *fakeCache) SetActive(_ context.Context, scope entity.Scope, units []entity.Placement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[scope] = units
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, scope entity.Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Kind == scope.Kind && key.WhiteLabelID == scope.WhiteLabelID {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *fakeCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[entity.Scope][]entity.Placement)
	return nil
}

type fakeMedia struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	deletes  []string
	failNext bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{uploads: make(map[string][]byte)}
}

func (m *fakeMedia) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return "", stdErrors.New("media server is down")
	}
	m.uploads[key] = data
	return "https://media.test/" + key, nil
}

func (m *fakeMedia) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	return nil
}

func (m *fakeMedia) URL(key string) string {
	if strings.Contains(key, "://") {
		return key
	}
	return "https://media.test/" + key
}

func newTestService() (*placementService, *fakeStorage, *fakeCache, *fakeMedia) {
	storage := newFakeStorage()
	cache := newFakeCache()
	media := newFakeMedia()
	return NewPlacementService(storage, cache, media), storage, cache, media
}

var admin = entity.Actor{Name: "admin", IsAdmin: true}

func heroSliderDTO() entity.CreatePlacementDTO {
	return entity.CreatePlacementDTO{
		Kind:       entity.KindHeroSlider,
		TitleLine1: "Summer Sale",
		Image:      "hero-sliders/01-06-2024/existing.png",
		Device:     entity.DeviceDesktop,
		Status:     entity.StatusActive,
	}
}

func Test_CreatePlacement_defaultUniqueness(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	dtoA := heroSliderDTO()
	dtoA.IsDefault = true
	a, err := svc.CreatePlacement(ctx, dtoA, admin)
	require.NoError(t, err)
	require.True(t, a.IsDefault)

	dtoB := heroSliderDTO()
	dtoB.IsDefault = true
	b, err := svc.CreatePlacement(ctx, dtoB, admin)
	require.NoError(t, err)
	require.True(t, b.IsDefault)

	aAfter, err := storage.FindByID(ctx, a.ID, false)
	require.NoError(t, err)
	require.False(t, aAfter.IsDefault, "previous default must be cleared")
}

func Test_CreatePlacement_conflictRetry(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	storage.conflictOnInsert = 1

	dto := heroSliderDTO()
	dto.IsDefault = true
	created, err := svc.CreatePlacement(ctx, dto, admin)
	require.NoError(t, err)
	require.True(t, created.IsDefault)
	require.Zero(t, storage.conflictOnInsert)
}

func Test_CreatePlacement_validation(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*entity.CreatePlacementDTO)
	}{
		{"missing title", func(d *entity.CreatePlacementDTO) { d.TitleLine1 = "" }},
		{"missing media", func(d *entity.CreatePlacementDTO) { d.Image = ""; d.VideoURL = "" }},
		{"unknown kind", func(d *entity.CreatePlacementDTO) { d.Kind = "popup" }},
		{"bad color", func(d *entity.CreatePlacementDTO) { d.BackgroundColor = "red" }},
		{"weight out of range", func(d *entity.CreatePlacementDTO) { d.ABTestWeight = 101 }},
		{"scheduled without dates", func(d *entity.CreatePlacementDTO) { d.IsScheduled = true }},
		{"window inverted", func(d *entity.CreatePlacementDTO) {
			start := time.Now().Add(48 * time.Hour)
			end := time.Now()
			d.IsScheduled = true
			d.StartDate = &start
			d.EndDate = &end
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := heroSliderDTO()
			tt.mutate(&dto)
			_, err := svc.CreatePlacement(ctx, dto, admin)
			require.Equal(t, errors.ErrValidation, errors.Code(err))
		})
	}

	require.Empty(t, storage.units, "no record may be persisted on validation failure")
}

func Test_CreatePlacement_uploadsDataURI(t *testing.T) {
	svc, _, _, media := newTestService()
	ctx := context.Background()

	dto := heroSliderDTO()
	dto.Image = "data:image/png;base64,aGVsbG8="

	created, err := svc.CreatePlacement(ctx, dto, admin)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(created.Image, "hero-sliders/"), "key is namespaced by kind: %s", created.Image)
	require.True(t, strings.HasSuffix(created.Image, ".png"))
	require.Equal(t, "https://media.test/"+created.Image, created.ImageURL)
	require.Equal(t, []byte("hello"), media.uploads[created.Image])
}

func Test_CreatePlacement_resolvesExistingKey(t *testing.T) {
	svc, _, _, media := newTestService()
	ctx := context.Background()

	dto := heroSliderDTO()
	created, err := svc.CreatePlacement(ctx, dto, admin)
	require.NoError(t, err)

	require.Equal(t, dto.Image, created.Image)
	require.Equal(t, "https://media.test/"+dto.Image, created.ImageURL)
	require.Empty(t, media.uploads, "an existing key is referenced, not re-uploaded")
}

func Test_CreatePlacement_uploadFailure(t *testing.T) {
	svc, storage, _, media := newTestService()
	ctx := context.Background()

	media.failNext = true

	dto := heroSliderDTO()
	dto.Image = "data:image/png;base64,aGVsbG8="

	_, err := svc.CreatePlacement(ctx, dto, admin)
	require.Equal(t, errors.ErrUpload, errors.Code(err))
	require.Empty(t, storage.units, "upload happens before persist, a failed upload leaves nothing behind")
}

func Test_CreatePlacement_publishStamp(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	draft := heroSliderDTO()
	draft.Status = entity.StatusDraft
	created, err := svc.CreatePlacement(ctx, draft, admin)
	require.NoError(t, err)
	require.False(t, created.IsPublished)
	require.Nil(t, created.PublishedAt)
	require.Equal(t, 1, created.Version)
	require.Equal(t, "admin", created.CreatedBy)

	active := heroSliderDTO()
	created2, err := svc.CreatePlacement(ctx, active, admin)
	require.NoError(t, err)
	require.True(t, created2.IsPublished)
	require.NotNil(t, created2.PublishedAt)
}

func Test_IncrementCounters_ctrLaw(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := svc.IncrementView(ctx, created.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 5; i++ {
		_, err := svc.IncrementClick(ctx, created.ID)
		require.NoError(t, err)
	}

	stored, err := storage.FindByID(ctx, created.ID, false)
	require.NoError(t, err)
	require.Equal(t, int64(100), stored.Views)
	require.Equal(t, int64(5), stored.Clicks)
	require.InDelta(t, 5.0, stored.CTR, 1e-9)
}

func Test_DuplicatePlacement(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	dto := heroSliderDTO()
	dto.OfferText = "50% off"
	dto.Tags = []string{"summer"}
	created, err := svc.CreatePlacement(ctx, dto, admin)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := svc.IncrementView(ctx, created.ID)
		require.NoError(t, err)
	}

	dup, err := svc.DuplicatePlacement(ctx, created.ID, entity.Actor{Name: "editor", IsAdmin: true})
	require.NoError(t, err)

	require.NotEqual(t, created.ID, dup.ID)
	require.Equal(t, created.TitleLine1, dup.TitleLine1)
	require.Equal(t, created.OfferText, dup.OfferText)
	require.Equal(t, created.Tags, dup.Tags)
	require.Equal(t, entity.StatusDraft, dup.Status)
	require.False(t, dup.IsDefault)
	require.Zero(t, dup.Views)
	require.Zero(t, dup.Clicks)
	require.Zero(t, dup.CTR)
	require.Equal(t, 1, dup.Version)
	require.Nil(t, dup.PublishedAt)
	require.Equal(t, "editor", dup.CreatedBy)
}

func Test_DeleteRestore_roundTrip(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	err = svc.DeletePlacement(ctx, created.ID, admin)
	require.NoError(t, err)

	list, err := svc.GetPlacements(ctx, entity.ListPlacementsDTO{})
	require.NoError(t, err)
	require.Empty(t, list, "soft-deleted unit is invisible to standard reads")

	listAll, err := svc.GetPlacements(ctx, entity.ListPlacementsDTO{
		Filter: entity.PlacementFilter{IncludeDeleted: true},
	})
	require.NoError(t, err)
	require.Len(t, listAll, 1)
	require.True(t, listAll[0].IsDeleted)
	require.Equal(t, "admin", listAll[0].DeletedBy)

	_, err = svc.GetPlacement(ctx, created.ID, false)
	require.Equal(t, errors.ErrNoDataFound, errors.Code(err))

	restored, err := svc.RestorePlacement(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, restored.IsDeleted)
	require.Nil(t, restored.DeletedAt)
	require.Equal(t, created.TitleLine1, restored.TitleLine1)

	list, err = svc.GetPlacements(ctx, entity.ListPlacementsDTO{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func Test_ReorderPlacements(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	ids := make([]string, 3)
	for i := range ids {
		dto := heroSliderDTO()
		dto.TitleLine1 = fmt.Sprintf("slide %d", i)
		dto.SortOrder = i
		created, err := svc.CreatePlacement(ctx, dto, admin)
		require.NoError(t, err)
		ids[i] = created.ID
	}

	// [A, B, C] -> [C, A, B]
	err := svc.ReorderPlacements(ctx, entity.ReorderDTO{
		OrderedIDs: []string{ids[2], ids[0], ids[1]},
	}, admin)
	require.NoError(t, err)

	list, err := svc.GetPlacements(ctx, entity.ListPlacementsDTO{SortBy: "sort_order"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, ids[2], list[0].ID)
	require.Equal(t, ids[0], list[1].ID)
	require.Equal(t, ids[1], list[2].ID)
}

func Test_ToggleStatus(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)
	require.Equal(t, entity.StatusActive, created.Status)
	firstPublish := created.PublishedAt

	toggled, err := svc.ToggleStatus(ctx, created.ID, admin)
	require.NoError(t, err)
	require.Equal(t, entity.StatusInactive, toggled.Status)

	back, err := svc.ToggleStatus(ctx, created.ID, admin)
	require.NoError(t, err)
	require.Equal(t, entity.StatusActive, back.Status)
	require.Equal(t, firstPublish, back.PublishedAt, "published_at is stamped once")

	draft := heroSliderDTO()
	draft.Status = entity.StatusDraft
	d, err := svc.CreatePlacement(ctx, draft, admin)
	require.NoError(t, err)

	_, err = svc.ToggleStatus(ctx, d.ID, admin)
	require.Equal(t, errors.ErrValidation, errors.Code(err))
}

func Test_SetDefault_movesFlag(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	dtoA := heroSliderDTO()
	dtoA.IsDefault = true
	a, err := svc.CreatePlacement(ctx, dtoA, admin)
	require.NoError(t, err)

	b, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	updated, err := svc.SetDefault(ctx, b.ID, admin)
	require.NoError(t, err)
	require.True(t, updated.IsDefault)

	aAfter, err := storage.FindByID(ctx, a.ID, false)
	require.NoError(t, err)
	require.False(t, aAfter.IsDefault)

	defaults := 0
	for _, u := range storage.units {
		if u.IsDefault && !u.IsDeleted {
			defaults++
		}
	}
	require.Equal(t, 1, defaults)
}

func Test_UpdatePlacement_replacesImage(t *testing.T) {
	svc, _, _, media := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)
	oldKey := created.Image

	newImage := "data:image/jpeg;base64,aGVsbG8="
	updated, err := svc.UpdatePlacement(ctx, entity.UpdatePlacementDTO{
		ID:    created.ID,
		Image: &newImage,
	}, admin)
	require.NoError(t, err)

	require.NotEqual(t, oldKey, updated.Image)
	require.True(t, strings.HasSuffix(updated.Image, ".jpg"))
	require.Contains(t, media.deletes, oldKey, "old blob is deleted after the new one is persisted")
	require.Equal(t, created.Version+1, updated.Version)
	require.Equal(t, "admin", updated.UpdatedBy)
}

func Test_UpdatePlacement_versionMonotonic(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)

	last := created.Version
	title := "updated"
	for i := 0; i < 3; i++ {
		updated, err := svc.UpdatePlacement(ctx, entity.UpdatePlacementDTO{
			ID:         created.ID,
			TitleLine1: &title,
		}, admin)
		require.NoError(t, err)
		require.Greater(t, updated.Version, last)
		last = updated.Version
	}
}

func Test_BulkOperation(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	ids := make([]string, 3)
	for i := range ids {
		dto := heroSliderDTO()
		dto.Status = entity.StatusInactive
		created, err := svc.CreatePlacement(ctx, dto, admin)
		require.NoError(t, err)
		ids[i] = created.ID
	}

	result, err := svc.BulkOperation(ctx, entity.BulkOperationDTO{
		IDs: ids,
		Op:  entity.BulkActivate,
	}, admin)
	require.NoError(t, err)
	require.Equal(t, int64(3), result.Affected)

	for _, id := range ids {
		u, err := storage.FindByID(ctx, id, false)
		require.NoError(t, err)
		require.Equal(t, entity.StatusActive, u.Status)
		require.NotNil(t, u.PublishedAt)
	}

	// delete skips ids that are already gone instead of failing the batch
	result, err = svc.BulkOperation(ctx, entity.BulkOperationDTO{
		IDs: append([]string{"missing"}, ids...),
		Op:  entity.BulkDelete,
	}, admin)
	require.NoError(t, err)
	require.Equal(t, 4, result.Requested)
	require.Equal(t, int64(3), result.Affected)

	isDefault := true
	_, err = svc.BulkOperation(ctx, entity.BulkOperationDTO{
		IDs:   ids,
		Op:    entity.BulkUpdate,
		Patch: &entity.UpdatePlacementDTO{IsDefault: &isDefault},
	}, admin)
	require.Equal(t, errors.ErrValidation, errors.Code(err))
}

func Test_BulkOperation_patchValidation(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	bulk := func(patch entity.UpdatePlacementDTO) error {
		_, err := svc.BulkOperation(ctx, entity.BulkOperationDTO{
			IDs:   []string{created.ID},
			Op:    entity.BulkUpdate,
			Patch: &patch,
		}, admin)
		return err
	}

	// a shared patch cannot express the per-unit scheduling triple
	scheduled := true
	require.Equal(t, errors.ErrValidation, errors.Code(bulk(entity.UpdatePlacementDTO{IsScheduled: &scheduled})))

	start := time.Now()
	require.Equal(t, errors.ErrValidation, errors.Code(bulk(entity.UpdatePlacementDTO{StartDate: &start})))

	end := time.Now().Add(24 * time.Hour)
	require.Equal(t, errors.ErrValidation, errors.Code(bulk(entity.UpdatePlacementDTO{EndDate: &end})))

	badColor := "red"
	require.Equal(t, errors.ErrValidation, errors.Code(bulk(entity.UpdatePlacementDTO{BackgroundColor: &badColor})))

	badDevice := entity.Device("fridge")
	require.Equal(t, errors.ErrValidation, errors.Code(bulk(entity.UpdatePlacementDTO{Device: &badDevice})))

	// rejected patches never reach the store
	u, err := storage.FindByID(ctx, created.ID, false)
	require.NoError(t, err)
	require.False(t, u.IsScheduled)
	require.Nil(t, u.StartDate)
	require.Equal(t, 1, u.Version)

	// a content patch still goes through
	category := "seasonal"
	result, err := svc.BulkOperation(ctx, entity.BulkOperationDTO{
		IDs:   []string{created.ID},
		Op:    entity.BulkUpdate,
		Patch: &entity.UpdatePlacementDTO{Category: &category},
	}, admin)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Affected)

	u, err = storage.FindByID(ctx, created.ID, false)
	require.NoError(t, err)
	require.Equal(t, "seasonal", u.Category)
}

func Test_ReorderPlacements_partialFailureFlushesCache(t *testing.T) {
	svc, _, cache, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	// prime the cache for the unit's scope
	dto := entity.ActivePlacementsDTO{Kind: entity.KindHeroSlider, Device: entity.DeviceDesktop}
	active, err := svc.GetActivePlacements(ctx, dto)
	require.NoError(t, err)
	require.Len(t, active, 1)

	err = svc.ReorderPlacements(ctx, entity.ReorderDTO{
		OrderedIDs: []string{created.ID, "missing"},
	}, admin)
	require.Equal(t, errors.ErrNoDataFound, errors.Code(err))

	// the applied write's scope must not keep serving the old ordering
	_, err = cache.GetActive(ctx, created.Scope())
	require.Error(t, err, "cache entry survived a partially applied reorder")
}

func Test_GetActivePlacements(t *testing.T) {
	svc, _, cache, _ := newTestService()
	ctx := context.Background()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// shown: active desktop unit
	active := heroSliderDTO()
	active.SortOrder = 1
	_, err := svc.CreatePlacement(ctx, active, admin)
	require.NoError(t, err)

	// shown: device "all" serves the desktop scope too
	allDevices := heroSliderDTO()
	allDevices.Device = entity.DeviceAll
	allDevices.SortOrder = 0
	shownAll, err := svc.CreatePlacement(ctx, allDevices, admin)
	require.NoError(t, err)

	// hidden: window not yet open
	start := now.Add(24 * time.Hour)
	end := now.Add(7 * 24 * time.Hour)
	future := heroSliderDTO()
	future.Status = entity.StatusScheduled
	future.IsScheduled = true
	future.StartDate = &start
	future.EndDate = &end
	_, err = svc.CreatePlacement(ctx, future, admin)
	require.NoError(t, err)

	// hidden: wrong device
	mobile := heroSliderDTO()
	mobile.Device = entity.DeviceMobile
	_, err = svc.CreatePlacement(ctx, mobile, admin)
	require.NoError(t, err)

	// hidden: draft
	draft := heroSliderDTO()
	draft.Status = entity.StatusDraft
	_, err = svc.CreatePlacement(ctx, draft, admin)
	require.NoError(t, err)

	got, err := svc.GetActivePlacements(ctx, entity.ActivePlacementsDTO{
		Kind:   entity.KindHeroSlider,
		Device: entity.DeviceDesktop,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, shownAll.ID, got[0].ID, "sorted by sort_order")

	// three days later the schedule window has opened
	svc.now = func() time.Time { return now.Add(3 * 24 * time.Hour) }
	require.NoError(t, cache.InvalidateAll(ctx))

	got, err = svc.GetActivePlacements(ctx, entity.ActivePlacementsDTO{
		Kind:   entity.KindHeroSlider,
		Device: entity.DeviceDesktop,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func Test_GetActivePlacements_servedFromCache(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	dto := entity.ActivePlacementsDTO{Kind: entity.KindHeroSlider, Device: entity.DeviceDesktop}

	first, err := svc.GetActivePlacements(ctx, dto)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// mutate storage behind the cache's back; the cached list keeps serving
	_, err = storage.SoftDelete(ctx, created.ID, "admin")
	require.NoError(t, err)

	second, err := svc.GetActivePlacements(ctx, dto)
	require.NoError(t, err)
	require.Len(t, second, 1)
}

func Test_HardDelete_requiresAdmin(t *testing.T) {
	svc, storage, _, media := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePlacement(ctx, heroSliderDTO(), admin)
	require.NoError(t, err)

	err = svc.HardDeletePlacement(ctx, created.ID, entity.Actor{Name: "viewer"})
	require.Equal(t, errors.ErrForbidden, errors.Code(err))

	err = svc.HardDeletePlacement(ctx, created.ID, admin)
	require.NoError(t, err)
	require.Empty(t, storage.units)
	require.Contains(t, media.deletes, created.Image)
}

func Test_RestoreDefault_conflictsWithNewerDefault(t *testing.T) {
	svc, storage, _, _ := newTestService()
	ctx := context.Background()

	dtoA := heroSliderDTO()
	dtoA.IsDefault = true
	a, err := svc.CreatePlacement(ctx, dtoA, admin)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlacement(ctx, a.ID, admin))

	// the scope picks up a new default while a is gone
	dtoB := heroSliderDTO()
	dtoB.IsDefault = true
	b, err := svc.CreatePlacement(ctx, dtoB, admin)
	require.NoError(t, err)

	// a still carries the flag, so restoring it would put two defaults
	// in the scope
	_, err = svc.RestorePlacement(ctx, a.ID)
	require.Equal(t, errors.ErrConflict, errors.Code(err))

	// dropping b's flag resolves the conflict
	noDefault := false
	_, err = svc.UpdatePlacement(ctx, entity.UpdatePlacementDTO{ID: b.ID, IsDefault: &noDefault}, admin)
	require.NoError(t, err)

	restored, err := svc.RestorePlacement(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, restored.IsDefault)

	defaults := 0
	for _, u := range storage.units {
		if u.IsDefault && !u.IsDeleted {
			defaults++
		}
	}
	require.Equal(t, 1, defaults)
}
