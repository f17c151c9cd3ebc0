package db

import (
	"context"
	"embed"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/domain/service"
	"github.com/evermart/placement_service/internal/errors"
	"github.com/evermart/placement_service/pkg/client/postgresql"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ service.PlacementStorage = new(placementStorage)

type placementStorage struct {
	client postgresql.Client
}

func NewPlacementStorage(client postgresql.Client) *placementStorage {
	return &placementStorage{client: client}
}

//go:embed migration/*.sql
var migrationsDir embed.FS

func RunMigrations(dsn string) error {

	d, err := iofs.New(migrationsDir, "migration")
	if err != nil {
		slog.Error(err.Error())
		return fmt.Errorf("failed to return an iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dsn)
	if err != nil {
		slog.Error(err.Error())
		return fmt.Errorf("failed to get a new migrate instance: %w", err)
	}
	if err := m.Up(); err != nil {
		slog.Error(err.Error())
		if !stdErrors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations to the DB: %w", err)
		}
	}
	return nil
}

const placementColumns = `id, kind,
	title_line_1, title_line_2, offer_text, offer_highlight, button_text, button_link,
	image, image_url, mobile_image, mobile_image_url, video_url,
	device, white_label_id, display_type, status, is_default, priority, sort_order,
	is_scheduled, start_date, end_date,
	background_color, text_color, animation, animation_duration, autoplay_delay,
	is_ab_test, ab_test_group, ab_test_weight,
	views, clicks, ctr, conversion_rate, revenue,
	target_audience, target_location, target_device, target_time_start, target_time_end,
	tags, category,
	version, is_published, published_at,
	created_by, updated_by, approved_by, approved_at,
	is_deleted, deleted_at, deleted_by,
	created_at, updated_at`

func scanPlacement(row pgx.Row) (entity.Placement, error) {
	var p entity.Placement
	var ttStart, ttEnd string

	err := row.Scan(
		&p.ID, &p.Kind,
		&p.TitleLine1, &p.TitleLine2, &p.OfferText, &p.OfferHighlight, &p.ButtonText, &p.ButtonLink,
		&p.Image, &p.ImageURL, &p.MobileImage, &p.MobileImageURL, &p.VideoURL,
		&p.Device, &p.WhiteLabelID, &p.DisplayType, &p.Status, &p.IsDefault, &p.Priority, &p.SortOrder,
		&p.IsScheduled, &p.StartDate, &p.EndDate,
		&p.BackgroundColor, &p.TextColor, &p.Animation, &p.AnimationDuration, &p.AutoplayDelay,
		&p.IsABTest, &p.ABTestGroup, &p.ABTestWeight,
		&p.Views, &p.Clicks, &p.CTR, &p.ConversionRate, &p.Revenue,
		&p.TargetAudience, &p.TargetLocation, &p.TargetDevice, &ttStart, &ttEnd,
		&p.Tags, &p.Category,
		&p.Version, &p.IsPublished, &p.PublishedAt,
		&p.CreatedBy, &p.UpdatedBy, &p.ApprovedBy, &p.ApprovedAt,
		&p.IsDeleted, &p.DeletedAt, &p.DeletedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return entity.Placement{}, err
	}

	if ttStart != "" || ttEnd != "" {
		p.TargetTime = &entity.TargetTime{Start: ttStart, End: ttEnd}
	}

	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stdErrors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

func (s *placementStorage) Insert(ctx context.Context, p entity.Placement) (entity.Placement, error) {

	ttStart, ttEnd := "", ""
	if p.TargetTime != nil {
		ttStart, ttEnd = p.TargetTime.Start, p.TargetTime.End
	}

	args := []any{
		p.ID, p.Kind,
		p.TitleLine1, p.TitleLine2, p.OfferText, p.OfferHighlight, p.ButtonText, p.ButtonLink,
		p.Image, p.ImageURL, p.MobileImage, p.MobileImageURL, p.VideoURL,
		p.Device, p.WhiteLabelID, p.DisplayType, p.Status, p.IsDefault, p.Priority, p.SortOrder,
		p.IsScheduled, p.StartDate, p.EndDate,
		p.BackgroundColor, p.TextColor, p.Animation, p.AnimationDuration, p.AutoplayDelay,
		p.IsABTest, p.ABTestGroup, p.ABTestWeight,
		p.Views, p.Clicks, p.CTR, p.ConversionRate, p.Revenue,
		p.TargetAudience, p.TargetLocation, p.TargetDevice, ttStart, ttEnd,
		p.Tags, p.Category,
		p.Version, p.IsPublished, p.PublishedAt,
		p.CreatedBy, p.UpdatedBy, p.ApprovedBy, p.ApprovedAt,
		p.IsDeleted, p.DeletedAt, p.DeletedBy,
		p.CreatedAt, p.UpdatedAt,
	}

	query := fmt.Sprintf(
		`INSERT INTO placements (%s)
		VALUES (%s)
		RETURNING %s;`,
		placementColumns, placeholders(len(args)), placementColumns,
	)

	row := s.client.QueryRow(ctx, query, args...)

	created, err := scanPlacement(row)
	if err != nil {
		slog.Error("error inserting placement",
			"error", err,
		)
		if isUniqueViolation(err) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "default flag is already taken in scope")
		}
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return created, nil
}

func (s *placementStorage) FindByID(ctx context.Context, id string, includeDeleted bool) (entity.Placement, error) {

	query := fmt.Sprintf(
		`SELECT %s
		FROM placements
		WHERE id = $1`,
		placementColumns,
	)
	if !includeDeleted {
		query += ` AND NOT is_deleted`
	}
	query += ";"

	row := s.client.QueryRow(ctx, query, id)

	p, err := scanPlacement(row)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
		}
		slog.Error("error selecting placement",
			"error", err,
		)
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return p, nil
}

var sortColumns = map[string]string{
	"sort_order": "sort_order",
	"priority":   "priority",
	"created_at": "created_at",
	"ctr":        "ctr",
}

func (s *placementStorage) FindMany(ctx context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error) {

	where := make([]string, 0, 8)
	args := make([]any, 0, 8)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	f := dto.Filter

	if !f.IncludeDeleted {
		where = append(where, "NOT is_deleted")
	}
	if f.Kind != "" {
		where = append(where, "kind = "+arg(f.Kind))
	}
	if len(f.Statuses) > 0 {
		where = append(where, "status = ANY("+arg(f.Statuses)+")")
	}
	if f.Device != "" {
		if f.DeviceOrAll {
			where = append(where, "(device = "+arg(f.Device)+" OR device = 'all')")
		} else {
			where = append(where, "device = "+arg(f.Device))
		}
	}
	if f.WhiteLabelID != nil {
		where = append(where, "white_label_id = "+arg(*f.WhiteLabelID))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Tag != "" {
		where = append(where, arg(f.Tag)+" = ANY(tags)")
	}
	if f.IsDefault != nil {
		where = append(where, "is_default = "+arg(*f.IsDefault))
	}

	query := fmt.Sprintf("SELECT %s\nFROM placements", placementColumns)
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}

	orderBy, ok := sortColumns[dto.SortBy]
	if !ok {
		orderBy = "sort_order"
	}
	direction := "ASC"
	if dto.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf("\nORDER BY %s %s, created_at ASC", orderBy, direction)

	if dto.Limit > 0 {
		query += "\nLIMIT " + arg(dto.Limit)
	}
	if dto.Offset > 0 {
		query += "\nOFFSET " + arg(dto.Offset)
	}
	query += ";"

	rows, err := s.client.Query(ctx, query, args...)
	if err != nil {
		slog.Error("error selecting placements",
			"error", err,
		)
		return nil, errors.NewDomainError(errors.ErrDB, "")
	}

	placements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Placement, error) {
		return scanPlacement(row)
	})
	if err != nil {
		slog.Error("error collecting rows",
			"error", err,
		)
		return nil, errors.NewDomainError(errors.ErrDB, "")
	}

	return placements, nil
}

// buildPatchSet renders the SET clause for a patch. Every patch bumps
// the version; setting status to active stamps published_at once.
func buildPatchSet(dto entity.UpdatePlacementDTO, updatedBy string, args *[]any) string {

	set := make([]string, 0, 16)

	assign := func(column string, v any) {
		*args = append(*args, v)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(*args)))
	}

	if dto.TitleLine1 != nil {
		assign("title_line_1", *dto.TitleLine1)
	}
	if dto.TitleLine2 != nil {
		assign("title_line_2", *dto.TitleLine2)
	}
	if dto.OfferText != nil {
		assign("offer_text", *dto.OfferText)
	}
	if dto.OfferHighlight != nil {
		assign("offer_highlight", *dto.OfferHighlight)
	}
	if dto.ButtonText != nil {
		assign("button_text", *dto.ButtonText)
	}
	if dto.ButtonLink != nil {
		assign("button_link", *dto.ButtonLink)
	}
	if dto.Image != nil {
		assign("image", *dto.Image)
	}
	if dto.ImageURL != nil {
		assign("image_url", *dto.ImageURL)
	}
	if dto.MobileImage != nil {
		assign("mobile_image", *dto.MobileImage)
	}
	if dto.MobileImageURL != nil {
		assign("mobile_image_url", *dto.MobileImageURL)
	}
	if dto.VideoURL != nil {
		assign("video_url", *dto.VideoURL)
	}
	if dto.Device != nil {
		assign("device", *dto.Device)
	}
	if dto.WhiteLabelID != nil {
		assign("white_label_id", *dto.WhiteLabelID)
	}
	if dto.DisplayType != nil {
		assign("display_type", *dto.DisplayType)
	}
	if dto.Status != nil {
		assign("status", *dto.Status)
		if *dto.Status == entity.StatusActive {
			set = append(set,
				"is_published = TRUE",
				"published_at = COALESCE(published_at, NOW())",
			)
		}
	}
	if dto.IsDefault != nil {
		assign("is_default", *dto.IsDefault)
	}
	if dto.Priority != nil {
		assign("priority", *dto.Priority)
	}
	if dto.SortOrder != nil {
		assign("sort_order", *dto.SortOrder)
	}
	if dto.IsScheduled != nil {
		assign("is_scheduled", *dto.IsScheduled)
	}
	if dto.StartDate != nil {
		assign("start_date", *dto.StartDate)
	}
	if dto.EndDate != nil {
		assign("end_date", *dto.EndDate)
	}
	if dto.BackgroundColor != nil {
		assign("background_color", *dto.BackgroundColor)
	}
	if dto.TextColor != nil {
		assign("text_color", *dto.TextColor)
	}
	if dto.Animation != nil {
		assign("animation", *dto.Animation)
	}
	if dto.AnimationDuration != nil {
		assign("animation_duration", *dto.AnimationDuration)
	}
	if dto.AutoplayDelay != nil {
		assign("autoplay_delay", *dto.AutoplayDelay)
	}
	if dto.IsABTest != nil {
		assign("is_ab_test", *dto.IsABTest)
	}
	if dto.ABTestGroup != nil {
		assign("ab_test_group", *dto.ABTestGroup)
	}
	if dto.ABTestWeight != nil {
		assign("ab_test_weight", *dto.ABTestWeight)
	}
	if dto.TargetAudience != nil {
		assign("target_audience", dto.TargetAudience)
	}
	if dto.TargetLocation != nil {
		assign("target_location", dto.TargetLocation)
	}
	if dto.TargetDevice != nil {
		assign("target_device", dto.TargetDevice)
	}
	if dto.TargetTime != nil {
		assign("target_time_start", dto.TargetTime.Start)
		assign("target_time_end", dto.TargetTime.End)
	}
	if dto.Tags != nil {
		assign("tags", dto.Tags)
	}
	if dto.Category != nil {
		assign("category", *dto.Category)
	}

	assign("updated_by", updatedBy)
	set = append(set,
		"updated_at = NOW()",
		"version = version + 1",
	)

	return strings.Join(set, ",\n\t\t\t")
}

func (s *placementStorage) UpdateByID(ctx context.Context, dto entity.UpdatePlacementDTO, updatedBy string) (entity.Placement, error) {

	args := make([]any, 0, 16)
	setClause := buildPatchSet(dto, updatedBy, &args)

	args = append(args, dto.ID)
	query := fmt.Sprintf(
		`UPDATE placements
		SET %s
		WHERE id = $%d AND NOT is_deleted
		RETURNING %s;`,
		setClause, len(args), placementColumns,
	)

	row := s.client.QueryRow(ctx, query, args...)

	updated, err := scanPlacement(row)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
		}
		if isUniqueViolation(err) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "default flag is already taken in scope")
		}
		slog.Error("error updating placement",
			"error", err,
		)
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return updated, nil
}

func (s *placementStorage) UpdateMany(ctx context.Context, ids []string, dto entity.UpdatePlacementDTO, updatedBy string) (int64, error) {

	args := make([]any, 0, 16)
	setClause := buildPatchSet(dto, updatedBy, &args)

	args = append(args, ids)
	query := fmt.Sprintf(
		`UPDATE placements
		SET %s
		WHERE id = ANY($%d) AND NOT is_deleted;`,
		setClause, len(args),
	)

	c, err := s.client.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errors.NewDomainError(errors.ErrConflict, "default flag is already taken in scope")
		}
		slog.Error("error bulk updating placements",
			"error", err,
		)
		return 0, errors.NewDomainError(errors.ErrDB, "")
	}

	return c.RowsAffected(), nil
}

// IncrementCounters bumps views/clicks and recomputes ctr from the
// post-increment values in the same statement, so concurrent calls can
// never write a ctr derived from stale counters.
func (s *placementStorage) IncrementCounters(ctx context.Context, id string, views, clicks int64) (entity.Placement, error) {

	query := fmt.Sprintf(
		`UPDATE placements
		SET views = views + $2,
			clicks = clicks + $3,
			ctr = CASE WHEN views + $2 > 0
				THEN (clicks + $3)::double precision / (views + $2)::double precision * 100
				ELSE 0 END,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING %s;`,
		placementColumns,
	)

	row := s.client.QueryRow(ctx, query, id, views, clicks)

	updated, err := scanPlacement(row)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
		}
		slog.Error("error incrementing placement counters",
			"error", err,
		)
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return updated, nil
}

func (s *placementStorage) SetSortOrder(ctx context.Context, id string, sortOrder int, updatedBy string) (entity.Placement, error) {

	query := fmt.Sprintf(
		`UPDATE placements
		SET sort_order = $2,
			updated_by = $3,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING %s;`,
		placementColumns,
	)

	row := s.client.QueryRow(ctx, query, id, sortOrder, updatedBy)

	updated, err := scanPlacement(row)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
		}
		slog.Error("error setting placement sort order",
			"error", err,
		)
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return updated, nil
}

func (s *placementStorage) SoftDelete(ctx context.Context, id, deletedBy string) (entity.Placement, error) {

	query := fmt.Sprintf(
		`UPDATE placements
		SET is_deleted = TRUE,
			deleted_at = NOW(),
			deleted_by = $2,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING %s;`,
		placementColumns,
	)

	row := s.client.QueryRow(ctx, query, id, deletedBy)

	deleted, err := scanPlacement(row)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
		}
		slog.Error("error soft deleting placement",
			"error", err,
		)
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return deleted, nil
}

func (s *placementStorage) Restore(ctx context.Context, id string) (entity.Placement, error) {

	query := fmt.Sprintf(
		`UPDATE placements
		SET is_deleted = FALSE,
			deleted_at = NULL,
			deleted_by = '',
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND is_deleted
		RETURNING %s;`,
		placementColumns,
	)

	row := s.client.QueryRow(ctx, query, id)

	restored, err := scanPlacement(row)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrNoDataFound, "")
		}
		// restoring a default unit while the scope already has one trips
		// the partial unique index
		if isUniqueViolation(err) {
			return entity.Placement{}, errors.NewDomainError(errors.ErrConflict, "default flag is already taken in scope")
		}
		slog.Error("error restoring placement",
			"error", err,
		)
		return entity.Placement{}, errors.NewDomainError(errors.ErrDB, "")
	}

	return restored, nil
}

func (s *placementStorage) HardDelete(ctx context.Context, id string) error {

	c, err := s.client.Exec(
		ctx,
		`DELETE FROM placements
		WHERE id = $1;`,
		id,
	)
	if err != nil {
		slog.Error("error deleting placement",
			"error", err,
		)
		return errors.NewDomainError(errors.ErrDB, "")
	}
	if c.RowsAffected() == 0 {
		return errors.NewDomainError(errors.ErrNoDataFound, "")
	}

	return nil
}

func (s *placementStorage) ClearScopeDefaults(ctx context.Context, scope entity.Scope, exceptID string) error {

	_, err := s.client.Exec(
		ctx,
		`UPDATE placements
		SET is_default = FALSE,
			version = version + 1,
			updated_at = NOW()
		WHERE kind = $1
			AND device = $2
			AND white_label_id = $3
			AND id <> $4
			AND is_default
			AND NOT is_deleted;`,
		scope.Kind, scope.Device, scope.WhiteLabelID, exceptID,
	)
	if err != nil {
		slog.Error("error clearing scope defaults",
			"scope", scope,
			"error", err,
		)
		return errors.NewDomainError(errors.ErrDB, "")
	}

	return nil
}
