package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	listPlacementsURL = "/placement"
)

type ListPlacementsUsecase interface {
	GetPlacements(ctx context.Context, dto entity.ListPlacementsDTO) ([]entity.Placement, error)
}

type listPlacementsHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     ListPlacementsUsecase
}

func NewListPlacementsHandler(usecase ListPlacementsUsecase) *listPlacementsHandler {
	return &listPlacementsHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *listPlacementsHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Get(listPlacementsURL, handler.ServeHTTP)
}

func (h *listPlacementsHandler) Middlewares(md ...func(http.Handler) http.Handler) *listPlacementsHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *listPlacementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()
	slog.Debug("query", "raw", r.URL.RawQuery)

	dto := entity.ListPlacementsDTO{
		Filter: entity.PlacementFilter{
			Kind:     entity.Kind(q.Get("kind")),
			Device:   entity.Device(q.Get("device")),
			Category: q.Get("category"),
			Tag:      q.Get("tag"),
		},
		SortBy: q.Get("sort_by"),
	}

	if v := q.Get("status"); v != "" {
		dto.Filter.Statuses = []entity.Status{entity.Status(v)}
	}
	if v := q.Get("white_label_id"); v != "" {
		dto.Filter.WhiteLabelID = &v
	}
	if v := q.Get("is_default"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dto.Filter.IsDefault = &parsed
	}
	if v := q.Get("include_deleted"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dto.Filter.IncludeDeleted = parsed
	}
	if v := q.Get("sort_desc"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dto.SortDesc = parsed
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dto.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dto.Offset = offset
	}

	if dto.Filter.IncludeDeleted {
		actor, ok := actorFromContext(r)
		if !ok || !actor.IsAdmin {
			http.Error(w, "access is forbidden", http.StatusForbidden)
			return
		}
	}

	placements, err := h.usecase.GetPlacements(r.Context(), dto)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placements)
}
