package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	getPlacementURL = "/placement/{placementID}"
)

type GetPlacementUsecase interface {
	GetPlacement(ctx context.Context, id string, includeDeleted bool) (entity.Placement, error)
}

type getPlacementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     GetPlacementUsecase
}

func NewGetPlacementHandler(usecase GetPlacementUsecase) *getPlacementHandler {
	return &getPlacementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *getPlacementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Get(getPlacementURL, handler.ServeHTTP)
}

func (h *getPlacementHandler) Middlewares(md ...func(http.Handler) http.Handler) *getPlacementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *getPlacementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "placementID")
	if id == "" {
		http.Error(w, "placement id is required", http.StatusBadRequest)
		return
	}

	includeDeleted := false
	if v := r.URL.Query().Get("include_deleted"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		includeDeleted = parsed
	}

	// only admins may look at soft-deleted records
	if includeDeleted {
		actor, ok := actorFromContext(r)
		if !ok || !actor.IsAdmin {
			http.Error(w, "access is forbidden", http.StatusForbidden)
			return
		}
	}

	p, err := h.usecase.GetPlacement(r.Context(), id, includeDeleted)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
