package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	updatePlacementURL = "/placement/{placementID}"
)

type UpdatePlacementUsecase interface {
	UpdatePlacement(ctx context.Context, dto entity.UpdatePlacementDTO, actor entity.Actor) (entity.Placement, error)
}

type updatePlacementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     UpdatePlacementUsecase
}

func NewUpdatePlacementHandler(usecase UpdatePlacementUsecase) *updatePlacementHandler {
	return &updatePlacementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *updatePlacementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Patch(updatePlacementURL, handler.ServeHTTP)
}

func (h *updatePlacementHandler) Middlewares(md ...func(http.Handler) http.Handler) *updatePlacementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *updatePlacementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var dto entity.UpdatePlacementDTO

	err := json.NewDecoder(r.Body).Decode(&dto)
	if err != nil {
		http.Error(w, "error decoding json request body", http.StatusBadRequest)
		return
	}

	dto.ID = chi.URLParam(r, "placementID")
	if dto.ID == "" {
		http.Error(w, "placement id is required", http.StatusBadRequest)
		return
	}

	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	updated, err := h.usecase.UpdatePlacement(r.Context(), dto, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
