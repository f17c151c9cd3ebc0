package v1

import (
	"context"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	restorePlacementURL = "/placement/{placementID}/restore"
)

type RestorePlacementUsecase interface {
	RestorePlacement(ctx context.Context, id string) (entity.Placement, error)
}

type restorePlacementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     RestorePlacementUsecase
}

func NewRestorePlacementHandler(usecase RestorePlacementUsecase) *restorePlacementHandler {
	return &restorePlacementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *restorePlacementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(restorePlacementURL, handler.ServeHTTP)
}

func (h *restorePlacementHandler) Middlewares(md ...func(http.Handler) http.Handler) *restorePlacementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *restorePlacementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "placementID")
	if id == "" {
		http.Error(w, "placement id is required", http.StatusBadRequest)
		return
	}

	restored, err := h.usecase.RestorePlacement(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restored)
}
