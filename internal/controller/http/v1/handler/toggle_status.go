package v1

import (
	"context"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	toggleStatusURL = "/placement/{placementID}/toggle_status"
)

type ToggleStatusUsecase interface {
	ToggleStatus(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error)
}

type toggleStatusHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     ToggleStatusUsecase
}

func NewToggleStatusHandler(usecase ToggleStatusUsecase) *toggleStatusHandler {
	return &toggleStatusHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *toggleStatusHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(toggleStatusURL, handler.ServeHTTP)
}

func (h *toggleStatusHandler) Middlewares(md ...func(http.Handler) http.Handler) *toggleStatusHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *toggleStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "placementID")
	if id == "" {
		http.Error(w, "placement id is required", http.StatusBadRequest)
		return
	}

	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	updated, err := h.usecase.ToggleStatus(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
