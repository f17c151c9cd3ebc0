package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	deletePlacementURL = "/placement/{placementID}"
)

type DeletePlacementUsecase interface {
	DeletePlacement(ctx context.Context, id string, actor entity.Actor) error
	HardDeletePlacement(ctx context.Context, id string, actor entity.Actor) error
}

type deletePlacementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     DeletePlacementUsecase
}

func NewDeletePlacementHandler(usecase DeletePlacementUsecase) *deletePlacementHandler {
	return &deletePlacementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *deletePlacementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Delete(deletePlacementURL, handler.ServeHTTP)
}

func (h *deletePlacementHandler) Middlewares(md ...func(http.Handler) http.Handler) *deletePlacementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *deletePlacementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "placementID")
	if id == "" {
		http.Error(w, "placement id is required", http.StatusBadRequest)
		return
	}

	hard := false
	if v := r.URL.Query().Get("hard"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hard = parsed
	}

	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	var err error
	if hard {
		err = h.usecase.HardDeletePlacement(r.Context(), id, actor)
	} else {
		err = h.usecase.DeletePlacement(r.Context(), id, actor)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
