package v1

import (
	"context"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	duplicatePlacementURL = "/placement/{placementID}/duplicate"
)

type DuplicatePlacementUsecase interface {
	DuplicatePlacement(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error)
}

type duplicatePlacementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     DuplicatePlacementUsecase
}

func NewDuplicatePlacementHandler(usecase DuplicatePlacementUsecase) *duplicatePlacementHandler {
	return &duplicatePlacementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *duplicatePlacementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(duplicatePlacementURL, handler.ServeHTTP)
}

func (h *duplicatePlacementHandler) Middlewares(md ...func(http.Handler) http.Handler) *duplicatePlacementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *duplicatePlacementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

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

	copy, err := h.usecase.DuplicatePlacement(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, copy)
}
