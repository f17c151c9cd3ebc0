package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	reorderPlacementsURL = "/placement/reorder"
)

type ReorderPlacementsUsecase interface {
	ReorderPlacements(ctx context.Context, dto entity.ReorderDTO, actor entity.Actor) error
}

type reorderPlacementsHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     ReorderPlacementsUsecase
}

func NewReorderPlacementsHandler(usecase ReorderPlacementsUsecase) *reorderPlacementsHandler {
	return &reorderPlacementsHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *reorderPlacementsHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(reorderPlacementsURL, handler.ServeHTTP)
}

func (h *reorderPlacementsHandler) Middlewares(md ...func(http.Handler) http.Handler) *reorderPlacementsHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *reorderPlacementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var dto entity.ReorderDTO

	err := json.NewDecoder(r.Body).Decode(&dto)
	if err != nil {
		http.Error(w, "error decoding json request body", http.StatusBadRequest)
		return
	}

	if len(dto.OrderedIDs) == 0 {
		http.Error(w, "ordered_ids must not be empty", http.StatusBadRequest)
		return
	}

	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	err = h.usecase.ReorderPlacements(r.Context(), dto, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
