package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	createPlacementURL = "/placement"
)

type CreatePlacementUsecase interface {
	CreatePlacement(ctx context.Context, dto entity.CreatePlacementDTO, actor entity.Actor) (entity.Placement, error)
}

type createPlacementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     CreatePlacementUsecase
}

func NewCreatePlacementHandler(usecase CreatePlacementUsecase) *createPlacementHandler {
	return &createPlacementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *createPlacementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(createPlacementURL, handler.ServeHTTP)
}

func (h *createPlacementHandler) Middlewares(md ...func(http.Handler) http.Handler) *createPlacementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *createPlacementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var dto entity.CreatePlacementDTO

	err := json.NewDecoder(r.Body).Decode(&dto)
	if err != nil {
		http.Error(w, "error decoding json request body", http.StatusBadRequest)
		return
	}

	actor, ok := actorFromContext(r)
	if !ok {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	created, err := h.usecase.CreatePlacement(r.Context(), dto, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
