package v1

import (
	"context"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	setDefaultURL = "/placement/{placementID}/set_default"
)

type SetDefaultUsecase interface {
	SetDefault(ctx context.Context, id string, actor entity.Actor) (entity.Placement, error)
}

type setDefaultHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     SetDefaultUsecase
}

func NewSetDefaultHandler(usecase SetDefaultUsecase) *setDefaultHandler {
	return &setDefaultHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *setDefaultHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(setDefaultURL, handler.ServeHTTP)
}

func (h *setDefaultHandler) Middlewares(md ...func(http.Handler) http.Handler) *setDefaultHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *setDefaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

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

	updated, err := h.usecase.SetDefault(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
