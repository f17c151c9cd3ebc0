package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	bulkOperationURL = "/placement/bulk"
)

type BulkOperationUsecase interface {
	BulkOperation(ctx context.Context, dto entity.BulkOperationDTO, actor entity.Actor) (entity.BulkResult, error)
}

type bulkOperationHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     BulkOperationUsecase
}

func NewBulkOperationHandler(usecase BulkOperationUsecase) *bulkOperationHandler {
	return &bulkOperationHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *bulkOperationHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(bulkOperationURL, handler.ServeHTTP)
}

func (h *bulkOperationHandler) Middlewares(md ...func(http.Handler) http.Handler) *bulkOperationHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *bulkOperationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	var dto entity.BulkOperationDTO

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

	result, err := h.usecase.BulkOperation(r.Context(), dto, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
