package v1

import (
	"context"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	getAnalyticsURL = "/placement_analytics"
)

type GetAnalyticsUsecase interface {
	GetAnalytics(ctx context.Context, filter entity.PlacementFilter) (entity.PlacementAnalytics, error)
}

type getAnalyticsHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     GetAnalyticsUsecase
}

func NewGetAnalyticsHandler(usecase GetAnalyticsUsecase) *getAnalyticsHandler {
	return &getAnalyticsHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *getAnalyticsHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Get(getAnalyticsURL, handler.ServeHTTP)
}

func (h *getAnalyticsHandler) Middlewares(md ...func(http.Handler) http.Handler) *getAnalyticsHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *getAnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()

	filter := entity.PlacementFilter{
		Kind:     entity.Kind(q.Get("kind")),
		Device:   entity.Device(q.Get("device")),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
	}
	if v := q.Get("status"); v != "" {
		filter.Statuses = []entity.Status{entity.Status(v)}
	}
	if v := q.Get("white_label_id"); v != "" {
		filter.WhiteLabelID = &v
	}

	analytics, err := h.usecase.GetAnalytics(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}
