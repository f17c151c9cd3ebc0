package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	trackViewURL  = "/placement/{placementID}/view"
	trackClickURL = "/placement/{placementID}/click"
)

type TrackEngagementUsecase interface {
	IncrementView(ctx context.Context, id string) (entity.Placement, error)
	IncrementClick(ctx context.Context, id string) (entity.Placement, error)
}

type trackEngagementHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     TrackEngagementUsecase
}

func NewTrackEngagementHandler(usecase TrackEngagementUsecase) *trackEngagementHandler {
	return &trackEngagementHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *trackEngagementHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Post(trackViewURL, handler.ServeHTTP)
	r.Post(trackClickURL, handler.ServeHTTP)
}

func (h *trackEngagementHandler) Middlewares(md ...func(http.Handler) http.Handler) *trackEngagementHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

type engagementResponse struct {
	ID     string  `json:"id"`
	Views  int64   `json:"views"`
	Clicks int64   `json:"clicks"`
	CTR    float64 `json:"ctr"`
}

func (h *trackEngagementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "placementID")
	if id == "" {
		http.Error(w, "placement id is required", http.StatusBadRequest)
		return
	}

	var (
		updated entity.Placement
		err     error
	)

	if strings.HasSuffix(r.URL.Path, "/click") {
		updated, err = h.usecase.IncrementClick(r.Context(), id)
	} else {
		updated, err = h.usecase.IncrementView(r.Context(), id)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, engagementResponse{
		ID:     updated.ID,
		Views:  updated.Views,
		Clicks: updated.Clicks,
		CTR:    updated.CTR,
	})
}
