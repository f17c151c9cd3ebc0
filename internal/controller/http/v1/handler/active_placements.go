package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

const (
	activePlacementsURL = "/active_placements"
)

type GetActivePlacementsUsecase interface {
	GetActivePlacements(ctx context.Context, dto entity.ActivePlacementsDTO) ([]entity.Placement, error)
}

type activePlacementsHandler struct {
	middlewares []func(http.Handler) http.Handler
	usecase     GetActivePlacementsUsecase
}

func NewActivePlacementsHandler(usecase GetActivePlacementsUsecase) *activePlacementsHandler {
	return &activePlacementsHandler{
		usecase:     usecase,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

func (h *activePlacementsHandler) AddToRouter(r *chi.Mux) {
	var handler http.Handler
	handler = h
	for _, md := range h.middlewares {
		handler = md(h)
	}

	r.Get(activePlacementsURL, handler.ServeHTTP)
}

func (h *activePlacementsHandler) Middlewares(md ...func(http.Handler) http.Handler) *activePlacementsHandler {
	h.middlewares = append(h.middlewares, md...)
	return h
}

func (h *activePlacementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()
	slog.Debug("query", "kind", q.Get("kind"), "device", q.Get("device"))

	kind := entity.Kind(q.Get("kind"))
	if kind != entity.KindBanner && kind != entity.KindHeroSlider {
		http.Error(w, "invalid kind", http.StatusBadRequest)
		return
	}

	device := entity.Device(q.Get("device"))
	if device == "" {
		device = entity.DeviceAll
	}
	switch device {
	case entity.DeviceDesktop, entity.DeviceMobile, entity.DeviceTablet, entity.DeviceAll:
	default:
		http.Error(w, "invalid device", http.StatusBadRequest)
		return
	}

	placements, err := h.usecase.GetActivePlacements(r.Context(), entity.ActivePlacementsDTO{
		Kind:         kind,
		Device:       device,
		WhiteLabelID: q.Get("white_label_id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placements)
}
