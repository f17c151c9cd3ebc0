package v1

import (
	"context"
	"net/http"
	"strconv"
	"time"

	handlers "github.com/evermart/placement_service/internal/controller/http/v1/handler"
	middleware "github.com/evermart/placement_service/internal/controller/http/v1/middleware"
	"github.com/evermart/placement_service/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Usecases struct {
	CreatePlacement  handlers.CreatePlacementUsecase
	UpdatePlacement  handlers.UpdatePlacementUsecase
	DeletePlacement  handlers.DeletePlacementUsecase
	RestorePlacement handlers.RestorePlacementUsecase
	Duplicate        handlers.DuplicatePlacementUsecase
	ToggleStatus     handlers.ToggleStatusUsecase
	SetDefault       handlers.SetDefaultUsecase
	Reorder          handlers.ReorderPlacementsUsecase
	Bulk             handlers.BulkOperationUsecase
	Track            handlers.TrackEngagementUsecase
	GetPlacement     handlers.GetPlacementUsecase
	ListPlacements   handlers.ListPlacementsUsecase
	ActivePlacements handlers.GetActivePlacementsUsecase
	Analytics        handlers.GetAnalyticsUsecase
	CheckToken       middleware.CheckTokenUsecase
}

type httpServer struct {
	server *http.Server
}

func NewServer(address string, u Usecases) (*httpServer, error) {

	checkTokenMiddleware := middleware.NewAuthMiddleware(u.CheckToken)

	r := chi.NewMux()
	r.Use(requestMetrics)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		mux := r.(*chi.Mux)
		mux.Use(checkTokenMiddleware.Do)

		handlers.NewCreatePlacementHandler(u.CreatePlacement).AddToRouter(mux)
		handlers.NewUpdatePlacementHandler(u.UpdatePlacement).AddToRouter(mux)
		handlers.NewDeletePlacementHandler(u.DeletePlacement).AddToRouter(mux)
		handlers.NewRestorePlacementHandler(u.RestorePlacement).AddToRouter(mux)
		handlers.NewDuplicatePlacementHandler(u.Duplicate).AddToRouter(mux)
		handlers.NewToggleStatusHandler(u.ToggleStatus).AddToRouter(mux)
		handlers.NewSetDefaultHandler(u.SetDefault).AddToRouter(mux)
		handlers.NewReorderPlacementsHandler(u.Reorder).AddToRouter(mux)
		handlers.NewBulkOperationHandler(u.Bulk).AddToRouter(mux)
		handlers.NewTrackEngagementHandler(u.Track).AddToRouter(mux)
		handlers.NewGetPlacementHandler(u.GetPlacement).AddToRouter(mux)
		handlers.NewListPlacementsHandler(u.ListPlacements).AddToRouter(mux)
		handlers.NewActivePlacementsHandler(u.ActivePlacements).AddToRouter(mux)
		handlers.NewGetAnalyticsHandler(u.Analytics).AddToRouter(mux)
	})

	server := &http.Server{
		Addr:    address,
		Handler: r,
	}

	return &httpServer{server: server}, nil
}

func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		metrics.RecordRequestDuration(
			routePattern,
			r.Method,
			strconv.Itoa(ww.Status()),
			time.Since(start).Seconds(),
		)
	})
}

func (s *httpServer) Start() error {
	return s.server.ListenAndServe()
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
