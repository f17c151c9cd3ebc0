package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cache "github.com/evermart/placement_service/internal/adapter/cache/redis"
	db "github.com/evermart/placement_service/internal/adapter/db/postgres"
	"github.com/evermart/placement_service/internal/adapter/media"
	"github.com/evermart/placement_service/internal/config"
	v1 "github.com/evermart/placement_service/internal/controller/http/v1/server"
	"github.com/evermart/placement_service/internal/domain/service"
	"github.com/evermart/placement_service/internal/domain/usecase"
	"github.com/evermart/placement_service/internal/logger"
	"github.com/evermart/placement_service/pkg/client/postgresql"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	configFile := os.Getenv("CONFIG_FILE")
	cfg := config.MustBuild(configFile)

	logger.Initialize(cfg.LogLevel)
	slog.Info("config is built", "struct", cfg)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", cfg.DB.Username, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.DbName)
	postgresClient, err := postgresql.NewClient(context.Background(), dsn)
	if err != nil {
		return err
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: "",
		DB:       0,
	})

	err = db.RunMigrations(dsn)
	if err != nil {
		return err
	}

	placementStorage := db.NewPlacementStorage(postgresClient)
	placementCache := cache.NewRedisCache(redisClient, cfg.CacheExpiry)
	tokenStorage := db.NewTokenStorage(postgresClient)
	mediaService := media.NewHTTPMediaService(cfg.MediaBaseURL, time.Duration(cfg.MediaTimeout)*time.Second)

	placementService := service.NewPlacementService(placementStorage, placementCache, mediaService)
	tokenService := service.NewTokenService(tokenStorage)

	usecases := v1.Usecases{
		CreatePlacement:  usecase.NewCreatePlacementUsecase(placementService),
		UpdatePlacement:  usecase.NewUpdatePlacementUsecase(placementService),
		DeletePlacement:  usecase.NewDeletePlacementUsecase(placementService),
		RestorePlacement: usecase.NewRestorePlacementUsecase(placementService),
		Duplicate:        usecase.NewDuplicatePlacementUsecase(placementService),
		ToggleStatus:     usecase.NewToggleStatusUsecase(placementService),
		SetDefault:       usecase.NewSetDefaultUsecase(placementService),
		Reorder:          usecase.NewReorderPlacementsUsecase(placementService),
		Bulk:             usecase.NewBulkOperationUsecase(placementService),
		Track:            usecase.NewTrackEngagementUsecase(placementService),
		GetPlacement:     usecase.NewGetPlacementUsecase(placementService),
		ListPlacements:   usecase.NewListPlacementsUsecase(placementService),
		ActivePlacements: usecase.NewGetActivePlacementsUsecase(placementService),
		Analytics:        usecase.NewGetAnalyticsUsecase(placementService),
		CheckToken:       usecase.NewCheckTokenUsecase(tokenService),
	}

	s, err := v1.NewServer(cfg.RunAddress, usecases)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		<-ctx.Done()

		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Stop(ctxShutdown)
		if err != nil {
			panic(err)
		}
		slog.Info("server was successfuly shutdown")
	}()

	slog.Info("starting server")
	if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
	}

	wg.Wait()

	return nil
}
