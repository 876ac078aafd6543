package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/jeopardy-backend/internal/config"
	"github.com/rocketscienceinc/jeopardy-backend/internal/repository"
	"github.com/rocketscienceinc/jeopardy-backend/internal/repository/storage"
	"github.com/rocketscienceinc/jeopardy-backend/internal/service"
	"github.com/rocketscienceinc/jeopardy-backend/internal/transport/jservice"
	"github.com/rocketscienceinc/jeopardy-backend/internal/usecase"
	"github.com/rocketscienceinc/jeopardy-backend/transport/rest"
)

const evictionInterval = time.Minute

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	jserviceClient := jservice.New(logger, conf.JService.BaseURL, conf.JService.Timeout)

	categories, closeCache, err := newCategoryFetcher(ctx, logger, conf.Redis, jserviceClient)
	if err != nil {
		return err
	}
	defer closeCache()

	gameManager := usecase.NewGameManager(logger, categories, boardOptions(conf.Board), conf.SessionTTL)
	go gameManager.RunEviction(ctx, evictionInterval)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		server := rest.New(logger, gameManager, conf.RateLimit.RPS, conf.RateLimit.Burst)
		httpErrCh <- server.Start(ctx, conf.HTTPPort)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		if err = <-httpErrCh; err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}
}

func boardOptions(board config.Board) usecase.BoardOptions {
	return usecase.BoardOptions{
		CategoryCount:      board.CategoryCount,
		CluesPerCategory:   board.CluesPerCategory,
		CategoryIDSpace:    board.CategoryIDSpace,
		FetchConcurrency:   board.FetchConcurrency,
		DistinctCategories: board.DistinctCategories,
		LoadingMode:        usecase.LoadingMode(board.LoadingMode),
	}
}

// newCategoryFetcher - puts the redis cache in front of the api. The cache is
// optional: when redis is unreachable the api is used directly.
func newCategoryFetcher(
	ctx context.Context, logger *slog.Logger, conf config.Redis, api *jservice.Client,
) (service.CategoryService, func(), error) {
	log := logger.With("component", "app")

	redisAddrString := conf.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		log.Warn("running without category cache", "error", err)
		return api, func() {}, nil
	}

	closeCache := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	categoryRepo := repository.NewCategoryRepository(redisStorage, conf.CacheTTL)

	return service.NewCategoryService(logger, categoryRepo, api), closeCache, nil
}
