package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/knotmosaic/internal/classifier"
	"github.com/rocketscienceinc/knotmosaic/internal/config"
	"github.com/rocketscienceinc/knotmosaic/internal/repository"
	"github.com/rocketscienceinc/knotmosaic/internal/repository/storage"
	"github.com/rocketscienceinc/knotmosaic/internal/usecase"
	"github.com/rocketscienceinc/knotmosaic/transport/rest"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown session store")
)

// RunApp - runs the session service until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gameRepo, closeRepo, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close session storage", "error", err)
		}
	}()

	knotClassifier := classifier.New(logger, conf.Classifier.URL, conf.Classifier.Timeout)
	gameManager := usecase.NewGameManager(logger, gameRepo, knotClassifier)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "store", conf.Store)
	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameManager)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	switch conf.Store {
	case config.StoreMemory:
		return repository.NewMemoryGameRepository(), func() error { return nil }, nil
	case config.StoreRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == ":" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(redisStorage.Connection), redisStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Store)
	}
}
