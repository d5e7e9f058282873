package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/shortener/internal/allocator"
	"github.com/Totarae/shortener/internal/config"
	"github.com/Totarae/shortener/internal/database"
	grpcv2 "github.com/Totarae/shortener/internal/grpc/v2"
	"github.com/Totarae/shortener/internal/handlers"
	"github.com/Totarae/shortener/internal/metrics"
	"github.com/Totarae/shortener/internal/repositories"
	"github.com/Totarae/shortener/internal/router"
	"github.com/Totarae/shortener/internal/service"
	"github.com/Totarae/shortener/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("Ошибка конфигурации", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Ошибка при работе сервера", zap.Error(err))
	}
}

// run собирает зависимости и обслуживает HTTP и gRPC до отмены ctx.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init %s storage: %w", cfg.Mode, err)
	}

	m := metrics.New()
	store := storage.New(backend, logger,
		storage.WithTimeout(cfg.StoreTimeout),
		storage.WithObserver(m.StoreOps),
	)
	if err := store.Open(ctx); err != nil {
		// сервер продолжает отвечать 500, пока хранилище недоступно
		logger.Error("Хранилище недоступно", zap.String("mode", cfg.Mode), zap.Error(err))
	}

	alloc := allocator.New(store, logger, allocator.WithDefaultLength(cfg.DefaultByteLength))
	svc := service.NewShortenerService(store, alloc, logger, cfg.BaseURL,
		service.WithAllocatedCounter(m.Shortened))

	httpServer := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.NewRouter(handlers.NewHandler(svc, logger), logger, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var (
		grpcServer *grpc.Server
		grpcLis    net.Listener
	)
	if cfg.GRPCAddress != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		grpcServer = grpcv2.Register(grpcv2.NewGRPCServer(svc, logger))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress), zap.String("mode", cfg.Mode))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			logger.Info("gRPC сервер запущен", zap.String("address", grpcLis.Addr().String()))
			if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		err := httpServer.Shutdown(shutdownCtx)
		if closeErr := store.Close(shutdownCtx); closeErr != nil {
			logger.Warn("Ошибка закрытия хранилища", zap.Error(closeErr))
		}
		return err
	})

	return g.Wait()
}

// newBackend выбирает реализацию хранилища по режиму конфигурации.
func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Backend, error) {
	switch cfg.Mode {
	case config.ModeMongo:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return repositories.NewMongoRepository(client, cfg.MongoDatabase), nil
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, logger); err != nil {
			logger.Error("Ошибка миграции", zap.Error(err))
		}
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		return repositories.NewPostgresRepository(db), nil
	case config.ModeRedis:
		client, err := database.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return repositories.NewRedisRepository(client), nil
	default:
		return repositories.NewMemoryRepository(cfg.FileStoragePath, logger)
	}
}
