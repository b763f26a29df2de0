package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog_service/config"
	"catalog_service/internal/cache"
	"catalog_service/internal/delivery"
	"catalog_service/internal/domain"
	"catalog_service/internal/repository"
	"catalog_service/internal/repository/memory"
	"catalog_service/internal/storage"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

type repositories struct {
	cars       domain.CarRepository
	categories domain.CategoryRepository
	products   domain.ProductRepository
	images     domain.ImageRepository
	users      domain.UserRepository
	tokens     domain.TokenRepository
}

// openStore returns the repositories for cfg.StoreDriver and a function
// releasing whatever they hold.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*repositories, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &repositories{store, store, store, store, store, store}, func() {}, nil
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection established.")
	if migrateOnStart {
		if err := db.Migrate(ctx, database); err != nil {
			_ = database.Close()
			return nil, nil, err
		}
		logger.Info("Schema applied.")
	}

	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Errorf("Error closing database connection: %v", err)
		} else {
			logger.Info("Database connection closed.")
		}
	}
	return &repositories{
		cars:       repository.NewPostgresCarRepository(database, logger),
		categories: repository.NewPostgresCategoryRepository(database, logger),
		products:   repository.NewPostgresProductRepository(database, logger),
		images:     repository.NewPostgresImageRepository(database, logger),
		users:      repository.NewPostgresUserRepository(database, logger),
		tokens:     repository.NewPostgresTokenRepository(database, logger),
	}, closeDB, nil
}

func openCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache.Cache, func(), error) {
	if cfg.CacheBackend == "memory" {
		logger.Info("Using in-process cache")
		return cache.NewMemoryCache(), func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("Connected to Redis at %s", cfg.RedisAddr)
	return cache.NewRedisCache(client), func() { _ = client.Close() }, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	logger.Info("Starting Catalog Service...")

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("Failed to open store: %v", err)
		return err
	}
	defer closeStore()

	backend, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("Failed to open cache: %v", err)
		return err
	}
	defer closeCache()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	aside := cache.NewAside(backend, cfg.CacheTTL, cache.NewMetrics("catalog", registry), logger)

	files, err := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		logger.Errorf("Failed to prepare media storage: %v", err)
		return err
	}

	policy := usecase.NewUpdatePolicy(cfg.UpdateWindow, cfg.EnforceOwnership)
	services := delivery.Services{
		Cars:       usecase.NewCarUseCase(repos.cars, aside, policy, logger),
		Categories: usecase.NewCategoryUseCase(repos.categories, repos.products, files, aside, cfg.InvalidateFilteredLists, logger),
		Products:   usecase.NewProductUseCase(repos.products, repos.categories, files, aside, policy, cfg.InvalidateFilteredLists, logger),
		Images:     usecase.NewImageUseCase(repos.images, repos.products, files, aside, logger),
		Auth:       usecase.NewAuthUseCase(repos.users, repos.tokens, logger),
	}
	logger.Info("Use cases initialized.")

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := delivery.NewRouter(services, delivery.RouterConfig{
		PageSize:  cfg.PageSize,
		MediaURL:  cfg.MediaURL,
		MediaRoot: files.Root(),
		Gatherer:  registry,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("Failed to start server: %v", err)
			return err
		}
		return nil
	case <-quit:
		logger.Warn("Shutdown signal received...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
		return err
	}
	logger.Info("Catalog Service shut down gracefully.")
	return nil
}
